package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"photo-gallery/internal/blobstore"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/mediatypes"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/thumbnail"
	"photo-gallery/internal/workers"
)

// VideoPlaceholderThumbnail is the poster used for uploaded videos.
const VideoPlaceholderThumbnail = "https://space.coze.cn/api/coze_space/gen_image?image_size=square_hd&prompt=%E8%A7%86%E9%A2%91%E7%BC%A9%E7%95%A5%E5%9B%BE%20%E5%AE%B6%E5%BA%AD%20%E6%B8%A9%E9%A6%A8"

// UploadTag marks items added through the admin panel.
const UploadTag = "新上传"

// Upload is one file received from the admin panel
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Kind classifies the upload by content type, falling back to the file
// extension when the browser sent none or a generic one. Anything that is not
// video/* is treated as a photo.
func (u Upload) Kind() gallery.Kind {
	if strings.HasPrefix(u.contentType(), "video/") {
		return gallery.KindVideo
	}
	return gallery.KindPhoto
}

func (u Upload) contentType() string {
	return mediatypes.Resolve(u.ContentType, u.Filename)
}

// MediaList is the media manager's view of the catalog.
type MediaList struct {
	Items  []gallery.MediaItem `json:"items"`
	Albums []string            `json:"albums"`
	Total  int                 `json:"total"`
}

// Media manages catalog entries and their uploaded bytes.
type Media struct {
	catalog *catalog.Catalog
	blobs   blobstore.Store
	thumbs  *thumbnail.Generator
	workers int
	mu      sync.Mutex
}

// NewMedia creates a media manager. workerCount bounds concurrent thumbnail
// generation during multi-file uploads.
func NewMedia(c *catalog.Catalog, blobs blobstore.Store, thumbs *thumbnail.Generator, workerCount int) *Media {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Media{catalog: c, blobs: blobs, thumbs: thumbs, workers: workerCount}
}

// List filters and sorts a copy of the stored catalog without seeding it.
func (m *Media) List(ctx context.Context, f catalog.AdminFilter) (MediaList, error) {
	items, err := m.catalog.Load(ctx)
	if err != nil {
		return MediaList{}, err
	}
	filtered := f.Apply(items)
	return MediaList{
		Items:  filtered,
		Albums: catalog.AlbumNames(items),
		Total:  len(filtered),
	}, nil
}

// Upload stores every file in the blob store and appends one catalog entry
// per file, in input order. Photos get a generated thumbnail when possible.
// Nothing is added to the catalog if any file fails to store, and blobs
// already written for the batch are deleted unless a stored item uses them.
func (m *Media) Upload(ctx context.Context, files []Upload) (added []gallery.MediaItem, err error) {
	defer func() { recordAction("media", "upload", err) }()

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	now := m.catalog.Now().UTC()
	results := make([]gallery.MediaItem, len(files))
	errs := make([]error, len(files))

	err = workers.Each(ctx, len(files), m.workers, func(ctx context.Context, i int) {
		results[i], errs[i] = m.storeUpload(ctx, files[i])
	})
	if err == nil {
		for i, e := range errs {
			if e != nil {
				err = fmt.Errorf("upload %s: %w", files[i].Filename, e)
				break
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.discardUploads(ctx, results)
		return nil, err
	}

	items, err := m.catalog.Load(ctx)
	if err != nil {
		// Without the stored catalog there is no way to tell which blobs are
		// shared, so nothing is deleted.
		return nil, err
	}
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.ID] = true
	}

	ms := now.UnixMilli()
	for i := range results {
		it := &results[i]
		it.ID = fmt.Sprintf("%s-%d-%d", it.Kind, ms, i)
		for taken[it.ID] {
			ms++
			it.ID = fmt.Sprintf("%s-%d-%d", it.Kind, ms, i)
		}
		taken[it.ID] = true
		it.Date = now
		it.AlbumID = catalog.DefaultAlbum.ID
		it.AlbumName = catalog.DefaultAlbum.Name
		it.Tags = []string{UploadTag}
	}

	if err := m.catalog.Save(ctx, append(items, results...)); err != nil {
		m.discardUploads(ctx, results)
		return nil, err
	}
	metrics.BlobsStored.Set(float64(m.blobs.Count()))
	logging.Info("Uploaded %d file(s) to the catalog", len(results))
	return results, nil
}

// discardUploads deletes the blobs behind a failed batch, keeping any key an
// item in the stored catalog references. m.mu must be held.
func (m *Media) discardUploads(ctx context.Context, uploaded []gallery.MediaItem) {
	ctx = context.WithoutCancel(ctx)

	stored, err := m.catalog.Load(ctx)
	if err != nil {
		logging.Warn("Keeping blobs from failed upload, catalog unreadable: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, it := range uploaded {
		for _, u := range []string{it.URL, it.ThumbnailURL} {
			key, ok := BlobKey(u)
			if !ok || seen[key] || blobReferenced(stored, key) {
				continue
			}
			seen[key] = true
			if err := m.blobs.Delete(ctx, key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
				logging.Warn("Failed to delete blob %s from failed upload: %v", key, err)
			}
		}
	}
	if len(seen) > 0 {
		logging.Info("Discarded %d blob(s) from a failed upload", len(seen))
	}
	metrics.BlobsStored.Set(float64(m.blobs.Count()))
}

func (m *Media) storeUpload(ctx context.Context, f Upload) (gallery.MediaItem, error) {
	kind := f.Kind()
	blob, err := m.blobs.Put(ctx, f.contentType(), f.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(kind), "error").Inc()
		return gallery.MediaItem{}, err
	}
	metrics.UploadsTotal.WithLabelValues(string(kind), "success").Inc()
	metrics.UploadBytesTotal.Add(float64(len(f.Data)))

	item := gallery.MediaItem{
		Title: f.Filename,
		Kind:  kind,
		URL:   blob.URL(),
		Size:  blob.Size,
	}

	switch {
	case kind == gallery.KindVideo:
		item.ThumbnailURL = VideoPlaceholderThumbnail
	case m.thumbs != nil && m.thumbs.IsEnabled() && thumbnail.IsDecodable(thumbnail.DetectFormat(f.Data)):
		thumb, err := m.thumbs.Generate(f.Data)
		if err != nil {
			logging.Warn("Thumbnail generation failed for %s: %v", f.Filename, err)
			break
		}
		tb, err := m.blobs.Put(ctx, "image/jpeg", thumb)
		if err != nil {
			logging.Warn("Failed to store thumbnail for %s: %v", f.Filename, err)
			break
		}
		item.ThumbnailURL = tb.URL()
	}
	return item, nil
}

// Rename sets a new, trimmed, non-empty title.
func (m *Media) Rename(ctx context.Context, id, title string) (item gallery.MediaItem, err error) {
	defer func() { recordAction("media", "rename", err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return gallery.MediaItem{}, ErrTitleRequired
	}
	return m.update(ctx, id, func(it *gallery.MediaItem) { it.Title = title })
}

// SetFavorite marks or unmarks an item as favorite.
func (m *Media) SetFavorite(ctx context.Context, id string, favorite bool) (item gallery.MediaItem, err error) {
	defer func() { recordAction("media", "favorite", err) }()
	return m.update(ctx, id, func(it *gallery.MediaItem) { it.Favorite = favorite })
}

func (m *Media) update(ctx context.Context, id string, fn func(*gallery.MediaItem)) (gallery.MediaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.catalog.Load(ctx)
	if err != nil {
		return gallery.MediaItem{}, err
	}
	i := indexOfItem(items, id)
	if i < 0 {
		return gallery.MediaItem{}, fmt.Errorf("media %s: %w", id, ErrNotFound)
	}
	fn(&items[i])
	if err := m.catalog.Save(ctx, items); err != nil {
		return gallery.MediaItem{}, err
	}
	return items[i], nil
}

// Delete removes an item and any uploaded blobs no other item references.
func (m *Media) Delete(ctx context.Context, id string) (err error) {
	defer func() { recordAction("media", "delete", err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.catalog.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOfItem(items, id)
	if i < 0 {
		return fmt.Errorf("media %s: %w", id, ErrNotFound)
	}
	removed := items[i]
	items = append(items[:i], items[i+1:]...)
	if err := m.catalog.Save(ctx, items); err != nil {
		return err
	}

	for _, u := range []string{removed.URL, removed.ThumbnailURL} {
		key, ok := BlobKey(u)
		if !ok || blobReferenced(items, key) {
			continue
		}
		if err := m.blobs.Delete(ctx, key); err != nil {
			logging.Warn("Failed to delete blob %s for media %s: %v", key, id, err)
		}
	}
	metrics.BlobsStored.Set(float64(m.blobs.Count()))
	return nil
}

// BlobKey extracts the key from a /blobs/<key> URL.
func BlobKey(u string) (string, bool) {
	key, ok := strings.CutPrefix(u, "/blobs/")
	if !ok || !blobstore.ValidKey(key) {
		return "", false
	}
	return key, true
}

func blobReferenced(items []gallery.MediaItem, key string) bool {
	for _, it := range items {
		if k, ok := BlobKey(it.URL); ok && k == key {
			return true
		}
		if k, ok := BlobKey(it.ThumbnailURL); ok && k == key {
			return true
		}
	}
	return false
}

func indexOfItem(items []gallery.MediaItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
