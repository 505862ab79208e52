package handlers

import (
	"bytes"
	"net/http"
	"time"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/viewer"

	"github.com/gorilla/mux"
)

// HomeResponse is everything the home view renders on load.
type HomeResponse struct {
	Items      []gallery.MediaItem `json:"items"`
	Categories []gallery.Category  `json:"categories"`
	Albums     []gallery.Album     `json:"albums"`
	Ads        []gallery.AdBanner  `json:"ads"`
	Visits     gallery.Visits      `json:"visits"`
}

// MediaResponse is a filtered slice of the catalog. Empty is set when the
// filter matched nothing. CanReset is set when it is also non-zero, so
// clearing every parameter would bring items back.
type MediaResponse struct {
	Items    []gallery.MediaItem `json:"items"`
	Total    int                 `json:"total"`
	Filter   catalog.Filter      `json:"filter"`
	Empty    bool                `json:"empty"`
	CanReset bool                `json:"canReset"`
}

// Home loads the catalog, seeding it on first use, and counts the visit.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.catalog.Items(ctx)
	if err != nil {
		writeError(w, "load catalog", err)
		return
	}
	ads, err := h.catalog.Ads(ctx)
	if err != nil {
		writeError(w, "load ads", err)
		return
	}
	visits, err := h.catalog.RecordVisit(ctx)
	if err != nil {
		writeError(w, "record visit", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, HomeResponse{
		Items:      items,
		Categories: catalog.DeriveCategories(items),
		Albums:     catalog.DeriveAlbums(items),
		Ads:        ads,
		Visits:     visits,
	})
}

// ListMedia narrows the catalog by category, album and free text.
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Category: q.Get("category"),
		AlbumID:  q.Get("album"),
		Query:    q.Get("q"),
	}

	items, err := h.catalog.Items(r.Context())
	if err != nil {
		writeError(w, "load catalog", err)
		return
	}
	filtered := filter.Apply(items)

	logging.Debug("ListMedia: %d of %d items match %+v", len(filtered), len(items), filter)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, MediaResponse{
		Items:    filtered,
		Total:    len(filtered),
		Filter:   filter,
		Empty:    len(filtered) == 0,
		CanReset: len(filtered) == 0 && !filter.IsZero(),
	})
}

// GetMediaPosition locates one item in the full catalog for the viewer.
func (h *Handlers) GetMediaPosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	items, err := h.catalog.Load(r.Context())
	if err != nil {
		writeError(w, "load catalog", err)
		return
	}
	pos, ok := viewer.Locate(items, id)
	if !ok {
		writeJSONError(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, pos)
}

// ListAds returns the banners in display order.
func (h *Handlers) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.catalog.Ads(r.Context())
	if err != nil {
		writeError(w, "load ads", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ads)
}

// GetBlob serves uploaded bytes. Keys are content hashes, so responses never
// change and may be cached indefinitely.
func (h *Handlers) GetBlob(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	blob, data, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		writeError(w, "read blob", err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	w.Header().Set("ETag", `"`+blob.Key+`"`)
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
}
