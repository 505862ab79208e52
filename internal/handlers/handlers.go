package handlers

import (
	"time"

	"photo-gallery/internal/admin"
	"photo-gallery/internal/blobstore"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/memory"
	"photo-gallery/internal/session"
	"photo-gallery/internal/startup"
	"photo-gallery/internal/thumbnail"
)

// Handlers serves the gallery, admin and infrastructure endpoints over one
// session, catalog and blob store.
type Handlers struct {
	sessions *session.Manager
	catalog  *catalog.Catalog
	store    kvstore.Store
	blobs    blobstore.Store
	media    *admin.Media
	ads      *admin.Ads
	users    *admin.Users
	settings *admin.Settings
	memGuard *memory.Guard

	maxUploadBytes int64
	startTime      time.Time
}

// New builds the handlers and the admin services behind them.
func New(sessions *session.Manager, cat *catalog.Catalog, blobs blobstore.Store, config *startup.Config) *Handlers {
	store := cat.Store()
	thumbs := thumbnail.New(config.ThumbnailSize, true)

	return &Handlers{
		sessions:       sessions,
		catalog:        cat,
		store:          store,
		blobs:          blobs,
		media:          admin.NewMedia(cat, blobs, thumbs, config.UploadWorkers),
		ads:            admin.NewAds(store, cat.Now),
		users:          admin.NewUsers(store, cat.Now),
		settings:       admin.NewSettings(sessions, store),
		maxUploadBytes: config.MaxUploadBytes(),
		startTime:      time.Now(),
	}
}

// SetMemoryGuard makes the upload endpoints answer 503 while g is busy.
func (h *Handlers) SetMemoryGuard(g *memory.Guard) {
	h.memGuard = g
}
