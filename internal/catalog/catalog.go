package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
)

// Catalog reads and writes the media array stored under mediaItems.
type Catalog struct {
	store kvstore.Store
	now   func() time.Time
	seed  bool

	randMu sync.Mutex
	rand   *rand.Rand

	// seedMu serializes load-or-seed so two first requests don't both seed
	seedMu sync.Mutex
}

// Option configures a Catalog
type Option func(*Catalog)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithRand replaces the unseeded random source used for placeholder data.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) { c.rand = r }
}

// WithSeeding turns placeholder generation on or off. On by default.
func WithSeeding(enabled bool) Option {
	return func(c *Catalog) { c.seed = enabled }
}

// New creates a Catalog over store.
func New(store kvstore.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store: store,
		now:   time.Now,
		seed:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Store exposes the underlying store to collaborators sharing it.
func (c *Catalog) Store() kvstore.Store {
	return c.store
}

// Now returns the catalog clock's current time.
func (c *Catalog) Now() time.Time {
	return c.now()
}

// Load returns the stored array, or an empty one when the key is absent.
func (c *Catalog) Load(ctx context.Context) ([]gallery.MediaItem, error) {
	var items []gallery.MediaItem
	if _, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyMediaItems, &items); err != nil {
		metrics.StoreDecodeErrors.WithLabelValues(kvstore.KeyMediaItems).Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if items == nil {
		items = []gallery.MediaItem{}
	}
	return items, nil
}

// Items returns the catalog for the gallery views. When nothing is stored yet
// and seeding is enabled, a placeholder set is generated and persisted once,
// together with the banners and zeroed visit counters if those are absent.
func (c *Catalog) Items(ctx context.Context) ([]gallery.MediaItem, error) {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()

	var items []gallery.MediaItem
	ok, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyMediaItems, &items)
	if err != nil {
		metrics.StoreDecodeErrors.WithLabelValues(kvstore.KeyMediaItems).Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if ok {
		if items == nil {
			items = []gallery.MediaItem{}
		}
		return items, nil
	}

	if !c.seed {
		return []gallery.MediaItem{}, nil
	}

	c.randMu.Lock()
	items = Placeholders(c.rand, c.now())
	c.randMu.Unlock()

	if err := c.seedIfAbsent(ctx, kvstore.KeyAdBanners, PlaceholderAds()); err != nil {
		return nil, err
	}
	if err := c.seedIfAbsent(ctx, kvstore.KeyVisits, gallery.Visits{LastVisit: c.now().UTC()}); err != nil {
		return nil, err
	}
	if err := c.Save(ctx, items); err != nil {
		return nil, err
	}
	metrics.CatalogSeedsTotal.Inc()
	logging.Info("Generated placeholder catalog with %d items", len(items))
	return items, nil
}

func (c *Catalog) seedIfAbsent(ctx context.Context, key string, v any) error {
	_, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	if ok {
		return nil
	}
	if err := kvstore.SetJSON(ctx, c.store, key, v); err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	return nil
}

// Item finds one entry by id in the stored array.
func (c *Catalog) Item(ctx context.Context, id string) (gallery.MediaItem, bool, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return gallery.MediaItem{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return gallery.MediaItem{}, false, nil
}

// Save replaces the whole stored array.
func (c *Catalog) Save(ctx context.Context, items []gallery.MediaItem) error {
	if items == nil {
		items = []gallery.MediaItem{}
	}
	if err := kvstore.SetJSON(ctx, c.store, kvstore.KeyMediaItems, items); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// Ads returns the stored banners ordered for display.
func (c *Catalog) Ads(ctx context.Context) ([]gallery.AdBanner, error) {
	var ads []gallery.AdBanner
	if _, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyAdBanners, &ads); err != nil {
		metrics.StoreDecodeErrors.WithLabelValues(kvstore.KeyAdBanners).Inc()
		return nil, fmt.Errorf("load ads: %w", err)
	}
	if ads == nil {
		ads = []gallery.AdBanner{}
	}
	SortAds(ads)
	return ads, nil
}
