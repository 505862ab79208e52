package metrics

import (
	"context"
	"time"

	"photo-gallery/internal/logging"
)

// StatsProvider supplies a snapshot of gallery state
type StatsProvider interface {
	GetStats(ctx context.Context) (Stats, error)
}

// StoreHealthChecker is implemented by stores that publish their own gauges
type StoreHealthChecker interface {
	UpdateDBMetrics()
}

// Stats holds the current statistics
type Stats struct {
	Photos      int
	Videos      int
	Favorites   int
	Albums      int
	Ads         int
	Admins      int
	StoreKeys   int
	TotalBytes  int64
	VisitsToday int
	VisitsTotal int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	storeChecker  StoreHealthChecker
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. checker may be nil.
func NewCollector(provider StatsProvider, checker StoreHealthChecker, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		storeChecker:  checker,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.storeChecker != nil {
		c.storeChecker.UpdateDBMetrics()
	}

	if c.statsProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := c.statsProvider.GetStats(ctx)
	if err != nil {
		logging.Warn("Metrics collection failed: %v", err)
		return
	}

	GalleryMediaTotal.WithLabelValues("photo").Set(float64(stats.Photos))
	GalleryMediaTotal.WithLabelValues("video").Set(float64(stats.Videos))
	GalleryFavoritesTotal.Set(float64(stats.Favorites))
	GalleryAlbumsTotal.Set(float64(stats.Albums))
	GalleryAdsTotal.Set(float64(stats.Ads))
	GalleryAdminsTotal.Set(float64(stats.Admins))
	GalleryStorageBytes.Set(float64(stats.TotalBytes))
	GalleryVisits.WithLabelValues("today").Set(float64(stats.VisitsToday))
	GalleryVisits.WithLabelValues("total").Set(float64(stats.VisitsTotal))
	StoreKeys.Set(float64(stats.StoreKeys))

	logging.Debug("Metrics collected: photos=%d, videos=%d, albums=%d, ads=%d, admins=%d",
		stats.Photos, stats.Videos, stats.Albums, stats.Ads, stats.Admins)
}
