package catalog

import (
	"context"
	"fmt"
	"math"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/metrics"
)

// StorageCapacityBytes is the nominal quota the dashboard reports against.
const StorageCapacityBytes int64 = 100 * 1024 * 1024 * 1024

// AlbumCount is one slice of the dashboard's album breakdown
type AlbumCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DashboardStats aggregates the catalog and visit counters for the admin
// dashboard.
type DashboardStats struct {
	TotalPhotos        int          `json:"totalPhotos"`
	TotalVideos        int          `json:"totalVideos"`
	TotalMedia         int          `json:"totalMedia"`
	TodayVisits        int          `json:"todayVisits"`
	TotalVisits        int          `json:"totalVisits"`
	StorageUsedBytes   int64        `json:"storageUsedBytes"`
	StorageUsedPercent int          `json:"storageUsed"`
	AlbumBreakdown     []AlbumCount `json:"albumBreakdown"`
}

// Dashboard computes DashboardStats from the stored catalog without seeding.
func (c *Catalog) Dashboard(ctx context.Context) (DashboardStats, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	visits, err := c.Visits(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeDashboard(items, visits), nil
}

// ComputeDashboard is the pure part of Dashboard.
func ComputeDashboard(items []gallery.MediaItem, visits gallery.Visits) DashboardStats {
	st := DashboardStats{
		TotalMedia:     len(items),
		TodayVisits:    visits.Today,
		TotalVisits:    visits.Total,
		AlbumBreakdown: []AlbumCount{},
	}

	index := make(map[string]int)
	for _, it := range items {
		switch it.Kind {
		case gallery.KindPhoto:
			st.TotalPhotos++
		case gallery.KindVideo:
			st.TotalVideos++
		}
		st.StorageUsedBytes += it.Size

		if it.AlbumName == "" {
			continue
		}
		if i, ok := index[it.AlbumName]; ok {
			st.AlbumBreakdown[i].Value++
			continue
		}
		index[it.AlbumName] = len(st.AlbumBreakdown)
		st.AlbumBreakdown = append(st.AlbumBreakdown, AlbumCount{Name: it.AlbumName, Value: 1})
	}

	st.StorageUsedPercent = int(math.Round(float64(st.StorageUsedBytes) / float64(StorageCapacityBytes) * 100))
	return st
}

// GetStats implements metrics.StatsProvider.
func (c *Catalog) GetStats(ctx context.Context) (metrics.Stats, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return metrics.Stats{}, err
	}
	visits, err := c.Visits(ctx)
	if err != nil {
		return metrics.Stats{}, err
	}

	var ads []gallery.AdBanner
	if _, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyAdBanners, &ads); err != nil {
		return metrics.Stats{}, fmt.Errorf("load ads: %w", err)
	}
	var admins []gallery.AdminUser
	if _, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyAdmins, &admins); err != nil {
		return metrics.Stats{}, fmt.Errorf("load admins: %w", err)
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return metrics.Stats{}, fmt.Errorf("list keys: %w", err)
	}

	st := metrics.Stats{
		Albums:      len(DeriveAlbums(items)),
		Ads:         len(ads),
		Admins:      len(admins),
		StoreKeys:   len(keys),
		VisitsToday: visits.Today,
		VisitsTotal: visits.Total,
	}
	for _, it := range items {
		switch it.Kind {
		case gallery.KindPhoto:
			st.Photos++
		case gallery.KindVideo:
			st.Videos++
		}
		if it.Favorite {
			st.Favorites++
		}
		st.TotalBytes += it.Size
	}
	return st, nil
}
