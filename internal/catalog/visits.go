package catalog

import (
	"context"
	"fmt"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/metrics"
)

// Visits returns the stored counters, zero when absent.
func (c *Catalog) Visits(ctx context.Context) (gallery.Visits, error) {
	var v gallery.Visits
	if _, err := kvstore.GetJSON(ctx, c.store, kvstore.KeyVisits, &v); err != nil {
		metrics.StoreDecodeErrors.WithLabelValues(kvstore.KeyVisits).Inc()
		return gallery.Visits{}, fmt.Errorf("load visits: %w", err)
	}
	return v, nil
}

// RecordVisit adds one to both counters and stamps lastVisit.
//
// Today is never reset when the date changes, so it tracks the same value as
// Total minus whatever was stored before the first recorded visit.
func (c *Catalog) RecordVisit(ctx context.Context) (gallery.Visits, error) {
	c.seedMu.Lock()
	defer c.seedMu.Unlock()

	v, err := c.Visits(ctx)
	if err != nil {
		return gallery.Visits{}, err
	}
	v.Today++
	v.Total++
	v.LastVisit = c.now().UTC()

	if err := kvstore.SetJSON(ctx, c.store, kvstore.KeyVisits, v); err != nil {
		return gallery.Visits{}, fmt.Errorf("save visits: %w", err)
	}
	return v, nil
}
