package admin

import (
	"fmt"
	"time"

	"photo-gallery/internal/metrics"
)

// Clock returns the current time. Managers take one so tests can pin IDs.
type Clock func() time.Time

func recordAction(resource, action string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AdminActionsTotal.WithLabelValues(resource, action, status).Inc()
}

// newID builds "<prefix>-<unix millis>" and bumps the millisecond part until
// taken reports the ID as free.
func newID(prefix string, now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", prefix, ms)
		if !taken(id) {
			return id
		}
		ms++
	}
}
