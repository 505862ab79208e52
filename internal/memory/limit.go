package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"photo-gallery/internal/logging"
)

// DefaultHeapRatio is the share of the container limit handed to the Go heap.
// The remainder covers SQLite, decode buffers and goroutine stacks.
const DefaultHeapRatio = 0.85

// Limit sources
const (
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
	SourceNone        = "none"
)

// Limit describes the soft memory limit in effect after ApplyFromEnv.
type Limit struct {
	Source    string
	Container int64 // MEMORY_LIMIT in bytes, 0 when not set
	Heap      int64 // soft limit in bytes, 0 when none is in effect
	Ratio     float64
}

// Configured reports whether a soft limit is in effect.
func (l Limit) Configured() bool {
	return l.Heap > 0
}

// ApplyFromEnv sets the runtime soft memory limit from MEMORY_LIMIT (bytes,
// usually from the Kubernetes Downward API) scaled by MEMORY_RATIO. An
// explicit GOMEMLIMIT wins and is left untouched. Call it before the stores
// are opened.
func ApplyFromEnv() Limit {
	if v := os.Getenv("GOMEMLIMIT"); v != "" {
		l := Limit{Source: SourceGoMemLimit}
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			l.Heap = current
		}
		logging.Info("GOMEMLIMIT set via environment: %s", v)
		return l
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, no soft memory limit configured")
		return Limit{Source: SourceNone}
	}
	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("Ignoring MEMORY_LIMIT %q: want a positive byte count", raw)
		return Limit{Source: SourceNone}
	}

	ratio := parseRatio(os.Getenv("MEMORY_RATIO"))
	heap := int64(float64(container) * ratio)
	debug.SetMemoryLimit(heap)

	logging.Info("Configured GOMEMLIMIT: %d MiB (%.0f%% of %d MiB container limit)",
		heap>>20, ratio*100, container>>20)

	return Limit{
		Source:    SourceMemoryLimit,
		Container: container,
		Heap:      heap,
		Ratio:     ratio,
	}
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultHeapRatio
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || r <= 0 || r > 1 {
		logging.Warn("MEMORY_RATIO %q must be in (0, 1], using %.2f", raw, DefaultHeapRatio)
		return DefaultHeapRatio
	}
	return r
}
