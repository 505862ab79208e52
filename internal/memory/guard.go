package memory

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
)

// GuardConfig sets when uploads are refused.
type GuardConfig struct {
	// Limit in bytes; 0 uses the runtime soft limit.
	Limit int64

	// HighWaterMark is the usage ratio at which the guard turns busy.
	HighWaterMark float64

	// LowWaterMark is the usage ratio below which a busy guard clears.
	LowWaterMark float64

	CheckInterval time.Duration
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		HighWaterMark: 0.85,
		LowWaterMark:  0.7,
		CheckInterval: 5 * time.Second,
	}
}

// Guard samples heap usage against a limit and reports when the server is
// too close to it to buffer another upload. A nil Guard is never busy.
type Guard struct {
	config GuardConfig
	limit  int64
	sample func() uint64

	mu    sync.RWMutex
	usage float64
	busy  bool

	stopOnce sync.Once
	stop     chan struct{}
}

// NewGuard returns a guard. Without an explicit or runtime limit it stays
// idle and never reports busy.
func NewGuard(config GuardConfig) *Guard {
	limit := config.Limit
	if limit == 0 {
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			limit = current
		}
	}
	if limit == 0 {
		logging.Debug("Memory guard: no memory limit configured, upload backpressure disabled")
	}

	return &Guard{
		config: config,
		limit:  limit,
		sample: heapInUse,
		stop:   make(chan struct{}),
	}
}

func heapInUse() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

// Start samples memory every CheckInterval until Stop.
func (g *Guard) Start() {
	if g.limit == 0 || g.config.CheckInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(g.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.Check()
			case <-g.stop:
				return
			}
		}
	}()
}

func (g *Guard) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Check takes one sample and updates the busy state.
func (g *Guard) Check() {
	if g.limit == 0 {
		return
	}
	usage := float64(g.sample()) / float64(g.limit)
	metrics.MemoryUsageRatio.Set(usage)

	g.mu.Lock()
	g.usage = usage
	was := g.busy
	switch {
	case usage >= g.config.HighWaterMark:
		g.busy = true
	case usage < g.config.LowWaterMark:
		g.busy = false
	}
	busy := g.busy
	g.mu.Unlock()

	if busy == was {
		return
	}
	if busy {
		logging.Warn("Memory at %.1f%% of limit, refusing uploads", usage*100)
		metrics.MemoryBusy.Set(1)
		go runtime.GC()
		return
	}
	logging.Info("Memory recovered (%.1f%% of limit), accepting uploads", usage*100)
	metrics.MemoryBusy.Set(0)
}

// Busy reports whether uploads should be turned away.
func (g *Guard) Busy() bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.busy
}

// Usage is the last sampled heap-to-limit ratio, 0 when no limit applies.
func (g *Guard) Usage() float64 {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.usage
}
