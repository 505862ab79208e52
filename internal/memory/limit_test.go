package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

// restoreLimit puts the runtime soft limit back after a test changes it.
func restoreLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
}

func TestApplyFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		memLimit   string
		ratio      string
		wantSource string
		wantHeap   int64
		wantRatio  float64
	}{
		{"unset", "", "", SourceNone, 0, 0},
		{"default ratio", "1073741824", "", SourceMemoryLimit, 912680550, DefaultHeapRatio},
		{"custom ratio", "1000000", "0.5", SourceMemoryLimit, 500000, 0.5},
		{"full ratio", "1000000", "1", SourceMemoryLimit, 1000000, 1},
		{"ratio out of range", "1000000", "1.5", SourceMemoryLimit, 850000, DefaultHeapRatio},
		{"ratio zero", "1000000", "0", SourceMemoryLimit, 850000, DefaultHeapRatio},
		{"ratio garbage", "1000000", "lots", SourceMemoryLimit, 850000, DefaultHeapRatio},
		{"limit garbage", "512Mi", "", SourceNone, 0, 0},
		{"limit negative", "-5", "", SourceNone, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", tt.memLimit)
			t.Setenv("MEMORY_RATIO", tt.ratio)

			got := ApplyFromEnv()
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Heap != tt.wantHeap {
				t.Errorf("Heap = %d, want %d", got.Heap, tt.wantHeap)
			}
			if got.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if got.Configured() != (tt.wantHeap > 0) {
				t.Errorf("Configured() = %v", got.Configured())
			}
			if tt.wantHeap > 0 {
				if runtimeLimit := debug.SetMemoryLimit(-1); runtimeLimit != tt.wantHeap {
					t.Errorf("runtime limit = %d, want %d", runtimeLimit, tt.wantHeap)
				}
			}
		})
	}
}

func TestApplyFromEnvGoMemLimitWins(t *testing.T) {
	restoreLimit(t)
	debug.SetMemoryLimit(math.MaxInt64)
	t.Setenv("GOMEMLIMIT", "400MiB")
	t.Setenv("MEMORY_LIMIT", "1000000")

	got := ApplyFromEnv()
	if got.Source != SourceGoMemLimit {
		t.Errorf("Source = %q, want %q", got.Source, SourceGoMemLimit)
	}
	if runtimeLimit := debug.SetMemoryLimit(-1); runtimeLimit != math.MaxInt64 {
		t.Errorf("runtime limit changed to %d", runtimeLimit)
	}
}
