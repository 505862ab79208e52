// Package memory keeps the server inside its container memory limit.
//
// [ApplyFromEnv] sets the Go soft memory limit (GOMEMLIMIT) from the
// container limit so the garbage collector works harder before the kernel
// OOM-kills the process:
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and nothing changes
//   - MEMORY_LIMIT: container limit in bytes, typically from the Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the heap, default 0.85
//
// A Kubernetes manifest passes the limit like this:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// Uploads are the one request that buffers whole files in memory, decodes
// images and scales thumbnails. A [Guard] samples heap usage against the
// limit; while it reports [Guard.Busy] the upload handlers answer 503 with a
// Retry-After header instead of pushing the process over the edge. The guard
// has hysteresis: it turns busy at HighWaterMark and clears only below
// LowWaterMark.
package memory
