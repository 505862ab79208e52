// Package main provides the entry point for the Photo Gallery server.
//
// Photo Gallery is a small password-gated photo and video album with an admin
// panel. Visitors unlock the gallery with a shared front-end password; a
// second password opens the admin dashboard where media, ad banners, admin
// accounts and passwords are managed.
//
// # Application Lifecycle
//
//  1. Configuration Loading: defaults, then the YAML file, then environment,
//     followed by the soft memory limit (MEMORY_LIMIT, MEMORY_RATIO)
//  2. Store: opens the SQLite key-value store, or an in-memory one
//  3. Blob Store: uploaded bytes on disk or in memory
//  4. Session: restores the process-wide sign-in flags from the store
//  5. Catalog: placeholder photos and videos are generated on first use
//  6. Memory guard, then the metrics collector and server (if enabled)
//  7. HTTP Server Setup: routes, middleware, then ListenAndServe
//  8. Graceful Shutdown: handles SIGINT/SIGTERM
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - Page shell for the gate, home, viewer and admin views
//     - JSON API under /api, admin API under /api/admin
//     - Uploaded files under /blobs/{key}
//     - Health checks (/health, /healthz, /livez, /readyz) and /version
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Liveness endpoint (/health)
//
// Middleware wraps the router in this order, outermost first: gzip
// compression, W3C access logging, Prometheus request metrics, then the
// session gate.
//
// # Graceful Shutdown
//
//  1. Stop the metrics collector and the memory guard
//  2. Shutdown the metrics server (if running)
//  3. Shutdown the main HTTP server (30s timeout)
//  4. Close the session subscription and the store
//
// # Related Packages
//
//   - [photo-gallery/internal/admin]: media, ads, users and settings management
//   - [photo-gallery/internal/catalog]: media catalog, filters and statistics
//   - [photo-gallery/internal/handlers]: HTTP request handlers
//   - [photo-gallery/internal/kvstore]: key-value store backends
//   - [photo-gallery/internal/memory]: soft memory limit and upload backpressure
//   - [photo-gallery/internal/middleware]: HTTP middleware (logging, metrics, compression)
//   - [photo-gallery/internal/startup]: configuration and startup logging
package main
