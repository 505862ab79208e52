// Package handlers provides the HTTP surface of the gallery.
//
// It includes handlers for:
//   - The gate, home, viewer and admin pages (one embedded page shell)
//   - Password login and logout through the front-end and admin gates
//   - The home bootstrap, filtered media lists, viewer positions and ads
//   - Uploaded blob downloads
//   - The admin media, ad, account and settings panels
//   - Health checks, version and Prometheus metrics
//
// The session is process-wide: there are no cookies, and every request sees
// the flags held by the session manager.
//
// Uploads are refused with 503 and Retry-After while the memory guard set by
// SetMemoryGuard reports busy.
package handlers
