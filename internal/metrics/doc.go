// Package metrics provides Prometheus instrumentation for the photo gallery.
//
// All metrics are registered through promauto and prefixed with
// "photo_gallery_". They fall into a few groups:
//
//   - HTTP: request counts, durations and in-flight requests, recorded by
//     the middleware package.
//   - Store: key-value operation counts and latencies recorded by the SQLite
//     store, plus connection and file size gauges.
//   - Auth: password attempts and password changes per gate.
//   - Gallery: catalog, album, ad and admin gauges refreshed by Collector,
//     and admin mutation counters.
//   - Uploads: uploaded files, bytes, blob count and thumbnail generation.
//   - Memory: heap usage against the soft limit, the busy flag and uploads
//     refused while busy.
//   - Blobs: stale NFS file handle retries on the disk blob store.
//
// Collector polls a StatsProvider on a fixed interval so gauges stay current
// without instrumenting every write path.
package metrics
