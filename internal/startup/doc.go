// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] starts from [DefaultConfig], overlays an optional YAML file and
// then environment variables. The file is CONFIG_FILE when set, otherwise
// $XDG_CONFIG_HOME/photo-gallery/config.yaml if it exists. Keys and the
// matching environment variables:
//
//   - port / PORT: HTTP server port (default: 8080)
//   - metrics_port / METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - metrics_enabled / METRICS_ENABLED: enable the metrics server (default: true)
//   - data_dir / DATA_DIR: directory for the SQLite store and disk blobs
//     (default: $XDG_DATA_HOME/photo-gallery)
//   - store_backend / STORE_BACKEND: sqlite or memory (default: sqlite)
//   - blob_backend / BLOB_BACKEND: memory or disk (default: memory)
//   - log_level / LOG_LEVEL: debug, info, warn, error
//   - log_static_files / LOG_STATIC_FILES: log static file requests (default: false)
//   - log_health_checks / LOG_HEALTH_CHECKS: log health check requests (default: true)
//   - seed_placeholders / SEED_PLACEHOLDERS: generate the placeholder catalog on
//     first run (default: true)
//   - max_upload_mb / MAX_UPLOAD_MB: request body limit for uploads (default: 100)
//   - thumbnail_size / THUMBNAIL_SIZE: thumbnail bounding box in pixels (default: 200)
//   - upload_workers / UPLOAD_WORKERS: concurrent thumbnail jobs per upload (default: CPU-based)
//   - collect_interval / COLLECT_INTERVAL: metrics collection interval (default: 1m)
//
// [ReadConfig] performs the same resolution without logging, for the CLI.
//
// # Logging
//
// Startup output is grouped into sections separated by rule lines: banner,
// system information, configuration, directory setup, store initialization,
// HTTP routes and the final server summary. Shutdown steps are logged the
// same way.
package startup
