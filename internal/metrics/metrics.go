package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Key-value store metrics
var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_store_operations_total",
			Help: "Total number of key-value store operations",
		},
		[]string{"operation", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_store_operation_duration_seconds",
			Help:    "Key-value store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	StoreConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_store_connections_open",
			Help: "Number of open SQLite connections",
		},
	)

	StoreSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_gallery_store_size_bytes",
			Help: "Size of SQLite store files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)

	StoreKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_store_keys",
			Help: "Number of keys present in the store",
		},
	)

	StoreDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_store_decode_errors_total",
			Help: "Stored values that failed to decode",
		},
		[]string{"key"},
	)
)

// Auth metrics
var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_auth_attempts_total",
			Help: "Total number of password attempts",
		},
		[]string{"gate", "status"}, // gate: frontend|admin
	)

	PasswordChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_password_changes_total",
			Help: "Total number of password change attempts",
		},
		[]string{"gate", "status"},
	)
)

// Gallery metrics
var (
	GalleryMediaTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_gallery_media_items",
			Help: "Number of catalog items by kind",
		},
		[]string{"kind"},
	)

	GalleryFavoritesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_favorites",
			Help: "Number of catalog items marked favorite",
		},
	)

	GalleryAlbumsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_albums",
			Help: "Number of derived albums",
		},
	)

	GalleryAdsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_ad_banners",
			Help: "Number of configured ad banners",
		},
	)

	GalleryAdminsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_admin_users",
			Help: "Number of admin accounts",
		},
	)

	GalleryStorageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_media_bytes",
			Help: "Sum of catalog item sizes in bytes",
		},
	)

	GalleryVisits = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_gallery_visits",
			Help: "Visit counters as stored",
		},
		[]string{"period"}, // today|total
	)

	CatalogSeedsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_catalog_seeds_total",
			Help: "Number of times the placeholder catalog was generated",
		},
	)

	AdminActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_admin_actions_total",
			Help: "Admin panel mutations by resource, action and outcome",
		},
		[]string{"resource", "action", "status"},
	)
)

// Upload and thumbnail metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_uploads_total",
			Help: "Total number of uploaded files",
		},
		[]string{"kind", "status"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_upload_bytes_total",
			Help: "Total bytes accepted by uploads",
		},
	)

	BlobsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_blobs",
			Help: "Number of blobs held by the blob store",
		},
	)

	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_memory_usage_ratio",
			Help: "Heap in use as a fraction of the soft memory limit",
		},
	)

	MemoryBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_memory_busy",
			Help: "Whether uploads are being refused for memory pressure (1 = refusing)",
		},
	)

	UploadsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_uploads_rejected_total",
			Help: "Total number of uploads refused while memory was under pressure",
		},
	)
)

// Blob store retry metrics
var (
	BlobStaleRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_blob_stale_retries_total",
			Help: "Blob reads that hit a stale NFS file handle, by outcome",
		},
		[]string{"outcome"},
	)
)
