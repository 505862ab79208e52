package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"initialize_schema", "get", "set", "delete", "keys"} {
		StoreOperationsTotal.WithLabelValues(op, "success")
		StoreOperationsTotal.WithLabelValues(op, "error")
		StoreOperationDuration.WithLabelValues(op)
	}

	for _, file := range []string{"main", "wal", "shm"} {
		StoreSizeBytes.WithLabelValues(file)
	}

	for _, gate := range []string{"frontend", "admin"} {
		for _, status := range []string{"success", "failure"} {
			AuthAttemptsTotal.WithLabelValues(gate, status)
			PasswordChangesTotal.WithLabelValues(gate, status)
		}
	}

	for _, kind := range []string{"photo", "video"} {
		GalleryMediaTotal.WithLabelValues(kind)
		UploadsTotal.WithLabelValues(kind, "success")
		UploadsTotal.WithLabelValues(kind, "error")
	}

	for _, period := range []string{"today", "total"} {
		GalleryVisits.WithLabelValues(period)
	}

	for _, status := range []string{"success", "error"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, outcome := range []string{"retry", "recovered", "failed"} {
		BlobStaleRetriesTotal.WithLabelValues(outcome)
	}
}
