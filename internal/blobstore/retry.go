package blobstore

import (
	"errors"
	"os"
	"syscall"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"

	"golang.org/x/sys/unix"
)

// RetryConfig bounds how often a disk read is retried after a stale NFS file
// handle. Other errors are returned at once.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isStaleHandle reports ESTALE, which NFS returns when a file was replaced
// under an open handle (another replica renamed a blob into place).
func isStaleHandle(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == unix.ESTALE
}

// readFile is os.ReadFile with retries on stale file handles.
func readFile(path string, config RetryConfig) ([]byte, error) {
	var data []byte
	err := withRetry(path, config, func() error {
		var err error
		data, err = os.ReadFile(path)
		return err
	})
	return data, err
}

func withRetry(path string, config RetryConfig, op func() error) error {
	backoff := config.InitialBackoff
	var err error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err = op()
		if err == nil {
			if attempt > 0 {
				logging.Info("Blob read succeeded on retry %d for %s", attempt, path)
				metrics.BlobStaleRetriesTotal.WithLabelValues("recovered").Inc()
			}
			return nil
		}
		if !isStaleHandle(err) {
			return err
		}

		if attempt < config.MaxRetries {
			metrics.BlobStaleRetriesTotal.WithLabelValues("retry").Inc()
			logging.Debug("Stale file handle for %s, retrying in %v (attempt %d/%d)",
				path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("Blob read failed after %d retries for %s: %v", config.MaxRetries, path, err)
	metrics.BlobStaleRetriesTotal.WithLabelValues("failed").Inc()
	return err
}
