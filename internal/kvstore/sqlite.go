package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// SQLite is a durable Store kept in a single SQLite table.
type SQLite struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
	notifier
}

// OpenSQLite opens (creating if needed) the store at dbPath.
// The parent directory must already exist and be writable.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	logging.Info("Store path: %s", dbPath)

	if err := diagnosePermissions(dbPath); err != nil {
		logging.Warn("Store permission diagnostics: %v", err)
	}

	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLite{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	logging.Info("Store initialized successfully at %s", dbPath)
	return s, nil
}

func (s *SQLite) initialize(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`)
	recordQuery("initialize_schema", start, err)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		recordQuery("get", start, nil)
		return "", false, nil
	}
	recordQuery("get", start, err)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if err := s.write(ctx, "set", `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value); err != nil {
		return err
	}
	s.notify(key)
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if err := s.write(ctx, "delete", "DELETE FROM kv WHERE key = ?", key); err != nil {
		return err
	}
	s.notify(key)
	return nil
}

// write runs a single statement under the write lock. The lock is released
// before subscribers are notified.
func (s *SQLite) write(ctx context.Context, operation, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.db.ExecContext(ctx, query, args...)
	recordQuery(operation, start, err)
	return err
}

func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		recordQuery("keys", start, err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			recordQuery("keys", start, err)
			return nil, err
		}
		keys = append(keys, k)
	}
	err = rows.Err()
	recordQuery("keys", start, err)
	return keys, err
}

// Ping checks the connection, for readiness checks.
func (s *SQLite) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// UpdateDBMetrics publishes connection pool and file size gauges.
func (s *SQLite) UpdateDBMetrics() {
	stats := s.db.Stats()
	metrics.StoreConnectionsOpen.Set(float64(stats.OpenConnections))

	for label, suffix := range map[string]string{"main": "", "wal": "-wal", "shm": "-shm"} {
		if info, err := os.Stat(s.dbPath + suffix); err == nil {
			metrics.StoreSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
		} else {
			metrics.StoreSizeBytes.WithLabelValues(label).Set(0)
		}
	}
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(operation).Observe(duration)
}

func diagnosePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat store directory: %w", err)
	}
	logging.Debug("Store directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("store directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		logging.Debug("Store file exists: %s (mode: %v, size: %d bytes)", path, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("Store file %s is read-only! Mode: %v", path, info.Mode())
		}
	}

	return nil
}
