package startup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearConfigEnv isolates a test from the caller's environment.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "METRICS_PORT", "METRICS_ENABLED", "DATA_DIR",
		"STORE_BACKEND", "BLOB_BACKEND", "LOG_LEVEL", "LOG_STATIC_FILES",
		"LOG_HEALTH_CHECKS", "SEED_PLACEHOLDERS", "MAX_UPLOAD_MB",
		"THUMBNAIL_SIZE", "COLLECT_INTERVAL", "UPLOAD_WORKERS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := ReadConfig("")
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	want := DefaultConfig()
	if cfg.Port != want.Port || cfg.MetricsPort != want.MetricsPort || !cfg.MetricsEnabled {
		t.Errorf("ports/metrics = %+v", cfg)
	}
	if cfg.StoreBackend != BackendSQLite || cfg.BlobBackend != BackendMemory {
		t.Errorf("backends = %s/%s", cfg.StoreBackend, cfg.BlobBackend)
	}
	if !cfg.SeedPlaceholders || cfg.MaxUploadMB != 100 || cfg.ThumbnailSize != 200 {
		t.Errorf("gallery defaults = %+v", cfg)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q with no file present", cfg.ConfigFile)
	}
	if cfg.DatabasePath != filepath.Join(cfg.DataDir, "gallery.db") || cfg.BlobDir != filepath.Join(cfg.DataDir, "blobs") {
		t.Errorf("derived paths = %s, %s", cfg.DatabasePath, cfg.BlobDir)
	}
	if cfg.UploadWorkers < 1 {
		t.Errorf("UploadWorkers = %d", cfg.UploadWorkers)
	}
}

func TestReadConfigPrecedence(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
port: "3000"
metrics_enabled: false
store_backend: memory
blob_backend: disk
max_upload_mb: 25
collect_interval: 30s
seed_placeholders: false
upload_workers: 3
`)
	t.Setenv("PORT", "4000")
	t.Setenv("THUMBNAIL_SIZE", "128")

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	// environment beats file, file beats defaults
	if cfg.Port != "4000" {
		t.Errorf("Port = %s, want env value 4000", cfg.Port)
	}
	if cfg.ThumbnailSize != 128 {
		t.Errorf("ThumbnailSize = %d, want 128", cfg.ThumbnailSize)
	}
	if cfg.MetricsEnabled || cfg.SeedPlaceholders {
		t.Error("file booleans not applied")
	}
	if cfg.StoreBackend != BackendMemory || cfg.BlobBackend != BackendDisk {
		t.Errorf("backends = %s/%s", cfg.StoreBackend, cfg.BlobBackend)
	}
	if cfg.MaxUploadMB != 25 || cfg.MaxUploadBytes() != 25<<20 {
		t.Errorf("MaxUploadMB = %d", cfg.MaxUploadMB)
	}
	if cfg.CollectInterval != 30*time.Second {
		t.Errorf("CollectInterval = %v", cfg.CollectInterval)
	}
	if cfg.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %s, want default", cfg.MetricsPort)
	}
	if cfg.UploadWorkers != 3 {
		t.Errorf("UploadWorkers = %d, want 3", cfg.UploadWorkers)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestReadConfigFromEnvPath(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "metrics_port: \"9999\"\n"))

	cfg, err := ReadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MetricsPort != "9999" {
		t.Errorf("MetricsPort = %s", cfg.MetricsPort)
	}
}

func TestReadConfigXDGLocation(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: \"5050\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	// xdg caches its base directories at init, so only check when it picked
	// up the override.
	if cfg.ConfigFile != "" && cfg.Port != "5050" {
		t.Errorf("Port = %s from %s", cfg.Port, cfg.ConfigFile)
	}
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{"bad store backend", "store_backend: redis\n", nil, "store_backend"},
		{"bad blob backend", "", map[string]string{"BLOB_BACKEND": "s3"}, "blob_backend"},
		{"bad log level", "log_level: chatty\n", nil, "log_level"},
		{"zero upload limit", "max_upload_mb: 0\n", nil, "max_upload_mb"},
		{"malformed yaml", "port: [unclosed\n", nil, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := ReadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadConfig error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadConfigMissingExplicitFile(t *testing.T) {
	clearConfigEnv(t)
	if _, err := ReadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestNeedsDataDir(t *testing.T) {
	tests := []struct {
		store, blob string
		want        bool
	}{
		{BackendSQLite, BackendMemory, true},
		{BackendMemory, BackendDisk, true},
		{BackendMemory, BackendMemory, false},
	}
	for _, tt := range tests {
		cfg := &Config{StoreBackend: tt.store, BlobBackend: tt.blob}
		if got := cfg.NeedsDataDir(); got != tt.want {
			t.Errorf("NeedsDataDir(%s, %s) = %v", tt.store, tt.blob, got)
		}
	}
}
