package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/workers"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppName names the XDG config and data directories.
const AppName = "photo-gallery"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendDisk   = "disk"
)

// Config holds all application configuration. Values come from the defaults,
// then an optional YAML file, then environment variables.
type Config struct {
	Port             string        `koanf:"port"`
	MetricsPort      string        `koanf:"metrics_port"`
	MetricsEnabled   bool          `koanf:"metrics_enabled"`
	DataDir          string        `koanf:"data_dir"`
	StoreBackend     string        `koanf:"store_backend"`
	BlobBackend      string        `koanf:"blob_backend"`
	LogLevel         string        `koanf:"log_level"`
	LogStaticFiles   bool          `koanf:"log_static_files"`
	LogHealthChecks  bool          `koanf:"log_health_checks"`
	SeedPlaceholders bool          `koanf:"seed_placeholders"`
	MaxUploadMB      int           `koanf:"max_upload_mb"`
	ThumbnailSize    int           `koanf:"thumbnail_size"`
	CollectInterval  time.Duration `koanf:"collect_interval"`
	UploadWorkers    int           `koanf:"upload_workers"` // <= 0 picks a CPU-based default

	// Derived
	ConfigFile   string `koanf:"-"`
	DatabasePath string `koanf:"-"`
	BlobDir      string `koanf:"-"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:             "8080",
		MetricsPort:      "9090",
		MetricsEnabled:   true,
		DataDir:          filepath.Join(xdg.DataHome, AppName),
		StoreBackend:     BackendSQLite,
		BlobBackend:      BackendMemory,
		LogLevel:         "",
		LogStaticFiles:   false,
		LogHealthChecks:  true,
		SeedPlaceholders: true,
		MaxUploadMB:      100,
		ThumbnailSize:    200,
		CollectInterval:  time.Minute,
	}
}

// ReadConfig builds the configuration without logging. path selects the YAML
// file; when empty, CONFIG_FILE and then the XDG config location are tried.
// A missing file at the XDG location is not an error.
func ReadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		if found, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml")); err == nil {
			path = found
		}
	}

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		cfg.ConfigFile = path
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.DatabasePath = filepath.Join(dataDir, "gallery.db")
	cfg.BlobDir = filepath.Join(dataDir, "blobs")
	if cfg.UploadWorkers <= 0 {
		cfg.UploadWorkers = workers.ForMixed(8)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.BlobBackend = getEnv("BLOB_BACKEND", cfg.BlobBackend)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogStaticFiles = getEnvBool("LOG_STATIC_FILES", cfg.LogStaticFiles)
	cfg.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", cfg.LogHealthChecks)
	cfg.SeedPlaceholders = getEnvBool("SEED_PLACEHOLDERS", cfg.SeedPlaceholders)
	cfg.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.ThumbnailSize = getEnvInt("THUMBNAIL_SIZE", cfg.ThumbnailSize)
	cfg.CollectInterval = getEnvDuration("COLLECT_INTERVAL", cfg.CollectInterval)
	cfg.UploadWorkers = getEnvInt("UPLOAD_WORKERS", cfg.UploadWorkers)
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendSQLite, BackendMemory, c.StoreBackend)
	}
	switch c.BlobBackend {
	case BackendMemory, BackendDisk:
	default:
		return fmt.Errorf("blob_backend must be %q or %q, got %q", BackendMemory, BackendDisk, c.BlobBackend)
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("unknown log_level %q", c.LogLevel)
		}
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.CollectInterval <= 0 {
		return fmt.Errorf("collect_interval must be positive, got %v", c.CollectInterval)
	}
	return nil
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// NeedsDataDir reports whether any backend writes under DataDir.
func (c *Config) NeedsDataDir() bool {
	return c.StoreBackend == BackendSQLite || c.BlobBackend == BackendDisk
}

// LoadConfig prints the banner, reads the configuration and prepares the
// data directory, logging each step.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	cfg, err := ReadConfig("")
	if err != nil {
		return nil, err
	}

	if cfg.LogLevel != "" {
		level, _ := logging.ParseLevel(cfg.LogLevel)
		logging.SetLevel(level)
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:         %s", cfg.ConfigFile)
	} else {
		logging.Info("  Config file:         none (defaults and environment)")
	}
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  DATA_DIR:            %s", cfg.DataDir)
	logging.Info("  STORE_BACKEND:       %s", cfg.StoreBackend)
	logging.Info("  BLOB_BACKEND:        %s", cfg.BlobBackend)
	logging.Info("  SEED_PLACEHOLDERS:   %v", cfg.SeedPlaceholders)
	logging.Info("  MAX_UPLOAD_MB:       %d", cfg.MaxUploadMB)
	logging.Info("  THUMBNAIL_SIZE:      %d", cfg.ThumbnailSize)
	logging.Info("  COLLECT_INTERVAL:    %s", cfg.CollectInterval)
	logging.Info("  UPLOAD_WORKERS:      %d", cfg.UploadWorkers)
	logging.Info("  LOG_STATIC_FILES:    %v", cfg.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	if cfg.NeedsDataDir() {
		if err := ensureDirectory(cfg.DataDir, "data"); err != nil {
			return nil, fmt.Errorf("data directory error: %w", err)
		}
		logging.Debug("  Testing data directory write access...")
		if err := testWriteAccess(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("data directory is not writable: %w", err)
		}
		logging.Info("  [OK] Data directory is writable: %s", cfg.DataDir)
	} else {
		logging.Info("  No durable backends selected; data directory not used")
	}

	if cfg.BlobBackend == BackendMemory {
		logging.Warn("  Uploaded files are kept in memory and lost on restart (BLOB_BACKEND=memory)")
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Store:       %s", cfg.StoreBackend)
	logging.Info("    Uploads:     %s", cfg.BlobBackend)
	logging.Info("    Metrics:     %s", enabledString(cfg.MetricsEnabled))

	return cfg, nil
}
