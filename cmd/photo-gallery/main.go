package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-gallery/internal/blobstore"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/handlers"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/memory"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/middleware"
	"photo-gallery/internal/session"
	"photo-gallery/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()
	ctx := context.Background()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Soft memory limit from the container limit, before anything large is allocated
	memory.ApplyFromEnv()

	// Open the key-value store
	storeStart := time.Now()
	store, sqlite, err := openStore(ctx, config)
	if err != nil {
		startup.LogFatal("Failed to open store: %v", err)
	}
	defer store.Close()
	keys, _ := store.Keys(ctx)
	startup.LogStoreInit(config.StoreBackend, len(keys), time.Since(storeStart))

	blobs, err := openBlobStore(config)
	if err != nil {
		startup.LogFatal("Failed to open blob store: %v", err)
	}
	startup.LogBlobStoreInit(config.BlobBackend, config.BlobDir)

	// Restore the session
	sessions, err := session.New(ctx, store)
	if err != nil {
		startup.LogFatal("Failed to restore session: %v", err)
	}
	defer sessions.Close()
	st := sessions.State()
	startup.LogSessionRestored(st.IsAuthenticated, st.IsAdmin)

	cat := catalog.New(store, catalog.WithSeeding(config.SeedPlaceholders))
	h := handlers.New(sessions, cat, blobs, config)

	// Refuse uploads when the heap nears the memory limit
	guard := memory.NewGuard(memory.DefaultGuardConfig())
	guard.Start()
	h.SetMemoryGuard(guard)

	// Metrics
	var collector *metrics.Collector
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.BlobsStored.Set(float64(blobs.Count()))

		var checker metrics.StoreHealthChecker
		if sqlite != nil {
			checker = sqlite
		}
		collector = metrics.NewCollector(cat, checker, config.CollectInterval)
		collector.Start()

		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      buildHandler(h, router, config),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // large uploads and blob downloads
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector, guard)
		close(done)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

// openStore opens the configured backend. The SQLite handle is returned
// separately so its gauges can be collected; it is nil for the memory store.
func openStore(ctx context.Context, config *startup.Config) (kvstore.Store, *kvstore.SQLite, error) {
	if config.StoreBackend == startup.BackendMemory {
		logging.Warn("  Using the in-memory store; all data is lost on restart")
		return kvstore.NewMemory(), nil, nil
	}
	db, err := kvstore.OpenSQLite(ctx, config.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

func openBlobStore(config *startup.Config) (blobstore.Store, error) {
	if config.BlobBackend == startup.BackendDisk {
		return blobstore.NewDisk(config.BlobDir)
	}
	return blobstore.NewMemory(), nil
}

// buildHandler wraps the router in the middleware chain. Authentication runs
// innermost so metrics and access logs also see rejected requests.
func buildHandler(h *handlers.Handlers, router http.Handler, config *startup.Config) http.Handler {
	authed := h.AuthMiddleware(router)

	measured := middleware.Metrics(middleware.DefaultMetricsConfig())(authed)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig)(measured)

	return middleware.Compression(middleware.DefaultCompressionConfig())(logged)
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes (no auth required)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Pages
	r.HandleFunc("/", h.GatePage).Methods("GET")
	r.HandleFunc("/home", h.HomePage).Methods("GET")
	r.HandleFunc("/view/{id}", h.ViewPage).Methods("GET")
	r.HandleFunc("/admin/login", h.AdminLoginPage).Methods("GET")
	r.HandleFunc("/admin/dashboard", h.AdminDashboardPage).Methods("GET")
	r.PathPrefix("/static/").Handler(h.StaticHandler())

	// Auth routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")
	auth.HandleFunc("/check", h.CheckAuth).Methods("GET")

	// Gallery
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", h.Home).Methods("GET")
	api.HandleFunc("/media", h.ListMedia).Methods("GET")
	api.HandleFunc("/media/{id}", h.GetMediaPosition).Methods("GET")
	api.HandleFunc("/ads", h.ListAds).Methods("GET")

	// Admin
	adm := api.PathPrefix("/admin").Subrouter()
	adm.Use(h.RequireAdmin)
	adm.HandleFunc("/dashboard", h.Dashboard).Methods("GET")

	adm.HandleFunc("/media", h.AdminListMedia).Methods("GET")
	adm.HandleFunc("/media", h.UploadMedia).Methods("POST")
	adm.HandleFunc("/media/{id}", h.RenameMedia).Methods("PUT")
	adm.HandleFunc("/media/{id}", h.DeleteMedia).Methods("DELETE")
	adm.HandleFunc("/media/{id}/favorite", h.SetMediaFavorite).Methods("PUT")

	adm.HandleFunc("/ads", h.AdminListAds).Methods("GET")
	adm.HandleFunc("/ads", h.CreateAd).Methods("POST")
	adm.HandleFunc("/ads/image", h.UploadAdImage).Methods("POST")
	adm.HandleFunc("/ads/{id}", h.UpdateAd).Methods("PUT")
	adm.HandleFunc("/ads/{id}", h.DeleteAd).Methods("DELETE")

	adm.HandleFunc("/users", h.ListUsers).Methods("GET")
	adm.HandleFunc("/users", h.CreateUser).Methods("POST")
	adm.HandleFunc("/users/{id}", h.UpdateUser).Methods("PUT")
	adm.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")

	adm.HandleFunc("/settings/password", h.ChangePassword).Methods("POST")
	adm.HandleFunc("/settings/admin-password", h.ChangeAdminPassword).Methods("POST")
	adm.HandleFunc("/settings/clear-cache", h.ClearCache).Methods("POST")

	// Uploaded bytes
	r.HandleFunc("/blobs/{key}", h.GetBlob).Methods("GET", "HEAD")

	return r
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	m := http.NewServeMux()
	m.Handle("/metrics", h.MetricsHandler())
	m.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      m,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, guard *memory.Guard) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	guard.Stop()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
