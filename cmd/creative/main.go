// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/olegiv/creative-api/internal/cache"
	"github.com/olegiv/creative-api/internal/config"
	"github.com/olegiv/creative-api/internal/handler"
	"github.com/olegiv/creative-api/internal/handler/api"
	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/logging"
	"github.com/olegiv/creative-api/internal/middleware"
	"github.com/olegiv/creative-api/internal/scheduler"
	"github.com/olegiv/creative-api/internal/service"
	"github.com/olegiv/creative-api/internal/store"
	"github.com/olegiv/creative-api/internal/transfer"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// maxRateLimitClients bounds per-IP limiter state between cleanups.
const maxRateLimitClients = 10000

// options holds the one-shot command flags.
type options struct {
	seed       bool
	importPath string
	exportPath string
	dryRun     bool
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	var opts options
	flag.BoolVar(&opts.seed, "seed", false, "Seed starter navigation on an empty database and continue")
	flag.StringVar(&opts.importPath, "import", "", "Import content from a JSON document and exit")
	flag.StringVar(&opts.exportPath, "export", "", "Export content to a JSON document and exit")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "With -import: validate the document without writing")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "creative - content API for the agency website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_DB_PATH            SQLite database path (default: ./data/creative.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_DEFAULT_LANGUAGE   Default content language (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_LANGUAGES          Supported languages, comma separated (default: en,az,ru)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_REDIS_URL          Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CREATIVE_ADMIN_TOKEN        Bearer token for admin routes (optional, min 32 bytes in production)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("creative %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newHandler(cfg *config.Config) slog.Handler {
	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.NewJSONHandler(os.Stdout, handlerOpts)
	}
	return slog.NewTextHandler(os.Stdout, handlerOpts)
}

func run(opts options) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(newHandler(cfg))
	slog.SetDefault(logger)

	set, err := cfg.LocaleSet()
	if err != nil {
		return fmt.Errorf("configuring languages: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	logger = slog.New(logging.NewEventLogHandler(newHandler(cfg), db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed || opts.seed {
		if err := store.Seed(ctx, db, set.Default()); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	cacheManager := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheManager.Kind(), "ttl", cacheManager.TTL())

	queries := store.New(db).WithDefaultLanguage(set.Default())
	content := service.NewContent(queries, cacheManager)
	events := service.NewEventService(queries)

	switch {
	case opts.exportPath != "":
		return transfer.NewExporter(queries, set, logger).ExportToFile(ctx, opts.exportPath)
	case opts.importPath != "":
		return runImport(ctx, queries, set, content, events, logger, opts)
	}

	return serve(cfg, db, set, queries, content, events, cacheManager)
}

func runImport(ctx context.Context, queries *store.Queries, set *locale.Set, content *service.Content,
	events *service.EventService, logger *slog.Logger, opts options) error {
	importer := transfer.NewImporter(queries, set, content, events, logger)
	result, err := importer.ImportFromFile(ctx, opts.importPath, transfer.ImportOptions{DryRun: opts.dryRun})
	if result != nil {
		for _, e := range result.Errors {
			_, _ = fmt.Fprintln(os.Stderr, e.String())
		}
		for kind, n := range result.Counts {
			slog.Info("import count", "entity", kind, "count", n, "dry_run", result.DryRun)
		}
	}
	return err
}

func serve(cfg *config.Config, db *sql.DB, set *locale.Set, queries *store.Queries, content *service.Content,
	events *service.EventService, cacheManager *cache.Manager) error {
	catalog, err := service.NewCatalog(content, set)
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}
	navigation := service.NewNavigationService(content, set, events)

	globalLimiter := middleware.NewGlobalRateLimiter(cfg.RateLimit, cfg.RateBurst)
	contactLimiter := middleware.NewGlobalRateLimiter(cfg.ContactRate, cfg.ContactBurst)

	contactCleanup := scheduler.RateLimitCleanupJob(contactLimiter, maxRateLimitClients)
	contactCleanup.Name = "contact-" + contactCleanup.Name

	sched := scheduler.New(slog.Default())
	for _, job := range []scheduler.Job{
		scheduler.NavAuditJob(navigation, cfg.NavAuditSchedule),
		scheduler.CacheWarmJob(content, cfg.CacheWarmSchedule),
		scheduler.EventRetentionJob(events, cfg.EventRetention, slog.Default()),
		scheduler.RateLimitCleanupJob(globalLimiter, maxRateLimitClients),
		contactCleanup,
	} {
		if _, err := sched.Add(job); err != nil {
			return err
		}
	}

	// Startup audit; a cycle is logged and the server still starts.
	if err := navigation.Audit(context.Background()); err != nil {
		slog.Warn("navigation audit failed at startup", logging.ErrorArgs(err)...)
	}
	sched.Start()

	apiHandler, err := api.NewHandler(api.Deps{
		Catalog:    catalog,
		Navigation: navigation,
		Contact:    service.NewContactService(queries, events),
		Events:     events,
		Content:    content,
		Jobs:       sched.Registry(),
		PageSize:   cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("building api handler: %w", err)
	}
	healthHandler := handler.NewHealthHandler(db, cacheManager)
	handler.Version = appVersion

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type", middleware.LanguageHeader},
		ExposedHeaders: []string{"Content-Language"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Route("/health", func(r chi.Router) {
		r.Use(middleware.OptionalAdminToken(cfg.AdminToken))
		r.Get("/", healthHandler.Health)
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Group(func(r chi.Router) {
		r.Use(globalLimiter.Middleware())
		r.Mount("/api/v1", apiHandler.Routes(api.RouteConfig{
			AdminToken:     cfg.AdminToken,
			ContactLimiter: contactLimiter,
		}))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusNotFound, "not_found", "Resource not found", nil)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env,
			"languages", set.Codes(), "admin", cfg.AdminEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sched.Stop(ctx)

	slog.Info("server stopped")
	return nil
}
