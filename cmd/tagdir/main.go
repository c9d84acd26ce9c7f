// Copyright (c) 2026 The tag-directory Authors
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
	"github.com/joho/godotenv"

	"github.com/leopoldus11/tag-directory/internal/cache"
	"github.com/leopoldus11/tag-directory/internal/config"
	"github.com/leopoldus11/tag-directory/internal/handler"
	"github.com/leopoldus11/tag-directory/internal/handler/api"
	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/logging"
	"github.com/leopoldus11/tag-directory/internal/middleware"
	"github.com/leopoldus11/tag-directory/internal/scheduler"
	"github.com/leopoldus11/tag-directory/internal/service"
	"github.com/leopoldus11/tag-directory/internal/store"
	"github.com/leopoldus11/tag-directory/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "tagdir - Tracking blueprint directory API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_CONTENT_ROOT           Repository root holding content (default: .)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_SOURCE                 Blueprint source: files|store (default: files)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_SCRIPT_DIRS            Script directories (default: data/scripts)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_DB_DRIVER              Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_DB_DSN                 Database path or DSN (default: ./data/tagdir.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_MODERATOR_TOKEN_HASH   Moderator token hash; enables the write API\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_CACHE_TTL              Corpus cache lifetime, 0 disables (default: 0)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_REDIS_URL              Shared Redis cache, e.g. redis://localhost:6379/0\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TAGDIR_REFRESH_SCHEDULE       Corpus refresh schedule, off disables (default: @every 5m)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/leopoldus11/tag-directory\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("tagdir %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logger := slog.New(logging.NewHandler(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	slog.SetDefault(logger)

	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.NewDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Persist warnings and errors to the event log from here on.
	eventLogHandler := logging.NewEventLogHandler(logging.NewHandler(os.Stdout, cfg.LogLevel, cfg.LogFormat), db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	queries := store.NewForDriver(db, cfg.DBDriver)

	var source loader.Source
	switch cfg.Source {
	case config.SourceStore:
		source = loader.NewStoreSource(queries)
	default:
		source = loader.NewFileSource(cfg.ContentRoot, cfg.ContentDirs, cfg.LoadWorkers)
	}
	slog.Info("blueprint source selected", "source", cfg.Source, "root", cfg.ContentRoot, "dirs", cfg.ContentDirs)

	members := service.NewMemberService(queries, cfg.ContentPath(cfg.AuthorsFile), logger)
	blueprints := service.NewBlueprintService(source, queries, members, logger)
	if cfg.CacheEnabled() {
		corpusCache, err := cache.New(cache.Config{
			RedisURL: cfg.RedisURL,
			Prefix:   cache.DefaultPrefix,
			TTL:      cfg.CacheTTL,
			Fallback: true,
		}, logger)
		if err != nil {
			return fmt.Errorf("initializing cache: %w", err)
		}
		defer func() { _ = corpusCache.Close() }()
		blueprints.WithCache(corpusCache, cfg.CacheTTL)
		slog.Info("corpus cache enabled", "ttl", cfg.CacheTTL.String(), "redis", cfg.RedisURL != "")
	}
	jobs := service.NewJobService(cfg.ContentPath(cfg.JobsFile), logger)
	scripts := service.NewScriptService(loader.NewFileSource(cfg.ContentRoot, cfg.ScriptDirs, cfg.LoadWorkers), logger)
	events := service.NewEventService(queries)

	// Report the corpus once at startup so broken files show up early.
	if corpus, err := blueprints.Corpus(context.Background()); err != nil {
		slog.Warn("initial blueprint load failed", "error", err)
	} else {
		slog.Info("blueprints loaded", "valid", len(corpus.Blueprints), "rejected", len(corpus.Rejections), "warnings", len(corpus.Warnings))
	}

	sched := scheduler.New(logger)
	// Without a cache every request already reads the source.
	if cfg.CacheEnabled() {
		if err := sched.Add(scheduler.JobRefreshCorpus, cfg.RefreshSchedule, scheduler.RefreshCorpus(blueprints, logger)); err != nil {
			return err
		}
	}
	if err := sched.Add(scheduler.JobPruneEvents, cfg.PruneSchedule, scheduler.PruneEvents(events, cfg.EventRetention(), logger)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	moderator := middleware.NewModeratorAuth(cfg.ModeratorTokenHash)
	if !cfg.ModeratorEnabled() {
		slog.Warn("moderator token not configured, write API disabled")
	}

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	// Health check endpoints (no auth, for load balancers and k8s probes)
	healthHandler := handler.NewHealthHandler(db, cfg.ContentRoot, versionInfo, moderator.Authenticated)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	apiHandler := api.NewHandler(api.Deps{
		Blueprints: blueprints,
		Members:    members,
		Jobs:       jobs,
		Scripts:    scripts,
		Events:     events,
		Scheduler:  sched,
		Version:    versionInfo,
		Logger:     logger,
	})
	apiHandler.Routes(r, api.RouterConfig{
		Moderator:      moderator,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	slog.Info("REST API v1 mounted at /api/v1")

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
