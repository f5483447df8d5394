package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/dynoinc/skyload/internal/api"
	"github.com/dynoinc/skyload/internal/background"
	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/discovery"
	"github.com/dynoinc/skyload/internal/middleware"
	"github.com/dynoinc/skyload/internal/orchestrator"
	"github.com/dynoinc/skyload/internal/storage"
	"github.com/dynoinc/skyload/internal/tables"
)

type config struct {
	Addr       string `split_words:"true" default:"127.0.0.1:5001"`
	StorageURL string `split_words:"true" default:"filesystem://objstore"`

	Database     database.Config
	Background   background.Config
	Bulk         bulk.Config
	Tables       tables.Config
	Discovery    discovery.Config
	Orchestrator orchestrator.Config
}

func main() {
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	debug := flag.Bool("debug", false, "Enable debug logging")
	devmode := flag.Bool("devmode", false, "Start Postgres in a local Docker container")
	flag.Parse()

	if *help {
		_ = envconfig.Usage("skyload", &config{})
		return
	}

	if *version {
		fmt.Println(versioninfo.Short())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.ErrorContext(ctx, "error loading .env file", "error", err)
		os.Exit(1)
	}

	var c config
	if err := envconfig.Process("skyload", &c); err != nil {
		slog.ErrorContext(ctx, "error processing environment variables", "error", err)
		os.Exit(1)
	}

	// Logging setup
	shortfile := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			s := a.Value.Any().(*slog.Source)
			s.File = path.Base(s.File)
		}
		return a
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   true,
		ReplaceAttr: shortfile,
	}))
	if *debug {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			AddSource:   true,
			Level:       slog.LevelDebug,
			TimeFormat:  time.Kitchen,
			ReplaceAttr: shortfile,
		}))
	}
	slog.SetDefault(logger)
	slog.InfoContext(ctx, "Starting skyload", "version", versioninfo.Short())

	// Metrics setup
	promExporter, err := prometheus.New()
	if err != nil {
		slog.ErrorContext(ctx, "setting up Prometheus exporter", "error", err)
		os.Exit(1)
	}
	meterProvider := metric.NewMeterProvider(metric.WithReader(promExporter))
	otel.SetMeterProvider(meterProvider)

	// Database setup
	if *devmode || c.Database.DevMode {
		if err := database.StartPostgresContainer(ctx, c.Database.URL); err != nil {
			slog.ErrorContext(ctx, "starting dev database", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.Pool(ctx, c.Database)
	if err != nil {
		slog.ErrorContext(ctx, "setting up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Storage setup
	store, err := storage.New(ctx, c.StorageURL)
	if err != nil {
		slog.ErrorContext(ctx, "setting up storage", "error", err)
		os.Exit(1)
	}

	tableCache, err := tables.NewCache(c.Tables, database.New(db))
	if err != nil {
		slog.ErrorContext(ctx, "setting up table cache", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := tables.Watch(ctx, db, tableCache); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "table state watcher stopped", "error", err)
		}
	}()

	servers, err := discovery.New(ctx, c.Discovery)
	if err != nil {
		slog.ErrorContext(ctx, "setting up server discovery", "error", err)
		os.Exit(1)
	}

	// Job engine setup
	env, err := background.NewEnv(c.Bulk, db, tableCache, storage.NewFS(store), servers)
	if err != nil {
		slog.ErrorContext(ctx, "setting up bulk import environment", "error", err)
		os.Exit(1)
	}
	riverClient, err := background.New(db, c.Background, env)
	if err != nil {
		slog.ErrorContext(ctx, "setting up job engine", "error", err)
		os.Exit(1)
	}
	if err := riverClient.Start(ctx); err != nil {
		slog.ErrorContext(ctx, "starting job engine", "error", err)
		os.Exit(1)
	}

	go orchestrator.NewReaper(c.Orchestrator, database.New(db), env).Run(ctx)

	// Set up HTTP mux
	mux := http.NewServeMux()
	api.Register(mux, api.RiverJobs{Client: riverClient}, tableCache)

	// Register HTTP endpoints
	mux.HandleFunc("GET /metrics", promhttp.Handler().ServeHTTP)
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fmt.Sprintf(`{"version": "%s"}`, versioninfo.Short())))
	})

	// Create server with h2c support for unencrypted HTTP/2
	server := &http.Server{
		Addr:    c.Addr,
		Handler: h2c.NewHandler(middleware.LogErrors(mux), &http2.Server{}),
	}

	// Start server in a goroutine
	go func() {
		slog.InfoContext(ctx, "starting server", "addr", c.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "server error", "error", err)
			os.Exit(1)
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal
	sig := <-sigChan
	slog.InfoContext(ctx, "received shutdown signal", "signal", sig)

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Graceful shutdown
	slog.InfoContext(ctx, "shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.WarnContext(ctx, "server shutdown failed", "error", err)
	}

	// Let running jobs finish before cancelling everything else.
	if err := riverClient.Stop(shutdownCtx); err != nil {
		slog.WarnContext(ctx, "job engine shutdown failed", "error", err)
	}
	cancel()

	slog.InfoContext(ctx, "shutdown complete")
}
