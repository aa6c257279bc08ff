package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meur/teamforge/internal/api"
	"github.com/meur/teamforge/internal/config"
	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/logging"
	"github.com/meur/teamforge/internal/storage"
	"github.com/meur/teamforge/internal/teams"
)

func main() {
	// Parse flags
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "YAML config file (optional)")
	port := flag.String("port", "", "Server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	datasetPath := flag.String("dataset", "", "Dataset JSON path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *datasetPath != "" {
		cfg.Dataset.Path = *datasetPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := dataset.NewProvider(cfg.Dataset.Path, logger.Named("dataset"))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if cfg.Dataset.Watch {
		go func() {
			if err := provider.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Dataset watcher stopped", zap.Error(err))
			}
		}()
	}

	// Initialize storage
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	srv := api.New(provider, store, logger.Named("api"), api.Options{
		AllowedOrigins:  cfg.AllowedOrigins(),
		RateLimit:       rate.Limit(cfg.Rate.RPS),
		RateBurst:       cfg.Rate.Burst,
		DefaultMode:     cfg.DefaultMode(),
		DefaultView:     teams.View(cfg.Teams.DefaultView),
		MaxTeams:        cfg.Teams.MaxTeams,
		IncludeConcepts: cfg.Teams.IncludeConcepts,
	})

	// Serve frontend static files (for production deployment)
	if cfg.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.StaticDir))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("TeamForge API starting",
		zap.String("addr", cfg.Addr()),
		zap.String("db", cfg.DBPath),
		zap.String("dataset", cfg.Dataset.Path),
		zap.String("dataset_version", provider.Current().Version()),
		zap.Bool("watch", cfg.Dataset.Watch))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
