package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-analyzer/internal/analysis"
	"github.com/codyseavey/tcg-analyzer/internal/api"
	"github.com/codyseavey/tcg-analyzer/internal/config"
	"github.com/codyseavey/tcg-analyzer/internal/database"
	"github.com/codyseavey/tcg-analyzer/internal/metrics"
	"github.com/codyseavey/tcg-analyzer/internal/services"
	"github.com/codyseavey/tcg-analyzer/internal/store"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := config.Load(os.Getenv("ANALYZER_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Warning: failed to close database: %v", err)
		}
	}()

	cardStore := store.NewGormStore(db, logger.Named("store"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if count, err := cardStore.Count(ctx); err != nil {
		log.Printf("Warning: failed to count cards: %v", err)
	} else {
		metrics.CardDatabaseSize.Set(float64(count))
		log.Printf("Card store holds %d cards", count)
	}

	// Initialize analysis engine
	analysisCfg := analysis.DefaultConfig()
	analysisCfg.Workers = cfg.Analysis.Workers
	analysisCfg.KeywordCacheSize = cfg.Analysis.KeywordCacheSize
	analysisCfg.Logger = logger.Named("analysis")
	if cfg.Analysis.DisableAugmenter {
		analysisCfg.Augmenter = nil
	}
	analyzer, err := analysis.NewAnalyzer(cardStore, analysisCfg)
	if err != nil {
		log.Fatalf("Failed to initialize analyzer: %v", err)
	}

	// The importer is only offered when a data directory is configured
	var importer *services.CardImporter
	if cfg.Database.DataDir != "" {
		importer = services.NewCardImporter(cfg.Database.DataDir, cardStore)
	}

	// Setup router. A nil *CardImporter must reach SetupRouter as a nil interface.
	var router http.Handler
	if importer != nil {
		router = api.SetupRouter(analyzer, importer, cfg.Server, logger.Named("api"))
	} else {
		router = api.SetupRouter(analyzer, nil, cfg.Server, logger.Named("api"))
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug() {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}
