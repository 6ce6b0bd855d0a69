package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/generation"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/stats"
	"github.com/vytor/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)
	log.Debug("generation_enabled=%t", cfg.GenerationEnabled())
	log.Debug("generation_model=%s", cfg.GenerationModel)
	log.Debug("generation_worker_count=%d", cfg.GenerationWorkerCount)
	log.Debug("generation_queue_size=%d", cfg.GenerationQueueSize)

	loc, _ := cfg.Location()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		_ = database.Close()
	}()

	store := sqlite.NewStore(database.DB, time.Now)
	deckRepo := sqlite.NewDeckRepository(store)
	cardRepo := sqlite.NewFlashcardRepository(store)
	statsRepo := sqlite.NewStatsRepository(store)
	agg := stats.New(loc)

	var (
		generationPool  *worker.Pool
		generationQueue jobs.GenerationQueue
	)
	if cfg.GenerationEnabled() {
		client := generation.New(generation.Config{
			BaseURL:       cfg.GenerationBaseURL,
			APIKey:        cfg.GenerationAPIKey,
			Model:         cfg.GenerationModel,
			Timeout:       cfg.GenerationTimeout(),
			MaxRetries:    cfg.GenerationMaxRetries,
			RatePerMinute: cfg.GenerationRatePerMinute,
		})
		generationPool = worker.NewPool("generation", cfg.GenerationWorkerCount, cfg.GenerationQueueSize)
		generationQueue = jobs.NewWorkerQueue(generationPool, client)
	} else {
		log.Warn("no generation endpoint configured, flashcard generation is disabled")
	}

	srv := &api.Server{
		Decks:       services.NewDeckService(deckRepo, cardRepo, agg, time.Now),
		Study:       services.NewStudyService(cardRepo, agg, time.Now),
		Stats:       services.NewStatsService(statsRepo, deckRepo, cardRepo, agg, time.Now),
		Generation:  services.NewGenerationService(generationQueue),
		Health:      database,
		CORSOrigins: cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if generationPool != nil {
		generationPool.Start(ctx)
	}

	// A generation request may spend every retry waiting on the upstream.
	writeTimeout := 30*time.Second + cfg.GenerationTimeout()*time.Duration(cfg.GenerationMaxRetries)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// In-flight generation requests still need the pool while the server drains.
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if generationPool != nil {
		log.Debug("stopping generation pool")
		generationPool.Stop()
	}

	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
}
