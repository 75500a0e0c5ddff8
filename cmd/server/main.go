package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gvanzela/nexcore-erp/internal/config"
	"github.com/gvanzela/nexcore-erp/internal/etl"
	"github.com/gvanzela/nexcore-erp/internal/infra"
	"github.com/gvanzela/nexcore-erp/internal/router"
	"github.com/gvanzela/nexcore-erp/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Legacy source connection backs the queued extract jobs. The server
	// still comes up without it; extraction jobs then dead-letter.
	legacy, err := infra.NewLegacyDB(cfg.LegacyDatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("legacy database unavailable, extract jobs will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := etl.BuildRunner(db, legacy, infra.NewLocker(rdb), cfg.SourceSystem)
	worker.Start(ctx, rdb, etl.NewExecutor(runner), cfg.ETLQueueWorkers)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("nexcore backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
