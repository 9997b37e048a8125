package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanlin/lexibook/internal/api"
	"github.com/hanlin/lexibook/internal/calendar"
	"github.com/hanlin/lexibook/internal/config"
	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/statscache"
	"github.com/hanlin/lexibook/internal/upstream"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Lexibook Page Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("upstream_base_url=%s", cfg.UpstreamBaseURL)
	log.Debug("upstream_timeout=%v", cfg.UpstreamTimeout)
	log.Debug("cache_path=%s", cfg.CachePath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("page_size=%d", cfg.PageSize)
	log.Debug("default_book_id=%s", cfg.DefaultBookID)
	log.Debug("session_ttl=%v", cfg.SessionTTL)

	// Open the daily-stats cache; the calendar still works without it, so a
	// broken cache downgrades to a warning.
	cache, err := statscache.Open(cfg.CachePath)
	if err != nil {
		log.Warn("stats cache unavailable, calendar fallback disabled: %v", err)
		cache = nil
	} else {
		defer func() {
			log.Debug("closing stats cache")
			cache.Close()
		}()
	}

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	aggregator := calendar.NewAggregator(client, cache, nil)

	srv := &api.Server{
		Client:        client,
		Aggregator:    aggregator,
		Sessions:      api.NewSessionStore(cfg.SessionTTL),
		PageSize:      cfg.PageSize,
		DefaultBookID: cfg.DefaultBookID,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("shutdown complete")
}
