// Package main provides the entry point for the nearly gate service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/nearly/internal/config"
	"github.com/thebtf/nearly/internal/gate"
	"github.com/thebtf/nearly/internal/server"
	"github.com/thebtf/nearly/internal/store"
	"github.com/thebtf/nearly/pkg/dispatch"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Get()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("version", Version).
		Msg("Starting nearly gate service")

	// Background pool with per-class limits from config
	limits := make(map[dispatch.QoS]int64, len(cfg.PoolLimits))
	for name, limit := range cfg.PoolLimits {
		limits[dispatch.ParseQoS(name)] = limit
	}
	pool := dispatch.NewPool(dispatch.PoolConfig{Name: "gate", Limits: limits})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open run store")
	}

	rules := gate.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = gate.LoadRules(cfg.RulesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.RulesPath).Msg("Failed to load rules")
		}
		log.Info().Str("path", cfg.RulesPath).Int("overrides", len(rules.Metrics)).Msg("Rules loaded")
	}

	engine := gate.NewEngine(pool, dispatch.QoSUserInitiated, rules)
	srv := server.New(cfg, engine, st)

	if cfg.RulesPath != "" {
		if err := srv.WatchRules(cfg.RulesPath); err != nil {
			log.Warn().Err(err).Msg("Rules hot reload unavailable")
		}
	}

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Received shutdown signal")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	if err := pool.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Pool shutdown error")
	}
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("Store close error")
	}

	log.Info().Msg("Gate service shutdown complete")
}
