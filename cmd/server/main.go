// Package main provides the HTTP server entry point.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm/logger"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/auth"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/config"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/db"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/server"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/watcher"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	settingsPath := flag.String("settings", "", "Path to YAML settings file (optional)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	store, err := db.NewStore(db.Config{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		LogLevel: logger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()
	log.Info().Msg("Database connected")

	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL.Std())
	generator := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.GenerateTimeout.Std(),
	})

	svc := server.New(cfg, store, tokens, generator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Settings file change triggers a clean exit for supervisor restart.
	if *settingsPath != "" {
		startSettingsWatcher(*settingsPath)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Str("version", Version).Bool("auth", !cfg.Debug).Msg("Starting HTTP server")
		return svc.Start()
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("Shutting down")
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return svc.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
	log.Info().Msg("Shutdown complete")
}

// startSettingsWatcher exits the process when the settings file changes,
// relying on the supervisor to restart it with the new configuration.
func startSettingsWatcher(path string) {
	w, err := watcher.New(path, func() {
		log.Warn().Str("path", path).Msg("Settings file changed, exiting for restart...")
		time.Sleep(100 * time.Millisecond) // Give logs time to flush
		os.Exit(0)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create settings watcher")
		return
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to start settings watcher")
		return
	}
	log.Info().Str("path", path).Msg("Settings file watcher started")
}
