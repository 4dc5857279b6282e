package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/subflow/subflow/internal/api"
	"github.com/subflow/subflow/internal/config"
	"github.com/subflow/subflow/internal/logger"
	"github.com/subflow/subflow/internal/metadata"
	"github.com/subflow/subflow/internal/metadata/cinemeta"
	"github.com/subflow/subflow/internal/metadata/imdbscrape"
	"github.com/subflow/subflow/internal/provider"
	"github.com/subflow/subflow/internal/provider/sabbz"
	"github.com/subflow/subflow/internal/provider/subsunacs"
	"github.com/subflow/subflow/internal/provider/yavka"
	"github.com/subflow/subflow/internal/search"
	"github.com/subflow/subflow/internal/subtitle"
)

func main() {
	// .env is optional, absence is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	})
	defer log.Close()

	log.Info().
		Str("version", api.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting subflow")

	resolver := metadata.NewResolver(
		cinemeta.NewClient(cfg.Metadata.CinemetaURL, cfg.Fetch.Timeout, log.Logger),
		imdbscrape.NewScraper(cfg.Metadata.IMDbURL, cfg.Fetch.Timeout, log.Logger),
		log.Logger,
	)

	var providers []provider.Provider
	if cfg.Providers.Subsunacs.Enabled {
		providers = append(providers, subsunacs.New(cfg.Providers.Subsunacs.BaseURL, cfg.Fetch.Timeout, log.Logger))
	}
	if cfg.Providers.SabBz.Enabled {
		providers = append(providers, sabbz.New(cfg.Providers.SabBz.BaseURL, cfg.Fetch.Timeout, log.Logger))
	}
	if cfg.Providers.Yavka.Enabled {
		providers = append(providers, yavka.New(cfg.Providers.Yavka.BaseURL, cfg.Fetch.Timeout, log.Logger))
	}

	registry, err := provider.NewRegistry(providers...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build provider registry")
	}
	log.Info().Int("providers", registry.Len()).Msg("provider registry ready")

	searcher := search.NewService(registry, log.Logger)
	proxy := subtitle.NewProxy(registry, cfg.Fetch.Timeout, log.Logger)

	server := api.NewServer(resolver, searcher, proxy, log.Logger)

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
