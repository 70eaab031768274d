// Command reset-settings restores the inventory threshold percentages to
// their defaults and clears the cached copy.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"innoventory-ws/internal/cache"
	"innoventory-ws/internal/config"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/service"
	"innoventory-ws/internal/ws"
	"innoventory-ws/pkg/database"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.ConnectDB(cfg.DSN(), false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	var settingsCache cache.SettingsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		settingsCache = cache.NewSettingsCache(rdb, cfg.SettingsCacheTTL)
	}

	svc := service.NewSettingsService(repository.NewSettingsRepo(db), settingsCache, nil)
	settings, err := svc.Reset(context.Background(), ws.Actor{ID: "system", Name: "reset-settings"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to reset inventory settings")
	}

	log.Info().
		Int("low_percentage", settings.LowPercentage).
		Int("medium_percentage", settings.MediumPercentage).
		Msg("inventory settings reset")
}
