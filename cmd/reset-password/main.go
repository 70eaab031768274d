package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"innoventory-ws/internal/config"
	"innoventory-ws/internal/repository"
	"innoventory-ws/pkg/database"
)

// Resets the admin account (ADMIN_EMAIL) to ADMIN_PASSWORD.
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

	ctx := context.Background()
	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		log.Fatal().Err(err).Str("email", cfg.AdminEmail).Msg("user not found")
	}

	if err := user.SetPassword(cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	// Drop any open session.
	if err := users.UpdateTokenVersion(ctx, user.ID, ""); err != nil {
		log.Fatal().Err(err).Msg("failed to revoke session")
	}

	log.Info().Str("email", cfg.AdminEmail).Msg("password reset to ADMIN_PASSWORD")
}
