package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"innoventory-ws/internal/cache"
	"innoventory-ws/internal/config"
	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/router"
	"innoventory-ws/internal/service"
	"innoventory-ws/internal/stock"
	"innoventory-ws/internal/ws"
	"innoventory-ws/pkg/database"
	"innoventory-ws/pkg/jwt"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// 3. Seed privileges, admin user and the settings row
	if err := seedDefaults(context.Background(), db, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed defaults")
	}

	// 4. Optional Redis cache for the settings row
	var settingsCache cache.SettingsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		settingsCache = cache.NewSettingsCache(rdb, cfg.SettingsCacheTTL)
	} else {
		log.Info().Msg("REDIS_URL not set, settings cache disabled")
	}

	// 5. WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Wiring
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTExpiration())

	settingsService := service.NewSettingsService(repository.NewSettingsRepo(db), settingsCache, wsHub)

	app := fiber.New(fiber.Config{
		AppName: "Innoventory WS",
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	router.Setup(app, router.Deps{
		Auth:      service.NewAuthService(userRepo, tokens),
		Inventory: service.NewInventoryService(productRepo, categoryRepo, supplierRepo, settingsService, db, wsHub),
		Ledger:    service.NewLedgerService(productRepo, txRepo, db, wsHub),
		Settings:  settingsService,
		Reference: service.NewReferenceService(categoryRepo, supplierRepo, productRepo, db),
		Dashboard: service.NewDashboardService(txRepo, settingsService),
		Tokens:    tokens,
		Users:     userRepo,
		Hub:       wsHub,
	})

	// 7. Graceful Shutdown
	go func() {
		log.Info().Msgf("innoventory-ws listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// seedDefaults creates the privileges, an admin holding all of them and the
// settings row, each only if missing.
func seedDefaults(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return errors.Wrap(err, "seed privileges")
	}

	if _, err := userRepo.FindByEmail(ctx, cfg.AdminEmail); errors.Is(err, gorm.ErrRecordNotFound) {
		allPrivileges, err := privilegeRepo.FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "load privileges")
		}
		admin := &model.User{
			Email:      cfg.AdminEmail,
			FullName:   "Administrator",
			IsActive:   true,
			Privileges: allPrivileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"
		if err := admin.SetPassword(cfg.AdminPassword); err != nil {
			return errors.Wrap(err, "hash admin password")
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return errors.Wrap(err, "create admin user")
		}
		log.Info().Str("email", cfg.AdminEmail).Msg("admin user created")
	} else if err != nil {
		return errors.Wrap(err, "look up admin user")
	}

	if _, err := settingsRepo.Get(ctx); errors.Is(err, stock.ErrConfigurationMissing) {
		defaults := model.DefaultSettings()
		defaults.UpdatedBy = "system"
		if err := settingsRepo.Save(ctx, &defaults); err != nil {
			return errors.Wrap(err, "create inventory settings")
		}
		log.Info().
			Int("low_percentage", defaults.LowPercentage).
			Int("medium_percentage", defaults.MediumPercentage).
			Msg("inventory settings created")
	} else if err != nil {
		return errors.Wrap(err, "load inventory settings")
	}
	return nil
}
