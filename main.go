package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nemopss/fin-records/api"
	"github.com/nemopss/fin-records/auth"
	"github.com/nemopss/fin-records/categorizer"
	"github.com/nemopss/fin-records/config"
	"github.com/nemopss/fin-records/db"
	_ "github.com/nemopss/fin-records/docs"
	"github.com/nemopss/fin-records/logger"
	"github.com/nemopss/fin-records/service"
	"github.com/rs/zerolog"
)

type repository interface {
	service.Repository
	Close() error
}

// @title Finance Records API
// @version 1.0
// @description Personal income and expense records with statement import.
// @BasePath /
// @SecurityDefinitions.apikey ApiKeyAuth
// @In header
// @Name Authorization
func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to open storage")
	}
	defer store.Close()

	rules, err := categorizer.Load(cfg.CategoryRulesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CategoryRulesFile).Msg("Failed to load category rules")
	}

	gate, err := auth.NewGate(auth.Config{Secret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth gate")
	}

	handler := api.NewHandler(
		service.NewUserService(store, gate),
		service.NewTransactionService(store, rules),
	)
	r := api.NewRouter(handler, gate, log)

	log.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Msg("Starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("Server stopped")
	}
}

func openStorage(cfg *config.Config) (repository, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return db.NewGormStorage(cfg.SQLitePath)
	}
	return db.NewStorage(cfg.PostgresURL)
}
