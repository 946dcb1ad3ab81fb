package main

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hmsdev/hospital-backend/config"
	"github.com/hmsdev/hospital-backend/internal/migrations"
	"github.com/hmsdev/hospital-backend/internal/routes"
	"github.com/hmsdev/hospital-backend/pkg/storage/sqlitedb"
)

func main() {
	cfg := config.LoadConfig()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.AppEnv != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db := sqlitedb.Connect(cfg.DatabaseDSN)
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	e := echo.New()
	e.HideBanner = true
	routes.Init(e, db, cfg)

	log.Info().Str("port", cfg.Port).Msg("Starting hospital backend")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
