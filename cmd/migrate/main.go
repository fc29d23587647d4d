package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jejomarc/askjejo/internal/config"
	"github.com/jejomarc/askjejo/migrations"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Database.MigrateURL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize migrations")
	}
	defer m.Close()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		log.Fatal().Str("direction", direction).Msg("Unknown direction, use 'up' or 'down'")
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No pending migrations")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Str("direction", direction).Msg("Migrations applied")
}
