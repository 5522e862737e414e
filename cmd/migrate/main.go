package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"media-pipeline/internal/adapters/repository/postgres"
	"media-pipeline/internal/app"
	"media-pipeline/internal/config"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	var (
		databaseURL string
		source      string
		up          bool
		down        bool
		steps       int
	)

	flag.StringVar(&databaseURL, "database", "", "Database connection URL, defaults to the DB_* environment")
	flag.StringVar(&source, "source", "db/migrations", "Path to migrations directory")
	flag.BoolVar(&up, "up", false, "Run up migrations")
	flag.BoolVar(&down, "down", false, "Run down migrations")
	flag.IntVar(&steps, "steps", 0, "Apply only this many migrations")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if up == down {
		logger.Error("exactly one of -up or -down is required")
		os.Exit(2)
	}

	if databaseURL == "" {
		var dbCfg config.DatabaseConfig
		if err := envconfig.Process("", &dbCfg); err != nil {
			logger.Error("-database not set and DB_* environment incomplete", "error", err)
			os.Exit(2)
		}
		databaseURL = app.DSN(dbCfg)
	}

	if err := run(databaseURL, source, up, steps, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL, source string, up bool, steps int, logger *slog.Logger) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m, err := postgres.NewMigrator(db, source)
	if err != nil {
		return err
	}

	direction := "up"
	switch {
	case steps > 0 && up:
		err = m.Steps(steps)
	case steps > 0:
		direction = "down"
		err = m.Steps(-steps)
	case up:
		err = m.Up()
	default:
		direction = "down"
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply", "direction", direction)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s migrations: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	logger.Info("migrations completed", "direction", direction, "version", version, "dirty", dirty, "version_error", verr)
	return nil
}
