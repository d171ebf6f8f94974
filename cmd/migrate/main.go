package main

import (
	"beat-ingest/internal/config"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	var (
		databaseURL string
		source      string
		up          bool
		down        bool
		version     bool
	)

	flag.StringVar(&databaseURL, "database", "", "Database connection URL; built from DB_* variables when empty")
	flag.StringVar(&source, "source", "db/migrations", "Path to migrations directory")
	flag.BoolVar(&up, "up", false, "Run up migrations")
	flag.BoolVar(&down, "down", false, "Run down migrations")
	flag.BoolVar(&version, "version", false, "Print the current schema version")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if countTrue(up, down, version) != 1 {
		logger.Error("exactly one of -up, -down or -version is required")
		os.Exit(2)
	}

	if databaseURL == "" {
		var cfg config.DatabaseConfig
		if err := envconfig.Process("", &cfg); err != nil {
			logger.Error("-database not set and DB_* variables incomplete", "error", err)
			os.Exit(2)
		}
		databaseURL = postgresURL(cfg)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.Error("failed to create database driver", "error", err)
		os.Exit(1)
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", source), "postgres", driver)
	if err != nil {
		logger.Error("failed to create migrate instance", "error", err)
		os.Exit(1)
	}

	switch {
	case version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migration applied yet")
			return
		}
		if err != nil {
			logger.Error("failed to read schema version", "error", err)
			os.Exit(1)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	case up:
		logger.Info("running UP migrations", "source", source)
		report(logger, m.Up(), "UP migrations completed successfully", "no new migrations to apply")
	case down:
		logger.Info("running DOWN migrations", "source", source)
		report(logger, m.Down(), "DOWN migrations completed successfully", "no migrations to rollback")
	}
}

func report(logger *slog.Logger, err error, done, noChange string) {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info(noChange)
	case err != nil:
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	default:
		logger.Info(done)
	}
}

func postgresURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
