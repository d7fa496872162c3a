package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/supporthub/internal/config"
	"github.com/cloo-solutions/supporthub/internal/database"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

const defaultMigrationsDir = "migrations"

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "Apply, roll back or inspect the SQL migrations for documents, tickets and chat logs",
	}

	cmd.PersistentFlags().String("migrations", defaultMigrationsDir, "Directory holding the SQL migrations")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := migrateSetup(cmd)
			if err != nil {
				return err
			}
			return runMigrations(cfg.DatabaseURL, dir)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := migrateSetup(cmd)
			if err != nil {
				return err
			}
			return withMigrate(cfg.DatabaseURL, dir, func(m *migrate.Migrate) error {
				if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("failed to roll back migration: %w", err)
				}
				log.Println("migrations: rolled back one step")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := migrateSetup(cmd)
			if err != nil {
				return err
			}
			return withMigrate(cfg.DatabaseURL, dir, func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Println("no migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to get migration version: %w", err)
				}
				fmt.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func migrateSetup(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasDatabase() {
		return nil, "", fmt.Errorf("SUPPORTHUB_DATABASE_URL is required")
	}
	dir, _ := cmd.Flags().GetString("migrations")
	return cfg, dir, nil
}

func migrationsSource(dir string) string {
	if strings.HasPrefix(dir, "file://") {
		return dir
	}
	return "file://" + filepath.ToSlash(dir)
}

func withMigrate(databaseURL, dir string, fn func(m *migrate.Migrate) error) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsSource(dir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return fn(m)
}

func runMigrations(databaseURL, dir string) error {
	return withMigrate(databaseURL, dir, func(m *migrate.Migrate) error {
		upErr := m.Up()
		if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", upErr)
		}

		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get migration version: %w", err)
		}

		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			log.Println("migrations: database is up to date (no migrations applied)")
		case dirty:
			return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
		case errors.Is(upErr, migrate.ErrNoChange):
			log.Printf("migrations: database is up to date (version %d)", version)
		default:
			log.Printf("migrations: applied successfully (version %d)", version)
		}
		return nil
	})
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("SUPPORTHUB_DATABASE_URL is required")
	}

	return database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
}
