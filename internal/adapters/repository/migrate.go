package repository

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var dialects = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPgx:      "postgres",
	DriverPostgres: "postgres",
}

func setupGoose(driver string) error {
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migration dialect for driver %q", driver)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	goose.SetBaseFS(dir)
	return nil
}

// RunMigrations applies every pending migration.
func RunMigrations(db *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB, driver string) error {
	if err := setupGoose(driver); err != nil {
		return err
	}
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}
