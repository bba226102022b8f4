// Package migrations applies the embedded schema for the SQL-backed record stores.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Driver names accepted by Up and Down.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Up applies all pending migrations. An up-to-date schema is not an error.
func Up(driver, dsn string) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", driver, err)
	}
	return nil
}

// Down reverts every migration.
func Down(driver, dsn string) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revert %s migrations: %w", driver, err)
	}
	return nil
}

func newMigrate(driver, dsn string) (*migrate.Migrate, error) {
	var dir, url string
	switch driver {
	case DriverPostgres:
		dir, url = "postgres", dsn
	case DriverSQLite:
		dir, url = "sqlite", "sqlite3://"+dsn
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}

	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("init %s migrations: %w", driver, err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	_, _ = m.Close()
}
