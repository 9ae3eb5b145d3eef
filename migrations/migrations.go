// Package migrations embeds the relational schema for each supported driver
// and applies it through golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver indicates no migrations exist for the requested driver.
var ErrUnknownDriver = errors.New("no migrations for driver")

// Source returns the embedded migration source for driver.
func Source(driver string) (source.Driver, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return iofs.New(files, driver)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// Up applies every pending migration to db. The caller keeps ownership of
// db; the migrator is only closed where that does not close the pool.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	src, err := Source(driver)
	if err != nil {
		return err
	}

	var (
		target  database.Driver
		release func() error
	)

	switch driver {
	case DriverPostgres:
		conn, err := db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("acquire migration connection: %w", err)
		}
		target, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			conn.Close()
			return fmt.Errorf("postgres migration driver: %w", err)
		}
		release = target.Close
	case DriverSQLite:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
		if err != nil {
			return fmt.Errorf("sqlite migration driver: %w", err)
		}
		release = src.Close
	}
	defer release()

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
