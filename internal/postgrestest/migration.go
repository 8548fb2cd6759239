package postgrestest

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationsTable keeps the bookkeeping of the schema installation away
// from the message_store objects.
const MigrationsTable = "messagedb_browser_schema_migrations"

//go:embed migrations/*.sql
var schemaFiles embed.FS

// InstallSchema installs the message_store schema, its messages table and
// its read and write functions, in the database at dsn.
//
// Installing an already installed schema is a no-op.
func InstallSchema(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgrestest.InstallSchema: failed to open database, %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("postgrestest.InstallSchema: failed to reach database, %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("postgrestest.InstallSchema: failed to prepare database driver, %w", err)
	}

	source, err := iofs.New(schemaFiles, "migrations")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("postgrestest.InstallSchema: failed to read schema files, %w", err)
	}

	installer, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()

		return fmt.Errorf("postgrestest.InstallSchema: failed to prepare installation, %w", err)
	}

	// Closes both the source and the database.
	defer installer.Close()

	switch err := installer.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		return fmt.Errorf("postgrestest.InstallSchema: failed to install schema, %w", err)
	default:
		return nil
	}
}
