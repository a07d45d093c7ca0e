package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Import the sqlite3 driver.

	app_errors "chat-relay/bot/internal/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// InitDB connects to an in-memory SQLite database and runs migrations.
// The database lives as long as the returned handle; on-disk DSNs are
// rejected.
func InitDB(dataSourceName string) (*sql.DB, error) {
	if !IsMemoryDSN(dataSourceName) {
		return nil, fmt.Errorf("%w: %q is not an in-memory SQLite DSN", app_errors.ErrConfig, dataSourceName)
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// runMigrations applies the embedded schema migrations. The migrate instance
// is deliberately not closed: closing it would close db as well.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// IsMemoryDSN reports whether dsn names an in-memory SQLite database.
func IsMemoryDSN(dsn string) bool {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") {
		return true
	}
	if !strings.HasPrefix(dsn, "file:") {
		return false
	}
	_, query, _ := strings.Cut(dsn, "?")
	for _, opt := range strings.Split(query, "&") {
		if opt == "mode=memory" {
			return true
		}
	}
	return false
}
