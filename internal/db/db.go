// Package db writes roster snapshots to SQLite for ad-hoc analysis.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with snapshot-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New opens (or creates) the snapshot database at path and initializes the schema.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema(ctx context.Context, tx *sql.Tx) error {
	creators := []func(context.Context, *sql.Tx) error{
		createCustomersTable,
		createCustomerRegionsTable,
		createBucketsTable,
		createDailyUsageTable,
	}
	for _, create := range creators {
		if err := create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func createCustomersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL
	);
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func createCustomerRegionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS customer_regions (
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		region TEXT NOT NULL,
		PRIMARY KEY (customer_id, region)
	);
	CREATE INDEX IF NOT EXISTS idx_customer_regions_region ON customer_regions(region);
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func createBucketsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS buckets (
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		storage_weight REAL NOT NULL,
		egress_weight REAL NOT NULL,
		PRIMARY KEY (customer_id, name)
	);
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func createDailyUsageTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS daily_usage (
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		storage_tb REAL NOT NULL,
		egress_tb REAL NOT NULL,
		requests INTEGER NOT NULL,
		PRIMARY KEY (customer_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_daily_usage_date ON daily_usage(date);
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum reclaims space left behind by replaced snapshots.
func (db *DB) Vacuum(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum snapshot: %w", err)
	}
	return nil
}
