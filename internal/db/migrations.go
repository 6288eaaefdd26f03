package db

import (
	"context"
	"fmt"
)

// SchemaVersion is the snapshot schema version stored in PRAGMA user_version.
const SchemaVersion = 1

// migrate brings an empty or older snapshot file up to SchemaVersion.
// Snapshots are disposable, so a file from an older version is rebuilt
// rather than upgraded in place.
func (db *DB) migrate() error {
	ctx := context.Background()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == SchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if version != 0 {
		for _, table := range []string{"daily_usage", "buckets", "customer_regions", "customers"} {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("failed to drop %s: %w", table, err)
			}
		}
	}

	if err := db.createSchema(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return tx.Commit()
}
