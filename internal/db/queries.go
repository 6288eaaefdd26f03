package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/partner-console-tui/internal/logger"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

// SaveRoster replaces the snapshot contents with customers in a single
// transaction.
func (db *DB) SaveRoster(ctx context.Context, customers []models.Customer) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"daily_usage", "buckets", "customer_regions", "customers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	customerStmt, err := tx.PrepareContext(ctx, `INSERT INTO customers (id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare customer insert: %w", err)
	}
	defer customerStmt.Close()

	regionStmt, err := tx.PrepareContext(ctx, `INSERT INTO customer_regions (customer_id, region) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare region insert: %w", err)
	}
	defer regionStmt.Close()

	bucketStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO buckets (customer_id, name, region, storage_weight, egress_weight)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare bucket insert: %w", err)
	}
	defer bucketStmt.Close()

	usageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_usage (customer_id, date, storage_tb, egress_tb, requests)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare usage insert: %w", err)
	}
	defer usageStmt.Close()

	for i, c := range customers {
		if _, err := customerStmt.ExecContext(ctx, c.ID, i, c.Name); err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", c.ID, err)
		}
		for _, r := range c.Regions {
			if _, err := regionStmt.ExecContext(ctx, c.ID, r); err != nil {
				return fmt.Errorf("failed to insert region for %s: %w", c.ID, err)
			}
		}
		for _, b := range c.Buckets {
			if _, err := bucketStmt.ExecContext(ctx, c.ID, b.Name, b.Region, b.StorageWeight, b.EgressWeight); err != nil {
				return fmt.Errorf("failed to insert bucket %s: %w", b.Name, err)
			}
		}
		for _, p := range c.Daily {
			if _, err := usageStmt.ExecContext(ctx, c.ID, p.Date, p.StorageTB, p.EgressTB, p.Requests); err != nil {
				return fmt.Errorf("failed to insert usage for %s on %s: %w", c.ID, p.Date, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	logger.Info("saved roster snapshot", "path", db.path, "customers", len(customers))
	return nil
}

// DailyTotals returns per-date usage sums for customers in scope for region
// between start and end inclusive (ISO dates), ascending by date.
func (db *DB) DailyTotals(ctx context.Context, region, start, end string) ([]models.DailyMetric, error) {
	query := `
		SELECT u.date, SUM(u.storage_tb), SUM(u.egress_tb), SUM(u.requests)
		FROM daily_usage u
		JOIN customers c ON c.id = u.customer_id
		WHERE u.date BETWEEN ? AND ?
		AND ` + sqlRegionScopeClause + `
		GROUP BY u.date
		ORDER BY u.date
	`

	rows, err := db.QueryContext(ctx, query, start, end, region, region)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	var series []models.DailyMetric
	for rows.Next() {
		var d models.DailyMetric
		if err := rows.Scan(&d.Date, &d.StorageTB, &d.EgressTB, &d.Requests); err != nil {
			return nil, fmt.Errorf("failed to scan daily totals: %w", err)
		}
		series = append(series, d)
	}

	return series, rows.Err()
}

// BucketCount returns the number of buckets owned by customers in scope for region.
func (db *DB) BucketCount(ctx context.Context, region string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM buckets b
		JOIN customers c ON c.id = b.customer_id
		WHERE ` + sqlRegionScopeClause

	var count int
	if err := db.QueryRowContext(ctx, query, region, region).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count buckets: %w", err)
	}
	return count, nil
}

// CustomerCount returns the number of customers in the snapshot.
func (db *DB) CustomerCount(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
