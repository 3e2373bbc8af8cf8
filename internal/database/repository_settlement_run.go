package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"fund-investment-service/internal/investment"
)

// RunExists reports whether a settlement run was already recorded for the
// given season.
func (r *Repository) RunExists(ctx context.Context, year, season int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM settlement_run WHERE year = $1 AND season = $2)`
	if err := r.db.Pool.QueryRow(ctx, query, year, season).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check settlement run: %w", err)
	}
	return exists, nil
}

// InsertRun records a new settlement run. The unique (year, season) index
// makes the settle phase idempotent per period; a duplicate insert reports
// created=false instead of failing.
func (r *Repository) InsertRun(ctx context.Context, run investment.SettlementRun) (bool, error) {
	query := `
		INSERT INTO settlement_run (id, year, season, from_at, to_at, status, payout_due_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		run.ID, run.Year, run.Season, run.FromAt, run.ToAt, run.Status, run.PayoutDueAt, run.SettledAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert settlement run: %w", err)
	}
	return true, nil
}

// ListDuePayouts returns settled runs whose payout delay has elapsed.
func (r *Repository) ListDuePayouts(ctx context.Context, now time.Time) ([]investment.SettlementRun, error) {
	query := `
		SELECT id, year, season, from_at, to_at, status, payout_due_at, settled_at, paid_at
		FROM settlement_run
		WHERE status = $1 AND payout_due_at <= $2
		ORDER BY payout_due_at
	`
	rows, err := r.db.Pool.Query(ctx, query, investment.RunStatusSettled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due payouts: %w", err)
	}
	defer rows.Close()

	var runs []investment.SettlementRun
	for rows.Next() {
		var run investment.SettlementRun
		if err := rows.Scan(
			&run.ID, &run.Year, &run.Season, &run.FromAt, &run.ToAt,
			&run.Status, &run.PayoutDueAt, &run.SettledAt, &run.PaidAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkRunPaid transitions a settlement run to PAID.
func (r *Repository) MarkRunPaid(ctx context.Context, id string, paidAt time.Time) error {
	query := `UPDATE settlement_run SET status = $2, paid_at = $3 WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, query, id, investment.RunStatusPaid, paidAt)
	if err != nil {
		return fmt.Errorf("failed to mark settlement run paid: %w", err)
	}
	return nil
}
