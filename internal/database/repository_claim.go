package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fund-investment-service/internal/investment"
)

// InsertClaim creates a claim booking row.
func (r *Repository) InsertClaim(ctx context.Context, claim investment.ClaimBooking) error {
	query := `
		INSERT INTO claim_booking (id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		claim.ID, claim.UserID, claim.Status, claim.CreatedAt, claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim booking: %w", err)
	}
	return nil
}

// ListClaimsByUserAndStatus returns a user's claim bookings in the given status.
func (r *Repository) ListClaimsByUserAndStatus(ctx context.Context, userID, status string) ([]investment.ClaimBooking, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM claim_booking
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at
	`
	rows, err := r.db.Pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim bookings: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

// ListClaimsByStatus returns all claim bookings in the given status.
func (r *Repository) ListClaimsByStatus(ctx context.Context, status string) ([]investment.ClaimBooking, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM claim_booking
		WHERE status = $1
		ORDER BY created_at
	`
	rows, err := r.db.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim bookings: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

// UpdateClaimStatus moves a single claim booking to the given status.
func (r *Repository) UpdateClaimStatus(ctx context.Context, id, status string) error {
	query := `UPDATE claim_booking SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update claim booking: %w", err)
	}
	return nil
}

func scanClaims(rows pgx.Rows) ([]investment.ClaimBooking, error) {
	var claims []investment.ClaimBooking
	for rows.Next() {
		var claim investment.ClaimBooking
		if err := rows.Scan(&claim.ID, &claim.UserID, &claim.Status, &claim.CreatedAt, &claim.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claim booking: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}
