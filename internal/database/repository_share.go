package database

import (
	"context"
	"fmt"
	"time"

	"fund-investment-service/internal/investment"
)

// InsertFlow appends a share flow row.
func (r *Repository) InsertFlow(ctx context.Context, flow investment.ShareFlow) error {
	query := `
		INSERT INTO share_flow (id, user_id, invest_amount, disinvest_amount, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		flow.ID, flow.UserID, flow.Invest.String(), flow.Disinvest.String(), flow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share flow: %w", err)
	}
	return nil
}

// InsertFlowCheckingNet appends a share flow row and verifies, inside the
// same transaction, that the user's net shares across all history stay
// non-negative. The post-write check sees the just-inserted row, so a
// disinvest that would overdraw rolls back cleanly.
func (r *Repository) InsertFlowCheckingNet(ctx context.Context, flow investment.ShareFlow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO share_flow (id, user_id, invest_amount, disinvest_amount, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
	`
	if _, err := tx.Exec(ctx, insert,
		flow.ID, flow.UserID, flow.Invest.String(), flow.Disinvest.String(), flow.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert share flow: %w", err)
	}

	var netText string
	check := `
		SELECT COALESCE(SUM(invest_amount - disinvest_amount), 0)::text
		FROM share_flow
		WHERE user_id = $1
	`
	if err := tx.QueryRow(ctx, check, flow.UserID).Scan(&netText); err != nil {
		return fmt.Errorf("failed to compute net shares: %w", err)
	}
	net, err := scanDecimal(netText)
	if err != nil {
		return err
	}
	if net.Sign() < 0 {
		return investment.ErrInsufficientShares
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit share flow: %w", err)
	}
	return nil
}

// ListFlowsInWindow returns share flows with created_at in [fromAt, toAt).
func (r *Repository) ListFlowsInWindow(ctx context.Context, fromAt, toAt time.Time) ([]investment.ShareFlow, error) {
	query := `
		SELECT id, user_id, invest_amount::text, disinvest_amount::text, created_at
		FROM share_flow
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at
	`
	rows, err := r.db.Pool.Query(ctx, query, fromAt, toAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list share flows: %w", err)
	}
	defer rows.Close()

	var flows []investment.ShareFlow
	for rows.Next() {
		var flow investment.ShareFlow
		var investText, disinvestText string
		if err := rows.Scan(&flow.ID, &flow.UserID, &investText, &disinvestText, &flow.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share flow: %w", err)
		}
		if flow.Invest, err = scanDecimal(investText); err != nil {
			return nil, err
		}
		if flow.Disinvest, err = scanDecimal(disinvestText); err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// ReplaceBalances deletes the share balance rows of the given users and
// inserts the freshly settled rows in one transaction, so no reader
// observes a half-populated snapshot set.
func (r *Repository) ReplaceBalances(ctx context.Context, userIDs []string, balances []investment.ShareBalance) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM share_balance WHERE user_id = ANY($1)`, userIDs); err != nil {
		return fmt.Errorf("failed to delete share balances: %w", err)
	}

	insert := `
		INSERT INTO share_balance (user_id, balance, proportion, updated_at)
		VALUES ($1, $2::numeric, $3::numeric, $4)
	`
	for _, balance := range balances {
		if _, err := tx.Exec(ctx, insert,
			balance.UserID, balance.Balance.String(), balance.Proportion.String(), balance.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert share balance for %s: %w", balance.UserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit share balances: %w", err)
	}
	return nil
}

// ListBalancesByUserIDs returns the settled balances of the given users.
func (r *Repository) ListBalancesByUserIDs(ctx context.Context, userIDs []string) ([]investment.ShareBalance, error) {
	query := `
		SELECT user_id, balance::text, proportion::text, updated_at
		FROM share_balance
		WHERE user_id = ANY($1)
	`
	rows, err := r.db.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list share balances: %w", err)
	}
	defer rows.Close()

	var balances []investment.ShareBalance
	for rows.Next() {
		var balance investment.ShareBalance
		var balanceText, proportionText string
		if err := rows.Scan(&balance.UserID, &balanceText, &proportionText, &balance.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share balance: %w", err)
		}
		if balance.Balance, err = scanDecimal(balanceText); err != nil {
			return nil, err
		}
		if balance.Proportion, err = scanDecimal(proportionText); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}
