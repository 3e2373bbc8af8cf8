package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fund-investment-service/internal/investment"
)

// GetBalance returns the user's cash balance; found is false when the user
// has no balance row yet.
func (r *Repository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	var balanceText string
	query := `SELECT balance::text FROM cash_balance WHERE user_id = $1`
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&balanceText)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get cash balance: %w", err)
	}
	balance, err := scanDecimal(balanceText)
	if err != nil {
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

// ApplyWithdrawal appends the withdrawal flow row and decrements the cash
// balance in one transaction. The decrement only matches while
// balance - withdraw >= 0; losing that race to a concurrent withdrawal
// rolls back the flow row and returns ErrConcurrencyGuardFailed.
func (r *Repository) ApplyWithdrawal(ctx context.Context, flow investment.CashFlow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO cash_flow (id, user_id, deposit_amount, withdraw_amount, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
	`
	if _, err := tx.Exec(ctx, insert,
		flow.ID, flow.UserID, flow.Deposit.String(), flow.Withdraw.String(), flow.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert cash flow: %w", err)
	}

	update := `
		UPDATE cash_balance
		SET balance = balance - $2::numeric, updated_at = NOW()
		WHERE user_id = $1 AND balance - $2::numeric >= 0
	`
	tag, err := tx.Exec(ctx, update, flow.UserID, flow.Withdraw.String())
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return investment.ErrConcurrencyGuardFailed
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit withdrawal: %w", err)
	}
	return nil
}
