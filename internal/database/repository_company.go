package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fund-investment-service/internal/investment"
)

// GetCompanyBalance returns the company's distributable balance; found is
// false before the first profit intake.
func (r *Repository) GetCompanyBalance(ctx context.Context, companyID int) (decimal.Decimal, bool, error) {
	var balanceText string
	query := `SELECT balance::text FROM company_profit_balance WHERE id = $1`
	err := r.db.Pool.QueryRow(ctx, query, companyID).Scan(&balanceText)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get company balance: %w", err)
	}
	balance, err := scanDecimal(balanceText)
	if err != nil {
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

// AddProfit appends the income/outcome flow row and applies the net amount
// to the company balance in one transaction. A positive or zero net upserts
// the balance row; a negative net only updates while the floor holds, so
// the balance never goes negative.
func (r *Repository) AddProfit(ctx context.Context, companyID int, flow investment.CompanyProfitFlow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO company_profit_flow (id, income, outcome, created_at)
		VALUES ($1, $2::numeric, $3::numeric, $4)
	`
	if _, err := tx.Exec(ctx, insert,
		flow.ID, flow.Income.String(), flow.Outcome.String(), flow.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert company profit flow: %w", err)
	}

	net := flow.Income.Sub(flow.Outcome)
	if net.Sign() >= 0 {
		upsert := `
			INSERT INTO company_profit_balance (id, balance, updated_at)
			VALUES ($1, $2::numeric, NOW())
			ON CONFLICT (id) DO UPDATE
			SET balance = company_profit_balance.balance + EXCLUDED.balance, updated_at = NOW()
		`
		if _, err := tx.Exec(ctx, upsert, companyID, net.String()); err != nil {
			return fmt.Errorf("failed to upsert company balance: %w", err)
		}
	} else {
		outcome := net.Neg()
		update := `
			UPDATE company_profit_balance
			SET balance = balance - $2::numeric, updated_at = NOW()
			WHERE id = $1 AND balance - $2::numeric >= 0
		`
		tag, err := tx.Exec(ctx, update, companyID, outcome.String())
		if err != nil {
			return fmt.Errorf("failed to update company balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return investment.ErrConcurrencyGuardFailed
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profit intake: %w", err)
	}
	return nil
}

// ApplyPayout executes a distribution batch as a single transaction. Per
// claimant it appends the deposit flow, upserts the cash balance, and moves
// the INIT claim to FINISH; then it appends the company outcome flow and
// decrements the company balance guarded by balance - outcome >= 0. Any
// failure, including a lost guard, rolls back the entire batch.
func (r *Repository) ApplyPayout(ctx context.Context, companyID int, batch investment.PayoutBatch) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertFlow := `
		INSERT INTO cash_flow (id, user_id, deposit_amount, withdraw_amount, created_at)
		VALUES ($1, $2, $3::numeric, 0, NOW())
	`
	upsertBalance := `
		INSERT INTO cash_balance (user_id, balance, updated_at)
		VALUES ($1, $2::numeric, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET balance = cash_balance.balance + EXCLUDED.balance, updated_at = NOW()
	`
	finishClaim := `
		UPDATE claim_booking
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1 AND status = $3
	`
	for _, entry := range batch.Entries {
		if _, err := tx.Exec(ctx, insertFlow, entry.FlowID, entry.UserID, entry.Amount.String()); err != nil {
			return fmt.Errorf("failed to insert payout flow for %s: %w", entry.UserID, err)
		}
		if _, err := tx.Exec(ctx, upsertBalance, entry.UserID, entry.Amount.String()); err != nil {
			return fmt.Errorf("failed to upsert cash balance for %s: %w", entry.UserID, err)
		}
		if _, err := tx.Exec(ctx, finishClaim,
			entry.UserID, investment.ClaimStatusFinish, investment.ClaimStatusInit,
		); err != nil {
			return fmt.Errorf("failed to finish claim for %s: %w", entry.UserID, err)
		}
	}

	companyFlow := `
		INSERT INTO company_profit_flow (id, income, outcome, created_at)
		VALUES ($1, 0, $2::numeric, NOW())
	`
	if _, err := tx.Exec(ctx, companyFlow, batch.CompanyFlowID, batch.TotalOutcome.String()); err != nil {
		return fmt.Errorf("failed to insert company outcome flow: %w", err)
	}

	decrement := `
		UPDATE company_profit_balance
		SET balance = balance - $2::numeric, updated_at = NOW()
		WHERE id = $1 AND balance - $2::numeric >= 0
	`
	tag, err := tx.Exec(ctx, decrement, companyID, batch.TotalOutcome.String())
	if err != nil {
		return fmt.Errorf("failed to decrement company balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return investment.ErrConcurrencyGuardFailed
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payout: %w", err)
	}
	return nil
}
