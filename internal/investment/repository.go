package investment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository interfaces are defined here, next to the services that consume
// them; internal/database provides the PostgreSQL implementations. Methods
// that span multiple statements run them inside a single transaction and
// roll back on any failure.

// ShareRepository persists share flow records and settled balances.
type ShareRepository interface {
	// InsertFlow appends a single share flow row.
	InsertFlow(ctx context.Context, flow ShareFlow) error

	// InsertFlowCheckingNet appends a flow row and, in the same transaction,
	// recomputes the user's net shares across all history. Returns
	// ErrInsufficientShares (rolling back the insert) if the net is negative.
	InsertFlowCheckingNet(ctx context.Context, flow ShareFlow) error

	// ListFlowsInWindow returns flows with createdAt in [fromAt, toAt).
	ListFlowsInWindow(ctx context.Context, fromAt, toAt time.Time) ([]ShareFlow, error)

	// ReplaceBalances atomically deletes the balance rows of the given users
	// and inserts the new rows, so readers never see a half-populated set.
	ReplaceBalances(ctx context.Context, userIDs []string, balances []ShareBalance) error

	// ListBalancesByUserIDs returns the settled balances of the given users.
	ListBalancesByUserIDs(ctx context.Context, userIDs []string) ([]ShareBalance, error)
}

// CashRepository persists cash flow records and per-user cash balances.
type CashRepository interface {
	// GetBalance returns the user's cash balance, or found=false when the
	// user has no balance row yet.
	GetBalance(ctx context.Context, userID string) (balance decimal.Decimal, found bool, err error)

	// ApplyWithdrawal appends the withdrawal flow row and decrements the
	// balance in one transaction. The decrement is guarded by
	// "balance - withdraw >= 0"; a lost race returns
	// ErrConcurrencyGuardFailed and rolls back the flow row.
	ApplyWithdrawal(ctx context.Context, flow CashFlow) error
}

// ClaimRepository persists claim bookings.
type ClaimRepository interface {
	InsertClaim(ctx context.Context, claim ClaimBooking) error
	ListClaimsByUserAndStatus(ctx context.Context, userID, status string) ([]ClaimBooking, error)
	ListClaimsByStatus(ctx context.Context, status string) ([]ClaimBooking, error)

	// UpdateClaimStatus moves a single claim row to the given status.
	UpdateClaimStatus(ctx context.Context, id, status string) error
}

// CompanyRepository persists the company profit ledger.
type CompanyRepository interface {
	// GetCompanyBalance returns the company's distributable balance, or found=false
	// before the first profit intake.
	GetCompanyBalance(ctx context.Context, companyID int) (balance decimal.Decimal, found bool, err error)

	// AddProfit appends the income/outcome flow row and applies the net to
	// the balance (creating it if absent) in one transaction. A net outcome
	// that would push the balance negative returns
	// ErrConcurrencyGuardFailed.
	AddProfit(ctx context.Context, companyID int, flow CompanyProfitFlow) error

	// ApplyPayout executes a distribution batch as one transaction: per user
	// it appends the deposit flow, upserts the cash balance, and finishes
	// the user's INIT claim; then it appends the company outcome flow and
	// decrements the company balance guarded by "balance - outcome >= 0".
	// A failed guard rolls back the entire batch and returns
	// ErrConcurrencyGuardFailed.
	ApplyPayout(ctx context.Context, companyID int, batch PayoutBatch) error
}

// SettlementRunRepository persists the per-period settlement state that
// bridges the settle phase and the delayed payout phase.
type SettlementRunRepository interface {
	// RunExists reports whether a run was already recorded for the season.
	RunExists(ctx context.Context, year, season int) (bool, error)

	// InsertRun records a new run. Returns created=false when a run for the
	// same (year, season) already exists.
	InsertRun(ctx context.Context, run SettlementRun) (created bool, err error)

	// ListDuePayouts returns runs in SETTLED state whose payout_due_at has
	// passed.
	ListDuePayouts(ctx context.Context, now time.Time) ([]SettlementRun, error)

	// MarkRunPaid transitions a run to PAID.
	MarkRunPaid(ctx context.Context, id string, paidAt time.Time) error
}
