package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim booking states.
const (
	ClaimStatusInit    = "INIT"
	ClaimStatusFinish  = "FINISH"
	ClaimStatusExpired = "EXPIRED"
)

// Settlement run states.
const (
	RunStatusSettled = "SETTLED"
	RunStatusPaid    = "PAID"
)

// ShareFlow is one immutable invest or disinvest event. Exactly one of
// Invest/Disinvest is non-zero.
type ShareFlow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Invest    decimal.Decimal `json:"invest"`
	Disinvest decimal.Decimal `json:"disinvest"`
	CreatedAt time.Time       `json:"created_at"`
}

// ShareBalance is a user's settled share position. The full set is replaced
// wholesale each settlement period.
type ShareBalance struct {
	UserID     string          `json:"user_id"`
	Balance    decimal.Decimal `json:"balance"`
	Proportion decimal.Decimal `json:"proportion"` // percentage of the pool, 0-100
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CashFlow is one immutable deposit or withdrawal event.
type CashFlow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Deposit   decimal.Decimal `json:"deposit"`
	Withdraw  decimal.Decimal `json:"withdraw"`
	CreatedAt time.Time       `json:"created_at"`
}

// CashBalance is a user's spendable cash, mutated in place and never
// allowed below zero.
type CashBalance struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ClaimBooking records a user's intent to receive a profit share.
type ClaimBooking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyProfitFlow is one immutable company income or outcome event.
type CompanyProfitFlow struct {
	ID        string          `json:"id"`
	Income    decimal.Decimal `json:"income"`
	Outcome   decimal.Decimal `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
}

// CompanyProfitBalance is the company's distributable balance (one row).
type CompanyProfitBalance struct {
	ID        int             `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SettlementRun is the durable record of one period's settlement, the
// handoff between the settle phase and the delayed payout phase.
type SettlementRun struct {
	ID          string     `json:"id"`
	Year        int        `json:"year"`
	Season      int        `json:"season"`
	FromAt      time.Time  `json:"from_at"`
	ToAt        time.Time  `json:"to_at"`
	Status      string     `json:"status"`
	PayoutDueAt time.Time  `json:"payout_due_at"`
	SettledAt   time.Time  `json:"settled_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// PayoutEntry is one user's slice of a distribution batch.
type PayoutEntry struct {
	FlowID string
	UserID string
	Amount decimal.Decimal
}

// PayoutBatch is the complete, precomputed distribution applied as a single
// transaction: per-user cash deposits plus one company outcome flow.
type PayoutBatch struct {
	Entries       []PayoutEntry
	CompanyFlowID string
	TotalOutcome  decimal.Decimal
}
