package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts travel as JSON strings/numbers and are parsed by
// shopspring/decimal, so they stay exact end to end.

// AmountRequest carries a single positive amount (invest, disinvest,
// withdraw).
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ProfitRequest carries a company profit intake.
type ProfitRequest struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
}

// SettleRequest triggers a manual settlement over an explicit window.
type SettleRequest struct {
	FromAt time.Time `json:"from_at" binding:"required"`
	ToAt   time.Time `json:"to_at" binding:"required"`
}

// BalanceResponse reports a user's cash balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance string `json:"balance"`
}

// MessageResponse is a generic success payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform failure payload: a stable error kind plus a
// human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
