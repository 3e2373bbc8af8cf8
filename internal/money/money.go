// Package money provides exact decimal arithmetic for monetary and share
// quantities. All ledger math goes through shopspring/decimal; binary
// floating point is never used for balances.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// CashScale is the number of decimal places kept for cash amounts.
const CashScale = 2

// ShareScale is the number of decimal places kept for share quantities and
// ownership proportions.
const ShareScale = 8

// Parse converts a decimal string into an exact amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for literals in tests and migrations.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsPositive reports whether d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// IsNegative reports whether d < 0.
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}

// TruncateCash rounds an amount down to cash precision so payouts never
// exceed what the payer holds.
func TruncateCash(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(CashScale)
}

// RoundShares rounds a share quantity or proportion to share precision.
func RoundShares(d decimal.Decimal) decimal.Decimal {
	return d.Round(ShareScale)
}

// Amount models a single balance mutation: an opening balance plus one
// deposit and one withdrawal applied to it.
type Amount struct {
	initial  decimal.Decimal
	deposit  decimal.Decimal
	withdraw decimal.Decimal
}

// NewAmount builds an Amount from an opening balance and the deposit and
// withdrawal being applied to it.
func NewAmount(initial, deposit, withdraw decimal.Decimal) Amount {
	return Amount{initial: initial, deposit: deposit, withdraw: withdraw}
}

// Balance returns initial + deposit - withdraw.
func (a Amount) Balance() decimal.Decimal {
	return a.initial.Add(a.deposit).Sub(a.withdraw)
}

// WithdrawExceedsBalance reports whether the withdrawal is larger than the
// opening balance.
func (a Amount) WithdrawExceedsBalance() bool {
	return a.withdraw.GreaterThan(a.initial)
}
