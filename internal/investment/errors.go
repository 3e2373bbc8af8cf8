package investment

// Error is a typed failure returned by the investment core. Kind is a stable
// machine-readable identifier; the API layer maps it to an HTTP status.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Failure kinds surfaced by the core operations. Every failure aborts the
// enclosing transaction; callers never observe partial side effects.
var (
	// ErrInsufficientShares: a disinvest would push the user's net shares
	// below zero.
	ErrInsufficientShares = &Error{Kind: "insufficient_shares", Message: "user net shares cannot be less than 0"}

	// ErrDuplicateClaim: the user already holds an open claim booked inside
	// the same season.
	ErrDuplicateClaim = &Error{Kind: "duplicate_claim", Message: "cannot claim twice in the same season"}

	// ErrZeroBalance: withdrawal requested with no cash balance on record.
	ErrZeroBalance = &Error{Kind: "zero_balance", Message: "the balance of the user is 0"}

	// ErrWithdrawExceedsBalance: withdrawal amount is larger than the
	// current cash balance.
	ErrWithdrawExceedsBalance = &Error{Kind: "withdraw_exceeds_balance", Message: "withdraw amount must be less than balance"}

	// ErrNoSharesToSettle: the settlement window contained no share flows.
	// Expected when a season had no investment activity.
	ErrNoSharesToSettle = &Error{Kind: "no_shares_to_settle", Message: "no share flows in settlement window"}

	// ErrNothingToShare: distribution invoked with no payable claimants or a
	// non-positive total.
	ErrNothingToShare = &Error{Kind: "nothing_to_share", Message: "no need to share profit"}

	// ErrConcurrencyGuardFailed: an optimistic balance-update guard matched
	// zero rows because a concurrent writer got there first. Callers may
	// retry with fresh reads.
	ErrConcurrencyGuardFailed = &Error{Kind: "concurrency_guard_failed", Message: "balance update guard failed, concurrent modification detected"}

	// ErrInvalidAmount: an operation received a non-positive amount.
	ErrInvalidAmount = &Error{Kind: "invalid_amount", Message: "amount must be greater than 0"}
)

// KindOf extracts the failure kind from an error, or "internal" for
// untyped errors.
func KindOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return "internal"
}
