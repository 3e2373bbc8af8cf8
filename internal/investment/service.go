// Package investment implements the investment ledger and profit-sharing
// settlement core: append-only share/cash/company flow ledgers, the seasonal
// settlement of ownership proportions, claim bookings, and the profit
// distribution that pays qualified claimants.
package investment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fund-investment-service/internal/idgen"
	"fund-investment-service/internal/money"
)

// Config holds the tunables of the investment core.
type Config struct {
	// CompanyID identifies the company profit balance row.
	CompanyID int

	// MaxClaimableSeasons is how many seasons a claim booking stays payable
	// before it expires.
	MaxClaimableSeasons int

	// PayoutDelay shifts the distribution after settlement so the payment
	// lands in the next season.
	PayoutDelay time.Duration
}

// BalanceCache is an optional read cache for cash balances, invalidated on
// every cash mutation.
type BalanceCache interface {
	GetCashBalance(ctx context.Context, userID string) (decimal.Decimal, bool)
	SetCashBalance(ctx context.Context, userID string, balance decimal.Decimal)
	InvalidateCashBalance(ctx context.Context, userID string)
}

// Service exposes the core investment operations. All state lives in the
// repositories; concurrent requests coordinate only through the database.
type Service struct {
	cfg    Config
	shares ShareRepository
	cash   CashRepository
	claims ClaimRepository
	comp   CompanyRepository
	runs   SettlementRunRepository
	cache  BalanceCache
	logger zerolog.Logger

	now func() time.Time
}

// NewService wires the investment core. cache may be nil.
func NewService(
	cfg Config,
	shares ShareRepository,
	cash CashRepository,
	claims ClaimRepository,
	comp CompanyRepository,
	runs SettlementRunRepository,
	cache BalanceCache,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cfg:    cfg,
		shares: shares,
		cash:   cash,
		claims: claims,
		comp:   comp,
		runs:   runs,
		cache:  cache,
		logger: logger.With().Str("component", "investment").Logger(),
		now:    time.Now,
	}
}

// Invest appends an invest flow row for the user. Joining the pool has no
// preconditions, so no balance check is made.
func (s *Service) Invest(ctx context.Context, userID string, amount decimal.Decimal) error {
	if !money.IsPositive(amount) {
		return ErrInvalidAmount
	}
	flow := ShareFlow{
		ID:        idgen.NewID(),
		UserID:    userID,
		Invest:    amount,
		Disinvest: money.Zero,
		CreatedAt: s.now(),
	}
	if err := s.shares.InsertFlow(ctx, flow); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("amount", amount.String()).Msg("invest recorded")
	return nil
}

// Disinvest appends a disinvest flow row, enforcing inside the same
// transaction that the user's net shares stay non-negative.
func (s *Service) Disinvest(ctx context.Context, userID string, amount decimal.Decimal) error {
	if !money.IsPositive(amount) {
		return ErrInvalidAmount
	}
	flow := ShareFlow{
		ID:        idgen.NewID(),
		UserID:    userID,
		Invest:    money.Zero,
		Disinvest: amount,
		CreatedAt: s.now(),
	}
	if err := s.shares.InsertFlowCheckingNet(ctx, flow); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("amount", amount.String()).Msg("disinvest recorded")
	return nil
}

// Claim books the user's intent to receive a profit share. A user may hold
// at most one claim booked inside any one season.
func (s *Service) Claim(ctx context.Context, userID string) error {
	open, err := s.claims.ListClaimsByUserAndStatus(ctx, userID, ClaimStatusInit)
	if err != nil {
		return err
	}
	now := s.now()
	for _, claim := range open {
		if InSeasonWindow(now, claim.CreatedAt) {
			return ErrDuplicateClaim
		}
	}
	booking := ClaimBooking{
		ID:        idgen.NewID(),
		UserID:    userID,
		Status:    ClaimStatusInit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.claims.InsertClaim(ctx, booking); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("claim_id", booking.ID).Msg("claim booked")
	return nil
}

// Withdraw moves cash out of the user's balance. The read-check-write is
// protected by the repository's conditional update, so a concurrent
// withdrawal cannot drain the balance between our read and our write.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error {
	if !money.IsPositive(amount) {
		return ErrInvalidAmount
	}
	balance, found, err := s.cash.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if !found || balance.IsZero() {
		return ErrZeroBalance
	}
	current := money.NewAmount(balance, money.Zero, amount)
	if current.WithdrawExceedsBalance() {
		return ErrWithdrawExceedsBalance
	}
	flow := CashFlow{
		ID:        idgen.NewID(),
		UserID:    userID,
		Deposit:   money.Zero,
		Withdraw:  amount,
		CreatedAt: s.now(),
	}
	if err := s.cash.ApplyWithdrawal(ctx, flow); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateCashBalance(ctx, userID)
	}
	s.logger.Info().Str("user_id", userID).Str("amount", amount.String()).Msg("withdrawal applied")
	return nil
}

// CashBalanceOf returns the user's spendable cash balance, read through the
// cache when one is configured. Users without a balance row read as zero.
func (s *Service) CashBalanceOf(ctx context.Context, userID string) (decimal.Decimal, error) {
	if s.cache != nil {
		if balance, ok := s.cache.GetCashBalance(ctx, userID); ok {
			return balance, nil
		}
	}
	balance, found, err := s.cash.GetBalance(ctx, userID)
	if err != nil {
		return money.Zero, err
	}
	if !found {
		return money.Zero, nil
	}
	if s.cache != nil {
		s.cache.SetCashBalance(ctx, userID, balance)
	}
	return balance, nil
}

// AddProfit records company income/outcome and applies the net to the
// company's distributable balance in one transaction.
func (s *Service) AddProfit(ctx context.Context, income, outcome decimal.Decimal) error {
	if money.IsNegative(income) || money.IsNegative(outcome) {
		return ErrInvalidAmount
	}
	if income.IsZero() && outcome.IsZero() {
		return ErrInvalidAmount
	}
	flow := CompanyProfitFlow{
		ID:        idgen.NewID(),
		Income:    income,
		Outcome:   outcome,
		CreatedAt: s.now(),
	}
	if err := s.comp.AddProfit(ctx, s.cfg.CompanyID, flow); err != nil {
		return err
	}
	s.logger.Info().
		Str("income", income.String()).
		Str("outcome", outcome.String()).
		Msg("company profit recorded")
	return nil
}
