package investment

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"fund-investment-service/internal/idgen"
	"fund-investment-service/internal/money"
)

// PayableClaimers computes each qualified claimant's payable amount:
// proportion/100 of the company's current distributable balance, truncated
// to cash precision so the company never over-pays.
func (s *Service) PayableClaimers(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error) {
	payable := make(map[string]decimal.Decimal)
	if len(userIDs) == 0 {
		return payable, nil
	}
	balance, found, err := s.comp.GetCompanyBalance(ctx, s.cfg.CompanyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return payable, nil
	}
	shareBalances, err := s.shares.ListBalancesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	oneHundred := decimal.NewFromInt(100)
	for _, sb := range shareBalances {
		amount := money.TruncateCash(sb.Proportion.Div(oneHundred).Mul(balance))
		payable[sb.UserID] = amount
	}
	return payable, nil
}

// Distribute pays out the precomputed payable map as one atomic batch: per
// user a cash deposit flow, a balance upsert, and the INIT claim moved to
// FINISH; then one company outcome flow and a guarded decrement of the
// company balance. Non-positive entries are dropped before the batch is
// built, so a deposit can never decrease a cash balance. If the guard loses
// to a concurrent payout, the whole batch rolls back and nothing is paid.
func (s *Service) Distribute(ctx context.Context, payable map[string]decimal.Decimal) error {
	if len(payable) == 0 {
		return ErrNothingToShare
	}

	userIDs := make([]string, 0, len(payable))
	for userID := range payable {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	total := money.Zero
	entries := make([]PayoutEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		amount := payable[userID]
		if !money.IsPositive(amount) {
			continue
		}
		total = total.Add(amount)
		entries = append(entries, PayoutEntry{
			FlowID: idgen.NewID(),
			UserID: userID,
			Amount: amount,
		})
	}
	if len(entries) == 0 || !money.IsPositive(total) {
		return ErrNothingToShare
	}

	batch := PayoutBatch{
		Entries:       entries,
		CompanyFlowID: idgen.NewID(),
		TotalOutcome:  total,
	}
	if err := s.comp.ApplyPayout(ctx, s.cfg.CompanyID, batch); err != nil {
		return err
	}

	if s.cache != nil {
		for _, userID := range userIDs {
			s.cache.InvalidateCashBalance(ctx, userID)
		}
	}
	s.logger.Info().
		Int("claimers", len(entries)).
		Str("total", total.String()).
		Msg("profit distributed")
	return nil
}
