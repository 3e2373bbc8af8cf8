package investment

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fund-investment-service/internal/money"
)

// Settle aggregates share flows with createdAt in [fromAt, toAt) into a new
// set of balance snapshots with ownership proportions, replacing the prior
// snapshots of every user seen in the window. Proportions are relative to
// the window's pool, so each settlement is a clean recomputation rather
// than an incremental merge.
func (s *Service) Settle(ctx context.Context, fromAt, toAt time.Time) error {
	flows, err := s.shares.ListFlowsInWindow(ctx, fromAt, toAt)
	if err != nil {
		return err
	}

	netByUser := make(map[string]decimal.Decimal)
	totalShares := money.Zero
	for _, flow := range flows {
		delta := flow.Invest.Sub(flow.Disinvest)
		netByUser[flow.UserID] = netByUser[flow.UserID].Add(delta)
		totalShares = totalShares.Add(delta)
	}
	if len(netByUser) == 0 {
		return ErrNoSharesToSettle
	}

	userIDs := make([]string, 0, len(netByUser))
	for userID := range netByUser {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	updatedAt := s.now()
	balances := make([]ShareBalance, 0, len(userIDs))
	for _, userID := range userIDs {
		net := netByUser[userID]
		balances = append(balances, ShareBalance{
			UserID:     userID,
			Balance:    net,
			Proportion: proportionOf(net, totalShares),
			UpdatedAt:  updatedAt,
		})
	}

	if err := s.shares.ReplaceBalances(ctx, userIDs, balances); err != nil {
		return err
	}
	s.logger.Info().
		Time("from_at", fromAt).
		Time("to_at", toAt).
		Int("users", len(balances)).
		Str("total_shares", totalShares.String()).
		Msg("share settlement completed")
	return nil
}

// proportionOf computes balance/total*100 at share precision. A non-positive
// net settles to proportion 0: a user who unwound prior-season holdings
// inside this window owns none of this window's pool, and a negative
// proportion must never reach the payout math.
func proportionOf(balance, total decimal.Decimal) decimal.Decimal {
	if balance.Sign() <= 0 || total.IsZero() {
		return money.Zero
	}
	return money.RoundShares(balance.Div(total).Mul(decimal.NewFromInt(100)))
}
