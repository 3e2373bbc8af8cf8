package investment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fund-investment-service/internal/money"
)

var baseTime = time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)

func TestInvest(t *testing.T) {
	ctx := context.Background()

	t.Run("records an invest flow", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.Invest(ctx, "alice", money.MustParse("100")); err != nil {
			t.Fatalf("Invest failed: %v", err)
		}
		if len(store.shareFlows) != 1 {
			t.Fatalf("expected 1 share flow, got %d", len(store.shareFlows))
		}
		flow := store.shareFlows[0]
		if !flow.Invest.Equal(money.MustParse("100")) || !flow.Disinvest.IsZero() {
			t.Errorf("unexpected flow amounts: invest=%s disinvest=%s", flow.Invest, flow.Disinvest)
		}
		if flow.ID == "" {
			t.Error("flow id not assigned")
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		for _, amount := range []string{"0", "-5"} {
			if err := svc.Invest(ctx, "alice", money.MustParse(amount)); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Invest(%s): expected ErrInvalidAmount, got %v", amount, err)
			}
		}
		if len(store.shareFlows) != 0 {
			t.Errorf("rejected invest must not append flows, got %d", len(store.shareFlows))
		}
	})
}

func TestDisinvest(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects disinvest beyond net shares", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.Invest(ctx, "alice", money.MustParse("100")); err != nil {
			t.Fatalf("Invest failed: %v", err)
		}
		err := svc.Disinvest(ctx, "alice", money.MustParse("150"))
		if !errors.Is(err, ErrInsufficientShares) {
			t.Fatalf("expected ErrInsufficientShares, got %v", err)
		}
		if len(store.shareFlows) != 1 {
			t.Errorf("rejected disinvest must roll back its flow, got %d flows", len(store.shareFlows))
		}
	})

	t.Run("allows disinvest down to exactly zero", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.Invest(ctx, "alice", money.MustParse("100")); err != nil {
			t.Fatalf("Invest failed: %v", err)
		}
		if err := svc.Disinvest(ctx, "alice", money.MustParse("100")); err != nil {
			t.Fatalf("Disinvest failed: %v", err)
		}
		if len(store.shareFlows) != 2 {
			t.Fatalf("expected 2 flows, got %d", len(store.shareFlows))
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		if err := svc.Disinvest(ctx, "alice", money.Zero); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("books a claim in INIT state", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.Claim(ctx, "alice"); err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if len(store.claims) != 1 {
			t.Fatalf("expected 1 claim, got %d", len(store.claims))
		}
		if store.claims[0].Status != ClaimStatusInit {
			t.Errorf("expected status INIT, got %s", store.claims[0].Status)
		}
	})

	t.Run("rejects a second claim in the same season", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		if err := svc.Claim(ctx, "alice"); err != nil {
			t.Fatalf("first Claim failed: %v", err)
		}
		// Later the same season.
		svc.now = func() time.Time { return baseTime.AddDate(0, 1, 0) }
		if err := svc.Claim(ctx, "alice"); !errors.Is(err, ErrDuplicateClaim) {
			t.Fatalf("expected ErrDuplicateClaim, got %v", err)
		}
	})

	t.Run("allows a claim in the next season", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.Claim(ctx, "alice"); err != nil {
			t.Fatalf("first Claim failed: %v", err)
		}
		svc.now = func() time.Time { return time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC) }
		if err := svc.Claim(ctx, "alice"); err != nil {
			t.Fatalf("next-season Claim failed: %v", err)
		}
		if len(store.claims) != 2 {
			t.Errorf("expected 2 claims, got %d", len(store.claims))
		}
	})

	t.Run("different users can claim in the same season", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		if err := svc.Claim(ctx, "alice"); err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if err := svc.Claim(ctx, "bob"); err != nil {
			t.Fatalf("Claim for second user failed: %v", err)
		}
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects withdrawal with no balance", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		if err := svc.Withdraw(ctx, "alice", money.MustParse("10")); !errors.Is(err, ErrZeroBalance) {
			t.Fatalf("expected ErrZeroBalance, got %v", err)
		}
	})

	t.Run("rejects withdrawal exceeding balance", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.cashBalances["alice"] = money.MustParse("50")
		if err := svc.Withdraw(ctx, "alice", money.MustParse("50.01")); !errors.Is(err, ErrWithdrawExceedsBalance) {
			t.Fatalf("expected ErrWithdrawExceedsBalance, got %v", err)
		}
		if !store.cashBalances["alice"].Equal(money.MustParse("50")) {
			t.Error("rejected withdrawal must not touch the balance")
		}
	})

	t.Run("decrements balance and appends flow", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.cashBalances["alice"] = money.MustParse("50")
		if err := svc.Withdraw(ctx, "alice", money.MustParse("20")); err != nil {
			t.Fatalf("Withdraw failed: %v", err)
		}
		if !store.cashBalances["alice"].Equal(money.MustParse("30")) {
			t.Errorf("expected balance 30, got %s", store.cashBalances["alice"])
		}
		if len(store.cashFlows) != 1 || !store.cashFlows[0].Withdraw.Equal(money.MustParse("20")) {
			t.Error("withdrawal flow not recorded")
		}
	})

	t.Run("allows withdrawing the full balance", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.cashBalances["alice"] = money.MustParse("50")
		if err := svc.Withdraw(ctx, "alice", money.MustParse("50")); err != nil {
			t.Fatalf("Withdraw failed: %v", err)
		}
		if !store.cashBalances["alice"].IsZero() {
			t.Errorf("expected zero balance, got %s", store.cashBalances["alice"])
		}
	})

	t.Run("invalidates the cache entry", func(t *testing.T) {
		store := newMemStore()
		cache := newFakeCache()
		svc := NewService(testConfig(), store, store, store, store, store, cache, zerolog.Nop())
		svc.now = func() time.Time { return baseTime }
		store.cashBalances["alice"] = money.MustParse("50")
		cache.entries["alice"] = money.MustParse("50")

		if err := svc.Withdraw(ctx, "alice", money.MustParse("20")); err != nil {
			t.Fatalf("Withdraw failed: %v", err)
		}
		if len(cache.invalidated) != 1 || cache.invalidated[0] != "alice" {
			t.Errorf("expected cache invalidation for alice, got %v", cache.invalidated)
		}
	})
}

func TestCashBalanceOf(t *testing.T) {
	ctx := context.Background()

	t.Run("reads zero for unknown users", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		balance, err := svc.CashBalanceOf(ctx, "nobody")
		if err != nil {
			t.Fatalf("CashBalanceOf failed: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected zero, got %s", balance)
		}
	})

	t.Run("populates and serves from the cache", func(t *testing.T) {
		store := newMemStore()
		cache := newFakeCache()
		svc := NewService(testConfig(), store, store, store, store, store, cache, zerolog.Nop())
		store.cashBalances["alice"] = money.MustParse("75")

		balance, err := svc.CashBalanceOf(ctx, "alice")
		if err != nil {
			t.Fatalf("CashBalanceOf failed: %v", err)
		}
		if !balance.Equal(money.MustParse("75")) {
			t.Fatalf("expected 75, got %s", balance)
		}
		if cache.sets != 1 {
			t.Fatalf("expected one cache fill, got %d", cache.sets)
		}

		// Second read hits the cache even when the store changes underneath.
		store.cashBalances["alice"] = money.MustParse("0")
		balance, err = svc.CashBalanceOf(ctx, "alice")
		if err != nil {
			t.Fatalf("CashBalanceOf failed: %v", err)
		}
		if !balance.Equal(money.MustParse("75")) {
			t.Errorf("expected cached 75, got %s", balance)
		}
	})
}

func TestAddProfit(t *testing.T) {
	ctx := context.Background()

	t.Run("accumulates the net into the company balance", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.AddProfit(ctx, money.MustParse("100"), money.Zero); err != nil {
			t.Fatalf("AddProfit failed: %v", err)
		}
		if err := svc.AddProfit(ctx, money.MustParse("50"), money.MustParse("30")); err != nil {
			t.Fatalf("AddProfit failed: %v", err)
		}
		if !store.companyBalance.Equal(money.MustParse("120")) {
			t.Errorf("expected company balance 120, got %s", store.companyBalance)
		}
		if len(store.companyFlows) != 2 {
			t.Errorf("expected 2 company flows, got %d", len(store.companyFlows))
		}
	})

	t.Run("rejects negative and empty intakes", func(t *testing.T) {
		svc, _ := newTestService(baseTime)
		cases := []struct {
			name            string
			income, outcome string
		}{
			{"negative income", "-1", "0"},
			{"negative outcome", "0", "-1"},
			{"both zero", "0", "0"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := svc.AddProfit(ctx, money.MustParse(tc.income), money.MustParse(tc.outcome))
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("expected ErrInvalidAmount, got %v", err)
				}
			})
		}
	})

	t.Run("rejects an outcome that would overdraw the balance", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		if err := svc.AddProfit(ctx, money.MustParse("100"), money.Zero); err != nil {
			t.Fatalf("AddProfit failed: %v", err)
		}
		err := svc.AddProfit(ctx, money.Zero, money.MustParse("150"))
		if !errors.Is(err, ErrConcurrencyGuardFailed) {
			t.Fatalf("expected ErrConcurrencyGuardFailed, got %v", err)
		}
		if !store.companyBalance.Equal(money.MustParse("100")) {
			t.Errorf("failed intake must not change the balance, got %s", store.companyBalance)
		}
	})
}
