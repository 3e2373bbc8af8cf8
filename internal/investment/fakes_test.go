package investment

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory implementation of all repository interfaces,
// mirroring the transactional guarantees of the real PostgreSQL store.
type memStore struct {
	mu sync.Mutex

	shareFlows    []ShareFlow
	shareBalances map[string]ShareBalance

	cashFlows    []CashFlow
	cashBalances map[string]decimal.Decimal

	claims []ClaimBooking

	companyFlows   []CompanyProfitFlow
	companyBalance decimal.Decimal
	companyFound   bool

	runs []SettlementRun

	// failPayoutGuard forces ApplyPayout to lose its concurrency guard.
	failPayoutGuard bool
}

func newMemStore() *memStore {
	return &memStore{
		shareBalances: make(map[string]ShareBalance),
		cashBalances:  make(map[string]decimal.Decimal),
	}
}

func (m *memStore) InsertFlow(_ context.Context, flow ShareFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shareFlows = append(m.shareFlows, flow)
	return nil
}

func (m *memStore) InsertFlowCheckingNet(_ context.Context, flow ShareFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	net := flow.Invest.Sub(flow.Disinvest)
	for _, f := range m.shareFlows {
		if f.UserID == flow.UserID {
			net = net.Add(f.Invest.Sub(f.Disinvest))
		}
	}
	if net.IsNegative() {
		return ErrInsufficientShares
	}
	m.shareFlows = append(m.shareFlows, flow)
	return nil
}

func (m *memStore) ListFlowsInWindow(_ context.Context, fromAt, toAt time.Time) ([]ShareFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ShareFlow
	for _, f := range m.shareFlows {
		if !f.CreatedAt.Before(fromAt) && f.CreatedAt.Before(toAt) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStore) ReplaceBalances(_ context.Context, userIDs []string, balances []ShareBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		delete(m.shareBalances, id)
	}
	for _, b := range balances {
		m.shareBalances[b.UserID] = b
	}
	return nil
}

func (m *memStore) ListBalancesByUserIDs(_ context.Context, userIDs []string) ([]ShareBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ShareBalance
	for _, id := range userIDs {
		if b, ok := m.shareBalances[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) GetBalance(_ context.Context, userID string) (decimal.Decimal, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.cashBalances[userID]
	return balance, ok, nil
}

func (m *memStore) ApplyWithdrawal(_ context.Context, flow CashFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.cashBalances[flow.UserID]
	if balance.Sub(flow.Withdraw).IsNegative() {
		return ErrConcurrencyGuardFailed
	}
	m.cashFlows = append(m.cashFlows, flow)
	m.cashBalances[flow.UserID] = balance.Sub(flow.Withdraw)
	return nil
}

func (m *memStore) InsertClaim(_ context.Context, claim ClaimBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims = append(m.claims, claim)
	return nil
}

func (m *memStore) ListClaimsByUserAndStatus(_ context.Context, userID, status string) ([]ClaimBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ClaimBooking
	for _, c := range m.claims {
		if c.UserID == userID && c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListClaimsByStatus(_ context.Context, status string) ([]ClaimBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ClaimBooking
	for _, c := range m.claims {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateClaimStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.claims {
		if m.claims[i].ID == id {
			m.claims[i].Status = status
			return nil
		}
	}
	return nil
}

func (m *memStore) GetCompanyBalance(_ context.Context, _ int) (decimal.Decimal, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.companyBalance, m.companyFound, nil
}

func (m *memStore) AddProfit(_ context.Context, _ int, flow CompanyProfitFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	net := flow.Income.Sub(flow.Outcome)
	next := m.companyBalance.Add(net)
	if next.IsNegative() {
		return ErrConcurrencyGuardFailed
	}
	m.companyFlows = append(m.companyFlows, flow)
	m.companyBalance = next
	m.companyFound = true
	return nil
}

func (m *memStore) ApplyPayout(_ context.Context, _ int, batch PayoutBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPayoutGuard || m.companyBalance.Sub(batch.TotalOutcome).IsNegative() {
		return ErrConcurrencyGuardFailed
	}
	for _, entry := range batch.Entries {
		m.cashFlows = append(m.cashFlows, CashFlow{
			ID:      entry.FlowID,
			UserID:  entry.UserID,
			Deposit: entry.Amount,
		})
		m.cashBalances[entry.UserID] = m.cashBalances[entry.UserID].Add(entry.Amount)
		for i := range m.claims {
			if m.claims[i].UserID == entry.UserID && m.claims[i].Status == ClaimStatusInit {
				m.claims[i].Status = ClaimStatusFinish
				break
			}
		}
	}
	m.companyFlows = append(m.companyFlows, CompanyProfitFlow{
		ID:      batch.CompanyFlowID,
		Outcome: batch.TotalOutcome,
	})
	m.companyBalance = m.companyBalance.Sub(batch.TotalOutcome)
	return nil
}

func (m *memStore) RunExists(_ context.Context, year, season int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.Year == year && r.Season == season {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertRun(_ context.Context, run SettlementRun) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.Year == run.Year && r.Season == run.Season {
			return false, nil
		}
	}
	m.runs = append(m.runs, run)
	return true, nil
}

func (m *memStore) ListDuePayouts(_ context.Context, now time.Time) ([]SettlementRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SettlementRun
	for _, r := range m.runs {
		if r.Status == RunStatusSettled && !r.PayoutDueAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) MarkRunPaid(_ context.Context, id string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			m.runs[i].Status = RunStatusPaid
			m.runs[i].PaidAt = &paidAt
			return nil
		}
	}
	return nil
}

// fakeCache records cache traffic for assertions.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]decimal.Decimal
	sets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]decimal.Decimal)}
}

func (c *fakeCache) GetCashBalance(_ context.Context, userID string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	balance, ok := c.entries[userID]
	return balance, ok
}

func (c *fakeCache) SetCashBalance(_ context.Context, userID string, balance decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = balance
	c.sets++
}

func (c *fakeCache) InvalidateCashBalance(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
}

func testConfig() Config {
	return Config{
		CompanyID:           1,
		MaxClaimableSeasons: 2,
		PayoutDelay:         24 * time.Hour,
	}
}

// newTestService builds a service over a fresh memStore with a fixed clock.
func newTestService(at time.Time) (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(testConfig(), store, store, store, store, store, nil, zerolog.Nop())
	svc.now = func() time.Time { return at }
	return svc, store
}
