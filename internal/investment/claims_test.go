package investment

import (
	"context"
	"testing"
	"time"
)

func TestQualifiedClaimers(t *testing.T) {
	ctx := context.Background()
	// baseTime is 2025-05-10: current season starts 2025-04-01, and with
	// MaxClaimableSeasons=2 the earliest claimable date is 2024-10-01.

	t.Run("includes open claims inside the window", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.claims = []ClaimBooking{
			{ID: "c1", UserID: "alice", Status: ClaimStatusInit, CreatedAt: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "c2", UserID: "bob", Status: ClaimStatusInit, CreatedAt: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)},
		}
		qualified, err := svc.QualifiedClaimers(ctx)
		if err != nil {
			t.Fatalf("QualifiedClaimers failed: %v", err)
		}
		if len(qualified) != 2 {
			t.Errorf("expected 2 qualified claimers, got %v", qualified)
		}
	})

	t.Run("excludes claims older than the window", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.claims = []ClaimBooking{
			{ID: "c1", UserID: "alice", Status: ClaimStatusInit, CreatedAt: time.Date(2024, time.September, 30, 23, 59, 59, 0, time.UTC)},
		}
		qualified, err := svc.QualifiedClaimers(ctx)
		if err != nil {
			t.Fatalf("QualifiedClaimers failed: %v", err)
		}
		if len(qualified) != 0 {
			t.Errorf("expected no qualified claimers, got %v", qualified)
		}
	})

	t.Run("excludes finished and expired claims", func(t *testing.T) {
		svc, store := newTestService(baseTime)
		store.claims = []ClaimBooking{
			{ID: "c1", UserID: "alice", Status: ClaimStatusFinish, CreatedAt: baseTime},
			{ID: "c2", UserID: "bob", Status: ClaimStatusExpired, CreatedAt: baseTime},
		}
		qualified, err := svc.QualifiedClaimers(ctx)
		if err != nil {
			t.Fatalf("QualifiedClaimers failed: %v", err)
		}
		if len(qualified) != 0 {
			t.Errorf("expected no qualified claimers, got %v", qualified)
		}
	})
}

func TestExpireUnqualifiedClaimers(t *testing.T) {
	ctx := context.Background()

	svc, store := newTestService(baseTime)
	store.claims = []ClaimBooking{
		{ID: "old", UserID: "alice", Status: ClaimStatusInit, CreatedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "fresh", UserID: "bob", Status: ClaimStatusInit, CreatedAt: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "done", UserID: "carol", Status: ClaimStatusFinish, CreatedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	if err := svc.ExpireUnqualifiedClaimers(ctx); err != nil {
		t.Fatalf("ExpireUnqualifiedClaimers failed: %v", err)
	}

	want := map[string]string{
		"old":   ClaimStatusExpired,
		"fresh": ClaimStatusInit,
		"done":  ClaimStatusFinish,
	}
	for _, claim := range store.claims {
		if claim.Status != want[claim.ID] {
			t.Errorf("claim %s: expected status %s, got %s", claim.ID, want[claim.ID], claim.Status)
		}
	}
}
