package api

import (
	"net/http"
	"testing"
)

func TestStatusForKind(t *testing.T) {
	cases := []struct {
		kind string
		want int
	}{
		{"invalid_amount", http.StatusBadRequest},
		{"insufficient_shares", http.StatusUnprocessableEntity},
		{"zero_balance", http.StatusUnprocessableEntity},
		{"withdraw_exceeds_balance", http.StatusUnprocessableEntity},
		{"no_shares_to_settle", http.StatusUnprocessableEntity},
		{"nothing_to_share", http.StatusUnprocessableEntity},
		{"duplicate_claim", http.StatusConflict},
		{"concurrency_guard_failed", http.StatusConflict},
		{"internal", http.StatusInternalServerError},
		{"something_unknown", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			if got := statusForKind(tc.kind); got != tc.want {
				t.Errorf("statusForKind(%q) = %d, want %d", tc.kind, got, tc.want)
			}
		})
	}
}
