package money

import "testing"

func TestParse(t *testing.T) {
	t.Run("accepts decimal strings", func(t *testing.T) {
		d, err := Parse("123.456")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if d.String() != "123.456" {
			t.Errorf("got %s", d)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "abc", "1.2.3"} {
			if _, err := Parse(s); err == nil {
				t.Errorf("Parse(%q): expected error", s)
			}
		}
	})
}

func TestSigns(t *testing.T) {
	if !IsPositive(MustParse("0.01")) || IsPositive(Zero) || IsPositive(MustParse("-1")) {
		t.Error("IsPositive misclassified")
	}
	if !IsNegative(MustParse("-0.01")) || IsNegative(Zero) || IsNegative(MustParse("1")) {
		t.Error("IsNegative misclassified")
	}
}

func TestTruncateCash(t *testing.T) {
	cases := []struct{ in, want string }{
		{"33.339", "33.33"},
		{"33.331", "33.33"},
		{"33.3", "33.3"},
		{"0.009", "0"},
	}
	for _, tc := range cases {
		if got := TruncateCash(MustParse(tc.in)); !got.Equal(MustParse(tc.want)) {
			t.Errorf("TruncateCash(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRoundShares(t *testing.T) {
	got := RoundShares(MustParse("33.333333335"))
	if !got.Equal(MustParse("33.33333334")) {
		t.Errorf("RoundShares = %s", got)
	}
}

func TestAmount(t *testing.T) {
	t.Run("balance applies deposit and withdrawal", func(t *testing.T) {
		a := NewAmount(MustParse("100"), MustParse("30"), MustParse("20"))
		if !a.Balance().Equal(MustParse("110")) {
			t.Errorf("Balance = %s, want 110", a.Balance())
		}
	})

	t.Run("withdrawal equal to the balance is allowed", func(t *testing.T) {
		a := NewAmount(MustParse("100"), Zero, MustParse("100"))
		if a.WithdrawExceedsBalance() {
			t.Error("full withdrawal must not exceed the balance")
		}
	})

	t.Run("withdrawal above the balance is flagged", func(t *testing.T) {
		a := NewAmount(MustParse("100"), Zero, MustParse("100.01"))
		if !a.WithdrawExceedsBalance() {
			t.Error("expected WithdrawExceedsBalance")
		}
	})
}
