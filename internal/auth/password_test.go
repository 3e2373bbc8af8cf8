package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	// MinCost keeps the test fast; production uses DefaultBcryptCost.
	manager := NewPasswordManager(bcrypt.MinCost)

	hash, err := manager.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in plain text")
	}
	if !manager.VerifyPassword("correct horse battery", hash) {
		t.Error("correct password rejected")
	}
	if manager.VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	manager := NewPasswordManager(bcrypt.MinCost)

	t.Run("too short", func(t *testing.T) {
		if err := manager.ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, MaxPasswordLength+1)
		for i := range long {
			long[i] = 'a'
		}
		if err := manager.ValidatePassword(string(long)); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("minimum length accepted", func(t *testing.T) {
		if err := manager.ValidatePassword("12345678"); err != nil {
			t.Errorf("8-character password rejected: %v", err)
		}
	})

	t.Run("hash refuses weak passwords", func(t *testing.T) {
		if _, err := manager.HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})
}

func TestNewPasswordManagerCostClamp(t *testing.T) {
	// Out-of-range costs fall back to the default rather than panicking
	// inside bcrypt later.
	for _, cost := range []int{-1, 0, 100} {
		manager := NewPasswordManager(cost)
		if manager.bcryptCost != DefaultBcryptCost {
			t.Errorf("cost %d: expected fallback to %d, got %d", cost, DefaultBcryptCost, manager.bcryptCost)
		}
	}
}
