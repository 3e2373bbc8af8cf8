package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository provides data access methods. It implements the repository
// interfaces declared in internal/investment; amounts cross the driver
// boundary as text so NUMERIC columns stay exact.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck performs a database health check
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// scanDecimal converts a NUMERIC value selected as text back into an exact
// decimal.
func scanDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return d, nil
}
