// Package database provides the PostgreSQL persistence layer: the
// connection pool, schema migrations, and the raw-SQL repositories backing
// the investment core.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDB creates a new database connection
func NewDB(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Printf("Successfully connected to PostgreSQL database: %s", cfg.Database)

	return &DB{Pool: pool}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Println("Database connection closed")
	}
}

// RunMigrations executes database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	log.Println("Running database migrations...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(100) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Append-only invest/disinvest events; exactly one side is non-zero.
		`CREATE TABLE IF NOT EXISTS share_flow (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			invest_amount NUMERIC(20, 8) NOT NULL DEFAULT 0 CHECK (invest_amount >= 0),
			disinvest_amount NUMERIC(20, 8) NOT NULL DEFAULT 0 CHECK (disinvest_amount >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_share_flow_user ON share_flow(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_share_flow_created ON share_flow(created_at)`,

		// Settled positions, replaced wholesale each settlement period.
		`CREATE TABLE IF NOT EXISTS share_balance (
			user_id VARCHAR(64) PRIMARY KEY,
			balance NUMERIC(20, 8) NOT NULL,
			proportion NUMERIC(20, 8) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS cash_flow (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			deposit_amount NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (deposit_amount >= 0),
			withdraw_amount NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (withdraw_amount >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cash_flow_user ON cash_flow(user_id)`,

		`CREATE TABLE IF NOT EXISTS cash_balance (
			user_id VARCHAR(64) PRIMARY KEY,
			balance NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS claim_booking (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'INIT',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claim_booking_user_status ON claim_booking(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_claim_booking_status ON claim_booking(status)`,

		`CREATE TABLE IF NOT EXISTS company_profit_flow (
			id VARCHAR(64) PRIMARY KEY,
			income NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (income >= 0),
			outcome NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (outcome >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS company_profit_balance (
			id INTEGER PRIMARY KEY,
			balance NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Durable settle-then-pay handoff; one row per season.
		`CREATE TABLE IF NOT EXISTS settlement_run (
			id VARCHAR(64) PRIMARY KEY,
			year INTEGER NOT NULL,
			season INTEGER NOT NULL,
			from_at TIMESTAMPTZ NOT NULL,
			to_at TIMESTAMPTZ NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'SETTLED',
			payout_due_at TIMESTAMPTZ NOT NULL,
			settled_at TIMESTAMPTZ NOT NULL,
			paid_at TIMESTAMPTZ,
			UNIQUE (year, season)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlement_run_status ON settlement_run(status, payout_due_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
