// Package scheduler drives the periodic settlement pipeline: settle share
// proportions at the end of each season, then distribute profit once the
// payout delay has elapsed. Both phases are durable and idempotent, so the
// loop can restart at any point without losing or repeating work.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fund-investment-service/internal/investment"
)

// Pipeline is the slice of the investment service the scheduler drives.
type Pipeline interface {
	SettleCurrentSeason(ctx context.Context, now time.Time) error
	CatchUpMissedSettlements(ctx context.Context, now time.Time) error
	PayDueSettlements(ctx context.Context, now time.Time) error
}

// Config holds scheduler configuration
type Config struct {
	// CheckInterval is how often the loop wakes up to look for work.
	CheckInterval time.Duration

	// RunTimeout bounds a single settle or payout pass.
	RunTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		CheckInterval: 10 * time.Minute,
		RunTimeout:    5 * time.Minute,
	}
}

// Scheduler runs the settlement pipeline on a ticker. At most one pass is
// active at a time; overlapping runs are prevented here, not in the core.
type Scheduler struct {
	pipeline Pipeline
	config   Config
	logger   zerolog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	now func() time.Time
}

// New creates a new settlement scheduler
func New(pipeline Pipeline, config Config, logger zerolog.Logger) *Scheduler {
	if config.CheckInterval == 0 {
		config = DefaultConfig()
	}
	return &Scheduler{
		pipeline: pipeline,
		config:   config,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start starts the scheduler loop
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().Dur("check_interval", s.config.CheckInterval).Msg("scheduler started")

	s.wg.Add(1)
	go s.runLoop()
	return nil
}

// Stop stops the scheduler loop and waits for the current pass to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler not running")
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info().Msg("scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	// Run immediately on start so a restart mid-delay resumes promptly.
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			return
		}
	}
}

// tick runs one pass: backfill the previous season if its settlement was
// missed, settle if today closes the season, then pay out any settled runs
// whose delay has elapsed.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
	defer cancel()

	now := s.now()
	if err := s.pipeline.CatchUpMissedSettlements(ctx, now); err != nil {
		s.logger.Error().Err(err).Msg("settlement catch-up failed")
	}
	if investment.IsSeasonSettlementDay(now) {
		if err := s.pipeline.SettleCurrentSeason(ctx, now); err != nil {
			s.logger.Error().Err(err).Msg("season settlement failed")
		}
	}

	if err := s.pipeline.PayDueSettlements(ctx, now); err != nil {
		s.logger.Error().Err(err).Msg("payout pass failed")
	}
}
