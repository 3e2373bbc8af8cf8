package investment

import (
	"context"
	"errors"
	"time"

	"fund-investment-service/internal/idgen"
)

// The settlement pipeline runs in two durable phases. SettleCurrentSeason
// settles share proportions and records a SettlementRun; PayDueSettlements
// later picks up runs whose payout delay has passed and distributes profit.
// The qualified-claimant set is recomputed at payout time from the
// claim_booking table, never carried in memory across the delay, so a
// process restart between the phases loses nothing.

// SettleCurrentSeason settles the season containing now. It is idempotent
// per season: if a run already exists for (year, season) it does nothing.
func (s *Service) SettleCurrentSeason(ctx context.Context, now time.Time) error {
	return s.settleSeason(ctx, now, now)
}

// CatchUpMissedSettlements settles the previous season if it has no run,
// which happens when the process was down for the whole of its last day.
// The payout delay counts from now, not from the missed season boundary.
func (s *Service) CatchUpMissedSettlements(ctx context.Context, now time.Time) error {
	fromAt, _ := SeasonWindow(now)
	return s.settleSeason(ctx, fromAt.AddDate(0, 0, -1), now)
}

// settleSeason settles the season containing ref, stamping the run with now.
func (s *Service) settleSeason(ctx context.Context, ref, now time.Time) error {
	settled, err := s.runs.RunExists(ctx, ref.Year(), Season(ref))
	if err != nil {
		return err
	}
	if settled {
		return nil
	}

	fromAt, toAt := SeasonWindow(ref)
	run := SettlementRun{
		ID:          idgen.NewID(),
		Year:        ref.Year(),
		Season:      Season(ref),
		FromAt:      fromAt,
		ToAt:        toAt,
		Status:      RunStatusSettled,
		PayoutDueAt: now.Add(s.cfg.PayoutDelay),
		SettledAt:   now,
	}

	if err := s.Settle(ctx, fromAt, toAt); err != nil {
		if errors.Is(err, ErrNoSharesToSettle) {
			// Record the run anyway so the season is not retried every tick;
			// the payout phase will find nothing payable and close it out.
			s.logger.Info().Int("season", run.Season).Msg("no share flows this season")
		} else {
			return err
		}
	}

	if err := s.ExpireUnqualifiedClaimers(ctx); err != nil {
		return err
	}

	created, err := s.runs.InsertRun(ctx, run)
	if err != nil {
		return err
	}
	if !created {
		// Another instance settled this season first.
		return nil
	}
	s.logger.Info().
		Int("year", run.Year).
		Int("season", run.Season).
		Time("payout_due_at", run.PayoutDueAt).
		Msg("settlement run recorded")
	return nil
}

// PayDueSettlements distributes profit for every settled run whose payout
// delay has elapsed. NothingToShare is an expected outcome (nobody claimed,
// or the company balance is empty) and still closes the run.
func (s *Service) PayDueSettlements(ctx context.Context, now time.Time) error {
	due, err := s.runs.ListDuePayouts(ctx, now)
	if err != nil {
		return err
	}
	for _, run := range due {
		if err := s.payRun(ctx, run, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) payRun(ctx context.Context, run SettlementRun, now time.Time) error {
	qualified, err := s.QualifiedClaimers(ctx)
	if err != nil {
		return err
	}
	payable, err := s.PayableClaimers(ctx, qualified)
	if err != nil {
		return err
	}

	err = s.Distribute(ctx, payable)
	if err != nil && !errors.Is(err, ErrNothingToShare) {
		return err
	}
	if errors.Is(err, ErrNothingToShare) {
		s.logger.Info().Int("year", run.Year).Int("season", run.Season).Msg("nothing to distribute this season")
	}

	if err := s.runs.MarkRunPaid(ctx, run.ID, now); err != nil {
		return err
	}
	s.logger.Info().Int("year", run.Year).Int("season", run.Season).Msg("settlement run paid")
	return nil
}
