package investment

import "context"

// QualifiedClaimers returns the userIds of open claims still inside the
// claimable window (no older than MaxClaimableSeasons before the start of
// the current season).
func (s *Service) QualifiedClaimers(ctx context.Context) ([]string, error) {
	open, err := s.claims.ListClaimsByStatus(ctx, ClaimStatusInit)
	if err != nil {
		return nil, err
	}
	earliest := EarliestClaimableDate(s.now(), s.cfg.MaxClaimableSeasons)
	var userIDs []string
	for _, claim := range open {
		if !claim.CreatedAt.Before(earliest) {
			userIDs = append(userIDs, claim.UserID)
		}
	}
	return userIDs, nil
}

// ExpireUnqualifiedClaimers transitions every open claim older than the
// claimable window to EXPIRED.
func (s *Service) ExpireUnqualifiedClaimers(ctx context.Context) error {
	open, err := s.claims.ListClaimsByStatus(ctx, ClaimStatusInit)
	if err != nil {
		return err
	}
	earliest := EarliestClaimableDate(s.now(), s.cfg.MaxClaimableSeasons)
	for _, claim := range open {
		if claim.CreatedAt.Before(earliest) {
			if err := s.claims.UpdateClaimStatus(ctx, claim.ID, ClaimStatusExpired); err != nil {
				return err
			}
			s.logger.Info().
				Str("claim_id", claim.ID).
				Str("user_id", claim.UserID).
				Msg("claim expired")
		}
	}
	return nil
}
