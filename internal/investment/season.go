package investment

import "time"

// Settlement periods are calendar quarters ("seasons"). A season window is
// half-open: [start of quarter, start of next quarter).

// Season returns the quarter number (1-4) of t.
func Season(t time.Time) int {
	return int(t.Month()-1)/3 + 1
}

// SeasonWindow returns the half-open window of the season containing t,
// at midnight bounds in t's location.
func SeasonWindow(t time.Time) (fromAt, toAt time.Time) {
	startMonth := time.Month((Season(t)-1)*3 + 1)
	fromAt = time.Date(t.Year(), startMonth, 1, 0, 0, 0, 0, t.Location())
	toAt = fromAt.AddDate(0, 3, 0)
	return fromAt, toAt
}

// InSeasonWindow reports whether now falls inside the season window that
// contains ref. Used for duplicate-claim detection: a claim booked at ref
// blocks further claims until its season ends.
func InSeasonWindow(now, ref time.Time) bool {
	fromAt, toAt := SeasonWindow(ref)
	return !now.Before(fromAt) && now.Before(toAt)
}

// IsSeasonSettlementDay reports whether t falls on the last calendar day of
// its season, the day the settlement batch runs.
func IsSeasonSettlementDay(t time.Time) bool {
	_, toAt := SeasonWindow(t)
	lastDay := toAt.AddDate(0, 0, -1)
	return t.Year() == lastDay.Year() && t.YearDay() == lastDay.YearDay()
}

// EarliestClaimableDate returns the oldest claim creation date still payable
// as of now: maxClaimableSeasons whole seasons (3 months each) before the
// start of the current season.
func EarliestClaimableDate(now time.Time, maxClaimableSeasons int) time.Time {
	fromAt, _ := SeasonWindow(now)
	return fromAt.AddDate(0, -3*maxClaimableSeasons, 0)
}
