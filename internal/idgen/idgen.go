// Package idgen generates globally unique, time-ordered identifiers for
// ledger rows. UUIDv7 embeds a millisecond timestamp in the high bits, so
// ids sort in creation order.
package idgen

import "github.com/google/uuid"

// NewID returns a new time-ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source is exhausted; fall back
		// to a random id rather than aborting a ledger write.
		return uuid.NewString()
	}
	return id.String()
}
