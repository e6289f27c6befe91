// Package lifecycle defines events emitted as associations move through
// their lifetime, and the handlers that react to them.
package lifecycle

import "time"

// TopicAssociationExpired receives one event per association removed by the sweeper.
const TopicAssociationExpired = "association.expired"

// AssociationExpired is published after an expired association is deleted.
type AssociationExpired struct {
	Code string `json:"code"`
	// ExpiredAt is when the association was removed, not when its TTL ran out.
	ExpiredAt time.Time `json:"expiredAt"`
}
