package shortener

import (
	"context"
	"time"
)

// Code represents a short URL code.
type Code string

// Association maps a short code to the URL it stands for.
type Association struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
}

// ExpiresAt returns the instant after which the association is no longer resolvable.
func (a *Association) ExpiresAt(ttl time.Duration) time.Time {
	return a.CreatedAt.Add(ttl)
}

// Live reports whether the association is still resolvable at now.
func (a *Association) Live(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.CreatedAt) < ttl
}

// Repository persists associations.
//
// Insert must enforce code uniqueness atomically and return ErrCollision when
// the code is held by a live association. GetByCode returns ErrNotFound when no
// record exists.
type Repository interface {
	Insert(ctx context.Context, association *Association) error
	GetByCode(ctx context.Context, code Code) (*Association, error)
}

// Sweeper is implemented by repositories without native expiry.
// DeleteExpired removes every association created at or before cutoff and
// returns the removed codes.
type Sweeper interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) ([]Code, error)
}
