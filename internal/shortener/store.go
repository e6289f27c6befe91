package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds code generation retries on collision.
const DefaultMaxAttempts = 5

// Store generates codes, persists associations and resolves them while they are live.
type Store struct {
	repo         Repository
	generateCode CodeGenerator
	codeLength   int
	ttl          time.Duration
	maxAttempts  int
	now          func() time.Time
	logger       *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithMaxAttempts sets how many codes are tried before giving up.
func WithMaxAttempts(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used to report collisions.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an association store. codeLength must match the generator's output.
func NewStore(
	repo Repository, generator CodeGenerator, codeLength int, ttl time.Duration, opts ...StoreOption,
) *Store {
	s := &Store{
		repo:         repo,
		generateCode: generator,
		codeLength:   codeLength,
		ttl:          ttl,
		maxAttempts:  DefaultMaxAttempts,
		now:          time.Now,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TTL returns how long associations stay resolvable.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put validates originalURL and stores it under a freshly generated code.
func (s *Store) Put(ctx context.Context, originalURL string) (*Association, error) {
	validURL, err := ValidateURL(originalURL)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		association := &Association{
			Code:        Code(s.generateCode()),
			OriginalURL: validURL,
			CreatedAt:   s.now().UTC(),
		}

		err = s.repo.Insert(ctx, association)
		if err == nil {
			return association, nil
		}

		if !errors.Is(err, ErrCollision) {
			return nil, fmt.Errorf("insert association: %w", err)
		}

		s.logger.Warn("short code collision",
			zap.String("code", string(association.Code)),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, s.maxAttempts)
}

// Get returns the live association for code.
// Unknown, malformed and expired codes all yield ErrNotFound.
func (s *Store) Get(ctx context.Context, code Code) (*Association, error) {
	if !ValidCode(code, s.codeLength) {
		return nil, ErrNotFound
	}

	association, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !association.Live(s.now(), s.ttl) {
		return nil, ErrNotFound
	}

	return association, nil
}
