package lifecycle

import (
	"context"
	"fmt"

	"github.com/serroba/babyurl/internal/messaging"
	"github.com/serroba/babyurl/internal/shortener"
	"go.uber.org/zap"
)

// Evicter drops cached copies of an association.
type Evicter interface {
	Evict(ctx context.Context, code shortener.Code) error
}

// NewCacheEvictor returns a handler that evicts the cache entry of every
// expired association.
func NewCacheEvictor(cache Evicter, logger *zap.Logger) messaging.Handler[AssociationExpired] {
	return func(ctx context.Context, event *AssociationExpired) error {
		if event.Code == "" {
			return nil
		}

		if err := cache.Evict(ctx, shortener.Code(event.Code)); err != nil {
			return fmt.Errorf("evict %s: %w", event.Code, err)
		}

		logger.Debug("evicted expired association", zap.String("code", event.Code))

		return nil
	}
}
