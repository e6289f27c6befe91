package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/babyurl/internal/lifecycle"
	"github.com/serroba/babyurl/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEvicter struct {
	evicted []shortener.Code
	err     error
}

func (m *mockEvicter) Evict(_ context.Context, code shortener.Code) error {
	if m.err != nil {
		return m.err
	}

	m.evicted = append(m.evicted, code)

	return nil
}

func TestCacheEvictor(t *testing.T) {
	t.Run("evicts the expired code", func(t *testing.T) {
		cache := &mockEvicter{}
		handle := lifecycle.NewCacheEvictor(cache, zap.NewNop())

		err := handle(context.Background(), &lifecycle.AssociationExpired{Code: "abc1234", ExpiredAt: time.Now()})

		require.NoError(t, err)
		assert.Equal(t, []shortener.Code{"abc1234"}, cache.evicted)
	})

	t.Run("ignores events without a code", func(t *testing.T) {
		cache := &mockEvicter{}
		handle := lifecycle.NewCacheEvictor(cache, zap.NewNop())

		err := handle(context.Background(), &lifecycle.AssociationExpired{})

		require.NoError(t, err)
		assert.Empty(t, cache.evicted)
	})

	t.Run("returns eviction errors for redelivery", func(t *testing.T) {
		cacheErr := errors.New("redis down")
		handle := lifecycle.NewCacheEvictor(&mockEvicter{err: cacheErr}, zap.NewNop())

		err := handle(context.Background(), &lifecycle.AssociationExpired{Code: "abc1234"})

		assert.ErrorIs(t, err, cacheErr)
	})
}
