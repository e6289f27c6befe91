//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/babyurl/internal/shortener"
	"github.com/serroba/babyurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoStoreIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	if err != nil {
		t.Skipf("MongoDB container not available: %v", err)
	}

	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	s := store.NewMongoStore(client.Database("babyurl_test"), time.Hour)
	require.NoError(t, s.EnsureIndexes(ctx))

	t.Run("insert and get by code", func(t *testing.T) {
		association := newAssociation("mgtst01", "https://example.com",
			time.Now().UTC().Truncate(time.Millisecond))

		require.NoError(t, s.Insert(ctx, association))

		got, err := s.GetByCode(ctx, association.Code)
		require.NoError(t, err)
		assert.Equal(t, association.OriginalURL, got.OriginalURL)
		assert.True(t, association.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("live code collides and keeps the first url", func(t *testing.T) {
		now := time.Now().UTC()

		require.NoError(t, s.Insert(ctx, newAssociation("mgtst02", "https://old.com", now)))

		err := s.Insert(ctx, newAssociation("mgtst02", "https://new.com", now.Add(time.Minute)))
		require.ErrorIs(t, err, shortener.ErrCollision)

		got, _ := s.GetByCode(ctx, "mgtst02")
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("expired holder is replaced", func(t *testing.T) {
		now := time.Now().UTC()

		require.NoError(t, s.Insert(ctx, newAssociation("mgtst03", "https://old.com", now.Add(-2*time.Hour))))
		require.NoError(t, s.Insert(ctx, newAssociation("mgtst03", "https://new.com", now)))

		got, _ := s.GetByCode(ctx, "mgtst03")
		assert.Equal(t, "https://new.com", got.OriginalURL)
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		got, err := s.GetByCode(ctx, "mgnonexistent")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
