package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/babyurl/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
	order       *[]string
	name        string
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}

	return m.shutdownErr
}

func TestGroup_Start(t *testing.T) {
	t.Run("starts all members", func(t *testing.T) {
		group := messaging.NewGroup(zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{}

		group.Add("first", first)
		group.Add("second", second)

		err := group.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, group.Len())
		assert.True(t, first.started)
		assert.True(t, second.started)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		group := messaging.NewGroup(zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{startErr: errors.New("start error")}

		group.Add("first", first)
		group.Add("second", second)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "second")
		assert.True(t, first.started)
		assert.True(t, first.shutdown)
		assert.False(t, second.started)
	})
}

func TestGroup_Shutdown(t *testing.T) {
	t.Run("stops members in reverse order", func(t *testing.T) {
		var order []string

		group := messaging.NewGroup(zap.NewNop())
		group.Add("first", &mockRunnable{name: "first", order: &order})
		group.Add("second", &mockRunnable{name: "second", order: &order})
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, order)
	})

	t.Run("joins errors but stops everything", func(t *testing.T) {
		group := messaging.NewGroup(zap.NewNop())
		first := &mockRunnable{shutdownErr: errors.New("shutdown error 1")}
		second := &mockRunnable{shutdownErr: errors.New("shutdown error 2")}

		group.Add("first", first)
		group.Add("second", second)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown error 1")
		assert.Contains(t, err.Error(), "shutdown error 2")
		assert.True(t, first.shutdown)
		assert.True(t, second.shutdown)
	})
}
