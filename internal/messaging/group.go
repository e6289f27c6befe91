package messaging

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Runnable is a background component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

type member struct {
	name     string
	runnable Runnable
}

// Group starts and stops a set of runnables together.
type Group struct {
	members []member
	logger  *zap.Logger
}

// NewGroup creates an empty group.
func NewGroup(logger *zap.Logger) *Group {
	return &Group{logger: logger}
}

// Add registers a runnable under name.
func (g *Group) Add(name string, r Runnable) {
	g.members = append(g.members, member{name: name, runnable: r})
}

// Len returns the number of registered runnables.
func (g *Group) Len() int {
	return len(g.members)
}

// Start starts every member in order. If one fails, the ones already started
// are shut down in reverse order.
func (g *Group) Start(ctx context.Context) error {
	for i, m := range g.members {
		if err := m.runnable.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.members[j].runnable.Shutdown()
			}

			return fmt.Errorf("start %s: %w", m.name, err)
		}

		g.logger.Debug("started", zap.String("runnable", m.name))
	}

	g.logger.Info("background workers started", zap.Int("count", len(g.members)))

	return nil
}

// Shutdown stops every member in reverse order and joins their errors.
func (g *Group) Shutdown() error {
	g.logger.Info("stopping background workers")

	var errs []error

	for i := len(g.members) - 1; i >= 0; i-- {
		m := g.members[i]
		if err := m.runnable.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", m.name, err))
		}
	}

	return errors.Join(errs...)
}
