package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type blockingSweeper struct {
	started atomic.Int32
}

func (s *blockingSweeper) Start(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestSweepServiceWithoutLeaderElection(t *testing.T) {
	sweeper := &blockingSweeper{}
	svc := NewSweepService(nil, sweeper, "coordinator-1", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	assert.Eventually(t, func() bool { return sweeper.started.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep service did not stop after context cancellation")
	}
}
