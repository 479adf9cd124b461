package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"distributed-imaging/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNodeRepo struct {
	deactivated int64
	err         error
	lastCutoff  time.Time
}

func (f *fakeNodeRepo) ListAvailable(ctx context.Context, cutoff time.Time) ([]domain.Node, error) {
	return nil, nil
}

func (f *fakeNodeRepo) ListAll(ctx context.Context) ([]domain.NodeStatus, error) {
	return nil, nil
}

func (f *fakeNodeRepo) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	return f.deactivated, f.err
}

func (f *fakeNodeRepo) UpsertHeartbeat(ctx context.Context, name, host string, port int) error {
	return nil
}

func TestSweeperRunOnce(t *testing.T) {
	repo := &fakeNodeRepo{deactivated: 2}
	s := NewSweeper(repo, 30*time.Second, 2*time.Minute, discardLogger())

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The cutoff trails now by the liveness window.
	lag := time.Since(repo.lastCutoff)
	assert.InDelta(t, (2 * time.Minute).Seconds(), lag.Seconds(), 5)
}

func TestSweeperRunOncePropagatesError(t *testing.T) {
	repo := &fakeNodeRepo{err: errors.New("store down")}
	s := NewSweeper(repo, 30*time.Second, 2*time.Minute, discardLogger())

	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestSweeperStartStopsOnCancel(t *testing.T) {
	repo := &fakeNodeRepo{}
	s := NewSweeper(repo, time.Hour, 2*time.Minute, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
