package domain

import "context"

// LeaderElectionManager coordinates which coordinator replica owns
// singleton background work such as the liveness sweep.
type LeaderElectionManager interface {
	// Campaign blocks until this instance becomes the leader. The returned
	// channel closes when leadership is lost.
	Campaign(ctx context.Context) (<-chan struct{}, error)
	Resign(ctx context.Context) error
	IsLeader() bool
}
