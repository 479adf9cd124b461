package usecase

import (
	"context"
	"log/slog"
	"time"

	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/metrics"
)

// campaignRetryDelay spaces out leadership attempts after an election error.
const campaignRetryDelay = 5 * time.Second

// SweepRunner is the periodic liveness sweep loop.
type SweepRunner interface {
	Start(ctx context.Context) error
}

// SweepService decides which coordinator replica runs the liveness sweeper.
// With a leader manager it campaigns and sweeps only while leading; without
// one (single-replica setups) it sweeps unconditionally.
type SweepService struct {
	leaderManager domain.LeaderElectionManager
	sweeper       SweepRunner
	instanceID    string
	logger        *slog.Logger
}

// NewSweepService creates the sweep ownership loop. leaderManager may be nil.
func NewSweepService(leaderManager domain.LeaderElectionManager, sweeper SweepRunner, instanceID string, logger *slog.Logger) *SweepService {
	return &SweepService{
		leaderManager: leaderManager,
		sweeper:       sweeper,
		instanceID:    instanceID,
		logger:        logger.With("component", "sweep-service", "instance_id", instanceID),
	}
}

// Start blocks until the context is canceled.
func (s *SweepService) Start(ctx context.Context) error {
	if s.leaderManager == nil {
		s.logger.Info("no leader election configured, sweeping unconditionally")
		metrics.IsSweepLeader.WithLabelValues(s.instanceID).Set(1)
		return s.sweeper.Start(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep service shutting down")
			return ctx.Err()
		default:
			s.logger.Info("campaigning for sweep leadership")
			lostLeadershipCh, err := s.leaderManager.Campaign(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("leadership campaign failed, retrying", "error", err, "retry_in", campaignRetryDelay)
				time.Sleep(campaignRetryDelay)
				continue
			}

			metrics.IsSweepLeader.WithLabelValues(s.instanceID).Set(1)
			s.runAsLeader(ctx, lostLeadershipCh)
			metrics.IsSweepLeader.WithLabelValues(s.instanceID).Set(0)

			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("lost sweep leadership, rejoining election")
		}
	}
}

// runAsLeader runs the sweeper until leadership is lost or the service is
// stopped.
func (s *SweepService) runAsLeader(ctx context.Context, lostLeadershipCh <-chan struct{}) {
	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.sweeper.Start(sweepCtx); err != nil && sweepCtx.Err() == nil {
			s.logger.Error("sweeper stopped unexpectedly", "error", err)
		}
	}()

	select {
	case <-lostLeadershipCh:
	case <-ctx.Done():
		if err := s.leaderManager.Resign(context.Background()); err != nil {
			s.logger.Error("failed to resign sweep leadership", "error", err)
		}
	}
	cancel()
	<-done
}
