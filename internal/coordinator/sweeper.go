package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Sweeper periodically expires nodes whose heartbeat has gone stale. A sweep
// error is logged and retried on the next tick; it never stops the loop.
type Sweeper struct {
	nodes    domain.NodeRepository
	interval time.Duration
	window   time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewSweeper creates a liveness sweeper. window is how long a node may stay
// silent before being marked inactive, interval how often that is checked.
func NewSweeper(nodes domain.NodeRepository, interval, window time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		nodes:    nodes,
		interval: interval,
		window:   window,
		cron:     cron.New(),
		logger:   logger.With("component", "sweeper"),
		tracer:   otel.Tracer("distributed-imaging-sweeper"),
	}
}

// Start runs the sweep loop until the context is canceled.
func (s *Sweeper) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if _, err := s.RunOnce(sweepCtx); err != nil {
			s.logger.Error("liveness sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule liveness sweep: %w", err)
	}

	s.logger.Info("liveness sweeper started", "interval", s.interval, "window", s.window)
	s.cron.Start()
	<-ctx.Done()
	s.logger.Info("liveness sweeper stopping...")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("liveness sweeper stopped")
	return ctx.Err()
}

// RunOnce performs a single sweep and reports how many nodes it expired.
// Also invoked directly by the manual sweep endpoint.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "sweeper.RunOnce")
	defer span.End()

	cutoff := time.Now().UTC().Add(-s.window)
	deactivated, err := s.nodes.DeactivateStale(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("nodes.deactivated", deactivated))

	if deactivated > 0 {
		metrics.NodesDeactivatedTotal.Add(float64(deactivated))
		s.logger.Info("deactivated stale nodes", "count", deactivated, "cutoff", cutoff)
	}
	return deactivated, nil
}
