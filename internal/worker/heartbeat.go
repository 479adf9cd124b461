package worker

import (
	"context"
	"log/slog"
	"time"

	"distributed-imaging/internal/domain"
)

// Heartbeat keeps the node's registry row fresh so the coordinator keeps
// dispatching to it. A missed interval or two is tolerated by the liveness
// window; persistent failure means the sweeper eventually expires the node.
type Heartbeat struct {
	nodes    domain.NodeRepository
	name     string
	host     string
	port     int
	interval time.Duration
	logger   *slog.Logger
}

// NewHeartbeat creates the registration loop for this node.
func NewHeartbeat(nodes domain.NodeRepository, name, host string, port int, interval time.Duration, logger *slog.Logger) *Heartbeat {
	return &Heartbeat{
		nodes:    nodes,
		name:     name,
		host:     host,
		port:     port,
		interval: interval,
		logger:   logger.With("component", "heartbeat", "node", name),
	}
}

// Start registers immediately, then refreshes until the context is canceled.
func (h *Heartbeat) Start(ctx context.Context) error {
	h.beat(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("heartbeat loop stopped")
			return ctx.Err()
		case <-ticker.C:
			h.beat(ctx)
		}
	}
}

func (h *Heartbeat) beat(ctx context.Context) {
	beatCtx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	if err := h.nodes.UpsertHeartbeat(beatCtx, h.name, h.host, h.port); err != nil {
		h.logger.Error("failed to report heartbeat", "error", err)
		return
	}
	h.logger.Debug("heartbeat reported")
}
