package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"distributed-imaging/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const NodesTableName = "nodes"

const (
	NodesIdColumn            = "id"
	NodesNameColumn          = "name"
	NodesHostColumn          = "host"
	NodesPortColumn          = "port"
	NodesStateColumn         = "state"
	NodesLastHeartbeatColumn = "last_heartbeat"
)

type nodeRepo struct {
	db     *sql.DB
	logger *slog.Logger
	tracer trace.Tracer
}

// NewNodeRepository creates the node registry backed by the shared store.
func NewNodeRepository(db *sql.DB, logger *slog.Logger) domain.NodeRepository {
	return &nodeRepo{
		db:     db,
		logger: logger.With("component", "node-repo"),
		tracer: otel.Tracer("distributed-imaging-sqlstore"),
	}
}

// ListAvailable returns active nodes heard from since cutoff, most recent
// heartbeat first.
func (r *nodeRepo) ListAvailable(ctx context.Context, cutoff time.Time) ([]domain.Node, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.ListAvailableNodes")
	defer span.End()

	rows, err := sq.Select(
		NodesIdColumn,
		NodesNameColumn,
		NodesHostColumn,
		NodesPortColumn,
		NodesStateColumn,
		NodesLastHeartbeatColumn,
	).
		From(NodesTableName).
		Where(sq.Eq{NodesStateColumn: string(domain.NodeStateActive)}).
		Where(sq.Gt{NodesLastHeartbeatColumn: cutoff.UTC()}).
		OrderBy(NodesLastHeartbeatColumn + " DESC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query available nodes")
		return nil, fmt.Errorf("failed to list available nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var n domain.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Host, &n.Port, &n.State, &n.LastHeartbeat); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate node rows: %w", err)
	}

	span.SetAttributes(attribute.Int("node.count", len(nodes)))
	return nodes, nil
}

// ListAll returns the full inventory with per-node job counts and seconds
// since last heartbeat.
func (r *nodeRepo) ListAll(ctx context.Context) ([]domain.NodeStatus, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.ListAllNodes")
	defer span.End()

	rows, err := sq.Select(
		"n."+NodesIdColumn,
		"n."+NodesNameColumn,
		"n."+NodesHostColumn,
		"n."+NodesPortColumn,
		"n."+NodesStateColumn,
		"n."+NodesLastHeartbeatColumn,
		"(SELECT COUNT(*) FROM "+JobsTableName+" WHERE "+JobsNodeIdColumn+" = n."+NodesIdColumn+
			" AND "+JobsStateColumn+" = '"+string(domain.JobStateProcessing)+"') AS active_jobs",
		"(SELECT COUNT(*) FROM "+JobsTableName+" WHERE "+JobsNodeIdColumn+" = n."+NodesIdColumn+
			" AND "+JobsStateColumn+" = '"+string(domain.JobStateCompleted)+"') AS completed_jobs",
	).
		From(NodesTableName+" n").
		OrderBy("n."+NodesStateColumn, "n."+NodesLastHeartbeatColumn+" DESC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query node inventory")
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	var statuses []domain.NodeStatus
	for rows.Next() {
		var s domain.NodeStatus
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Host, &s.Port, &s.State, &s.LastHeartbeat,
			&s.ActiveJobs, &s.CompletedJobs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan node status row: %w", err)
		}
		s.SecondsSinceHeartbeat = int64(now.Sub(s.LastHeartbeat.UTC()).Seconds())
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate node status rows: %w", err)
	}
	return statuses, nil
}

// DeactivateStale is a single conditional update; running it again with no
// new heartbeats changes zero additional rows.
func (r *nodeRepo) DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "repo.sql.DeactivateStaleNodes")
	defer span.End()

	res, err := sq.Update(NodesTableName).
		Set(NodesStateColumn, string(domain.NodeStateInactive)).
		Where(sq.Lt{NodesLastHeartbeatColumn: cutoff.UTC()}).
		Where(sq.NotEq{NodesStateColumn: string(domain.NodeStateInactive)}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deactivate stale nodes")
		return 0, fmt.Errorf("failed to deactivate stale nodes: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	span.SetAttributes(attribute.Int64("nodes.deactivated", affected))
	return affected, nil
}

// UpsertHeartbeat registers the node on first contact and refreshes its
// heartbeat afterwards, reactivating it if the sweeper had expired it.
func (r *nodeRepo) UpsertHeartbeat(ctx context.Context, name, host string, port int) error {
	ctx, span := r.tracer.Start(ctx, "repo.sql.UpsertHeartbeat")
	defer span.End()
	span.SetAttributes(attribute.String("node.name", name))

	_, err := sq.Insert(NodesTableName).
		Columns(NodesNameColumn, NodesHostColumn, NodesPortColumn, NodesStateColumn, NodesLastHeartbeatColumn).
		Values(name, host, port, string(domain.NodeStateActive), time.Now().UTC()).
		Suffix("ON CONFLICT(" + NodesNameColumn + ") DO UPDATE SET " +
			NodesHostColumn + " = excluded." + NodesHostColumn + ", " +
			NodesPortColumn + " = excluded." + NodesPortColumn + ", " +
			NodesStateColumn + " = excluded." + NodesStateColumn + ", " +
			NodesLastHeartbeatColumn + " = excluded." + NodesLastHeartbeatColumn).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert node heartbeat")
		return fmt.Errorf("failed to upsert heartbeat for node %s: %w", name, err)
	}
	return nil
}
