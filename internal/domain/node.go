package domain

import (
	"context"
	"net"
	"strconv"
	"time"
)

// NodeState is the registry's view of a worker node.
type NodeState string

const (
	NodeStateActive   NodeState = "active"
	NodeStateInactive NodeState = "inactive"
)

// Node is one remote worker capable of executing image transformations.
// The coordinator never writes name/host/port; those are owned by the
// node's own heartbeat reporting. Only State is ever toggled, by the
// liveness sweeper.
type Node struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Host          string    `json:"host"`
	Port          int       `json:"port"`
	State         NodeState `json:"state"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Addr returns the node's dial target for the dispatch protocol.
func (n Node) Addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// NodeStatus is a Node enriched with derived observability fields.
type NodeStatus struct {
	Node
	ActiveJobs            int64 `json:"active_jobs"`
	CompletedJobs         int64 `json:"completed_jobs"`
	SecondsSinceHeartbeat int64 `json:"seconds_since_heartbeat"`
}

// NodeRepository is the authoritative, read-through view of worker nodes.
// Every call re-reads the backing store; there is no in-memory cache.
type NodeRepository interface {
	// ListAvailable returns active nodes whose last heartbeat is newer than
	// cutoff, most recent heartbeat first.
	ListAvailable(ctx context.Context, cutoff time.Time) ([]Node, error)

	// ListAll returns the full inventory with derived fields.
	ListAll(ctx context.Context) ([]NodeStatus, error)

	// DeactivateStale marks every non-inactive node with a heartbeat older
	// than cutoff as inactive and reports how many rows changed.
	DeactivateStale(ctx context.Context, cutoff time.Time) (int64, error)

	// UpsertHeartbeat registers a node or refreshes its heartbeat. Node-side
	// only; the coordinator never calls this.
	UpsertHeartbeat(ctx context.Context, name, host string, port int) error
}

// NodeSelector picks exactly one node from a non-empty candidate list. This
// is the seam where smarter policies (least-loaded, consistent hashing,
// sticky-by-batch) plug in without touching the dispatch engine.
type NodeSelector interface {
	Select(nodes []Node) (Node, error)
}
