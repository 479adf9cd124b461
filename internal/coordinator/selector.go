package coordinator

import (
	"math/rand"

	"distributed-imaging/internal/domain"
)

// randomSelector picks a node uniformly at random. Every available node has
// heartbeated recently, so uniform choice spreads load well enough without
// tracking per-node state.
type randomSelector struct{}

// NewRandomSelector returns the default node selection policy.
func NewRandomSelector() domain.NodeSelector {
	return randomSelector{}
}

func (randomSelector) Select(nodes []domain.Node) (domain.Node, error) {
	if len(nodes) == 0 {
		return domain.Node{}, domain.ErrNoNodesAvailable
	}
	return nodes[rand.Intn(len(nodes))], nil
}
