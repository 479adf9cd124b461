package coordinator

import (
	"testing"

	"distributed-imaging/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSelectorEmpty(t *testing.T) {
	_, err := NewRandomSelector().Select(nil)
	assert.ErrorIs(t, err, domain.ErrNoNodesAvailable)
}

func TestRandomSelectorSingle(t *testing.T) {
	node := domain.Node{ID: 1, Name: "only"}
	picked, err := NewRandomSelector().Select([]domain.Node{node})
	require.NoError(t, err)
	assert.Equal(t, node, picked)
}

func TestRandomSelectorStaysInCandidateSet(t *testing.T) {
	nodes := []domain.Node{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}
	selector := NewRandomSelector()

	names := map[string]struct{}{"a": {}, "b": {}, "c": {}}
	for i := 0; i < 50; i++ {
		picked, err := selector.Select(nodes)
		require.NoError(t, err)
		_, ok := names[picked.Name]
		assert.True(t, ok, "selected node %q not in candidate set", picked.Name)
	}
}
