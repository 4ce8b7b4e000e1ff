package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeExpand(t *testing.T) {
	root := newNode(nil, 1.0)
	require.True(t, root.isLeaf(), "New node should be a leaf")

	root.expand([]Prior{{Move: 3, P: 0.7}, {Move: 5, P: 0.3}})

	require.False(t, root.isLeaf(), "Expanded node should not be a leaf")
	require.Equal(t, []int{3, 5}, root.moves, "Moves should follow the priors")
	require.Equal(t, 0.7, root.child(3).prior, "Child should keep its prior")
	require.Same(t, root, root.child(5).parent, "Child should point to its parent")
	require.Nil(t, root.child(4), "Unknown move should have no child")
}

func TestNodeSelectChild(t *testing.T) {
	t.Run("prefers the highest prior when unvisited", func(t *testing.T) {
		root := newNode(nil, 1.0)
		root.expand([]Prior{{Move: 0, P: 0.2}, {Move: 1, P: 0.8}})
		root.visits = 1

		move, child := root.selectChild(5.0)
		require.Equal(t, 1, move, "Should select the move with the highest prior")
		require.Same(t, root.child(1), child, "Should return the matching child")
	})

	t.Run("prefers the higher value with equal priors and visits", func(t *testing.T) {
		root := newNode(nil, 1.0)
		root.expand([]Prior{{Move: 0, P: 0.5}, {Move: 1, P: 0.5}})
		root.visits = 10
		root.child(0).visits, root.child(0).q = 5, -0.5
		root.child(1).visits, root.child(1).q = 5, 0.5

		move, _ := root.selectChild(5.0)
		require.Equal(t, 1, move, "Should exploit the better child")
	})
}

func TestNodeBackup(t *testing.T) {
	root := newNode(nil, 1.0)
	root.expand([]Prior{{Move: 0, P: 1.0}})
	child := root.child(0)
	child.expand([]Prior{{Move: 1, P: 1.0}})
	leaf := child.child(1)

	leaf.backup(1.0)
	require.Equal(t, 1, leaf.visits, "Leaf should be visited")
	require.Equal(t, 1.0, leaf.q, "Leaf should hold the value")
	require.Equal(t, -1.0, child.q, "Value should be negated one level up")
	require.Equal(t, 1.0, root.q, "Value should be negated again at the root")

	leaf.backup(0.0)
	require.Equal(t, 2, leaf.visits, "Leaf should be visited twice")
	require.InDelta(t, 0.5, leaf.q, 1e-9, "Q should be the running mean")
	require.Equal(t, 2, root.visits, "Root should count every backup")
}
