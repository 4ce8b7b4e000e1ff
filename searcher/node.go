package searcher

import "math"

// Prior is the estimator's probability for a legal move.
type Prior struct {
	Move int
	P    float64
}

type node struct {
	parent   *node
	moves    []int
	children []*node
	visits   int
	q        float64 // Mean value from the perspective of the player who moved into this node
	prior    float64
}

func newNode(parent *node, prior float64) *node {
	return &node{parent: parent, prior: prior}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) expand(priors []Prior) {
	for _, p := range priors {
		n.moves = append(n.moves, p.Move)
		n.children = append(n.children, newNode(n, p.P))
	}
}

// selectChild returns the move and child with the highest PUCT score.
func (n *node) selectChild(cPuct float64) (int, *node) {
	best := -1
	bestScore := math.Inf(-1)
	for i, child := range n.children {
		score := puct(child.q, child.prior, child.visits, n.visits, cPuct)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return n.moves[best], n.children[best]
}

// backup propagates leafValue from this node to the root, negating it at
// every level since players alternate.
func (n *node) backup(leafValue float64) {
	for node := n; node != nil; node = node.parent {
		node.visits++
		node.q += (leafValue - node.q) / float64(node.visits)
		leafValue = -leafValue
	}
}

func (n *node) child(move int) *node {
	for i, m := range n.moves {
		if m == move {
			return n.children[i]
		}
	}
	return nil
}
