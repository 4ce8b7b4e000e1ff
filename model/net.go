// Package model is a small policy-value estimator: a linear softmax policy
// over all board cells and a tanh value head, trained by SGD.
package model

import (
	"fmt"
	"math"

	"gomoku/game"
	"gomoku/searcher"

	"golang.org/x/exp/rand"
)

type Net struct {
	Width  int
	Height int
	Planes int
	L2     float64

	PolicyW [][]float64 // Cells x inputs
	PolicyB []float64
	ValueW  []float64
	ValueB  float64
}

// New returns a net with small random weights.
func New(width, height, planes int, l2 float64, rng *rand.Rand) *Net {
	cells := width * height
	inputs := planes * cells
	n := &Net{
		Width:   width,
		Height:  height,
		Planes:  planes,
		L2:      l2,
		PolicyW: make([][]float64, cells),
		PolicyB: make([]float64, cells),
		ValueW:  make([]float64, inputs),
	}
	scale := 1 / math.Sqrt(float64(inputs))
	for i := range n.PolicyW {
		n.PolicyW[i] = make([]float64, inputs)
		for j := range n.PolicyW[i] {
			n.PolicyW[i][j] = rng.NormFloat64() * scale * 0.1
		}
	}
	for j := range n.ValueW {
		n.ValueW[j] = rng.NormFloat64() * scale * 0.1
	}
	return n
}

func (n *Net) inputs() int {
	return n.Planes * n.Width * n.Height
}

// flatten concatenates the planes of a state into one input vector.
func (n *Net) flatten(state [][]float64) ([]float64, error) {
	x := make([]float64, 0, n.inputs())
	for _, plane := range state {
		x = append(x, plane...)
	}
	if len(x) != n.inputs() {
		return nil, fmt.Errorf("state has %d inputs, net expects %d", len(x), n.inputs())
	}
	return x, nil
}

func (n *Net) forward(x []float64) ([]float64, float64) {
	logits := make([]float64, len(n.PolicyW))
	for i, row := range n.PolicyW {
		logits[i] = n.PolicyB[i] + dot(row, x)
	}
	return softmax(logits), math.Tanh(n.ValueB + dot(n.ValueW, x))
}

// PolicyValue returns the move distribution and value of every state.
func (n *Net) PolicyValue(states [][][]float64) ([][]float64, []float64, error) {
	probs := make([][]float64, len(states))
	values := make([]float64, len(states))
	for i, state := range states {
		x, err := n.flatten(state)
		if err != nil {
			return nil, nil, err
		}
		probs[i], values[i] = n.forward(x)
	}
	return probs, values, nil
}

// TrainStep takes one gradient step on the mean of (z - v)^2 minus the
// cross entropy of the search distribution, with L2 weight decay. It
// returns the loss and the policy entropy measured before the step.
func (n *Net) TrainStep(states [][][]float64, probs [][]float64, values []float64, lr float64) (float64, float64, error) {
	if len(states) == 0 || len(states) != len(probs) || len(states) != len(values) {
		return 0, 0, fmt.Errorf("mismatched batch: %d states, %d distributions, %d values", len(states), len(probs), len(values))
	}

	cells, inputs := len(n.PolicyW), n.inputs()
	gradPW := make([][]float64, cells)
	for i := range gradPW {
		gradPW[i] = make([]float64, inputs)
	}
	gradPB := make([]float64, cells)
	gradVW := make([]float64, inputs)
	gradVB := 0.0

	batch := float64(len(states))
	loss, entropy := 0.0, 0.0
	for b, state := range states {
		x, err := n.flatten(state)
		if err != nil {
			return 0, 0, err
		}
		p, v := n.forward(x)
		target := probs[b]

		diff := values[b] - v
		loss += diff * diff
		for i, pi := range p {
			loss -= target[i] * math.Log(pi+1e-10)
			entropy -= pi * math.Log(pi+1e-10)

			// d(cross entropy)/d(logit) = p - target
			g := (pi - target[i]) / batch
			if g == 0 {
				continue
			}
			gradPB[i] += g
			row := gradPW[i]
			for j, xj := range x {
				row[j] += g * xj
			}
		}

		gv := -2 * diff * (1 - v*v) / batch
		gradVB += gv
		for j, xj := range x {
			gradVW[j] += gv * xj
		}
	}

	for i, row := range n.PolicyW {
		for j := range row {
			row[j] -= lr * (gradPW[i][j] + 2*n.L2*row[j])
		}
		n.PolicyB[i] -= lr * gradPB[i]
	}
	for j := range n.ValueW {
		n.ValueW[j] -= lr * (gradVW[j] + 2*n.L2*n.ValueW[j])
	}
	n.ValueB -= lr * gradVB

	return loss / batch, entropy / batch, nil
}

// PolicyValueFn evaluates a board for the searcher: priors over the legal
// moves, renormalized, and the value for the player to move.
func (n *Net) PolicyValueFn(board *game.Board) ([]searcher.Prior, float64, error) {
	probs, values, err := n.PolicyValue([][][]float64{board.CurrentState()})
	if err != nil {
		return nil, 0, err
	}

	moves := board.Availables()
	priors := make([]searcher.Prior, len(moves))
	total := 0.0
	for i, move := range moves {
		priors[i] = searcher.Prior{Move: move, P: probs[0][move]}
		total += probs[0][move]
	}
	for i := range priors {
		if total > 0 {
			priors[i].P /= total
		} else {
			priors[i].P = 1 / float64(len(priors))
		}
	}
	return priors, values[0], nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l)
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
