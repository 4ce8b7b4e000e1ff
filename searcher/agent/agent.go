package agent

import (
	"fmt"
	"math"

	"gomoku/engine"
	"gomoku/game"
	"gomoku/searcher"
	"gomoku/utils"
)

type Agent interface {
	engine.Player
	fmt.Stringer
}

// adjustTemperature turns visit counts into move probabilities
// proportional to visits^(1/temperature). It works in log space so that
// small temperatures approach argmax without overflowing.
func adjustTemperature(visits []int, temperature float64) []float64 {
	if temperature <= 0 {
		temperature = 1e-3
	}
	logits := make([]float64, len(visits))
	maxLogit := math.Inf(-1)
	for i, v := range visits {
		logits[i] = math.Log(float64(v)+1e-10) / temperature
		maxLogit = math.Max(maxLogit, logits[i])
	}
	sum := 0.0
	probs := make([]float64, len(visits))
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	// Normalize
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// findMax returns the most visited move.
func findMax(moves []int, visits []int) int {
	maxMove := -1
	maxVisits := -1
	for i, v := range visits {
		if v > maxVisits {
			maxVisits = v
			maxMove = moves[i]
		}
	}
	return maxMove
}

func checkLegal(board *game.Board, move int) error {
	if utils.FindIndex(board.Availables(), move) < 0 {
		return fmt.Errorf("search returned unavailable move %d", move)
	}
	return nil
}

func simulate(mcts *searcher.MCTS, board *game.Board) ([]int, []int, error) {
	if len(board.Availables()) == 0 {
		return nil, nil, fmt.Errorf("board is full")
	}
	moves, visits, err := mcts.Simulate(board)
	if err != nil {
		return nil, nil, err
	}
	if len(moves) == 0 {
		return nil, nil, fmt.Errorf("search expanded no moves")
	}
	return moves, visits, nil
}
