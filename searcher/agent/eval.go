package agent

import (
	"fmt"

	"gomoku/game"
	"gomoku/searcher"
)

type evaluationAgent struct {
	name   string
	player int
	mcts   *searcher.MCTS
}

// NewEvaluationAgent returns an agent for competitive play: it always
// plays the most visited move and searches every position from scratch.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return &evaluationAgent{name: "MCTS", mcts: mcts}
}

// NewBaselineAgent returns a pure MCTS agent with a fixed search budget
// and no learned estimator.
func NewBaselineAgent(playouts int, options ...searcher.Option) Agent {
	options = append(options, searcher.WithPlayouts(playouts))
	return &evaluationAgent{
		name: fmt.Sprintf("pure MCTS %d", playouts),
		mcts: searcher.NewPureMCTS(options...),
	}
}

func (a *evaluationAgent) SetPlayer(id int) {
	a.player = id
}

func (a *evaluationAgent) Reset() {
	a.mcts.UpdateWithMove(-1)
}

func (a *evaluationAgent) GetAction(board *game.Board) (int, error) {
	moves, visits, err := simulate(a.mcts, board)
	if err != nil {
		return 0, err
	}
	a.mcts.UpdateWithMove(-1)

	move := findMax(moves, visits)
	if err := checkLegal(board, move); err != nil {
		return 0, err
	}
	return move, nil
}

func (a *evaluationAgent) String() string {
	return fmt.Sprintf("%s player %d", a.name, a.player)
}
