package trainer

import (
	"fmt"

	"gomoku/engine"
	"gomoku/game"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of an evaluation match, from the current agent's side.
type Result struct {
	Wins   int
	Losses int
	Draws  int
}

func (r Result) Games() int {
	return r.Wins + r.Losses + r.Draws
}

// WinRatio counts a draw as half a win.
func (r Result) WinRatio() float64 {
	if r.Games() == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.Draws)) / float64(r.Games())
}

// Evaluator plays the current agent against a fixed baseline. It only
// plays games, the buffer and the estimator's parameters are untouched.
type Evaluator struct {
	game   engine.Game
	games  int
	render bool
}

func NewEvaluator(g engine.Game, games int, render bool) *Evaluator {
	return &Evaluator{game: g, games: games, render: render}
}

// Evaluate plays the configured number of games with current as player 1
// and baseline as player 2, alternating who moves first.
func (e *Evaluator) Evaluate(current, baseline engine.Player) (Result, error) {
	var result Result
	for i := 0; i < e.games; i++ {
		winner, err := e.game.StartPlay(current, baseline, i%2, e.render)
		if err != nil {
			return result, fmt.Errorf("failed to play evaluation game %d: %w", i+1, err)
		}
		switch winner {
		case game.Player1:
			result.Wins++
		case game.Draw:
			result.Draws++
		default:
			result.Losses++
		}
		log.Debug().Msgf("evaluation game %d of %d over, winner: %d", i+1, e.games, winner)
	}
	return result, nil
}
