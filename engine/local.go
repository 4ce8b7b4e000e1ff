package engine

import (
	"fmt"
	"io"
	"os"

	"gomoku/game"

	"github.com/rs/zerolog/log"
)

// Engine runs complete games on a board of fixed dimensions.
type Engine struct {
	Board *game.Board
	Out   io.Writer // Destination of rendered boards
}

func LocalEngine(board *game.Board) *Engine {
	if board == nil {
		panic("engine needs a board")
	}
	return &Engine{
		Board: board,
		Out:   os.Stdout,
	}
}

// StartPlay plays one game between p1 (game.Player1) and p2 (game.Player2).
// startPlayer is 0 when p1 moves first and 1 when p2 does. The winner is
// game.Player1, game.Player2 or game.Draw.
func (e *Engine) StartPlay(p1, p2 Player, startPlayer int, render bool) (int, error) {
	if err := e.Board.Init(startPlayer); err != nil {
		return 0, err
	}
	p1.SetPlayer(game.Player1)
	p2.SetPlayer(game.Player2)
	players := map[int]Player{game.Player1: p1, game.Player2: p2}

	if render {
		if err := e.Board.Render(e.Out); err != nil {
			return 0, err
		}
	}

	for {
		current := e.Board.CurrentPlayer
		move, err := players[current].GetAction(e.Board)
		if err != nil {
			return 0, fmt.Errorf("player %d failed to move: %w", current, err)
		}
		if err := e.Board.DoMove(move); err != nil {
			return 0, fmt.Errorf("player %d played an illegal move: %w", current, err)
		}
		if render {
			if err := e.Board.Render(e.Out); err != nil {
				return 0, err
			}
		}

		if end, winner := e.Board.GameEnd(); end {
			if render {
				if winner == game.Draw {
					fmt.Fprintln(e.Out, "Game end. Tie")
				} else {
					fmt.Fprintf(e.Out, "Game end. Winner is player %d\n", winner)
				}
			}
			return winner, nil
		}
	}
}

// StartSelfPlay plays one game of player against itself and records every
// ply. The steps carry the mover of each ply so that outcomes can be
// assigned once the winner is known.
func (e *Engine) StartSelfPlay(player SelfPlayer, temperature float64) (int, []Step, error) {
	if err := e.Board.Init(0); err != nil {
		return 0, nil, err
	}
	defer player.Reset()

	var steps []Step
	for {
		move, probs, err := player.GetActionWithProbs(e.Board, temperature)
		if err != nil {
			return 0, nil, fmt.Errorf("self-play move %d failed: %w", len(steps)+1, err)
		}
		steps = append(steps, Step{
			State:  e.Board.CurrentState(),
			Probs:  probs,
			Player: e.Board.CurrentPlayer,
		})
		if err := e.Board.DoMove(move); err != nil {
			return 0, nil, fmt.Errorf("self-play chose an illegal move: %w", err)
		}

		if end, winner := e.Board.GameEnd(); end {
			log.Debug().Msgf("self-play game over after %d moves, winner: %d", len(steps), winner)
			return winner, steps, nil
		}
	}
}
