package engine

import (
	"bytes"
	"errors"
	"testing"

	"gomoku/game"

	"github.com/stretchr/testify/require"
)

// scriptedPlayer plays a fixed list of moves and records how it is driven.
type scriptedPlayer struct {
	moves   []int
	id      int
	resets  int
	seenAt  []int // Stones on the board at each call
	failure error
}

func (p *scriptedPlayer) SetPlayer(id int) {
	p.id = id
}

func (p *scriptedPlayer) Reset() {
	p.resets++
}

func (p *scriptedPlayer) GetAction(board *game.Board) (int, error) {
	if p.failure != nil {
		return 0, p.failure
	}
	move := p.moves[len(p.seenAt)]
	p.seenAt = append(p.seenAt, board.Moves())
	return move, nil
}

func (p *scriptedPlayer) GetActionWithProbs(board *game.Board, temperature float64) (int, []float64, error) {
	move, err := p.GetAction(board)
	if err != nil {
		return 0, nil, err
	}
	probs := make([]float64, board.Size())
	probs[move] = 1
	return move, probs, nil
}

func newTestEngine() (*Engine, *bytes.Buffer) {
	var out bytes.Buffer
	e := LocalEngine(game.NewBoard(3, 3, 3))
	e.Out = &out
	return e, &out
}

func TestLocalEngineStartPlay(t *testing.T) {
	t.Run("player 1 completes a line", func(t *testing.T) {
		e, _ := newTestEngine()
		p1 := &scriptedPlayer{moves: []int{0, 1, 2}}
		p2 := &scriptedPlayer{moves: []int{3, 4}}

		winner, err := e.StartPlay(p1, p2, 0, false)
		require.NoError(t, err)
		require.Equal(t, game.Player1, winner)
		require.Equal(t, game.Player1, p1.id)
		require.Equal(t, game.Player2, p2.id)
		require.Equal(t, []int{0, 2, 4}, p1.seenAt, "Player 1 should move first")
		require.Equal(t, []int{1, 3}, p2.seenAt)
	})

	t.Run("start player 1 gives player 2 the first move", func(t *testing.T) {
		e, _ := newTestEngine()
		p1 := &scriptedPlayer{moves: []int{3, 4}}
		p2 := &scriptedPlayer{moves: []int{0, 1, 2}}

		winner, err := e.StartPlay(p1, p2, 1, false)
		require.NoError(t, err)
		require.Equal(t, game.Player2, winner)
		require.Equal(t, []int{0, 2, 4}, p2.seenAt, "Player 2 should move first")
		require.Equal(t, game.Player2, e.Board.At(0))
	})

	t.Run("full board is a draw", func(t *testing.T) {
		e, out := newTestEngine()
		p1 := &scriptedPlayer{moves: []int{0, 2, 3, 7, 8}}
		p2 := &scriptedPlayer{moves: []int{1, 4, 5, 6}}

		winner, err := e.StartPlay(p1, p2, 0, true)
		require.NoError(t, err)
		require.Equal(t, game.Draw, winner)
		require.Contains(t, out.String(), "Game end. Tie")
	})

	t.Run("renders the winner", func(t *testing.T) {
		e, out := newTestEngine()
		winner, err := e.StartPlay(&scriptedPlayer{moves: []int{0, 1, 2}}, &scriptedPlayer{moves: []int{3, 4}}, 0, true)
		require.NoError(t, err)
		require.Equal(t, game.Player1, winner)
		require.Contains(t, out.String(), "Winner is player 1")
	})

	t.Run("illegal move", func(t *testing.T) {
		e, _ := newTestEngine()
		_, err := e.StartPlay(&scriptedPlayer{moves: []int{0}}, &scriptedPlayer{moves: []int{0}}, 0, false)
		require.Error(t, err, "Should reject a move on an occupied cell")
	})

	t.Run("player failure", func(t *testing.T) {
		e, _ := newTestEngine()
		failure := errors.New("no move")
		_, err := e.StartPlay(&scriptedPlayer{failure: failure}, &scriptedPlayer{}, 0, false)
		require.ErrorIs(t, err, failure)
	})

	t.Run("invalid start player", func(t *testing.T) {
		e, _ := newTestEngine()
		_, err := e.StartPlay(&scriptedPlayer{}, &scriptedPlayer{}, 2, false)
		require.Error(t, err)
	})
}

func TestLocalEngineStartSelfPlay(t *testing.T) {
	t.Run("records one step per ply", func(t *testing.T) {
		e, _ := newTestEngine()
		p := &scriptedPlayer{moves: []int{0, 3, 1, 4, 2}}

		winner, steps, err := e.StartSelfPlay(p, 1.0)
		require.NoError(t, err)
		require.Equal(t, game.Player1, winner)
		require.Len(t, steps, 5)
		require.Equal(t, 1, p.resets, "Should reset the player once the game ends")

		for i, step := range steps {
			mover := game.Player1
			if i%2 == 1 {
				mover = game.Player2
			}
			require.Equal(t, mover, step.Player, "Step %d should carry its mover", i)
			require.Equal(t, 1.0, step.Probs[p.moves[i]], "Step %d should carry the player's distribution", i)
			require.Len(t, step.State, game.NumPlanes)
		}

		require.Equal(t, make([]float64, 9), steps[0].State[0], "First state should be captured on an empty board")
		require.Equal(t, make([]float64, 9), steps[0].State[1])
		require.Equal(t, 1.0, steps[1].State[1][0], "Second state should see the opponent's first stone")
		require.Zero(t, steps[1].State[0][3], "State should be captured before the move is played")
	})

	t.Run("draw", func(t *testing.T) {
		e, _ := newTestEngine()
		p := &scriptedPlayer{moves: []int{0, 1, 2, 4, 3, 5, 7, 6, 8}}

		winner, steps, err := e.StartSelfPlay(p, 1.0)
		require.NoError(t, err)
		require.Equal(t, game.Draw, winner)
		require.Len(t, steps, 9)
	})

	t.Run("resets after a failure", func(t *testing.T) {
		e, _ := newTestEngine()
		p := &scriptedPlayer{failure: errors.New("search crashed")}

		_, _, err := e.StartSelfPlay(p, 1.0)
		require.Error(t, err)
		require.Equal(t, 1, p.resets, "Should reset the player even when the game fails")
	})
}
