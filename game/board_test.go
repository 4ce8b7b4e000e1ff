package game

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, width, height, nInRow int) *Board {
	b := NewBoard(width, height, nInRow)
	require.NoError(t, b.Init(0))
	return b
}

func play(t *testing.T, b *Board, moves ...int) {
	for _, m := range moves {
		require.NoError(t, b.DoMove(m))
	}
}

func TestBoardInit(t *testing.T) {
	t.Run("rejects boards smaller than the line length", func(t *testing.T) {
		b := NewBoard(3, 3, 4)
		require.Error(t, b.Init(0), "Should reject a board that can not hold a winning line")
	})

	t.Run("start player", func(t *testing.T) {
		b := NewBoard(3, 3, 3)
		require.NoError(t, b.Init(1))
		require.Equal(t, Player2, b.CurrentPlayer, "Start player 1 should give the first move to player 2")
		require.Len(t, b.Availables(), 9, "All cells should be available")
		require.Equal(t, -1, b.LastMove, "No move should be recorded")
	})
}

func TestBoardDoMove(t *testing.T) {
	t.Run("alternates players and consumes the cell", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		play(t, b, 4)

		require.Equal(t, Player1, b.At(4), "Cell should belong to the mover")
		require.Equal(t, Player2, b.CurrentPlayer, "Turn should pass to the opponent")
		require.NotContains(t, b.Availables(), 4, "Cell should no longer be available")
	})

	t.Run("rejects occupied and off-board cells", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		play(t, b, 0)

		require.Error(t, b.DoMove(0), "Should reject an occupied cell")
		require.Error(t, b.DoMove(9), "Should reject a cell off the board")
	})
}

func TestBoardGameEnd(t *testing.T) {
	t.Run("horizontal line", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		play(t, b, 0, 3, 1, 4, 2)

		end, winner := b.GameEnd()
		require.True(t, end, "Game should be over")
		require.Equal(t, Player1, winner, "Player 1 completed the line")
	})

	t.Run("anti-diagonal line", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		play(t, b, 0, 2, 1, 4, 3, 6)

		end, winner := b.GameEnd()
		require.True(t, end, "Game should be over")
		require.Equal(t, Player2, winner, "Player 2 completed the line")
	})

	t.Run("draw on a full board", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		// X O X / X O O / O X X
		play(t, b, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		end, winner := b.GameEnd()
		require.True(t, end, "Game should be over")
		require.Equal(t, Draw, winner, "Full board without a line is a draw")
	})

	t.Run("game in progress", func(t *testing.T) {
		b := newTestBoard(t, 3, 3, 3)
		play(t, b, 0, 1)

		end, _ := b.GameEnd()
		require.False(t, end, "Game should continue")
	})
}

func TestBoardCurrentState(t *testing.T) {
	b := newTestBoard(t, 3, 3, 3)
	play(t, b, 0, 4)

	state := b.CurrentState()
	require.Len(t, state, NumPlanes, "Should produce one plane per feature")
	require.Equal(t, 1.0, state[0][0], "Current player's stone should be on plane 0")
	require.Equal(t, 1.0, state[1][4], "Opponent's stone should be on plane 1")
	require.Equal(t, 1.0, state[2][4], "Last move should be on plane 2")
	require.Equal(t, 1.0, state[3][0], "Player 1 started and is to move again")
}

func TestBoardCopy(t *testing.T) {
	b := newTestBoard(t, 3, 3, 3)
	play(t, b, 0)
	c := b.Copy()
	play(t, c, 1)

	require.Equal(t, 0, b.At(1), "Original board should not change")
	require.Len(t, b.Availables(), 8, "Original availables should not change")
}

func TestBoardAvailables(t *testing.T) {
	b := newTestBoard(t, 3, 3, 3)
	play(t, b, 4)
	held := b.Availables()
	play(t, b, 0, 8)

	require.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, held, "Held slice should survive later moves")
	require.Equal(t, []int{1, 2, 3, 5, 6, 7}, b.Availables())
}

func TestBoardRender(t *testing.T) {
	b := newTestBoard(t, 3, 3, 3)
	play(t, b, 0, 4)

	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf))
	require.Contains(t, buf.String(), "X", "Should draw player 1 stones")
	require.Contains(t, buf.String(), "O", "Should draw player 2 stones")
}
