package game

import (
	"fmt"
)

// Board is a Gomoku board of Width x Height cells won by NInRow stones in a
// line. Moves are cell indices h*Width + w.
type Board struct {
	Width  int
	Height int
	NInRow int

	CurrentPlayer int
	LastMove      int

	cells      []int // Owner per cell, 0 when empty
	availables []int
	moves      int
	startedBy  int
}

// NewBoard returns an empty board. Call Init before playing.
func NewBoard(width, height, nInRow int) *Board {
	return &Board{
		Width:  width,
		Height: height,
		NInRow: nInRow,
	}
}

// Init clears the board and gives the first move to startPlayer (0 for
// Player1, 1 for Player2).
func (b *Board) Init(startPlayer int) error {
	if b.Width < b.NInRow || b.Height < b.NInRow {
		return fmt.Errorf("board width and height can not be less than %d", b.NInRow)
	}
	if startPlayer != 0 && startPlayer != 1 {
		return fmt.Errorf("start player must be 0 or 1, got %d", startPlayer)
	}

	size := b.Width * b.Height
	b.cells = make([]int, size)
	b.availables = make([]int, size)
	for i := range b.availables {
		b.availables[i] = i
	}
	b.CurrentPlayer = Player1 + startPlayer
	b.startedBy = b.CurrentPlayer
	b.LastMove = -1
	b.moves = 0
	return nil
}

// Size is the number of cells.
func (b *Board) Size() int {
	return b.Width * b.Height
}

// Availables returns the empty cells in ascending order. The slice must not
// be modified. A later DoMove leaves it untouched.
func (b *Board) Availables() []int {
	return b.availables
}

// MoveToLocation converts a move to (row, column).
func (b *Board) MoveToLocation(move int) (int, int) {
	return move / b.Width, move % b.Width
}

// LocationToMove converts (row, column) to a move, or -1 if off the board.
func (b *Board) LocationToMove(h, w int) int {
	if h < 0 || h >= b.Height || w < 0 || w >= b.Width {
		return -1
	}
	return h*b.Width + w
}

// At returns the owner of a cell, 0 if empty.
func (b *Board) At(move int) int {
	return b.cells[move]
}

// Moves is the number of stones on the board.
func (b *Board) Moves() int {
	return b.moves
}

// DoMove places a stone for the current player and passes the turn.
func (b *Board) DoMove(move int) error {
	if move < 0 || move >= len(b.cells) {
		return fmt.Errorf("move %d is off the board", move)
	}
	if b.cells[move] != 0 {
		return fmt.Errorf("cell %d is already occupied", move)
	}

	b.cells[move] = b.CurrentPlayer
	b.removeAvailable(move)
	b.moves++
	b.LastMove = move
	b.CurrentPlayer = Opponent(b.CurrentPlayer)
	return nil
}

func (b *Board) removeAvailable(move int) {
	for i, m := range b.availables {
		if m == move {
			// Reallocate so slices handed out by Availables keep their contents
			b.availables = append(b.availables[:i:i], b.availables[i+1:]...)
			return
		}
	}
}

// CurrentState encodes the board from the current player's perspective:
// plane 0 holds the current player's stones, plane 1 the opponent's,
// plane 2 marks the last move and plane 3 is all ones when the current
// player moved first.
func (b *Board) CurrentState() [][]float64 {
	size := b.Size()
	planes := make([][]float64, NumPlanes)
	for i := range planes {
		planes[i] = make([]float64, size)
	}

	for cell, owner := range b.cells {
		switch owner {
		case 0:
		case b.CurrentPlayer:
			planes[0][cell] = 1
		default:
			planes[1][cell] = 1
		}
	}
	if b.LastMove >= 0 {
		planes[2][b.LastMove] = 1
	}
	if b.CurrentPlayer == b.startedBy {
		for i := range planes[3] {
			planes[3][i] = 1
		}
	}
	return planes
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	c.cells = append([]int(nil), b.cells...)
	c.availables = append([]int(nil), b.availables...)
	return &c
}

func (b *Board) String() string {
	return fmt.Sprintf("%d_%d_%d", b.Height, b.Width, b.NInRow)
}
