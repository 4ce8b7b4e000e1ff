package game

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// HasWinner reports whether the last move completed a line of NInRow.
// Only the last move can create a new line, so only it is inspected.
func (b *Board) HasWinner() (bool, int) {
	if b.LastMove < 0 || b.moves < 2*b.NInRow-1 {
		return false, 0
	}

	player := b.cells[b.LastMove]
	h, w := b.MoveToLocation(b.LastMove)
	for _, d := range directions {
		count := 1 + b.countDirection(h, w, d[0], d[1], player) + b.countDirection(h, w, -d[0], -d[1], player)
		if count >= b.NInRow {
			return true, player
		}
	}
	return false, 0
}

func (b *Board) countDirection(h, w, dh, dw, player int) int {
	count := 0
	for {
		h, w = h+dh, w+dw
		move := b.LocationToMove(h, w)
		if move < 0 || b.cells[move] != player {
			return count
		}
		count++
	}
}

// GameEnd reports whether the game is over and its winner, Draw when the
// board filled up without a line.
func (b *Board) GameEnd() (bool, int) {
	if won, winner := b.HasWinner(); won {
		return true, winner
	}
	if len(b.availables) == 0 {
		return true, Draw
	}
	return false, 0
}
