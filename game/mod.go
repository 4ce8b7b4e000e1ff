package game

// Player identifiers. Draw is reported as the winner of a game that filled
// the board without a line.
const (
	Player1 = 1
	Player2 = 2
	Draw    = -1
)

// NumPlanes is the number of feature planes produced by Board.CurrentState.
const NumPlanes = 4

// Opponent returns the other player.
func Opponent(player int) int {
	if player == Player1 {
		return Player2
	}
	return Player1
}
