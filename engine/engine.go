package engine

import "gomoku/game"

// Player chooses moves in a competitive game.
type Player interface {
	// SetPlayer tells the player which side (game.Player1 or game.Player2) it plays
	SetPlayer(id int)
	// Reset discards any search state carried between moves
	Reset()
	GetAction(board *game.Board) (int, error)
}

// SelfPlayer chooses moves in self-play and reports the search distribution
// over all board cells that produced each move.
type SelfPlayer interface {
	Reset()
	GetActionWithProbs(board *game.Board, temperature float64) (move int, probs []float64, err error)
}

// Step is one recorded ply of a self-play episode.
type Step struct {
	State  [][]float64 // Feature planes from the mover's perspective
	Probs  []float64   // Search distribution over all cells
	Player int         // The player who moved
}

// Game runs complete games. Engine is the local implementation.
type Game interface {
	StartPlay(p1, p2 Player, startPlayer int, render bool) (winner int, err error)
	StartSelfPlay(player SelfPlayer, temperature float64) (winner int, steps []Step, err error)
}
