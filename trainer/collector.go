package trainer

import (
	"fmt"

	"gomoku/engine"
	"gomoku/game"
)

// Collector plays self-play games and feeds their augmented samples into
// a buffer.
type Collector struct {
	game        engine.Game
	player      engine.SelfPlayer
	height      int
	width       int
	temperature float64

	// EpisodeLen is the number of plies of the last collected game
	EpisodeLen int
}

func NewCollector(g engine.Game, player engine.SelfPlayer, height, width int, temperature float64) *Collector {
	return &Collector{
		game:        g,
		player:      player,
		height:      height,
		width:       width,
		temperature: temperature,
	}
}

// Collect plays n games and pushes 8 samples per ply into buffer.
func (c *Collector) Collect(buffer *Buffer, n int) error {
	for i := 0; i < n; i++ {
		winner, steps, err := c.game.StartSelfPlay(c.player, c.temperature)
		if err != nil {
			return fmt.Errorf("failed to play self-play game: %w", err)
		}
		c.EpisodeLen = len(steps)
		buffer.Push(Augment(Outcomes(steps, winner), c.height, c.width)...)
	}
	return nil
}

// Outcomes turns a finished episode into samples, scoring every ply +1 if
// its mover won, -1 if the mover lost and 0 on a draw.
func Outcomes(steps []engine.Step, winner int) []Sample {
	samples := make([]Sample, len(steps))
	for i, step := range steps {
		outcome := 0.0
		if winner != game.Draw {
			if step.Player == winner {
				outcome = 1
			} else {
				outcome = -1
			}
		}
		samples[i] = Sample{State: step.State, Probs: step.Probs, Outcome: outcome}
	}
	return samples
}
