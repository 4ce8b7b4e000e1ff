package trainer

import (
	"fmt"
)

// Saver persists the estimator's parameters.
type Saver interface {
	Save(path string) error
}

// Curriculum keeps the current and best checkpoints and makes the
// baseline stronger once the agent beats it in every game.
type Curriculum struct {
	CurrentPath string
	BestPath    string
	Step        int // Baseline playouts added per escalation
	MaxPlayouts int // No escalation at or above this budget
}

// Decision reports what a checkpoint step did.
type Decision struct {
	NewBest   bool
	Escalated bool
}

// Checkpoint always saves the current model. A ratio at least as good as
// the best so far also saves the best model. A perfect best ratio raises
// the baseline budget and resets the best ratio, so the agent has to prove
// itself again against the stronger baseline.
func (c *Curriculum) Checkpoint(saver Saver, state *State, ratio float64) (Decision, error) {
	var d Decision
	if err := saver.Save(c.CurrentPath); err != nil {
		return d, fmt.Errorf("failed to save current model: %w", err)
	}
	if ratio < state.BestWinRatio {
		return d, nil
	}

	if err := saver.Save(c.BestPath); err != nil {
		return d, fmt.Errorf("failed to save best model: %w", err)
	}
	d.NewBest = true
	state.BestWinRatio = ratio

	if state.BestWinRatio == 1.0 && state.BaselinePlayouts < c.MaxPlayouts {
		state.BaselinePlayouts += c.Step
		state.BestWinRatio = 0
		d.Escalated = true
	}
	return d, nil
}
