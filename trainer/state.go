package trainer

// State is the training state carried across iterations. It is owned by
// the Pipeline and persisted after every iteration when a store is set.
type State struct {
	LRMultiplier     float64 `json:"lr_multiplier"`
	BaselinePlayouts int     `json:"baseline_playouts"`
	BestWinRatio     float64 `json:"best_win_ratio"`
	Iteration        int     `json:"iteration"` // Completed iterations
}

func NewState(baselinePlayouts int) *State {
	return &State{
		LRMultiplier:     1.0,
		BaselinePlayouts: baselinePlayouts,
	}
}

// StateStore persists the training state of a named run.
type StateStore interface {
	SaveState(run string, state State) error
	// LoadState reports false when the run has no saved state
	LoadState(run string) (State, bool, error)
}
