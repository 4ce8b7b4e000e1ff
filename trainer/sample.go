package trainer

import (
	"errors"
	"fmt"
)

// Sample is one training example: the board planes seen by the mover, the
// search distribution over all cells and the final result for the mover.
type Sample struct {
	State   [][]float64
	Probs   []float64
	Outcome float64
}

// ErrInsufficientData is matched by errors.Is on an InsufficientDataError.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError reports a mini-batch request larger than the buffer.
type InsufficientDataError struct {
	Have int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("buffer holds %d samples, %d requested", e.Have, e.Want)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
