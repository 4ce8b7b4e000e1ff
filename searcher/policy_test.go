package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPUCT(t *testing.T) {
	t.Run("computing PUCT value", func(t *testing.T) {
		got := puct(0.25, 0.5, 3, 16, 5.0)

		expected := 0.25 + 5.0*0.5*math.Sqrt(16)/4
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q + c*p*sqrt(N)/(1+n)")
	})

	t.Run("unvisited child gets the full bonus", func(t *testing.T) {
		got := puct(0, 0.2, 0, 9, 1.0)
		require.InDelta(t, 0.2*3, got, 0.0001,
			"Exploration should only be scaled by the prior when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := puct(0.1, 0.3, 5, 100, 5.0)
		score2 := puct(0.1, 0.3, 5, 1000, 5.0)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		score1 := puct(0.1, 0.3, 5, 100, 5.0)
		score2 := puct(0.1, 0.3, 50, 100, 5.0)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("higher prior gives higher score", func(t *testing.T) {
		require.Greater(t, puct(0, 0.6, 2, 10, 5.0), puct(0, 0.1, 2, 10, 5.0),
			"The prior should weight exploration")
	})
}
