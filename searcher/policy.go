package searcher

import "math"

// puct scores a child for selection: its mean value plus an exploration
// bonus proportional to its prior and shrinking with its own visits.
func puct(q, prior float64, visits, parentVisits int, cPuct float64) float64 {
	u := cPuct * prior * math.Sqrt(float64(parentVisits)) / float64(1+visits)
	return q + u
}
