package agent

import (
	"math"
	"time"

	"gomoku/game"
	"gomoku/searcher"

	"golang.org/x/exp/rand"
)

// TrainingOption configures a training agent.
type TrainingOption func(a *trainingAgent)

// WithNoise mixes Dirichlet(alpha) noise into the move choice with weight
// epsilon. The reported search distribution stays noise free.
func WithNoise(alpha, epsilon float64) TrainingOption {
	return func(a *trainingAgent) {
		if alpha > 0 && epsilon >= 0 && epsilon <= 1 {
			a.alpha = alpha
			a.epsilon = epsilon
		}
	}
}

func WithAgentRand(rng *rand.Rand) TrainingOption {
	return func(a *trainingAgent) {
		if rng != nil {
			a.rng = rng
		}
	}
}

type trainingAgent struct {
	player  int
	mcts    *searcher.MCTS
	alpha   float64
	epsilon float64
	rng     *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to temperature-adjusted visit counts and
// keeps the search tree between moves.
func NewTrainingAgent(mcts *searcher.MCTS, options ...TrainingOption) *trainingAgent {
	a := &trainingAgent{
		mcts: mcts,
		rng:  rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *trainingAgent) SetPlayer(id int) {
	a.player = id
}

func (a *trainingAgent) Reset() {
	a.mcts.UpdateWithMove(-1)
}

// GetAction plays like self-play at temperature 1. The opponent's moves
// never reach the tree, so every position is searched from scratch.
func (a *trainingAgent) GetAction(board *game.Board) (int, error) {
	a.mcts.UpdateWithMove(-1)
	move, _, err := a.GetActionWithProbs(board, 1.0)
	a.mcts.UpdateWithMove(-1)
	return move, err
}

// GetActionWithProbs returns the chosen move and the search distribution
// over all board cells.
func (a *trainingAgent) GetActionWithProbs(board *game.Board, temperature float64) (int, []float64, error) {
	moves, visits, err := simulate(a.mcts, board)
	if err != nil {
		return 0, nil, err
	}
	policy := adjustTemperature(visits, temperature)

	probs := make([]float64, board.Size())
	for i, move := range moves {
		probs[move] = policy[i]
	}

	choice := policy
	if a.epsilon > 0 {
		noise := dirichlet(a.rng, a.alpha, len(policy))
		choice = make([]float64, len(policy))
		for i := range policy {
			choice[i] = (1-a.epsilon)*policy[i] + a.epsilon*noise[i]
		}
	}
	move := moves[sample(a.rng, choice)]
	if err := checkLegal(board, move); err != nil {
		return 0, nil, err
	}

	a.mcts.UpdateWithMove(move)
	return move, probs, nil
}

func (a *trainingAgent) String() string {
	return "self-play MCTS"
}

func sample(rng *rand.Rand, policy []float64) int {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}

// dirichlet draws a symmetric Dirichlet(alpha) vector of size n.
func dirichlet(rng *rand.Rand, alpha float64, n int) []float64 {
	out := make([]float64, n)
	sum := 0.0
	for i := range out {
		out[i] = gamma(rng, alpha)
		sum += out[i]
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// gamma samples Gamma(shape, 1) with the Marsaglia-Tsang method.
func gamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		return gamma(rng, shape+1) * math.Pow(rng.Float64(), 1/shape)
	}
	d := shape - 1.0/3
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if math.Log(u) < 0.5*x*x+d-d*v+d*math.Log(v) {
			return d * v
		}
	}
}
