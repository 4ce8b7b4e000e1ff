package searcher

import (
	"fmt"
	"time"

	"gomoku/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// PolicyValueFn returns priors over the legal moves of board and the value
// of the position for the player to move, in [-1, 1].
type PolicyValueFn func(board *game.Board) ([]Prior, float64, error)

type Option func(mcts *MCTS)

type MCTS struct {
	policy       PolicyValueFn
	cPuct        float64
	playouts     int
	rollout      bool
	rolloutLimit int
	rng          *rand.Rand
	root         *node
	metrics      MetricsCollector
}

func WithPlayouts(playouts int) Option {
	return func(m *MCTS) {
		if playouts > 0 {
			m.playouts = playouts
		}
	}
}

func WithCPuct(cPuct float64) Option {
	return func(m *MCTS) {
		if cPuct > 0 {
			m.cPuct = cPuct
		}
	}
}

func WithRolloutLimit(limit int) Option {
	return func(m *MCTS) {
		if limit > 0 {
			m.rolloutLimit = limit
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

// NewMCTS returns a search guided by policy: leaves are valued by the
// estimator and expanded with its priors.
func NewMCTS(policy PolicyValueFn, options ...Option) *MCTS {
	if policy == nil {
		panic("MCTS needs a policy-value function")
	}
	m := &MCTS{ // Default values
		policy:       policy,
		cPuct:        DefaultCPuct,
		playouts:     DefaultPlayouts,
		rolloutLimit: DefaultRolloutLimit,
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		root:         newNode(nil, 1.0),
		metrics:      NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewPureMCTS returns a search without a learned estimator: priors are
// uniform and leaves are valued by random rollouts.
func NewPureMCTS(options ...Option) *MCTS {
	m := NewMCTS(UniformPolicy, options...)
	m.rollout = true
	return m
}

// UniformPolicy gives every legal move the same prior and values every
// position at 0.
func UniformPolicy(board *game.Board) ([]Prior, float64, error) {
	moves := board.Availables()
	priors := make([]Prior, len(moves))
	for i, move := range moves {
		priors[i] = Prior{Move: move, P: 1.0 / float64(len(moves))}
	}
	return priors, 0, nil
}

func (m *MCTS) Playouts() int {
	return m.playouts
}

// Simulate runs the configured number of playouts from board and returns
// the root's moves with their visit counts. board is left unchanged.
func (m *MCTS) Simulate(board *game.Board) ([]int, []int, error) {
	m.metrics.Start()
	for i := 0; i < m.playouts; i++ {
		if err := m.simulate(board.Copy()); err != nil {
			return nil, nil, err
		}
		m.metrics.AddPlayout()
	}
	metric := m.metrics.Complete()
	if metric.Playouts > 0 {
		log.Debug().Msgf("search finished %d playouts (%d full rollouts) in %s, tree reused: %t",
			metric.Playouts, metric.FullRollouts, metric.Duration, metric.TreeReused)
	}

	visits := make([]int, len(m.root.children))
	for i, child := range m.root.children {
		visits[i] = child.visits
	}
	return append([]int(nil), m.root.moves...), visits, nil
}

// UpdateWithMove advances the root to the child reached by move, keeping
// its subtree. A move of -1, or an unexplored move, resets the tree.
func (m *MCTS) UpdateWithMove(move int) {
	if move >= 0 {
		if child := m.root.child(move); child != nil {
			child.parent = nil
			m.root = child
			m.metrics.ReusedTree(true)
			return
		}
	}
	m.root = newNode(nil, 1.0)
	m.metrics.ReusedTree(false)
}

func (m *MCTS) simulate(board *game.Board) error {
	n := m.root
	for !n.isLeaf() {
		var move int
		move, n = n.selectChild(m.cPuct)
		if err := board.DoMove(move); err != nil {
			return fmt.Errorf("search selected an illegal move: %w", err)
		}
	}

	priors, leafValue, err := m.policy(board)
	if err != nil {
		return fmt.Errorf("failed to evaluate leaf: %w", err)
	}

	end, winner := board.GameEnd()
	switch {
	case end:
		leafValue = terminalValue(winner, board.CurrentPlayer)
	case m.rollout:
		n.expand(priors)
		leafValue = m.rolloutValue(board)
	default:
		n.expand(priors)
	}

	// The leaf is valued for the player to move there, its node holds the
	// value for the player who moved into it
	n.backup(-leafValue)
	return nil
}

// rolloutValue plays random moves until the game ends or the limit is
// reached and scores the result for the player to move at the start.
func (m *MCTS) rolloutValue(board *game.Board) float64 {
	player := board.CurrentPlayer
	for depth := 0; depth < m.rolloutLimit; depth++ {
		if end, winner := board.GameEnd(); end {
			m.metrics.AddFullRollout()
			return terminalValue(winner, player)
		}
		moves := board.Availables()
		move := moves[m.rng.Intn(len(moves))] // Random rollout policy
		if err := board.DoMove(move); err != nil {
			panic(err) // Availables only holds legal moves
		}
	}
	log.Warn().Msgf("rollout reached the limit of %d moves", m.rolloutLimit)
	return DRAW
}

func terminalValue(winner, player int) float64 {
	switch winner {
	case game.Draw:
		return DRAW
	case player:
		return WIN
	default:
		return LOSS
	}
}
