package trainer

import (
	"errors"

	"gomoku/engine"
	"gomoku/game"
)

// fakeEstimator returns a uniform policy until its first train step and
// the after distribution from then on.
type fakeEstimator struct {
	cells   int
	after   []float64
	trained int
	lrs     []float64
	saved   []string
	err     error
}

func newFakeEstimator(after ...float64) *fakeEstimator {
	return &fakeEstimator{cells: len(after), after: after}
}

func (f *fakeEstimator) PolicyValue(states [][][]float64) ([][]float64, []float64, error) {
	probs := make([][]float64, len(states))
	for i := range probs {
		if f.trained == 0 {
			probs[i] = make([]float64, f.cells)
			for j := range probs[i] {
				probs[i][j] = 1 / float64(f.cells)
			}
		} else {
			probs[i] = append([]float64(nil), f.after...)
		}
	}
	return probs, make([]float64, len(states)), nil
}

func (f *fakeEstimator) TrainStep(states [][][]float64, probs [][]float64, values []float64, lr float64) (float64, float64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.trained++
	f.lrs = append(f.lrs, lr)
	return 4.0 / float64(f.trained), 1.5, nil
}

func (f *fakeEstimator) Save(path string) error {
	f.saved = append(f.saved, path)
	return nil
}

// fakeGame replays a fixed self-play episode and scripted match winners.
type fakeGame struct {
	winner       int
	steps        []engine.Step
	selfPlays    int
	onSelfPlay   func(n int)
	selfPlayErr  error
	winners      []int // Cycled through by StartPlay
	plays        int
	startPlayers []int
}

func (g *fakeGame) StartSelfPlay(player engine.SelfPlayer, temperature float64) (int, []engine.Step, error) {
	if g.selfPlayErr != nil {
		return 0, nil, g.selfPlayErr
	}
	g.selfPlays++
	if g.onSelfPlay != nil {
		g.onSelfPlay(g.selfPlays)
	}
	return g.winner, g.steps, nil
}

func (g *fakeGame) StartPlay(p1, p2 engine.Player, startPlayer int, render bool) (int, error) {
	if len(g.winners) == 0 {
		return 0, errors.New("no scripted winner")
	}
	g.startPlayers = append(g.startPlayers, startPlayer)
	winner := g.winners[g.plays%len(g.winners)]
	g.plays++
	return winner, nil
}

// episode returns plies on a 2x2 board alternating between the players.
func episode(plies int) []engine.Step {
	steps := make([]engine.Step, plies)
	player := game.Player1
	for i := range steps {
		probs := make([]float64, 4)
		probs[i%4] = 1
		steps[i] = engine.Step{
			State:  [][]float64{append([]float64(nil), probs...)},
			Probs:  probs,
			Player: player,
		}
		player = game.Opponent(player)
	}
	return steps
}

type fakePlayer struct{}

func (fakePlayer) SetPlayer(int)                            {}
func (fakePlayer) Reset()                                   {}
func (fakePlayer) GetAction(board *game.Board) (int, error) { return 0, nil }

func (fakePlayer) GetActionWithProbs(board *game.Board, temperature float64) (int, []float64, error) {
	return 0, nil, nil
}

type fakeLogs struct {
	loss     [][3]float64
	winRatio [][3]float64
}

func (l *fakeLogs) AppendLoss(iteration int, loss, entropy float64) error {
	l.loss = append(l.loss, [3]float64{float64(iteration), loss, entropy})
	return nil
}

func (l *fakeLogs) AppendWinRatio(iteration, baselinePlayouts int, winRatio float64) error {
	l.winRatio = append(l.winRatio, [3]float64{float64(iteration), float64(baselinePlayouts), winRatio})
	return nil
}

type memoryStore struct {
	states map[string]State
	saves  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: map[string]State{}}
}

func (s *memoryStore) SaveState(run string, state State) error {
	s.states[run] = state
	s.saves++
	return nil
}

func (s *memoryStore) LoadState(run string) (State, bool, error) {
	state, ok := s.states[run]
	return state, ok, nil
}
