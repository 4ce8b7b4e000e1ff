package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gomoku/config"
	"gomoku/engine"
	"gomoku/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Dependencies are the collaborators the pipeline drives. Self-play,
// training and evaluation all go through the same estimator and never
// overlap.
type Dependencies struct {
	Game       engine.Game
	SelfPlayer engine.SelfPlayer
	Estimator  Estimator

	// NewPlayer returns the current agent for an evaluation match
	NewPlayer func() engine.Player

	// NewBaseline returns a fixed-strength opponent with the given budget
	NewBaseline func(playouts int) engine.Player
}

// LogWriter receives one line per policy update and per evaluation.
type LogWriter interface {
	AppendLoss(iteration int, loss, entropy float64) error
	AppendWinRatio(iteration, baselinePlayouts int, winRatio float64) error
}

type Option func(p *Pipeline)

func WithLogWriter(w LogWriter) Option {
	return func(p *Pipeline) {
		p.logs = w
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithStateStore persists the training state of run, together with the
// current model, after every iteration and resumes from it when present.
func WithStateStore(store StateStore, run string) Option {
	return func(p *Pipeline) {
		p.store = store
		p.run = run
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// Pipeline is the self-play training loop.
type Pipeline struct {
	cfg        config.Config
	deps       Dependencies
	state      *State
	buffer     *Buffer
	collector  *Collector
	updater    *UpdateController
	evaluator  *Evaluator
	curriculum *Curriculum

	logs     LogWriter
	recorder metrics.Recorder
	store    StateStore
	run      string
	rng      *rand.Rand
}

func NewPipeline(cfg config.Config, deps Dependencies, options ...Option) (*Pipeline, error) {
	if deps.Game == nil || deps.SelfPlayer == nil || deps.Estimator == nil || deps.NewPlayer == nil || deps.NewBaseline == nil {
		panic("pipeline needs a game, a self-play agent, an estimator and player factories")
	}
	p := &Pipeline{ // Default values
		cfg:      cfg,
		deps:     deps,
		state:    NewState(cfg.Evaluation.BaselinePlayouts),
		buffer:   NewBuffer(cfg.Training.BufferSize),
		recorder: metrics.NewDummyRecorder(),
		rng:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(p)
	}

	t := cfg.Training
	p.collector = NewCollector(deps.Game, deps.SelfPlayer, cfg.Board.Height, cfg.Board.Width, cfg.Search.Temperature)
	p.updater = NewUpdateController(t.BatchSize, t.Epochs, t.LearnRate, t.KLTarget, t.MinLRMultiplier, t.MaxLRMultiplier, t.LRMultiplierStep, p.rng)
	p.evaluator = NewEvaluator(deps.Game, cfg.Evaluation.Games, cfg.Evaluation.Render)
	p.curriculum = &Curriculum{
		CurrentPath: cfg.CurrentModelPath(),
		BestPath:    cfg.BestModelPath(),
		Step:        cfg.Evaluation.BaselineStep,
		MaxPlayouts: cfg.Evaluation.MaxBaselinePlayouts,
	}

	if p.store != nil {
		saved, ok, err := p.store.LoadState(p.run)
		if err != nil {
			return nil, fmt.Errorf("failed to load training state: %w", err)
		}
		if ok {
			p.state = &saved
			log.Info().Msgf("resuming run %s at iteration %d with lr multiplier %.3f, baseline %d, best win ratio %.2f",
				p.run, saved.Iteration, saved.LRMultiplier, saved.BaselinePlayouts, saved.BestWinRatio)
		}
	}
	return p, nil
}

// State returns a copy of the current training state.
func (p *Pipeline) State() State {
	return *p.state
}

func (p *Pipeline) Buffer() *Buffer {
	return p.buffer
}

// Resumed reports whether the pipeline continues a stored run.
func (p *Pipeline) Resumed() bool {
	return p.state.Iteration > 0
}

// Run trains until the configured number of iterations is reached or ctx
// is cancelled. Cancellation is only observed between iterations, the
// running one always completes, and is not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	log.Info().Msgf("starting training from iteration %d of %d...", p.state.Iteration+1, p.cfg.Training.GameBatchNum)
	for p.state.Iteration < p.cfg.Training.GameBatchNum {
		if interrupted(ctx) {
			log.Info().Msgf("training interrupted after iteration %d, quitting", p.state.Iteration)
			return nil
		}
		if err := p.iterate(); err != nil {
			return err
		}
	}
	log.Info().Msg("completed training")
	return nil
}

// RunSelfPlay only collects self-play games, without updates, logs or
// checkpoints.
func (p *Pipeline) RunSelfPlay(ctx context.Context) error {
	for i := 0; i < p.cfg.Training.GameBatchNum; i++ {
		if interrupted(ctx) {
			log.Info().Msg("self-play interrupted, quitting")
			return nil
		}
		if err := p.collect(i + 1); err != nil {
			return err
		}
	}
	return nil
}

func interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Pipeline) iterate() error {
	i := p.state.Iteration + 1

	if err := p.collect(i); err != nil {
		return err
	}

	if p.buffer.Len() >= p.cfg.Training.BatchSize {
		if err := p.update(i); err != nil {
			return err
		}
	}

	checkpoint := i%p.cfg.Training.CheckFreq == 0
	if checkpoint {
		if err := p.evaluate(i); err != nil {
			return err
		}
	}

	p.state.Iteration = i
	if p.store != nil {
		// A resumed run loads the current model, it has to match the stored state
		if !checkpoint {
			if err := p.deps.Estimator.Save(p.curriculum.CurrentPath); err != nil {
				return fmt.Errorf("failed to save current model: %w", err)
			}
		}
		if err := p.store.SaveState(p.run, *p.state); err != nil {
			return fmt.Errorf("failed to save training state: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) collect(i int) error {
	if err := p.collector.Collect(p.buffer, p.cfg.Training.PlayBatchSize); err != nil {
		return err
	}
	log.Info().Int("batch", i).Int("episode_len", p.collector.EpisodeLen).Int("buffer", p.buffer.Len()).Msg("collected self-play data")
	p.recorder.ObserveEpisode(p.collector.EpisodeLen, p.buffer.Len())
	return nil
}

func (p *Pipeline) update(i int) error {
	result, err := p.updater.Update(p.buffer, p.deps.Estimator, p.state)
	if errors.Is(err, ErrInsufficientData) {
		log.Debug().Err(err).Msg("skipping policy update")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed policy update at batch %d: %w", i, err)
	}

	log.Info().
		Float64("kl", result.KL).
		Float64("lr_multiplier", result.LRMultiplier).
		Float64("loss", result.Loss).
		Float64("entropy", result.Entropy).
		Float64("explained_var_old", result.ExplainedVarOld).
		Float64("explained_var_new", result.ExplainedVarNew).
		Int("epochs", result.Epochs).
		Bool("early_stop", result.EarlyStop).
		Msg("updated policy")
	p.recorder.ObserveUpdate(result.Loss, result.Entropy, result.KL, result.LRMultiplier, result.EarlyStop)

	if p.logs != nil {
		if err := p.logs.AppendLoss(i, result.Loss, result.Entropy); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) evaluate(i int) error {
	log.Info().Msgf("current self-play batch: %d, evaluating against pure MCTS with %d playouts...", i, p.state.BaselinePlayouts)
	baseline := p.state.BaselinePlayouts
	result, err := p.evaluator.Evaluate(p.deps.NewPlayer(), p.deps.NewBaseline(baseline))
	if err != nil {
		return err
	}
	ratio := result.WinRatio()
	log.Info().Msgf("num_playouts: %d, win: %d, lose: %d, tie: %d", baseline, result.Wins, result.Losses, result.Draws)

	if p.logs != nil {
		if err := p.logs.AppendWinRatio(i, baseline, ratio); err != nil {
			return err
		}
	}

	decision, err := p.curriculum.Checkpoint(p.deps.Estimator, p.state, ratio)
	if err != nil {
		return err
	}
	if decision.NewBest {
		log.Info().Float64("win_ratio", ratio).Msg("new best policy")
	}
	if decision.Escalated {
		log.Info().Msgf("baseline escalated to %d playouts", p.state.BaselinePlayouts)
	}
	p.recorder.ObserveEvaluation(ratio, p.state.BaselinePlayouts, decision.Escalated)
	return nil
}
