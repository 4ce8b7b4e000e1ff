// Package config loads the training configuration. Values start from the
// defaults in meta, are overridden by an optional YAML file and finally by
// command-line flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gomoku/meta"

	"gopkg.in/yaml.v3"
)

type Board struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	NInRow int `yaml:"n_in_row"`
}

type Search struct {
	Playouts       int     `yaml:"playouts"`
	CPuct          float64 `yaml:"c_puct"`
	Temperature    float64 `yaml:"temperature"`
	DirichletAlpha float64 `yaml:"dirichlet_alpha"`
	NoiseEpsilon   float64 `yaml:"noise_epsilon"`
	RolloutLimit   int     `yaml:"rollout_limit"`
}

type Training struct {
	LearnRate        float64 `yaml:"learn_rate"`
	L2Penalty        float64 `yaml:"l2_penalty"`
	BufferSize       int     `yaml:"buffer_size"`
	BatchSize        int     `yaml:"batch_size"`
	Epochs           int     `yaml:"epochs"`
	KLTarget         float64 `yaml:"kl_target"`
	MinLRMultiplier  float64 `yaml:"min_lr_multiplier"`
	MaxLRMultiplier  float64 `yaml:"max_lr_multiplier"`
	LRMultiplierStep float64 `yaml:"lr_multiplier_step"`
	PlayBatchSize    int     `yaml:"play_batch_size"`
	GameBatchNum     int     `yaml:"game_batch_num"`
	CheckFreq        int     `yaml:"check_freq"`
}

type Evaluation struct {
	Games               int  `yaml:"games"`
	BaselinePlayouts    int  `yaml:"baseline_playouts"`
	BaselineStep        int  `yaml:"baseline_step"`
	MaxBaselinePlayouts int  `yaml:"max_baseline_playouts"`
	Render              bool `yaml:"render"`
}

type Output struct {
	Name      string `yaml:"name"`
	ModelDir  string `yaml:"model_dir"`
	InfoDir   string `yaml:"info_dir"`
	StateDir  string `yaml:"state_dir"` // Empty disables resume
	InitModel string `yaml:"init_model"`
}

type Config struct {
	Board       Board      `yaml:"board"`
	Search      Search     `yaml:"search"`
	Training    Training   `yaml:"training"`
	Evaluation  Evaluation `yaml:"evaluation"`
	Output      Output     `yaml:"output"`
	LogLevel    string     `yaml:"log_level"`
	MetricsAddr string     `yaml:"metrics_addr"`
}

func Default() Config {
	return Config{
		Board: Board{
			Width:  meta.BOARD_WIDTH,
			Height: meta.BOARD_HEIGHT,
			NInRow: meta.N_IN_ROW,
		},
		Search: Search{
			Playouts:       meta.PLAYOUTS,
			CPuct:          meta.C_PUCT,
			Temperature:    meta.TEMPERATURE,
			DirichletAlpha: meta.DIRICHLET_ALPHA,
			NoiseEpsilon:   meta.NOISE_EPSILON,
			RolloutLimit:   meta.MAX_ROLLOUT,
		},
		Training: Training{
			LearnRate:        meta.LEARN_RATE,
			L2Penalty:        meta.L2_PENALTY,
			BufferSize:       meta.BUFFER_SIZE,
			BatchSize:        meta.BATCH_SIZE,
			Epochs:           meta.EPOCHS,
			KLTarget:         meta.KL_TARGET,
			MinLRMultiplier:  meta.MIN_LR_MULTIPLIER,
			MaxLRMultiplier:  meta.MAX_LR_MULTIPLIER,
			LRMultiplierStep: meta.LR_MULTIPLIER_STEP,
			PlayBatchSize:    meta.PLAY_BATCH_SIZE,
			GameBatchNum:     meta.GAME_BATCH_NUM,
			CheckFreq:        meta.CHECK_FREQ,
		},
		Evaluation: Evaluation{
			Games:               meta.EVAL_GAMES,
			BaselinePlayouts:    meta.BASELINE_PLAYOUTS,
			BaselineStep:        meta.BASELINE_STEP,
			MaxBaselinePlayouts: meta.MAX_BASELINE_PLAYOUTS,
		},
		Output: Output{
			ModelDir: meta.MODEL_DIR,
			InfoDir:  meta.INFO_DIR,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default value, unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the training loop can not run with.
func (c Config) Validate() error {
	b := c.Board
	if b.Width <= 0 || b.Height <= 0 || b.NInRow <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %dx%d with %d in a row", b.Width, b.Height, b.NInRow)
	}
	if b.NInRow > b.Width || b.NInRow > b.Height {
		return fmt.Errorf("n_in_row %d does not fit on a %dx%d board", b.NInRow, b.Width, b.Height)
	}
	if c.Search.Playouts <= 0 {
		return fmt.Errorf("playouts must be positive, got %d", c.Search.Playouts)
	}

	t := c.Training
	if t.BufferSize <= 0 || t.BatchSize <= 0 || t.Epochs <= 0 {
		return fmt.Errorf("buffer size, batch size and epochs must be positive")
	}
	if t.BatchSize > t.BufferSize {
		return fmt.Errorf("batch size %d is larger than the buffer size %d", t.BatchSize, t.BufferSize)
	}
	if t.LearnRate <= 0 || t.KLTarget <= 0 {
		return fmt.Errorf("learn rate and kl target must be positive")
	}
	if t.MinLRMultiplier <= 0 || t.MinLRMultiplier > 1 || t.MaxLRMultiplier < 1 {
		return fmt.Errorf("lr multiplier bounds [%g, %g] must contain 1", t.MinLRMultiplier, t.MaxLRMultiplier)
	}
	if t.LRMultiplierStep <= 1 {
		return fmt.Errorf("lr multiplier step must be greater than 1, got %g", t.LRMultiplierStep)
	}
	if t.PlayBatchSize <= 0 || t.GameBatchNum < 0 || t.CheckFreq <= 0 {
		return fmt.Errorf("play batch size and check frequency must be positive")
	}

	e := c.Evaluation
	if e.Games <= 0 || e.BaselinePlayouts <= 0 || e.BaselineStep < 0 {
		return fmt.Errorf("evaluation games and baseline playouts must be positive")
	}
	return nil
}

// BoardPrefix names output files after the board, e.g. "6_6_4".
func (c Config) BoardPrefix() string {
	return fmt.Sprintf("%d_%d_%d", c.Board.Height, c.Board.Width, c.Board.NInRow)
}

func (c Config) CurrentModelPath() string {
	return filepath.Join(c.Output.ModelDir, c.BoardPrefix()+"_current_policy_"+c.Output.Name+".model")
}

func (c Config) BestModelPath() string {
	return filepath.Join(c.Output.ModelDir, c.BoardPrefix()+"_best_policy_"+c.Output.Name+".model")
}
