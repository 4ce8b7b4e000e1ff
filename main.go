package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gomoku/config"
	"gomoku/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// flags holds the command-line overrides of the configuration
type flags struct {
	configPath   string
	size         int
	nInRow       int
	playouts     int
	name         string
	gameBatchNum int
	initModel    string
	graphics     bool
	stateDir     string
	metricsAddr  string
	logLevel     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&flags{}).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("quit")
		os.Exit(1)
	}
}

func newRootCmd(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:           "gomoku",
		Short:         "AlphaZero-style self-play training for Gomoku",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML configuration file")
	pf.IntVarP(&f.size, "size", "s", meta.BOARD_WIDTH, "board width and height")
	pf.IntVarP(&f.nInRow, "n-in-row", "r", meta.N_IN_ROW, "stones in a row needed to win")
	pf.IntVarP(&f.playouts, "playouts", "m", meta.PLAYOUTS, "MCTS playouts per move")
	pf.StringVarP(&f.name, "output", "o", "", "name appended to model and log files")
	pf.IntVarP(&f.gameBatchNum, "game-batches", "n", meta.GAME_BATCH_NUM, "number of self-play iterations")
	pf.StringVarP(&f.initModel, "init-model", "i", "", "model file to start from")
	pf.BoolVarP(&f.graphics, "graphics", "g", false, "render evaluation games")
	pf.StringVar(&f.stateDir, "state-dir", "", "directory of the training state database, enables resume")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "address to serve prometheus metrics on, e.g. :9090")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newTrainCmd(f), newSelfPlayCmd(f), newEvaluateCmd(f), newVersionCmd())
	return root
}

// load builds the configuration: defaults, then the config file, then the
// flags that were set explicitly.
func (f *flags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("size") {
		cfg.Board.Width, cfg.Board.Height = f.size, f.size
	}
	if changed("n-in-row") {
		cfg.Board.NInRow = f.nInRow
	}
	if changed("playouts") {
		cfg.Search.Playouts = f.playouts
	}
	if changed("output") {
		cfg.Output.Name = f.name
	}
	if changed("game-batches") {
		cfg.Training.GameBatchNum = f.gameBatchNum
	}
	if changed("init-model") {
		cfg.Output.InitModel = f.initModel
	}
	if changed("graphics") {
		cfg.Evaluation.Render = f.graphics
	}
	if changed("state-dir") {
		cfg.Output.StateDir = f.stateDir
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, setupLogging(cfg.LogLevel)
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}
