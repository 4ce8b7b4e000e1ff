package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"gomoku/config"
	"gomoku/engine"
	"gomoku/game"
	"gomoku/metrics"
	"gomoku/model"
	"gomoku/searcher"
	"gomoku/searcher/agent"
	"gomoku/store"
	"gomoku/trainer"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

func newTrainCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Run the training pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			return runTraining(cmd.Context(), cfg, false)
		},
	}
}

func newSelfPlayCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "selfplay",
		Short: "Play self-play games without training, logging or saving models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			return runTraining(cmd.Context(), cfg, true)
		},
	}
}

func runName(cfg config.Config) string {
	return cfg.BoardPrefix() + "_" + cfg.Output.Name
}

func runTraining(ctx context.Context, cfg config.Config, selfPlayOnly bool) error {
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()

	var options []trainer.Option
	resumed := false
	if cfg.Output.StateDir != "" && !selfPlayOnly {
		st, err := store.Open(cfg.Output.StateDir)
		if err != nil {
			return err
		}
		defer st.Close()
		if _, resumed, err = st.LoadState(runName(cfg)); err != nil {
			return err
		}
		options = append(options, trainer.WithStateStore(st, runName(cfg)))
	}

	net, err := loadNet(cfg, resumed)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		options = append(options, trainer.WithRecorder(metrics.NewRecorder(reg)))
		shutdown := serveMetrics(cfg.MetricsAddr, reg)
		defer shutdown()
	}

	if !selfPlayOnly {
		writer, err := metrics.NewWriter(cfg.Output.InfoDir, cfg.BoardPrefix(), cfg.Output.Name, resumed)
		if err != nil {
			return err
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close training logs")
			}
		}()
		options = append(options, trainer.WithLogWriter(writer))
	}

	pipeline, err := trainer.NewPipeline(cfg, dependencies(cfg, net), options...)
	if err != nil {
		return err
	}
	if selfPlayOnly {
		return pipeline.RunSelfPlay(ctx)
	}
	return pipeline.Run(ctx)
}

// loadNet starts from the configured model, from the current checkpoint
// of a resumed run, or from random weights.
func loadNet(cfg config.Config, resumed bool) (*model.Net, error) {
	path := cfg.Output.InitModel
	if path == "" && resumed {
		if _, err := os.Stat(cfg.CurrentModelPath()); err == nil {
			path = cfg.CurrentModelPath()
		}
	}
	if path != "" {
		log.Info().Msgf("loading model %s", path)
		return model.LoadFor(path, cfg.Board.Width, cfg.Board.Height, game.NumPlanes)
	}
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	return model.New(cfg.Board.Width, cfg.Board.Height, game.NumPlanes, cfg.Training.L2Penalty, rng), nil
}

func dependencies(cfg config.Config, net *model.Net) trainer.Dependencies {
	s := cfg.Search
	board := game.NewBoard(cfg.Board.Width, cfg.Board.Height, cfg.Board.NInRow)
	selfPlayer := agent.NewTrainingAgent(
		searcher.NewMCTS(net.PolicyValueFn, searcher.WithPlayouts(s.Playouts), searcher.WithCPuct(s.CPuct)),
		agent.WithNoise(s.DirichletAlpha, s.NoiseEpsilon),
	)

	return trainer.Dependencies{
		Game:       engine.LocalEngine(board),
		SelfPlayer: selfPlayer,
		Estimator:  net,
		NewPlayer: func() engine.Player {
			return agent.NewEvaluationAgent(searcher.NewMCTS(net.PolicyValueFn,
				searcher.WithPlayouts(s.Playouts), searcher.WithCPuct(s.CPuct)))
		},
		NewBaseline: func(playouts int) engine.Player {
			return agent.NewBaselineAgent(playouts, searcher.WithRolloutLimit(s.RolloutLimit))
		},
	}
}

// serveMetrics exposes reg over HTTP until the returned function is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Msgf("serving metrics on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn().Err(fmt.Errorf("failed to stop metrics server: %w", err)).Send()
		}
	}
}
