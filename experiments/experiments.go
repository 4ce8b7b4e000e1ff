package experiments

import (
	"fmt"
	"time"

	"gomoku/config"
	"gomoku/engine"
	"gomoku/game"
	"gomoku/model"
	"gomoku/searcher"
	"gomoku/searcher/agent"

	"github.com/rs/zerolog/log"
)

// AgentConfig describes one side of a matchup. An agent without a model
// is a pure MCTS baseline.
type AgentConfig struct {
	ID       int
	Model    string
	Playouts int
}

// RunBaselineLadder plays the model at modelPath against pure MCTS
// baselines of every budget in ladder and stores the results under
// outDir. The model moves first in every other game.
func RunBaselineLadder(cfg config.Config, modelPath string, ladder []int, outDir string) error {
	net, err := model.LoadFor(modelPath, cfg.Board.Width, cfg.Board.Height, game.NumPlanes)
	if err != nil {
		return err
	}

	candidate := AgentConfig{ID: 0, Model: modelPath, Playouts: cfg.Search.Playouts}
	configs := []AgentConfig{candidate}
	matchUps := [][]AgentConfig{}
	for i, playouts := range ladder {
		baseline := AgentConfig{ID: i + 1, Playouts: playouts}
		configs = append(configs, baseline)
		matchUps = append(matchUps, []AgentConfig{candidate, baseline})
	}

	newAgent := func(c AgentConfig) agent.Agent {
		if c.Model == "" {
			return agent.NewBaselineAgent(c.Playouts, searcher.WithRolloutLimit(cfg.Search.RolloutLimit), searcher.WithMetrics())
		}
		return agent.NewEvaluationAgent(searcher.NewMCTS(net.PolicyValueFn,
			searcher.WithPlayouts(c.Playouts),
			searcher.WithCPuct(cfg.Search.CPuct),
			searcher.WithMetrics()))
	}
	return runExperiment(cfg, "baseline_ladder", outDir, configs, matchUps, newAgent)
}

func runExperiment(cfg config.Config, name, outDir string, configs []AgentConfig, matchUps [][]AgentConfig, newAgent func(AgentConfig) agent.Agent) error {
	count := 0
	gameRecords := []GameRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		wins := 0.0
		for i := 0; i < cfg.Evaluation.Games; i++ {
			record, err := runGame(cfg, newAgent(config1), newAgent(config2), i%2)
			if err != nil {
				return fmt.Errorf("failed matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			record.ID = count
			record.Agent1 = config1.ID
			record.Agent2 = config2.ID
			gameRecords = append(gameRecords, record)

			switch record.Winner {
			case game.Player1:
				wins++
			case game.Draw:
				wins += 0.5
			}
			log.Info().Msgf("completed matchup %d of %d game %d with winner: %d", mi+1, len(matchUps), i+1, record.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d, agent1 win ratio: %.2f", mi+1, len(matchUps), wins/float64(cfg.Evaluation.Games))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := NewWriter(outDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	return nil
}

// runGame plays a single game between two agents
func runGame(cfg config.Config, agent1, agent2 engine.Player, startPlayer int) (GameRecord, error) {
	board := game.NewBoard(cfg.Board.Width, cfg.Board.Height, cfg.Board.NInRow)
	e := engine.LocalEngine(board)

	start := time.Now()
	winner, err := e.StartPlay(agent1, agent2, startPlayer, cfg.Evaluation.Render)
	if err != nil {
		return GameRecord{}, err
	}
	end := time.Now()

	return GameRecord{
		StartingPlayer: game.Player1 + startPlayer,
		Winner:         winner,
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     board.Moves(),
	}, nil
}
