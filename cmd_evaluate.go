package main

import (
	"fmt"

	"gomoku/experiments"
	"gomoku/meta"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(f *flags) *cobra.Command {
	var (
		modelPath string
		ladder    []int
		outDir    string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Play a trained model against pure MCTS baselines of increasing strength",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = cfg.BestModelPath()
			}
			return experiments.RunBaselineLadder(cfg, modelPath, ladder, outDir)
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model file, defaults to the best policy of the run")
	cmd.Flags().IntSliceVar(&ladder, "ladder", []int{1000, 2000, 4000}, "baseline playouts to play against")
	cmd.Flags().StringVar(&outDir, "out", "experiments", "directory for the result CSV files")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gomoku", meta.VERSION)
		},
	}
}
