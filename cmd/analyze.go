package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"matchflow/internal/channel"
	"matchflow/internal/match"
	"matchflow/logger"
)

var (
	analyzeOutDir        string
	analyzeSkipTranscode bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video|wav>",
	Short: "Analyze one match video end to end",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		if analyzeOutDir != "" {
			cfg.Writer.OutputDir = analyzeOutDir
		}

		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input file: %w", err)
		}

		runner, err := match.NewRunner(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		result := runner.Run(ctx, channel.MatchJob{Path: path, SkipTranscode: analyzeSkipTranscode})
		if result.Err != nil {
			return result.Err
		}

		log.WithComponent("main").WithFields(logger.Fields{
			"match":     result.MatchName,
			"artifacts": len(result.Artifacts),
		}).Info("analysis complete")
		for _, artifact := range result.Artifacts {
			fmt.Println(artifact)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out", "", "override the output directory")
	analyzeCmd.Flags().BoolVar(&analyzeSkipTranscode, "skip-transcode", false, "treat the input as already-extracted audio")
	rootCmd.AddCommand(analyzeCmd)
}
