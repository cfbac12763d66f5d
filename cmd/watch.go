package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"matchflow/internal/channel"
	"matchflow/internal/match"
	"matchflow/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and analyze matches as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		runner, err := match.NewRunner(cfg)
		if err != nil {
			return err
		}

		channels := channel.NewChannels(cfg.Channels.JobBuffer, cfg.Channels.ResultBuffer)

		watcher, err := match.NewWatcher(cfg.Watch, channels)
		if err != nil {
			return err
		}
		defer watcher.Stop()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		pool := match.NewPool(runner, channels, cfg.Watch.Workers)
		if err := pool.Start(ctx); err != nil {
			return err
		}

		go channels.DrainResults(ctx, func(result channel.RunResult) {
			if result.Err != nil {
				return
			}
			log.WithComponent("main").WithFields(logger.Fields{
				"match":     result.MatchName,
				"artifacts": len(result.Artifacts),
			}).Info("match processed")
		})

		err = watcher.Start(ctx)

		log.Info("starting graceful shutdown")
		cancel()
		pool.Stop()

		stats := channels.GetStats()
		log.WithComponent("main").WithFields(logger.Fields{
			"jobs_sent":    stats.JobsSent,
			"jobs_dropped": stats.JobsDropped,
		}).Info("watch mode stopped")
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
