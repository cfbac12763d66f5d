package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appconfig "matchflow/config"
	"matchflow/logger"
)

var (
	configPath string
	cfg        *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:           "matchflow",
	Short:         "Batch football match video analysis",
	Long:          "Matchflow turns full match videos into event timelines and excitement curves by fusing commentary sentiment with crowd noise.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()

		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}

		loaded, err := appconfig.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
			return err
		}

		if cfg.Storage.S3.Enabled || appconfig.IsProductionLike(appconfig.AppEnvironment()) {
			logger.InitCloudWatch(cfg.Storage.S3.Region, cfg.Matchflow.Name, cfg.Logging.DashboardName)
		}
		if strings.ToLower(cfg.Logging.Level) == "report" {
			logger.StartReport(cmd.Context(), log, 30*time.Second)
		}

		log.WithFields(logger.Fields{
			"service": cfg.Matchflow.Name,
			"version": cfg.Matchflow.Version,
		}).Info("configuration loaded")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yml", "path to configuration file")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.GetLogger().WithError(err).Error("command failed")
		os.Exit(1)
	}
}
