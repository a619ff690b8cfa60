package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinical-dashboard/internal/config"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Clinical indicators dashboard API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("config", "", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(eventsCmd())

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	if dir != "" {
		return config.LoadConfig(dir)
	}
	return config.LoadConfig()
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
}
