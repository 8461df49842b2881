package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"vadimgribanov.com/tg-reminder/internal/config"
	"vadimgribanov.com/tg-reminder/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env file", "error", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	config     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "tg-reminder",
		Short:         "Telegram reminder bot that understands Turkish scheduling phrases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.LoadConfig(a.configPath)
			if err != nil {
				slog.Error("Error loading config", "error", err)
				return err
			}
			if err := logging.SetupLogger(appConfig.Log.Level, appConfig.Log.Format); err != nil {
				return err
			}
			a.config = appConfig
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")

	rootCmd.AddCommand(
		newServeCmd(a),
		newSweepCmd(a),
		newParseCmd(),
	)
	return rootCmd
}
