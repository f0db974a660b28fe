package main

import (
	"github.com/spf13/cobra"

	"kabi-tools/internal/config"
	"kabi-tools/internal/logging"
)

const version = "kabi-tools ksymvers 0.1.0"

var (
	debugCount int
	configPath string

	logger *logging.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "ksymvers",
	Short:        "Compare kernel Module.symvers export summaries",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.LevelWarn
		if debugCount > 0 {
			level = logging.LevelDebug
		}
		logger = logging.New(logging.Config{Level: level, Format: logging.FormatHuman, Output: cmd.ErrOrStderr()})

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&debugCount, "debug", "d", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .kabi-tools.toml config file")
	rootCmd.AddCommand(compareCmd)
}
