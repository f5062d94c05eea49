// Package cmd implements the peyton CLI.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peytonlabs/peyton/internal/config"
	"github.com/peytonlabs/peyton/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "peyton",
	Short: "Peyton - virtual TA for the intro Python course",
	Long: `Peyton is a virtual teaching assistant for an introductory Python
course in a business school. It answers course logistics questions from the
syllabus, explains concepts, generates practice exercises, and helps debug
student code.

Running peyton with no arguments starts an interactive session.`,
	SilenceUsage: true,
	RunE:         runChat,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration and builds the logger the commands share.
func loadConfig() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	return cfg, logger, nil
}
