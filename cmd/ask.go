package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peytonlabs/peyton/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	question := strings.Join(args, " ")
	a.QueryLog.LogQuery(question)

	// One-shot mode has no prior turns.
	decision, err := a.Router.Route(ctx, question, nil)
	if err != nil {
		return err
	}

	text, err := a.Tutor.Dispatch(ctx, decision, nil, nil)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}
