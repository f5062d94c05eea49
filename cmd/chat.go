package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peytonlabs/peyton/internal/app"
	"github.com/peytonlabs/peyton/internal/conversation"
	"github.com/peytonlabs/peyton/internal/router"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	if cfg.Greeting != "" {
		fmt.Printf("Peyton: %s\n", cfg.Greeting)
	}
	fmt.Println(`Type /clear to reset the conversation, /exit to leave.`)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input, a) {
				break
			}
			continue
		}

		answerOnce(ctx, a, input)

		if ctx.Err() != nil {
			fmt.Println("\nGoodbye!")
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// answerOnce handles one student query end to end. Errors are reported and
// the session continues; a failed turn leaves the conversation unchanged.
func answerOnce(ctx context.Context, a *app.App, input string) {
	a.QueryLog.LogQuery(input)

	window := a.History.Window(a.Config.ContextWindow)

	decision, err := a.Router.Route(ctx, input, window)
	if err != nil {
		if errors.Is(err, router.ErrClassificationFormat) {
			fmt.Fprintln(os.Stderr, "Peyton: I couldn't work out what kind of question that is. Could you rephrase it?")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	fmt.Print("Peyton: ")
	text, err := a.Tutor.Dispatch(ctx, decision, window, func(_ context.Context, chunk string) error {
		fmt.Print(chunk)
		return nil
	})
	if err != nil {
		fmt.Println()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println()

	a.History.Append(conversation.Turn{Role: conversation.RoleHuman, Content: input})
	a.History.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: text})
	a.History.EnforceBound(a.Config.MaxTurns)
}

// handleCommand processes slash commands. Returns true to exit the session.
func handleCommand(input string, a *app.App) bool {
	switch input {
	case "/exit", "/quit":
		fmt.Println("Goodbye!")
		return true
	case "/clear":
		a.History.Clear()
		fmt.Println("Conversation cleared.")
		if a.Config.Greeting != "" {
			fmt.Printf("Peyton: %s\n", a.Config.Greeting)
		}
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /clear  reset the conversation")
		fmt.Println("  /exit   leave the session")
	default:
		fmt.Printf("Unknown command: %s (try /help)\n", input)
	}
	return false
}
