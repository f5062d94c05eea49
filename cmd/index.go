package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peytonlabs/peyton/internal/app"
	"github.com/peytonlabs/peyton/internal/knowledge"
)

// chunkSize bounds one indexed chunk. Paragraphs are packed until adding
// the next one would cross it.
const chunkSize = 2000

var indexCmd = &cobra.Command{
	Use:   "index [files...]",
	Short: "Index course material files for retrieval",
	Long: `Index reads text or markdown files, splits them into chunks, and
stores them with embeddings so course_information queries can retrieve them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	total := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := filepath.Base(path)
		chunks := splitChunks(string(data))
		for i, chunk := range chunks {
			doc := knowledge.Document{
				ID:      fmt.Sprintf("%s#%d", name, i),
				Content: chunk,
				Metadata: map[string]string{
					"source": name,
				},
			}
			if err := a.Knowledge.Add(ctx, doc); err != nil {
				return fmt.Errorf("indexing %s: %w", doc.ID, err)
			}
		}
		total += len(chunks)
		fmt.Printf("Indexed %s (%d chunks)\n", name, len(chunks))
	}

	fmt.Printf("Done: %d chunks indexed.\n", total)
	return nil
}

// splitChunks packs paragraphs into chunks of at most chunkSize characters.
// A single oversized paragraph becomes its own chunk.
func splitChunks(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
