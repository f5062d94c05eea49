package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
)

// Bounds for conversation configuration. The retained-turn bound trades
// context relevance against prompt size; observed deployments use 2-5.
const (
	MinMaxTurns      = 1
	MaxMaxTurns      = 20
	MinContextWindow = 1
	MaxContextWindow = 10
)

// validSSLModes lists the PostgreSQL sslmode values accepted by pgx.
var validSSLModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// Provider and API key validation (required for all AI operations).
	switch c.Provider {
	case ProviderGemini, ProviderGoogleAI:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required", ErrMissingAPIKey)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("%w: ollama_host cannot be empty", ErrInvalidOllamaHost)
		}
	default:
		return fmt.Errorf("%w: %q (expected gemini, ollama, or openai)", ErrInvalidProvider, c.Provider)
	}

	// Model configuration validation.
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity).
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens < 1 || c.MaxTokens > 8192 {
		return fmt.Errorf("%w: must be between 1 and 8192, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	// Conversation configuration validation.
	if c.MaxTurns < MinMaxTurns || c.MaxTurns > MaxMaxTurns {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidMaxTurns, MinMaxTurns, MaxMaxTurns, c.MaxTurns)
	}

	if c.ContextWindow < MinContextWindow || c.ContextWindow > MaxContextWindow {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidContextWindow, MinContextWindow, MaxContextWindow, c.ContextWindow)
	}

	// RAG configuration validation.
	if c.RAGTopK < 1 || c.RAGTopK > 10 {
		return fmt.Errorf("%w: must be between 1 and 10, got %d", ErrInvalidTopK, c.RAGTopK)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	// PostgreSQL configuration validation.
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	if c.PostgresPassword == "" {
		return fmt.Errorf("%w: postgres_password must be set", ErrInvalidPostgresPassword)
	}

	// Warn on the shipped dev password but don't block local development.
	if c.PostgresPassword == "peyton_dev_password" {
		slog.Warn("using default development password for PostgreSQL",
			"hint", "change postgres_password for production deployments")
	}

	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	return nil
}
