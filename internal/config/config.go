// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.peyton/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider, model selection, temperature, max tokens
//   - Routing: router model, query enrichment
//   - Conversation: retained turn bound, context window, greeting
//   - Storage: PostgreSQL connection (see storage.go)
//   - RAG: embedder model and top-k for course-material retrieval
//
// Validation is fail-fast: Load returns an error before any query is
// accepted when a required value is absent or out of range.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel errors, checked with errors.Is().
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMaxTurns indicates the conversation bound is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidContextWindow indicates the routing window is out of range.
	ErrInvalidContextWindow = errors.New("invalid context window")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top-k")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresPassword indicates the PostgreSQL password is invalid.
	ErrInvalidPostgresPassword = errors.New("invalid PostgreSQL password")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// DefaultGreeting is the synthetic assistant turn seeded into a fresh
// conversation. Set greeting to "" to start with zero turns.
const DefaultGreeting = "Hi. I'm your virtual TA Peyton. How can I help you today?"

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`     // "gemini" (default), "ollama", "openai"
	ModelName   string  `mapstructure:"model_name" json:"model_name"` // e.g. "gemini-2.5-flash", "llama3.3", "gpt-4o-mini"
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`

	// Router configuration. The router model classifies queries into
	// capabilities; it may differ from the answer model (a cheaper or
	// stronger-reasoning model, as the course deployment prefers).
	RouterModelName string `mapstructure:"router_model_name" json:"router_model_name"`
	EnrichQuery     bool   `mapstructure:"enrich_query" json:"enrich_query"`

	// Conversation configuration
	MaxTurns      int    `mapstructure:"max_turns" json:"max_turns"`           // retained turn bound
	ContextWindow int    `mapstructure:"context_window" json:"context_window"` // trailing turns used as routing/generation context
	Greeting      string `mapstructure:"greeting" json:"greeting"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// RAG configuration
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`
	RAGTopK       int    `mapstructure:"rag_top_k" json:"rag_top_k"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".peyton")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, if set, overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	// Validate immediately (fail-fast, before any query is accepted).
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.2)
	viper.SetDefault("max_tokens", 300)
	viper.SetDefault("router_model_name", "") // empty = same as model_name
	viper.SetDefault("enrich_query", false)

	// Conversation defaults
	viper.SetDefault("max_turns", 4)
	viper.SetDefault("context_window", 3)
	viper.SetDefault("greeting", DefaultGreeting)

	// Ollama defaults
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "peyton")
	viper.SetDefault("postgres_password", "peyton_dev_password")
	viper.SetDefault("postgres_db_name", "peyton")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// RAG defaults
	viper.SetDefault("embedder_model", "gemini-embedding-001")
	viper.SetDefault("rag_top_k", 4)
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY and OPENAI_API_KEY are read directly by the Genkit
// provider plugins, not via Viper; Validate() checks their presence.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "PEYTON_PROVIDER")
	mustBind("model_name", "PEYTON_MODEL_NAME")
	mustBind("router_model_name", "PEYTON_ROUTER_MODEL_NAME")
	mustBind("ollama_host", "PEYTON_OLLAMA_HOST")
	mustBind("postgres_password", "PEYTON_POSTGRES_PASSWORD")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 chars or fewer are fully masked; longer secrets show the
// first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3", "openai/gpt-4o".
// If name already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	return c.qualify(c.ModelName)
}

// FullRouterModelName returns the provider-qualified router model name,
// falling back to the answer model when router_model_name is unset.
func (c *Config) FullRouterModelName() string {
	if c.RouterModelName == "" {
		return c.FullModelName()
	}
	return c.qualify(c.RouterModelName)
}

func (c *Config) qualify(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + name
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + name
	default:
		return ProviderGoogleAI + "/" + name
	}
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
