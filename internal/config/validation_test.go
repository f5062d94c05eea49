package config

import (
	"errors"
	"testing"
)

// validConfig returns a configuration that passes Validate with the
// GEMINI_API_KEY environment variable set.
func validConfig() *Config {
	return &Config{
		Provider:         ProviderGemini,
		ModelName:        "gemini-2.5-flash",
		Temperature:      0.2,
		MaxTokens:        300,
		MaxTurns:         4,
		ContextWindow:    3,
		RAGTopK:          4,
		EmbedderModel:    "gemini-embedding-001",
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "peyton",
		PostgresPassword: "a_long_enough_password",
		PostgresDBName:   "peyton",
		PostgresSSLMode:  "disable",
	}
}

func TestValidateDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	var c *Config
	if err := c.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("nil config: got %v, want ErrConfigNil", err)
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if err := validConfig().Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("missing key: got %v, want ErrMissingAPIKey", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }, ErrInvalidProvider},
		{"empty model", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"temperature high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"temperature negative", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
		{"max tokens zero", func(c *Config) { c.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"max turns zero", func(c *Config) { c.MaxTurns = 0 }, ErrInvalidMaxTurns},
		{"max turns huge", func(c *Config) { c.MaxTurns = 100 }, ErrInvalidMaxTurns},
		{"context window zero", func(c *Config) { c.ContextWindow = 0 }, ErrInvalidContextWindow},
		{"top-k zero", func(c *Config) { c.RAGTopK = 0 }, ErrInvalidTopK},
		{"top-k huge", func(c *Config) { c.RAGTopK = 50 }, ErrInvalidTopK},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"empty pg host", func(c *Config) { c.PostgresHost = "" }, ErrInvalidPostgresHost},
		{"pg port out of range", func(c *Config) { c.PostgresPort = 70000 }, ErrInvalidPostgresPort},
		{"empty db name", func(c *Config) { c.PostgresDBName = "" }, ErrInvalidPostgresDBName},
		{"empty password", func(c *Config) { c.PostgresPassword = "" }, ErrInvalidPostgresPassword},
		{"bad ssl mode", func(c *Config) { c.PostgresSSLMode = "maybe" }, ErrInvalidPostgresSSLMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateOllamaNeedsHost(t *testing.T) {
	c := validConfig()
	c.Provider = ProviderOllama
	c.OllamaHost = ""
	if err := c.Validate(); !errors.Is(err, ErrInvalidOllamaHost) {
		t.Errorf("got %v, want ErrInvalidOllamaHost", err)
	}
}
