package config

import (
	"strings"
	"testing"
)

func TestFullModelName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{"gemini default", ProviderGemini, "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"ollama", ProviderOllama, "llama3.3", "ollama/llama3.3"},
		{"openai", ProviderOpenAI, "gpt-4o-mini", "openai/gpt-4o-mini"},
		{"already qualified", ProviderGemini, "ollama/mistral", "ollama/mistral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Provider: tt.provider, ModelName: tt.model}
			if got := c.FullModelName(); got != tt.want {
				t.Errorf("FullModelName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFullRouterModelNameFallsBack(t *testing.T) {
	c := &Config{Provider: ProviderGemini, ModelName: "gemini-2.5-flash"}
	if got := c.FullRouterModelName(); got != "googleai/gemini-2.5-flash" {
		t.Errorf("FullRouterModelName() = %q, want fallback to model_name", got)
	}

	c.RouterModelName = "gemini-2.5-pro"
	if got := c.FullRouterModelName(); got != "googleai/gemini-2.5-pro" {
		t.Errorf("FullRouterModelName() = %q, want router override", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in        string
		wantEmpty bool
		leak      string // substring that must NOT appear in output
	}{
		{"", true, ""},
		{"short", false, "short"},
		{"peyton_dev_password", false, "dev_password"},
	}
	for _, tt := range tests {
		got := maskSecret(tt.in)
		if tt.wantEmpty {
			if got != "" {
				t.Errorf("maskSecret(%q) = %q, want empty", tt.in, got)
			}
			continue
		}
		if tt.leak != "" && strings.Contains(got, tt.leak) {
			t.Errorf("maskSecret(%q) = %q leaks secret", tt.in, got)
		}
	}
}

func TestStringMasksPassword(t *testing.T) {
	c := Config{PostgresPassword: "super_secret_value"}
	if s := c.String(); strings.Contains(s, "super_secret_value") {
		t.Errorf("String() leaks password: %s", s)
	}
}

func TestPostgresURL(t *testing.T) {
	c := &Config{
		PostgresHost:     "db.example.com",
		PostgresPort:     5433,
		PostgresUser:     "ta",
		PostgresPassword: "pw",
		PostgresDBName:   "peyton",
		PostgresSSLMode:  "require",
	}
	want := "postgres://ta:pw@db.example.com:5433/peyton?sslmode=require"
	if got := c.PostgresURL(); got != want {
		t.Errorf("PostgresURL() = %q, want %q", got, want)
	}
}
