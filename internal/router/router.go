// Package router classifies an incoming student query, together with the
// trailing conversation window, into exactly one capability of the virtual
// TA and normalizes the arguments that capability needs.
//
// The classification itself is delegated to a language model constrained to
// answer with a single label from the closed capability set. Output that
// cannot be parsed into exactly one valid label is a hard error
// (ErrClassificationFormat) - guessing the wrong capability produces a
// confidently wrong answer, which is worse than a visible failure.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/peytonlabs/peyton/internal/conversation"
)

// ErrClassificationFormat indicates the classification step returned output
// that is not exactly one valid capability label.
var ErrClassificationFormat = errors.New("classification output is not a valid capability label")

// Token budgets for the two router model calls. The classifier needs only a
// label; the enrichment rewrite is capped so it cannot materially lengthen
// the query.
const (
	classifyMaxTokens = 50
	enrichMaxTokens   = 25
)

// classifierTemperature keeps label selection near-deterministic.
const classifierTemperature = 0.1

// classifyPrompt embeds the decision boundary for each label. The model
// must answer with the label alone.
const classifyPrompt = `You are a query router for an introductory Python coding course in a business school.
Classify the student query below into exactly one of these capabilities:

- course_information: the query asks for course-specific knowledge, such as the instructor, syllabus, policies, deadlines, lectures, or assignments.
- explain_concept: the query asks for an explanation of Python or other technical concepts.
- generate_exercise: the query asks for practice exercises, quiz questions, or answers to a previous exercise.
- debug_code: the query is about code errors or debugging help.
- general_chat: general conversation, questions about the chat history, or anything no other capability covers.

Recent conversation:
%s

Student query: %s

Answer with the capability name only, no additional text or explanation.`

// enrichPrompt asks for an intent-preserving rewrite of the query.
const enrichPrompt = `You rewrite student queries for an introductory Python coding class in a business school.
Rewrite the query below so it is clear and self-contained, preserving its original intent.
Keep the rewrite short. Output only the rewritten query.

Query: %s`

// llm is the minimal model surface the router needs. The production
// implementation wraps Genkit; tests substitute a fake.
type llm interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Config contains all required parameters for the Router.
type Config struct {
	Genkit    *genkit.Genkit
	ModelName string // provider-qualified router model name
	Logger    *slog.Logger

	// EnrichQuery enables the optional query rewrite step.
	EnrichQuery bool
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Router selects a capability for each incoming query.
// Stateless and safe for concurrent use; all configuration is captured
// immutably at construction.
type Router struct {
	model  llm
	logger *slog.Logger
	enrich bool
}

// New creates a Router backed by a Genkit model.
func New(cfg Config) (*Router, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Router{
		model:  &genkitModel{g: cfg.Genkit, modelName: cfg.ModelName},
		logger: cfg.Logger,
		enrich: cfg.EnrichQuery,
	}, nil
}

// Route classifies query against the trailing conversation window and
// returns exactly one capability plus normalized arguments.
//
// The only side effect is the model invocation. A model answer that is not
// exactly one valid label fails with ErrClassificationFormat.
func (r *Router) Route(ctx context.Context, query string, window []conversation.Turn) (Decision, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Decision{}, errors.New("query is empty")
	}

	prompt := fmt.Sprintf(classifyPrompt, formatWindow(window), query)
	raw, err := r.model.Generate(ctx, prompt, classifyMaxTokens)
	if err != nil {
		return Decision{}, fmt.Errorf("classifying query: %w", err)
	}

	capability, err := ParseCapability(raw)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Capability: capability,
		Arguments:  Arguments{Query: query},
	}

	if r.enrich {
		decision.Arguments.Enriched = r.enrichQuery(ctx, query)
	}

	r.logger.Debug("routed query",
		"capability", capability,
		"enriched", decision.Arguments.Enriched != "",
		"query_length", len(query),
	)
	return decision, nil
}

// enrichQuery rewrites the query within the enrichment token budget.
// Best-effort: any failure falls back to the raw query (empty result).
func (r *Router) enrichQuery(ctx context.Context, query string) string {
	rewritten, err := r.model.Generate(ctx, fmt.Sprintf(enrichPrompt, query), enrichMaxTokens)
	if err != nil {
		r.logger.Debug("query enrichment failed, using raw query", "error", err)
		return ""
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return ""
	}
	return rewritten
}

// formatWindow renders the trailing turns for the classification prompt.
func formatWindow(window []conversation.Turn) string {
	if len(window) == 0 {
		return "(no prior conversation)"
	}
	var b strings.Builder
	for _, t := range window {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// genkitModel adapts Genkit generation to the llm interface.
type genkitModel struct {
	g         *genkit.Genkit
	modelName string
}

func (m *genkitModel) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := genkit.Generate(ctx, m.g,
		ai.WithModelName(m.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(map[string]any{
			"temperature":     classifierTemperature,
			"maxOutputTokens": maxTokens,
		}),
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
