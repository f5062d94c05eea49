package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/peytonlabs/peyton/internal/conversation"
)

// fallbackResponseMessage is returned when the model produces an empty
// response for a turn.
const fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."

// Config contains all required parameters for building the five generators.
type Config struct {
	Genkit    *genkit.Genkit
	Retriever ai.Retriever // course-material retriever (course_information only)
	Logger    *slog.Logger

	ModelName   string // provider-qualified model name
	Temperature float32
	MaxTokens   int
	TopK        int // passages retrieved per course_information query

	// Resilience configuration
	RetryConfig RetryConfig   // zero-value uses defaults
	RateLimiter *rate.Limiter // nil = use default
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Retriever == nil {
		return errors.New("retriever is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// NewGenerators builds the five capability generators sharing one model,
// rate limiter, and retry policy.
func NewGenerators(cfg Config) (Generators, error) {
	if err := cfg.validate(); err != nil {
		return Generators{}, err
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 300
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 4
	}
	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}
	// Default: 10 requests/sec sustained, burst of 30.
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	base := llmGenerator{
		model:       &genkitClient{g: cfg.Genkit},
		logger:      cfg.Logger,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		retryConfig: retryConfig,
		limiter:     limiter,
	}

	courseInfo := base
	courseInfo.systemPrompt = courseInfoPrompt
	courseInfo.retriever = cfg.Retriever
	courseInfo.topK = topK

	explain := base
	explain.systemPrompt = explainPrompt

	exercise := base
	exercise.systemPrompt = exercisePrompt

	debug := base
	debug.systemPrompt = debugPrompt

	chat := base
	chat.systemPrompt = chatPrompt

	return Generators{
		CourseInfo: &courseInfo,
		Explain:    &explain,
		Exercise:   &exercise,
		Debug:      &debug,
		Chat:       &chat,
	}, nil
}

// model is the minimal generation surface a generator needs. The
// production implementation wraps Genkit; tests substitute a fake.
type model interface {
	Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)
}

// genkitClient adapts Genkit generation to the model interface.
type genkitClient struct {
	g *genkit.Genkit
}

func (c *genkitClient) Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
	return genkit.Generate(ctx, c.g, opts...)
}

// llmGenerator is a model-backed Generator parameterized by system prompt
// and, for the retrieval-augmented capability, a retriever.
type llmGenerator struct {
	model  model
	logger *slog.Logger

	systemPrompt string
	modelName    string
	temperature  float32
	maxTokens    int

	// retriever is non-nil only for course_information.
	retriever ai.Retriever
	topK      int

	retryConfig RetryConfig
	limiter     *rate.Limiter
}

// Generate produces the response text, streaming chunks through onChunk as
// they arrive. On error no partial text is returned; the caller appends no
// turn for a failed or canceled generation.
func (l *llmGenerator) Generate(ctx context.Context, query string, window []conversation.Turn, onChunk StreamCallback) (string, error) {
	messages := historyMessages(window)

	if l.retriever != nil {
		contextText, err := l.retrieveContext(ctx, query)
		if err != nil {
			return "", fmt.Errorf("retrieving course context: %w", err)
		}
		messages = append(messages, ai.NewModelMessage(
			ai.NewTextPart("Here is the retrieved context:\n"+contextText)))
	}

	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(query)))

	opts := []ai.GenerateOption{
		ai.WithModelName(l.modelName),
		ai.WithSystem(l.systemPrompt),
		ai.WithMessages(messages...),
		ai.WithConfig(map[string]any{
			"temperature":     l.temperature,
			"maxOutputTokens": l.maxTokens,
		}),
	}
	if onChunk != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			return onChunk(ctx, chunk.Text())
		}))
	}

	resp, err := l.generateWithRetry(ctx, opts)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		l.logger.Warn("model returned empty response")
		text = fallbackResponseMessage
	}
	return text, nil
}

// retrieveContext fetches the top-k course passages for the query and
// renders them for prompt injection.
func (l *llmGenerator) retrieveContext(ctx context.Context, query string) (string, error) {
	resp, err := l.retriever.Retrieve(ctx, &ai.RetrieverRequest{
		Query:   ai.DocumentFromText(query, nil),
		Options: map[string]any{"k": l.topK},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Documents) == 0 {
		return "(no relevant course material found)", nil
	}

	var b strings.Builder
	for i, doc := range resp.Documents {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		for _, part := range doc.Content {
			b.WriteString(part.Text)
		}
	}

	l.logger.Debug("retrieved course context",
		"passages", len(resp.Documents),
		"query_length", len(query),
	)
	return b.String(), nil
}

// historyMessages converts conversation turns into model messages.
func historyMessages(window []conversation.Turn) []*ai.Message {
	messages := make([]*ai.Message, 0, len(window)+2)
	for _, t := range window {
		switch t.Role {
		case conversation.RoleHuman:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(t.Content)))
		case conversation.RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(t.Content)))
		}
	}
	return messages
}
