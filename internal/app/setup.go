package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peytonlabs/peyton/db"
	"github.com/peytonlabs/peyton/internal/config"
	"github.com/peytonlabs/peyton/internal/conversation"
	"github.com/peytonlabs/peyton/internal/knowledge"
	"github.com/peytonlabs/peyton/internal/log"
	"github.com/peytonlabs/peyton/internal/querylog"
	"github.com/peytonlabs/peyton/internal/rag"
	"github.com/peytonlabs/peyton/internal/router"
	"github.com/peytonlabs/peyton/internal/tutor"
)

// Setup validates the configuration and builds the full application.
// On error everything already initialized is released.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	store, err := knowledge.New(pool, embedder, logger)
	if err != nil {
		return nil, err
	}
	a.Knowledge = store

	retriever, err := rag.DefineCourseMaterials(g, store)
	if err != nil {
		return nil, err
	}
	a.Retriever = retriever

	queryLog, err := querylog.NewStore(pool, logger)
	if err != nil {
		return nil, err
	}
	a.QueryLog = queryLog

	r, err := router.New(router.Config{
		Genkit:      g,
		ModelName:   cfg.FullRouterModelName(),
		Logger:      logger,
		EnrichQuery: cfg.EnrichQuery,
	})
	if err != nil {
		return nil, err
	}
	a.Router = r

	gens, err := tutor.NewGenerators(tutor.Config{
		Genkit:      g,
		Retriever:   retriever,
		Logger:      logger,
		ModelName:   cfg.FullModelName(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopK:        cfg.RAGTopK,
	})
	if err != nil {
		return nil, err
	}
	dispatcher, err := tutor.NewDispatcher(gens, logger)
	if err != nil {
		return nil, err
	}
	a.Tutor = dispatcher

	a.History = conversation.New(conversation.WithGreeting(cfg.Greeting))

	return a, nil
}

// provideDBPool runs migrations and opens the connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default), ollama, and openai.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama has no auto-discovery; register each model explicitly.
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		if cfg.RouterModelName != "" && cfg.RouterModelName != cfg.ModelName {
			ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
				Name: cfg.RouterModelName,
				Type: "chat",
			}, nil)
		}
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized genkit", "provider", provider, "model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized genkit", "provider", provider, "model", cfg.ModelName)

	default: // gemini
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized genkit", "provider", provider, "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the provider plugin.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.Embedder(g, cfg.OllamaHost)
	case config.ProviderOpenAI:
		return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	default:
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}
