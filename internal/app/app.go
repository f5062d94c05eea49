// Package app wires the application together: configuration, database,
// Genkit provider, document store, router, and dispatcher.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peytonlabs/peyton/internal/config"
	"github.com/peytonlabs/peyton/internal/conversation"
	"github.com/peytonlabs/peyton/internal/knowledge"
	"github.com/peytonlabs/peyton/internal/log"
	"github.com/peytonlabs/peyton/internal/querylog"
	"github.com/peytonlabs/peyton/internal/router"
	"github.com/peytonlabs/peyton/internal/tutor"
)

// App is the application container. Build one with Setup and release it
// with Close.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store
	Retriever ai.Retriever
	QueryLog  *querylog.Store

	Router  *router.Router
	Tutor   *tutor.Dispatcher
	History *conversation.History
}

// Close releases all resources. Safe to call on a partially built App.
func (a *App) Close() error {
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}
