// Package querylog records submitted student queries for later analysis.
//
// Logging is best effort: a failed insert is logged and swallowed so the
// answering path never degrades because the log store is down.
package querylog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// asyncTimeout bounds a fire-and-forget insert so a hung database connection
// cannot leak goroutines.
const asyncTimeout = 5 * time.Second

// Querier is the database surface the logger needs. *pgxpool.Pool satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store writes query records to the query_log table.
type Store struct {
	db     Querier
	logger *slog.Logger
}

// NewStore creates a query log store.
func NewStore(db Querier, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Store{db: db, logger: logger}, nil
}

// Log inserts one record and returns its identifier. The timestamp is
// assigned by the database at insert time, not at submission time.
func (s *Store) Log(ctx context.Context, fields map[string]any) (uuid.UUID, error) {
	if len(fields) == 0 {
		return uuid.Nil, errors.New("fields are required")
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding log fields: %w", err)
	}

	var idStr string
	err = s.db.QueryRow(ctx,
		`INSERT INTO query_log (fields) VALUES ($1) RETURNING id::text`,
		payload,
	).Scan(&idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting query log record: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing record id: %w", err)
	}
	return id, nil
}

// LogQuery records a submitted query asynchronously. Failures are reported
// through the logger and otherwise ignored; the caller proceeds regardless.
func (s *Store) LogQuery(query string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if _, err := s.Log(ctx, map[string]any{"query": query}); err != nil {
			s.logger.Warn("query logging failed", "error", err)
		}
	}()
}
