// Package knowledge stores course material as embedded documents in
// PostgreSQL with pgvector and serves similarity search over them.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// searchTimeout bounds a vector search so a slow query cannot stall a turn.
const searchTimeout = 10 * time.Second

// Document is one unit of course material.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Result pairs a document with its similarity to the search query (1.0 is
// an exact match, 0.0 unrelated).
type Result struct {
	Document   Document
	Similarity float64
}

// Querier is the database surface the store needs. *pgxpool.Pool satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store manages course documents with vector search.
// Safe for concurrent use.
type Store struct {
	db       Querier
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a knowledge store.
func New(db Querier, embedder ai.Embedder, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Store{db: db, embedder: embedder, logger: logger}, nil
}

// Add embeds the document content and upserts it by ID.
func (s *Store) Add(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return errors.New("document id is required")
	}
	if doc.Content == "" {
		return errors.New("document content is required")
	}

	embedding, err := s.embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document %q: %w", doc.ID, err)
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", doc.ID, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO course_documents (id, content, metadata, embedding, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding,
			updated_at = now()`,
		doc.ID, doc.Content, metadataJSON, embedding,
	)
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}

	s.logger.Debug("added document", "id", doc.ID, "content_length", len(doc.Content))
	return nil
}

// Search embeds the query and returns the topK most similar documents,
// ordered by descending similarity.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	queryCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	embedding, err := s.embed(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.Query(queryCtx, `
		SELECT id, content, metadata, 1 - (embedding <=> $1) AS similarity
		FROM course_documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		embedding, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			doc          Document
			metadataJSON []byte
			similarity   float64
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				s.logger.Warn("failed to parse metadata", "document_id", doc.ID, "error", err)
			}
		}
		results = append(results, Result{Document: doc, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search results: %w", err)
	}

	s.logger.Debug("searched documents", "results", len(results), "top_k", topK)
	return results, nil
}

// Delete removes a document by ID. Deleting an absent document is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM course_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting document %q: %w", id, err)
	}
	return nil
}

// embed generates the vector for one text.
func (s *Store) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, errors.New("empty embedding returned")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}
