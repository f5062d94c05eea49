// Package rag bridges the course document store into Genkit's retriever API.
package rag

import (
	"context"
	"errors"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/peytonlabs/peyton/internal/knowledge"
)

const defaultTopK = 4

// Searcher is the document search surface the retriever needs.
// *knowledge.Store satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.Result, error)
}

// DefineCourseMaterials registers a Genkit retriever named
// "course-materials" backed by the given document store.
func DefineCourseMaterials(g *genkit.Genkit, store Searcher) (ai.Retriever, error) {
	if g == nil {
		return nil, errors.New("genkit instance is required")
	}
	if store == nil {
		return nil, errors.New("document store is required")
	}

	return genkit.DefineRetriever(
		g, "course-materials", nil,
		func(ctx context.Context, req *ai.RetrieverRequest) (*ai.RetrieverResponse, error) {
			query := queryText(req)
			if query == "" {
				return nil, errors.New("retriever request has no query text")
			}

			results, err := store.Search(ctx, query, topK(req))
			if err != nil {
				return nil, err
			}

			docs := make([]*ai.Document, 0, len(results))
			for _, r := range results {
				metadata := map[string]any{
					"id":         r.Document.ID,
					"similarity": r.Similarity,
				}
				for k, v := range r.Document.Metadata {
					metadata[k] = v
				}
				docs = append(docs, ai.DocumentFromText(r.Document.Content, metadata))
			}

			return &ai.RetrieverResponse{Documents: docs}, nil
		},
	), nil
}

func queryText(req *ai.RetrieverRequest) string {
	if req.Query != nil && len(req.Query.Content) > 0 {
		return req.Query.Content[0].Text
	}
	return ""
}

// topK reads the "k" option, clamped to [1, 10].
func topK(req *ai.RetrieverRequest) int {
	k := defaultTopK
	if opts, ok := req.Options.(map[string]any); ok {
		switch v := opts["k"].(type) {
		case int:
			k = v
		case int32:
			k = int(v)
		case int64:
			k = int(v)
		case float64:
			k = int(v)
		}
	}
	if k < 1 || k > 10 {
		return defaultTopK
	}
	return k
}
