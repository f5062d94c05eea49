// Package testutil provides shared fakes for package tests.
package testutil

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// EmbeddingDim matches the vector(768) column used by the document store.
const EmbeddingDim = 768

// Embedder implements ai.Embedder with deterministic vectors derived from
// the input text, so similarity assertions are stable across runs.
type Embedder struct {
	Err       error     // returned from Embed when non-nil
	Fixed     []float32 // overrides the derived vector when non-nil
	CallCount int
	LastInput string
}

func (e *Embedder) Name() string { return "test-embedder" }

func (e *Embedder) Register(api.Registry) {}

func (e *Embedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	e.CallCount++
	if len(req.Input) > 0 && len(req.Input[0].Content) > 0 {
		e.LastInput = req.Input[0].Content[0].Text
	}
	if e.Err != nil {
		return nil, e.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Input) == 0 {
		return nil, errors.New("no input documents")
	}

	embeddings := make([]*ai.Embedding, 0, len(req.Input))
	for _, doc := range req.Input {
		vec := e.Fixed
		if vec == nil {
			var text string
			if len(doc.Content) > 0 {
				text = doc.Content[0].Text
			}
			vec = derive(text)
		}
		embeddings = append(embeddings, &ai.Embedding{Embedding: vec})
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

// derive produces a stable pseudo-embedding from text.
func derive(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, EmbeddingDim)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000 - 0.5
	}
	return vec
}
