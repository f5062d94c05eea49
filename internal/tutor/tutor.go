// Package tutor invokes the response generator matching a routing decision
// and streams its output.
//
// Dispatch is a closed switch over the capability enum: every label the
// Router can emit has a generator bound at construction, and the only
// runtime "unknown capability" path is a Decision forged outside the Router.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peytonlabs/peyton/internal/conversation"
	"github.com/peytonlabs/peyton/internal/router"
)

// ErrUnknownCapability indicates a Decision named a capability with no
// bound generator. Terminal and non-retryable for that turn; the session
// survives and the conversation state is untouched.
var ErrUnknownCapability = errors.New("invalid tool name")

// StreamCallback is called for each chunk of a streaming response.
// Return an error to abort the stream.
type StreamCallback func(ctx context.Context, chunk string) error

// Generator produces the answer for one capability. The window carries the
// trailing conversation turns; implementations stream chunks through
// onChunk (which may be nil) and return the complete text.
//
// The returned stream of chunks is finite and non-restartable: a canceled
// generation returns an error and the caller records no turn for it.
type Generator interface {
	Generate(ctx context.Context, query string, window []conversation.Turn, onChunk StreamCallback) (string, error)
}

// Generators binds one generator to each capability.
type Generators struct {
	CourseInfo Generator
	Explain    Generator
	Exercise   Generator
	Debug      Generator
	Chat       Generator
}

func (g Generators) validate() error {
	if g.CourseInfo == nil || g.Explain == nil || g.Exercise == nil || g.Debug == nil || g.Chat == nil {
		return errors.New("all five generators are required")
	}
	return nil
}

// Dispatcher routes decisions to their generators.
type Dispatcher struct {
	gens   Generators
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher. Every capability must have a bound
// generator.
func NewDispatcher(gens Generators, logger *slog.Logger) (*Dispatcher, error) {
	if err := gens.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Dispatcher{gens: gens, logger: logger}, nil
}

// Dispatch invokes the generator bound to decision.Capability with the
// arguments that capability expects and returns the complete response text.
//
// debug_code receives no history; each debugging request stands alone. All
// other capabilities receive the trailing window. An unrecognized
// capability returns ErrUnknownCapability without invoking any generator.
func (d *Dispatcher) Dispatch(ctx context.Context, decision router.Decision, window []conversation.Turn, onChunk StreamCallback) (string, error) {
	query := decision.Arguments.Query
	if decision.Arguments.Enriched != "" {
		query = decision.Arguments.Enriched
	}

	d.logger.Debug("dispatching query",
		"capability", decision.Capability,
		"window_turns", len(window),
	)

	switch decision.Capability {
	case router.CapabilityCourseInfo:
		return d.gens.CourseInfo.Generate(ctx, query, window, onChunk)
	case router.CapabilityExplain:
		return d.gens.Explain.Generate(ctx, query, window, onChunk)
	case router.CapabilityExercise:
		return d.gens.Exercise.Generate(ctx, query, window, onChunk)
	case router.CapabilityDebug:
		return d.gens.Debug.Generate(ctx, query, nil, onChunk)
	case router.CapabilityChat:
		return d.gens.Chat.Generate(ctx, query, window, onChunk)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, decision.Capability)
	}
}
