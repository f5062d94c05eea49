package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/peytonlabs/peyton/internal/conversation"
	"github.com/peytonlabs/peyton/internal/log"
	"github.com/peytonlabs/peyton/internal/router"
)

// fakeGenerator records its inputs and streams a canned answer.
type fakeGenerator struct {
	name       string
	answer     string
	err        error
	calls      int
	lastQuery  string
	lastWindow []conversation.Turn
}

func (f *fakeGenerator) Generate(ctx context.Context, query string, window []conversation.Turn, onChunk StreamCallback) (string, error) {
	f.calls++
	f.lastQuery = query
	f.lastWindow = window
	if f.err != nil {
		return "", f.err
	}
	if onChunk != nil {
		// Stream in two chunks to exercise incremental consumption.
		half := len(f.answer) / 2
		for _, chunk := range []string{f.answer[:half], f.answer[half:]} {
			if err := onChunk(ctx, chunk); err != nil {
				return "", err
			}
		}
	}
	return f.answer, nil
}

type testHarness struct {
	dispatcher *Dispatcher
	gens       map[router.Capability]*fakeGenerator
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	gens := map[router.Capability]*fakeGenerator{
		router.CapabilityCourseInfo: {name: "course", answer: "course answer"},
		router.CapabilityExplain:    {name: "explain", answer: "explain answer"},
		router.CapabilityExercise:   {name: "exercise", answer: "exercise answer"},
		router.CapabilityDebug:      {name: "debug", answer: "debug answer"},
		router.CapabilityChat:       {name: "chat", answer: "chat answer"},
	}
	d, err := NewDispatcher(Generators{
		CourseInfo: gens[router.CapabilityCourseInfo],
		Explain:    gens[router.CapabilityExplain],
		Exercise:   gens[router.CapabilityExercise],
		Debug:      gens[router.CapabilityDebug],
		Chat:       gens[router.CapabilityChat],
	}, log.NewNop())
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return &testHarness{dispatcher: d, gens: gens}
}

func decision(c router.Capability, query string) router.Decision {
	return router.Decision{Capability: c, Arguments: router.Arguments{Query: query}}
}

func TestDispatchSelectsBoundGenerator(t *testing.T) {
	h := newHarness(t)
	window := []conversation.Turn{{Role: conversation.RoleHuman, Content: "earlier"}}

	for capability, gen := range h.gens {
		text, err := h.dispatcher.Dispatch(context.Background(), decision(capability, "q"), window, nil)
		if err != nil {
			t.Errorf("%s: %v", capability, err)
			continue
		}
		if text != gen.answer {
			t.Errorf("%s: text = %q, want %q", capability, text, gen.answer)
		}
		if gen.calls != 1 {
			t.Errorf("%s: generator called %d times", capability, gen.calls)
		}
	}
}

func TestDispatchDebugExcludesHistory(t *testing.T) {
	h := newHarness(t)
	window := []conversation.Turn{{Role: conversation.RoleHuman, Content: "earlier"}}

	if _, err := h.dispatcher.Dispatch(context.Background(), decision(router.CapabilityDebug, "fix this"), window, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := h.gens[router.CapabilityDebug].lastWindow; got != nil {
		t.Errorf("debug generator received history: %v", got)
	}

	if _, err := h.dispatcher.Dispatch(context.Background(), decision(router.CapabilityChat, "hello"), window, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := h.gens[router.CapabilityChat].lastWindow; len(got) != 1 {
		t.Errorf("chat generator window = %v, want the trailing window", got)
	}
}

func TestDispatchUnknownCapability(t *testing.T) {
	h := newHarness(t)

	_, err := h.dispatcher.Dispatch(context.Background(), decision(router.Capability("unknown_tool"), "q"), nil, nil)
	if !errors.Is(err, ErrUnknownCapability) {
		t.Fatalf("got %v, want ErrUnknownCapability", err)
	}
	if !strings.Contains(err.Error(), "invalid tool name") {
		t.Errorf("error message = %q, want the fixed invalid tool name outcome", err)
	}
	for capability, gen := range h.gens {
		if gen.calls != 0 {
			t.Errorf("%s generator invoked for unknown capability", capability)
		}
	}
}

func TestDispatchPrefersEnrichedQuery(t *testing.T) {
	h := newHarness(t)
	d := router.Decision{
		Capability: router.CapabilityExplain,
		Arguments:  router.Arguments{Query: "raw", Enriched: "rewritten"},
	}
	if _, err := h.dispatcher.Dispatch(context.Background(), d, nil, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := h.gens[router.CapabilityExplain].lastQuery; got != "rewritten" {
		t.Errorf("generator query = %q, want enriched form", got)
	}
}

func TestDispatchStreamsChunks(t *testing.T) {
	h := newHarness(t)

	var chunks []string
	text, err := h.dispatcher.Dispatch(context.Background(),
		decision(router.CapabilityChat, "hi"), nil,
		func(_ context.Context, chunk string) error {
			chunks = append(chunks, chunk)
			return nil
		})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if strings.Join(chunks, "") != text {
		t.Errorf("streamed chunks %q do not assemble to final text %q", chunks, text)
	}
	if len(chunks) < 2 {
		t.Errorf("expected incremental chunks, got %d", len(chunks))
	}
}

func TestDispatchPropagatesGeneratorFailure(t *testing.T) {
	h := newHarness(t)
	wantErr := errors.New("model unavailable")
	h.gens[router.CapabilityExercise].err = wantErr

	_, err := h.dispatcher.Dispatch(context.Background(), decision(router.CapabilityExercise, "quiz me"), nil, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want generator error", err)
	}
}

func TestNewDispatcherRequiresAllGenerators(t *testing.T) {
	_, err := NewDispatcher(Generators{Chat: &fakeGenerator{}}, log.NewNop())
	if err == nil {
		t.Error("expected error for missing generators")
	}
}

func TestRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("503 Service Unavailable"), true},
		{errors.New("connection reset by peer"), true},
		{errors.New("invalid api key"), false},
		{errors.New("content blocked by safety settings"), false},
	}
	for _, tt := range tests {
		if got := retryableError(tt.err); got != tt.want {
			t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
