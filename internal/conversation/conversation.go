// Package conversation owns the ordered, size-bounded log of turns for a
// single tutoring session.
//
// A History is exclusive to one session. Turns are immutable once appended;
// the only way a turn leaves the history is truncation from the front when
// the configured bound is enforced. There is no archival - dropped turns are
// gone, trading old context for prompt size.
package conversation

import "sync"

// Role identifies the author of a turn.
type Role string

// Valid turn roles.
const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation entry. Immutable once created.
type Turn struct {
	Role    Role
	Content string
}

// History is the ordered sequence of turns for the active session.
//
// History is safe for concurrent use, although the session model is
// single-threaded: one query is processed start-to-finish before the next.
type History struct {
	mu       sync.Mutex
	turns    []Turn
	greeting string
}

// Option configures a History at construction.
type Option func(*History)

// WithGreeting seeds the history with a synthetic assistant greeting turn.
// An empty text means the history starts with zero turns. The greeting is
// re-applied by Clear.
func WithGreeting(text string) Option {
	return func(h *History) {
		h.greeting = text
	}
}

// New creates a History. By default it starts empty.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	h.reset()
	return h
}

// Append adds a turn to the end of the history.
func (h *History) Append(t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, t)
}

// Window returns the last n turns (or fewer if the history is shorter) in
// chronological order. The returned slice is a copy; it never aliases the
// internal state and repeated calls without an intervening Append return
// identical results.
func (h *History) Window(n int) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 {
		return nil
	}
	start := len(h.turns) - n
	if start < 0 {
		start = 0
	}
	window := make([]Turn, len(h.turns)-start)
	copy(window, h.turns[start:])
	return window
}

// EnforceBound discards turns from the front until at most maxTurns remain.
// Call after every completed exchange (one human turn + one assistant turn).
func (h *History) EnforceBound(maxTurns int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if maxTurns < 0 {
		maxTurns = 0
	}
	if len(h.turns) <= maxTurns {
		return
	}
	kept := make([]Turn, maxTurns)
	copy(kept, h.turns[len(h.turns)-maxTurns:])
	h.turns = kept
}

// Len returns the number of turns currently retained.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Clear resets the history to its initial state, re-applying the greeting
// turn when one is configured.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reset()
}

// reset rebuilds the initial turn slice. Caller must hold h.mu (or be the
// constructor, before the History escapes).
func (h *History) reset() {
	h.turns = h.turns[:0]
	if h.greeting != "" {
		h.turns = append(h.turns, Turn{Role: RoleAssistant, Content: h.greeting})
	}
}
