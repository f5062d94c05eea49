package conversation

import (
	"fmt"
	"reflect"
	"testing"
)

func TestAppendThenEnforceBoundKeepsExchange(t *testing.T) {
	h := New()

	h.Append(Turn{Role: RoleHuman, Content: "hi"})
	h.Append(Turn{Role: RoleAssistant, Content: "hello"})
	h.EnforceBound(2)

	want := []Turn{
		{Role: RoleHuman, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}
	if got := h.Window(10); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestEnforceBoundDiscardsOldestFirst(t *testing.T) {
	h := New()
	for i := 1; i <= 5; i++ {
		h.Append(Turn{Role: RoleHuman, Content: fmt.Sprintf("turn %d", i)})
	}

	h.EnforceBound(2)

	want := []Turn{
		{Role: RoleHuman, Content: "turn 4"},
		{Role: RoleHuman, Content: "turn 5"},
	}
	if got := h.Window(10); !reflect.DeepEqual(got, want) {
		t.Errorf("after EnforceBound(2): %v, want %v", got, want)
	}
}

func TestBoundHoldsAfterAnySequence(t *testing.T) {
	const maxTurns = 3
	h := New()

	for i := 0; i < 20; i++ {
		h.Append(Turn{Role: RoleHuman, Content: fmt.Sprintf("q%d", i)})
		h.Append(Turn{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)})
		h.EnforceBound(maxTurns)

		if h.Len() > maxTurns {
			t.Fatalf("iteration %d: Len() = %d exceeds bound %d", i, h.Len(), maxTurns)
		}
	}
}

func TestWindowOrderAndSize(t *testing.T) {
	h := New()
	h.Append(Turn{Role: RoleHuman, Content: "first"})
	h.Append(Turn{Role: RoleAssistant, Content: "second"})
	h.Append(Turn{Role: RoleHuman, Content: "third"})

	tests := []struct {
		n    int
		want []Turn
	}{
		{0, nil},
		{1, []Turn{{RoleHuman, "third"}}},
		{2, []Turn{{RoleAssistant, "second"}, {RoleHuman, "third"}}},
		{5, []Turn{{RoleHuman, "first"}, {RoleAssistant, "second"}, {RoleHuman, "third"}}},
	}
	for _, tt := range tests {
		if got := h.Window(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestWindowIsIdempotent(t *testing.T) {
	h := New()
	h.Append(Turn{Role: RoleHuman, Content: "hi"})
	h.Append(Turn{Role: RoleAssistant, Content: "hello"})

	first := h.Window(2)
	second := h.Window(2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Window(2) not idempotent: %v then %v", first, second)
	}
}

func TestWindowReturnsCopy(t *testing.T) {
	h := New()
	h.Append(Turn{Role: RoleHuman, Content: "original"})

	w := h.Window(1)
	w[0].Content = "mutated"

	if got := h.Window(1)[0].Content; got != "original" {
		t.Errorf("internal state mutated through window copy: %q", got)
	}
}

func TestGreetingTurn(t *testing.T) {
	const greeting = "Hi. I'm your virtual TA Peyton. How can I help you today?"
	h := New(WithGreeting(greeting))

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 greeting turn", h.Len())
	}
	got := h.Window(1)[0]
	if got.Role != RoleAssistant || got.Content != greeting {
		t.Errorf("greeting turn = %+v", got)
	}
}

func TestClearReappliesGreeting(t *testing.T) {
	h := New(WithGreeting("hello there"))
	h.Append(Turn{Role: RoleHuman, Content: "question"})
	h.Append(Turn{Role: RoleAssistant, Content: "answer"})

	h.Clear()

	if h.Len() != 1 {
		t.Fatalf("Len() after Clear = %d, want 1", h.Len())
	}
	if got := h.Window(1)[0].Content; got != "hello there" {
		t.Errorf("greeting after Clear = %q", got)
	}
}

func TestClearWithoutGreetingEmpties(t *testing.T) {
	h := New()
	h.Append(Turn{Role: RoleHuman, Content: "question"})

	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", h.Len())
	}
}
