package router

import (
	"fmt"
	"strings"
)

// Capability names one response-generation behavior. The set is closed:
// every Decision the Router emits carries one of the five values below, and
// parsing anything else is an error, never a silent default.
type Capability string

// The five capabilities of the virtual TA.
const (
	// CapabilityCourseInfo answers course-specific questions (instructor,
	// syllabus, policies, assignments) from retrieved course materials.
	CapabilityCourseInfo Capability = "course_information"

	// CapabilityExplain explains Python or other technical concepts.
	CapabilityExplain Capability = "explain_concept"

	// CapabilityExercise generates practice exercises or checks answers.
	CapabilityExercise Capability = "generate_exercise"

	// CapabilityDebug helps with code errors. Stateless: debugging uses the
	// query alone, never the conversation history.
	CapabilityDebug Capability = "debug_code"

	// CapabilityChat handles general conversation when nothing else fits.
	CapabilityChat Capability = "general_chat"
)

// Capabilities lists every valid capability, in routing-guidance order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityCourseInfo,
		CapabilityExplain,
		CapabilityExercise,
		CapabilityDebug,
		CapabilityChat,
	}
}

// Valid reports whether c is one of the known capabilities.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityCourseInfo, CapabilityExplain, CapabilityExercise,
		CapabilityDebug, CapabilityChat:
		return true
	}
	return false
}

// ParseCapability converts a raw classification label into a Capability.
// Surrounding whitespace, quotes, and trailing punctuation are tolerated;
// anything that is not exactly one known label fails with
// ErrClassificationFormat.
func ParseCapability(raw string) (Capability, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "\"'`.")

	c := Capability(cleaned)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrClassificationFormat, raw)
	}
	return c, nil
}

// Arguments carries the normalized inputs for the chosen capability.
type Arguments struct {
	// Query is the cleaned query text.
	Query string

	// Enriched is the optional rewritten query. Empty when enrichment is
	// disabled or failed; consumers fall back to Query.
	Enriched string
}

// Decision is the Router's output: exactly one capability plus the
// arguments the matching generator needs.
type Decision struct {
	Capability Capability
	Arguments  Arguments
}
