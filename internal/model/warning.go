package model

import "fmt"

// WarningKind classifies non-fatal parse and synthesis conditions.
// No condition inside the engine is fatal: parsing always returns a
// best-effort result plus the warnings that were collected on the way.
type WarningKind string

const (
	// Unbalanced block or malformed attribute; the offending block is skipped
	WarnStructuralParse WarningKind = "StructuralParseWarning"

	// Path token with no matching parameter, or vice versa; the endpoint
	// is still emitted with the mismatch flagged
	WarnRouteMismatch WarningKind = "RouteMismatchWarning"

	// Referenced type not found in the catalog; synthesis falls back to an
	// opaque placeholder object
	WarnTypeResolutionMiss WarningKind = "TypeResolutionMiss"

	// A declared type matched no heuristic; the generic fallback was used
	WarnSynthesisAmbiguity WarningKind = "SynthesisAmbiguity"
)

// Warning is one non-fatal finding attached to a parse result
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`

	// 1-based line in the source document, 0 when unknown
	Line int `json:"line,omitempty"`
}

// NewWarning creates a warning with a formatted message
func NewWarning(kind WarningKind, line int, format string, args ...any) Warning {
	return Warning{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}
