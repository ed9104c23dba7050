package synthesizer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"apilens/internal/analyzer"
)

// namePattern maps a field-name fragment to a sample value. Name-based
// guesses run before the type fallback so "email string" becomes an
// address rather than a generic placeholder.
type namePattern struct {
	fragment string
	value    func(name string) any
}

var namePatterns = []namePattern{
	{"email", func(string) any { return "test@example.com" }},
	{"phone", func(string) any { return "+1-555-0100" }},
	{"url", func(string) any { return "https://example.com" }},
	{"uri", func(string) any { return "https://example.com" }},
	{"date", func(string) any { return time.Now().UTC().Format(time.RFC3339) }},
	{"time", func(string) any { return time.Now().UTC().Format(time.RFC3339) }},
	{"status", func(string) any { return "active" }},
	{"name", func(string) any { return "Sample Name" }},
	{"id", func(string) any { return 1 }},
	{"count", func(string) any { return 1 }},
	{"amount", func(string) any { return 9.99 }},
	{"price", func(string) any { return 9.99 }},
}

// valueForName returns a sample value inferred from the field name alone,
// or (nil, false) when no pattern applies.
func valueForName(name, declaredType string) (any, bool) {
	lower := strings.ToLower(name)
	bare := strings.ToLower(analyzer.BareName(declaredType))

	for _, p := range namePatterns {
		if !strings.Contains(lower, p.fragment) {
			continue
		}
		v := p.value(name)
		// A name hint must not fight the declared type: "statusCode int"
		// stays numeric even though it matches the status pattern.
		if matchesType(v, bare) {
			return v, true
		}
	}
	return nil, false
}

// valueForType returns the type-fallback sample value for a bare type name.
func valueForType(bare string) any {
	switch strings.ToLower(bare) {
	case "string", "char":
		return "sample"
	case "int", "long", "short", "byte", "sbyte", "uint", "ulong", "ushort",
		"int16", "int32", "int64", "uint16", "uint32", "uint64":
		return 1
	case "bool", "boolean":
		return true
	case "decimal", "double", "float", "single":
		return 9.99
	case "datetime", "datetimeoffset":
		return time.Now().UTC().Format(time.RFC3339)
	case "dateonly":
		return time.Now().UTC().Format("2006-01-02")
	case "timeonly", "timespan":
		return "00:30:00"
	case "guid":
		return uuid.NewString()
	case "uri":
		return "https://example.com"
	case "object", "dynamic":
		return map[string]any{}
	default:
		return "sample"
	}
}

// matchesType reports whether a name-pattern value is compatible with the
// declared primitive type.
func matchesType(v any, bare string) bool {
	switch v.(type) {
	case string:
		switch bare {
		case "string", "char", "datetime", "datetimeoffset", "dateonly", "guid", "uri", "":
			return true
		}
		return false
	case int:
		switch bare {
		case "int", "long", "short", "byte", "uint", "ulong", "ushort", "int16", "int32", "int64", "decimal", "double", "float", "":
			return true
		}
		return false
	case float64:
		switch bare {
		case "decimal", "double", "float", "single", "":
			return true
		}
		return false
	}
	return true
}
