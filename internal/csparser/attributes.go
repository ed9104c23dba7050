package csparser

import (
	"strings"

	"apilens/internal/model"
)

// Attribute is one parsed `[Name(...)]` entry.
// Unknown names are preserved so downstream stages can ignore them without
// the parser having to know the full attribute vocabulary.
type Attribute struct {
	// Attribute name without brackets, e.g. "HttpGet", "FromQuery"
	Name string

	// First positional string argument, unquoted; the route template or
	// header name for the attributes this engine models
	Arg string

	// Named arguments, e.g. Name = "X-Api-Key" -> {"Name": "X-Api-Key"}.
	// String values are unquoted, everything else kept raw.
	Named map[string]string

	// Original attribute text including arguments
	Raw string
}

// HTTP verb attribute names to methods
var httpAttributes = map[string]model.HTTPMethod{
	"HttpGet":     model.MethodGet,
	"HttpPost":    model.MethodPost,
	"HttpPut":     model.MethodPut,
	"HttpDelete":  model.MethodDelete,
	"HttpPatch":   model.MethodPatch,
	"HttpHead":    model.MethodHead,
	"HttpOptions": model.MethodOptions,
}

// Binding attribute names to sources
var bindingAttributes = map[string]model.BindingSource{
	"FromQuery":  model.SourceQuery,
	"FromBody":   model.SourceBody,
	"FromHeader": model.SourceHeader,
	"FromForm":   model.SourceForm,
	"FromRoute":  model.SourcePath,
}

// HTTPMethodFor maps an attribute name to its verb; ok is false for
// non-verb attributes.
func HTTPMethodFor(name string) (model.HTTPMethod, bool) {
	m, ok := httpAttributes[name]
	return m, ok
}

// BindingFor maps a From* attribute name to its binding source
func BindingFor(name string) (model.BindingSource, bool) {
	s, ok := bindingAttributes[name]
	return s, ok
}

// ParseAttributes extracts the ordered (name, arguments) pairs from raw
// attribute text preceding a class, method or parameter. Tolerates multi-line
// argument lists and comma-combined declarations like
// [HttpGet("{id}"), Authorize].
func ParseAttributes(raw string) []Attribute {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	blanked := Blank(raw)
	var attrs []Attribute

	for i := 0; i < len(blanked); i++ {
		if blanked[i] != '[' {
			continue
		}
		end := matchForward(blanked, i, '[', ']')
		if end < 0 {
			// Unterminated group: salvage nothing from it, the segmenter
			// has already warned
			break
		}
		inner := raw[i+1 : end-1]
		innerBlanked := blanked[i+1 : end-1]

		for _, span := range splitTopLevel(innerBlanked, ',') {
			item := inner[span[0]:span[1]]
			itemBlanked := innerBlanked[span[0]:span[1]]
			if strings.TrimSpace(item) == "" {
				continue
			}
			if attr, ok := parseSingleAttribute(item, itemBlanked); ok {
				attrs = append(attrs, attr)
			}
		}
		i = end - 1
	}

	return attrs
}

// parseSingleAttribute parses one `Name` or `Name(args)` item. item and
// itemBlanked are index-aligned slices of the same span.
func parseSingleAttribute(item, itemBlanked string) (Attribute, bool) {
	attr := Attribute{Raw: strings.TrimSpace(item), Named: make(map[string]string)}

	// Identifier characters survive blanking, so the name is located on the
	// blanked copy
	nameStart := -1
	for i := 0; i < len(itemBlanked); i++ {
		if isIdentByte(itemBlanked[i]) {
			nameStart = i
			break
		}
	}
	if nameStart < 0 {
		return attr, false
	}
	nameEnd := nameStart
	for nameEnd < len(itemBlanked) && (isIdentByte(itemBlanked[nameEnd]) || itemBlanked[nameEnd] == '.') {
		nameEnd++
	}

	// Target specifier like [return: ProducesResponseType(...)]
	if next := skipSpaceForward(itemBlanked, nameEnd); next < len(itemBlanked) && itemBlanked[next] == ':' {
		return parseSingleAttribute(item[next+1:], itemBlanked[next+1:])
	}

	attr.Name = item[nameStart:nameEnd]
	if dot := strings.LastIndexByte(attr.Name, '.'); dot >= 0 {
		attr.Name = attr.Name[dot+1:]
	}
	attr.Name = strings.TrimSuffix(attr.Name, "Attribute")

	openParen := skipSpaceForward(itemBlanked, nameEnd)
	if openParen >= len(itemBlanked) || itemBlanked[openParen] != '(' {
		return attr, true
	}
	closeIdx := matchForward(itemBlanked, openParen, '(', ')')
	if closeIdx < 0 {
		return attr, true
	}
	args := item[openParen+1 : closeIdx-1]
	argsBlanked := itemBlanked[openParen+1 : closeIdx-1]

	for _, span := range splitTopLevel(argsBlanked, ',') {
		arg := args[span[0]:span[1]]
		argBlanked := argsBlanked[span[0]:span[1]]
		if strings.TrimSpace(arg) == "" {
			continue
		}

		parseAttributeArg(&attr, arg, argBlanked)
	}

	return attr, true
}

// parseAttributeArg records one argument as positional or named. arg and
// argBlanked are index-aligned slices of the same span.
func parseAttributeArg(attr *Attribute, arg, argBlanked string) {
	// Named argument: Identifier = value; the blanked copy guarantees the
	// '=' is not inside a string literal
	if eq := strings.IndexByte(argBlanked, '='); eq >= 0 {
		key := strings.TrimSpace(arg[:eq])
		if isIdentifier(key) {
			attr.Named[key] = unquote(strings.TrimSpace(arg[eq+1:]))
			return
		}
	}

	// First positional string argument wins as the primary argument
	trimmed := strings.TrimSpace(arg)
	if attr.Arg == "" && strings.HasPrefix(strings.TrimPrefix(trimmed, "@"), "\"") {
		attr.Arg = unquote(trimmed)
	}
}

// splitTopLevel splits blanked text on sep at zero bracket depth, returning
// [start, end) spans usable against both the blanked and original text.
func splitTopLevel(blanked string, sep byte) [][2]int {
	var spans [][2]int
	depth := 0
	start := 0
	for i := 0; i < len(blanked); i++ {
		switch blanked[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case sep:
			if depth == 0 {
				spans = append(spans, [2]int{start, i})
				start = i + 1
			}
		}
	}
	spans = append(spans, [2]int{start, len(blanked)})
	return spans
}

// topLevelIndex finds sep at zero bracket depth, or -1
func topLevelIndex(blanked string, sep byte) int {
	depth := 0
	for i := 0; i < len(blanked); i++ {
		switch blanked[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case sep:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// unquote strips one layer of quotes from a (possibly verbatim) string literal
func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimPrefix(s, "$")
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return s[0] < '0' || s[0] > '9'
}
