package csparser

import "strings"

// Parameter is one raw method parameter before binding classification
type Parameter struct {
	// Parsed parameter-level attributes ([FromQuery], [FromHeader(Name=...)])
	Attributes []Attribute

	// Raw declared type, nullability preserved
	Type string

	// Parameter name as declared
	Name string

	// Default literal after '=', empty when absent
	DefaultValue string

	// Original parameter text
	Raw string
}

// SplitParams splits a raw parameter list on top-level commas, respecting
// generic brackets, parentheses and string literals with embedded commas
// (e.g. `string q = "a,b"`).
func SplitParams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	blanked := Blank(raw)

	var out []string
	for _, span := range splitTopLevel(blanked, ',') {
		part := strings.TrimSpace(raw[span[0]:span[1]])
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseParameters parses a full raw parameter list
func ParseParameters(raw string) []Parameter {
	var out []Parameter
	for _, part := range SplitParams(raw) {
		if p, ok := ParseParameter(part); ok {
			out = append(out, p)
		}
	}
	return out
}

var paramModifiers = map[string]bool{
	"ref": true, "out": true, "in": true, "this": true,
	"params": true, "scoped": true, "readonly": true,
}

// ParseParameter decomposes one parameter declaration into attributes,
// type, name and default value. Returns false for fragments that carry no
// recognizable name.
func ParseParameter(raw string) (Parameter, bool) {
	p := Parameter{Raw: strings.TrimSpace(raw)}
	blanked := Blank(raw)

	// Leading attribute groups
	cursor := skipSpaceForward(blanked, 0)
	attrStart, attrEnd := -1, -1
	for cursor < len(blanked) && blanked[cursor] == '[' {
		end := matchForward(blanked, cursor, '[', ']')
		if end < 0 {
			break
		}
		if attrStart < 0 {
			attrStart = cursor
		}
		attrEnd = end
		cursor = skipSpaceForward(blanked, end)
	}
	if attrStart >= 0 {
		p.Attributes = ParseAttributes(raw[attrStart:attrEnd])
	}

	// Default value after a top-level '='
	declEnd := len(raw)
	if eq := topLevelIndex(blanked[cursor:], '='); eq >= 0 {
		declEnd = cursor + eq
		p.DefaultValue = strings.TrimSpace(raw[cursor+eq+1:])
	}

	decl := raw[cursor:declEnd]
	declBlanked := blanked[cursor:declEnd]

	// Name is the trailing identifier
	nameEnd := skipSpaceBackward(declBlanked, len(declBlanked)-1)
	nameStart := nameEnd
	for nameStart >= 0 && isIdentByte(declBlanked[nameStart]) {
		nameStart--
	}
	nameStart++
	if nameStart > nameEnd {
		return p, false
	}
	p.Name = decl[nameStart : nameEnd+1]

	// Everything before the name, minus pass-by modifiers, is the type
	typeText := strings.TrimSpace(decl[:nameStart])
	for {
		cut := strings.IndexAny(typeText, " \t\r\n")
		if cut < 0 || !paramModifiers[typeText[:cut]] {
			break
		}
		typeText = strings.TrimSpace(typeText[cut:])
	}
	if typeText == "" {
		return p, false
	}
	p.Type = normalizeSpace(typeText)

	return p, true
}
