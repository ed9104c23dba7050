package csparser

import (
	"regexp"
	"strings"

	"apilens/internal/model"
	"apilens/internal/utils"
)

// ClassBlock is one class/record declaration with its surrounding evidence:
// the attribute list and doc comment above it and the raw body between its
// braces. Controllers and DTOs both come out of the same segmentation pass;
// the analyzer decides which is which.
type ClassBlock struct {
	Name      string
	Kind      string // "class", "record" or "struct"
	Namespace string

	// Raw attribute text preceding the declaration, possibly spanning lines
	AttributeText string

	// Joined /// summary lines above the attributes, cleaned of markers
	DocComment string

	// Positional-record parameter list, e.g. "string Name, string Email"
	// for `record CreateUserDto(string Name, string Email);`
	RecordParams string

	// Raw text between the class braces, exclusive
	Body string

	// 1-based position of the declaration keyword
	Line   int
	Column int

	// 1-based line of the first body character, for method line offsets
	BodyLine int
}

// MethodBlock is one method declaration inside a class body
type MethodBlock struct {
	AttributeText string
	DocComment    string
	ReturnType    string
	Name          string

	// Raw parameter list between the signature parens, exclusive
	RawParams string

	// 1-based line of the first attribute, or of the signature when the
	// method carries no attributes
	Line   int
	Column int

	SignatureLine int
}

var (
	classDeclRe = regexp.MustCompile(`(?:\b(?:public|internal|protected|private|sealed|abstract|static|partial)\s+)*\b(class|record|struct)\s+([A-Za-z_]\w*)`)
	namespaceRe = regexp.MustCompile(`\bnamespace\s+([\w.]+)`)
)

// SegmentDocument splits full document text into class blocks. Unterminated
// blocks produce a StructuralParseWarning and are recovered as far as
// possible rather than aborting the pass.
func SegmentDocument(content string) ([]ClassBlock, []model.Warning) {
	blanked := Blank(content)

	var warnings []model.Warning
	var blocks []ClassBlock

	namespace := ""
	if m := namespaceRe.FindStringSubmatch(blanked); m != nil {
		namespace = m[1]
	}

	for _, idx := range classDeclRe.FindAllStringSubmatchIndex(blanked, -1) {
		declStart := idx[0]
		kind := blanked[idx[2]:idx[3]]
		name := blanked[idx[4]:idx[5]]
		pos := idx[5] // just past the type name

		if utils.IsReservedWord(name) {
			continue
		}

		block := ClassBlock{
			Name:      name,
			Kind:      kind,
			Namespace: namespace,
			Line:      lineAt(content, declStart),
			Column:    columnAt(content, declStart),
		}

		// Generic parameter list on the type name, skipped structurally
		pos = skipSpaceForward(blanked, pos)
		if pos < len(blanked) && blanked[pos] == '<' {
			if end := matchAngle(blanked, pos); end > 0 {
				pos = end
			}
		}

		// Positional-record parameter list
		pos = skipSpaceForward(blanked, pos)
		if pos < len(blanked) && blanked[pos] == '(' {
			end := matchForward(blanked, pos, '(', ')')
			if end < 0 {
				warnings = append(warnings, model.NewWarning(model.WarnStructuralParse, block.Line,
					"unterminated parameter list on %s %s, block skipped", kind, name))
				continue
			}
			block.RecordParams = strings.TrimSpace(content[pos+1 : end-1])
			pos = end
		}

		// Skip base-type list and generic constraints up to the body
		bodyOpen := -1
		terminated := false
		for i := pos; i < len(blanked); i++ {
			if blanked[i] == '{' {
				bodyOpen = i
				break
			}
			if blanked[i] == ';' {
				terminated = true // bodyless record declaration
				break
			}
		}

		if bodyOpen >= 0 {
			bodyEnd := matchForward(blanked, bodyOpen, '{', '}')
			if bodyEnd < 0 {
				// Keep going to end of document so later methods are still seen
				warnings = append(warnings, model.NewWarning(model.WarnStructuralParse, block.Line,
					"unbalanced braces in %s %s, parsing to end of document", kind, name))
				block.Body = content[bodyOpen+1:]
			} else {
				block.Body = content[bodyOpen+1 : bodyEnd-1]
			}
			block.BodyLine = lineAt(content, bodyOpen+1)
		} else if !terminated {
			warnings = append(warnings, model.NewWarning(model.WarnStructuralParse, block.Line,
				"no body found for %s %s, block skipped", kind, name))
			continue
		}

		attrStart, attrEnd := collectAttributesBackward(blanked, declStart)
		if attrStart >= 0 {
			block.AttributeText = content[attrStart:attrEnd]
			block.DocComment = DocCommentAbove(content, lineAt(content, attrStart))
		} else {
			block.DocComment = DocCommentAbove(content, block.Line)
		}

		blocks = append(blocks, block)
	}

	return blocks, warnings
}

// SegmentMethods splits a class body into method blocks. className is used to
// skip constructors; bodyLine anchors line numbers to the parent document.
func SegmentMethods(classBody, className string, bodyLine int) ([]MethodBlock, []model.Warning) {
	blanked := Blank(classBody)

	var warnings []model.Warning
	var methods []MethodBlock

	depth := 0
	for i := 0; i < len(blanked); i++ {
		switch blanked[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '(':
			if depth != 0 {
				continue
			}
			m, next, ok := scanMethodAt(classBody, blanked, i, className, bodyLine, &warnings)
			if ok {
				methods = append(methods, m)
			}
			if next > i {
				i = next - 1
			}
		}
	}

	return methods, warnings
}

// scanMethodAt inspects a depth-0 open paren and reconstructs the method
// declaration around it. Returns the position to resume scanning from.
func scanMethodAt(body, blanked string, paren int, className string, bodyLine int, warnings *[]model.Warning) (MethodBlock, int, bool) {
	var none MethodBlock

	// Identifier immediately before the paren
	nameEnd := skipSpaceBackward(blanked, paren-1)
	nameStart := nameEnd
	for nameStart >= 0 && isIdentByte(blanked[nameStart]) {
		nameStart--
	}
	nameStart++
	if nameStart > nameEnd {
		return none, paren + 1, false
	}
	name := body[nameStart : nameEnd+1]

	if utils.IsReservedWord(name) || name == className {
		return none, paren + 1, false
	}

	// A declaration's name is preceded by a type or modifier token, never by
	// an operator — rejects calls and field initializers like `= new X()`.
	prev := skipSpaceBackward(blanked, nameStart-1)
	if prev < 0 {
		return none, paren + 1, false
	}
	pc := blanked[prev]
	if !isIdentByte(pc) && pc != '>' && pc != ']' && pc != '?' {
		return none, paren + 1, false
	}

	closeParen := matchForward(blanked, paren, '(', ')')
	if closeParen < 0 {
		*warnings = append(*warnings, model.NewWarning(model.WarnStructuralParse,
			bodyLine+lineAt(body, paren)-1, "unterminated parameter list on %s, method skipped", name))
		return none, len(blanked), false
	}

	// The signature must be followed by a body, an expression body, or a
	// bare semicolon (abstract/interface members)
	after := skipSpaceForward(blanked, closeParen)
	resume := closeParen
	switch {
	case after < len(blanked) && blanked[after] == '{':
		end := matchForward(blanked, after, '{', '}')
		if end < 0 {
			*warnings = append(*warnings, model.NewWarning(model.WarnStructuralParse,
				bodyLine+lineAt(body, paren)-1, "unbalanced body on method %s", name))
			end = len(blanked)
		}
		resume = end
	case after+1 < len(blanked) && blanked[after] == '=' && blanked[after+1] == '>':
		end := strings.IndexByte(blanked[after:], ';')
		if end < 0 {
			resume = len(blanked)
		} else {
			resume = after + end + 1
		}
	case after < len(blanked) && blanked[after] == ';':
		resume = after + 1
	default:
		return none, paren + 1, false
	}

	// Everything between the previous statement boundary and the name is
	// attributes, modifiers and the return type
	segStart := 0
	for i := nameStart - 1; i >= 0; i-- {
		if blanked[i] == ';' || blanked[i] == '{' || blanked[i] == '}' {
			segStart = i + 1
			break
		}
	}

	attrStart, attrEnd := -1, segStart
	cursor := skipSpaceForward(blanked, segStart)
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

	returnType := strings.TrimSpace(body[cursor:nameStart])
	returnType = stripModifiers(returnType)
	if returnType == "" {
		// No return type at all means this is not a method declaration
		return none, resume, false
	}
	if strings.ContainsRune(returnType, '=') {
		// An '=' before the name is a field initializer or an
		// expression-bodied property, not a method
		return none, resume, false
	}

	block := MethodBlock{
		Name:          name,
		ReturnType:    normalizeSpace(returnType),
		RawParams:     strings.TrimSpace(body[paren+1 : closeParen-1]),
		SignatureLine: bodyLine + lineAt(body, nameStart) - 1,
		Column:        columnAt(body, nameStart),
	}
	block.Line = block.SignatureLine

	if attrStart >= 0 {
		block.AttributeText = body[attrStart:attrEnd]
		block.Line = bodyLine + lineAt(body, attrStart) - 1
		block.Column = columnAt(body, attrStart)
		block.DocComment = DocCommentAbove(body, lineAt(body, attrStart))
	} else {
		block.DocComment = DocCommentAbove(body, lineAt(body, nameStart))
	}

	return block, resume, true
}

// collectAttributesBackward walks backwards from a declaration over the
// contiguous [...] groups above it. Returns start/end offsets into the
// document, or (-1, -1) when no attributes precede it.
func collectAttributesBackward(blanked string, declStart int) (int, int) {
	start, end := -1, -1
	i := skipSpaceBackward(blanked, declStart-1)
	for i >= 0 && blanked[i] == ']' {
		open := matchBackward(blanked, i, '[', ']')
		if open < 0 {
			break
		}
		if end < 0 {
			end = i + 1
		}
		start = open
		i = skipSpaceBackward(blanked, open-1)
	}
	return start, end
}

// DocCommentAbove gathers the /// lines immediately above line (1-based)
// in the text and strips the comment markers and XML doc markup.
func DocCommentAbove(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line-2 < 0 || line-2 >= len(lines) {
		return ""
	}

	var parts []string
	for i := line - 2; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "///") {
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, "///"))
		// XML doc markup carries no synthesis signal
		text = strings.TrimSpace(utils.StripXMLTags(text))
		if text != "" {
			parts = append([]string{text}, parts...)
		}
	}
	return strings.Join(parts, " ")
}

// matchAngle matches a generic parameter list starting at '<'
func matchAngle(blanked string, start int) int {
	depth := 0
	for i := start; i < len(blanked); i++ {
		switch blanked[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i + 1
			}
		case ';', '{':
			return -1
		}
	}
	return -1
}

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "async": true, "virtual": true, "override": true,
	"sealed": true, "abstract": true, "new": true, "extern": true,
	"partial": true, "unsafe": true, "readonly": true,
}

// stripModifiers removes leading access/behavior modifiers, leaving the
// return type text
func stripModifiers(s string) string {
	for {
		s = strings.TrimSpace(s)
		cut := strings.IndexAny(s, " \t\r\n")
		if cut < 0 {
			if modifierWords[s] {
				return ""
			}
			return s
		}
		if !modifierWords[s[:cut]] {
			return s
		}
		s = s[cut:]
	}
}

var spaceRe = regexp.MustCompile(`\s+`)

// normalizeSpace collapses runs of whitespace, flattening multi-line
// generic types onto one line
func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
