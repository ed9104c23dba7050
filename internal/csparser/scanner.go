package csparser

import "strings"

// Blank returns a copy of content with comment text and string/char literal
// interiors replaced by spaces, preserving length and line structure. All
// structural matching (brace balancing, declaration regexes) runs against the
// blanked copy so that braces or brackets inside literals and comments can
// never confuse it; actual values are sliced out of the original by index.
//
// Handles // line comments, /* */ block comments, "..." strings with escapes,
// @"..." verbatim strings with doubled quotes, and '...' char literals.
func Blank(content string) string {
	out := []byte(content)

	const (
		stateCode = iota
		stateString
		stateVerbatim
		stateChar
		stateLineComment
		stateBlockComment
	)

	state := stateCode
	for i := 0; i < len(out); i++ {
		ch := out[i]

		switch state {
		case stateLineComment:
			if ch == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}

		case stateBlockComment:
			if ch == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = stateCode
			} else if ch != '\n' {
				out[i] = ' '
			}

		case stateString:
			if ch == '\\' && i+1 < len(out) {
				out[i] = ' '
				out[i+1] = ' '
				i++
			} else if ch == '"' {
				state = stateCode
			} else if ch != '\n' {
				out[i] = ' '
			}

		case stateVerbatim:
			if ch == '"' {
				// "" is an escaped quote inside a verbatim string
				if i+1 < len(out) && out[i+1] == '"' {
					out[i] = ' '
					out[i+1] = ' '
					i++
				} else {
					state = stateCode
				}
			} else if ch != '\n' {
				out[i] = ' '
			}

		case stateChar:
			if ch == '\\' && i+1 < len(out) {
				out[i] = ' '
				out[i+1] = ' '
				i++
			} else if ch == '\'' {
				state = stateCode
			} else if ch != '\n' {
				out[i] = ' '
			}

		default: // stateCode
			switch {
			case ch == '/' && i+1 < len(out) && out[i+1] == '/':
				out[i] = ' '
				state = stateLineComment
			case ch == '/' && i+1 < len(out) && out[i+1] == '*':
				out[i] = ' '
				state = stateBlockComment
			case ch == '@' && i+1 < len(out) && out[i+1] == '"':
				i++
				state = stateVerbatim
			case ch == '$' && i+1 < len(out) && out[i+1] == '"':
				i++
				state = stateString
			case ch == '"':
				state = stateString
			case ch == '\'':
				state = stateChar
			}
		}
	}

	return string(out)
}

// matchForward returns the index just past the delimiter closing the one at
// start, or -1 when the block is unterminated. blanked must be the output of
// Blank so literal contents cannot unbalance the scan.
func matchForward(blanked string, start int, open, close byte) int {
	if start >= len(blanked) || blanked[start] != open {
		return -1
	}
	depth := 0
	for i := start; i < len(blanked); i++ {
		switch blanked[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// matchBackward returns the index of the opener matching the closer at end,
// or -1. Used when collecting attribute lists that precede a declaration.
func matchBackward(blanked string, end int, open, close byte) int {
	if end < 0 || end >= len(blanked) || blanked[end] != close {
		return -1
	}
	depth := 0
	for i := end; i >= 0; i-- {
		switch blanked[i] {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineAt returns the 1-based line number of byte offset pos
func lineAt(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	return strings.Count(content[:pos], "\n") + 1
}

// columnAt returns the 1-based column of byte offset pos
func columnAt(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	nl := strings.LastIndexByte(content[:pos], '\n')
	return pos - nl
}

// skipSpaceForward advances i past whitespace
func skipSpaceForward(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	return i
}

// skipSpaceBackward retreats i past whitespace, returning the index of the
// last non-space byte at or before i, or -1
func skipSpaceBackward(s string, i int) int {
	for i >= 0 && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i--
	}
	return i
}
