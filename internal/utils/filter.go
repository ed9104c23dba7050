package utils

import (
	"regexp"
	"strings"
)

// csharpKeywords is the reserved keyword set, matched case-sensitively:
// the language's keywords are all lowercase and contextual keywords (get,
// set, where, when, add, remove, yield, ...) stay legal as identifiers, so
// conventional action names like Get, Add or Delete must pass through. It
// blocks depth-0 statement constructs like `if (...)` in malformed bodies
// from surfacing as phantom methods.
var csharpKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true,
	"break": true, "byte": true, "case": true, "catch": true,
	"char": true, "checked": true, "class": true, "const": true,
	"continue": true, "decimal": true, "default": true, "delegate": true,
	"do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true,
	"finally": true, "fixed": true, "float": true, "for": true,
	"foreach": true, "goto": true, "if": true, "implicit": true,
	"in": true, "int": true, "interface": true, "internal": true,
	"is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true,
	"out": true, "override": true, "params": true, "private": true,
	"protected": true, "public": true, "readonly": true, "ref": true,
	"return": true, "sbyte": true, "sealed": true, "short": true,
	"sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

// IsReservedWord reports whether name is a C# reserved keyword and can
// therefore never be a user-declared class or method name. Matching is
// case-sensitive: `Get` is an identifier, `get` is only contextual.
func IsReservedWord(name string) bool {
	if name == "" {
		return true
	}
	return csharpKeywords[name]
}

// IsNoise determines if a name should be filtered out of reports: reserved
// words, compiler-generated names and empty strings
func IsNoise(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	if IsReservedWord(trimmed) {
		return true
	}
	// Compiler-generated members carry angle brackets, e.g. <Main>$
	if strings.ContainsAny(trimmed, "<>$") {
		return true
	}
	return false
}

var xmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripXMLTags removes XML doc markup (<summary>, <param .../>, ...) from a
// documentation comment line, keeping the inner text
func StripXMLTags(s string) string {
	return xmlTagRe.ReplaceAllString(s, "")
}
