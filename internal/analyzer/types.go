package analyzer

import "strings"

// primitiveTypes are the known scalar types of the source dialect, keyed in
// lower case. A parameter of one of these never resolves against the catalog.
var primitiveTypes = map[string]bool{
	"string": true, "char": true, "bool": true, "boolean": true,
	"int": true, "uint": true, "long": true, "ulong": true,
	"short": true, "ushort": true, "byte": true, "sbyte": true,
	"float": true, "double": true, "decimal": true,
	"int16": true, "int32": true, "int64": true,
	"uint16": true, "uint32": true, "uint64": true,
	"single": true, "object": true,
	"datetime": true, "datetimeoffset": true, "dateonly": true,
	"timeonly": true, "timespan": true, "guid": true, "uri": true,
}

// fileTypes are stream/file-like parameter types that force Form binding
var fileTypes = map[string]bool{
	"iformfile": true, "iformfilecollection": true,
	"stream": true, "filestream": true, "memorystream": true,
	"httppostedfilebase": true,
}

// collectionPrefixes are generic sequence wrappers, matched case-sensitively
// against the declared type before unwrapping
var collectionPrefixes = []string{
	"List<", "IList<", "IEnumerable<", "ICollection<", "IReadOnlyList<",
	"IReadOnlyCollection<", "HashSet<", "ISet<", "Collection<", "IQueryable<",
	"IAsyncEnumerable<",
}

// wrapperPrefixes are transparent wrappers unwrapped before catalog lookup
var wrapperPrefixes = []string{
	"Task<", "ValueTask<", "ActionResult<", "Nullable<", "Ok<",
}

// IsPrimitive reports whether the declared type is a known scalar.
// A trailing nullable marker does not change the answer.
func IsPrimitive(declared string) bool {
	name := strings.TrimSuffix(strings.TrimSpace(declared), "?")
	return primitiveTypes[strings.ToLower(name)]
}

// IsFileType reports whether the declared type is stream/file-like
func IsFileType(declared string) bool {
	name := strings.TrimSuffix(strings.TrimSpace(declared), "?")
	return fileTypes[strings.ToLower(name)]
}

// IsCollection reports whether the declared type is a list/array/sequence
func IsCollection(declared string) bool {
	t := strings.TrimSuffix(strings.TrimSpace(declared), "?")
	if strings.HasSuffix(t, "[]") {
		return true
	}
	for _, p := range collectionPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// ElementType returns the element type of a collection declaration, or the
// input unchanged when it is not a collection
func ElementType(declared string) string {
	t := strings.TrimSuffix(strings.TrimSpace(declared), "?")
	if strings.HasSuffix(t, "[]") {
		return strings.TrimSuffix(t, "[]")
	}
	for _, p := range collectionPrefixes {
		if strings.HasPrefix(t, p) && strings.HasSuffix(t, ">") {
			return strings.TrimSpace(t[len(p) : len(t)-1])
		}
	}
	return t
}

// Unwrap peels transparent wrappers (Task<...>, ActionResult<...>,
// Nullable<...>) until a bare type name remains. Collections are left
// intact; callers that care use IsCollection/ElementType first.
func Unwrap(declared string) string {
	t := strings.TrimSpace(declared)
	for {
		t = strings.TrimSuffix(t, "?")
		peeled := false
		for _, p := range wrapperPrefixes {
			if strings.HasPrefix(t, p) && strings.HasSuffix(t, ">") {
				t = strings.TrimSpace(t[len(p) : len(t)-1])
				peeled = true
				break
			}
		}
		if !peeled {
			return t
		}
	}
}

// BareName strips nullability, wrappers and one collection layer, yielding
// the name used for catalog lookup. "List<OrderLine>?" -> "OrderLine".
func BareName(declared string) string {
	t := Unwrap(declared)
	if IsCollection(t) {
		t = ElementType(t)
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "?")
}
