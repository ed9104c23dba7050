package analyzer

import (
	"regexp"
	"strings"

	"apilens/internal/csparser"
	"apilens/internal/model"
	"apilens/internal/utils"
)

// propertyRe matches auto-property declarations inside a blanked class body.
// Group 1: declared type, group 2: name, group 3: accessor list. Applied to
// the blanked copy so initializers and comments cannot produce false matches;
// values are sliced from the original by index.
var propertyRe = regexp.MustCompile(`(?m)^[ \t]*(?:public|internal)[ \t]+(?:required[ \t]+)?(?:static[ \t]+)?([\w<>,\[\]?. \t]+?)[ \t]+(\w+)[ \t]*\{([^{}]*)\}`)

// BuildCatalog scans the segmented class blocks of one document and indexes
// every class/record as a potential request-body shape. Controllers are
// indexed too; nothing references them as a body type, so it is harmless.
func BuildCatalog(blocks []csparser.ClassBlock) *model.TypeCatalog {
	catalog := model.NewTypeCatalog()

	for i := range blocks {
		block := &blocks[i]
		if utils.IsNoise(block.Name) {
			continue
		}
		td := &model.TypeDescriptor{Name: block.Name}

		// Positional records declare their shape in the parameter list
		if block.RecordParams != "" {
			for _, p := range csparser.ParseParameters(block.RecordParams) {
				td.Properties = append(td.Properties, model.PropertyDescriptor{
					Name: p.Name,
					Type: p.Type,
				})
			}
		}

		td.Properties = append(td.Properties, scanProperties(block.Body)...)
		catalog.Add(td)
	}

	return catalog
}

// scanProperties collects the settable properties of a class body in
// declaration order. Methods and read-only computed members are skipped.
func scanProperties(body string) []model.PropertyDescriptor {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	blanked := csparser.Blank(body)
	var props []model.PropertyDescriptor

	for _, idx := range propertyRe.FindAllStringSubmatchIndex(blanked, -1) {
		accessors := blanked[idx[6]:idx[7]]
		if !hasSetter(accessors) {
			continue
		}

		typeText := strings.Join(strings.Fields(body[idx[2]:idx[3]]), " ")
		name := body[idx[4]:idx[5]]

		// Nested braces in the accessor group mean a full property body;
		// the regex only sees flat `{ get; set; }` groups, which is the
		// conventional DTO shape this catalog targets
		props = append(props, model.PropertyDescriptor{
			Name:    name,
			Type:    typeText,
			Comment: csparser.DocCommentAbove(body, lineAt(body, idx[0])),
		})
	}

	return props
}

// hasSetter reports whether a blanked accessor list contains a set or init
// accessor
func hasSetter(accessors string) bool {
	for _, word := range strings.FieldsFunc(accessors, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	}) {
		if word == "set" || word == "init" {
			return true
		}
	}
	return false
}

// ResolveType looks up the catalog entry for a declared parameter or
// property type, unwrapping generic and collection wrappers textually first.
// Returns nil when the bare name is a primitive or unknown; unknown
// non-primitives are the caller's TypeResolutionMiss case.
func ResolveType(catalog *model.TypeCatalog, declared string) *model.TypeDescriptor {
	if catalog == nil {
		return nil
	}
	bare := BareName(declared)
	if bare == "" || IsPrimitive(bare) {
		return nil
	}
	return catalog.Lookup(bare)
}

func lineAt(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	return strings.Count(content[:pos], "\n") + 1
}
