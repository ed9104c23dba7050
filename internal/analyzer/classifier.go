package analyzer

import (
	"strings"

	"apilens/internal/csparser"
	"apilens/internal/model"
)

// bodyVerbs are the verbs whose complex-typed parameters default to Body.
// This is the engine's fixed inference table, mirroring the target
// ecosystem's model binding:
//
//	explicit From* attribute        -> attribute source, always
//	name matches a path token       -> Path
//	GET/DELETE/HEAD/OPTIONS         -> Query (any type)
//	POST/PUT/PATCH, catalog type    -> Body
//	POST/PUT/PATCH, primitive       -> Query
//	file-like type                  -> Form, isFile (unless explicit)
var bodyVerbs = map[model.HTTPMethod]bool{
	model.MethodPost:  true,
	model.MethodPut:   true,
	model.MethodPatch: true,
}

// ClassifyParameters assigns each raw parameter its binding source and
// builds the ordered ParameterDescriptor list for one endpoint.
func ClassifyParameters(params []csparser.Parameter, verb model.HTTPMethod, pathTokens []string, catalog *model.TypeCatalog) []model.ParameterDescriptor {
	tokenSet := make(map[string]bool, len(pathTokens))
	for _, t := range pathTokens {
		tokenSet[strings.ToLower(t)] = true
	}

	var out []model.ParameterDescriptor
	for _, p := range params {
		if isInjected(p) {
			continue
		}
		out = append(out, classifyOne(p, verb, tokenSet, catalog))
	}
	return out
}

func classifyOne(p csparser.Parameter, verb model.HTTPMethod, tokens map[string]bool, catalog *model.TypeCatalog) model.ParameterDescriptor {
	desc := model.ParameterDescriptor{
		Name:         p.Name,
		DeclaredType: p.Type,
		DefaultValue: p.DefaultValue,
		Required:     p.DefaultValue == "" && !strings.HasSuffix(p.Type, "?"),
		IsCollection: IsCollection(Unwrap(p.Type)),
		IsFile:       IsFileType(BareName(p.Type)) || IsFileType(p.Type),
	}

	// Step 1: explicit attribute evidence wins outright
	explicit := false
	for _, attr := range p.Attributes {
		if source, ok := csparser.BindingFor(attr.Name); ok {
			desc.Source = source
			explicit = true
			if source == model.SourceHeader {
				desc.HeaderName = attr.Named["Name"]
				if desc.HeaderName == "" {
					desc.HeaderName = attr.Arg
				}
			}
			break
		}
	}

	if !explicit {
		switch {
		// Step 2: positional match against a path token
		case tokens[strings.ToLower(p.Name)]:
			desc.Source = model.SourcePath

		// Step 3: verb/type inference per the rule table above
		case bodyVerbs[verb] && ResolveType(catalog, p.Type) != nil:
			desc.Source = model.SourceBody
		default:
			desc.Source = model.SourceQuery
		}
	}

	// Step 4: file-like types are form data regardless of inference
	if desc.IsFile && !explicit {
		desc.Source = model.SourceForm
	}

	return desc
}

// isInjected filters parameters the framework supplies itself: services
// ([FromServices]) and cancellation tokens never appear in a request.
func isInjected(p csparser.Parameter) bool {
	for _, attr := range p.Attributes {
		if attr.Name == "FromServices" {
			return true
		}
	}
	bare := BareName(p.Type)
	return bare == "CancellationToken" || bare == "HttpContext" ||
		bare == "HttpRequest" || bare == "HttpResponse"
}
