package synthesizer

import (
	"fmt"
	"net/url"
	"strings"

	"apilens/internal/analyzer"
	"apilens/internal/model"
)

// Options tune sample generation.
type Options struct {
	// Elements generated per collection-typed value
	CollectionCount int

	// Nesting cap for catalog-typed bodies; deeper references collapse to nil
	MaxDepth int
}

// DefaultOptions returns the tuning used when the configuration does not
// override it.
func DefaultOptions() Options {
	return Options{CollectionCount: 1, MaxDepth: 8}
}

// Synthesizer turns endpoint descriptors into ready-to-send sample requests.
// It reads the type catalog but never mutates it; safe for concurrent use.
type Synthesizer struct {
	catalog *model.TypeCatalog
	opts    Options
}

func New(catalog *model.TypeCatalog, opts Options) *Synthesizer {
	if catalog == nil {
		catalog = model.NewTypeCatalog()
	}
	if opts.CollectionCount < 1 {
		opts.CollectionCount = 1
	}
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 1
	}
	return &Synthesizer{catalog: catalog, opts: opts}
}

// BuildRequest synthesizes a concrete request for the endpoint. A nil
// environment yields the substituted route template as the URL; a non-nil
// environment must carry an absolute base URL. Synthesis never fails on
// unresolvable types; those fall back to placeholders and are reported in
// the returned warnings.
func (s *Synthesizer) BuildRequest(ep *model.EndpointDescriptor, env *model.Environment) (*model.GeneratedRequest, []model.Warning, error) {
	req := &model.GeneratedRequest{
		Method:  string(ep.HTTPMethod),
		Headers: map[string]string{},
		Query:   map[string]string{},
	}

	if env != nil {
		if err := validateBaseURL(env.BaseURL); err != nil {
			return nil, nil, fmt.Errorf("environment %q: %w", env.Name, err)
		}
		for k, v := range env.Headers {
			req.Headers[k] = v
		}
	}

	var warns []model.Warning
	path := ep.RouteTemplate
	for _, p := range ep.Parameters {
		switch p.Source {
		case model.SourcePath:
			value := s.scalarValue(p.Name, p.DeclaredType, &warns)
			path = substituteToken(path, p.Name, value)

		case model.SourceQuery:
			req.Query[p.Name] = s.scalarValue(p.Name, p.DeclaredType, &warns)

		case model.SourceHeader:
			name := p.HeaderName
			if name == "" {
				name = p.Name
			}
			req.Headers[name] = s.scalarValue(p.Name, p.DeclaredType, &warns)

		case model.SourceBody:
			req.Body = s.synthesize(p.DeclaredType, p.Name, 0, map[string]bool{}, &warns)

		case model.SourceForm:
			req.FormFields = append(req.FormFields, s.formField(p, &warns))
		}
	}

	for i := range warns {
		if warns[i].Line == 0 {
			warns[i].Line = ep.Location.Line
		}
	}

	req.URL = joinURL(env, path)
	return req, warns, nil
}

// Synthesize produces a sample value for a declared type: catalog types
// become maps, collections become a short slice, everything else resolves
// through the name and type heuristics.
func (s *Synthesizer) Synthesize(declaredType, name string) any {
	return s.synthesize(declaredType, name, 0, map[string]bool{}, nil)
}

func (s *Synthesizer) synthesize(declaredType, name string, depth int, seen map[string]bool, warns *[]model.Warning) any {
	unwrapped := analyzer.Unwrap(declaredType)

	if analyzer.IsCollection(unwrapped) {
		elem := analyzer.ElementType(unwrapped)
		out := make([]any, 0, s.opts.CollectionCount)
		for i := 0; i < s.opts.CollectionCount; i++ {
			out = append(out, s.synthesize(elem, name, depth+1, seen, warns))
		}
		return out
	}

	bare := analyzer.BareName(declaredType)

	if td := s.catalog.Lookup(bare); td != nil {
		// Self and mutual references collapse to nil instead of recursing
		if seen[td.Name] || depth >= s.opts.MaxDepth {
			return nil
		}
		seen[td.Name] = true
		obj := make(map[string]any, len(td.Properties))
		for _, prop := range td.Properties {
			obj[prop.Name] = s.synthesize(prop.Type, prop.Name, depth+1, seen, warns)
		}
		delete(seen, td.Name)
		return obj
	}

	// A named type missing from the catalog gets an opaque placeholder
	// object rather than a scalar guess
	if bare != "" && !analyzer.IsPrimitive(bare) && !strings.EqualFold(bare, "dynamic") {
		if warns != nil {
			*warns = append(*warns, model.NewWarning(model.WarnTypeResolutionMiss, 0,
				"type %s not found in catalog, synthesizing placeholder object", bare))
		}
		return map[string]any{}
	}

	if v, ok := valueForName(name, declaredType); ok {
		return v
	}
	return valueForType(strings.ToLower(bare))
}

// scalarValue renders a synthesized value as a query/path/header string.
func (s *Synthesizer) scalarValue(name, declaredType string, warns *[]model.Warning) string {
	v := s.synthesize(declaredType, name, 0, map[string]bool{}, warns)
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case map[string]any:
		// An object landed in a slot that only carries scalars
		if warns != nil {
			*warns = append(*warns, model.NewWarning(model.WarnSynthesisAmbiguity, 0,
				"parameter %s (%s) has no scalar representation, using generic fallback", name, declaredType))
		}
		return "sample"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (s *Synthesizer) formField(p model.ParameterDescriptor, warns *[]model.Warning) model.FormField {
	if p.IsFile {
		return model.FormField{Name: p.Name, Value: model.FileMarker, IsFile: true}
	}
	return model.FormField{Name: p.Name, Value: s.scalarValue(p.Name, p.DeclaredType, warns)}
}

// substituteToken replaces {token} (case-insensitive) with the URL-escaped
// value.
func substituteToken(route, token, value string) string {
	escaped := url.PathEscape(value)
	needle := "{" + strings.ToLower(token) + "}"
	var b strings.Builder
	lower := strings.ToLower(route)
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(route)
			return b.String()
		}
		b.WriteString(route[:i])
		b.WriteString(escaped)
		route = route[i+len(needle):]
		lower = lower[i+len(needle):]
	}
}

func validateBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be absolute", base)
	}
	return nil
}

func joinURL(env *model.Environment, path string) string {
	if env == nil {
		return path
	}
	base := strings.TrimSuffix(env.BaseURL, "/")
	prefix := strings.Trim(env.BasePath, "/")
	if prefix != "" {
		base += "/" + prefix
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}
