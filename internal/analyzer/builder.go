package analyzer

import (
	"strings"

	"apilens/internal/csparser"
	"apilens/internal/logger"
	"apilens/internal/model"
)

// DocumentResult is the immutable output of one parse pass over one
// document. A new document version discards and rebuilds the whole result
// rather than patching it in place.
type DocumentResult struct {
	Controllers []model.ControllerDescriptor
	Endpoints   []model.EndpointDescriptor
	Catalog     *model.TypeCatalog
	Warnings    []model.Warning
}

// ParseDocument converts raw controller source text into the endpoint model.
// Pure and synchronous: no I/O, no shared state, best-effort on malformed
// input with warnings attached to the result instead of errors thrown.
func ParseDocument(content string) *DocumentResult {
	return ParseDocumentWithTypes(content, nil)
}

// ParseDocumentWithTypes parses like ParseDocument but lets the classifier
// resolve body types against declarations from other documents. Types
// declared in this document shadow shared ones of the same name.
func ParseDocumentWithTypes(content string, shared *model.TypeCatalog) *DocumentResult {
	result := &DocumentResult{}

	blocks, warnings := csparser.SegmentDocument(content)
	result.Warnings = warnings

	// The catalog spans the whole document and is shared by the classifier
	// and the synthesizer
	result.Catalog = BuildCatalog(blocks)

	lookup := result.Catalog
	if shared != nil {
		lookup = model.NewTypeCatalog()
		for _, name := range result.Catalog.Names() {
			lookup.Add(result.Catalog.Lookup(name))
		}
		for _, name := range shared.Names() {
			lookup.Add(shared.Lookup(name))
		}
	}

	for i := range blocks {
		block := &blocks[i]
		classAttrs := csparser.ParseAttributes(block.AttributeText)
		if !isController(block, classAttrs) {
			continue
		}

		ctrl := model.ControllerDescriptor{
			Name:      block.Name,
			Namespace: block.Namespace,
			BaseRoute: routeTemplateOf(classAttrs),
			Location:  model.SourceLocation{Line: block.Line, Column: block.Column},
		}
		result.Controllers = append(result.Controllers, ctrl)

		methods, methodWarnings := csparser.SegmentMethods(block.Body, block.Name, block.BodyLine)
		result.Warnings = append(result.Warnings, methodWarnings...)

		for j := range methods {
			result.buildEndpoints(&ctrl, &methods[j], lookup)
		}
	}

	logger.Debug("parsed document: %d controllers, %d endpoints, %d types, %d warnings",
		len(result.Controllers), len(result.Endpoints), result.Catalog.Len(), len(result.Warnings))

	return result
}

// buildEndpoints emits one endpoint per Http* attribute on the method.
// A method with zero Http* attributes is not an endpoint at all.
func (r *DocumentResult) buildEndpoints(ctrl *model.ControllerDescriptor, m *csparser.MethodBlock, catalog *model.TypeCatalog) {
	attrs := csparser.ParseAttributes(m.AttributeText)

	// Method-level [Route] complements a bare verb attribute
	methodRoute := routeTemplateOf(attrs)

	for _, attr := range attrs {
		verb, ok := csparser.HTTPMethodFor(attr.Name)
		if !ok {
			continue
		}

		template := attr.Arg
		if template == "" {
			template = methodRoute
		}
		route := ComposeRoute(ctrl, template)
		tokens := RouteTokens(route)

		params := csparser.ParseParameters(m.RawParams)
		descriptors := ClassifyParameters(params, verb, tokens, catalog)

		ep := model.EndpointDescriptor{
			HTTPMethod:     verb,
			RouteTemplate:  route,
			Parameters:     descriptors,
			ReturnType:     m.ReturnType,
			MethodName:     m.Name,
			ControllerName: ctrl.Name,
			Summary:        m.DocComment,
			Location:       model.SourceLocation{Line: m.Line, Column: m.Column},
		}

		r.Warnings = append(r.Warnings, checkRouteBinding(&ep, tokens)...)
		r.Endpoints = append(r.Endpoints, ep)
	}
}

// checkRouteBinding verifies the path-token/parameter bijection: every
// {token} needs exactly one case-insensitive Path parameter and vice versa.
// Mismatches are warnings, never grounds for dropping the endpoint.
func checkRouteBinding(ep *model.EndpointDescriptor, tokens []string) []model.Warning {
	var warnings []model.Warning

	matched := make(map[string]bool)
	for _, p := range ep.Parameters {
		if p.Source != model.SourcePath {
			continue
		}
		found := false
		for _, t := range tokens {
			if strings.EqualFold(t, p.Name) {
				found = true
				matched[strings.ToLower(t)] = true
				break
			}
		}
		if !found {
			warnings = append(warnings, model.NewWarning(model.WarnRouteMismatch, ep.Location.Line,
				"parameter %q is bound from the route but %s has no matching token", p.Name, ep.RouteTemplate))
		}
	}

	for _, t := range tokens {
		if !matched[strings.ToLower(t)] {
			warnings = append(warnings, model.NewWarning(model.WarnRouteMismatch, ep.Location.Line,
				"route token {%s} in %s has no matching parameter", t, ep.RouteTemplate))
		}
	}

	return warnings
}

// isController decides whether a class block is a controller: attribute
// evidence first ([ApiController] or a class-level [Route]), then the
// conventional name suffix.
func isController(block *csparser.ClassBlock, attrs []csparser.Attribute) bool {
	if block.Kind != "class" {
		return false
	}
	for _, a := range attrs {
		if a.Name == "ApiController" || a.Name == "Route" {
			return true
		}
	}
	return strings.HasSuffix(block.Name, "Controller")
}

// routeTemplateOf returns the first [Route] argument in an attribute list
func routeTemplateOf(attrs []csparser.Attribute) string {
	for _, a := range attrs {
		if a.Name == "Route" {
			if a.Arg != "" {
				return a.Arg
			}
			return a.Named["template"]
		}
	}
	return ""
}
