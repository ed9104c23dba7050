package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"apilens/internal/analyzer"
	"apilens/internal/config"
	"apilens/internal/model"
)

// Format selects the serialization of the generated document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// OpenAPI Root Object
type OpenAPI struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Servers []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type Server struct {
	URL string `json:"url" yaml:"url"`
}

type PathItem map[string]Operation // Key is method: "get", "post", etc.

type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"` // "query", "path", "header"
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Schema   any    `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Content  map[string]MediaType `json:"content" yaml:"content"`
	Required bool                 `json:"required,omitempty" yaml:"required,omitempty"`
}

type MediaType struct {
	Schema any `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// OpenAPIExporter renders the endpoint model as an OpenAPI 3.0 document
type OpenAPIExporter struct {
	format Format
}

func NewOpenAPIExporter(format Format) *OpenAPIExporter {
	if format == "" {
		format = FormatJSON
	}
	return &OpenAPIExporter{format: format}
}

func (b *OpenAPIExporter) Export(report *model.Report, cfg *config.Config) error {
	spec := OpenAPI{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:   cfg.Output.FileName,
			Version: "1.0.0",
		},
		Paths: make(map[string]PathItem),
	}

	if report.Environment != nil {
		url := strings.TrimSuffix(report.Environment.BaseURL, "/")
		if p := strings.Trim(report.Environment.BasePath, "/"); p != "" {
			url += "/" + p
		}
		spec.Servers = []Server{{URL: url}}
	}

	for i := range report.Endpoints {
		b.processEndpoint(&spec, &report.Endpoints[i], report.Catalog)
	}

	return b.write(&spec, cfg)
}

func (b *OpenAPIExporter) write(spec *OpenAPI, cfg *config.Config) error {
	if b.format == FormatYAML {
		data, err := yaml.Marshal(spec)
		if err != nil {
			return fmt.Errorf("failed to marshal openapi yaml: %w", err)
		}
		return os.WriteFile(cfg.GetOutputPath("openapi.yaml"), data, 0644)
	}

	file, err := os.Create(cfg.GetOutputPath("openapi.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}

func (b *OpenAPIExporter) processEndpoint(spec *OpenAPI, ep *model.EndpointDescriptor, catalog *model.TypeCatalog) {
	fullPath := ep.RouteTemplate
	if fullPath == "" {
		return
	}
	if !strings.HasPrefix(fullPath, "/") {
		fullPath = "/" + fullPath
	}

	method := strings.ToLower(string(ep.HTTPMethod))

	if _, ok := spec.Paths[fullPath]; !ok {
		spec.Paths[fullPath] = make(PathItem)
	}

	op := Operation{
		Summary:     ep.Summary,
		OperationID: ep.ControllerName + "_" + ep.MethodName,
		Tags:        []string{strings.TrimSuffix(ep.ControllerName, "Controller")},
		Responses:   make(map[string]Response),
	}
	if op.Summary == "" {
		op.Summary = ep.MethodName
	}

	for _, p := range ep.Parameters {
		switch p.Source {
		case model.SourceBody:
			op.RequestBody = &RequestBody{
				Content: map[string]MediaType{
					"application/json": {Schema: b.buildSchema(p.DeclaredType, catalog, map[string]bool{})},
				},
				Required: p.Required,
			}

		case model.SourceForm:
			b.addFormField(&op, p, catalog)

		default:
			name := p.Name
			if p.Source == model.SourceHeader && p.HeaderName != "" {
				name = p.HeaderName
			}
			op.Parameters = append(op.Parameters, Parameter{
				Name:     name,
				In:       strings.ToLower(string(p.Source)),
				Required: p.Required || p.Source == model.SourcePath,
				Schema:   b.buildSchema(p.DeclaredType, catalog, map[string]bool{}),
			})
		}
	}

	op.Responses["200"] = b.buildResponse(ep, catalog)

	spec.Paths[fullPath][method] = op
}

// addFormField folds one form-bound parameter into the multipart request body
func (b *OpenAPIExporter) addFormField(op *Operation, p model.ParameterDescriptor, catalog *model.TypeCatalog) {
	const mediaType = "multipart/form-data"

	if op.RequestBody == nil {
		op.RequestBody = &RequestBody{
			Content: map[string]MediaType{
				mediaType: {Schema: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				}},
			},
		}
	}

	schema := op.RequestBody.Content[mediaType].Schema.(map[string]any)
	props := schema["properties"].(map[string]any)

	if p.IsFile {
		props[p.Name] = map[string]any{"type": "string", "format": "binary"}
		return
	}
	props[p.Name] = b.buildSchema(p.DeclaredType, catalog, map[string]bool{})
}

func (b *OpenAPIExporter) buildResponse(ep *model.EndpointDescriptor, catalog *model.TypeCatalog) Response {
	resp := Response{Description: "Successful response"}

	payload := analyzer.Unwrap(ep.ReturnType)
	if payload == "" || strings.EqualFold(payload, "void") ||
		strings.EqualFold(payload, "IActionResult") || strings.EqualFold(payload, "ActionResult") {
		return resp
	}

	resp.Content = map[string]MediaType{
		"application/json": {Schema: b.buildSchema(payload, catalog, map[string]bool{})},
	}
	return resp
}

// buildSchema maps a declared type to a JSON Schema fragment, expanding
// catalog types into object schemas. Self references degrade to a bare
// object to keep the document finite.
func (b *OpenAPIExporter) buildSchema(declaredType string, catalog *model.TypeCatalog, seen map[string]bool) any {
	unwrapped := analyzer.Unwrap(declaredType)

	if analyzer.IsCollection(unwrapped) {
		return map[string]any{
			"type":  "array",
			"items": b.buildSchema(analyzer.ElementType(unwrapped), catalog, seen),
		}
	}

	bare := analyzer.BareName(declaredType)

	if catalog != nil && !seen[bare] {
		if td := catalog.Lookup(bare); td != nil {
			seen[bare] = true
			props := make(map[string]any, len(td.Properties))
			for _, prop := range td.Properties {
				props[prop.Name] = b.buildSchema(prop.Type, catalog, seen)
			}
			delete(seen, bare)
			return map[string]any{"type": "object", "properties": props}
		}
	}

	return scalarSchema(bare)
}

// scalarSchema maps a primitive type name to its JSON Schema type/format
func scalarSchema(bare string) map[string]any {
	switch strings.ToLower(bare) {
	case "int", "short", "byte", "sbyte", "uint", "ushort", "int16", "int32":
		return map[string]any{"type": "integer", "format": "int32"}
	case "long", "ulong", "int64":
		return map[string]any{"type": "integer", "format": "int64"}
	case "decimal", "double", "float", "single":
		return map[string]any{"type": "number"}
	case "bool", "boolean":
		return map[string]any{"type": "boolean"}
	case "datetime", "datetimeoffset":
		return map[string]any{"type": "string", "format": "date-time"}
	case "dateonly":
		return map[string]any{"type": "string", "format": "date"}
	case "guid":
		return map[string]any{"type": "string", "format": "uuid"}
	case "uri":
		return map[string]any{"type": "string", "format": "uri"}
	default:
		return map[string]any{"type": "string"}
	}
}
