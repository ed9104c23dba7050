package model

import (
	"fmt"
	"strings"
)

// HTTPMethod is the verb declared by an Http* attribute
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodPatch   HTTPMethod = "PATCH"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// BindingSource is the channel a parameter value is taken from at request time
type BindingSource string

const (
	SourcePath   BindingSource = "Path"
	SourceQuery  BindingSource = "Query"
	SourceHeader BindingSource = "Header"
	SourceBody   BindingSource = "Body"
	SourceForm   BindingSource = "Form"
)

// SourceLocation points at the attribute or signature that produced a descriptor
type SourceLocation struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
}

// ControllerDescriptor represents one recognized controller class block.
// Immutable after creation; a new parse pass rebuilds the whole set.
type ControllerDescriptor struct {
	// Class name, e.g. "UsersController"
	Name string `json:"name"`

	// Raw route template from the class-level [Route] attribute.
	// May still contain the [controller] placeholder.
	BaseRoute string `json:"baseRoute,omitempty"`

	// Enclosing namespace, empty when the file declares none
	Namespace string `json:"namespace,omitempty"`

	// Location of the class declaration
	Location SourceLocation `json:"location"`
}

// ShortName returns the controller name with the conventional suffix stripped
// and lower-cased, the value substituted for the [controller] placeholder.
// "UsersController" -> "users"
func (c *ControllerDescriptor) ShortName() string {
	name := strings.TrimSuffix(c.Name, "Controller")
	return strings.ToLower(name)
}

// EndpointDescriptor is the primary unit consumed by every downstream
// collaborator: one per method carrying an Http* attribute.
type EndpointDescriptor struct {
	// HTTP verb (GET, POST, ...)
	HTTPMethod HTTPMethod `json:"method"`

	// Fully composed route, normalized with a leading slash and with
	// route constraints stripped. Never contains [controller].
	RouteTemplate string `json:"route"`

	// Parameters in declaration order
	Parameters []ParameterDescriptor `json:"parameters,omitempty"`

	// Raw textual return type, generics preserved (e.g. "Task<ActionResult<UserDto>>")
	ReturnType string `json:"returnType,omitempty"`

	// Method name in the controller
	MethodName string `json:"methodName"`

	// Controller class name
	ControllerName string `json:"controllerName"`

	// Summary from the /// doc comment, if any
	Summary string `json:"summary,omitempty"`

	// Location of the first Http* attribute (or the signature when absent)
	Location SourceLocation `json:"location"`
}

// ParameterDescriptor describes a single method parameter and its binding
type ParameterDescriptor struct {
	// Parameter name as declared
	Name string `json:"name"`

	// Raw textual type, nullability preserved (e.g. "int?")
	DeclaredType string `json:"type"`

	// Where the value is bound from (Path, Query, Header, Body, Form)
	Source BindingSource `json:"source"`

	// Header name override from [FromHeader(Name = "...")], empty otherwise
	HeaderName string `json:"headerName,omitempty"`

	// False when a default value or nullable marker is present
	Required bool `json:"required"`

	// Default literal from the signature, empty when absent
	DefaultValue string `json:"default,omitempty"`

	// Declared as a list/array/sequence of something
	IsCollection bool `json:"isCollection,omitempty"`

	// Declared as a stream/file-like type (IFormFile, Stream)
	IsFile bool `json:"isFile,omitempty"`
}

// String returns a compact human-readable endpoint signature
func (e *EndpointDescriptor) String() string {
	return fmt.Sprintf("%s %s (%s.%s)", e.HTTPMethod, e.RouteTemplate, e.ControllerName, e.MethodName)
}

// PathParameters returns the parameters bound from the route, in order
func (e *EndpointDescriptor) PathParameters() []ParameterDescriptor {
	return e.parametersBy(SourcePath)
}

// QueryParameters returns the parameters bound from the query string, in order
func (e *EndpointDescriptor) QueryParameters() []ParameterDescriptor {
	return e.parametersBy(SourceQuery)
}

func (e *EndpointDescriptor) parametersBy(source BindingSource) []ParameterDescriptor {
	var out []ParameterDescriptor
	for _, p := range e.Parameters {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out
}

// HasBody reports whether any parameter binds from the request body
func (e *EndpointDescriptor) HasBody() bool {
	return len(e.parametersBy(SourceBody)) > 0
}

// HasForm reports whether any parameter binds from form fields
func (e *EndpointDescriptor) HasForm() bool {
	return len(e.parametersBy(SourceForm)) > 0
}

// Summary represents document- or directory-level statistics for reports
type Summary struct {
	TotalDocuments   int `json:"totalDocuments"`
	TotalControllers int `json:"totalControllers"`
	TotalEndpoints   int `json:"totalEndpoints"`
	TotalTypes       int `json:"totalTypes"`
	TotalWarnings    int `json:"totalWarnings"`

	// Endpoint count per HTTP verb
	MethodCounts map[HTTPMethod]int `json:"methodCounts"`

	AnalysisDate string `json:"analysisDate"`
}

// NewSummary creates an empty Summary
func NewSummary() *Summary {
	return &Summary{
		MethodCounts: make(map[HTTPMethod]int),
	}
}

// AddEndpoint folds one endpoint into the counters
func (s *Summary) AddEndpoint(ep EndpointDescriptor) {
	s.TotalEndpoints++
	s.MethodCounts[ep.HTTPMethod]++
}
