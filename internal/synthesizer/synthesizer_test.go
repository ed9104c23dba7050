package synthesizer

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"apilens/internal/model"
)

func testCatalog() *model.TypeCatalog {
	catalog := model.NewTypeCatalog()
	catalog.Add(&model.TypeDescriptor{
		Name: "CreateUserRequest",
		Properties: []model.PropertyDescriptor{
			{Name: "Email", Type: "string"},
			{Name: "DisplayName", Type: "string"},
			{Name: "Age", Type: "int"},
		},
	})
	catalog.Add(&model.TypeDescriptor{
		Name: "OrderDto",
		Properties: []model.PropertyDescriptor{
			{Name: "OrderId", Type: "Guid"},
			{Name: "Lines", Type: "List<OrderLine>"},
		},
	})
	catalog.Add(&model.TypeDescriptor{
		Name: "OrderLine",
		Properties: []model.PropertyDescriptor{
			{Name: "Sku", Type: "string"},
			{Name: "Quantity", Type: "int"},
		},
	})
	// Self-referential shape for cycle protection
	catalog.Add(&model.TypeDescriptor{
		Name: "Category",
		Properties: []model.PropertyDescriptor{
			{Name: "Title", Type: "string"},
			{Name: "Parent", Type: "Category"},
		},
	})
	return catalog
}

// TestSynthesizeCatalogType tests object synthesis keyed by the declared
// property names
func TestSynthesizeCatalogType(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	v := s.Synthesize("CreateUserRequest", "request")
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Expected map, got %T", v)
	}

	if obj["Email"] != "test@example.com" {
		t.Errorf("Email heuristic not applied: %v", obj["Email"])
	}
	if obj["DisplayName"] != "Sample Name" {
		t.Errorf("Name heuristic not applied: %v", obj["DisplayName"])
	}
	if obj["Age"] != 1 {
		t.Errorf("Int fallback not applied: %v", obj["Age"])
	}
	if _, lower := obj["email"]; lower {
		t.Error("Keys must keep the declared casing")
	}

	t.Logf("✅ Synthesized object: %v", obj)
}

// TestSynthesizeNested tests collections inside catalog types
func TestSynthesizeNested(t *testing.T) {
	s := New(testCatalog(), Options{CollectionCount: 2, MaxDepth: 8})

	v := s.Synthesize("OrderDto", "order")
	obj := v.(map[string]any)

	lines, ok := obj["Lines"].([]any)
	if !ok {
		t.Fatalf("Expected slice for Lines, got %T", obj["Lines"])
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 collection elements, got %d", len(lines))
	}
	line := lines[0].(map[string]any)
	if line["Quantity"] != 1 {
		t.Errorf("Nested element wrong: %v", line)
	}

	if id, ok := obj["OrderId"].(string); !ok {
		t.Errorf("Expected guid string, got %T", obj["OrderId"])
	} else if _, err := uuid.Parse(id); err != nil {
		t.Errorf("OrderId is not a valid uuid: %q", id)
	}

	t.Logf("✅ Nested synthesis with %d line(s)", len(lines))
}

// TestSynthesizeCycleProtection tests that self references collapse to nil
func TestSynthesizeCycleProtection(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	v := s.Synthesize("Category", "category")
	obj := v.(map[string]any)

	if obj["Parent"] != nil {
		t.Errorf("Self reference should collapse to nil, got %v", obj["Parent"])
	}
	if obj["Title"] == nil {
		t.Error("Scalar siblings must still synthesize")
	}

	t.Logf("✅ Cycle collapsed: Parent=%v", obj["Parent"])
}

// TestSynthesizeDepthCap tests the nesting cap on deep chains
func TestSynthesizeDepthCap(t *testing.T) {
	catalog := model.NewTypeCatalog()
	catalog.Add(&model.TypeDescriptor{
		Name:       "A",
		Properties: []model.PropertyDescriptor{{Name: "Next", Type: "B"}},
	})
	catalog.Add(&model.TypeDescriptor{
		Name:       "B",
		Properties: []model.PropertyDescriptor{{Name: "Next", Type: "A"}},
	})

	s := New(catalog, Options{CollectionCount: 1, MaxDepth: 3})
	v := s.Synthesize("A", "a")

	depth := 0
	for v != nil {
		obj, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("Expected map at depth %d, got %T", depth, v)
		}
		v = obj["Next"]
		depth++
		if depth > 10 {
			t.Fatal("Depth cap not applied")
		}
	}
	if depth > 3 {
		t.Errorf("Expected at most 3 levels, got %d", depth)
	}

	t.Logf("✅ Chain stopped after %d levels", depth)
}

// TestBuildRequestPathAndQuery tests token substitution and query assembly
func TestBuildRequestPathAndQuery(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodGet,
		RouteTemplate: "/api/users/{id}",
		Parameters: []model.ParameterDescriptor{
			{Name: "id", DeclaredType: "int", Source: model.SourcePath, Required: true},
			{Name: "page", DeclaredType: "int", Source: model.SourceQuery},
		},
	}

	req, _, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if req.Method != "GET" {
		t.Errorf("Expected GET, got %s", req.Method)
	}
	if req.URL != "/api/users/1" {
		t.Errorf("Token not substituted: %s", req.URL)
	}
	if req.Query["page"] != "1" {
		t.Errorf("Query value wrong: %v", req.Query)
	}

	t.Logf("✅ %s %s query=%v", req.Method, req.URL, req.Query)
}

// TestBuildRequestBody tests body synthesis for a catalog type
func TestBuildRequestBody(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodPost,
		RouteTemplate: "/api/users",
		Parameters: []model.ParameterDescriptor{
			{Name: "request", DeclaredType: "CreateUserRequest", Source: model.SourceBody},
		},
	}

	req, warns, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("Catalog-resolved body should warn nothing: %v", warns)
	}
	body, ok := req.Body.(map[string]any)
	if !ok {
		t.Fatalf("Expected object body, got %T", req.Body)
	}
	if body["Email"] != "test@example.com" {
		t.Errorf("Body synthesis wrong: %v", body)
	}

	t.Logf("✅ Body synthesized with %d fields", len(body))
}

// TestBuildRequestUnknownBodyType tests that a body of a type missing from
// the catalog becomes an opaque placeholder object and reports the miss
func TestBuildRequestUnknownBodyType(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodPost,
		RouteTemplate: "/api/widgets",
		Location:      model.SourceLocation{Line: 42},
		Parameters: []model.ParameterDescriptor{
			{Name: "dto", DeclaredType: "UnknownWidgetDto", Source: model.SourceBody},
		},
	}

	req, warns, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}

	body, ok := req.Body.(map[string]any)
	if !ok {
		t.Fatalf("Expected placeholder object body, got %T (%v)", req.Body, req.Body)
	}
	if len(body) != 0 {
		t.Errorf("Placeholder object should be empty, got %v", body)
	}

	if len(warns) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %v", len(warns), warns)
	}
	if warns[0].Kind != model.WarnTypeResolutionMiss {
		t.Errorf("Expected %s, got %s", model.WarnTypeResolutionMiss, warns[0].Kind)
	}
	if !strings.Contains(warns[0].Message, "UnknownWidgetDto") {
		t.Errorf("Warning should name the missing type: %s", warns[0].Message)
	}
	if warns[0].Line != 42 {
		t.Errorf("Warning should carry the endpoint line, got %d", warns[0].Line)
	}

	t.Logf("✅ Placeholder body with warning: %s", warns[0].Message)
}

// TestBuildRequestPrimitiveBodyNoWarning tests that a primitive-typed body
// keeps the scalar fallback and stays silent
func TestBuildRequestPrimitiveBodyNoWarning(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodPost,
		RouteTemplate: "/api/notes",
		Parameters: []model.ParameterDescriptor{
			{Name: "text", DeclaredType: "string", Source: model.SourceBody},
		},
	}

	req, warns, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if _, ok := req.Body.(string); !ok {
		t.Fatalf("Expected scalar body, got %T", req.Body)
	}
	if len(warns) != 0 {
		t.Errorf("Primitive body should warn nothing: %v", warns)
	}

	t.Logf("✅ Scalar body without warnings")
}

// TestBuildRequestScalarSlotAmbiguity tests the fallback when an
// object-valued type lands in a query slot
func TestBuildRequestScalarSlotAmbiguity(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodGet,
		RouteTemplate: "/api/search",
		Parameters: []model.ParameterDescriptor{
			{Name: "filter", DeclaredType: "SearchFilter", Source: model.SourceQuery},
		},
	}

	req, warns, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if req.Query["filter"] != "sample" {
		t.Errorf("Expected generic fallback value, got %q", req.Query["filter"])
	}

	var ambiguity bool
	for _, w := range warns {
		if w.Kind == model.WarnSynthesisAmbiguity {
			ambiguity = true
		}
	}
	if !ambiguity {
		t.Errorf("Expected a %s warning, got %v", model.WarnSynthesisAmbiguity, warns)
	}

	t.Logf("✅ Scalar slot fallback reported: %v", warns)
}

// TestBuildRequestHeadersAndForm tests header naming and form fields
func TestBuildRequestHeadersAndForm(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodPost,
		RouteTemplate: "/api/users/{id}/avatar",
		Parameters: []model.ParameterDescriptor{
			{Name: "id", DeclaredType: "int", Source: model.SourcePath},
			{Name: "apiKey", DeclaredType: "string", Source: model.SourceHeader, HeaderName: "X-Api-Key"},
			{Name: "file", DeclaredType: "IFormFile", Source: model.SourceForm, IsFile: true},
			{Name: "caption", DeclaredType: "string", Source: model.SourceForm},
		},
	}

	req, _, err := s.BuildRequest(ep, nil)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if _, ok := req.Headers["X-Api-Key"]; !ok {
		t.Errorf("Attribute header name not used: %v", req.Headers)
	}
	if len(req.FormFields) != 2 {
		t.Fatalf("Expected 2 form fields, got %d", len(req.FormFields))
	}
	if req.FormFields[0].Value != model.FileMarker || !req.FormFields[0].IsFile {
		t.Errorf("File field wrong: %+v", req.FormFields[0])
	}
	if req.FormFields[1].Name != "caption" || req.FormFields[1].IsFile {
		t.Errorf("Scalar field wrong: %+v", req.FormFields[1])
	}

	t.Logf("✅ Headers %v, %d form fields", req.Headers, len(req.FormFields))
}

// TestBuildRequestEnvironment tests base URL joining and header merging
func TestBuildRequestEnvironment(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())

	ep := &model.EndpointDescriptor{
		HTTPMethod:    model.MethodGet,
		RouteTemplate: "/api/users",
	}
	env := &model.Environment{
		Name:     "local",
		BaseURL:  "http://localhost:5000/",
		BasePath: "v1",
		Headers:  map[string]string{"Authorization": "Bearer test"},
	}

	req, _, err := s.BuildRequest(ep, env)
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if req.URL != "http://localhost:5000/v1/api/users" {
		t.Errorf("URL joining wrong: %s", req.URL)
	}
	if req.Headers["Authorization"] != "Bearer test" {
		t.Errorf("Environment headers not merged: %v", req.Headers)
	}

	t.Logf("✅ URL: %s", req.URL)
}

// TestBuildRequestBadBaseURL tests rejection of relative base URLs
func TestBuildRequestBadBaseURL(t *testing.T) {
	s := New(testCatalog(), DefaultOptions())
	ep := &model.EndpointDescriptor{HTTPMethod: model.MethodGet, RouteTemplate: "/ping"}

	for _, base := range []string{"localhost:what//", "/relative", "example.com"} {
		_, _, err := s.BuildRequest(ep, &model.Environment{Name: "bad", BaseURL: base})
		if err == nil {
			t.Errorf("Expected error for base url %q", base)
		}
	}

	t.Logf("✅ Relative base URLs rejected")
}

// TestSubstituteTokenEscaping tests case-insensitive, URL-escaped
// substitution
func TestSubstituteTokenEscaping(t *testing.T) {
	got := substituteToken("/api/files/{Name}", "name", "a b/c")
	if strings.Contains(got, " ") || strings.Contains(got, "{") {
		t.Errorf("Value not escaped or token left behind: %s", got)
	}
	if !strings.HasPrefix(got, "/api/files/") {
		t.Errorf("Route damaged: %s", got)
	}

	t.Logf("✅ Substituted route: %s", got)
}
