package csparser

import (
	"testing"

	"apilens/internal/model"
)

// TestParseAttributesBasic tests plain and argument-carrying attributes
func TestParseAttributesBasic(t *testing.T) {
	attrs := ParseAttributes(`[ApiController]
[Route("api/[controller]")]`)

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Name != "ApiController" || attrs[0].Arg != "" {
		t.Errorf("Unexpected first attribute: %+v", attrs[0])
	}
	if attrs[1].Name != "Route" {
		t.Errorf("Expected Route, got: %s", attrs[1].Name)
	}
	if attrs[1].Arg != "api/[controller]" {
		t.Errorf("Route template not unquoted: %q", attrs[1].Arg)
	}

	t.Logf("✅ Parsed %d attributes, route arg %q", len(attrs), attrs[1].Arg)
}

// TestParseAttributesCombined tests comma-combined groups like
// [HttpGet("{id}"), Authorize]
func TestParseAttributesCombined(t *testing.T) {
	attrs := ParseAttributes(`[HttpGet("{id}"), Authorize]`)

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes from combined group, got %d", len(attrs))
	}
	if attrs[0].Name != "HttpGet" || attrs[0].Arg != "{id}" {
		t.Errorf("Unexpected first: %+v", attrs[0])
	}
	if attrs[1].Name != "Authorize" {
		t.Errorf("Unexpected second: %+v", attrs[1])
	}

	t.Logf("✅ Combined attribute group split correctly")
}

// TestParseAttributesNamed tests named arguments and verb attributes
func TestParseAttributesNamed(t *testing.T) {
	attrs := ParseAttributes(`[FromHeader(Name = "X-Api-Key")] [HttpGet("latest", Name = "GetLatest")]`)

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Named["Name"] != "X-Api-Key" {
		t.Errorf("Named header argument not unquoted: %+v", attrs[0].Named)
	}
	if attrs[1].Arg != "latest" {
		t.Errorf("Positional arg lost next to named one: %q", attrs[1].Arg)
	}
	if attrs[1].Named["Name"] != "GetLatest" {
		t.Errorf("Named route name lost: %+v", attrs[1].Named)
	}

	t.Logf("✅ Named arguments: %v", attrs[0].Named)
}

// TestParseAttributesNoise tests suffix trimming, dotted names, target
// specifiers and argument commas inside strings
func TestParseAttributesNoise(t *testing.T) {
	cases := []struct {
		raw  string
		name string
		arg  string
	}{
		{`[RouteAttribute("v1")]`, "Route", "v1"},
		{`[Microsoft.AspNetCore.Mvc.HttpPost]`, "HttpPost", ""},
		{`[return: ProducesResponseType(200)]`, "ProducesResponseType", ""},
		{`[Obsolete("use v2, not v1")]`, "Obsolete", "use v2, not v1"},
		{`[Route(@"admin/panel")]`, "Route", "admin/panel"},
	}

	for _, c := range cases {
		attrs := ParseAttributes(c.raw)
		if len(attrs) != 1 {
			t.Errorf("%s: expected 1 attribute, got %d", c.raw, len(attrs))
			continue
		}
		if attrs[0].Name != c.name {
			t.Errorf("%s: expected name %s, got %s", c.raw, c.name, attrs[0].Name)
		}
		if attrs[0].Arg != c.arg {
			t.Errorf("%s: expected arg %q, got %q", c.raw, c.arg, attrs[0].Arg)
		}
	}

	t.Logf("✅ %d noisy attribute forms parsed", len(cases))
}

// TestParseAttributesEmpty tests degenerate inputs
func TestParseAttributesEmpty(t *testing.T) {
	if got := ParseAttributes(""); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
	if got := ParseAttributes("   \n\t"); got != nil {
		t.Errorf("Expected nil for whitespace, got %v", got)
	}

	t.Logf("✅ Empty attribute text handled")
}

// TestHTTPMethodFor tests the verb attribute table
func TestHTTPMethodFor(t *testing.T) {
	cases := map[string]model.HTTPMethod{
		"HttpGet":     model.MethodGet,
		"HttpPost":    model.MethodPost,
		"HttpPut":     model.MethodPut,
		"HttpDelete":  model.MethodDelete,
		"HttpPatch":   model.MethodPatch,
		"HttpHead":    model.MethodHead,
		"HttpOptions": model.MethodOptions,
	}
	for name, want := range cases {
		got, ok := HTTPMethodFor(name)
		if !ok || got != want {
			t.Errorf("HTTPMethodFor(%s): expected %s, got %s (ok=%v)", name, want, got, ok)
		}
	}
	if _, ok := HTTPMethodFor("Authorize"); ok {
		t.Error("Authorize should not map to a verb")
	}

	t.Logf("✅ Verb table covers %d attributes", len(cases))
}

// TestBindingFor tests the binding attribute table
func TestBindingFor(t *testing.T) {
	cases := map[string]model.BindingSource{
		"FromQuery":  model.SourceQuery,
		"FromBody":   model.SourceBody,
		"FromHeader": model.SourceHeader,
		"FromForm":   model.SourceForm,
		"FromRoute":  model.SourcePath,
	}
	for name, want := range cases {
		got, ok := BindingFor(name)
		if !ok || got != want {
			t.Errorf("BindingFor(%s): expected %s, got %s (ok=%v)", name, want, got, ok)
		}
	}
	if _, ok := BindingFor("FromServices"); ok {
		t.Error("FromServices is injection, not a binding source")
	}

	t.Logf("✅ Binding table covers %d attributes", len(cases))
}
