package csparser

import (
	"testing"
)

// TestSplitParams tests top-level comma splitting around generics and
// string defaults
func TestSplitParams(t *testing.T) {
	parts := SplitParams(`int id, Dictionary<string, List<int>> lookup, string q = "a,b"`)

	if len(parts) != 3 {
		t.Fatalf("Expected 3 parameters, got %d: %v", len(parts), parts)
	}
	if parts[1] != "Dictionary<string, List<int>> lookup" {
		t.Errorf("Generic parameter split apart: %q", parts[1])
	}
	if parts[2] != `string q = "a,b"` {
		t.Errorf("Comma inside default string split the list: %q", parts[2])
	}

	if got := SplitParams("   "); got != nil {
		t.Errorf("Expected nil for blank list, got %v", got)
	}

	t.Logf("✅ Split %d parameters", len(parts))
}

// TestParseParameter tests single-declaration decomposition
func TestParseParameter(t *testing.T) {
	cases := []struct {
		raw      string
		typ      string
		name     string
		def      string
		attrName string
	}{
		{"int id", "int", "id", "", ""},
		{"string? filter = null", "string?", "filter", "null", ""},
		{"[FromQuery] int page = 1", "int", "page", "1", "FromQuery"},
		{"[FromBody] CreateUserRequest request", "CreateUserRequest", "request", "", "FromBody"},
		{"List<OrderLine> lines", "List<OrderLine>", "lines", "", ""},
		{"out int total", "int", "total", "", ""},
		{"CancellationToken ct = default", "CancellationToken", "ct", "default", ""},
	}

	for _, c := range cases {
		p, ok := ParseParameter(c.raw)
		if !ok {
			t.Errorf("%q: expected ok", c.raw)
			continue
		}
		if p.Type != c.typ {
			t.Errorf("%q: expected type %q, got %q", c.raw, c.typ, p.Type)
		}
		if p.Name != c.name {
			t.Errorf("%q: expected name %q, got %q", c.raw, c.name, p.Name)
		}
		if p.DefaultValue != c.def {
			t.Errorf("%q: expected default %q, got %q", c.raw, c.def, p.DefaultValue)
		}
		if c.attrName != "" {
			if len(p.Attributes) != 1 || p.Attributes[0].Name != c.attrName {
				t.Errorf("%q: expected attribute %s, got %+v", c.raw, c.attrName, p.Attributes)
			}
		} else if len(p.Attributes) != 0 {
			t.Errorf("%q: expected no attributes, got %+v", c.raw, p.Attributes)
		}
	}

	t.Logf("✅ %d parameter declarations decomposed", len(cases))
}

// TestParseParameterAttributeArgs tests header binding with a named argument
func TestParseParameterAttributeArgs(t *testing.T) {
	p, ok := ParseParameter(`[FromHeader(Name = "X-Request-Id")] string requestId`)
	if !ok {
		t.Fatal("Expected ok")
	}
	if len(p.Attributes) != 1 {
		t.Fatalf("Expected 1 attribute, got %d", len(p.Attributes))
	}
	if p.Attributes[0].Named["Name"] != "X-Request-Id" {
		t.Errorf("Header name argument lost: %+v", p.Attributes[0].Named)
	}
	if p.Type != "string" || p.Name != "requestId" {
		t.Errorf("Declaration damaged by attribute: %s %s", p.Type, p.Name)
	}

	t.Logf("✅ Header attribute with named argument parsed")
}

// TestParseParameterRejectsFragments tests that incomplete fragments return
// false instead of half-built parameters
func TestParseParameterRejectsFragments(t *testing.T) {
	for _, raw := range []string{"", "   ", "int"} {
		if _, ok := ParseParameter(raw); ok {
			t.Errorf("%q: expected rejection", raw)
		}
	}

	t.Logf("✅ Fragments rejected")
}

// TestParseParameters tests the full list path used by the classifier
func TestParseParameters(t *testing.T) {
	params := ParseParameters(`int id, [FromQuery] string sort = "name", IFormFile file`)

	if len(params) != 3 {
		t.Fatalf("Expected 3 parameters, got %d", len(params))
	}
	if params[0].Name != "id" || params[1].Name != "sort" || params[2].Name != "file" {
		t.Errorf("Names out of order: %s %s %s", params[0].Name, params[1].Name, params[2].Name)
	}
	if params[1].DefaultValue != `"name"` {
		t.Errorf("Quoted default lost: %q", params[1].DefaultValue)
	}
	if params[2].Type != "IFormFile" {
		t.Errorf("Expected IFormFile, got %q", params[2].Type)
	}

	t.Logf("✅ Parsed %d parameters from full list", len(params))
}
