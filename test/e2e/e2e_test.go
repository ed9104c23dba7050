package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apilens/internal/analyzer"
	"apilens/internal/config"
	"apilens/internal/csparser"
	"apilens/internal/exporter"
	"apilens/internal/model"
	"apilens/internal/synthesizer"
)

func TestEndToEndFlow(t *testing.T) {
	// Setup Paths
	rootDir, _ := filepath.Abs("../../testdata/webapi_sample")
	outputDir, _ := filepath.Abs("../../output/e2e_test")

	// Cleanup output
	os.RemoveAll(outputDir)
	os.MkdirAll(outputDir, 0755)

	// 1. Configure
	cfg := &config.Config{
		Project: config.ProjectConfig{
			RootDir:     rootDir,
			ExcludeDirs: []string{"**/bin/**", "**/obj/**"},
		},
		Environments: []model.Environment{
			{Name: "local", BaseURL: "http://localhost:5000", Headers: map[string]string{"Authorization": "Bearer test"}},
		},
		Output: config.OutputConfig{
			Dir:      outputDir,
			FileName: "e2e_report",
			Formats:  []string{"json", "excel", "openapi", "http"},
		},
	}
	cfg.EnsureOutputDir()

	// 2. Scan & read
	files, err := analyzer.ScanDirectory(cfg.Project.RootDir, cfg.Project.ExcludeDirs)
	if err != nil {
		t.Fatalf("Scanning failed: %v", err)
	}
	if len(files) < 3 {
		t.Fatalf("Expected at least 3 fixture files, got %d: %v", len(files), files)
	}

	contents := make(map[string]string, len(files))
	for _, path := range files {
		content, err := analyzer.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", path, err)
		}
		contents[path] = content
	}

	// 3. Project type catalog, then parse
	catalog := model.NewTypeCatalog()
	for _, content := range contents {
		blocks, _ := csparser.SegmentDocument(content)
		docCatalog := analyzer.BuildCatalog(blocks)
		for _, name := range docCatalog.Names() {
			catalog.Add(docCatalog.Lookup(name))
		}
	}
	if catalog.Lookup("OrderDto") == nil || catalog.Lookup("CreateUserRequest") == nil {
		t.Fatalf("Project catalog missing fixture types, has: %v", catalog.Names())
	}

	cache := analyzer.NewCache().WithSharedTypes(catalog)

	report := &model.Report{
		Summary: model.NewSummary(),
		Catalog: catalog,
	}
	report.Summary.AnalysisDate = "2026-08-29"

	for _, path := range files {
		result := cache.Parse(path, contents[path])
		report.Summary.TotalDocuments++
		report.Controllers = append(report.Controllers, result.Controllers...)
		report.Endpoints = append(report.Endpoints, result.Endpoints...)
		report.Warnings = append(report.Warnings, result.Warnings...)
	}

	report.Summary.TotalControllers = len(report.Controllers)
	report.Summary.TotalTypes = catalog.Len()
	report.Summary.TotalWarnings = len(report.Warnings)
	for _, ep := range report.Endpoints {
		report.Summary.AddEndpoint(ep)
	}

	if report.Summary.TotalControllers != 2 {
		t.Errorf("Expected 2 controllers, got %d", report.Summary.TotalControllers)
	}
	if report.Summary.TotalEndpoints != 9 {
		t.Errorf("Expected 9 endpoints, got %d", report.Summary.TotalEndpoints)
	}

	// Spot-check the composed routes
	routes := make(map[string]model.HTTPMethod)
	for _, ep := range report.Endpoints {
		routes[string(ep.HTTPMethod)+" "+ep.RouteTemplate] = ep.HTTPMethod
	}
	for _, want := range []string{
		"GET /api/users",
		"GET /api/users/{id}",
		"POST /api/users",
		"PUT /api/users/{id}",
		"DELETE /api/users/{id}",
		"POST /api/users/{id}/avatar",
		"GET /api/orders/{orderId}",
		"POST /api/orders",
		"GET /healthz",
	} {
		if _, ok := routes[want]; !ok {
			t.Errorf("Missing expected endpoint %q, have %v", want, keysOf(routes))
		}
	}

	// Cross-file body binding: CreateUser has no [FromBody] but the request
	// type lives in another document
	for _, ep := range report.Endpoints {
		if ep.MethodName == "CreateUser" {
			if len(ep.Parameters) != 1 || ep.Parameters[0].Source != model.SourceBody {
				t.Errorf("CreateUser request should bind from Body, got %+v", ep.Parameters)
			}
		}
		if ep.MethodName == "UploadAvatar" {
			found := false
			for _, p := range ep.Parameters {
				if p.Name == "avatar" && p.Source == model.SourceForm && p.IsFile {
					found = true
				}
			}
			if !found {
				t.Errorf("UploadAvatar should carry a file form parameter, got %+v", ep.Parameters)
			}
		}
	}

	// 4. Synthesize sample requests
	env, err := cfg.EnvironmentByName("local")
	if err != nil {
		t.Fatalf("Environment lookup failed: %v", err)
	}
	report.Environment = env

	synth := synthesizer.New(catalog, synthesizer.DefaultOptions())
	for i := range report.Endpoints {
		ep := &report.Endpoints[i]
		req, warns, err := synth.BuildRequest(ep, env)
		if err != nil {
			t.Fatalf("Synthesis failed for %s: %v", ep.String(), err)
		}
		report.Warnings = append(report.Warnings, warns...)
		if !strings.HasPrefix(req.URL, "http://localhost:5000/") {
			t.Errorf("Sample URL missing base: %s", req.URL)
		}
		if strings.Contains(req.URL, "{") {
			t.Errorf("Sample URL still contains a route token: %s", req.URL)
		}
		report.Samples = append(report.Samples, model.RequestSample{Endpoint: ep, Request: req})
	}

	// 5. Export
	exporters := exporter.GetExporters(cfg.Output.Formats)
	if len(exporters) != 4 {
		t.Fatalf("Expected 4 exporters, got %d", len(exporters))
	}
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			t.Errorf("Export failed: %v", err)
		}
	}

	// 6. Verify Outputs
	expectedFiles := []string{
		"e2e_report.json",
		"e2e_report.xlsx",
		"e2e_report.openapi.json",
		"e2e_report.http",
	}

	for _, f := range expectedFiles {
		path := filepath.Join(outputDir, f)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			t.Errorf("Expected output file missing: %s", path)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Output file is empty: %s", f)
			continue
		}
		t.Logf("✅ Verified output: %s (%d bytes)", f, info.Size())
	}

	// 7. The JSON report must round-trip and carry the endpoint set
	raw, err := os.ReadFile(filepath.Join(outputDir, "e2e_report.json"))
	if err != nil {
		t.Fatalf("Failed to read JSON report: %v", err)
	}
	var decoded struct {
		Endpoints []struct {
			Method string `json:"method"`
			Route  string `json:"route"`
		} `json:"endpoints"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("JSON report is not valid JSON: %v", err)
	}
	if len(decoded.Endpoints) != report.Summary.TotalEndpoints {
		t.Errorf("JSON report has %d endpoints, expected %d", len(decoded.Endpoints), report.Summary.TotalEndpoints)
	}

	// 8. The .http file must be executable scratch content
	httpContent, _ := os.ReadFile(filepath.Join(outputDir, "e2e_report.http"))
	httpStr := string(httpContent)
	if !strings.Contains(httpStr, "POST http://localhost:5000/api/users") {
		t.Errorf("HTTP scratch file missing POST request:\n%s", httpStr)
	}
	if !strings.Contains(httpStr, "Authorization: Bearer test") {
		t.Errorf("HTTP scratch file missing environment header")
	}
}

func keysOf(m map[string]model.HTTPMethod) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
