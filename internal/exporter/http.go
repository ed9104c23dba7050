package exporter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"apilens/internal/config"
	"apilens/internal/model"
)

// HTTPExporter writes the synthesized sample requests as a .http scratch
// file, the format REST clients in VS Code and JetBrains IDEs execute
// directly.
type HTTPExporter struct{}

func NewHTTPExporter() *HTTPExporter {
	return &HTTPExporter{}
}

func (e *HTTPExporter) Export(report *model.Report, cfg *config.Config) error {
	var sb strings.Builder

	sb.WriteString("# Generated sample requests\n")
	sb.WriteString(fmt.Sprintf("# %s\n", report.Summary.AnalysisDate))
	if report.Environment != nil {
		sb.WriteString(fmt.Sprintf("# Environment: %s (%s)\n", report.Environment.Name, report.Environment.BaseURL))
	}
	sb.WriteString("\n")

	for i, sample := range report.Samples {
		if i > 0 {
			sb.WriteString("\n###\n\n")
		}
		writeSample(&sb, sample)
	}

	outFile := cfg.GetOutputPath("http")
	if err := os.WriteFile(outFile, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write http scratch file: %w", err)
	}
	return nil
}

func writeSample(sb *strings.Builder, sample model.RequestSample) {
	ep := sample.Endpoint
	req := sample.Request

	sb.WriteString(fmt.Sprintf("# %s.%s\n", ep.ControllerName, ep.MethodName))
	if ep.Summary != "" {
		sb.WriteString(fmt.Sprintf("# %s\n", firstLine(ep.Summary)))
	}

	sb.WriteString(fmt.Sprintf("%s %s%s\n", req.Method, req.URL, queryString(req.Query)))

	for _, name := range sortedKeys(req.Headers) {
		sb.WriteString(fmt.Sprintf("%s: %s\n", name, req.Headers[name]))
	}

	switch {
	case req.Body != nil:
		sb.WriteString("Content-Type: application/json\n\n")
		body, err := json.MarshalIndent(req.Body, "", "  ")
		if err != nil {
			body = []byte("{}")
		}
		sb.Write(body)
		sb.WriteString("\n")

	case len(req.FormFields) > 0:
		sb.WriteString("Content-Type: application/x-www-form-urlencoded\n\n")
		pairs := make([]string, 0, len(req.FormFields))
		for _, f := range req.FormFields {
			pairs = append(pairs, url.QueryEscape(f.Name)+"="+url.QueryEscape(f.Value))
		}
		sb.WriteString(strings.Join(pairs, "&"))
		sb.WriteString("\n")
	}
}

func queryString(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(query))
	for _, k := range sortedKeys(query) {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(query[k]))
	}
	return "?" + strings.Join(pairs, "&")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
