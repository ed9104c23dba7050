package word

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"apilens/internal/config"
	"apilens/internal/model"
)

//go:embed template.docx
var templateFS embed.FS

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	// The docx library only opens files from disk, so the embedded template
	// goes through a temp file first
	templateBytes, err := templateFS.ReadFile("template.docx")
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "apilens-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	endpoints := make([]model.EndpointDescriptor, len(report.Endpoints))
	copy(endpoints, report.Endpoints)
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].RouteTemplate < endpoints[j].RouteTemplate
	})

	doc.Replace("{{Date}}", report.Summary.AnalysisDate, -1)
	doc.Replace("{{TotalEndpoints}}", fmt.Sprintf("%d", report.Summary.TotalEndpoints), -1)
	doc.Replace("{{TotalControllers}}", fmt.Sprintf("%d", report.Summary.TotalControllers), -1)

	var contentBuilder strings.Builder

	contentBuilder.WriteString("API SPECIFICATION\n\n")
	contentBuilder.WriteString("Summary Overview:\n")
	contentBuilder.WriteString(fmt.Sprintf("  • Total Endpoints: %d\n", report.Summary.TotalEndpoints))
	contentBuilder.WriteString(fmt.Sprintf("  • Controllers: %d\n\n", report.Summary.TotalControllers))
	contentBuilder.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i := range endpoints {
		buildEndpointText(&contentBuilder, &endpoints[i])

		if i < len(endpoints)-1 {
			contentBuilder.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}

	// The library handles the XML encoding of injected text
	doc.Replace("{{Content}}", contentBuilder.String(), -1)

	if err := doc.WriteToFile(cfg.GetOutputPath("docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// buildEndpointText builds plain text documentation for a single endpoint
func buildEndpointText(sb *strings.Builder, ep *model.EndpointDescriptor) {
	sb.WriteString(fmt.Sprintf("[%s] %s\n", ep.HTTPMethod, ep.RouteTemplate))
	sb.WriteString(fmt.Sprintf("Controller: %s.%s\n", ep.ControllerName, ep.MethodName))

	if ep.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", ep.Summary))
	}
	sb.WriteString("\n")

	if len(ep.Parameters) > 0 {
		sb.WriteString("REQUEST PARAMETERS:\n")
		sb.WriteString(fmt.Sprintf("%-25s %-25s %-10s %-10s %s\n", "Name", "Type", "Source", "Required", "Default"))
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, p := range ep.Parameters {
			required := "No"
			if p.Required {
				required = "Yes"
			}
			name := p.Name
			if p.IsFile {
				name += " (file)"
			}

			sb.WriteString(fmt.Sprintf("%-25s %-25s %-10s %-10s %s\n",
				truncate(name, 25),
				truncate(p.DeclaredType, 25),
				string(p.Source),
				required,
				p.DefaultValue))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("RESPONSE:\n")
	ret := ep.ReturnType
	if ret == "" {
		ret = "void"
	}
	sb.WriteString(fmt.Sprintf("  Return Type: %s\n", ret))

	sb.WriteString("\n")
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
