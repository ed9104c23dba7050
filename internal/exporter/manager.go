package exporter

import (
	"strings"

	"apilens/internal/exporter/openapi"
	"apilens/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "json":
			exporters = append(exporters, NewJSONExporter())
		case "excel", "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "word", "docx":
			exporters = append(exporters, word.NewWordExporter())
		case "openapi", "swagger":
			exporters = append(exporters, openapi.NewOpenAPIExporter(openapi.FormatJSON))
		case "openapi-yaml", "yaml":
			exporters = append(exporters, openapi.NewOpenAPIExporter(openapi.FormatYAML))
		case "http", "rest":
			exporters = append(exporters, NewHTTPExporter())
		}
	}

	return exporters
}
