package exporter

import (
	"encoding/json"
	"fmt"
	"os"

	"apilens/internal/config"
	"apilens/internal/model"
)

// JSONExporter writes the raw endpoint model as an indented JSON document.
// This is the machine-readable counterpart of the spreadsheet report.
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type jsonReport struct {
	GeneratedAt string                      `json:"generatedAt"`
	Summary     *model.Summary              `json:"summary"`
	Controllers []model.ControllerDescriptor `json:"controllers"`
	Endpoints   []jsonEndpoint              `json:"endpoints"`
	Types       []model.TypeDescriptor      `json:"types,omitempty"`
	Warnings    []model.Warning             `json:"warnings,omitempty"`
}

type jsonEndpoint struct {
	model.EndpointDescriptor
	SampleRequest *model.GeneratedRequest `json:"sampleRequest,omitempty"`
}

func (e *JSONExporter) Export(report *model.Report, cfg *config.Config) error {
	out := jsonReport{
		GeneratedAt: report.Summary.AnalysisDate,
		Summary:     report.Summary,
		Controllers: report.Controllers,
		Warnings:    report.Warnings,
	}

	samples := make(map[*model.EndpointDescriptor]*model.GeneratedRequest, len(report.Samples))
	for _, s := range report.Samples {
		samples[s.Endpoint] = s.Request
	}

	for i := range report.Endpoints {
		ep := &report.Endpoints[i]
		out.Endpoints = append(out.Endpoints, jsonEndpoint{
			EndpointDescriptor: *ep,
			SampleRequest:      samples[ep],
		})
	}

	if report.Catalog != nil {
		for _, name := range report.Catalog.Names() {
			if td := report.Catalog.Lookup(name); td != nil {
				out.Types = append(out.Types, *td)
			}
		}
	}

	file, err := os.Create(cfg.GetOutputPath("json"))
	if err != nil {
		return fmt.Errorf("failed to create json report: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
