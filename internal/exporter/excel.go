package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"apilens/internal/config"
	"apilens/internal/model"
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}

	if err := e.writeEndpoints(f, styler, report); err != nil {
		return err
	}

	if len(report.Warnings) > 0 {
		if err := e.writeWarnings(f, styler, report.Warnings); err != nil {
			return err
		}
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	return f.SaveAs(cfg.GetOutputPath("xlsx"))
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Count"}, s.HeaderStyle)
	row++

	summary := report.Summary
	metrics := []struct {
		Key string
		Val int
	}{
		{"Total Documents", summary.TotalDocuments},
		{"Total Controllers", summary.TotalControllers},
		{"Total Endpoints", summary.TotalEndpoints},
		{"Total Types", summary.TotalTypes},
		{"Total Warnings", summary.TotalWarnings},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	row += 2 // Spacer

	// Section B: Verb Distribution
	e.writeRow(f, sheet, row, []string{"HTTP Method", "Endpoints"}, s.HeaderStyle)
	row++

	verbs := make([]string, 0, len(summary.MethodCounts))
	for verb := range summary.MethodCounts {
		verbs = append(verbs, string(verb))
	}
	sort.Strings(verbs)

	for _, verb := range verbs {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), verb)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), summary.MethodCounts[model.HTTPMethod(verb)])
		row++
	}

	row += 2

	// Section C: Controller sizes
	e.writeRow(f, sheet, row, []string{"No", "Controller", "Base Route", "Endpoints"}, s.HeaderStyle)
	row++

	counts := make(map[string]int)
	for _, ep := range report.Endpoints {
		counts[ep.ControllerName]++
	}

	ctrls := make([]model.ControllerDescriptor, len(report.Controllers))
	copy(ctrls, report.Controllers)
	sort.Slice(ctrls, func(i, j int) bool {
		return counts[ctrls[i].Name] > counts[ctrls[j].Name]
	})

	for i, ctrl := range ctrls {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ctrl.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ctrl.BaseRoute)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), counts[ctrl.Name])
		row++
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "C", 35)

	return nil
}

// --- Endpoints Sheet Logic ---

func (e *ExcelExporter) writeEndpoints(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Endpoints"
	f.NewSheet(sheet)

	headers := []string{"Method", "Route", "Parameter", "Type", "Source", "Required", "Default", "Summary"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	endpoints := make([]model.EndpointDescriptor, len(report.Endpoints))
	copy(endpoints, report.Endpoints)
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].ControllerName != endpoints[j].ControllerName {
			return endpoints[i].ControllerName < endpoints[j].ControllerName
		}
		return endpoints[i].RouteTemplate < endpoints[j].RouteTemplate
	})

	row := 2
	lastController := ""
	for i := range endpoints {
		ep := &endpoints[i]

		// Controller section marker
		if ep.ControllerName != lastController {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "[CONTROLLER]")
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ep.ControllerName)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), s.ControllerStyle)
			row++
			lastController = ep.ControllerName
		}

		// Endpoint row
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(ep.HTTPMethod))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ep.RouteTemplate)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ep.ReturnType)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), firstLine(ep.Summary))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), s.DefaultStyle)
		row++

		// Parameter rows, one per binding, style keyed by source
		for _, p := range ep.Parameters {
			required := "No"
			if p.Required {
				required = "Yes"
			}
			name := p.Name
			if p.IsFile {
				name += " (file)"
			}

			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.DeclaredType)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(p.Source))
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), required)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.DefaultValue)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), s.StyleFor(p.Source))
			row++
		}
	}

	f.SetColWidth(sheet, "B", "B", 45)
	f.SetColWidth(sheet, "C", "D", 30)
	f.SetColWidth(sheet, "H", "H", 50)

	return nil
}

// --- Warnings Sheet Logic ---

func (e *ExcelExporter) writeWarnings(f *excelize.File, s *Styler, warnings []model.Warning) error {
	sheet := "Warnings"
	f.NewSheet(sheet)

	e.writeRow(f, sheet, 1, []string{"Kind", "Line", "Message"}, s.HeaderStyle)

	row := 2
	for _, w := range warnings {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(w.Kind))
		if w.Line > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), w.Line)
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), w.Message)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), s.WarningStyle)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "C", "C", 80)

	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
