package exporter

import (
	"fmt"
	"sort"

	"inspequte/internal/config"
	analysiscontext "inspequte/internal/context"
	"inspequte/internal/exporter/common"
	"inspequte/internal/report"
	"inspequte/internal/rules"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter renders a findings report as a two-sheet workbook:
// an Overview sheet with totals and a per-rule breakdown, and a
// Findings sheet listing every finding grouped by rule.
type ExcelExporter struct{}

// NewExcelExporter creates a new ExcelExporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report.
func (e *ExcelExporter) Export(rpt *report.Report, ac *analysiscontext.AnalysisContext, cfg *config.Config) error {
	outputFile := cfg.GetExcelOutputPath()
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := e.writeOverview(f, styler, rpt, ac); err != nil {
		return err
	}
	if err := e.writeFindings(f, styler, rpt); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	return f.SaveAs(outputFile)
}

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, rpt *report.Report, ac *analysiscontext.AnalysisContext) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Count"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val int
	}{
		{"Target Classes Analyzed", len(ac.AnalysisTargetClasses())},
		{"Total Classes Loaded", len(ac.AllClasses())},
		{"Total Findings", len(rpt.Findings)},
	}
	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	row += 2 // spacer

	e.writeRow(f, sheet, row, []string{"Rule ID", "Rule Name", "Finding Count"}, s.HeaderStyle)
	row++

	counts := make(map[string]int)
	for _, find := range rpt.Findings {
		counts[find.RuleID]++
	}

	type ruleCount struct {
		meta  rules.Metadata
		count int
	}
	var breakdown []ruleCount
	for _, r := range rules.All() {
		meta := r.Metadata()
		breakdown = append(breakdown, ruleCount{meta: meta, count: counts[meta.ID]})
	}

	// Sort by finding count descending, like the teacher sorted
	// controllers by complexity, so the noisiest rules surface first.
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].count != breakdown[j].count {
			return breakdown[i].count > breakdown[j].count
		}
		return breakdown[i].meta.ID < breakdown[j].meta.ID
	})

	for _, b := range breakdown {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.meta.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.meta.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.count)
		row++
	}

	f.SetColWidth(sheet, "A", "B", 38)
	return nil
}

func (e *ExcelExporter) writeFindings(f *excelize.File, s *Styler, rpt *report.Report) error {
	sheet := "Findings"
	f.NewSheet(sheet)

	headers := []string{"Rule ID", "Kind", "Location", "Line", "Artifact", "Message"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	for _, group := range common.GroupByRule(rpt.Findings) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), group.RuleID)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), s.RuleHeaderStyle)
		row++

		for _, finding := range group.Findings {
			fr := common.FlattenFinding(finding)

			style := s.MethodFindingStyle
			if fr.Kind == "type" {
				style = s.ClassFindingStyle
			}

			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fr.RuleID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fr.Kind)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fr.LogicalName)
			if fr.Line > 0 {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), fr.Line)
			}
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fr.ArtifactURI)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fr.Message)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), style)
			row++
		}
	}

	f.SetColWidth(sheet, "C", "C", 45)
	f.SetColWidth(sheet, "E", "E", 45)
	f.SetColWidth(sheet, "F", "F", 60)

	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
