package exporter

import (
	"os"
	"testing"

	"inspequte/internal/config"
	analysiscontext "inspequte/internal/context"
	"inspequte/internal/ir"
	"inspequte/internal/report"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestExcelExport(t *testing.T) {
	outputFile := "test_report.xlsx"
	defer os.Remove(outputFile)

	ac := analysiscontext.New(&ir.Collection{Classes: []ir.Class{
		{Name: "com/example/Money", Origin: ir.Target},
	}}, noop.NewTracerProvider().Tracer("test"))

	rpt := &report.Report{Findings: []report.Finding{
		{
			RuleID:  "BIGDECIMAL_EQUALS_CALL",
			Message: report.Message{Text: "Avoid BigDecimal.equals()"},
			Locations: []report.Location{
				report.MethodLocationWithLine("com/example/Money", "isSameAmount", "(Ljava/math/BigDecimal;)Z", "com/example/Money.class", 12),
			},
		},
		{
			RuleID:    "RECORD_ARRAY_FIELD",
			Message:   report.Message{Text: "record with array component"},
			Locations: []report.Location{report.ClassLocation("com/example/Money", "com/example/Money.class")},
		},
	}}

	cfg := &config.Config{Output: config.OutputConfig{Dir: ".", FileName: "test_report"}}

	exporter := NewExcelExporter()
	if err := exporter.Export(rpt, ac, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if _, err := os.Stat(outputFile); os.IsNotExist(err) {
		t.Fatal("Output file was not created")
	}

	f, err := excelize.OpenFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated Excel: %v", err)
	}
	defer f.Close()

	overviewRows, err := f.GetRows("Overview")
	if err != nil {
		t.Fatalf("Failed to read Overview rows: %v", err)
	}
	if len(overviewRows) < 2 {
		t.Fatalf("Overview sheet has too few rows: %d", len(overviewRows))
	}

	findingRows, err := f.GetRows("Findings")
	if err != nil {
		t.Fatalf("Failed to read Findings rows: %v", err)
	}
	// header + 2 rule-group headers + 2 findings = 5 rows
	if len(findingRows) != 5 {
		t.Fatalf("Findings sheet has %d rows, want 5", len(findingRows))
	}
	if findingRows[1][0] != "BIGDECIMAL_EQUALS_CALL" {
		t.Errorf("expected first rule group header, got %v", findingRows[1])
	}
}
