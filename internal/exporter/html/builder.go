package html

import (
	"html/template"
	"os"

	"inspequte/internal/config"
	analysiscontext "inspequte/internal/context"
	"inspequte/internal/exporter/common"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

// HTMLExporter renders a findings report as a single static HTML page,
// grouped by rule.
type HTMLExporter struct{}

// NewHTMLExporter creates a new HTMLExporter.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// findingRow is one rendered finding within a rule section.
type findingRow struct {
	Kind        string
	Location    string
	Line        int
	ArtifactURI string
	Message     string
}

// ruleSection groups every finding reported under one rule.
type ruleSection struct {
	RuleID      string
	RuleName    string
	Description string
	Findings    []findingRow
}

// ReportData is the template's root data value.
type ReportData struct {
	TargetClassCount int
	TotalClassCount  int
	TotalFindings    int
	Sections         []ruleSection
}

// Export renders rpt into cfg's configured HTML output path.
func (e *HTMLExporter) Export(rpt *report.Report, ac *analysiscontext.AnalysisContext, cfg *config.Config) error {
	metaByID := make(map[string]rules.Metadata)
	for _, r := range rules.All() {
		m := r.Metadata()
		metaByID[m.ID] = m
	}

	var sections []ruleSection
	for _, group := range common.GroupByRule(rpt.Findings) {
		meta := metaByID[group.RuleID]
		section := ruleSection{RuleID: group.RuleID, RuleName: meta.Name, Description: meta.Description}
		for _, f := range group.Findings {
			fr := common.FlattenFinding(f)
			section.Findings = append(section.Findings, findingRow{
				Kind:        fr.Kind,
				Location:    fr.LogicalName,
				Line:        fr.Line,
				ArtifactURI: fr.ArtifactURI,
				Message:     fr.Message,
			})
		}
		sections = append(sections, section)
	}

	data := ReportData{
		TargetClassCount: len(ac.AnalysisTargetClasses()),
		TotalClassCount:  len(ac.AllClasses()),
		TotalFindings:    len(rpt.Findings),
		Sections:         sections,
	}

	outputFile := cfg.GetHTMLOutputPath()
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	tmpl, err := template.New("findings-report").Funcs(template.FuncMap{
		"kindBadge": kindBadgeClass,
	}).Parse(FindingsReportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(f, data)
}

// kindBadgeClass returns a CSS class for a logical-location kind.
func kindBadgeClass(kind string) string {
	if kind == "type" {
		return "kind-type"
	}
	return "kind-function"
}
