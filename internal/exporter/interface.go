package exporter

import (
	"inspequte/internal/config"
	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
)

// Exporter is the unified interface for all report rendering
// strategies (excel, html) layered on top of the SARIF-shaped
// findings report.
type Exporter interface {
	Export(rpt *report.Report, ac *analysiscontext.AnalysisContext, cfg *config.Config) error
}
