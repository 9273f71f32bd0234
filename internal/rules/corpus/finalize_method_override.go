package corpus

import (
	gocontext "context"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

type finalizeMethodOverrideRule struct{}

func init() {
	rules.Register("FINALIZE_METHOD_OVERRIDE", func() rules.Rule { return finalizeMethodOverrideRule{} })
}

func (finalizeMethodOverrideRule) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:          "FINALIZE_METHOD_OVERRIDE",
		Name:        "finalize() override",
		Description: "Flags classes overriding Object.finalize(), deprecated for removal: finalizers run at an unpredictable time, if ever, and can resurrect objects.",
	}
}

func (finalizeMethodOverrideRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, m := range class.Methods {
				if m.Name != "finalize" || m.Descriptor != "()V" || m.IsStatic() {
					continue
				}
				findings = append(findings, report.Finding{
					RuleID:    "FINALIZE_METHOD_OVERRIDE",
					Message:   report.Message{Text: class.Name + " overrides finalize(), which is deprecated for removal and runs at an unpredictable time."},
					Locations: []report.Location{report.MethodLocationWithLine(class.Name, m.Name, m.Descriptor, uri, 0)},
				})
			}
		})
	}
	return findings, nil
}
