package corpus

import (
	gocontext "context"
	"strings"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

type publicStaticMutableArrayFieldRule struct{}

func init() {
	rules.Register("PUBLIC_STATIC_MUTABLE_ARRAY_FIELD", func() rules.Rule { return publicStaticMutableArrayFieldRule{} })
}

func (publicStaticMutableArrayFieldRule) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:          "PUBLIC_STATIC_MUTABLE_ARRAY_FIELD",
		Name:        "Public static array field",
		Description: "Flags public static array-typed fields, which expose a mutable shared array to every caller regardless of finality.",
	}
}

func (publicStaticMutableArrayFieldRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, f := range class.Fields {
				if !f.IsPublic() || !f.IsStatic() || !strings.HasPrefix(f.Descriptor, "[") {
					continue
				}
				findings = append(findings, report.Finding{
					RuleID:    "PUBLIC_STATIC_MUTABLE_ARRAY_FIELD",
					Message:   report.Message{Text: class.Name + "." + f.Name + " is a public static array field; its backing array is mutable from any caller, final or not."},
					Locations: []report.Location{report.ClassLocation(class.Name, uri)},
				})
			}
		})
	}
	return findings, nil
}
