package corpus

import (
	gocontext "context"
	"strings"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

// recordArrayFieldRule flags record classes with an array-typed
// component: record equals()/hashCode()/toString() are generated from
// component identity, and arrays don't implement value equality, so a
// record with an array component silently breaks the record contract.
//
// Per spec.md 9's resolved Open Question (see SPEC_FULL.md 4.9), this
// rule is registered in the same central registry as every other
// rule, using the same URI-aware class_location API, rather than kept
// as a special-cased, unregistered rule.
type recordArrayFieldRule struct{}

func init() {
	rules.Register("RECORD_ARRAY_FIELD", func() rules.Rule { return recordArrayFieldRule{} })
}

func (recordArrayFieldRule) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:          "RECORD_ARRAY_FIELD",
		Name:        "Record with array component",
		Description: "Flags record classes with an array-typed component, since generated equals()/hashCode() use reference identity for arrays, not their contents.",
	}
}

func (recordArrayFieldRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		if !class.IsRecord {
			continue
		}
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, f := range class.Fields {
				if f.IsStatic() || !strings.HasPrefix(f.Descriptor, "[") {
					continue
				}
				findings = append(findings, report.Finding{
					RuleID:    "RECORD_ARRAY_FIELD",
					Message:   report.Message{Text: class.Name + " is a record with an array component (" + f.Name + "); generated equals()/hashCode() will use reference identity for it."},
					Locations: []report.Location{report.ClassLocation(class.Name, uri)},
				})
			}
		})
	}
	return findings, nil
}
