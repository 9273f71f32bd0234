package corpus

import (
	gocontext "context"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

const slf4jLoggerDescriptor = "Lorg/slf4j/Logger;"

type slf4jLoggerShouldBeFinalRule struct{}

func init() {
	rules.Register("SLF4J_LOGGER_SHOULD_BE_FINAL", func() rules.Rule { return slf4jLoggerShouldBeFinalRule{} })
}

func (slf4jLoggerShouldBeFinalRule) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:          "SLF4J_LOGGER_SHOULD_BE_FINAL",
		Name:        "Non-final SLF4J Logger field",
		Description: "Flags non-final org.slf4j.Logger fields; loggers are conventionally immutable once assigned. Only runs when org/slf4j classes are loaded.",
	}
}

func (slf4jLoggerShouldBeFinalRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	if !ac.HasSLF4J() {
		return nil, nil
	}
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, f := range class.Fields {
				if f.Descriptor != slf4jLoggerDescriptor || f.IsFinal() {
					continue
				}
				findings = append(findings, report.Finding{
					RuleID:    "SLF4J_LOGGER_SHOULD_BE_FINAL",
					Message:   report.Message{Text: class.Name + "." + f.Name + " is an SLF4J Logger field that is not final."},
					Locations: []report.Location{report.ClassLocation(class.Name, uri)},
				})
			}
		})
	}
	return findings, nil
}
