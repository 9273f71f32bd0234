package corpus

import (
	gocontext "context"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

const log4j2LoggerDescriptor = "Lorg/apache/logging/log4j/Logger;"

type log4j2LoggerShouldBeFinalRule struct{}

func init() {
	rules.Register("LOG4J2_LOGGER_SHOULD_BE_FINAL", func() rules.Rule { return log4j2LoggerShouldBeFinalRule{} })
}

func (log4j2LoggerShouldBeFinalRule) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:          "LOG4J2_LOGGER_SHOULD_BE_FINAL",
		Name:        "Non-final Log4j2 Logger field",
		Description: "Flags non-final org.apache.logging.log4j.Logger fields. Only runs when org/apache/logging/log4j classes are loaded.",
	}
}

func (log4j2LoggerShouldBeFinalRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	if !ac.HasLog4j2() {
		return nil, nil
	}
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, f := range class.Fields {
				if f.Descriptor != log4j2LoggerDescriptor || f.IsFinal() {
					continue
				}
				findings = append(findings, report.Finding{
					RuleID:    "LOG4J2_LOGGER_SHOULD_BE_FINAL",
					Message:   report.Message{Text: class.Name + "." + f.Name + " is a Log4j2 Logger field that is not final."},
					Locations: []report.Location{report.ClassLocation(class.Name, uri)},
				})
			}
		})
	}
	return findings, nil
}
