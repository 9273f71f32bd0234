// Package corpus is the concrete rule corpus: 24 rules, each a
// zero-state value self-registering into internal/rules's registry
// from its own init(). Most are call-site pattern matches; a handful
// are field-shape, method-shape, or class-shape predicates, per
// spec.md 4.4's rule categories.
package corpus

import (
	gocontext "context"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/descriptor"
	"inspequte/internal/ir"
	"inspequte/internal/report"
	"inspequte/internal/rules"
)

// callSitePredicate matches a single CallSite against a rule's
// pattern.
type callSitePredicate func(ir.CallSite) bool

// exactCall returns a predicate matching one (owner, name, descriptor)
// tuple exactly.
func exactCall(owner, name, descriptor string) callSitePredicate {
	return func(cs ir.CallSite) bool {
		return cs.Owner == owner && cs.Name == name && cs.Descriptor == descriptor
	}
}

// callByName returns a predicate matching any descriptor for a given
// (owner, name) pair — used by rules whose target method is
// overloaded.
func callByName(owner, name string) callSitePredicate {
	return func(cs ir.CallSite) bool {
		return cs.Owner == owner && cs.Name == name
	}
}

// exemption decides whether a call site inside a given method/class
// should be skipped even though it matches the pattern (spec.md 4.4's
// class-local SYSTEM_EXIT entry-point exemption).
type exemption func(class ir.Class, method ir.Method) bool

func noExemption(ir.Class, ir.Method) bool { return false }

// signatureCall returns a predicate matching any (owner, name) call
// whose descriptor has the given parameter count and return kind,
// rather than one exact descriptor string. Used by rules whose
// target method is overloaded across a shape (e.g. an optional
// trailing argument) that full descriptor matching would otherwise
// have to enumerate by hand; wraps internal/descriptor's
// ParamCount/ReturnKind, which would otherwise go unused by the
// engine.
func signatureCall(owner, name string, paramCount int, returnKind descriptor.Kind) callSitePredicate {
	return func(cs ir.CallSite) bool {
		if cs.Owner != owner || cs.Name != name {
			return false
		}
		n, err := descriptor.ParamCount(cs.Descriptor)
		if err != nil || n != paramCount {
			return false
		}
		k, err := descriptor.ReturnKind(cs.Descriptor)
		if err != nil || k != returnKind {
			return false
		}
		return true
	}
}

// signatureCallAnyParamCount is signatureCall with a minimum parameter
// count (n >= minParams) instead of an exact one, for call families
// overloaded on trailing arguments whose exact count the rule doesn't
// care about but whose return shape it does.
func signatureCallAnyParamCount(owner, name string, minParams int, returnKind descriptor.Kind) callSitePredicate {
	return func(cs ir.CallSite) bool {
		if cs.Owner != owner || cs.Name != name {
			return false
		}
		n, err := descriptor.ParamCount(cs.Descriptor)
		if err != nil || n < minParams {
			return false
		}
		k, err := descriptor.ReturnKind(cs.Descriptor)
		if err != nil || k != returnKind {
			return false
		}
		return true
	}
}

// scanClassWithSpan wraps the analysis of a single class in a
// "scan.class" span carrying the class name and artifact URI, then
// runs fn with that class's artifact URI. Mirrors the original
// engine's per-class span
// (_examples/original_source/src/rules/system_exit/mod.rs's
// context.with_span("scan.class", ...)), so every rule built on it
// contributes a real span to the telemetry forest instead of leaving
// AnalysisContext.WithSpan unexercised.
func scanClassWithSpan(ctx gocontext.Context, ac *analysiscontext.AnalysisContext, class ir.Class, fn func(uri string)) {
	uri := ac.ClassArtifactURI(&class)
	attrs := map[string]any{"inspequte.class": class.Name}
	if uri != "" {
		attrs["inspequte.artifact_uri"] = uri
	}
	_ = ac.WithSpan(ctx, "scan.class", attrs, func(gocontext.Context) error {
		fn(uri)
		return nil
	})
}

// scanCallSitePattern is the shared engine behind every call-site
// pattern rule: walk every target class's methods in order, every
// call site in bytecode order, matching against predicate, skipping
// any method covered by exempt, and reporting at the call site's
// location. This ordering already satisfies spec.md 5's determinism
// contract (target-class load order, then method order, then call
// site offset) because AnalysisTargetClasses/Methods/CallSites all
// preserve load/declaration/bytecode order.
func scanCallSitePattern(ctx gocontext.Context, ac *analysiscontext.AnalysisContext, id, message string, predicate callSitePredicate, exempt exemption) []report.Finding {
	var findings []report.Finding
	for _, class := range ac.AnalysisTargetClasses() {
		scanClassWithSpan(ctx, ac, class, func(uri string) {
			for _, method := range class.Methods {
				if exempt(class, method) {
					continue
				}
				for _, cs := range method.CallSites {
					if !predicate(cs) {
						continue
					}
					loc := report.MethodLocationWithLine(class.Name, method.Name, method.Descriptor, uri, cs.LineNumber)
					findings = append(findings, report.Finding{
						RuleID:    id,
						Message:   report.Message{Text: message},
						Locations: []report.Location{loc},
					})
				}
			}
		})
	}
	return findings
}

// callSiteRule is the common shape every call-site pattern rule uses:
// a fixed id/name/description/message, a predicate, and an optional
// exemption.
type callSiteRule struct {
	id, name, description, message string
	predicate                      callSitePredicate
	exempt                         exemption
}

func (r callSiteRule) Metadata() rules.Metadata {
	return rules.Metadata{ID: r.id, Name: r.name, Description: r.description}
}

func (r callSiteRule) Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error) {
	exempt := r.exempt
	if exempt == nil {
		exempt = noExemption
	}
	return scanCallSitePattern(ctx, ac, r.id, r.message, r.predicate, exempt), nil
}
