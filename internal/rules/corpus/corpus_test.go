package corpus

import (
	gocontext "context"
	"testing"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/ir"
	"inspequte/internal/report"
	"inspequte/internal/rules"

	"go.opentelemetry.io/otel/trace/noop"
)

func newContext(classes []ir.Class) *analysiscontext.AnalysisContext {
	return analysiscontext.New(&ir.Collection{Classes: classes}, noop.NewTracerProvider().Tracer("test"))
}

func findingsFor(t *testing.T, ruleID string, ac *analysiscontext.AnalysisContext) []report.Finding {
	t.Helper()
	for _, r := range rules.All() {
		if r.Metadata().ID != ruleID {
			continue
		}
		findings, err := r.Run(gocontext.Background(), ac)
		if err != nil {
			t.Fatalf("rule %s returned error: %v", ruleID, err)
		}
		return findings
	}
	t.Fatalf("rule %s not registered", ruleID)
	return nil
}

// TestScenarioA_BigDecimalEquals mirrors spec.md 8 scenario A: a
// target class calling BigDecimal.equals() produces exactly one
// finding whose message names the method.
func TestScenarioA_BigDecimalEquals(t *testing.T) {
	class := ir.Class{
		Name:   "com/example/Money",
		Origin: ir.Target,
		Methods: []ir.Method{
			{Name: "isSameAmount", Descriptor: "(Ljava/math/BigDecimal;Ljava/math/BigDecimal;)Z", CallSites: []ir.CallSite{
				{Owner: "java/math/BigDecimal", Name: "equals", Descriptor: "(Ljava/lang/Object;)Z", Offset: 4, LineNumber: 12},
			}},
		},
	}
	ac := newContext([]ir.Class{class})
	findings := findingsFor(t, "BIGDECIMAL_EQUALS_CALL", ac)
	if len(findings) != 1 {
		t.Fatalf("len(findings) = %d, want 1", len(findings))
	}
	if got := findings[0].Message.Text; !containsSubstring(got, "Avoid BigDecimal.equals()") {
		t.Errorf("message = %q, missing expected substring", got)
	}
}

// TestScenarioB_CompareToIsNotFlagged mirrors scenario B: compareTo()
// produces zero BIGDECIMAL_EQUALS_CALL findings.
func TestScenarioB_CompareToIsNotFlagged(t *testing.T) {
	class := ir.Class{
		Name:   "com/example/Money",
		Origin: ir.Target,
		Methods: []ir.Method{
			{Name: "isSameAmount", Descriptor: "(Ljava/math/BigDecimal;Ljava/math/BigDecimal;)Z", CallSites: []ir.CallSite{
				{Owner: "java/math/BigDecimal", Name: "compareTo", Descriptor: "(Ljava/math/BigDecimal;)I", Offset: 4},
			}},
		},
	}
	ac := newContext([]ir.Class{class})
	findings := findingsFor(t, "BIGDECIMAL_EQUALS_CALL", ac)
	if len(findings) != 0 {
		t.Fatalf("len(findings) = %d, want 0", len(findings))
	}
}

// TestScenarioC_ClasspathScoping mirrors scenario C: a matching call
// site inside a classpath-only class must never be reported.
func TestScenarioC_ClasspathScoping(t *testing.T) {
	target := ir.Class{
		Name:   "com/example/Empty",
		Origin: ir.Target,
		Methods: []ir.Method{{Name: "noop", Descriptor: "()V"}},
	}
	dependency := ir.Class{
		Name:   "com/example/Dependency",
		Origin: ir.Classpath,
		Methods: []ir.Method{
			{Name: "bad", Descriptor: "()V", CallSites: []ir.CallSite{
				{Owner: "java/lang/System", Name: "exit", Descriptor: "(I)V", Offset: 0},
			}},
		},
	}
	ac := newContext([]ir.Class{target, dependency})
	findings := findingsFor(t, "SYSTEM_EXIT", ac)
	for _, f := range findings {
		for _, loc := range f.Locations {
			for _, ll := range loc.LogicalLocations {
				if containsSubstring(ll.Name, "Dependency") {
					t.Errorf("finding referenced classpath-only class: %+v", f)
				}
			}
		}
	}
}

// TestScenarioD_SLF4JLoggerGating mirrors scenario D: the rule fires
// only when org/slf4j/Logger is present among loaded classes.
func TestScenarioD_SLF4JLoggerGating(t *testing.T) {
	target := ir.Class{
		Name:   "com/example/Service",
		Origin: ir.Target,
		Fields: []ir.Field{{Name: "log", Descriptor: "Lorg/slf4j/Logger;", AccessFlags: 0}},
	}

	withSLF4J := newContext([]ir.Class{target, {Name: "org/slf4j/Logger", Origin: ir.Classpath}})
	findings := findingsFor(t, "SLF4J_LOGGER_SHOULD_BE_FINAL", withSLF4J)
	if len(findings) != 1 {
		t.Fatalf("with slf4j present: len(findings) = %d, want 1", len(findings))
	}
	if !containsSubstring(findings[0].Message.Text, "Service.log") {
		t.Errorf("message = %q, missing ClassName.fieldName", findings[0].Message.Text)
	}

	withoutSLF4J := newContext([]ir.Class{target})
	findings = findingsFor(t, "SLF4J_LOGGER_SHOULD_BE_FINAL", withoutSLF4J)
	if len(findings) != 0 {
		t.Fatalf("without slf4j present: len(findings) = %d, want 0", len(findings))
	}
}

// TestScenarioE_MainMethodExemption mirrors scenario E: System.exit()
// inside main is exempt; the same call elsewhere is flagged.
func TestScenarioE_MainMethodExemption(t *testing.T) {
	class := ir.Class{
		Name:   "com/example/App",
		Origin: ir.Target,
		Methods: []ir.Method{
			{Name: "main", Descriptor: "([Ljava/lang/String;)V", AccessFlags: 0x0001 | 0x0008, CallSites: []ir.CallSite{
				{Owner: "java/lang/System", Name: "exit", Descriptor: "(I)V", Offset: 0},
			}},
			{Name: "shutdown", Descriptor: "()V", CallSites: []ir.CallSite{
				{Owner: "java/lang/System", Name: "exit", Descriptor: "(I)V", Offset: 0},
			}},
		},
	}
	ac := newContext([]ir.Class{class})
	findings := findingsFor(t, "SYSTEM_EXIT", ac)
	if len(findings) != 1 {
		t.Fatalf("len(findings) = %d, want 1 (main call exempt, shutdown call flagged)", len(findings))
	}
	if !containsSubstring(findings[0].Locations[0].LogicalLocations[0].Name, "shutdown") {
		t.Errorf("expected the flagged finding to reference shutdown, got %+v", findings[0].Locations[0].LogicalLocations[0])
	}
}

func TestRegistryHasTwentyFourRules(t *testing.T) {
	if got := len(rules.All()); got != 24 {
		t.Fatalf("len(rules.All()) = %d, want 24", got)
	}
}

// TestLongGetLongCall_MatchesBothOverloadsBySignature exercises
// LONG_GETLONG_CALL's signature-shape predicate (ParamCount +
// ReturnKind) against both the one- and two-argument overloads of
// Long.getLong, and confirms parseLong (a different return kind) is
// left alone.
func TestLongGetLongCall_MatchesBothOverloadsBySignature(t *testing.T) {
	class := ir.Class{
		Name:   "com/example/Config",
		Origin: ir.Target,
		Methods: []ir.Method{
			{Name: "readTimeout", Descriptor: "(Ljava/lang/String;)Ljava/lang/Long;", CallSites: []ir.CallSite{
				{Owner: "java/lang/Long", Name: "getLong", Descriptor: "(Ljava/lang/String;)Ljava/lang/Long;", Offset: 0},
			}},
			{Name: "readTimeoutWithDefault", Descriptor: "(Ljava/lang/String;J)Ljava/lang/Long;", CallSites: []ir.CallSite{
				{Owner: "java/lang/Long", Name: "getLong", Descriptor: "(Ljava/lang/String;J)Ljava/lang/Long;", Offset: 0},
			}},
			{Name: "parse", Descriptor: "(Ljava/lang/String;)J", CallSites: []ir.CallSite{
				{Owner: "java/lang/Long", Name: "parseLong", Descriptor: "(Ljava/lang/String;)J", Offset: 0},
			}},
		},
	}
	ac := newContext([]ir.Class{class})
	findings := findingsFor(t, "LONG_GETLONG_CALL", ac)
	if len(findings) != 2 {
		t.Fatalf("len(findings) = %d, want 2 (both getLong overloads, parseLong excluded)", len(findings))
	}
}

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range rules.All() {
		id := r.Metadata().ID
		if seen[id] {
			t.Fatalf("duplicate rule id %q", id)
		}
		seen[id] = true
	}
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
