// Package rules is the self-registering rule framework spec.md 4.4
// describes: a small polymorphic contract, a distributed-registration
// primitive invoked from each rule's own init(), and a deterministic,
// sorted-by-id enumeration with no central list of rule names.
//
// Grounded in the database/sql-style driver registry pattern (a
// package-level map populated by Register calls from importers'
// init() functions), adapted here from named driver factories to
// named rule factories.
package rules

import (
	gocontext "context"
	"fmt"
	"sort"
	"sync"

	analysiscontext "inspequte/internal/context"
	"inspequte/internal/report"
)

// Metadata is a rule's stable identity, used in the report and in
// registry tests.
type Metadata struct {
	ID          string
	Name        string
	Description string
}

// Rule is the contract every corpus rule implements. Concrete rules
// are zero-state values; Run receives the shared AnalysisContext and
// returns the findings it produced for target classes only.
type Rule interface {
	Metadata() Metadata
	Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext) ([]report.Finding, error)
}

// Factory constructs a fresh, default instance of a rule with no
// arguments (spec.md 4.4's registry guarantee iii).
type Factory func() Rule

var (
	mu         sync.Mutex
	registry   = map[string]Factory{}
	registered []string // insertion order; recorded, not read by All or Register
)

// Register adds a rule factory to the registry. It is intended to be
// called from a rule's package-level init(), mirroring how
// database/sql drivers self-register. Panics on a duplicate id: a
// duplicate is a build-time programming error, not a runtime one, so
// failing loudly at init time is the correct discipline here.
func Register(id string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("rules: duplicate rule id %q", id))
	}
	registry[id] = factory
	registered = append(registered, id)
}

// All returns a fresh instance of every registered rule, sorted by id
// for deterministic report ordering (spec.md 4.4 guarantee i).
func All() []Rule {
	mu.Lock()
	defer mu.Unlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		out = append(out, registry[id]())
	}
	return out
}

// RuleFailure wraps the error a rule's Run returned, tagged with the
// rule's id (spec.md 7's RuleFailure error kind).
type RuleFailure struct {
	RuleID string
	Cause  error
}

func (e *RuleFailure) Error() string {
	return fmt.Sprintf("rule %s failed: %v", e.RuleID, e.Cause)
}

func (e *RuleFailure) Unwrap() error { return e.Cause }

// Run executes the given rules over ac in slice order (All() returns
// them sorted by id), collecting findings and non-fatal per-rule
// failures. A rule that
// returns an error contributes no findings and does not stop the
// remaining rules from running (spec.md 7's propagation policy).
func Run(ctx gocontext.Context, ac *analysiscontext.AnalysisContext, rules []Rule) ([]report.Finding, []error) {
	var findings []report.Finding
	var errs []error

	for _, r := range rules {
		meta := r.Metadata()
		var found []report.Finding
		runErr := ac.WithSpan(ctx, "rule."+meta.ID, map[string]any{"inspequte.rule_id": meta.ID}, func(spanCtx gocontext.Context) error {
			f, err := r.Run(spanCtx, ac)
			found = f
			return err
		})
		if runErr != nil {
			errs = append(errs, &RuleFailure{RuleID: meta.ID, Cause: runErr})
			continue
		}
		findings = append(findings, found...)
	}

	return findings, errs
}
