// Package common holds rendering logic shared by the excel and html
// exporters, mirroring the teacher's exporter/common package: a place
// for the tree/stream separation both downstream renderers needed
// rather than duplicating it in each. Here the shared unit is a
// finding grouped by rule, rather than a component tree.
package common

import "inspequte/internal/report"

// FindingRow is a flattened, export-ready view of a finding's primary
// location, since both exporters need the same class/method/line
// triple and neither should reach into Locations[0] itself.
type FindingRow struct {
	RuleID      string
	Message     string
	LogicalName string
	Kind        string // "type" or "function", mirrors report.LogicalLocation.Kind
	ArtifactURI string
	Line        int
}

// FlattenFinding extracts a FindingRow from a finding's first location.
// Rules never emit more than one location per finding, so the first is
// the only one worth rendering.
func FlattenFinding(f report.Finding) FindingRow {
	row := FindingRow{RuleID: f.RuleID, Message: f.Message.Text}
	if len(f.Locations) == 0 {
		return row
	}
	loc := f.Locations[0]
	if len(loc.LogicalLocations) > 0 {
		row.LogicalName = loc.LogicalLocations[0].Name
		row.Kind = loc.LogicalLocations[0].Kind
	}
	if loc.PhysicalLocation != nil {
		row.ArtifactURI = loc.PhysicalLocation.ArtifactLocation.URI
		if loc.PhysicalLocation.Region != nil {
			row.Line = loc.PhysicalLocation.Region.StartLine
		}
	}
	return row
}

// RuleGroup is every finding reported under a single rule id.
type RuleGroup struct {
	RuleID   string
	Findings []report.Finding
}

// GroupByRule buckets findings by RuleID, preserving the order rule
// ids first appear in and the original order of findings within each
// bucket. Since rules.Run already emits findings in sorted-rule-id
// order (spec.md 4.4 guarantee i), this does no re-sorting of its
// own — it only buckets what is already ordered.
func GroupByRule(findings []report.Finding) []RuleGroup {
	var order []string
	buckets := make(map[string][]report.Finding)
	for _, f := range findings {
		if _, seen := buckets[f.RuleID]; !seen {
			order = append(order, f.RuleID)
		}
		buckets[f.RuleID] = append(buckets[f.RuleID], f)
	}

	groups := make([]RuleGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, RuleGroup{RuleID: id, Findings: buckets[id]})
	}
	return groups
}
