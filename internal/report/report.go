// Package report builds findings in the structured, SARIF-shaped
// report format spec.md 4.3 and 6 mandate: logical locations for
// classes/methods, physical locations with container-aware URI
// decoding, and a single report document aggregating every rule's
// output.
//
// Grounded in the field-naming discipline of
// _examples/bisibesi-spec-recon/internal/model/api.go (one exported
// struct per report shape, doc comment per field), adapted from API
// documentation records to finding records.
package report

import (
	"encoding/json"
	"strings"
)

// Message is the plain-text body of a finding.
type Message struct {
	Text string `json:"text"`
}

// ArtifactLocation names the physical file or container entry a
// finding's region belongs to.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region is a span inside an ArtifactLocation; only StartLine is
// modeled, per spec.md 4.3 (no column tracking).
type Region struct {
	StartLine int `json:"startLine"`
}

// PhysicalLocation pairs an artifact with an optional region.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// LogicalLocation names a class or method symbolically, independent
// of any physical file.
type LogicalLocation struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "type" or "function"
}

// Location is a finding's place in the analyzed code: a logical
// location, an optional physical location, or both.
type Location struct {
	LogicalLocations []LogicalLocation `json:"logicalLocations,omitempty"`
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
}

// Finding is one rule's report entry.
type Finding struct {
	RuleID    string     `json:"ruleId"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Report is the full output of one analysis invocation.
type Report struct {
	Findings []Finding `json:"findings"`
}

// decodeContainerURI splits a jar:<inner>!/<entry> URI into its inner
// container URI per spec.md 8 invariant 5; any URI without the jar:
// prefix decodes to itself.
func decodeContainerURI(uri string) (inner string, isContainer bool) {
	if !strings.HasPrefix(uri, "jar:") {
		return uri, false
	}
	rest := strings.TrimPrefix(uri, "jar:")
	idx := strings.Index(rest, "!/")
	if idx < 0 {
		return uri, false
	}
	return rest[:idx], true
}

// ClassLocation builds the location for a class-shape or class-local
// finding, per spec.md 4.3: a logical "type" location, plus a
// physical location (no region) whenever artifactURI is non-empty:
// the decoded container URI for a jar entry, the raw URI otherwise.
func ClassLocation(className string, artifactURI string) Location {
	loc := Location{
		LogicalLocations: []LogicalLocation{{Name: className, Kind: "type"}},
	}
	if artifactURI == "" {
		return loc
	}
	uri := artifactURI
	if inner, isContainer := decodeContainerURI(artifactURI); isContainer {
		uri = inner
	}
	loc.PhysicalLocation = &PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: uri}}
	return loc
}

// MethodLocationWithLine builds the location for a call-site or
// method-shape finding, per spec.md 4.3:
//   - a logical "function" location named "<class>.<method><descriptor>"
//   - outside a container: a physical location with a region carrying
//     startLine, when line > 0
//   - inside a container: a physical location with the decoded
//     container URI and no region (line numbers describe sources, not
//     archives)
//   - no .class URI at all: no physical location
func MethodLocationWithLine(class, method, descriptor, artifactURI string, line int) Location {
	loc := Location{
		LogicalLocations: []LogicalLocation{{
			Name: class + "." + method + descriptor,
			Kind: "function",
		}},
	}

	if artifactURI == "" {
		return loc
	}

	if inner, isContainer := decodeContainerURI(artifactURI); isContainer {
		loc.PhysicalLocation = &PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: inner}}
		return loc
	}

	if strings.HasSuffix(artifactURI, ".class") {
		phys := &PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: artifactURI}}
		if line > 0 {
			phys.Region = &Region{StartLine: line}
		}
		loc.PhysicalLocation = phys
	}
	return loc
}

// Marshal renders the report as indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
