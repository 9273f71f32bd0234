// Package context builds the AnalysisContext the rule corpus runs
// over: a class index, target-vs-classpath scoping predicates,
// library-presence probes, and a span wrapper bridging into
// internal/telemetry.
//
// Grounded in the map-indexed-by-name lookup shape of
// _examples/bisibesi-spec-recon/internal/linker/pool.go's
// ComponentPool (ClassMap keyed by fully qualified name), adapted
// from a cross-reference index for call-chain linking to a read-only
// analysis index for rule evaluation.
package analysiscontext

import (
	gocontext "context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"inspequte/internal/ir"
)

// wellKnownLibraryMarkers maps a library-presence probe name to the
// class-name prefix that, if observed anywhere in the loaded class
// collection, marks the library as present (spec.md 4.5).
var wellKnownLibraryMarkers = map[string]string{
	"slf4j":  "org/slf4j/",
	"log4j2": "org/apache/logging/log4j/",
}

// AnalysisContext is built once per invocation and never mutated
// afterward (spec.md 3, 4.5).
type AnalysisContext struct {
	classes      []ir.Class
	byName       map[string]*ir.Class
	libPresence  map[string]bool
	tracer       trace.Tracer
}

// New builds an AnalysisContext over a loaded Collection and the
// engine's tracer.
func New(col *ir.Collection, tracer trace.Tracer) *AnalysisContext {
	byName := make(map[string]*ir.Class, len(col.Classes))
	classes := make([]ir.Class, len(col.Classes))
	copy(classes, col.Classes)
	for i := range classes {
		byName[classes[i].Name] = &classes[i]
	}

	presence := make(map[string]bool, len(wellKnownLibraryMarkers))
	for lib, prefix := range wellKnownLibraryMarkers {
		for i := range classes {
			if strings.HasPrefix(classes[i].Name, prefix) {
				presence[lib] = true
				break
			}
		}
	}

	return &AnalysisContext{
		classes:     classes,
		byName:      byName,
		libPresence: presence,
		tracer:      tracer,
	}
}

// ClassByName returns the class with the given internal name, if
// loaded (target or classpath).
func (c *AnalysisContext) ClassByName(name string) (*ir.Class, bool) {
	cl, ok := c.byName[name]
	return cl, ok
}

// AllClasses returns every loaded class, target and classpath alike,
// for library-presence queries and cross-references.
func (c *AnalysisContext) AllClasses() []ir.Class {
	return c.classes
}

// IsAnalysisTargetClass reports whether a class's origin is Target.
func (c *AnalysisContext) IsAnalysisTargetClass(cl *ir.Class) bool {
	return cl.Origin == ir.Target
}

// AnalysisTargetClasses yields only target classes, in load order.
func (c *AnalysisContext) AnalysisTargetClasses() []ir.Class {
	var out []ir.Class
	for _, cl := range c.classes {
		if cl.Origin == ir.Target {
			out = append(out, cl)
		}
	}
	return out
}

// HasSLF4J reports whether org/slf4j/* was observed among the loaded
// classes.
func (c *AnalysisContext) HasSLF4J() bool { return c.libPresence["slf4j"] }

// HasLog4j2 reports whether org/apache/logging/log4j/* was observed
// among the loaded classes.
func (c *AnalysisContext) HasLog4j2() bool { return c.libPresence["log4j2"] }

// ClassArtifactURI returns the artifact URI a class was loaded from,
// or "" if unknown.
func (c *AnalysisContext) ClassArtifactURI(cl *ir.Class) string {
	return cl.ArtifactURI
}

// WithSpan creates a span named name as a child of the span active on
// ctx (or a root span if none is active), attaches attributes, runs
// fn with the span's context, and closes the span on return. Keys in
// attributes should follow the "inspequte.<name>" convention (spec.md
// 4.5); values may be string, bool, int, or float64.
func (c *AnalysisContext) WithSpan(ctx gocontext.Context, name string, attributes map[string]any, fn func(gocontext.Context) error) error {
	spanCtx, span := c.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attributes)...))
	defer span.End()
	return fn(spanCtx)
}

func toAttributes(attrs map[string]any) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			kvs = append(kvs, attribute.String(k, val))
		case bool:
			kvs = append(kvs, attribute.Bool(k, val))
		case int:
			kvs = append(kvs, attribute.Int(k, val))
		case int64:
			kvs = append(kvs, attribute.Int64(k, val))
		case float64:
			kvs = append(kvs, attribute.Float64(k, val))
		default:
			kvs = append(kvs, attribute.String(k, toDebugString(val)))
		}
	}
	return kvs
}

func toDebugString(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return "<unsupported attribute value>"
}
