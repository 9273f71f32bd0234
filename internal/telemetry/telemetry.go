// Package telemetry provides the hierarchical span tracer the
// analysis engine uses to record per-phase timing (spec.md 4.6),
// backed by the real go.opentelemetry.io/otel SDK rather than a
// hand-rolled span tree: trace/span id generation, parent/child
// linkage via context.Context, and the active-span-per-context
// pattern are exactly what the SDK already provides. A custom
// SpanExporter renders the buffered spans into the precise JSON shape
// spec.md 6 mandates, since no off-the-shelf OTLP exporter emits that
// exact field layout.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	scopeName    = "inspequte"
	scopeVersion = "0.1.0"
)

// Provider wraps the SDK TracerProvider plus the in-memory span buffer
// its exporter accumulates, and owns the init/shutdown lifecycle
// spec.md 5 describes: init installs it as the process-wide default,
// shutdown drains the buffer to disk and clears the global.
type Provider struct {
	sdk      *sdktrace.TracerProvider
	exporter *bufferExporter
	mu       sync.Mutex
	shutdown bool
}

// Init installs a new Provider as the global default tracer provider.
func Init() (*Provider, error) {
	res, err := sdkresource.New(context.Background(),
		sdkresource.WithAttributes(attribute.String("service.name", "inspequte")),
	)
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}

	exp := &bufferExporter{}
	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSyncer(exp),
	)
	otel.SetTracerProvider(sdk)

	return &Provider{sdk: sdk, exporter: exp}, nil
}

// Tracer returns the engine's instrumentation-scope tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.sdk.Tracer(scopeName, trace.WithInstrumentationVersion(scopeVersion))
}

// Shutdown drains the buffered spans, writes them to path as the
// trace JSON document described in spec.md 6 (one document, a
// trailing newline), and releases the tracer provider. Calling
// Shutdown twice is an error, per spec.md 5.
func (p *Provider) Shutdown(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return fmt.Errorf("telemetry: shutdown called twice")
	}
	p.shutdown = true

	if err := p.sdk.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	otel.SetTracerProvider(noop.NewTracerProvider())

	doc := renderTrace(p.exporter.drain())
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal trace document: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace file %s: %w", path, err)
	}
	return nil
}

// bufferExporter buffers every completed span in memory; spec.md 5
// requires the buffer be guarded by a mutual-exclusion primitive so
// future parallel rule execution stays safe even though rule
// execution itself is sequential today.
type bufferExporter struct {
	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (e *bufferExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *bufferExporter) Shutdown(_ context.Context) error { return nil }

func (e *bufferExporter) drain() []sdktrace.ReadOnlySpan {
	e.mu.Lock()
	defer e.mu.Unlock()
	spans := e.spans
	e.spans = nil
	return spans
}

// traceDocument / resourceSpan / scopeSpan / spanRecord mirror the
// exact JSON field names spec.md 6 specifies.
type traceDocument struct {
	ResourceSpans []resourceSpan `json:"resourceSpans"`
}

type resourceSpan struct {
	Resource   resourceBlock `json:"resource"`
	ScopeSpans []scopeSpan   `json:"scopeSpans"`
}

type resourceBlock struct {
	Attributes []attributeKV `json:"attributes"`
}

type scopeSpan struct {
	Scope instrumentationScope `json:"scope"`
	Spans []spanRecord         `json:"spans"`
}

type instrumentationScope struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type spanRecord struct {
	TraceID           string        `json:"traceId"`
	SpanID            string        `json:"spanId"`
	ParentSpanID      string        `json:"parentSpanId,omitempty"`
	Name              string        `json:"name"`
	Kind              string        `json:"kind"`
	StartTimeUnixNano string        `json:"startTimeUnixNano"`
	EndTimeUnixNano   string        `json:"endTimeUnixNano"`
	Attributes        []attributeKV `json:"attributes,omitempty"`
}

type attributeKV struct {
	Key   string     `json:"key"`
	Value attrValue  `json:"value"`
}

type attrValue struct {
	StringValue *string `json:"stringValue,omitempty"`
	BoolValue   *bool   `json:"boolValue,omitempty"`
	IntValue    *string `json:"intValue,omitempty"`
	DoubleValue *float64 `json:"doubleValue,omitempty"`
}

func renderTrace(spans []sdktrace.ReadOnlySpan) traceDocument {
	type scopeKey struct{ name, version string }
	grouped := make(map[scopeKey][]spanRecord)
	var order []scopeKey

	for _, s := range spans {
		key := scopeKey{s.InstrumentationScope().Name, s.InstrumentationScope().Version}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], renderSpan(s))
	}

	rs := resourceSpan{
		Resource: resourceBlock{Attributes: renderResourceAttributes(spans)},
	}
	for _, key := range order {
		rs.ScopeSpans = append(rs.ScopeSpans, scopeSpan{
			Scope: instrumentationScope{Name: key.name, Version: key.version},
			Spans: grouped[key],
		})
	}

	return traceDocument{ResourceSpans: []resourceSpan{rs}}
}

func renderResourceAttributes(spans []sdktrace.ReadOnlySpan) []attributeKV {
	if len(spans) == 0 {
		return nil
	}
	var out []attributeKV
	for _, kv := range spans[0].Resource().Attributes() {
		out = append(out, renderAttribute(kv))
	}
	return out
}

func renderSpan(s sdktrace.ReadOnlySpan) spanRecord {
	sc := s.SpanContext()
	rec := spanRecord{
		TraceID:           sc.TraceID().String(),
		SpanID:            sc.SpanID().String(),
		Name:              s.Name(),
		Kind:              renderKind(s.SpanKind()),
		StartTimeUnixNano: strconv.FormatInt(s.StartTime().UnixNano(), 10),
		EndTimeUnixNano:   strconv.FormatInt(s.EndTime().UnixNano(), 10),
	}
	if parent := s.Parent(); parent.IsValid() {
		rec.ParentSpanID = parent.SpanID().String()
	}
	for _, kv := range s.Attributes() {
		rec.Attributes = append(rec.Attributes, renderAttribute(kv))
	}
	return rec
}

func renderKind(k trace.SpanKind) string {
	switch k {
	case trace.SpanKindServer:
		return "SPAN_KIND_SERVER"
	case trace.SpanKindClient:
		return "SPAN_KIND_CLIENT"
	case trace.SpanKindProducer:
		return "SPAN_KIND_PRODUCER"
	case trace.SpanKindConsumer:
		return "SPAN_KIND_CONSUMER"
	default:
		return "SPAN_KIND_INTERNAL"
	}
}

func renderAttribute(kv attribute.KeyValue) attributeKV {
	out := attributeKV{Key: string(kv.Key)}
	switch kv.Value.Type() {
	case attribute.BOOL:
		v := kv.Value.AsBool()
		out.Value.BoolValue = &v
	case attribute.INT64:
		v := strconv.FormatInt(kv.Value.AsInt64(), 10)
		out.Value.IntValue = &v
	case attribute.FLOAT64:
		v := kv.Value.AsFloat64()
		out.Value.DoubleValue = &v
	case attribute.STRING:
		v := kv.Value.AsString()
		out.Value.StringValue = &v
	default:
		// Array-valued attributes render as a debug string in
		// stringValue, per spec.md 4.6.
		v := kv.Value.Emit()
		out.Value.StringValue = &v
	}
	return out
}
