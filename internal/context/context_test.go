package analysiscontext

import (
	gocontext "context"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"inspequte/internal/ir"
)

func testCollection() *ir.Collection {
	return &ir.Collection{Classes: []ir.Class{
		{Name: "com/example/Foo", Origin: ir.Target, ArtifactURI: "/out/com/example/Foo.class"},
		{Name: "org/slf4j/Logger", Origin: ir.Classpath},
		{Name: "com/example/Bar", Origin: ir.Classpath},
	}}
}

func TestTargetScoping(t *testing.T) {
	ac := New(testCollection(), noop.NewTracerProvider().Tracer("test"))

	targets := ac.AnalysisTargetClasses()
	if len(targets) != 1 || targets[0].Name != "com/example/Foo" {
		t.Fatalf("AnalysisTargetClasses = %+v, want only com/example/Foo", targets)
	}

	foo, ok := ac.ClassByName("com/example/Foo")
	if !ok {
		t.Fatal("expected com/example/Foo to be found")
	}
	if !ac.IsAnalysisTargetClass(foo) {
		t.Error("expected Foo to be a target class")
	}

	bar, ok := ac.ClassByName("com/example/Bar")
	if !ok {
		t.Fatal("expected com/example/Bar to be found")
	}
	if ac.IsAnalysisTargetClass(bar) {
		t.Error("expected Bar to be classpath-only")
	}
}

func TestLibraryPresenceProbes(t *testing.T) {
	ac := New(testCollection(), noop.NewTracerProvider().Tracer("test"))
	if !ac.HasSLF4J() {
		t.Error("expected HasSLF4J to be true")
	}
	if ac.HasLog4j2() {
		t.Error("expected HasLog4j2 to be false")
	}
}

func TestLibraryPresenceAbsent(t *testing.T) {
	col := &ir.Collection{Classes: []ir.Class{{Name: "com/example/Foo", Origin: ir.Target}}}
	ac := New(col, noop.NewTracerProvider().Tracer("test"))
	if ac.HasSLF4J() {
		t.Error("expected HasSLF4J to be false when no slf4j classes are loaded")
	}
}

func TestClassArtifactURI(t *testing.T) {
	ac := New(testCollection(), noop.NewTracerProvider().Tracer("test"))
	foo, _ := ac.ClassByName("com/example/Foo")
	if ac.ClassArtifactURI(foo) != "/out/com/example/Foo.class" {
		t.Errorf("ClassArtifactURI = %q", ac.ClassArtifactURI(foo))
	}
}

func TestWithSpanRunsFn(t *testing.T) {
	ac := New(testCollection(), noop.NewTracerProvider().Tracer("test"))
	ran := false
	err := ac.WithSpan(gocontext.Background(), "rule.run", map[string]any{"inspequte.rule_id": "SYSTEM_EXIT"}, func(ctx gocontext.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSpan: %v", err)
	}
	if !ran {
		t.Error("expected fn to run")
	}
}
