package ir

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"inspequte/internal/classfile"
)

func TestMethodLineForOffset(t *testing.T) {
	m := Method{lines: []classfile.LineEntry{
		{StartPC: 0, Line: 10},
		{StartPC: 5, Line: 11},
		{StartPC: 12, Line: 13},
	}}
	tests := []struct {
		offset int
		want   int
	}{
		{0, 10},
		{4, 10},
		{5, 11},
		{11, 11},
		{12, 13},
		{99, 13},
	}
	for _, tt := range tests {
		if got := m.LineForOffset(tt.offset); got != tt.want {
			t.Errorf("LineForOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestMethodLineForOffsetEmpty(t *testing.T) {
	var m Method
	if got := m.LineForOffset(5); got != 0 {
		t.Errorf("LineForOffset on empty table = %d, want 0", got)
	}
}

func TestHasMainMethodJavaEntryPoint(t *testing.T) {
	c := Class{Methods: []Method{
		{Name: "main", Descriptor: "([Ljava/lang/String;)V", AccessFlags: classfile.AccPublic | classfile.AccStatic},
	}}
	if !c.HasMainMethod() {
		t.Error("expected HasMainMethod to be true")
	}
}

func TestHasMainMethodKotlinFacade(t *testing.T) {
	c := Class{Methods: []Method{
		{Name: "main", Descriptor: "()V", AccessFlags: classfile.AccPublic | classfile.AccStatic},
	}}
	if !c.HasMainMethod() {
		t.Error("expected HasMainMethod to be true for Kotlin facade")
	}
}

func TestHasMainMethodRejectsNonPublicStatic(t *testing.T) {
	c := Class{Methods: []Method{
		{Name: "main", Descriptor: "([Ljava/lang/String;)V", AccessFlags: classfile.AccPublic},
	}}
	if c.HasMainMethod() {
		t.Error("expected HasMainMethod to be false for instance method")
	}
}

// buildClassBytes constructs a minimal class named name extending
// java/lang/Object, with no interfaces, fields, methods or class
// attributes. Kept intentionally small: only what Load
// needs to exercise target/classpath merge behavior.
func buildClassBytes(t *testing.T, name string) []byte {
	t.Helper()
	var cpBuf bytes.Buffer
	next := uint16(1)
	u2 := func(v uint16) { binary.Write(&cpBuf, binary.BigEndian, v) }
	utf8 := func(s string) uint16 {
		cpBuf.WriteByte(1)
		u2(uint16(len(s)))
		cpBuf.WriteString(s)
		idx := next
		next++
		return idx
	}
	class := func(nameIdx uint16) uint16 {
		cpBuf.WriteByte(7)
		u2(nameIdx)
		idx := next
		next++
		return idx
	}

	objNameIdx := utf8("java/lang/Object")
	objClassIdx := class(objNameIdx)
	thisNameIdx := utf8(name)
	thisClassIdx := class(thisNameIdx)

	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.BigEndian, v) }
	w(uint32(0xCAFEBABE))
	w(uint16(0))
	w(uint16(65))
	w(next)
	buf.Write(cpBuf.Bytes())
	w(uint16(0x0021)) // public super
	w(thisClassIdx)
	w(objClassIdx)
	w(uint16(0)) // interfaces
	w(uint16(0)) // fields
	w(uint16(0)) // methods
	w(uint16(0)) // class attributes
	return buf.Bytes()
}

func TestLoadTargetWinsOverClasspath(t *testing.T) {
	targetDir := t.TempDir()
	classpathDir := t.TempDir()

	shared := buildClassBytes(t, "com/example/Shared")
	writeClassFile(t, filepath.Join(targetDir, "com", "example", "Shared.class"), shared)
	writeClassFile(t, filepath.Join(classpathDir, "com", "example", "Shared.class"), shared)

	onlyCP := buildClassBytes(t, "com/example/OnlyClasspath")
	writeClassFile(t, filepath.Join(classpathDir, "com", "example", "OnlyClasspath.class"), onlyCP)

	col, errs := Load(targetDir, []string{classpathDir}, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}

	var shared_, onlyCP_ *Class
	for i := range col.Classes {
		switch col.Classes[i].Name {
		case "com/example/Shared":
			shared_ = &col.Classes[i]
		case "com/example/OnlyClasspath":
			onlyCP_ = &col.Classes[i]
		}
	}
	if shared_ == nil {
		t.Fatal("Shared class missing")
	}
	if shared_.Origin != Target {
		t.Errorf("Shared.Origin = %v, want Target", shared_.Origin)
	}
	if onlyCP_ == nil {
		t.Fatal("OnlyClasspath class missing")
	}
	if onlyCP_.Origin != Classpath {
		t.Errorf("OnlyClasspath.Origin = %v, want Classpath", onlyCP_.Origin)
	}
}

func TestLoadAggregatesErrorsAndContinues(t *testing.T) {
	targetDir := t.TempDir()
	writeClassFile(t, filepath.Join(targetDir, "Bad.class"), []byte("not a class file"))
	writeClassFile(t, filepath.Join(targetDir, "Good.class"), buildClassBytes(t, "Good"))

	col, errs := Load(targetDir, nil, nil)
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if len(col.Classes) != 1 || col.Classes[0].Name != "Good" {
		t.Fatalf("Classes = %+v, want exactly [Good]", col.Classes)
	}
}

func writeClassFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
