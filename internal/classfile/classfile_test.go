package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// cpBuilder assembles a constant pool and the matching class file
// bytes for tests, without ever touching a real javac-compiled
// .class binary (SPEC_FULL.md 4.7: test fixtures are built in code,
// never checked in as binaries).
type cpBuilder struct {
	buf  bytes.Buffer
	next uint16 // next free constant pool index, starting at 1
}

func newCPBuilder() *cpBuilder {
	return &cpBuilder{next: 1}
}

func (b *cpBuilder) u1(v byte)    { b.buf.WriteByte(v) }
func (b *cpBuilder) u2(v uint16)  { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *cpBuilder) u4(v uint32)  { binary.Write(&b.buf, binary.BigEndian, v) }

func (b *cpBuilder) utf8(s string) uint16 {
	b.u1(tagUtf8)
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
	idx := b.next
	b.next++
	return idx
}

func (b *cpBuilder) class(nameIdx uint16) uint16 {
	b.u1(tagClass)
	b.u2(nameIdx)
	idx := b.next
	b.next++
	return idx
}

func (b *cpBuilder) nameAndType(nameIdx, descIdx uint16) uint16 {
	b.u1(tagNameAndType)
	b.u2(nameIdx)
	b.u2(descIdx)
	idx := b.next
	b.next++
	return idx
}

func (b *cpBuilder) methodref(classIdx, natIdx uint16) uint16 {
	b.u1(tagMethodref)
	b.u2(classIdx)
	b.u2(natIdx)
	idx := b.next
	b.next++
	return idx
}

// classBuilder builds a full minimal class file around a cpBuilder.
type classBuilder struct {
	cp         *cpBuilder
	thisName   uint16
	superName  uint16
	methodName uint16
	methodDesc uint16
	callOwner  uint16
	callName   uint16
	callDesc   uint16
	callMethod uint16
}

// buildMinimalClass assembles a class "com/example/Sample" extending
// java/lang/Object with a single method "run" of descriptor "()V"
// whose Code attribute contains: invokestatic java/lang/System.exit:(I)V
// at offset 0, then return. Its LineNumberTable has two rows, both at
// start_pc 0, mapping to line 10 and then line 11; the later row wins,
// so the invoke's line is 11.
func buildMinimalClass(t *testing.T) []byte {
	t.Helper()
	cp := newCPBuilder()

	objectNameIdx := cp.utf8("java/lang/Object")
	objectClassIdx := cp.class(objectNameIdx)

	thisNameIdx := cp.utf8("com/example/Sample")
	thisClassIdx := cp.class(thisNameIdx)

	ownerNameIdx := cp.utf8("java/lang/System")
	ownerClassIdx := cp.class(ownerNameIdx)

	exitNameIdx := cp.utf8("exit")
	exitDescIdx := cp.utf8("(I)V")
	exitNatIdx := cp.nameAndType(exitNameIdx, exitDescIdx)
	exitMethodrefIdx := cp.methodref(ownerClassIdx, exitNatIdx)

	codeAttrNameIdx := cp.utf8("Code")
	lineTableAttrNameIdx := cp.utf8("LineNumberTable")

	runNameIdx := cp.utf8("run")
	runDescIdx := cp.utf8("()V")

	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.BigEndian, v) }

	w(uint32(magic))
	w(uint16(0))  // minor
	w(uint16(65)) // major

	w(cp.next) // constant_pool_count
	buf.Write(cp.buf.Bytes())

	w(uint16(AccPublic | AccSuper)) // access_flags
	w(thisClassIdx)                 // this_class
	w(objectClassIdx)                // super_class
	w(uint16(0))                     // interfaces_count

	w(uint16(0)) // fields_count

	w(uint16(1)) // methods_count

	// method_info: run ()V
	w(uint16(AccPublic))
	w(runNameIdx)
	w(runDescIdx)
	w(uint16(1)) // attributes_count (Code)

	// Code attribute body.
	var code bytes.Buffer
	cw := func(v interface{}) { binary.Write(&code, binary.BigEndian, v) }
	cw(uint16(2)) // max_stack
	cw(uint16(1)) // max_locals

	var instrs bytes.Buffer
	iw := func(v interface{}) { binary.Write(&instrs, binary.BigEndian, v) }
	invokeOffset := instrs.Len()
	_ = invokeOffset
	instrs.WriteByte(opInvokeStatic)
	iw(exitMethodrefIdx)
	instrs.WriteByte(0xb1) // return

	cw(uint32(instrs.Len()))
	code.Write(instrs.Bytes())

	cw(uint16(0)) // exception_table_length

	// LineNumberTable attribute inside Code.
	var lnt bytes.Buffer
	lw := func(v interface{}) { binary.Write(&lnt, binary.BigEndian, v) }
	lw(uint16(2)) // line_number_table_length
	lw(uint16(0)) // start_pc
	lw(uint16(10))
	lw(uint16(0)) // start_pc of invoke (it's the first instruction)
	lw(uint16(11))

	cw(uint16(1)) // attributes_count on Code
	cw(lineTableAttrNameIdx)
	cw(uint32(lnt.Len()))
	code.Write(lnt.Bytes())

	w(codeAttrNameIdx)
	w(uint32(code.Len()))
	buf.Write(code.Bytes())

	w(uint16(0)) // class attributes_count

	return buf.Bytes()
}

func TestParseClassBasics(t *testing.T) {
	data := buildMinimalClass(t)
	class, err := ParseClass(data)
	if err != nil {
		t.Fatalf("ParseClass: %v", err)
	}
	if class.Name != "com/example/Sample" {
		t.Errorf("Name = %q, want com/example/Sample", class.Name)
	}
	if class.SuperClass != "java/lang/Object" {
		t.Errorf("SuperClass = %q, want java/lang/Object", class.SuperClass)
	}
	if len(class.Methods) != 1 {
		t.Fatalf("len(Methods) = %d, want 1", len(class.Methods))
	}
	if class.IsRecord {
		t.Errorf("IsRecord = true, want false")
	}
}

func TestParseClassCallSite(t *testing.T) {
	data := buildMinimalClass(t)
	class, err := ParseClass(data)
	if err != nil {
		t.Fatalf("ParseClass: %v", err)
	}
	m := class.Methods[0]
	if m.Name != "run" {
		t.Fatalf("method name = %q, want run", m.Name)
	}
	if m.Code == nil {
		t.Fatal("expected Code attribute")
	}
	if len(m.Code.CallSites) != 1 {
		t.Fatalf("len(CallSites) = %d, want 1", len(m.Code.CallSites))
	}
	cs := m.Code.CallSites[0]
	if cs.Owner != "java/lang/System" || cs.Name != "exit" || cs.Descriptor != "(I)V" {
		t.Errorf("call site = %+v, want System.exit(I)V", cs)
	}
	if cs.LineNumber != 10 {
		t.Errorf("LineNumber = %d, want 10", cs.LineNumber)
	}
}

func TestLineForOffset(t *testing.T) {
	c := &CodeAttribute{
		Lines: []LineEntry{
			{StartPC: 0, Line: 5},
			{StartPC: 4, Line: 6},
			{StartPC: 10, Line: 8},
		},
	}
	tests := []struct {
		offset int
		want   int
	}{
		{0, 5},
		{1, 5},
		{4, 6},
		{9, 6},
		{10, 8},
		{100, 8},
	}
	for _, tt := range tests {
		if got := c.LineForOffset(tt.offset); got != tt.want {
			t.Errorf("LineForOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestParseClassBadMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	if _, err := ParseClass(data); err == nil {
		t.Fatal("expected error for bad magic number")
	}
}

func TestParseClassTruncated(t *testing.T) {
	data := buildMinimalClass(t)
	truncated := data[:len(data)-5]
	if _, err := ParseClass(truncated); err == nil {
		t.Fatal("expected error for truncated class file")
	}
}

func TestInstructionLengthTableswitch(t *testing.T) {
	// tableswitch at offset 0: opcode + 3 pad bytes + default(4) + low(4) + high(4) + 2 offsets(8)
	code := make([]byte, 1+3+4+4+4+8)
	code[0] = opTableswitch
	binary.BigEndian.PutUint32(code[4:8], 0)  // default
	binary.BigEndian.PutUint32(code[8:12], 0) // low
	binary.BigEndian.PutUint32(code[12:16], 1) // high -> 2 entries
	length, err := instructionLength(code, 0)
	if err != nil {
		t.Fatalf("instructionLength: %v", err)
	}
	if length != len(code) {
		t.Errorf("length = %d, want %d", length, len(code))
	}
}

func TestInstructionLengthWideIinc(t *testing.T) {
	code := []byte{opWide, 0x84, 0x00, 0x01, 0x00, 0x02}
	length, err := instructionLength(code, 0)
	if err != nil {
		t.Fatalf("instructionLength: %v", err)
	}
	if length != 6 {
		t.Errorf("length = %d, want 6", length)
	}
}

func TestInstructionLengthFixed(t *testing.T) {
	code := []byte{0xb1} // return, 0 operands
	length, err := instructionLength(code, 0)
	if err != nil {
		t.Fatalf("instructionLength: %v", err)
	}
	if length != 1 {
		t.Errorf("length = %d, want 1", length)
	}
}
