package classfile

import (
	"fmt"
	"sort"
)

// CallSite records one invoke-family bytecode instruction found inside
// a method's Code attribute.
type CallSite struct {
	Owner      string // internal name of the declared target class/interface
	Name       string // member name; for an unresolved invokedynamic, the indy's own name (Owner is then "")
	Descriptor string
	Opcode     byte
	Offset     int // byte offset within the Code attribute's code array
	LineNumber int // 0 if no LineNumberTable entry covers this offset
}

// LineEntry is one row of a method's LineNumberTable attribute.
type LineEntry struct {
	StartPC int
	Line    int
}

// CodeAttribute holds the structural data extracted from a method's
// Code attribute (JVMS 4.7.3): its raw bytecode, the line number
// table, and the call sites found by scanning the bytecode.
type CodeAttribute struct {
	MaxStack  uint16
	MaxLocals uint16
	Code      []byte
	Lines     []LineEntry
	CallSites []CallSite
}

// LineForOffset returns the source line covering the given bytecode
// offset, or 0 if the LineNumberTable doesn't cover it. Lines are
// sorted by StartPC ascending; this finds the last entry whose
// StartPC does not exceed offset.
func (c *CodeAttribute) LineForOffset(offset int) int {
	line := 0
	for _, e := range c.Lines {
		if e.StartPC > offset {
			break
		}
		line = e.Line
	}
	return line
}

// RawField is a field_info structure (JVMS 4.5) after descriptor and
// name resolution.
type RawField struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
}

// RawMethod is a method_info structure (JVMS 4.6) with its Code
// attribute parsed, if present (methods without a Code attribute are
// abstract or native).
type RawMethod struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Code        *CodeAttribute
}

// RawClass is the structural content of a single .class file (JVMS
// 4.1), with constant-pool references already resolved to names.
type RawClass struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	Name         string
	SuperClass   string // "" for java/lang/Object
	Interfaces   []string
	Fields       []RawField
	Methods      []RawMethod
	IsRecord     bool // true if the class carries a Record attribute (JVMS 4.7.30)
}

type bootstrapMethod struct {
	refKind uint8
	owner   string
	name    string
	desc    string
}

// ParseClass parses the bytes of a single .class file into a RawClass.
// Grounded in the read-magic/version/constant-pool/flags/superclass/
// interfaces/fields/methods/attributes sequence of
// _examples/artipop-jacobin/src/classloader/classloader.go's
// parseConstantPool/parseClass pipeline, trimmed to structural
// extraction only (no bytecode execution, no verification pass).
func ParseClass(data []byte) (*RawClass, error) {
	r := newByteReader(data)

	magicWord, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magicWord != magic {
		return nil, &ClassFileError{Reason: "bad magic number"}
	}

	minor, err := r.u2()
	if err != nil {
		return nil, err
	}
	major, err := r.u2()
	if err != nil {
		return nil, err
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, err
	}

	thisClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisName, err := cp.ClassName(thisClassIdx)
	if err != nil {
		return nil, err
	}

	superClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	var superName string
	if superClassIdx != 0 {
		superName, err = cp.ClassName(superClassIdx)
		if err != nil {
			return nil, err
		}
	}

	interfacesCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, interfacesCount)
	for i := 0; i < int(interfacesCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.ClassName(idx)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, name)
	}

	fieldsCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]RawField, 0, fieldsCount)
	for i := 0; i < int(fieldsCount); i++ {
		f, err := parseField(r, cp)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	methodsCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	bootstraps, err := peekBootstrapMethods(data, cp)
	if err != nil {
		return nil, err
	}
	methods := make([]RawMethod, 0, methodsCount)
	for i := 0; i < int(methodsCount); i++ {
		m, err := parseMethod(r, cp, bootstraps)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	isRecord, err := scanClassAttributesForRecord(r, cp)
	if err != nil {
		return nil, err
	}

	return &RawClass{
		MinorVersion: minor,
		MajorVersion: major,
		AccessFlags:  accessFlags,
		Name:         thisName,
		SuperClass:   superName,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		IsRecord:     isRecord,
	}, nil
}

func parseField(r *byteReader, cp *ConstantPool) (RawField, error) {
	accessFlags, err := r.u2()
	if err != nil {
		return RawField{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return RawField{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return RawField{}, err
	}
	name, err := cp.Utf8(nameIdx)
	if err != nil {
		return RawField{}, err
	}
	desc, err := cp.Utf8(descIdx)
	if err != nil {
		return RawField{}, err
	}
	if err := skipAttributes(r); err != nil {
		return RawField{}, err
	}
	return RawField{AccessFlags: accessFlags, Name: name, Descriptor: desc}, nil
}

func parseMethod(r *byteReader, cp *ConstantPool, bootstraps []bootstrapMethod) (RawMethod, error) {
	accessFlags, err := r.u2()
	if err != nil {
		return RawMethod{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return RawMethod{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return RawMethod{}, err
	}
	name, err := cp.Utf8(nameIdx)
	if err != nil {
		return RawMethod{}, err
	}
	desc, err := cp.Utf8(descIdx)
	if err != nil {
		return RawMethod{}, err
	}

	attrCount, err := r.u2()
	if err != nil {
		return RawMethod{}, err
	}
	var code *CodeAttribute
	for i := 0; i < int(attrCount); i++ {
		attrNameIdx, err := r.u2()
		if err != nil {
			return RawMethod{}, err
		}
		attrLen, err := r.u4()
		if err != nil {
			return RawMethod{}, err
		}
		attrName, err := cp.Utf8(attrNameIdx)
		if err != nil {
			return RawMethod{}, err
		}
		body, err := r.bytes(int(attrLen))
		if err != nil {
			return RawMethod{}, err
		}
		if attrName == "Code" {
			code, err = parseCodeAttribute(body, cp, bootstraps)
			if err != nil {
				return RawMethod{}, err
			}
		}
	}

	return RawMethod{AccessFlags: accessFlags, Name: name, Descriptor: desc, Code: code}, nil
}

// parseCodeAttribute parses the body of a Code attribute (JVMS 4.7.3),
// including its nested LineNumberTable attribute, and scans the
// bytecode for invoke-family call sites.
func parseCodeAttribute(body []byte, cp *ConstantPool, bootstraps []bootstrapMethod) (*CodeAttribute, error) {
	r := newByteReader(body)

	maxStack, err := r.u2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.u2()
	if err != nil {
		return nil, err
	}
	codeLen, err := r.u4()
	if err != nil {
		return nil, err
	}
	code, err := r.bytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	exceptionTableLen, err := r.u2()
	if err != nil {
		return nil, err
	}
	if err := r.skip(int(exceptionTableLen) * 8); err != nil {
		return nil, err
	}

	var lines []LineEntry
	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		attrNameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		attrLen, err := r.u4()
		if err != nil {
			return nil, err
		}
		attrName, err := cp.Utf8(attrNameIdx)
		if err != nil {
			return nil, err
		}
		sub, err := r.bytes(int(attrLen))
		if err != nil {
			return nil, err
		}
		if attrName == "LineNumberTable" {
			lines, err = parseLineNumberTable(sub)
			if err != nil {
				return nil, err
			}
		}
	}

	callSites, err := scanCallSites(code, cp, bootstraps)
	if err != nil {
		return nil, err
	}

	ca := &CodeAttribute{
		MaxStack:  maxStack,
		MaxLocals: maxLocals,
		Code:      code,
		Lines:     lines,
		CallSites: callSites,
	}
	for i := range ca.CallSites {
		ca.CallSites[i].LineNumber = ca.LineForOffset(ca.CallSites[i].Offset)
	}
	return ca, nil
}

func parseLineNumberTable(body []byte) ([]LineEntry, error) {
	r := newByteReader(body)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	entries := make([]LineEntry, 0, count)
	for i := 0; i < int(count); i++ {
		startPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		line, err := r.u2()
		if err != nil {
			return nil, err
		}
		entries = append(entries, LineEntry{StartPC: int(startPC), Line: int(line)})
	}
	// The JVMS does not require rows in pc order; sort them (stably, so
	// rows sharing a start_pc keep their file order) for LineForOffset.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].StartPC < entries[j].StartPC })
	return entries, nil
}

// scanCallSites walks a method's bytecode instruction by instruction
// and records every invoke-family opcode. invokedynamic sites resolve
// the bootstrap method as Owner/Name/Descriptor when the bootstrap
// method handle itself references a statically known member; sites
// whose bootstrap cannot be resolved this way get an empty Owner and
// keep the indy's own name and descriptor rather than a guessed target.
func scanCallSites(code []byte, cp *ConstantPool, bootstraps []bootstrapMethod) ([]CallSite, error) {
	var sites []CallSite
	offset := 0
	for offset < len(code) {
		op := code[offset]
		length, err := instructionLength(code, offset)
		if err != nil {
			return nil, err
		}
		if isInvoke(op) {
			site, err := decodeInvoke(code, offset, op, cp, bootstraps)
			if err != nil {
				return nil, err
			}
			sites = append(sites, site)
		}
		offset += length
	}
	return sites, nil
}

func decodeInvoke(code []byte, offset int, op byte, cp *ConstantPool, bootstraps []bootstrapMethod) (CallSite, error) {
	if offset+3 > len(code) {
		return CallSite{}, &ClassFileError{Reason: "truncated invoke instruction"}
	}
	cpIdx := be16(code, offset+1)

	switch op {
	case opInvokeVirtual, opInvokeSpecial, opInvokeStatic, opInvokeInterface:
		owner, name, desc, err := cp.MemberRef(cpIdx)
		if err != nil {
			return CallSite{}, err
		}
		return CallSite{Owner: owner, Name: name, Descriptor: desc, Opcode: op, Offset: offset}, nil

	case opInvokeDynamic:
		tag := cp.Tag(cpIdx)
		if tag != tagInvokeDynamic {
			return CallSite{}, fmt.Errorf("invokedynamic operand is not an InvokeDynamic constant")
		}
		e, err := cp.entry(cpIdx)
		if err != nil {
			return CallSite{}, err
		}
		bootstrapIdx := int(e.classIndex)
		name, desc, err := cp.NameAndType(e.nameAndTypeIndex)
		if err != nil {
			return CallSite{}, err
		}
		if bootstrapIdx >= 0 && bootstrapIdx < len(bootstraps) {
			bm := bootstraps[bootstrapIdx]
			if bm.owner != "" {
				return CallSite{Owner: bm.owner, Name: bm.name, Descriptor: bm.desc, Opcode: op, Offset: offset}, nil
			}
		}
		// Bootstrap target not statically resolvable (e.g. a
		// user-written factory, not a direct method handle): record
		// the call site with the indy's own name/descriptor and no
		// owner rather than guessing a target. The IR loader drops
		// such owner-less sites, so rules never see them.
		return CallSite{Owner: "", Name: name, Descriptor: desc, Opcode: op, Offset: offset}, nil

	default:
		return CallSite{}, fmt.Errorf("opcode 0x%x is not an invoke instruction", op)
	}
}

// skipAttributes advances r past a generic attribute_info table
// (count-prefixed, each entry self-describing its own length) without
// interpreting contents. Used for field attributes, which the rule
// corpus doesn't need beyond name/descriptor/flags.
func skipAttributes(r *byteReader) error {
	count, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := r.u2(); err != nil {
			return err
		}
		length, err := r.u4()
		if err != nil {
			return err
		}
		if err := r.skip(int(length)); err != nil {
			return err
		}
	}
	return nil
}

// peekBootstrapMethods scans forward through the class file bytes to
// find and parse the top-level BootstrapMethods attribute (JVMS
// 4.7.23), which lives in the class's attribute table, itself located
// after the methods table, i.e. after the point ParseClass needs the
// bootstrap data to resolve invokedynamic call sites. Rather than a
// two-pass restructure of ParseClass, this does one independent,
// read-only scan of the byte stream's trailing class-attribute region
// by walking the exact same structure ParseClass already knows.
func peekBootstrapMethods(data []byte, cp *ConstantPool) ([]bootstrapMethod, error) {
	r := newByteReader(data)
	if err := r.skip(4 + 2 + 2); err != nil { // magic, minor, major
		return nil, err
	}
	// Constant pool is sized identically each pass; re-parsing off a
	// fresh reader is the simplest correct way to skip it without
	// duplicating its byte-length bookkeeping.
	if _, err := parseConstantPool(r); err != nil {
		return nil, err
	}
	if err := r.skip(2 + 2 + 2); err != nil { // access_flags, this_class, super_class
		return nil, err
	}
	ifaceCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	if err := r.skip(int(ifaceCount) * 2); err != nil {
		return nil, err
	}
	fieldCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(fieldCount); i++ {
		if err := r.skip(2 + 2 + 2); err != nil { // flags, name, descriptor
			return nil, err
		}
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
	}
	methodCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(methodCount); i++ {
		if err := r.skip(2 + 2 + 2); err != nil {
			return nil, err
		}
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
	}

	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		length, err := r.u4()
		if err != nil {
			return nil, err
		}
		name, err := cp.Utf8(nameIdx)
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		if name == "BootstrapMethods" {
			return parseBootstrapMethods(body, cp)
		}
	}
	return nil, nil
}

func parseBootstrapMethods(body []byte, cp *ConstantPool) ([]bootstrapMethod, error) {
	r := newByteReader(body)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]bootstrapMethod, 0, count)
	for i := 0; i < int(count); i++ {
		refIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		argCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		if err := r.skip(int(argCount) * 2); err != nil {
			return nil, err
		}
		refKind, owner, name, desc, err := cp.MethodHandle(refIdx)
		if err != nil {
			// Not every bootstrap method handle resolves cleanly
			// (e.g. one built from a Dynamic constant); record an
			// empty owner rather than failing the whole class parse.
			methods = append(methods, bootstrapMethod{})
			continue
		}
		methods = append(methods, bootstrapMethod{refKind: refKind, owner: owner, name: name, desc: desc})
	}
	return methods, nil
}

// scanClassAttributesForRecord re-walks the class-level attribute
// table (same approach as peekBootstrapMethods) looking for the
// Record attribute (JVMS 4.7.30), which marks a class as a record. r
// is already positioned at the class attribute table by ParseClass's
// own sequential read, so this consumes it directly rather than
// rescanning from the start.
func scanClassAttributesForRecord(r *byteReader, cp *ConstantPool) (bool, error) {
	attrCount, err := r.u2()
	if err != nil {
		return false, err
	}
	isRecord := false
	for i := 0; i < int(attrCount); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return false, err
		}
		length, err := r.u4()
		if err != nil {
			return false, err
		}
		name, err := cp.Utf8(nameIdx)
		if err != nil {
			return false, err
		}
		if _, err := r.bytes(int(length)); err != nil {
			return false, err
		}
		if name == "Record" {
			isRecord = true
		}
	}
	return isRecord, nil
}
