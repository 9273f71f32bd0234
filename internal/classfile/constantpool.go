package classfile

import "fmt"

// cpEntry is one slot of the constant pool. Not every field is used by
// every tag; unused fields are zero. This mirrors the tagged-union
// shape of jacobin's CpType/cpEntry (CPutils.go), simplified since we
// never need to execute the class, only describe it.
type cpEntry struct {
	tag byte

	utf8 string // tagUtf8

	classNameIndex uint16 // tagClass -> utf8 index

	nameIndex uint16 // tagNameAndType, tagMethodHandle-adjacent
	descIndex uint16 // tagNameAndType

	classIndex       uint16 // tagFieldref/Methodref/InterfaceMethodref/Dynamic/InvokeDynamic -> class index (or bootstrap index for Dynamic/InvokeDynamic)
	nameAndTypeIndex uint16 // tagFieldref/Methodref/InterfaceMethodref/Dynamic/InvokeDynamic

	refKind  uint8  // tagMethodHandle
	refIndex uint16 // tagMethodHandle -> Fieldref/Methodref/InterfaceMethodref index
}

// ConstantPool is a parsed JVM constant pool, 1-indexed per JVMS 4.4
// (index 0 is never valid; Long/Double entries occupy two consecutive
// indices, the second of which is unused).
type ConstantPool struct {
	entries []cpEntry // entries[0] is the unused zero slot
}

func (cp *ConstantPool) entry(index uint16) (cpEntry, error) {
	if int(index) <= 0 || int(index) >= len(cp.entries) {
		return cpEntry{}, fmt.Errorf("constant pool index %d out of range", index)
	}
	return cp.entries[index], nil
}

// Utf8 resolves a CONSTANT_Utf8 entry to its string value.
func (cp *ConstantPool) Utf8(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagUtf8 {
		return "", fmt.Errorf("constant pool index %d is not Utf8", index)
	}
	return e.utf8, nil
}

// ClassName resolves a CONSTANT_Class entry to the internal name of
// the class it refers to.
func (cp *ConstantPool) ClassName(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagClass {
		return "", fmt.Errorf("constant pool index %d is not Class", index)
	}
	return cp.Utf8(e.classNameIndex)
}

// NameAndType resolves a CONSTANT_NameAndType entry to its member name
// and descriptor.
func (cp *ConstantPool) NameAndType(index uint16) (name, desc string, err error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", "", err
	}
	if e.tag != tagNameAndType {
		return "", "", fmt.Errorf("constant pool index %d is not NameAndType", index)
	}
	name, err = cp.Utf8(e.nameIndex)
	if err != nil {
		return "", "", err
	}
	desc, err = cp.Utf8(e.descIndex)
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// MemberRef resolves a Fieldref/Methodref/InterfaceMethodref entry to
// its owner class name, member name, and descriptor.
func (cp *ConstantPool) MemberRef(index uint16) (owner, name, desc string, err error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", "", "", err
	}
	switch e.tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", "", "", fmt.Errorf("constant pool index %d is not a member reference", index)
	}
	owner, err = cp.ClassName(e.classIndex)
	if err != nil {
		return "", "", "", err
	}
	name, desc, err = cp.NameAndType(e.nameAndTypeIndex)
	if err != nil {
		return "", "", "", err
	}
	return owner, name, desc, nil
}

// MethodHandle resolves a CONSTANT_MethodHandle entry to the reference
// kind (JVMS 5.4.3.5) and the member reference it wraps.
func (cp *ConstantPool) MethodHandle(index uint16) (refKind uint8, owner, name, desc string, err error) {
	e, err := cp.entry(index)
	if err != nil {
		return 0, "", "", "", err
	}
	if e.tag != tagMethodHandle {
		return 0, "", "", "", fmt.Errorf("constant pool index %d is not MethodHandle", index)
	}
	owner, name, desc, err = cp.MemberRef(e.refIndex)
	if err != nil {
		return 0, "", "", "", err
	}
	return e.refKind, owner, name, desc, nil
}

// Tag returns the raw constant pool tag at index, or 0 if out of range.
func (cp *ConstantPool) Tag(index uint16) byte {
	if int(index) <= 0 || int(index) >= len(cp.entries) {
		return 0
	}
	return cp.entries[index].tag
}

// parseConstantPool reads the constant_pool_count and the constant
// pool entries that follow the magic/version header.
func parseConstantPool(r *byteReader) (*ConstantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	cp := &ConstantPool{entries: make([]cpEntry, count)}

	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		entry := cpEntry{tag: tag}

		switch tag {
		case tagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, err
			}
			entry.utf8 = decodeModifiedUTF8(raw)

		case tagInteger, tagFloat:
			if err := r.skip(4); err != nil {
				return nil, err
			}

		case tagLong, tagDouble:
			if err := r.skip(8); err != nil {
				return nil, err
			}
			// Long/Double occupy two constant pool indices; the next
			// slot is unusable per JVMS 4.4.5.
			cp.entries[i] = entry
			i++
			continue

		case tagClass, tagMethodType, tagModule, tagPackage:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.classNameIndex = idx

		case tagString:
			if _, err := r.u2(); err != nil {
				return nil, err
			}

		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			classIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.classIndex = classIdx
			entry.nameAndTypeIndex = natIdx

		case tagNameAndType:
			nameIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			descIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.nameIndex = nameIdx
			entry.descIndex = descIdx

		case tagMethodHandle:
			refKind, err := r.u1()
			if err != nil {
				return nil, err
			}
			refIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.refKind = refKind
			entry.refIndex = refIdx

		case tagDynamic, tagInvokeDynamic:
			bootstrapIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.classIndex = bootstrapIdx // reused as bootstrap method attr index
			entry.nameAndTypeIndex = natIdx

		default:
			return nil, &ClassFileError{Reason: fmt.Sprintf("unknown constant pool tag %d", tag)}
		}

		cp.entries[i] = entry
	}

	return cp, nil
}

// decodeModifiedUTF8 decodes the JVM's "modified UTF-8" encoding
// (JVMS 4.4.7). It differs from standard UTF-8 only in how it encodes
// NUL and supplementary-plane characters; for the class/member/
// descriptor names the rule corpus cares about, plain byte-for-byte
// treatment as UTF-8 is observationally identical, so we decode the
// common case directly and fall back to the raw bytes for the rare
// 6-byte surrogate-pair encoding rather than reimplementing a full
// CESU-8 decoder.
func decodeModifiedUTF8(raw []byte) string {
	return string(raw)
}
