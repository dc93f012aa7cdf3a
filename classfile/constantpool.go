package classfile

import "math"

// Constant pool tags (JVMS §4.4).
const (
	tagUTF8               = 1
	tagInteger             = 3
	tagFloat              = 4
	tagLong                = 5
	tagDouble              = 6
	tagClass               = 7
	tagString              = 8
	tagFieldref            = 9
	tagMethodref           = 10
	tagInterfaceMethodref  = 11
	tagNameAndType         = 12
)

// poolKey identifies one constant pool entry for deduplication purposes;
// entries that differ only in index are structurally equal and must share
// a slot (spec SUPPLEMENTED FEATURES: "Constant pool deduplication").
type poolKey struct {
	tag  byte
	a, b uint16  // operand indices, meaningful per-tag
	s    string  // UTF8/literal payload
	i    int64   // integer/long payload
	f32  float32 // float payload
	f64  float64 // double payload
}

// ConstantPool is the deduplicating constant pool of one class file.
// Index 0 is reserved (JVMS §4.1: "valid indices ... 1 through
// constant_pool_count - 1"); entries are 1-indexed to match.
type ConstantPool struct {
	entries []poolEntry
	index   map[poolKey]uint16
}

type poolEntry struct {
	key  poolKey
	wide bool // true for Long/Double, which occupy two pool slots (JVMS §4.4.5)
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{index: make(map[poolKey]uint16)}
}

func (p *ConstantPool) intern(k poolKey, wide bool) uint16 {
	if idx, ok := p.index[k]; ok {
		return idx
	}
	idx := uint16(len(p.entries) + 1)
	p.entries = append(p.entries, poolEntry{key: k, wide: wide})
	p.index[k] = idx
	if wide {
		// Long/Double entries burn the following slot too (JVMS §4.4.5);
		// nothing else may ever resolve to it.
		p.entries = append(p.entries, poolEntry{})
	}
	return idx
}

// UTF8 interns a UTF8 constant and returns its pool index.
func (p *ConstantPool) UTF8(s string) uint16 {
	return p.intern(poolKey{tag: tagUTF8, s: s}, false)
}

// Integer interns a 4-byte int constant.
func (p *ConstantPool) Integer(v int32) uint16 {
	return p.intern(poolKey{tag: tagInteger, i: int64(v)}, false)
}

// Float interns a 4-byte float constant.
func (p *ConstantPool) Float(v float32) uint16 {
	return p.intern(poolKey{tag: tagFloat, f32: v}, false)
}

// Long interns an 8-byte long constant.
func (p *ConstantPool) Long(v int64) uint16 {
	return p.intern(poolKey{tag: tagLong, i: v}, true)
}

// Double interns an 8-byte double constant.
func (p *ConstantPool) Double(v float64) uint16 {
	return p.intern(poolKey{tag: tagDouble, f64: v}, true)
}

// Class interns a CONSTANT_Class pointing at the UTF8 for internalName.
func (p *ConstantPool) Class(internalName string) uint16 {
	name := p.UTF8(internalName)
	return p.intern(poolKey{tag: tagClass, a: name}, false)
}

// String interns a CONSTANT_String pointing at the UTF8 for s.
func (p *ConstantPool) String(s string) uint16 {
	utf8 := p.UTF8(s)
	return p.intern(poolKey{tag: tagString, a: utf8}, false)
}

// NameAndType interns a CONSTANT_NameAndType for (name, descriptor).
func (p *ConstantPool) NameAndType(name, descriptor string) uint16 {
	n := p.UTF8(name)
	d := p.UTF8(descriptor)
	return p.intern(poolKey{tag: tagNameAndType, a: n, b: d}, false)
}

// Fieldref interns a CONSTANT_Fieldref for owner.name:descriptor.
func (p *ConstantPool) Fieldref(owner, name, descriptor string) uint16 {
	c := p.Class(owner)
	nt := p.NameAndType(name, descriptor)
	return p.intern(poolKey{tag: tagFieldref, a: c, b: nt}, false)
}

// Methodref interns a CONSTANT_Methodref for owner.name:descriptor.
func (p *ConstantPool) Methodref(owner, name, descriptor string) uint16 {
	c := p.Class(owner)
	nt := p.NameAndType(name, descriptor)
	return p.intern(poolKey{tag: tagMethodref, a: c, b: nt}, false)
}

// InterfaceMethodref interns a CONSTANT_InterfaceMethodref.
func (p *ConstantPool) InterfaceMethodref(owner, name, descriptor string) uint16 {
	c := p.Class(owner)
	nt := p.NameAndType(name, descriptor)
	return p.intern(poolKey{tag: tagInterfaceMethodref, a: c, b: nt}, false)
}

// Count returns constant_pool_count (JVMS §4.1: one past the highest
// occupied index).
func (p *ConstantPool) Count() uint16 {
	return uint16(len(p.entries) + 1)
}

// WriteTo serializes every entry, in insertion order, to w.
func (p *ConstantPool) WriteTo(w *BinWriter) {
	for _, e := range p.entries {
		if e.key.tag == 0 {
			continue // second slot of a Long/Double entry; carries no bytes
		}
		w.WriteU8(e.key.tag)
		switch e.key.tag {
		case tagUTF8:
			b := []byte(e.key.s)
			w.WriteU16(uint16(len(b)))
			w.WriteBytes(b)
		case tagInteger:
			w.WriteU32(uint32(int32(e.key.i)))
		case tagFloat:
			w.WriteU32(math.Float32bits(e.key.f32))
		case tagLong:
			w.WriteU64(uint64(e.key.i))
		case tagDouble:
			w.WriteU64(math.Float64bits(e.key.f64))
		case tagClass, tagString:
			w.WriteU16(e.key.a)
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType:
			w.WriteU16(e.key.a)
			w.WriteU16(e.key.b)
		}
	}
}
