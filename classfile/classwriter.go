package classfile

// Class access flags relevant to EmitClass/DeclareField/DeclareMethod
// callers (JVMS §4.1 Table 4.1-A, §4.5 Table 4.5-A, §4.6 Table 4.6-A).
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020
	AccSynchronized = 0x0020
	AccVolatile     = 0x0040
	AccBridge       = 0x0040
	AccTransient    = 0x0080
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
)

// Version52 is major version 52 (Java SE 8), the version this repository
// targets (spec §1).
const Version52 = 52

const classFileMagic = 0xCAFEBABE

// FieldSpec describes one field to declare (spec §4.1).
type FieldSpec struct {
	Access     uint16
	Name       string
	Descriptor string
	// ConstantValue sets a ConstantValue attribute (JVMS §4.7.2); nil for
	// fields without a compile-time constant.
	ConstantValue any
	Annotations   []AnnotationSpec
}

// AnnotationSpec is a resolved, already-retention-filtered annotation ready
// for serialization (spec §4.4 — retention filtering happens in package
// classemitter, upstream of this package).
type AnnotationSpec struct {
	TypeDescriptor string
	Runtime        bool // RUNTIME retention vs. CLASS retention
	Elements       []AnnotationElement
}

// AnnotationElement is one name/value pair of an AnnotationSpec. Value is
// one of bool, int32, int64, float32, float64, string, a nested
// AnnotationSpec, or a []AnnotationElement (names left empty) for an array element
// (spec §4.4).
type AnnotationElement struct {
	Name  string
	Value any
}

// MethodSpec is returned by DeclareMethod: the caller drives mw directly to
// emit the body; Bytes serializes every declared method's code.
type MethodSpec struct {
	Access      uint16
	Name        string
	Descriptor  string
	Exceptions  []string // internal names of checked throws (JVMS §4.7.5)
	Annotations []AnnotationSpec
	// ParameterAnnotations is indexed by parameter position (spec §4.4).
	ParameterAnnotations map[int][]AnnotationSpec
	mw                   *MethodWriter
}

// Writer returns the MethodWriter the caller should emit this method's
// instructions into.
func (s *MethodSpec) Writer() *MethodWriter { return s.mw }

type declaredField struct {
	spec FieldSpec
}

type declaredMethod struct {
	spec *MethodSpec
}

// ClassWriter assembles one class file: the constant pool, this/super/
// interfaces, fields, methods, and the SourceFile/class-level-annotation
// attributes (spec §4.1 EmitClass).
type ClassWriter struct {
	pool *ConstantPool

	minorVersion, majorVersion uint16
	access                     uint16
	thisClass, superClass      string
	interfaces                 []string
	sourceFile                 string
	annotations                []AnnotationSpec

	fields  []declaredField
	methods []declaredMethod
}

// NewClassWriter begins a class with the given access flags, internal
// this-class name, and internal super-class name (empty for
// java/lang/Object's own class file, which has no superclass).
func NewClassWriter(access uint16, thisClass, superClass string) *ClassWriter {
	return &ClassWriter{
		pool:         NewConstantPool(),
		majorVersion: Version52,
		access:       access,
		thisClass:    thisClass,
		superClass:   superClass,
	}
}

// Pool exposes the constant pool so callers outside this package (package
// emitter) can intern constants referenced mid-instruction (LDC, CHECKCAST,
// INSTANCEOF, INVOKE*, GETFIELD/PUTFIELD, NEW, ANEWARRAY).
func (c *ClassWriter) Pool() *ConstantPool { return c.pool }

// AddInterface records one directly-implemented interface.
func (c *ClassWriter) AddInterface(internalName string) {
	c.interfaces = append(c.interfaces, internalName)
}

// SetSourceFile attaches a SourceFile attribute (JVMS §4.7.10).
func (c *ClassWriter) SetSourceFile(name string) {
	c.sourceFile = name
}

// SetAnnotations attaches class-level annotations (spec §4.4).
func (c *ClassWriter) SetAnnotations(anns []AnnotationSpec) {
	c.annotations = anns
}

// DeclareField registers a field; it is written out when Bytes serializes
// the class.
func (c *ClassWriter) DeclareField(f FieldSpec) {
	c.fields = append(c.fields, declaredField{spec: f})
}

// DeclareMethod registers a method and returns a MethodSpec whose Writer()
// the caller emits the body into before the class is finished.
func (c *ClassWriter) DeclareMethod(access uint16, name, descriptor string, exceptions []string) *MethodSpec {
	spec := &MethodSpec{
		Access:     access,
		Name:       name,
		Descriptor: descriptor,
		Exceptions: exceptions,
		mw:         NewMethodWriter(c.pool),
	}
	c.methods = append(c.methods, declaredMethod{spec: spec})
	return spec
}

// Bytes finishes the class and serializes it (spec §4.1: "close/snapshot").
// It renders field/method/annotation bodies twice: the first pass (into a
// throwaway buffer) lets every DeclareField/DeclareMethod/annotation call
// finish interning the constants it references, so the constant pool is
// only guaranteed complete afterward; the second pass is the one actually
// returned, writing the now-final pool ahead of everything that indexes
// into it, matching the class file's layout (JVMS §4.1).
func (c *ClassWriter) Bytes() []byte {
	c.render(NewBinWriter())
	return c.render(NewBinWriter())
}

func (c *ClassWriter) render(w *BinWriter) []byte {
	w.WriteU32(classFileMagic)
	w.WriteU16(c.minorVersion)
	w.WriteU16(c.majorVersion)

	poolBuf := NewBinWriter()
	c.pool.WriteTo(poolBuf)
	w.WriteU16(c.pool.Count())
	w.WriteBytes(poolBuf.Bytes())

	w.WriteU16(c.access)
	w.WriteU16(c.pool.Class(c.thisClass))
	if c.superClass == "" {
		w.WriteU16(0)
	} else {
		w.WriteU16(c.pool.Class(c.superClass))
	}
	w.WriteU16(uint16(len(c.interfaces)))
	for _, i := range c.interfaces {
		w.WriteU16(c.pool.Class(i))
	}

	w.WriteU16(uint16(len(c.fields)))
	for _, f := range c.fields {
		writeField(w, c.pool, f.spec)
	}
	w.WriteU16(uint16(len(c.methods)))
	for _, m := range c.methods {
		writeMethod(w, c.pool, m.spec)
	}

	classAttrs := NewBinWriter()
	attrCount := uint16(0)
	if c.sourceFile != "" {
		attrCount++
		classAttrs.WriteU16(c.pool.UTF8("SourceFile"))
		classAttrs.WriteU32(2)
		classAttrs.WriteU16(c.pool.UTF8(c.sourceFile))
	}
	if len(c.annotations) > 0 {
		attrCount++
		writeAnnotationsAttribute(classAttrs, c.pool, c.annotations)
	}
	w.WriteU16(attrCount)
	w.WriteBytes(classAttrs.Bytes())

	if w.Err != nil {
		panic(w.Err)
	}
	return w.Bytes()
}

func writeField(w *BinWriter, pool *ConstantPool, f FieldSpec) {
	w.WriteU16(f.Access)
	w.WriteU16(pool.UTF8(f.Name))
	w.WriteU16(pool.UTF8(f.Descriptor))

	attrs := NewBinWriter()
	attrCount := uint16(0)
	if f.ConstantValue != nil {
		attrCount++
		writeConstantValueAttribute(attrs, pool, f.ConstantValue)
	}
	if len(f.Annotations) > 0 {
		attrCount++
		writeAnnotationsAttribute(attrs, pool, f.Annotations)
	}
	w.WriteU16(attrCount)
	w.WriteBytes(attrs.Bytes())
}

func writeConstantValueAttribute(w *BinWriter, pool *ConstantPool, v any) {
	w.WriteU16(pool.UTF8("ConstantValue"))
	w.WriteU32(2)
	switch x := v.(type) {
	case bool:
		n := int32(0)
		if x {
			n = 1
		}
		w.WriteU16(pool.Integer(n))
	case int32:
		w.WriteU16(pool.Integer(x))
	case int64:
		w.WriteU16(pool.Long(x))
	case float32:
		w.WriteU16(pool.Float(x))
	case float64:
		w.WriteU16(pool.Double(x))
	case string:
		w.WriteU16(pool.String(x))
	default:
		panic("classfile: unsupported ConstantValue payload")
	}
}

func writeMethod(w *BinWriter, pool *ConstantPool, m *MethodSpec) {
	w.WriteU16(m.Access)
	w.WriteU16(pool.UTF8(m.Name))
	w.WriteU16(pool.UTF8(m.Descriptor))

	isAbstractOrNative := m.Access&(AccAbstract|AccNative) != 0

	attrs := NewBinWriter()
	attrCount := uint16(0)
	if !isAbstractOrNative {
		attrCount++
		codeAttr := NewBinWriter()
		m.mw.codeAttribute(codeAttr)
		attrs.WriteU16(pool.UTF8("Code"))
		attrs.WriteU32(uint32(codeAttr.Len()))
		attrs.WriteBytes(codeAttr.Bytes())
	}
	if len(m.Exceptions) > 0 {
		attrCount++
		writeExceptionsAttribute(attrs, pool, m.Exceptions)
	}
	if len(m.Annotations) > 0 {
		attrCount++
		writeAnnotationsAttribute(attrs, pool, m.Annotations)
	}
	if len(m.ParameterAnnotations) > 0 {
		attrCount++
		writeParameterAnnotationsAttribute(attrs, pool, m.ParameterAnnotations)
	}
	w.WriteU16(attrCount)
	w.WriteBytes(attrs.Bytes())
}

func writeExceptionsAttribute(w *BinWriter, pool *ConstantPool, exceptions []string) {
	w.WriteU16(pool.UTF8("Exceptions"))
	w.WriteU32(uint32(2 + 2*len(exceptions)))
	w.WriteU16(uint16(len(exceptions)))
	for _, e := range exceptions {
		w.WriteU16(pool.Class(e))
	}
}
