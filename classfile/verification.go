package classfile

// VerificationTag identifies the shape of one JVMS §4.7.4 verification_type_info
// entry used by a StackMapTable frame.
type VerificationTag byte

// Verification type tags (JVMS Table 4.7.4-A).
const (
	VTop VerificationTag = iota
	VInteger
	VFloat
	VDouble
	VLong
	VNull
	VUninitializedThis
	VObject
	VUninitialized
)

// VerificationType is one local-variable or operand-stack slot's type at a
// frame boundary. Internal is the internal class name for VObject; Offset
// is the NEW instruction offset for VUninitialized.
type VerificationType struct {
	Tag      VerificationTag
	Internal string
	Offset   uint16
}

func (v VerificationType) writeTo(w *BinWriter, pool *ConstantPool) {
	w.WriteU8(byte(v.Tag))
	switch v.Tag {
	case VObject:
		w.WriteU16(pool.Class(v.Internal))
	case VUninitialized:
		w.WriteU16(v.Offset)
	}
}

// FrameSnapshot is the full verification state the emitter observes at a
// label it defines: every local slot (index order, one entry for each
// occupied category-1 slot; category-2 locals occupy their low index only,
// matching JVMS local-variable numbering) and the live operand stack,
// bottom first. The emitter is the only party that knows AST-level types,
// so it supplies these; classfile's only job is to serialize them (spec
// SUPPLEMENTED FEATURES: "StackMapTable ... forward-simulation
// computation", scoped to recording what the emitter already tracked
// rather than re-deriving it from raw bytecode).
type FrameSnapshot struct {
	Locals []VerificationType
	Stack  []VerificationType
}
