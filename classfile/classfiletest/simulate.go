package classfiletest

import (
	"fmt"

	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// fixedEffect is the constant operand-stack delta (push minus pop, in
// category-1 slot units) of an opcode that doesn't depend on a descriptor
// or a runtime value, e.g. IADD always nets -1 regardless of what's on the
// stack. Variable-effect opcodes (INVOKE*, MULTIANEWARRAY, the *ASTORE/
// *ALOAD family that also depend on array element width) are intentionally
// absent; NetStackDelta reports an error if it meets one, since this
// helper only needs to cover the constructs spec.md §8's property-law
// tests actually exercise (literals, arithmetic, comparisons, conversions,
// local load/store, dup/pop).
var fixedEffect = map[opcode.Opcode]int{
	opcode.NOP: 0,

	opcode.ACONST_NULL: 1,
	opcode.ICONST_M1:   1, opcode.ICONST_0: 1, opcode.ICONST_1: 1,
	opcode.ICONST_2: 1, opcode.ICONST_3: 1, opcode.ICONST_4: 1, opcode.ICONST_5: 1,
	opcode.FCONST_0: 1, opcode.FCONST_1: 1, opcode.FCONST_2: 1,
	opcode.LCONST_0: 2, opcode.LCONST_1: 2,
	opcode.DCONST_0: 2, opcode.DCONST_1: 2,
	opcode.BIPUSH: 1, opcode.SIPUSH: 1, opcode.LDC: 1, opcode.LDC_W: 1, opcode.LDC2_W: 2,

	opcode.ILOAD: 1, opcode.FLOAD: 1, opcode.ALOAD: 1,
	opcode.LLOAD: 2, opcode.DLOAD: 2,
	opcode.ILOAD_0: 1, opcode.ILOAD_1: 1, opcode.ILOAD_2: 1, opcode.ILOAD_3: 1,
	opcode.FLOAD_0: 1, opcode.FLOAD_1: 1, opcode.FLOAD_2: 1, opcode.FLOAD_3: 1,
	opcode.ALOAD_0: 1, opcode.ALOAD_1: 1, opcode.ALOAD_2: 1, opcode.ALOAD_3: 1,
	opcode.LLOAD_0: 2, opcode.LLOAD_1: 2, opcode.LLOAD_2: 2, opcode.LLOAD_3: 2,
	opcode.DLOAD_0: 2, opcode.DLOAD_1: 2, opcode.DLOAD_2: 2, opcode.DLOAD_3: 2,

	opcode.ISTORE: -1, opcode.FSTORE: -1, opcode.ASTORE: -1,
	opcode.LSTORE: -2, opcode.DSTORE: -2,
	opcode.ISTORE_0: -1, opcode.ISTORE_1: -1, opcode.ISTORE_2: -1, opcode.ISTORE_3: -1,
	opcode.FSTORE_0: -1, opcode.FSTORE_1: -1, opcode.FSTORE_2: -1, opcode.FSTORE_3: -1,
	opcode.ASTORE_0: -1, opcode.ASTORE_1: -1, opcode.ASTORE_2: -1, opcode.ASTORE_3: -1,
	opcode.LSTORE_0: -2, opcode.LSTORE_1: -2, opcode.LSTORE_2: -2, opcode.LSTORE_3: -2,
	opcode.DSTORE_0: -2, opcode.DSTORE_1: -2, opcode.DSTORE_2: -2, opcode.DSTORE_3: -2,
	opcode.IINC: 0,

	opcode.POP: -1, opcode.POP2: -2,
	opcode.DUP: 1, opcode.DUP_X1: 1, opcode.DUP_X2: 1,
	opcode.DUP2: 2, opcode.DUP2_X1: 2, opcode.DUP2_X2: 2,
	opcode.SWAP: 0,

	opcode.IADD: -1, opcode.ISUB: -1, opcode.IMUL: -1, opcode.IDIV: -1, opcode.IREM: -1,
	opcode.FADD: -1, opcode.FSUB: -1, opcode.FMUL: -1, opcode.FDIV: -1, opcode.FREM: -1,
	opcode.LADD: -2, opcode.LSUB: -2, opcode.LMUL: -2, opcode.LDIV: -2, opcode.LREM: -2,
	opcode.DADD: -2, opcode.DSUB: -2, opcode.DMUL: -2, opcode.DDIV: -2, opcode.DREM: -2,
	opcode.INEG: 0, opcode.FNEG: 0, opcode.LNEG: 0, opcode.DNEG: 0,

	opcode.ISHL: -1, opcode.ISHR: -1, opcode.IUSHR: -1,
	opcode.LSHL: -1, opcode.LSHR: -1, opcode.LUSHR: -1,
	opcode.IAND: -1, opcode.IOR: -1, opcode.IXOR: -1,
	opcode.LAND: -2, opcode.LOR: -2, opcode.LXOR: -2,

	opcode.I2L: 1, opcode.I2F: 0, opcode.I2D: 1,
	opcode.L2I: -1, opcode.L2F: -1, opcode.L2D: 0,
	opcode.F2I: 0, opcode.F2L: 1, opcode.F2D: 1,
	opcode.D2I: -1, opcode.D2L: 0, opcode.D2F: -1,
	opcode.I2B: 0, opcode.I2C: 0, opcode.I2S: 0,

	opcode.LCMP: -3, opcode.FCMPL: -1, opcode.FCMPG: -1, opcode.DCMPL: -3, opcode.DCMPG: -3,

	opcode.ARRAYLENGTH: 0,
	opcode.ATHROW:       0,
	opcode.CHECKCAST:    0,
	opcode.INSTANCEOF:   0,
}

// NetStackDelta replays code (one method's Code bytes, or a slice of it)
// and returns the net operand-stack effect in category-1 slot units, the
// quantity spec.md §8 property laws 1 and 2 compare against
// category(n.type)/0. It is independent of the emitter's own running
// MethodWriter.Grow bookkeeping, so a law failure here means the bookkeeping
// and the actual bytecode have drifted apart, not just that a test
// double-checked its own assumption.
func NetStackDelta(code []byte) (int, error) {
	instrs, err := classfile.Decode(code)
	if err != nil {
		return 0, err
	}
	delta := 0
	for _, in := range instrs {
		d, ok := fixedEffect[in.Op]
		if !ok {
			return 0, fmt.Errorf("classfiletest: %s has a non-constant stack effect; NetStackDelta cannot replay it", in.Op)
		}
		delta += d
	}
	return delta, nil
}
