package opcode

import "github.com/athos/jise/ast"

// LoadBase returns the generic (wide-index) load opcode for a value of
// kind k: ILOAD for int and the narrower integral kinds (boolean, byte,
// char, short), LLOAD/FLOAD/DLOAD for long/float/double, and ALOAD for
// references and arrays (spec §4.2 `local`: "type.opcode(ILOAD)").
func LoadBase(k ast.Kind) Opcode {
	switch k {
	case ast.Long:
		return LLOAD
	case ast.Float:
		return FLOAD
	case ast.Double:
		return DLOAD
	case ast.Reference, ast.Array:
		return ALOAD
	default:
		return ILOAD
	}
}

// StoreBase is LoadBase's store-opcode counterpart.
func StoreBase(k ast.Kind) Opcode {
	switch k {
	case ast.Long:
		return LSTORE
	case ast.Float:
		return FSTORE
	case ast.Double:
		return DSTORE
	case ast.Reference, ast.Array:
		return ASTORE
	default:
		return ISTORE
	}
}

// indexedForm0to3 returns the dedicated _0../_3 opcode for base (one of the
// generic *LOAD/*STORE opcodes above) and a slot in [0,3], matching the
// teacher's "index < 7" optimized-encoding convention (codegen.go
// emitLoadByIndex/emitStoreByIndex), adapted to the JVM's narrower 0..3
// dedicated-opcode range.
func indexedForm0to3(base Opcode, slot int) (Opcode, bool) {
	if slot < 0 || slot > 3 {
		return 0, false
	}
	var table map[Opcode][4]Opcode
	switch base {
	case ILOAD:
		table = map[Opcode][4]Opcode{ILOAD: {ILOAD_0, ILOAD_1, ILOAD_2, ILOAD_3}}
	case LLOAD:
		table = map[Opcode][4]Opcode{LLOAD: {LLOAD_0, LLOAD_1, LLOAD_2, LLOAD_3}}
	case FLOAD:
		table = map[Opcode][4]Opcode{FLOAD: {FLOAD_0, FLOAD_1, FLOAD_2, FLOAD_3}}
	case DLOAD:
		table = map[Opcode][4]Opcode{DLOAD: {DLOAD_0, DLOAD_1, DLOAD_2, DLOAD_3}}
	case ALOAD:
		table = map[Opcode][4]Opcode{ALOAD: {ALOAD_0, ALOAD_1, ALOAD_2, ALOAD_3}}
	case ISTORE:
		table = map[Opcode][4]Opcode{ISTORE: {ISTORE_0, ISTORE_1, ISTORE_2, ISTORE_3}}
	case LSTORE:
		table = map[Opcode][4]Opcode{LSTORE: {LSTORE_0, LSTORE_1, LSTORE_2, LSTORE_3}}
	case FSTORE:
		table = map[Opcode][4]Opcode{FSTORE: {FSTORE_0, FSTORE_1, FSTORE_2, FSTORE_3}}
	case DSTORE:
		table = map[Opcode][4]Opcode{DSTORE: {DSTORE_0, DSTORE_1, DSTORE_2, DSTORE_3}}
	case ASTORE:
		table = map[Opcode][4]Opcode{ASTORE: {ASTORE_0, ASTORE_1, ASTORE_2, ASTORE_3}}
	default:
		return 0, false
	}
	return table[base][slot], true
}

// ResolveIndexed picks the narrowest encoding of a load/store for base and
// slot: the dedicated _0../_3 opcode when slot <= 3 (no operand byte), else
// the generic opcode paired with a 1-byte (or, via Wide, 2-byte) index
// operand, which the caller (package emitter's emitIndexed) is responsible for writing.
func ResolveIndexed(base Opcode, slot int) (op Opcode, hasOperand bool) {
	if o, ok := indexedForm0to3(base, slot); ok {
		return o, false
	}
	return base, true
}

// ReturnOp returns the type-specialized return opcode for k, or RETURN for
// ast.Void (spec §4.5).
func ReturnOp(k ast.Kind) Opcode {
	switch k {
	case ast.Long:
		return LRETURN
	case ast.Float:
		return FRETURN
	case ast.Double:
		return DRETURN
	case ast.Reference, ast.Array:
		return ARETURN
	case ast.Void:
		return RETURN
	default:
		return IRETURN
	}
}

// ArrayLoadOp returns the *ALOAD opcode for an array whose element kind is
// elem (spec §4.2 `array-access`, "type-specialized load (IALOAD family)").
func ArrayLoadOp(elem ast.Kind) Opcode {
	switch elem {
	case ast.Long:
		return LALOAD
	case ast.Float:
		return FALOAD
	case ast.Double:
		return DALOAD
	case ast.Reference, ast.Array:
		return AALOAD
	case ast.Byte, ast.Boolean:
		return BALOAD
	case ast.Char:
		return CALOAD
	case ast.Short:
		return SALOAD
	default:
		return IALOAD
	}
}

// ArrayStoreOp is ArrayLoadOp's store-opcode counterpart.
func ArrayStoreOp(elem ast.Kind) Opcode {
	switch elem {
	case ast.Long:
		return LASTORE
	case ast.Float:
		return FASTORE
	case ast.Double:
		return DASTORE
	case ast.Reference, ast.Array:
		return AASTORE
	case ast.Byte, ast.Boolean:
		return BASTORE
	case ast.Char:
		return CASTORE
	case ast.Short:
		return SASTORE
	default:
		return IASTORE
	}
}

// NewarrayTag returns the `atype` operand NEWARRAY expects for a primitive
// element kind (JVMS §6.5 newarray).
func NewarrayTag(k ast.Kind) byte {
	switch k {
	case ast.Boolean:
		return 4
	case ast.Char:
		return 5
	case ast.Float:
		return 6
	case ast.Double:
		return 7
	case ast.Byte:
		return 8
	case ast.Short:
		return 9
	case ast.Int:
		return 10
	case ast.Long:
		return 11
	default:
		panic("opcode: NewarrayTag called on non-primitive kind")
	}
}

// ArithOpcode returns the opcode for a binary arithmetic operator at kind k
// (spec §4.2 "arithmetic (add,sub,mul,div,rem)").
func ArithOpcode(op ast.ArithOp, k ast.Kind) Opcode {
	row := [4]Opcode{}
	switch op {
	case ast.Add:
		row = [4]Opcode{IADD, LADD, FADD, DADD}
	case ast.Sub:
		row = [4]Opcode{ISUB, LSUB, FSUB, DSUB}
	case ast.Mul:
		row = [4]Opcode{IMUL, LMUL, FMUL, DMUL}
	case ast.Div:
		row = [4]Opcode{IDIV, LDIV, FDIV, DDIV}
	case ast.Rem:
		row = [4]Opcode{IREM, LREM, FREM, DREM}
	default:
		panic("opcode: unknown ArithOp")
	}
	return row[numericIndex(k)]
}

// NegOpcode returns the negate opcode for kind k (spec §4.2 `neg`).
func NegOpcode(k ast.Kind) Opcode {
	return [4]Opcode{INEG, LNEG, FNEG, DNEG}[numericIndex(k)]
}

// BitwiseOpcode returns the opcode for a bitwise operator; only int/long
// widths exist at the bytecode level (booleans and sub-int widths are
// represented as int, spec §3 category rules).
func BitwiseOpcode(op ast.BitwiseOp, isLong bool) Opcode {
	switch op {
	case ast.BitAnd:
		if isLong {
			return LAND
		}
		return IAND
	case ast.BitOr:
		if isLong {
			return LOR
		}
		return IOR
	case ast.BitXor:
		if isLong {
			return LXOR
		}
		return IXOR
	default:
		panic("opcode: unknown BitwiseOp")
	}
}

// ShiftOpcode returns the opcode for a shift operator at int or long width.
func ShiftOpcode(op ast.ShiftOp, isLong bool) Opcode {
	switch op {
	case ast.Shl:
		if isLong {
			return LSHL
		}
		return ISHL
	case ast.Shr:
		if isLong {
			return LSHR
		}
		return ISHR
	case ast.Ushr:
		if isLong {
			return LUSHR
		}
		return IUSHR
	default:
		panic("opcode: unknown ShiftOp")
	}
}

// numericIndex maps int/long/float/double onto a dense 0..3 row index used
// by the arithmetic/negate tables above.
func numericIndex(k ast.Kind) int {
	switch k {
	case ast.Long:
		return 1
	case ast.Float:
		return 2
	case ast.Double:
		return 3
	default:
		return 0
	}
}

// CompareLowering describes how to lower a comparison in conditional
// context (spec §4.2.5): an optional "pre" instruction that reduces two
// wide operands to a single int (LCMP/FCMPL/FCMPG/DCMPL/DCMPG), followed by
// a branch opcode consuming either that int (as a zero-comparison) or,
// for int/reference operands, the two original operands directly.
type CompareLowering struct {
	Pre    Opcode // 0 if no reduction instruction is needed
	Branch Opcode
}

// BranchOnCompare returns the instructions that jump when branchOp holds
// for operands of kind k (spec §4.2.5). Callers wanting "branch if false"
// should pass branchOp.Negate() for branchOp while still passing the
// original, pre-negation relation as origOp: the FCMPG/FCMPL (and
// DCMPG/DCMPL) choice depends on the *relation being tested*, not on
// which way the branch jumps, since IEEE 754 NaN comparisons must make
// `x < y`/`x <= y` false and `x > y`/`x >= y` false regardless of whether
// the caller is branching on the relation or its negation.
func BranchOnCompare(branchOp, origOp ast.CompareOp, k ast.Kind) CompareLowering {
	op := branchOp
	if op.IsUnary() {
		switch op {
		case ast.CmpEQNull:
			return CompareLowering{Branch: IFNULL}
		case ast.CmpNENull:
			return CompareLowering{Branch: IFNONNULL}
		case ast.CmpEQZero:
			return CompareLowering{Branch: IFEQ}
		case ast.CmpNEZero:
			return CompareLowering{Branch: IFNE}
		case ast.CmpLTZero:
			return CompareLowering{Branch: IFLT}
		case ast.CmpGTZero:
			return CompareLowering{Branch: IFGT}
		case ast.CmpLEZero:
			return CompareLowering{Branch: IFLE}
		case ast.CmpGEZero:
			return CompareLowering{Branch: IFGE}
		}
		panic("opcode: unknown unary CompareOp")
	}

	if k == ast.Reference || k == ast.Array {
		switch op {
		case ast.CmpEQ:
			return CompareLowering{Branch: IF_ACMPEQ}
		case ast.CmpNE:
			return CompareLowering{Branch: IF_ACMPNE}
		default:
			panic("opcode: reference comparisons support only eq/ne")
		}
	}

	if k == ast.Int || k == ast.Boolean || k == ast.Byte || k == ast.Short || k == ast.Char {
		switch op {
		case ast.CmpEQ:
			return CompareLowering{Branch: IF_ICMPEQ}
		case ast.CmpNE:
			return CompareLowering{Branch: IF_ICMPNE}
		case ast.CmpLT:
			return CompareLowering{Branch: IF_ICMPLT}
		case ast.CmpGT:
			return CompareLowering{Branch: IF_ICMPGT}
		case ast.CmpLE:
			return CompareLowering{Branch: IF_ICMPLE}
		case ast.CmpGE:
			return CompareLowering{Branch: IF_ICMPGE}
		}
		panic("opcode: unknown binary CompareOp")
	}

	// long/float/double: reduce with a cmp instruction, then branch on the
	// zero-comparison result.
	var pre Opcode
	switch k {
	case ast.Long:
		pre = LCMP
	case ast.Float:
		if origOp == ast.CmpLT || origOp == ast.CmpLE {
			pre = FCMPG
		} else {
			pre = FCMPL
		}
	case ast.Double:
		if origOp == ast.CmpLT || origOp == ast.CmpLE {
			pre = DCMPG
		} else {
			pre = DCMPL
		}
	default:
		panic("opcode: unsupported comparison operand kind")
	}
	var branch Opcode
	switch op {
	case ast.CmpEQ:
		branch = IFEQ
	case ast.CmpNE:
		branch = IFNE
	case ast.CmpLT:
		branch = IFLT
	case ast.CmpGT:
		branch = IFGT
	case ast.CmpLE:
		branch = IFLE
	case ast.CmpGE:
		branch = IFGE
	default:
		panic("opcode: unknown binary CompareOp")
	}
	return CompareLowering{Pre: pre, Branch: branch}
}

// ConvertOps returns the ordered opcode chain implementing a primitive
// conversion from kind `from` to kind `to` (spec §4.2 `widening-primitive`/
// `narrowing-primitive`). byte/short/char/boolean share int's runtime
// representation, so conversions among them and to/from int fold to at
// most one opcode; narrowing a wide type to byte/char/short passes through
// int first (spec §9 design notes, "Narrowing to {byte, char, short}
// passes through int first when needed").
func ConvertOps(from, to ast.Kind) []Opcode {
	if from == to {
		return nil
	}
	isIntLike := func(k ast.Kind) bool {
		return k == ast.Int || k == ast.Byte || k == ast.Short || k == ast.Char || k == ast.Boolean
	}
	narrowOp := func(k ast.Kind) (Opcode, bool) {
		switch k {
		case ast.Byte:
			return I2B, true
		case ast.Char:
			return I2C, true
		case ast.Short:
			return I2S, true
		default:
			return 0, false
		}
	}

	if isIntLike(from) && isIntLike(to) {
		if op, ok := narrowOp(to); ok {
			return []Opcode{op}
		}
		return nil // widening among int-represented kinds needs no opcode
	}

	effFrom := from
	if isIntLike(from) {
		effFrom = ast.Int
	}

	toIntChain := func() []Opcode {
		switch effFrom {
		case ast.Long:
			return []Opcode{L2I}
		case ast.Float:
			return []Opcode{F2I}
		case ast.Double:
			return []Opcode{D2I}
		default:
			return nil
		}
	}

	if isIntLike(to) {
		chain := toIntChain()
		if op, ok := narrowOp(to); ok {
			return append(chain, op)
		}
		return chain // to == Int
	}

	switch effFrom {
	case ast.Int:
		switch to {
		case ast.Long:
			return []Opcode{I2L}
		case ast.Float:
			return []Opcode{I2F}
		case ast.Double:
			return []Opcode{I2D}
		}
	case ast.Long:
		switch to {
		case ast.Float:
			return []Opcode{L2F}
		case ast.Double:
			return []Opcode{L2D}
		}
	case ast.Float:
		switch to {
		case ast.Long:
			return []Opcode{F2L}
		case ast.Double:
			return []Opcode{F2D}
		}
	case ast.Double:
		switch to {
		case ast.Long:
			return []Opcode{D2L}
		case ast.Float:
			return []Opcode{D2F}
		}
	}
	panic("opcode: unsupported primitive conversion")
}

// IntConst returns the zero-operand ICONST_* opcode for v, if one exists
// (spec §4.2 `literal` rule (a)); BIPUSH/SIPUSH/LDC selection happens in
// package emitter (emitIntLike), since those need operand bytes.
func IntConst(v int64) (Opcode, bool) {
	switch v {
	case -1:
		return ICONST_M1, true
	case 0:
		return ICONST_0, true
	case 1:
		return ICONST_1, true
	case 2:
		return ICONST_2, true
	case 3:
		return ICONST_3, true
	case 4:
		return ICONST_4, true
	case 5:
		return ICONST_5, true
	default:
		return 0, false
	}
}

// LongConst returns LCONST_0/LCONST_1 for the two canonical long values.
func LongConst(v int64) (Opcode, bool) {
	switch v {
	case 0:
		return LCONST_0, true
	case 1:
		return LCONST_1, true
	default:
		return 0, false
	}
}

// FloatConst returns FCONST_0/1/2 for the three canonical float values.
func FloatConst(v float32) (Opcode, bool) {
	switch v {
	case 0:
		return FCONST_0, true
	case 1:
		return FCONST_1, true
	case 2:
		return FCONST_2, true
	default:
		return 0, false
	}
}

// DoubleConst returns DCONST_0/1 for the two canonical double values.
func DoubleConst(v float64) (Opcode, bool) {
	switch v {
	case 0:
		return DCONST_0, true
	case 1:
		return DCONST_1, true
	default:
		return 0, false
	}
}
