// Package emitter walks a resolved ast.Expr tree and emits the JVM
// bytecode and auxiliary tables (line numbers, local variables,
// StackMapTable, exception table) realizing it, into a classfile.MethodWriter
// (spec §4).
package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// Emit dispatches on e's concrete type and emits the instructions
// realizing it into c's MethodWriter, leaving exactly the value (if any)
// that e's Context/Type call for on top of the operand stack (spec §3,
// §4.2). Every case is responsible for its own net stack-depth
// accounting via Context.grow, mirroring the teacher's per-instruction
// incremental bookkeeping (pkg/compiler/codegen.go) rather than a
// finished-bytecode replay pass.
func Emit(c *Context, e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Do:
		return emitDo(c, n)
	case *ast.NullLit:
		c.mw.Emit(byte(opcode.ACONST_NULL))
		c.grow(ast.Prim(ast.Reference), true)
		return nil
	case *ast.Literal:
		return emitLiteral(c, n)
	case *ast.LocalRef:
		emitLoad(c, ast.TypeOf(n), n.Slot)
		return nil
	case *ast.SuperRef:
		emitLoad(c, ast.Prim(ast.Reference), 0)
		return nil
	case *ast.Assignment:
		return emitAssignment(c, n)
	case *ast.Increment:
		return emitIncrement(c, n)
	case *ast.Arith:
		return emitArith(c, n)
	case *ast.Neg:
		return emitNeg(c, n)
	case *ast.Bitwise:
		return emitBitwise(c, n)
	case *ast.Shift:
		return emitShift(c, n)
	case *ast.WideningPrimitive:
		return emitConvert(c, n.Source, ast.TypeOf(n.Source).Kind, n.Target.Kind)
	case *ast.NarrowingPrimitive:
		return emitConvert(c, n.Source, ast.TypeOf(n.Source).Kind, n.Target.Kind)
	case *ast.Boxing:
		return emitBoxing(c, n)
	case *ast.Unboxing:
		return emitUnboxing(c, n)
	case *ast.WideningReference:
		return Emit(c, n.Source)
	case *ast.NarrowingReference:
		return emitNarrowingReference(c, n)
	case *ast.InstanceOf:
		return emitInstanceOf(c, n)
	case *ast.Let:
		return emitLet(c, n)
	case *ast.LabeledExpr:
		return emitLabeled(c, n)
	case *ast.If:
		return emitIf(c, n)
	case *ast.Switch:
		return emitSwitch(c, n)
	case *ast.While:
		return emitWhile(c, n)
	case *ast.For:
		return emitFor(c, n)
	case *ast.Try:
		return emitTry(c, n)
	case *ast.Continue:
		return emitContinue(c, n)
	case *ast.Break:
		return emitBreak(c, n)
	case *ast.ReturnExpr:
		return emitReturn(c, n)
	case *ast.Throw:
		return emitThrow(c, n)
	case *ast.New:
		return emitNew(c, n)
	case *ast.FieldAccess:
		return emitFieldAccess(c, n)
	case *ast.FieldUpdate:
		return emitFieldUpdate(c, n)
	case *ast.CtorInvocation:
		return emitCtorInvocation(c, n)
	case *ast.MethodInvocation:
		return emitMethodInvocation(c, n)
	case *ast.NewArray:
		return emitNewArray(c, n)
	case *ast.ArrayLength:
		return emitArrayLength(c, n)
	case *ast.ArrayAccess:
		return emitArrayAccess(c, n)
	case *ast.ArrayUpdate:
		return emitArrayUpdate(c, n)
	case *ast.Compare, *ast.And, *ast.Or, *ast.Not:
		return emitBoolValue(c, e)
	case *ast.Unknown:
		return &UnknownNodeKindError{Kind: n.RawKind, Line: ast.LineOf(n)}
	default:
		return &UnknownNodeKindError{Kind: "<unregistered Expr type>", Line: ast.LineOf(e)}
	}
}

// emitIndexed writes a local-variable load or store at slot, selecting
// the dedicated zero-operand _0../_3 form when possible and falling back
// to a WIDE-prefixed 2-byte index for a slot beyond the 1-byte range
// (spec §4.2 `local`/`assignment`, JVMS §6.5 wide).
func emitIndexed(c *Context, base opcode.Opcode, slot int) {
	if slot > 255 {
		c.mw.Emit(byte(opcode.WIDE))
		c.mw.EmitU16(byte(base), uint16(slot))
		return
	}
	op, hasOperand := opcode.ResolveIndexed(base, slot)
	if hasOperand {
		c.mw.EmitU8(byte(op), byte(slot))
	} else {
		c.mw.Emit(byte(op))
	}
}

func emitLoad(c *Context, t ast.Type, slot int) {
	emitIndexed(c, opcode.LoadBase(t.Kind), slot)
	c.grow(t, true)
}

func emitStore(c *Context, t ast.Type, slot int) {
	emitIndexed(c, opcode.StoreBase(t.Kind), slot)
	c.grow(t, false)
}

// emitDo evaluates Children in order, discarding every value but the
// last (spec §4.2 `do`).
func emitDo(c *Context, n *ast.Do) error {
	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			if err := Emit(c, child); err != nil {
				return err
			}
		} else if err := emitDiscardable(c, child); err != nil {
			return err
		}
	}
	return nil
}

// emitAssignment stores Rhs into Slot, duplicating the value first when
// the assignment itself is consumed as an expression (spec §4.2
// `assignment`).
func emitAssignment(c *Context, n *ast.Assignment) error {
	if err := Emit(c, n.Rhs); err != nil {
		return err
	}
	t := ast.TypeOf(n.Rhs)
	if ast.ContextOf(n).Has(ast.Expression) {
		if t.IsWide() {
			c.mw.Emit(byte(opcode.DUP2))
		} else {
			c.mw.Emit(byte(opcode.DUP))
		}
		c.grow(t, true)
	}
	emitStore(c, t, n.Slot)
	return nil
}

// emitIncrement writes IINC and, if the post-increment value is
// consumed, follows it with a load (spec §4.2 `increment`).
func emitIncrement(c *Context, n *ast.Increment) error {
	if n.Slot > 255 || n.By < -128 || n.By > 127 {
		c.mw.EmitWideIinc(byte(opcode.WIDE), byte(opcode.IINC), uint16(n.Slot), int16(n.By))
	} else {
		c.mw.EmitIinc(byte(opcode.IINC), byte(n.Slot), int8(n.By))
	}
	if ast.ContextOf(n).Has(ast.Expression) {
		emitLoad(c, ast.TypeOf(n), n.Slot)
	}
	return nil
}

func emitArith(c *Context, n *ast.Arith) error {
	if err := Emit(c, n.Lhs); err != nil {
		return err
	}
	if err := Emit(c, n.Rhs); err != nil {
		return err
	}
	t := ast.TypeOf(n)
	c.mw.Emit(byte(opcode.ArithOpcode(n.Op, t.Kind)))
	c.grow(ast.TypeOf(n.Lhs), false)
	c.grow(ast.TypeOf(n.Rhs), false)
	c.grow(t, true)
	return nil
}

func emitNeg(c *Context, n *ast.Neg) error {
	if err := Emit(c, n.Operand); err != nil {
		return err
	}
	t := ast.TypeOf(n)
	c.mw.Emit(byte(opcode.NegOpcode(t.Kind)))
	c.grow(t, false)
	c.grow(t, true)
	return nil
}

func emitBitwise(c *Context, n *ast.Bitwise) error {
	if err := Emit(c, n.Lhs); err != nil {
		return err
	}
	if err := Emit(c, n.Rhs); err != nil {
		return err
	}
	t := ast.TypeOf(n)
	c.mw.Emit(byte(opcode.BitwiseOpcode(n.Op, t.Kind == ast.Long)))
	c.grow(ast.TypeOf(n.Lhs), false)
	c.grow(ast.TypeOf(n.Rhs), false)
	c.grow(t, true)
	return nil
}

// emitShift emits Lhs and Rhs (the shift distance is always an int,
// JVMS §3.11.5, regardless of Lhs's width) and the type-specialized
// shift opcode.
func emitShift(c *Context, n *ast.Shift) error {
	if err := Emit(c, n.Lhs); err != nil {
		return err
	}
	if err := Emit(c, n.Rhs); err != nil {
		return err
	}
	t := ast.TypeOf(n)
	c.mw.Emit(byte(opcode.ShiftOpcode(n.Op, t.Kind == ast.Long)))
	c.grow(ast.TypeOf(n.Lhs), false)
	c.grow(ast.TypeOf(n.Rhs), false)
	c.grow(t, true)
	return nil
}

// emitConvert emits source and its primitive conversion chain (spec §4.2
// `widening-primitive`/`narrowing-primitive`), adjusting stack depth for
// any category change the conversion causes (e.g. int -> long).
func emitConvert(c *Context, source ast.Expr, from, to ast.Kind) error {
	if err := Emit(c, source); err != nil {
		return err
	}
	ops := opcode.ConvertOps(from, to)
	for _, op := range ops {
		c.mw.Emit(byte(op))
	}
	c.grow(ast.TypeOf(source), false)
	c.grow(ast.Prim(to), true)
	return nil
}

// emitBoxing rewrites to a static `valueOf` invocation on the boxed
// wrapper class (spec §4.2 `boxing`).
func emitBoxing(c *Context, n *ast.Boxing) error {
	if err := Emit(c, n.Source); err != nil {
		return err
	}
	srcType := ast.TypeOf(n.Source)
	desc := ast.MethodDescriptor([]ast.Type{srcType}, ast.Ref(n.Boxed))
	idx := c.pool.Methodref(n.Boxed, "valueOf", desc)
	c.mw.EmitU16(byte(opcode.INVOKESTATIC), idx)
	c.grow(srcType, false)
	c.grow(ast.Ref(n.Boxed), true)
	return nil
}

// emitUnboxing rewrites to an instance `<primitive>Value` invocation
// (spec §4.2 `unboxing`).
func emitUnboxing(c *Context, n *ast.Unboxing) error {
	if err := Emit(c, n.Source); err != nil {
		return err
	}
	srcType := ast.TypeOf(n.Source)
	resultType := ast.TypeOf(n)
	desc := ast.MethodDescriptor(nil, resultType)
	idx := c.pool.Methodref(srcType.InternalName(), n.Method, desc)
	c.mw.EmitU16(byte(opcode.INVOKEVIRTUAL), idx)
	c.grow(srcType, false)
	c.grow(resultType, true)
	return nil
}

// emitNarrowingReference emits Source followed by CHECKCAST Target
// (spec §4.2 `narrowing-reference`); CHECKCAST leaves the operand stack
// depth unchanged, only narrowing the verifier-tracked type.
func emitNarrowingReference(c *Context, n *ast.NarrowingReference) error {
	if err := Emit(c, n.Source); err != nil {
		return err
	}
	idx := c.pool.Class(n.Target.InternalName())
	c.mw.EmitU16(byte(opcode.CHECKCAST), idx)
	return nil
}

// emitInstanceOf emits Operand followed by INSTANCEOF Target (spec §4.2
// `instance?`).
func emitInstanceOf(c *Context, n *ast.InstanceOf) error {
	if err := Emit(c, n.Operand); err != nil {
		return err
	}
	idx := c.pool.Class(n.Target.InternalName())
	c.mw.EmitU16(byte(opcode.INSTANCEOF), idx)
	c.grow(ast.TypeOf(n.Operand), false)
	c.grow(ast.Prim(ast.Boolean), true)
	return nil
}

// emitLabeled emits Target with a break target installed under Name
// (spec §4.2 `labeled`), for a break that targets an arbitrary labeled
// expression rather than an enclosing loop or switch.
func emitLabeled(c *Context, n *ast.LabeledExpr) error {
	breakLabel := c.mw.NewLabel()
	depth0 := c.mw.StackDepth()
	c.pushLoop(n.Name, 0, breakLabel, false)
	err := Emit(c, n.Target)
	c.popLoop()
	if err != nil {
		return err
	}
	c.mw.MarkLabel(breakLabel)
	c.mw.SetStackDepth(depth0)
	if ast.ContextOf(n).Has(ast.Expression) {
		c.mw.SetStackDepth(depth0 + n.Typ.Category())
		c.recordFrame(breakLabel, []classfile.VerificationType{verificationTypeOf(n.Typ)})
	} else {
		c.recordFrame(breakLabel, nil)
	}
	return nil
}

// emitNew lowers `new` to NEW, DUP, argument evaluation, and an
// INVOKESPECIAL of the constructor (spec §4.2 `new`): the DUP leaves one
// reference for the constructor call to consume and one as the
// expression's resulting value.
func emitNew(c *Context, n *ast.New) error {
	idx := c.pool.Class(n.Class.InternalName())
	c.mw.EmitU16(byte(opcode.NEW), idx)
	c.grow(n.Class, true)
	c.mw.Emit(byte(opcode.DUP))
	c.grow(n.Class, true)

	for _, a := range n.Args {
		if err := Emit(c, a); err != nil {
			return err
		}
	}
	ctorIdx := c.pool.Methodref(n.Class.InternalName(), "<init>", n.CtorDesc)
	c.mw.EmitU16(byte(opcode.INVOKESPECIAL), ctorIdx)
	c.grow(n.Class, false)
	for _, a := range n.Args {
		c.grow(ast.TypeOf(a), false)
	}
	return nil
}

// emitFieldAccess loads an instance or static field (spec §4.2
// `field-access`).
func emitFieldAccess(c *Context, n *ast.FieldAccess) error {
	t := ast.TypeOf(n)
	if n.Static {
		idx := c.pool.Fieldref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitU16(byte(opcode.GETSTATIC), idx)
		c.grow(t, true)
		return nil
	}
	if err := Emit(c, n.Target); err != nil {
		return err
	}
	idx := c.pool.Fieldref(n.Owner, n.Name, n.Descriptor)
	c.mw.EmitU16(byte(opcode.GETFIELD), idx)
	c.grow(ast.TypeOf(n.Target), false)
	c.grow(t, true)
	return nil
}

// emitFieldUpdate stores into an instance or static field, duplicating
// the stored value first when it is consumed as an expression (spec §4.2
// `field-update`).
func emitFieldUpdate(c *Context, n *ast.FieldUpdate) error {
	rhsType := ast.TypeOf(n.Rhs)
	valueNeeded := ast.ContextOf(n).Has(ast.Expression)

	if n.Static {
		if err := Emit(c, n.Rhs); err != nil {
			return err
		}
		if valueNeeded {
			dupValue(c, rhsType)
		}
		idx := c.pool.Fieldref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitU16(byte(opcode.PUTSTATIC), idx)
		c.grow(rhsType, false)
		return nil
	}

	if err := Emit(c, n.Target); err != nil {
		return err
	}
	if err := Emit(c, n.Rhs); err != nil {
		return err
	}
	if valueNeeded {
		if rhsType.IsWide() {
			c.mw.Emit(byte(opcode.DUP2_X1))
		} else {
			c.mw.Emit(byte(opcode.DUP_X1))
		}
		c.grow(rhsType, true)
	}
	idx := c.pool.Fieldref(n.Owner, n.Name, n.Descriptor)
	c.mw.EmitU16(byte(opcode.PUTFIELD), idx)
	c.grow(ast.TypeOf(n.Target), false)
	c.grow(rhsType, false)
	return nil
}

func dupValue(c *Context, t ast.Type) {
	if t.IsWide() {
		c.mw.Emit(byte(opcode.DUP2))
	} else {
		c.mw.Emit(byte(opcode.DUP))
	}
	c.grow(t, true)
}

// emitCtorInvocation lowers `this(...)`/`super(...)` (spec §4.2
// `ctor-invocation`): `this` is loaded explicitly rather than assumed
// already on the stack, since this node can appear anywhere a
// constructor body's control flow reaches it, not only as the first
// statement.
func emitCtorInvocation(c *Context, n *ast.CtorInvocation) error {
	emitLoad(c, ast.Prim(ast.Reference), 0)
	for _, a := range n.Args {
		if err := Emit(c, a); err != nil {
			return err
		}
	}
	idx := c.pool.Methodref(n.Owner, "<init>", n.CtorDesc)
	c.mw.EmitU16(byte(opcode.INVOKESPECIAL), idx)
	c.grow(ast.Prim(ast.Reference), false)
	for _, a := range n.Args {
		c.grow(ast.TypeOf(a), false)
	}
	return nil
}

// invokeArgCount counts the operand-stack words INVOKEINTERFACE's count
// operand must name: the receiver plus every argument (JVMS §6.5
// invokeinterface), a value the other invoke forms can infer from their
// own descriptor.
func invokeArgCount(hasTarget bool, args []ast.Expr) byte {
	n := 0
	if hasTarget {
		n++
	}
	for _, a := range args {
		n += ast.TypeOf(a).Category()
	}
	return byte(n)
}

// emitMethodInvocation lowers a method call to its type-specialized
// invoke opcode (spec §4.2 `method-invocation`). A void-returning call
// consumed as a value pushes a null placeholder, per the AST convention
// documented on MethodInvocation.ReturnsVoid (spec §4.2, open question
// #2).
func emitMethodInvocation(c *Context, n *ast.MethodInvocation) error {
	if n.Target != nil {
		if err := Emit(c, n.Target); err != nil {
			return err
		}
	}
	for _, a := range n.Args {
		if err := Emit(c, a); err != nil {
			return err
		}
	}

	switch n.Kind {
	case ast.InvokeInterface:
		idx := c.pool.InterfaceMethodref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitInvokeInterface(byte(opcode.INVOKEINTERFACE), idx, invokeArgCount(n.Target != nil, n.Args))
	case ast.InvokeSpecial:
		idx := c.pool.Methodref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitU16(byte(opcode.INVOKESPECIAL), idx)
	case ast.InvokeStatic:
		idx := c.pool.Methodref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitU16(byte(opcode.INVOKESTATIC), idx)
	default: // InvokeVirtual
		idx := c.pool.Methodref(n.Owner, n.Name, n.Descriptor)
		c.mw.EmitU16(byte(opcode.INVOKEVIRTUAL), idx)
	}

	if n.Target != nil {
		c.grow(ast.TypeOf(n.Target), false)
	}
	for _, a := range n.Args {
		c.grow(ast.TypeOf(a), false)
	}

	if n.ReturnsVoid {
		if ast.ContextOf(n).Has(ast.Expression) {
			c.mw.Emit(byte(opcode.ACONST_NULL))
			c.grow(ast.Prim(ast.Reference), true)
		}
		return nil
	}
	c.grow(ast.TypeOf(n), true)
	return nil
}

// emitNewArray lowers `new-array` (spec §4.2 `new-array`): a single
// dimension with a primitive element uses NEWARRAY, a single dimension
// with a reference element uses ANEWARRAY, and more than one dimension
// uses MULTIANEWARRAY. An Initializer, when present, is only valid for a
// 1-D array and stores each element in turn via DUP/index/value/*ASTORE.
func emitNewArray(c *Context, n *ast.NewArray) error {
	for _, d := range n.Dims {
		if err := Emit(c, d); err != nil {
			return err
		}
	}
	resultType := ast.TypeOf(n)
	switch {
	case len(n.Dims) > 1:
		idx := c.pool.Class(resultType.Descriptor())
		c.mw.EmitMultianewarray(byte(opcode.MULTIANEWARRAY), idx, byte(len(n.Dims)))
	case n.ElemType.IsPrimitive():
		c.mw.EmitU8(byte(opcode.NEWARRAY), opcode.NewarrayTag(n.ElemType.Kind))
	default:
		idx := c.pool.Class(n.ElemType.InternalName())
		c.mw.EmitU16(byte(opcode.ANEWARRAY), idx)
	}
	for _, d := range n.Dims {
		c.grow(ast.TypeOf(d), false)
	}
	c.grow(resultType, true)

	for i, elem := range n.Initializer {
		c.mw.Emit(byte(opcode.DUP))
		c.grow(resultType, true)
		if err := emitIntLike(c, int64(i)); err != nil {
			return err
		}
		if err := Emit(c, elem); err != nil {
			return err
		}
		c.mw.Emit(byte(opcode.ArrayStoreOp(n.ElemType.Kind)))
		c.grow(resultType, false)
		c.grow(ast.Prim(ast.Int), false)
		c.grow(n.ElemType, false)
	}
	return nil
}

func emitArrayLength(c *Context, n *ast.ArrayLength) error {
	if err := Emit(c, n.Array); err != nil {
		return err
	}
	c.mw.Emit(byte(opcode.ARRAYLENGTH))
	c.grow(ast.TypeOf(n.Array), false)
	c.grow(ast.Prim(ast.Int), true)
	return nil
}

// emitArrayAccess loads one array element via the type-specialized
// *ALOAD opcode (spec §4.2 `array-access`).
func emitArrayAccess(c *Context, n *ast.ArrayAccess) error {
	if err := Emit(c, n.Array); err != nil {
		return err
	}
	if err := Emit(c, n.Index); err != nil {
		return err
	}
	elemType := ast.TypeOf(n)
	c.mw.Emit(byte(opcode.ArrayLoadOp(elemType.Kind)))
	c.grow(ast.TypeOf(n.Array), false)
	c.grow(ast.Prim(ast.Int), false)
	c.grow(elemType, true)
	return nil
}

// emitArrayUpdate stores one array element, duplicating array+index+
// value first when the store is consumed as an expression (spec §4.2
// `array-update`).
func emitArrayUpdate(c *Context, n *ast.ArrayUpdate) error {
	if err := Emit(c, n.Array); err != nil {
		return err
	}
	if err := Emit(c, n.Index); err != nil {
		return err
	}
	if err := Emit(c, n.Value); err != nil {
		return err
	}
	valueType := ast.TypeOf(n.Value)
	valueNeeded := ast.ContextOf(n).Has(ast.Expression)
	if valueNeeded {
		if valueType.IsWide() {
			c.mw.Emit(byte(opcode.DUP2_X2))
		} else {
			c.mw.Emit(byte(opcode.DUP_X2))
		}
		c.grow(valueType, true)
	}
	c.mw.Emit(byte(opcode.ArrayStoreOp(valueType.Kind)))
	c.grow(ast.TypeOf(n.Array), false)
	c.grow(ast.Prim(ast.Int), false)
	c.grow(valueType, false)
	return nil
}
