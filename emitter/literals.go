package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// emitLiteral pushes n's value using the shortest available encoding
// (spec §4.2 `literal`): a canonical *CONST_* opcode when one exists for
// the exact value, else BIPUSH/SIPUSH for an int that fits, else an LDC/
// LDC2_W against the constant pool.
func emitLiteral(c *Context, n *ast.Literal) error {
	switch n.Kind {
	case ast.LitBool:
		v := int64(0)
		if n.Bool {
			v = 1
		}
		return emitIntLike(c, v)
	case ast.LitInt:
		return emitIntLike(c, n.Int)
	case ast.LitLong:
		return emitLong(c, n.Long)
	case ast.LitFloat:
		return emitFloat(c, n.Float32)
	case ast.LitDouble:
		return emitDouble(c, n.Float64)
	case ast.LitString:
		idx := c.pool.String(n.Str)
		c.mw.EmitU16(byte(opcode.LDC_W), idx)
		c.grow(ast.Prim(ast.Reference), true)
		return nil
	case ast.LitClass:
		idx := classLiteralIndex(c.pool, n.PrimType)
		c.mw.EmitU16(byte(opcode.GETSTATIC), idx)
		c.grow(ast.Prim(ast.Reference), true)
		return nil
	default:
		return &InvariantViolationError{Invariant: "literal has a recognized Kind", Detail: "unhandled LiteralKind"}
	}
}

// classLiteralIndex interns the Fieldref read by GETSTATIC for a primitive
// type literal such as `int.class`: the JVM represents these via the
// wrapper class's public static final TYPE field. t is the primitive type
// itself, or a reference type already naming that field's owner (spec §4.2
// literal rule (d)).
func classLiteralIndex(pool *classfile.ConstantPool, t ast.Type) uint16 {
	owner := map[ast.Kind]string{
		ast.Boolean: "java/lang/Boolean", ast.Byte: "java/lang/Byte",
		ast.Char: "java/lang/Character", ast.Short: "java/lang/Short",
		ast.Int: "java/lang/Integer", ast.Long: "java/lang/Long",
		ast.Float: "java/lang/Float", ast.Double: "java/lang/Double",
		ast.Void: "java/lang/Void",
	}[t.Kind]
	if t.Kind == ast.Reference {
		owner = t.InternalName()
	}
	return pool.Fieldref(owner, "TYPE", "Ljava/lang/Class;")
}

func emitIntLike(c *Context, v int64) error {
	if op, ok := opcode.IntConst(v); ok {
		c.mw.Emit(byte(op))
	} else if v >= -128 && v <= 127 {
		c.mw.EmitU8(byte(opcode.BIPUSH), byte(int8(v)))
	} else if v >= -32768 && v <= 32767 {
		c.mw.EmitU16(byte(opcode.SIPUSH), uint16(int16(v)))
	} else {
		idx := c.pool.Integer(int32(v))
		if idx <= 0xff {
			c.mw.EmitU8(byte(opcode.LDC), byte(idx))
		} else {
			c.mw.EmitU16(byte(opcode.LDC_W), idx)
		}
	}
	c.grow(ast.Prim(ast.Int), true)
	return nil
}

func emitLong(c *Context, v int64) error {
	if op, ok := opcode.LongConst(v); ok {
		c.mw.Emit(byte(op))
	} else {
		idx := c.pool.Long(v)
		c.mw.EmitU16(byte(opcode.LDC2_W), idx)
	}
	c.grow(ast.Prim(ast.Long), true)
	return nil
}

func emitFloat(c *Context, v float32) error {
	if op, ok := opcode.FloatConst(v); ok {
		c.mw.Emit(byte(op))
	} else {
		idx := c.pool.Float(v)
		if idx <= 0xff {
			c.mw.EmitU8(byte(opcode.LDC), byte(idx))
		} else {
			c.mw.EmitU16(byte(opcode.LDC_W), idx)
		}
	}
	c.grow(ast.Prim(ast.Float), true)
	return nil
}

func emitDouble(c *Context, v float64) error {
	if op, ok := opcode.DoubleConst(v); ok {
		c.mw.Emit(byte(op))
	} else {
		idx := c.pool.Double(v)
		c.mw.EmitU16(byte(opcode.LDC2_W), idx)
	}
	c.grow(ast.Prim(ast.Double), true)
	return nil
}
