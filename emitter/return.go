package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/opcode"
)

// emitReturn lowers a `return` (spec §4.5): the value (if any) is
// evaluated first, then pending finally blocks run (spec §4.2.4), then the
// type-specialized return opcode is emitted. The return opcode itself is
// selected once, centrally, from the method's declared return kind — not
// re-derived per call site — the way spec §4.5 describes.
func emitReturn(c *Context, n *ast.ReturnExpr) error {
	if n.Value == nil {
		if err := c.runFinalliesAbove(0); err != nil {
			return err
		}
		c.mw.Emit(byte(opcode.RETURN))
		return nil
	}
	if err := Emit(c, n.Value); err != nil {
		return err
	}
	if err := c.runFinalliesAbove(0); err != nil {
		return err
	}
	c.mw.Emit(byte(opcode.ReturnOp(c.returnType.Kind)))
	c.grow(ast.TypeOf(n.Value), false)
	return nil
}

// emitThrow lowers `throw` (spec §4.2 `throw`): the value is evaluated,
// then ATHROW. Unlike return, a throw does not run pending finally blocks
// itself — propagation through the enclosing try's own catch-all handler
// (installed by emitTry) is what runs them (spec §4.2.4).
func emitThrow(c *Context, n *ast.Throw) error {
	if err := Emit(c, n.Value); err != nil {
		return err
	}
	c.mw.Emit(byte(opcode.ATHROW))
	c.grow(ast.TypeOf(n.Value), false)
	return nil
}
