package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// emitTry lowers a structured try/catch/finally (spec §4.2.4). Each catch
// clause gets its own exception_table entry over the try body's range;
// finally, if present, is inlined at the end of every normal exit path
// (body fallthrough and each catch handler) via emitArm/runFinalliesAbove,
// and a final catch-all handler re-runs it before rethrowing for any
// exception that escapes uncaught, mirroring the teacher's processDefers
// (pkg/compiler/codegen.go) adapted from Go defer semantics to Java
// finally semantics.
func emitTry(c *Context, n *ast.Try) error {
	ctx := ast.ContextOf(n)
	valueNeeded := !ctx.Has(ast.Statement)
	depth0 := c.mw.StackDepth()

	if n.Finally != nil {
		c.finallyStack = append(c.finallyStack, n.Finally)
	}

	bodyStart := c.mw.NewLabel()
	bodyEnd := c.mw.NewLabel()
	endLabel := c.mw.NewLabel()

	c.mw.MarkLabel(bodyStart)
	c.recordFrame(bodyStart, nil)
	if err := emitArm(c, n.Body, valueNeeded); err != nil {
		return err
	}
	if n.Finally != nil {
		if err := emitDiscardable(c, n.Finally); err != nil {
			return err
		}
	}
	c.mw.MarkLabel(bodyEnd)
	c.mw.EmitBranch(byte(opcode.GOTO), endLabel)

	catchHandlerLabels := make([]classfile.Label, len(n.Catches))
	for i, cat := range n.Catches {
		c.mw.SetStackDepth(depth0)
		handler := c.mw.NewLabel()
		catchHandlerLabels[i] = handler
		c.mw.MarkLabel(handler)
		c.mw.SetStackDepth(1) // the thrown value is the sole stack item on handler entry
		c.recordFrame(handler, []classfile.VerificationType{{Tag: classfile.VObject, Internal: cat.ExcType.InternalName()}})

		emitIndexed(c, storeOpcodeFor(cat.ExcType), cat.Slot)
		if err := emitArm(c, cat.Handler, valueNeeded); err != nil {
			return err
		}
		if n.Finally != nil {
			if err := emitDiscardable(c, n.Finally); err != nil {
				return err
			}
		}
		if i < len(n.Catches)-1 {
			c.mw.EmitBranch(byte(opcode.GOTO), endLabel)
		}
	}
	if len(n.Catches) > 0 {
		c.mw.EmitBranch(byte(opcode.GOTO), endLabel)
	}

	for i, cat := range n.Catches {
		c.mw.AddExceptionHandler(bodyStart, bodyEnd, catchHandlerLabels[i], cat.ExcType.InternalName())
	}

	if n.Finally != nil {
		c.finallyStack = c.finallyStack[:len(c.finallyStack)-1]

		rethrow := c.mw.NewLabel()
		c.mw.SetStackDepth(depth0)
		c.mw.MarkLabel(rethrow)
		c.mw.SetStackDepth(1)
		c.recordFrame(rethrow, []classfile.VerificationType{{Tag: classfile.VObject, Internal: "java/lang/Throwable"}})

		excSlot := c.allocScratch(1)
		c.mw.EmitU8(byte(opcode.ASTORE), byte(excSlot))
		if err := emitDiscardable(c, n.Finally); err != nil {
			return err
		}
		c.mw.EmitU8(byte(opcode.ALOAD), byte(excSlot))
		c.mw.Emit(byte(opcode.ATHROW))

		// Covers the body and every catch handler: an exception escaping
		// any of them still must run finally before propagating further.
		c.mw.AddExceptionHandler(bodyStart, bodyEnd, rethrow, "")
		for i := range n.Catches {
			start := catchHandlerLabels[i]
			var end classfile.Label
			if i+1 < len(n.Catches) {
				end = catchHandlerLabels[i+1]
			} else {
				end = rethrow
			}
			c.mw.AddExceptionHandler(start, end, rethrow, "")
		}
	}

	c.mw.MarkLabel(endLabel)
	c.mw.SetStackDepth(depth0)
	if valueNeeded {
		c.mw.SetStackDepth(depth0 + n.Typ.Category())
		c.recordFrame(endLabel, []classfile.VerificationType{verificationTypeOf(n.Typ)})
	} else {
		c.recordFrame(endLabel, nil)
	}
	return nil
}

// storeOpcodeFor returns the store opcode used to bind a caught exception
// to its catch-clause local.
func storeOpcodeFor(t ast.Type) opcode.Opcode {
	return opcode.StoreBase(t.Kind)
}
