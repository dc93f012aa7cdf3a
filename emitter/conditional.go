package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// emitBranch emits code that transfers control to target exactly when e's
// boolean value equals jumpIfTrue, falling through otherwise (spec
// §4.2.5). Compare/And/Or/Not are lowered structurally, short-circuiting
// without ever materializing an intermediate 0/1 value; any other
// boolean-valued node falls back to emitting its value and branching on
// it with IFNE/IFEQ.
func emitBranch(c *Context, e ast.Expr, jumpIfTrue bool, target classfile.Label) error {
	switch n := e.(type) {
	case *ast.Compare:
		return emitCompareBranch(c, n, jumpIfTrue, target)
	case *ast.And:
		return emitAndBranch(c, n, jumpIfTrue, target)
	case *ast.Or:
		return emitOrBranch(c, n, jumpIfTrue, target)
	case *ast.Not:
		return emitBranch(c, n.X, !jumpIfTrue, target)
	default:
		if err := Emit(c, e); err != nil {
			return err
		}
		c.grow(ast.TypeOf(e), false)
		op := opcode.IFEQ
		if jumpIfTrue {
			op = opcode.IFNE
		}
		c.mw.EmitBranch(byte(op), target)
		return nil
	}
}

// emitCompareBranch lowers one relational test, using the cmp-then-branch
// pairing from opcode.BranchOnCompare for wide operand kinds (spec
// §4.2.5). jumpIfTrue selects between branching on op directly and
// branching on its negation, which only ever changes which way the branch
// jumps; BranchOnCompare also needs n.Op itself, pre-negation, to pick the
// correct FCMPG/FCMPL (DCMPG/DCMPL) reduction for NaN semantics.
func emitCompareBranch(c *Context, n *ast.Compare, jumpIfTrue bool, target classfile.Label) error {
	branchOp := n.Op
	if !jumpIfTrue {
		branchOp = branchOp.Negate()
	}
	operandKind := ast.Int
	if len(n.Operands) > 0 {
		operandKind = ast.TypeOf(n.Operands[0]).Kind
	}
	for _, operand := range n.Operands {
		if err := Emit(c, operand); err != nil {
			return err
		}
	}
	for _, operand := range n.Operands {
		c.grow(ast.TypeOf(operand), false)
	}

	lowering := opcode.BranchOnCompare(branchOp, n.Op, operandKind)
	if lowering.Pre != 0 {
		c.mw.Emit(byte(lowering.Pre))
		c.grow(ast.Prim(ast.Int), true) // LCMP/FCMP*/DCMP* leave one int
	}
	c.mw.EmitBranch(byte(lowering.Branch), target)
	if lowering.Pre != 0 {
		c.grow(ast.Prim(ast.Int), false) // the branch consumes that int
	}
	return nil
}

// emitAndBranch lowers a short-circuit conjunction (spec §4.2.5 `and`).
func emitAndBranch(c *Context, n *ast.And, jumpIfTrue bool, target classfile.Label) error {
	if jumpIfTrue {
		falseLabel := c.mw.NewLabel()
		for i, sub := range n.Exprs {
			if i == len(n.Exprs)-1 {
				if err := emitBranch(c, sub, true, target); err != nil {
					return err
				}
			} else if err := emitBranch(c, sub, false, falseLabel); err != nil {
				return err
			}
		}
		c.mw.MarkLabel(falseLabel)
		c.recordFrame(falseLabel, nil)
		return nil
	}
	for _, sub := range n.Exprs {
		if err := emitBranch(c, sub, false, target); err != nil {
			return err
		}
	}
	return nil
}

// emitOrBranch lowers a short-circuit disjunction (spec §4.2.5 `or`); the
// final expression needs no dedicated short-circuit label since, win or
// lose, control falls through past it exactly as the general case would.
func emitOrBranch(c *Context, n *ast.Or, jumpIfTrue bool, target classfile.Label) error {
	if jumpIfTrue {
		for _, sub := range n.Exprs {
			if err := emitBranch(c, sub, true, target); err != nil {
				return err
			}
		}
		return nil
	}
	trueLabel := c.mw.NewLabel()
	for i, sub := range n.Exprs {
		if i == len(n.Exprs)-1 {
			if err := emitBranch(c, sub, false, target); err != nil {
				return err
			}
		} else if err := emitBranch(c, sub, true, trueLabel); err != nil {
			return err
		}
	}
	c.mw.MarkLabel(trueLabel)
	c.recordFrame(trueLabel, nil)
	return nil
}

// emitBoolValue materializes e's boolean value as a real 0/1 int on the
// stack, used whenever e is consumed as an ordinary value rather than
// driving a branch (spec §4.2.5: "avoids materializing 0/1 booleans when
// possible" — this is the fallback path for when it isn't possible).
func emitBoolValue(c *Context, e ast.Expr) error {
	falseLabel := c.mw.NewLabel()
	endLabel := c.mw.NewLabel()
	if err := emitBranch(c, e, false, falseLabel); err != nil {
		return err
	}
	c.mw.Emit(byte(opcode.ICONST_1))
	c.grow(ast.Prim(ast.Boolean), true)
	c.mw.EmitBranch(byte(opcode.GOTO), endLabel)
	c.grow(ast.Prim(ast.Boolean), false)

	c.mw.MarkLabel(falseLabel)
	c.recordFrame(falseLabel, nil)
	c.mw.Emit(byte(opcode.ICONST_0))
	c.grow(ast.Prim(ast.Boolean), true)

	c.mw.MarkLabel(endLabel)
	c.recordFrame(endLabel, []classfile.VerificationType{{Tag: classfile.VInteger}})
	return nil
}

// isConditionalNode reports whether e is one of the structurally lowered
// conditional forms (spec §4.2.5); used by the dispatch table to decide
// whether a boolean-valued node needs emitBoolValue or can be emitted
// directly (e.g. a LocalRef of boolean type already pushes 0/1 itself).
func isConditionalNode(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Compare, *ast.And, *ast.Or, *ast.Not:
		return true
	default:
		return false
	}
}
