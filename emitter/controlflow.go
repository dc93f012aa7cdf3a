package emitter

import (
	"sort"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/opcode"
)

// emitArm emits one branch of a value-producing construct (If's then/else,
// a loop body, ...): Emit directly when its value is needed, otherwise
// emitDiscardable to pop whatever it leaves behind.
func emitArm(c *Context, body ast.Expr, valueNeeded bool) error {
	if valueNeeded {
		return Emit(c, body)
	}
	return emitDiscardable(c, body)
}

// emitDiscardable emits e and, if e produced a value nobody consumes
// (spec §3 Context: Statement disposition, non-void type), pops it. This
// is how a non-final expression of a `do` or a loop/if body with no
// further use for its result stays stack-neutral (spec §4.2 `do`).
func emitDiscardable(c *Context, e ast.Expr) error {
	if err := Emit(c, e); err != nil {
		return err
	}
	switch e.(type) {
	case *ast.Assignment, *ast.Increment, *ast.FieldUpdate, *ast.ArrayUpdate,
		*ast.ReturnExpr, *ast.Throw, *ast.Continue, *ast.Break:
		// These leave nothing on the stack in statement context.
		return nil
	}
	t := ast.TypeOf(e)
	if ast.ContextOf(e).Has(ast.Statement) && t.Kind != ast.Void {
		if t.IsWide() {
			c.mw.Emit(byte(opcode.POP2))
		} else {
			c.mw.Emit(byte(opcode.POP))
		}
		c.grow(t, false)
	}
	return nil
}

// emitIf lowers a conditional expression (spec §4.2.1).
func emitIf(c *Context, n *ast.If) error {
	ctx := ast.ContextOf(n)
	valueNeeded := n.Else != nil && !ctx.Has(ast.Statement)
	elseLabel := c.mw.NewLabel()
	endLabel := c.mw.NewLabel()
	depth0 := c.mw.StackDepth()

	if err := emitBranch(c, n.Test, false, elseLabel); err != nil {
		return err
	}
	if err := emitArm(c, n.Then, valueNeeded); err != nil {
		return err
	}
	if n.Else == nil {
		c.mw.MarkLabel(elseLabel)
		c.recordFrame(elseLabel, nil)
		c.mw.MarkLabel(endLabel)
		c.recordFrame(endLabel, nil)
		return nil
	}

	c.mw.EmitBranch(byte(opcode.GOTO), endLabel)
	c.mw.SetStackDepth(depth0)
	c.mw.MarkLabel(elseLabel)
	c.recordFrame(elseLabel, nil)
	if err := emitArm(c, n.Else, valueNeeded); err != nil {
		return err
	}
	c.mw.MarkLabel(endLabel)
	if valueNeeded {
		c.recordFrame(endLabel, []classfile.VerificationType{verificationTypeOf(n.Typ)})
	} else {
		c.recordFrame(endLabel, nil)
	}
	return nil
}

// emitWhile lowers a pretest loop (spec §4.2.3): an initial GOTO to the
// test, which is placed after the body and branches back to the body while
// it holds. Loops are statement-typed, but spec §4.2.3 requires a
// pushed null after the loop when it appears in expression position, to
// keep the net stack delta equal to category(n.type) (spec §3) for any
// caller that assumed a value was left behind.
func emitWhile(c *Context, n *ast.While) error {
	ctx := ast.ContextOf(n)
	valueNeeded := !ctx.Has(ast.Statement)
	testLabel := c.mw.NewLabel()
	bodyLabel := c.mw.NewLabel()
	breakLabel := c.mw.NewLabel()
	depth0 := c.mw.StackDepth()

	c.mw.EmitBranch(byte(opcode.GOTO), testLabel)

	c.mw.MarkLabel(bodyLabel)
	c.recordFrame(bodyLabel, nil)
	c.pushLoop(n.Label, testLabel, breakLabel, true)
	err := emitDiscardable(c, n.Body)
	c.popLoop()
	if err != nil {
		return err
	}

	c.mw.MarkLabel(testLabel)
	c.mw.SetStackDepth(depth0)
	c.recordFrame(testLabel, nil)
	if err := emitBranch(c, n.Test, true, bodyLabel); err != nil {
		return err
	}

	// breakLabel is the target of both the normal test-false fallthrough and
	// any `break`, neither of which has pushed anything yet, so its frame is
	// always depth0/nil; the null (if needed) is pushed by straight-line code
	// immediately after, not by any edge into the label itself.
	c.mw.MarkLabel(breakLabel)
	c.mw.SetStackDepth(depth0)
	c.recordFrame(breakLabel, nil)
	if valueNeeded {
		c.mw.Emit(byte(opcode.ACONST_NULL))
		c.grow(ast.Prim(ast.Reference), true)
	}
	return nil
}

// emitFor lowers a counted pretest loop with an optional init/test/step
// (spec §4.2.3). Like emitWhile, a pushed null closes out expression
// position per spec §4.2.3/§3 (for loops are statement-typed).
func emitFor(c *Context, n *ast.For) error {
	ctx := ast.ContextOf(n)
	valueNeeded := !ctx.Has(ast.Statement)
	if n.Init != nil {
		if err := emitDiscardable(c, n.Init); err != nil {
			return err
		}
	}

	testLabel := c.mw.NewLabel()
	bodyLabel := c.mw.NewLabel()
	continueLabel := c.mw.NewLabel()
	breakLabel := c.mw.NewLabel()
	depth0 := c.mw.StackDepth()

	c.mw.EmitBranch(byte(opcode.GOTO), testLabel)

	c.mw.MarkLabel(bodyLabel)
	c.recordFrame(bodyLabel, nil)
	c.pushLoop(n.Label, continueLabel, breakLabel, true)
	err := emitDiscardable(c, n.Body)
	c.popLoop()
	if err != nil {
		return err
	}

	c.mw.MarkLabel(continueLabel)
	c.recordFrame(continueLabel, nil)
	if n.Step != nil {
		if err := emitDiscardable(c, n.Step); err != nil {
			return err
		}
	}

	c.mw.MarkLabel(testLabel)
	c.mw.SetStackDepth(depth0)
	c.recordFrame(testLabel, nil)
	if n.Test != nil {
		if err := emitBranch(c, n.Test, true, bodyLabel); err != nil {
			return err
		}
	} else {
		c.mw.EmitBranch(byte(opcode.GOTO), bodyLabel)
	}

	c.mw.MarkLabel(breakLabel)
	c.mw.SetStackDepth(depth0)
	c.recordFrame(breakLabel, nil)
	if valueNeeded {
		c.mw.Emit(byte(opcode.ACONST_NULL))
		c.grow(ast.Prim(ast.Reference), true)
	}
	return nil
}

// emitSwitch lowers TABLESWITCH or LOOKUPSWITCH depending on key density
// (spec §4.2.2). A clause whose Guard is set (string-switch equality
// confirmation after a hash dispatch) branches to the default on a guard
// failure before falling into its body.
func emitSwitch(c *Context, n *ast.Switch) error {
	ctx := ast.ContextOf(n)
	valueNeeded := !ctx.Has(ast.Statement)
	depth0 := c.mw.StackDepth()

	if err := Emit(c, n.Test); err != nil {
		return err
	}
	c.grow(ast.TypeOf(n.Test), false) // consumed by TABLESWITCH/LOOKUPSWITCH

	breakLabel := c.mw.NewLabel()
	defaultLabel := c.mw.NewLabel()

	type keyedClause struct {
		key   int64
		label classfile.Label
		cl    ast.SwitchClause
	}
	var keyed []keyedClause
	for _, cl := range n.Clauses {
		lbl := c.mw.NewLabel()
		for _, k := range cl.Keys {
			keyed = append(keyed, keyedClause{key: k, label: lbl, cl: cl})
		}
	}
	sort.Slice(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })

	if len(keyed) == 0 {
		c.mw.EmitBranch(byte(opcode.GOTO), defaultLabel)
	} else {
		low, high := keyed[0].key, keyed[len(keyed)-1].key
		span := high - low + 1
		if span > 0 && span <= int64(2*len(keyed)) && span <= 1<<20 {
			targets := make([]classfile.Label, span)
			for i := range targets {
				targets[i] = defaultLabel
			}
			for _, k := range keyed {
				targets[k.key-low] = k.label
			}
			c.mw.EmitTableSwitch(defaultLabel, int32(low), int32(high), targets)
		} else {
			pairs := make([]classfile.SwitchPair, len(keyed))
			for i, k := range keyed {
				pairs[i] = classfile.SwitchPair{Key: int32(k.key), Target: k.label}
			}
			c.mw.EmitLookupSwitch(defaultLabel, pairs)
		}
	}

	c.pushLoop("", 0, breakLabel, false)

	emittedBodies := make(map[classfile.Label]bool)
	for _, k := range keyed {
		if emittedBodies[k.label] {
			continue
		}
		emittedBodies[k.label] = true
		c.mw.MarkLabel(k.label)
		c.mw.SetStackDepth(depth0)
		c.recordFrame(k.label, nil)
		if k.cl.Guard != nil {
			if err := emitBranch(c, k.cl.Guard, false, defaultLabel); err != nil {
				return err
			}
		}
		if err := emitArm(c, k.cl.Body, valueNeeded); err != nil {
			return err
		}
		c.mw.EmitBranch(byte(opcode.GOTO), breakLabel)
		c.mw.SetStackDepth(depth0)
	}

	c.mw.MarkLabel(defaultLabel)
	c.mw.SetStackDepth(depth0)
	c.recordFrame(defaultLabel, nil)
	if n.Default != nil {
		if err := emitArm(c, n.Default, valueNeeded); err != nil {
			return err
		}
	} else if valueNeeded {
		return &InvariantViolationError{Invariant: "a value-producing switch must have a default clause", Detail: "exhaustiveness is a typer concern, not an emitter one"}
	}

	c.popLoop()
	c.mw.MarkLabel(breakLabel)
	c.mw.SetStackDepth(depth0)
	if valueNeeded {
		c.recordFrame(breakLabel, []classfile.VerificationType{verificationTypeOf(n.Typ)})
	} else {
		c.recordFrame(breakLabel, nil)
	}
	return nil
}

// emitContinue and emitBreak resolve their (possibly labeled) target via
// the active loop/switch stack (spec §4.2 `continue`/`break`).
func emitContinue(c *Context, n *ast.Continue) error {
	target, finallyDepth, err := c.resolveContinue(n.Label)
	if err != nil {
		return err
	}
	if err := c.runFinalliesAbove(finallyDepth); err != nil {
		return err
	}
	c.mw.EmitBranch(byte(opcode.GOTO), target)
	return nil
}

func emitBreak(c *Context, n *ast.Break) error {
	target, finallyDepth, err := c.resolveBreak(n.Label)
	if err != nil {
		return err
	}
	if err := c.runFinalliesAbove(finallyDepth); err != nil {
		return err
	}
	c.mw.EmitBranch(byte(opcode.GOTO), target)
	return nil
}
