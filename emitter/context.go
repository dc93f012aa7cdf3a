package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// loopFrame tracks one active loop or switch's continue/break targets,
// the way the teacher's funcScope threads a label stack through nested
// constructs (pkg/compiler/func_scope.go).
type loopFrame struct {
	name          string // "" for an unlabeled construct
	continueLabel classfile.Label
	breakLabel    classfile.Label
	hasContinue   bool // false for switch, which has no continue target
	// finallyDepth is len(Context.finallyStack) at the time this loop was
	// entered; a Continue/Break targeting this frame only needs to run the
	// finally blocks pushed after that point (spec §4.2.4).
	finallyDepth int
}

// Context is the per-method emission state: the backend writer this
// method's instructions go into, the active loop/switch stack for
// Continue/Break resolution, and whether debug tables should be recorded.
// It is threaded explicitly through every emit call rather than held as
// emitter-wide mutable state, so nested method/lambda-like bodies (an
// anonymous class's methods, emitted independently) never see a stale
// loop stack (spec §3 design notes on explicit context threading).
type Context struct {
	mw    *classfile.MethodWriter
	pool  *classfile.ConstantPool
	debug bool

	loops []loopFrame

	// localsFrame is the StackMapTable verification-type listing for every
	// local this method declares, computed once at method entry. All of a
	// method's locals are assigned fixed slots and types up front by the
	// parser (spec §3 MethodNode.Locals), so unlike a dataflow-derived
	// verifier this listing never changes across a method body; only the
	// operand-stack portion of a frame varies from one recorded label to
	// the next (spec SUPPLEMENTED FEATURES, StackMapTable computation).
	localsFrame []classfile.VerificationType

	// finallyStack holds the finally bodies of every Try currently being
	// emitted, innermost last. Continue/Break/Return run (a fresh
	// copy of) every finally above the relevant base depth before jumping,
	// since this repository inlines finally at each exit path rather than
	// using a JSR/RET subroutine call (spec §4.2.4 design notes, following
	// the teacher's processDefers).
	finallyStack []ast.Expr

	scratchNext int // next unused synthetic local slot, past the method's declared locals

	returnType ast.Type // this method's declared return type, for centralized return-opcode selection (spec §4.5)
}

// SetReturnType records the enclosing method's declared return type.
func (c *Context) SetReturnType(t ast.Type) {
	c.returnType = t
}

// NewContext begins emission into mw, using pool to intern constants.
// debug controls whether LocalVariableTable entries are recorded for let
// bindings (spec §6 "debug" configuration key); StackMapTable frames are
// recorded regardless, and no LineNumberTable entries are recorded.
func NewContext(mw *classfile.MethodWriter, pool *classfile.ConstantPool, debug bool) *Context {
	return &Context{mw: mw, pool: pool, debug: debug}
}

// pushLoop registers a new innermost loop/switch frame for the duration of
// emitting its body; callers must popLoop when done, including on early
// return from an error.
func (c *Context) pushLoop(name string, continueLabel, breakLabel classfile.Label, hasContinue bool) {
	c.loops = append(c.loops, loopFrame{name: name, continueLabel: continueLabel, breakLabel: breakLabel, hasContinue: hasContinue, finallyDepth: len(c.finallyStack)})
}

func (c *Context) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

// resolveContinue finds the continue target for name ("" meaning the
// innermost loop that has one, per spec §4.2 `continue`), along with the
// finally-stack depth active when that loop was entered.
func (c *Context) resolveContinue(name string) (classfile.Label, int, error) {
	if name == "" {
		for i := len(c.loops) - 1; i >= 0; i-- {
			if c.loops[i].hasContinue {
				return c.loops[i].continueLabel, c.loops[i].finallyDepth, nil
			}
		}
		return 0, 0, &InvariantViolationError{Invariant: "continue requires an enclosing loop", Detail: "no active loop"}
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i].name == name {
			if !c.loops[i].hasContinue {
				return 0, 0, &InvariantViolationError{Invariant: "continue target must be a loop", Detail: "label " + name + " names a switch"}
			}
			return c.loops[i].continueLabel, c.loops[i].finallyDepth, nil
		}
	}
	return 0, 0, &InvariantViolationError{Invariant: "continue label must name an enclosing construct", Detail: name}
}

// resolveBreak finds the break target for name ("" meaning the innermost
// loop or switch, per spec §4.2 `break`), along with the finally-stack
// depth active when that construct was entered.
func (c *Context) resolveBreak(name string) (classfile.Label, int, error) {
	if name == "" {
		if len(c.loops) == 0 {
			return 0, 0, &InvariantViolationError{Invariant: "break requires an enclosing loop or switch", Detail: "no active construct"}
		}
		f := c.loops[len(c.loops)-1]
		return f.breakLabel, f.finallyDepth, nil
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i].name == name {
			return c.loops[i].breakLabel, c.loops[i].finallyDepth, nil
		}
	}
	return 0, 0, &InvariantViolationError{Invariant: "break label must name an enclosing construct", Detail: name}
}

// runFinalliesAbove emits (fresh copies of) every pending finally block
// above baseDepth, innermost first, discarding each one's value — the
// "finally inlined on every exit path" lowering of spec §4.2.4. While a
// finally block is emitted, only the finallies enclosing it stay pending, so
// a return inside a finally runs the outer ones rather than itself again.
func (c *Context) runFinalliesAbove(baseDepth int) error {
	saved := c.finallyStack
	defer func() { c.finallyStack = saved }()
	for i := len(saved) - 1; i >= baseDepth; i-- {
		c.finallyStack = saved[:i]
		if err := emitDiscardable(c, saved[i]); err != nil {
			return err
		}
	}
	return nil
}

// allocScratch reserves a synthetic local slot (beyond every source-
// declared local) of the given JVM category width, used by the Try
// lowering to stash an in-flight exception across an inlined finally
// (spec §4.2.4 design notes).
func (c *Context) allocScratch(width int) int {
	slot := c.scratchNext
	c.scratchNext += width
	c.mw.ReserveLocals(c.scratchNext)
	return slot
}

// SetLocals records this method's fixed local-variable types, in slot
// order, for later StackMapTable frame snapshots.
func (c *Context) SetLocals(locals []ast.LocalVar) {
	c.localsFrame = make([]classfile.VerificationType, len(locals))
	maxSlot := 0
	for i, l := range locals {
		c.localsFrame[i] = verificationTypeOf(l.Type)
		end := l.Slot + l.Type.Category()
		if end > maxSlot {
			maxSlot = end
		}
	}
	c.scratchNext = maxSlot
	c.mw.ReserveLocals(maxSlot)
}

// verificationTypeOf maps a declared AST type to its StackMapTable
// verification_type_info tag (JVMS Table 4.7.4-A). Arrays use VObject
// keyed by their own descriptor, which is also how JVMS §4.4.1 names an
// array type in a CONSTANT_Class entry.
func verificationTypeOf(t ast.Type) classfile.VerificationType {
	switch t.Kind {
	case ast.Int, ast.Boolean, ast.Byte, ast.Short, ast.Char:
		return classfile.VerificationType{Tag: classfile.VInteger}
	case ast.Long:
		return classfile.VerificationType{Tag: classfile.VLong}
	case ast.Float:
		return classfile.VerificationType{Tag: classfile.VFloat}
	case ast.Double:
		return classfile.VerificationType{Tag: classfile.VDouble}
	case ast.Reference:
		return classfile.VerificationType{Tag: classfile.VObject, Internal: t.Internal}
	case ast.Array:
		return classfile.VerificationType{Tag: classfile.VObject, Internal: t.Descriptor()}
	default:
		return classfile.VerificationType{Tag: classfile.VTop}
	}
}

// recordFrame snapshots this method's fixed locals alongside an explicit
// operand-stack listing at label, for the StackMapTable (used at branch
// merge points and exception handler entries). Unlike LocalVariableTable/
// LineNumberTable, StackMapTable entries are required for a verifiable
// class file targeting major version 50+ (spec §1: major version 52), so
// recording happens unconditionally, regardless of the debug flag.
func (c *Context) recordFrame(label classfile.Label, stack []classfile.VerificationType) {
	c.mw.RecordFrame(label, classfile.FrameSnapshot{Locals: c.localsFrame, Stack: stack})
}

// grow adjusts the method's tracked operand-stack depth for pushing or
// popping a value of type t (category-2 types count double, spec §3).
func (c *Context) grow(t ast.Type, push bool) {
	d := t.Category()
	if !push {
		d = -d
	}
	c.mw.Grow(d)
}
