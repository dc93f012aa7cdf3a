package emitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// DebugLocal is one LocalVariableTable entry as recorded during emission:
// unlike ast.LocalVar (spec §3, known entirely from the parser), it also
// carries the [start, end) label pair bounding the variable's live scope,
// which only exists once the emitter has walked the binding's extent
// (ast/nodes.go LocalVar doc comment).
type DebugLocal struct {
	Name       string
	Descriptor string
	Slot       int
	Start, End classfile.Label
}

// emitLet introduces local bindings in scope for Body (spec §4.2 `let`).
// Each binding's initializer is evaluated and stored to its assigned
// slot; when debug tables are enabled, a LocalVariableTable entry is recorded spanning
// from just after the store to just after Body, matching javac's own
// convention of starting a local's debug scope at its first definite
// assignment.
func emitLet(c *Context, n *ast.Let) error {
	type pending struct {
		b     ast.Binding
		start classfile.Label
	}
	var debugLocals []pending

	for _, b := range n.Bindings {
		if err := Emit(c, b.Init); err != nil {
			return err
		}
		emitStore(c, b.Type, b.Slot)

		if c.debug {
			start := c.mw.NewLabel()
			c.mw.MarkLabel(start)
			debugLocals = append(debugLocals, pending{b: b, start: start})
		}
	}

	if err := Emit(c, n.Body); err != nil {
		return err
	}

	if c.debug {
		end := c.mw.NewLabel()
		c.mw.MarkLabel(end)
		for _, p := range debugLocals {
			c.mw.AddLocalVar(p.start, end, p.b.Name, p.b.Type.Descriptor(), p.b.Slot)
		}
	}
	return nil
}
