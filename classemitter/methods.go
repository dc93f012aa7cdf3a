package classemitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/emitter"
	"github.com/athos/jise/opcode"
)

// declareAndEmitMethod registers one method/constructor/static initializer
// and, unless it is abstract or native, drives an emitter.Context over its
// Body (spec §4.1 items 5-7). jvmName is the already-resolved member name:
// "<init>"/"<clinit>" for constructors/static initializers, the munged
// source name otherwise.
func declareAndEmitMethod(cw *classfile.ClassWriter, m ast.MethodNode, jvmName string, debug bool) error {
	paramTypes := make([]ast.Type, len(m.Params))
	for i, p := range m.Params {
		paramTypes[i] = p.Type
	}
	descriptor := ast.MethodDescriptor(paramTypes, m.Return)

	exceptions := make([]string, len(m.Throws))
	for i, t := range m.Throws {
		exceptions[i] = t.InternalName()
	}

	spec := cw.DeclareMethod(methodAccessFlags(m.Access), jvmName, descriptor, exceptions)
	spec.Annotations = convertAnnotations(m.Annotations)
	spec.ParameterAnnotations = convertParameterAnnotations(m.ParameterAnnotations)

	if spec.Access&(classfile.AccAbstract|classfile.AccNative) != 0 {
		return nil
	}

	mw := spec.Writer()
	ctx := emitter.NewContext(mw, cw.Pool(), debug)
	ctx.SetReturnType(m.Return)
	ctx.SetLocals(m.Locals)

	var startLabel, endLabel classfile.Label
	if debug {
		startLabel = mw.NewLabel()
		mw.MarkLabel(startLabel)
	}

	if err := emitter.Emit(ctx, m.Body); err != nil {
		return err
	}

	// A void method's body is permitted to fall through its last
	// statement without an explicit `return`; every other path out
	// (including every non-void one) already ends in an ast.ReturnExpr
	// by upstream construction. The trailing RETURN is therefore only
	// appended when the body's final expression (looking through trailing
	// do/let nesting) is not itself an ast.ReturnExpr.
	last := m.Body
	for {
		if d, ok := last.(*ast.Do); ok && len(d.Children) > 0 {
			last = d.Children[len(d.Children)-1]
		} else if l, ok := last.(*ast.Let); ok {
			last = l.Body
		} else {
			break
		}
	}
	if _, explicit := last.(*ast.ReturnExpr); m.Return.Kind == ast.Void && !explicit {
		mw.Emit(byte(opcode.RETURN))
	}

	if debug {
		endLabel = mw.NewLabel()
		mw.MarkLabel(endLabel)
		for _, p := range m.Params {
			mw.AddLocalVar(startLabel, endLabel, p.Name, p.Type.Descriptor(), p.Slot)
		}
	}
	return nil
}
