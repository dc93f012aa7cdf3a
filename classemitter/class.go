// Package classemitter implements spec §4.1: assembling one ast.ClassNode
// into a complete, serialized JVM class file via package classfile, driving
// package emitter over every method body along the way.
package classemitter

import (
	"go.uber.org/zap"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// Options configures one EmitClass call (spec §6: host-provided debug
// switch and a diagnostic logger).
type Options struct {
	// Debug enables LocalVariableTable generation (parameters and let
	// bindings) for every method in the class (spec §4.3); no
	// LineNumberTable is emitted.
	Debug bool
	// Logger receives one diagnostic message per class emitted; a nop
	// logger is used when Logger is nil.
	Logger *zap.Logger
}

// EmitClass realizes class as a class file (spec §4.1). Fields are
// declared first, then the static initializer (as "<clinit>"), then every
// constructor (as "<init>"), then every ordinary method (munged unless
// already JVM-legal); a single nameMunger is shared across the whole class
// so two distinct source names never munge to the same JVM name within one
// scope (a field, or one method descriptor); overloads keep their shared name.
func EmitClass(class *ast.ClassNode, opts Options) ([]byte, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	superClass := ""
	if class.Parent.Internal != "" {
		superClass = class.Parent.InternalName()
	}
	cw := classfile.NewClassWriter(classAccessFlags(class.Access), class.Internal, superClass)
	for _, i := range class.Interfaces {
		cw.AddInterface(i.InternalName())
	}
	if class.SourceFile != "" {
		cw.SetSourceFile(class.SourceFile)
	}
	cw.SetAnnotations(convertAnnotations(class.Annotations))

	munger := newNameMunger()

	for _, f := range class.Fields {
		cw.DeclareField(convertField(munger, f))
	}

	if class.StaticInit != nil {
		if err := declareAndEmitMethod(cw, *class.StaticInit, "<clinit>", opts.Debug); err != nil {
			return nil, err
		}
	}
	for _, ctor := range class.Constructors {
		if err := declareAndEmitMethod(cw, ctor, "<init>", opts.Debug); err != nil {
			return nil, err
		}
	}
	for _, m := range class.Methods {
		paramTypes := make([]ast.Type, len(m.Params))
		for i, p := range m.Params {
			paramTypes[i] = p.Type
		}
		descriptor := ast.MethodDescriptor(paramTypes, m.Return)
		jvmName := munger.munge(m.Name, descriptor)
		if err := declareAndEmitMethod(cw, m, jvmName, opts.Debug); err != nil {
			return nil, err
		}
	}

	out := cw.Bytes()

	logger.Info("emitted class",
		zap.String("class", class.Internal),
		zap.Int("fields", len(class.Fields)),
		zap.Int("methods", len(class.Constructors)+len(class.Methods)+boolToInt(class.StaticInit != nil)),
		zap.Int("bytes", len(out)),
	)
	if opts.Debug {
		logger.Debug("local variable and line number tables included", zap.String("class", class.Internal))
	} else {
		logger.Debug("local variable and line number tables skipped", zap.String("class", class.Internal))
	}

	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
