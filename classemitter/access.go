package classemitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// classAccessFlags maps AccessSet onto the class access_flags word
// (JVMS §4.1 Table 4.1-A), always OR-ing in ACC_SUPER (spec §1: every
// class file this repository produces invokes special superclass method
// resolution the modern way).
func classAccessFlags(a ast.AccessSet) uint16 {
	var f uint16 = classfile.AccSuper
	if a.Has(ast.Public) {
		f |= classfile.AccPublic
	}
	if a.Has(ast.Final) {
		f |= classfile.AccFinal
	}
	if a.Has(ast.Abstract) {
		f |= classfile.AccAbstract
	}
	return f
}

// fieldAccessFlags maps AccessSet onto field access_flags (JVMS §4.5
// Table 4.5-A).
func fieldAccessFlags(a ast.AccessSet) uint16 {
	var f uint16
	if a.Has(ast.Public) {
		f |= classfile.AccPublic
	}
	if a.Has(ast.Private) {
		f |= classfile.AccPrivate
	}
	if a.Has(ast.Protected) {
		f |= classfile.AccProtected
	}
	if a.Has(ast.Static) {
		f |= classfile.AccStatic
	}
	if a.Has(ast.Final) {
		f |= classfile.AccFinal
	}
	if a.Has(ast.Volatile) {
		f |= classfile.AccVolatile
	}
	if a.Has(ast.Transient) {
		f |= classfile.AccTransient
	}
	return f
}

// methodAccessFlags maps AccessSet onto method access_flags (JVMS §4.6
// Table 4.6-A).
func methodAccessFlags(a ast.AccessSet) uint16 {
	var f uint16
	if a.Has(ast.Public) {
		f |= classfile.AccPublic
	}
	if a.Has(ast.Private) {
		f |= classfile.AccPrivate
	}
	if a.Has(ast.Protected) {
		f |= classfile.AccProtected
	}
	if a.Has(ast.Static) {
		f |= classfile.AccStatic
	}
	if a.Has(ast.Final) {
		f |= classfile.AccFinal
	}
	if a.Has(ast.Synchronized) {
		f |= classfile.AccSynchronized
	}
	if a.Has(ast.Abstract) {
		f |= classfile.AccAbstract
	}
	if a.Has(ast.Varargs) {
		f |= classfile.AccVarargs
	}
	return f
}
