// Package ast defines the typed, already-resolved abstract syntax tree that
// the emitter (see package emitter) walks to produce a JVM class file.
//
// Nothing in this package parses source text or resolves symbols: a tree
// rooted at a ClassNode is assumed to already carry resolved owner/
// descriptor strings, explicit conversion nodes, and assigned local slots,
// the way the teacher's go/types.Info is already resolved by the time
// package compiler walks it.
package ast

import "strings"

// Kind identifies one of the JVM's primitive types, a class/interface
// reference, or an array.
type Kind byte

// Primitive and structural type kinds.
const (
	Boolean Kind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
	Reference
	Array
)

// Type is a JVM type descriptor: a primitive, a reference to a class or
// interface (by internal, slash-separated name), or an array of some
// element type.
type Type struct {
	Kind Kind
	// Internal is the internal (slash-separated) name of the referenced
	// class, meaningful only when Kind == Reference.
	Internal string
	// Elem is the array element type, meaningful only when Kind == Array.
	Elem *Type
}

// Prim builds a primitive Type for kinds other than Reference and Array.
func Prim(k Kind) Type { return Type{Kind: k} }

// Ref builds a reference Type from an internal (slash-separated) class name.
func Ref(internal string) Type { return Type{Kind: Reference, Internal: internal} }

// ArrayOf builds an array Type with the given element type.
func ArrayOf(elem Type) Type { return Type{Kind: Array, Elem: &elem} }

// IsPrimitive reports whether t is one of the eight JVM primitive types
// (excluding void).
func (t Type) IsPrimitive() bool {
	return t.Kind <= Double
}

// IsNumeric reports whether t is a primitive numeric type.
func (t Type) IsNumeric() bool {
	return t.Kind <= Double && t.Kind != Boolean
}

// IsWide reports whether t occupies two category-2 wide slots (long/double).
func (t Type) IsWide() bool {
	return t.Kind == Long || t.Kind == Double
}

// Category returns the JVM operand category of t: 2 for long/double, 1 for
// everything else, per spec §3.
func (t Type) Category() int {
	if t.IsWide() {
		return 2
	}
	return 1
}

// InternalName returns the internal (slash-separated) name of a reference
// type. It panics for non-reference types; callers should check Kind first.
func (t Type) InternalName() string {
	if t.Kind != Reference {
		panic("ast: InternalName called on non-reference type")
	}
	return t.Internal
}

// Descriptor returns the JVM field/type descriptor string for t, e.g. "I",
// "Ljava/lang/String;", "[[I".
func (t Type) Descriptor() string {
	switch t.Kind {
	case Boolean:
		return "Z"
	case Byte:
		return "B"
	case Char:
		return "C"
	case Short:
		return "S"
	case Int:
		return "I"
	case Long:
		return "J"
	case Float:
		return "F"
	case Double:
		return "D"
	case Void:
		return "V"
	case Reference:
		var b strings.Builder
		b.WriteByte('L')
		b.WriteString(t.Internal)
		b.WriteByte(';')
		return b.String()
	case Array:
		return "[" + t.Elem.Descriptor()
	default:
		panic("ast: unknown type kind")
	}
}

// MethodDescriptor builds the descriptor string for a method with the given
// parameter and return types, e.g. "(IJ)V".
func MethodDescriptor(params []Type, ret Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(ret.Descriptor())
	return b.String()
}

// Equal reports structural equality between two types.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Reference:
		return t.Internal == other.Internal
	case Array:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}
