package ast

// Retention is the retention policy of an AnnotationValue (spec §3, §4.4).
type Retention byte

// Recognized retention policies. Source-retained annotations are dropped
// during emission; only Class and Runtime survive into the class file.
const (
	RetentionSource Retention = iota
	RetentionClass
	RetentionRuntime
)

// AnnotationValue is a resolved annotation application: a type, a retention
// policy, and a map of recognized element names to their values. Values may
// be primitives, strings, nested AnnotationValues, or slices of any of
// those (spec §3, §4.4).
type AnnotationValue struct {
	Type      Type
	Retention Retention
	Elements  map[string]any
}

// Const is an optional compile-time constant value attached to a field
// (spec §3 FieldNode). The concrete Go type of Value is one of bool,
// int64, float64 (holding float32 bit patterns widened), float64, or
// string; the class emitter narrows it to the field's declared width.
type Const struct {
	Value any
}

// Parameter describes one method parameter (spec §3).
type Parameter struct {
	Name        string
	Type        Type
	Access      AccessSet
	Annotations []AnnotationValue
	Slot        int
}

// FieldNode describes one field declaration (spec §3).
type FieldNode struct {
	Access      AccessSet
	Name        string
	Annotations []AnnotationValue
	Type        Type
	Constant    *Const
}

// MethodNode describes one method, constructor, or static initializer
// (spec §3).
type MethodNode struct {
	Access AccessSet
	// Name is empty for constructors and static initializers; the class
	// emitter supplies the <init>/<clinit> special names for those.
	Name              string
	IsConstructor     bool
	IsStaticInit      bool
	Return            Type
	Params            []Parameter
	Throws            []Type
	Body              Expr
	Annotations       []AnnotationValue
	ParameterAnnotations map[int][]AnnotationValue
	// Locals is the full local-variable table assigned by the parser,
	// including parameters at their argument slots (spec §3).
	Locals []LocalVar
	// MaxLine is the greatest source line referenced by any node in Body,
	// used only to size debug-info tables; optional.
	MaxLine int
}

// LocalVar is one entry of a method's local-variable table as known to the
// parser: a name, type, and pre-assigned slot (spec §3). Scope-start/
// scope-end bounds are an emission-time concept (they name positions in
// the generated bytecode, which doesn't exist yet at parse time) and are
// recorded separately by the emitter; see emitter.DebugLocal.
type LocalVar struct {
	Name string
	Type Type
	Slot int
}

// ClassNode is the root of the AST: one class or interface (spec §3).
type ClassNode struct {
	SourceFile     string
	Internal       string
	Access         AccessSet
	Annotations    []AnnotationValue
	Parent         Type
	Interfaces     []Type
	StaticInit     *MethodNode
	Constructors   []MethodNode
	Fields         []FieldNode
	Methods        []MethodNode
}
