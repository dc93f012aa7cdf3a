package classemitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// convertField builds the FieldSpec for one declared field, munging its
// name and coercing any compile-time constant to the field's declared
// primitive width (spec §4.1 item 4).
func convertField(munger *nameMunger, f ast.FieldNode) classfile.FieldSpec {
	spec := classfile.FieldSpec{
		Access:      fieldAccessFlags(f.Access),
		Name:        munger.munge(f.Name, ""),
		Descriptor:  f.Type.Descriptor(),
		Annotations: convertAnnotations(f.Annotations),
	}
	if f.Constant != nil {
		spec.ConstantValue = coerceConstant(f.Constant.Value, f.Type)
	}
	return spec
}

// coerceConstant narrows v to the Go type classfile.writeConstantValueAttribute
// expects for t's primitive width (spec §4.1 item 4: "coerce the constant
// to its declared primitive width ... when the field is primitive").
func coerceConstant(v any, t ast.Type) any {
	switch t.Kind {
	case ast.Boolean:
		return asBool(v)
	case ast.Byte, ast.Char, ast.Short, ast.Int:
		return int32(asInt(v))
	case ast.Long:
		return asInt(v)
	case ast.Float:
		return float32(asFloat(v))
	case ast.Double:
		return asFloat(v)
	default: // Reference (String) or already a string constant
		if s, ok := v.(string); ok {
			return s
		}
		return v
	}
}

func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	default:
		return false
	}
}

func asInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}
