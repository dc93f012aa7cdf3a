package classemitter

import (
	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

// convertAnnotations filters anns to the Class- and Runtime-retained
// entries and converts each survivor to a classfile.AnnotationSpec
// (spec §4.4: "traverse annotation values on classes/fields/methods/
// parameters; for each, if retention is SOURCE, drop it").
func convertAnnotations(anns []ast.AnnotationValue) []classfile.AnnotationSpec {
	var out []classfile.AnnotationSpec
	for _, a := range anns {
		if a.Retention == ast.RetentionSource {
			continue
		}
		out = append(out, convertAnnotation(a))
	}
	return out
}

func convertAnnotation(a ast.AnnotationValue) classfile.AnnotationSpec {
	spec := classfile.AnnotationSpec{
		TypeDescriptor: a.Type.Descriptor(),
		Runtime:        a.Retention == ast.RetentionRuntime,
	}
	for name, v := range a.Elements {
		spec.Elements = append(spec.Elements, classfile.AnnotationElement{
			Name:  name,
			Value: convertElementValue(v),
		})
	}
	return spec
}

// convertElementValue narrows a Go value captured by the parser into the
// shape package classfile's element-value writer recognizes. Go's int
// literal kinds are narrowed to the smallest of int32/int64 that holds
// them, since most annotation int elements are plain `int` rather than
// `long` and classfile picks its element-value tag from the Go type
// itself.
func convertElementValue(v any) any {
	switch x := v.(type) {
	case bool, float32, float64, string, int32, int64:
		return x
	case int:
		return narrowInt(int64(x))
	case int8:
		return int32(x)
	case int16:
		return int32(x)
	case ast.AnnotationValue:
		return convertAnnotation(x)
	case []any:
		elems := make([]classfile.AnnotationElement, len(x))
		for i, e := range x {
			elems[i] = classfile.AnnotationElement{Value: convertElementValue(e)}
		}
		return elems
	default:
		panic("classemitter: unsupported annotation element value")
	}
}

func narrowInt(v int64) any {
	if v >= -(1<<31) && v < (1<<31) {
		return int32(v)
	}
	return v
}

// convertParameterAnnotations builds the per-parameter retention-filtered
// map writeMethod expects (spec §4.4, parameter-annotation traversal).
func convertParameterAnnotations(byParam map[int][]ast.AnnotationValue) map[int][]classfile.AnnotationSpec {
	if len(byParam) == 0 {
		return nil
	}
	out := make(map[int][]classfile.AnnotationSpec, len(byParam))
	for i, anns := range byParam {
		if converted := convertAnnotations(anns); len(converted) > 0 {
			out[i] = converted
		}
	}
	return out
}
