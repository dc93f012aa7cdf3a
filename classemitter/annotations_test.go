package classemitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

func TestConvertAnnotationsDropsSourceRetention(t *testing.T) {
	anns := []ast.AnnotationValue{
		{Type: ast.Ref("Deprecated"), Retention: ast.RetentionSource},
		{Type: ast.Ref("NotNull"), Retention: ast.RetentionClass},
		{Type: ast.Ref("Visible"), Retention: ast.RetentionRuntime},
	}
	out := convertAnnotations(anns)
	assert.Len(t, out, 2)
	assert.False(t, out[0].Runtime)
	assert.True(t, out[1].Runtime)
}

func TestConvertElementValueNarrowsInt(t *testing.T) {
	assert.Equal(t, int32(5), convertElementValue(5))
	assert.Equal(t, int64(1)<<40, convertElementValue(int64(1)<<40))
	assert.Equal(t, int32(5), convertElementValue(int8(5)))
}

func TestConvertElementValueRecursesIntoArrays(t *testing.T) {
	out := convertElementValue([]any{1, 2, 3})
	elems, ok := out.([]classfile.AnnotationElement)
	require.True(t, ok)
	require.Len(t, elems, 3)
	assert.Equal(t, int32(2), elems[1].Value)
	assert.Equal(t, "", elems[0].Name, "array elements are unnamed per JVMS 4.7.16.1")
}
