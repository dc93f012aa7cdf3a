package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteElementValueTagsByGoType(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		wantTag byte
	}{
		{"bool", true, evBoolean},
		{"int32", int32(5), evInt},
		{"int64", int64(5), evLong},
		{"float32", float32(1.5), evFloat},
		{"float64", float64(1.5), evDouble},
		{"string", "hi", evString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewConstantPool()
			w := NewBinWriter()
			writeElementValue(w, pool, tt.v)
			b := w.Bytes()
			assert.Equal(t, tt.wantTag, b[0])
		})
	}
}

func TestWriteElementValueArrayTag(t *testing.T) {
	pool := NewConstantPool()
	w := NewBinWriter()
	writeElementValue(w, pool, []AnnotationElement{{Value: int32(1)}, {Value: int32(2)}})
	b := w.Bytes()
	assert.Equal(t, byte(evArray), b[0])
	count := uint16(b[1])<<8 | uint16(b[2])
	assert.Equal(t, uint16(2), count)
}

func TestWriteAnnotationsAttributeSplitsByRetention(t *testing.T) {
	pool := NewConstantPool()
	w := NewBinWriter()
	writeAnnotationsAttribute(w, pool, []AnnotationSpec{
		{TypeDescriptor: "LVisible;", Runtime: true},
		{TypeDescriptor: "LInvisible;", Runtime: false},
	})
	b := w.Bytes()
	// Both attributes are present: RuntimeVisibleAnnotations then
	// RuntimeInvisibleAnnotations, each as its own attribute_info.
	assert.NotEmpty(t, b)
	firstNameIdx := uint16(b[0])<<8 | uint16(b[1])
	assert.Equal(t, pool.UTF8("RuntimeVisibleAnnotations"), firstNameIdx)
}

func TestWriteParameterAnnotationsAttributeOmittedWhenEmpty(t *testing.T) {
	pool := NewConstantPool()
	w := NewBinWriter()
	writeParameterAnnotationsAttribute(w, pool, nil)
	assert.Empty(t, w.Bytes())
}
