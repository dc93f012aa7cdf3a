package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athos/jise/classfile"
	"github.com/athos/jise/classfile/classfiletest"
	"github.com/athos/jise/opcode"
)

func TestClassWriterBytesStartsWithMagicAndVersion(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
	b := cw.Bytes()
	require.GreaterOrEqual(t, len(b), 8)
	assert.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE}, b[0:4])
	major := uint16(b[6])<<8 | uint16(b[7])
	assert.Equal(t, uint16(classfile.Version52), major)
}

func TestClassWriterDeclareFieldWithConstantValue(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
	cw.DeclareField(classfile.FieldSpec{
		Access:        classfile.AccPublic | classfile.AccStatic | classfile.AccFinal,
		Name:          "MAX",
		Descriptor:    "I",
		ConstantValue: int32(100),
	})
	b := cw.Bytes()
	assert.NotEmpty(t, b)
}

func TestClassWriterDeclareMethodRoundTripsThroughParse(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
	spec := cw.DeclareMethod(classfile.AccPublic|classfile.AccStatic, "noop", "()V", nil)
	mw := spec.Writer()
	mw.Emit(byte(opcode.RETURN))

	b := cw.Bytes()
	parsed, err := classfiletest.Parse(b)
	require.NoError(t, err)
	require.Len(t, parsed.Methods, 1)
	assert.Equal(t, "noop", parsed.Methods[0].Name)
	assert.Equal(t, "()V", parsed.Methods[0].Descriptor)
	assert.Equal(t, "0000 return\n", classfiletest.Dump(parsed.Methods[0].Code))
}

func TestClassWriterAbstractMethodHasNoCodeAttribute(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic|classfile.AccAbstract, "pkg/Sample", "java/lang/Object")
	cw.DeclareMethod(classfile.AccPublic|classfile.AccAbstract, "step", "()V", nil)

	b := cw.Bytes()
	parsed, err := classfiletest.Parse(b)
	require.NoError(t, err)
	require.Len(t, parsed.Methods, 1)
	assert.Empty(t, parsed.Methods[0].Code)
}

func TestClassWriterAddInterfaceAndSourceFileDoNotPanic(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
	cw.AddInterface("java/io/Serializable")
	cw.SetSourceFile("Sample.jise")
	assert.NotPanics(t, func() { cw.Bytes() })
}

func TestClassWriterMethodWithExceptions(t *testing.T) {
	cw := classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
	spec := cw.DeclareMethod(classfile.AccPublic, "risky", "()V", []string{"java/io/IOException"})
	spec.Writer().Emit(byte(opcode.RETURN))
	assert.NotPanics(t, func() { cw.Bytes() })
}
