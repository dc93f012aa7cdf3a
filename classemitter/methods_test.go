package classemitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/classfile/classfiletest"
)

func newTestWriter() *classfile.ClassWriter {
	return classfile.NewClassWriter(classfile.AccSuper|classfile.AccPublic, "pkg/Sample", "java/lang/Object")
}

func findMethodCode(t *testing.T, classBytes []byte, name string) []byte {
	t.Helper()
	cf, err := classfiletest.Parse(classBytes)
	require.NoError(t, err)
	for _, m := range cf.Methods {
		if m.Name == name {
			return m.Code
		}
	}
	t.Fatalf("method %q not found in class", name)
	return nil
}

func TestDeclareAndEmitMethodSkipsBodyWhenAbstract(t *testing.T) {
	cw := newTestWriter()
	m := ast.MethodNode{
		Access: ast.NewAccessSet(ast.Public, ast.Abstract),
		Return: ast.Prim(ast.Void),
		Body:   &ast.Do{},
	}
	err := declareAndEmitMethod(cw, m, "step", false)
	require.NoError(t, err)

	parsed, err := classfiletest.Parse(cw.Bytes())
	require.NoError(t, err)
	require.Len(t, parsed.Methods, 1)
	assert.Empty(t, parsed.Methods[0].Code, "abstract methods carry no Code attribute")
}

func TestDeclareAndEmitMethodFallsThroughToReturnWhenVoid(t *testing.T) {
	cw := newTestWriter()
	m := ast.MethodNode{
		Access: ast.NewAccessSet(ast.Public),
		Return: ast.Prim(ast.Void),
		Body:   &ast.Do{},
	}
	err := declareAndEmitMethod(cw, m, "step", false)
	require.NoError(t, err)

	code := findMethodCode(t, cw.Bytes(), "step")
	assert.Equal(t, "0000 return\n", classfiletest.Dump(code))
}

func TestDeclareAndEmitMethodRecordsLocalVariableTableWhenDebug(t *testing.T) {
	cw := newTestWriter()
	m := ast.MethodNode{
		Access: ast.NewAccessSet(ast.Public),
		Return: ast.Prim(ast.Void),
		Params: []ast.Parameter{
			{Name: "x", Type: ast.Prim(ast.Int), Slot: 0},
		},
		Locals: []ast.LocalVar{
			{Name: "x", Type: ast.Prim(ast.Int), Slot: 0},
		},
		Body: &ast.Do{},
	}
	err := declareAndEmitMethod(cw, m, "step", true)
	require.NoError(t, err)

	classBytes := cw.Bytes()
	code := findMethodCode(t, classBytes, "step")
	assert.Equal(t, "0000 return\n", classfiletest.Dump(code))
	assert.Contains(t, string(classBytes), "LocalVariableTable", "debug mode must write a LocalVariableTable attribute")
}
