package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func TestTypeDescriptor(t *testing.T) {
	tests := []struct {
		name string
		typ  ast.Type
		want string
	}{
		{"boolean", ast.Prim(ast.Boolean), "Z"},
		{"byte", ast.Prim(ast.Byte), "B"},
		{"char", ast.Prim(ast.Char), "C"},
		{"short", ast.Prim(ast.Short), "S"},
		{"int", ast.Prim(ast.Int), "I"},
		{"long", ast.Prim(ast.Long), "J"},
		{"float", ast.Prim(ast.Float), "F"},
		{"double", ast.Prim(ast.Double), "D"},
		{"void", ast.Prim(ast.Void), "V"},
		{"reference", ast.Ref("java/lang/String"), "Ljava/lang/String;"},
		{"array of int", ast.ArrayOf(ast.Prim(ast.Int)), "[I"},
		{"array of array", ast.ArrayOf(ast.ArrayOf(ast.Prim(ast.Int))), "[[I"},
		{"array of reference", ast.ArrayOf(ast.Ref("java/lang/Object")), "[Ljava/lang/Object;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Descriptor())
		})
	}
}

func TestMethodDescriptor(t *testing.T) {
	got := ast.MethodDescriptor([]ast.Type{ast.Prim(ast.Int), ast.Prim(ast.Long)}, ast.Prim(ast.Void))
	assert.Equal(t, "(IJ)V", got)

	got = ast.MethodDescriptor(nil, ast.Prim(ast.Int))
	assert.Equal(t, "()I", got)
}

func TestTypeIsWideAndCategory(t *testing.T) {
	assert.True(t, ast.Prim(ast.Long).IsWide())
	assert.True(t, ast.Prim(ast.Double).IsWide())
	assert.False(t, ast.Prim(ast.Int).IsWide())
	assert.False(t, ast.Ref("java/lang/Object").IsWide())

	assert.Equal(t, 2, ast.Prim(ast.Long).Category())
	assert.Equal(t, 2, ast.Prim(ast.Double).Category())
	assert.Equal(t, 1, ast.Prim(ast.Int).Category())
}

func TestTypeIsNumericExcludesBooleanAndVoid(t *testing.T) {
	assert.True(t, ast.Prim(ast.Int).IsNumeric())
	assert.True(t, ast.Prim(ast.Double).IsNumeric())
	assert.False(t, ast.Prim(ast.Boolean).IsNumeric())
	assert.False(t, ast.Prim(ast.Void).IsNumeric())
}

func TestTypeInternalNamePanicsOnNonReference(t *testing.T) {
	assert.Panics(t, func() { ast.Prim(ast.Int).InternalName() })
	assert.NotPanics(t, func() { ast.Ref("java/lang/Object").InternalName() })
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, ast.Prim(ast.Int).Equal(ast.Prim(ast.Int)))
	assert.False(t, ast.Prim(ast.Int).Equal(ast.Prim(ast.Long)))
	assert.True(t, ast.Ref("java/lang/String").Equal(ast.Ref("java/lang/String")))
	assert.False(t, ast.Ref("java/lang/String").Equal(ast.Ref("java/lang/Object")))
	assert.True(t, ast.ArrayOf(ast.Prim(ast.Int)).Equal(ast.ArrayOf(ast.Prim(ast.Int))))
	assert.False(t, ast.ArrayOf(ast.Prim(ast.Int)).Equal(ast.ArrayOf(ast.Prim(ast.Long))))
}
