package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func TestBoxingInvokesValueOf(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.Do{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Children: []ast.Expr{
			&ast.Boxing{
				Base:   ast.Base{Ctx: ast.Statement, Typ: ast.Ref("java/lang/Integer")},
				Source: intLit(1),
				Boxed:  "java/lang/Integer",
			},
		},
	})
	assert.Contains(t, got, "invokestatic")
}

func TestUnboxingInvokesPrimitiveValue(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
		Value: &ast.Unboxing{
			Base:   ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)},
			Source: &ast.LocalRef{Base: ast.Base{Ctx: ast.Expression, Typ: ast.Ref("java/lang/Integer")}, Slot: 0},
			Method: "intValue",
		},
	})
	assert.Contains(t, got, "invokevirtual")
	assert.Contains(t, got, "ireturn")
}

func TestWideningPrimitiveEmitsConversionOpcode(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Long), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Long)},
		Value: &ast.WideningPrimitive{
			Base:   ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Long)},
			Source: intLit(1),
			Target: ast.Prim(ast.Long),
		},
	})
	assert.Contains(t, got, "i2l")
	assert.Contains(t, got, "lreturn")
}
