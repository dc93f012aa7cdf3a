package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
	"github.com/athos/jise/classfile/classfiletest"
	"github.com/athos/jise/emitter"
	"github.com/athos/jise/opcode"
)

// emitOne drives a single expression through a throwaway method body and
// returns its disassembled instruction listing, for tests that check one
// construct's lowering in isolation rather than a whole class.
func emitOne(t *testing.T, returnType ast.Type, e ast.Expr) string {
	t.Helper()
	cw := classfile.NewClassWriter(classfile.AccSuper, "Test", "java/lang/Object")
	spec := cw.DeclareMethod(classfile.AccStatic, "probe", "()V", nil)
	ctx := emitter.NewContext(spec.Writer(), cw.Pool(), false)
	ctx.SetReturnType(returnType)
	require.NoError(t, emitter.Emit(ctx, e))
	if returnType.Kind == ast.Void {
		spec.Writer().Emit(byte(opcode.RETURN))
	}
	out := cw.Bytes()
	parsed, err := classfiletest.Parse(out)
	require.NoError(t, err)
	return classfiletest.Dump(parsed.Methods[0].Code)
}

func intLit(v int64) *ast.Literal {
	return &ast.Literal{Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)}, Kind: ast.LitInt, Int: v}
}

func TestLiteralEncodingShortestForm(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		want string
	}{
		{"iconst_0", 0, "0000 iconst_0\n0001 ireturn\n"},
		{"iconst_m1", -1, "0000 iconst_m1\n0001 ireturn\n"},
		{"bipush", 100, "0000 bipush 64\n0002 ireturn\n"},
		{"sipush", 1000, "0000 sipush 03 e8\n0003 ireturn\n"},
		{"ldc", 100000, "0000 ldc 01\n0002 ireturn\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
				Base:  ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
				Value: intLit(c.v),
			})
			assert.Equal(t, c.want, got)
		})
	}
}

func TestArithAddTwoLiterals(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
		Value: &ast.Arith{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)},
			Op:   ast.Add,
			Lhs:  intLit(2),
			Rhs:  intLit(3),
		},
	})
	want := "0000 iconst_2\n0001 iconst_3\n0002 iadd\n0003 ireturn\n"
	assert.Equal(t, want, got)
}

func TestDoDiscardsAllButLastValue(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
		Value: &ast.Do{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)},
			Children: []ast.Expr{
				&ast.Literal{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Int)}, Kind: ast.LitInt, Int: 1},
				intLit(2),
			},
		},
	})
	want := "0000 iconst_1\n0001 pop\n0002 iconst_2\n0003 ireturn\n"
	assert.Equal(t, want, got)
}

func TestIfElseBranchesToEnd(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
		Value: &ast.If{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)},
			Test: &ast.Compare{
				Base:     ast.Base{Ctx: ast.Conditional, Typ: ast.Prim(ast.Boolean)},
				Op:       ast.CmpEQ,
				Operands: []ast.Expr{intLit(1), intLit(1)},
			},
			Then: intLit(10),
			Else: intLit(20),
		},
	})
	assert.Contains(t, got, "if_icmpne")
	assert.Contains(t, got, "goto")
	assert.Contains(t, got, "bipush 0a") // 10
	assert.Contains(t, got, "bipush 14") // 20
}
