package emitter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func floatLit(v float32) *ast.Literal {
	return &ast.Literal{Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Float)}, Kind: ast.LitFloat, Float32: v}
}

// TestFloatLessThanUsesFCMPGRegardlessOfBranchPolarity guards the exact
// regression spec §1(c)/§4.2.5 calls out: `if (x < y) ... else ...`
// compiled for float operands must always reduce with FCMPG, never FCMPL,
// because `if`'s own emission always branches on the negated relation
// (jumpIfTrue=false) to reach the else label. Using FCMPL here would make
// `NaN < y` compile as true instead of false.
func TestFloatLessThanUsesFCMPGRegardlessOfBranchPolarity(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Int), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Prim(ast.Int)},
		Value: &ast.If{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)},
			Test: &ast.Compare{
				Base:     ast.Base{Ctx: ast.Conditional, Typ: ast.Prim(ast.Boolean)},
				Op:       ast.CmpLT,
				Operands: []ast.Expr{floatLit(float32(math.NaN())), floatLit(1.0)},
			},
			Then: intLit(1),
			Else: intLit(2),
		},
	})
	assert.Contains(t, got, "fcmpg", "x < y must reduce with FCMPG, not FCMPL, so a NaN operand makes the relation false")
	assert.NotContains(t, got, "fcmpl")
	assert.Contains(t, got, "ifge", "emitIf branches on the negated relation (GE) to reach the else label")
}
