package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func boolLit(v bool) *ast.Literal {
	return &ast.Literal{Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Boolean)}, Kind: ast.LitBool, Bool: v}
}

func TestWhileLoopTestsAtTopAndBranchesBack(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.While{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Test: &ast.Compare{
			Base:     ast.Base{Ctx: ast.Conditional, Typ: ast.Prim(ast.Boolean)},
			Op:       ast.CmpEQ,
			Operands: []ast.Expr{intLit(1), intLit(1)},
		},
		Body: &ast.Increment{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}, Slot: 0, By: 1},
	})
	assert.Contains(t, got, "goto")
	assert.Contains(t, got, "if_icmpeq")
	assert.Contains(t, got, "iinc")
}

func TestForLoopEmitsInitTestStepInOrder(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.For{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Init: &ast.Assignment{
			Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Int)},
			Slot: 0,
			Rhs:  intLit(0),
		},
		Test: &ast.Compare{
			Base:     ast.Base{Ctx: ast.Conditional, Typ: ast.Prim(ast.Boolean)},
			Op:       ast.CmpLT,
			Operands: []ast.Expr{&ast.LocalRef{Base: ast.Base{Ctx: ast.Expression, Typ: ast.Prim(ast.Int)}, Slot: 0}, intLit(10)},
		},
		Step: &ast.Increment{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}, Slot: 0, By: 1},
		Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
	})
	assert.Contains(t, got, "istore_0")
	assert.Contains(t, got, "if_icmplt")
	assert.Contains(t, got, "iinc 00 01")
}

func TestSwitchDenseKeysLowersToTableSwitch(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.Switch{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Test: intLit(1),
		Clauses: []ast.SwitchClause{
			{Keys: []int64{0}, Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}}},
			{Keys: []int64{1}, Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}}},
		},
		Default: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
	})
	assert.Contains(t, got, "tableswitch")
}

func TestSwitchSparseKeysLowersToLookupSwitch(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.Switch{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Test: intLit(1),
		Clauses: []ast.SwitchClause{
			{Keys: []int64{0}, Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}}},
			{Keys: []int64{1000}, Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}}},
		},
		Default: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
	})
	assert.Contains(t, got, "lookupswitch")
}

// TestWhileInExpressionPositionPushesNull covers spec §4.2.3: a loop
// appearing in expression position (e.g. as the last child of a `do`
// whose own value is needed) must still leave something on the stack,
// since loops themselves never produce a meaningful value.
func TestWhileInExpressionPositionPushesNull(t *testing.T) {
	got := emitOne(t, ast.Ref("java/lang/Object"), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Ref("java/lang/Object")},
		Value: &ast.While{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Ref("java/lang/Object")},
			Test: boolLit(false),
			Body: &ast.Increment{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}, Slot: 0, By: 1},
		},
	})
	assert.Contains(t, got, "aconst_null")
	assert.Contains(t, got, "areturn")
}

// TestForInExpressionPositionPushesNull mirrors
// TestWhileInExpressionPositionPushesNull for `for` (spec §4.2.3).
func TestForInExpressionPositionPushesNull(t *testing.T) {
	got := emitOne(t, ast.Ref("java/lang/Object"), &ast.ReturnExpr{
		Base: ast.Base{Ctx: ast.Return, Typ: ast.Ref("java/lang/Object")},
		Value: &ast.For{
			Base: ast.Base{Ctx: ast.Expression, Typ: ast.Ref("java/lang/Object")},
			Test: boolLit(false),
			Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
		},
	})
	assert.Contains(t, got, "aconst_null")
	assert.Contains(t, got, "areturn")
}

func TestLabeledBreakTargetsOuterLoop(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.While{
		Base:  ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Label: "outer",
		Test:  boolLit(true),
		Body: &ast.While{
			Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
			Test: boolLit(true),
			Body: &ast.Break{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}, Label: "outer"},
		},
	})
	assert.Contains(t, got, "goto")
}
