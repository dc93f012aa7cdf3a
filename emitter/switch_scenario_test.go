package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

// TestSwitchWithGuardBranchesToDefaultOnMismatch covers spec.md §8
// scenario S4: a string switch lowers to a hash-based LOOKUPSWITCH/
// TABLESWITCH dispatch where each clause carries a Guard confirming the
// real string equality, branching to the default label when the guard
// fails (a hash collision without a true match).
func TestSwitchWithGuardBranchesToDefaultOnMismatch(t *testing.T) {
	got := emitOne(t, ast.Prim(ast.Void), &ast.Switch{
		Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Test: intLit(100), // stand-in for a precomputed String.hashCode()
		Clauses: []ast.SwitchClause{
			{
				Keys: []int64{100},
				Guard: &ast.Compare{
					Base:     ast.Base{Ctx: ast.Conditional, Typ: ast.Prim(ast.Boolean)},
					Op:       ast.CmpEQ,
					Operands: []ast.Expr{intLit(1), intLit(1)},
				},
				Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
			},
			{
				// Far enough from 100 that the key span stays too sparse
				// for TABLESWITCH, forcing LOOKUPSWITCH (spec §4.2.2).
				Keys: []int64{100000},
				Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
			},
		},
		Default: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
	})
	assert.Contains(t, got, "if_icmpne", "the guard must branch away on mismatch")
	assert.Contains(t, got, "lookupswitch")
}

// TestSwitchDenseConsecutiveKeysUsesTableSwitch covers spec.md §8 scenario
// S5: keys {1,2,3,4,5} are consecutive enough (span == len(keys)) to
// always lower to TABLESWITCH regardless of how many clauses there are.
func TestSwitchDenseConsecutiveKeysUsesTableSwitch(t *testing.T) {
	clauses := make([]ast.SwitchClause, 5)
	for i := range clauses {
		clauses[i] = ast.SwitchClause{
			Keys: []int64{int64(i + 1)},
			Body: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
		}
	}
	got := emitOne(t, ast.Prim(ast.Void), &ast.Switch{
		Base:    ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)},
		Test:    intLit(3),
		Clauses: clauses,
		Default: &ast.Do{Base: ast.Base{Ctx: ast.Statement, Typ: ast.Prim(ast.Void)}},
	})
	assert.Contains(t, got, "tableswitch")
	assert.NotContains(t, got, "lookupswitch")
}
