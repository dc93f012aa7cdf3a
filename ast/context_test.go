package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func TestContextHasRequiresAllBits(t *testing.T) {
	c := ast.Statement.With(ast.Tail)
	assert.True(t, c.Has(ast.Statement))
	assert.True(t, c.Has(ast.Tail))
	assert.True(t, c.Has(ast.Statement|ast.Tail))
	assert.False(t, c.Has(ast.Expression))
	assert.False(t, c.Has(ast.Statement|ast.Expression))
}

func TestContextAnyRequiresAtLeastOneBit(t *testing.T) {
	c := ast.Return
	assert.True(t, c.Any(ast.Return|ast.Conditional))
	assert.False(t, c.Any(ast.Statement|ast.Expression))
}

func TestContextWithAndWithout(t *testing.T) {
	c := ast.Statement
	c = c.With(ast.Tail)
	assert.True(t, c.Has(ast.Tail))
	c = c.Without(ast.Statement)
	assert.False(t, c.Has(ast.Statement))
	assert.True(t, c.Has(ast.Tail))
}
