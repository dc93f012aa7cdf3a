package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
)

func TestAccessSetHas(t *testing.T) {
	s := ast.NewAccessSet(ast.Public, ast.Static)
	assert.True(t, s.Has(ast.Public))
	assert.True(t, s.Has(ast.Static))
	assert.False(t, s.Has(ast.Final))
}

func TestNewAccessSetEmpty(t *testing.T) {
	s := ast.NewAccessSet()
	assert.False(t, s.Has(ast.Public))
	assert.Len(t, s, 0)
}
