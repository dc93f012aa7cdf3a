package classemitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/ast"
	"github.com/athos/jise/classfile"
)

func TestClassAccessFlagsAlwaysSetsSuper(t *testing.T) {
	flags := classAccessFlags(ast.NewAccessSet())
	assert.Equal(t, uint16(classfile.AccSuper), flags)

	flags = classAccessFlags(ast.NewAccessSet(ast.Public, ast.Final))
	assert.Equal(t, uint16(classfile.AccSuper|classfile.AccPublic|classfile.AccFinal), flags)
}

func TestFieldAccessFlags(t *testing.T) {
	flags := fieldAccessFlags(ast.NewAccessSet(ast.Private, ast.Static, ast.Final))
	assert.Equal(t, uint16(classfile.AccPrivate|classfile.AccStatic|classfile.AccFinal), flags)
}

func TestMethodAccessFlags(t *testing.T) {
	flags := methodAccessFlags(ast.NewAccessSet(ast.Public, ast.Abstract))
	assert.Equal(t, uint16(classfile.AccPublic|classfile.AccAbstract), flags)
}
