package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athos/jise/classfile"
)

func TestConstantPoolDeduplicates(t *testing.T) {
	p := classfile.NewConstantPool()
	i1 := p.UTF8("java/lang/Object")
	i2 := p.UTF8("java/lang/Object")
	assert.Equal(t, i1, i2, "identical UTF8 constants must share a pool slot")

	m1 := p.Methodref("Foo", "bar", "()V")
	m2 := p.Methodref("Foo", "bar", "()V")
	assert.Equal(t, m1, m2)
}

func TestConstantPoolDistinctEntries(t *testing.T) {
	p := classfile.NewConstantPool()
	a := p.Class("Foo")
	b := p.Class("Bar")
	assert.NotEqual(t, a, b)
}

func TestConstantPoolWideEntryBurnsNextSlot(t *testing.T) {
	p := classfile.NewConstantPool()
	longIdx := p.Long(42)
	nextIdx := p.UTF8("Foo")
	assert.Equal(t, longIdx+2, nextIdx, "a Long constant must occupy two pool slots (JVMS 4.4.5)")
}

func TestConstantPoolCountIsOnePastHighestIndex(t *testing.T) {
	p := classfile.NewConstantPool()
	p.UTF8("a")
	assert.EqualValues(t, 2, p.Count())
	p.Long(1)
	assert.EqualValues(t, 4, p.Count())
}
