package classemitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMungeNameEscapesIllegalCharacters(t *testing.T) {
	assert.Equal(t, "a_DOT_b", mungeName("a.b"))
	assert.Equal(t, "x_SEMI_y", mungeName("x;y"))
	assert.Equal(t, "<init>", mungeName("<init>"))
	assert.Equal(t, "<clinit>", mungeName("<clinit>"))
	assert.Equal(t, "plainName", mungeName("plainName"))
}

func TestNameMungerDisambiguatesGenuineCollisions(t *testing.T) {
	m := newNameMunger()
	first := m.munge("a.b", "()V")
	second := m.munge("a_DOT_b", "()V")
	assert.Equal(t, "a_DOT_b", first)
	assert.NotEqual(t, first, second, "two distinct names munging to the same string must not collide silently")
}

func TestNameMungerAllowsOverloadsSameNameDifferentScope(t *testing.T) {
	m := newNameMunger()
	first := m.munge("process", "(I)V")
	second := m.munge("process", "(Ljava/lang/String;)V")
	assert.Equal(t, "process", first)
	assert.Equal(t, "process", second, "overloads with distinct descriptors must not be disambiguated")
}

func TestNameMungerBypassesSpecialNames(t *testing.T) {
	m := newNameMunger()
	assert.Equal(t, "<init>", m.munge("<init>", "(I)V"))
	assert.Equal(t, "<clinit>", m.munge("<clinit>", "()V"))
}
