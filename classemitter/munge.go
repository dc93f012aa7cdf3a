package classemitter

import (
	"strings"

	"github.com/google/uuid"
)

// illegalEscapes gives a fixed, invertible-in-spirit textual escape for
// every character JVMS §4.2.2 disallows in an unqualified name ('.', ';',
// '[', '/'), plus '<'/'>' (reserved for the two special names) and a
// handful of punctuation the source language permits in identifiers but
// the class file format does not (spec §6 "Name munging").
var illegalEscapes = map[rune]string{
	'.':  "_DOT_",
	';':  "_SEMI_",
	'[':  "_LBRACK_",
	'/':  "_SLASH_",
	'<':  "_LT_",
	'>':  "_GT_",
	':':  "_COLON_",
	'?':  "_QMARK_",
	'!':  "_BANG_",
	'-':  "_DASH_",
	'*':  "_STAR_",
	'+':  "_PLUS_",
	' ':  "_SP_",
}

// mungeName deterministically escapes every illegal character in name;
// <init> and <clinit> bypass munging entirely (spec §6).
func mungeName(name string) string {
	if name == "<init>" || name == "<clinit>" {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if esc, illegal := illegalEscapes[r]; illegal {
			b.WriteString(esc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameMunger applies mungeName across one class, guaranteeing the
// resulting members are unique: two distinct source names that happen to
// munge to the same string (e.g. "a.b" and "a_DOT_b") would otherwise
// silently collide as the same JVM member. The second (and every
// subsequent) collision gets a uuid-derived suffix instead, since nothing
// about the two source names themselves supplies a deterministic
// tiebreaker.
//
// Uniqueness is tracked per (munged name, scope) pair rather than by
// munged name alone, so that two overloads of the same method name
// (same name, different descriptor) are never mistaken for a collision —
// scope is the field/method's descriptor, "" for a field.
type nameMunger struct {
	used map[string]bool
}

func newNameMunger() *nameMunger {
	return &nameMunger{used: make(map[string]bool)}
}

func (m *nameMunger) munge(name, scope string) string {
	munged := mungeName(name)
	if munged == "<init>" || munged == "<clinit>" {
		return munged
	}
	key := munged + "\x00" + scope
	if !m.used[key] {
		m.used[key] = true
		return munged
	}
	disambiguated := munged + "_" + uuid.NewString()[:8]
	m.used[disambiguated+"\x00"+scope] = true
	return disambiguated
}
