// Package classfiletest provides golden-bytecode comparison helpers for
// scenario tests in package emitter and package classemitter (spec §8:
// "scenario tests ... realized as golden-bytecode assertions"). It is
// deliberately separate from package classfile so that classfile itself
// never imports a testing-only dependency.
package classfiletest

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/athos/jise/classfile"
)

// Dump renders a method's Code bytes as a readable, line-per-instruction
// listing, e.g. "0000 iload_1\n0001 iconst_2\n0002 iadd\n...".
func Dump(code []byte) string {
	instrs, err := classfile.Decode(code)
	if err != nil {
		return fmt.Sprintf("<decode error: %v>\n%s", err, spew.Sdump(code))
	}
	var b strings.Builder
	for _, in := range instrs {
		fmt.Fprintf(&b, "%04d %s", in.Offset, in.Op)
		for _, o := range in.Operand {
			fmt.Fprintf(&b, " %02x", o)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Diff returns a unified diff between the disassembly of want and got, or
// "" if they disassemble identically. Tests report this string via
// require.Empty/t.Fatal so a mismatch is readable as a patch rather than
// two opaque byte slices.
func Diff(want, got []byte) (string, error) {
	wantText := Dump(want)
	gotText := Dump(got)
	if wantText == gotText {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(wantText),
		B:        difflib.SplitLines(gotText),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
