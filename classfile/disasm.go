package classfile

import (
	"fmt"

	"github.com/athos/jise/opcode"
)

// DecodedInstruction is one decoded bytecode instruction: its offset, its
// opcode, and the raw operand bytes that follow it (branch displacements
// are left un-interpreted since they're only meaningful relative to the
// enclosing method).
type DecodedInstruction struct {
	Offset  int
	Op      opcode.Opcode
	Operand []byte
}

// operandWidths gives the fixed operand length of every opcode that isn't
// WIDE, TABLESWITCH, or LOOKUPSWITCH (those three have variable-length,
// padding-sensitive encodings handled separately in Decode).
var operandWidths = map[opcode.Opcode]int{
	opcode.BIPUSH: 1, opcode.SIPUSH: 2,
	opcode.LDC: 1, opcode.LDC_W: 2, opcode.LDC2_W: 2,
	opcode.ILOAD: 1, opcode.LLOAD: 1, opcode.FLOAD: 1, opcode.DLOAD: 1, opcode.ALOAD: 1,
	opcode.ISTORE: 1, opcode.LSTORE: 1, opcode.FSTORE: 1, opcode.DSTORE: 1, opcode.ASTORE: 1,
	opcode.RET:    1,
	opcode.IINC:   2,
	opcode.NEWARRAY: 1,
	opcode.NEW: 2, opcode.ANEWARRAY: 2, opcode.CHECKCAST: 2, opcode.INSTANCEOF: 2,
	opcode.GETSTATIC: 2, opcode.PUTSTATIC: 2, opcode.GETFIELD: 2, opcode.PUTFIELD: 2,
	opcode.INVOKEVIRTUAL: 2, opcode.INVOKESPECIAL: 2, opcode.INVOKESTATIC: 2,
	opcode.INVOKEINTERFACE: 4, opcode.INVOKEDYNAMIC: 4,
	opcode.MULTIANEWARRAY: 3,
	opcode.IFEQ: 2, opcode.IFNE: 2, opcode.IFLT: 2, opcode.IFGE: 2, opcode.IFGT: 2, opcode.IFLE: 2,
	opcode.IF_ICMPEQ: 2, opcode.IF_ICMPNE: 2, opcode.IF_ICMPLT: 2, opcode.IF_ICMPGE: 2,
	opcode.IF_ICMPGT: 2, opcode.IF_ICMPLE: 2, opcode.IF_ACMPEQ: 2, opcode.IF_ACMPNE: 2,
	opcode.GOTO: 2, opcode.JSR: 2, opcode.IFNULL: 2, opcode.IFNONNULL: 2,
	opcode.GOTO_W: 4, opcode.JSR_W: 4,
}

// Decode walks a method's raw Code bytes into a flat instruction listing,
// for use by golden-bytecode assertions in package emitter/classemitter
// tests (spec §8 scenario tests; SUPPLEMENTED FEATURES "disassembler ...
// used only by tests").
func Decode(code []byte) ([]DecodedInstruction, error) {
	var out []DecodedInstruction
	i := 0
	for i < len(code) {
		off := i
		op := opcode.Opcode(code[i])
		i++
		width, ok := operandWidths[op]
		if !ok {
			width = 0 // zero-operand opcode (or TABLESWITCH/LOOKUPSWITCH, below)
		}
		switch op {
		case opcode.TABLESWITCH, opcode.LOOKUPSWITCH:
			n, err := decodeSwitch(code, off, op)
			if err != nil {
				return nil, err
			}
			out = append(out, DecodedInstruction{Offset: off, Op: op, Operand: code[i:n]})
			i = n
			continue
		case opcode.WIDE:
			width = 3 // modified opcode + 2-byte local index
			if i < len(code) && opcode.Opcode(code[i]) == opcode.IINC {
				width = 5 // ... + 2-byte signed increment
			}
		}
		if i+width > len(code) {
			return nil, fmt.Errorf("classfile: truncated operand for %s at offset %d", op, off)
		}
		out = append(out, DecodedInstruction{Offset: off, Op: op, Operand: code[i : i+width]})
		i += width
	}
	return out, nil
}

// decodeSwitch returns the byte offset one past the end of the TABLESWITCH/
// LOOKUPSWITCH instruction starting at instrOff (JVMS §3.10, padding to the
// next 4-byte boundary measured from the start of the enclosing method).
func decodeSwitch(code []byte, instrOff int, op opcode.Opcode) (int, error) {
	p := instrOff + 1
	for p%4 != 0 {
		p++
	}
	if p+4 > len(code) {
		return 0, fmt.Errorf("classfile: truncated %s default offset", op)
	}
	p += 4 // default offset
	switch op {
	case opcode.TABLESWITCH:
		if p+8 > len(code) {
			return 0, fmt.Errorf("classfile: truncated tableswitch bounds")
		}
		low := int32(be32(code[p:]))
		high := int32(be32(code[p+4:]))
		p += 8
		n := int(high-low) + 1
		p += 4 * n
	case opcode.LOOKUPSWITCH:
		if p+4 > len(code) {
			return 0, fmt.Errorf("classfile: truncated lookupswitch npairs")
		}
		n := int(be32(code[p:]))
		p += 4
		p += 8 * n
	}
	if p > len(code) {
		return 0, fmt.Errorf("classfile: %s overruns code array", op)
	}
	return p, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
