package classfile

import "github.com/athos/jise/opcode"

// Label is an opaque, lazily-resolved position in a method's bytecode
// (spec §4.2: "labels as opaque handles resolved later by the class writer
// facility"). The zero value is never valid; obtain one from NewLabel.
type Label int

const noPC = -1

type pendingBranch struct {
	pos    int   // byte offset of the 2-byte operand to patch
	base   int   // offset the branch displacement is relative to
	label  Label
	wide   bool // true for a 4-byte (*_W) operand
}

type lineEntry struct {
	pc   int
	line int
}

type localVarEntry struct {
	startLabel, endLabel Label
	name, descriptor     string
	index                int
}

type excEntry struct {
	startLabel, endLabel, handlerLabel Label
	catchType                          string // "" for a catch-all (finally)
}

type frameAt struct {
	label Label
	snap  FrameSnapshot
}

// MethodWriter accumulates one method's Code attribute: raw instructions,
// forward/backward branches resolved against lazily-defined labels, the
// exception table, and the optional debug tables (spec §4.3).
type MethodWriter struct {
	pool *ConstantPool
	code *BinWriter

	labelPC  map[Label]int
	nextLbl  Label
	branches []pendingBranch

	curStack, maxStack int
	maxLocals          int

	lines  []lineEntry
	locals []localVarEntry
	excs   []excEntry
	frames []frameAt
}

// NewMethodWriter returns a writer for one method body, using pool to
// intern any constants the instruction stream references (e.g. LDC, CHECKCAST).
func NewMethodWriter(pool *ConstantPool) *MethodWriter {
	return &MethodWriter{
		pool:    pool,
		code:    NewBinWriter(),
		labelPC: make(map[Label]int),
	}
}

// NewLabel allocates a new, as-yet-unresolved label.
func (m *MethodWriter) NewLabel() Label {
	m.nextLbl++
	return m.nextLbl
}

// PC returns the current byte offset in the instruction stream.
func (m *MethodWriter) PC() int {
	return m.code.Len()
}

// MarkLabel resolves label to the current PC. A label must be marked
// exactly once, at the instruction it denotes.
func (m *MethodWriter) MarkLabel(label Label) {
	m.labelPC[label] = m.PC()
}

// RecordFrame attaches a verification-type snapshot to label, for
// inclusion in the method's StackMapTable. Called by the emitter whenever
// it marks a label that is a jump target or exception handler entry
// (spec §4.3 design notes).
func (m *MethodWriter) RecordFrame(label Label, snap FrameSnapshot) {
	m.frames = append(m.frames, frameAt{label: label, snap: snap})
}

// Grow adjusts the tracked operand-stack depth by delta (positive for a
// net push, negative for a net pop) and widens MaxStack if this is a new
// high-water mark. The emitter calls this once per instruction with that
// instruction's net stack effect, mirroring the teacher's incremental
// stack-size bookkeeping (pkg/compiler/codegen.go pushStackLabel/
// dropStackLabel) rather than replaying the finished bytecode to derive it.
func (m *MethodWriter) Grow(delta int) {
	m.curStack += delta
	if m.curStack > m.maxStack {
		m.maxStack = m.curStack
	}
}

// StackDepth returns the currently tracked operand-stack depth.
func (m *MethodWriter) StackDepth() int {
	return m.curStack
}

// SetStackDepth forces the tracked depth to n, used when the emitter
// enters a block (e.g. an exception handler, which the JVM always enters
// with exactly the thrown value on an otherwise-empty stack) whose depth
// isn't a simple running total of what came before.
func (m *MethodWriter) SetStackDepth(n int) {
	m.curStack = n
	if n > m.maxStack {
		m.maxStack = n
	}
}

// ReserveLocals widens MaxLocals to at least n slots.
func (m *MethodWriter) ReserveLocals(n int) {
	if n > m.maxLocals {
		m.maxLocals = n
	}
}

// Emit writes a zero-operand instruction.
func (m *MethodWriter) Emit(op byte) {
	m.code.WriteU8(op)
}

// EmitU8 writes an instruction with a 1-byte operand (e.g. BIPUSH, a
// LDC constant-pool index, an ILOAD/ISTORE/ASTORE slot index, or a
// NEWARRAY atype).
func (m *MethodWriter) EmitU8(op byte, operand byte) {
	m.code.WriteU8(op)
	m.code.WriteU8(operand)
}

// EmitU16 writes an instruction with a 2-byte operand (e.g. LDC_W/LDC2_W,
// GETFIELD/PUTFIELD/INVOKE*'s constant-pool index, a SIPUSH immediate
// reinterpreted as unsigned, or IINC's widened form handled by the caller).
func (m *MethodWriter) EmitU16(op byte, operand uint16) {
	m.code.WriteU8(op)
	m.code.WriteU16(operand)
}

// EmitIinc writes IINC slot, delta.
func (m *MethodWriter) EmitIinc(op byte, slot byte, delta int8) {
	m.code.WriteU8(op)
	m.code.WriteU8(slot)
	m.code.WriteU8(byte(delta))
}

// EmitWideIinc writes the WIDE-prefixed IINC form (JVMS §6.5 wide), used
// when slot or delta doesn't fit IINC's normal 1-byte operands.
func (m *MethodWriter) EmitWideIinc(wideOp, op byte, slot uint16, delta int16) {
	m.code.WriteU8(wideOp)
	m.code.WriteU8(op)
	m.code.WriteU16(slot)
	m.code.WriteU16(uint16(delta))
}

// EmitInvokeInterface writes INVOKEINTERFACE's 4-byte form (constant-pool
// index, argument count, and a reserved zero byte, JVMS §6.5 invokeinterface).
func (m *MethodWriter) EmitInvokeInterface(op byte, cpIndex uint16, argCount byte) {
	m.code.WriteU8(op)
	m.code.WriteU16(cpIndex)
	m.code.WriteU8(argCount)
	m.code.WriteU8(0)
}

// EmitMultianewarray writes MULTIANEWARRAY's (index, dimensions) form.
func (m *MethodWriter) EmitMultianewarray(op byte, cpIndex uint16, dims byte) {
	m.code.WriteU8(op)
	m.code.WriteU16(cpIndex)
	m.code.WriteU8(dims)
}

// EmitBranch writes a 2-byte-offset branch instruction (IF*, GOTO, JSR)
// targeting label, which may not be marked yet; the displacement is
// back-patched once every label is known.
func (m *MethodWriter) EmitBranch(op byte, label Label) {
	base := m.PC()
	m.code.WriteU8(op)
	pos := m.PC()
	m.code.WriteU16(0) // placeholder
	m.branches = append(m.branches, pendingBranch{pos: pos, base: base, label: label})
}

// EmitBranchWide writes a 4-byte-offset branch (GOTO_W, JSR_W).
func (m *MethodWriter) EmitBranchWide(op byte, label Label) {
	base := m.PC()
	m.code.WriteU8(op)
	pos := m.PC()
	m.code.WriteU32(0)
	m.branches = append(m.branches, pendingBranch{pos: pos, base: base, label: label, wide: true})
}

func (m *MethodWriter) padToBoundary() {
	for m.PC()%4 != 0 {
		m.code.WriteU8(0)
	}
}

func (m *MethodWriter) reserveWideBranch(base int, label Label) {
	pos := m.PC()
	m.code.WriteU32(0)
	m.branches = append(m.branches, pendingBranch{pos: pos, base: base, label: label, wide: true})
}

// EmitTableSwitch writes a TABLESWITCH instruction (JVMS §3.10) over the
// contiguous key range [low, high], consuming the int key already on the
// stack. targets[i] is the jump target for key low+i; defaultLabel
// handles any key outside the range.
func (m *MethodWriter) EmitTableSwitch(defaultLabel Label, low, high int32, targets []Label) {
	base := m.PC()
	m.code.WriteU8(byte(opcode.TABLESWITCH))
	m.padToBoundary()
	m.reserveWideBranch(base, defaultLabel)
	m.code.WriteU32(uint32(low))
	m.code.WriteU32(uint32(high))
	for _, t := range targets {
		m.reserveWideBranch(base, t)
	}
}

// SwitchPair is one (key, target) association for EmitLookupSwitch.
type SwitchPair struct {
	Key    int32
	Target Label
}

// EmitLookupSwitch writes a LOOKUPSWITCH instruction (JVMS §3.10); pairs
// must already be sorted ascending by Key, per the JVM spec's requirement
// that a conforming verifier may reject an unsorted table.
func (m *MethodWriter) EmitLookupSwitch(defaultLabel Label, pairs []SwitchPair) {
	base := m.PC()
	m.code.WriteU8(byte(opcode.LOOKUPSWITCH))
	m.padToBoundary()
	m.reserveWideBranch(base, defaultLabel)
	m.code.WriteU32(uint32(len(pairs)))
	for _, p := range pairs {
		m.code.WriteU32(uint32(p.Key))
		m.reserveWideBranch(base, p.Target)
	}
}

// AddLineNumber records that the instruction at the current PC begins the
// code generated for source line.
func (m *MethodWriter) AddLineNumber(line int) {
	if line <= 0 {
		return
	}
	m.lines = append(m.lines, lineEntry{pc: m.PC(), line: line})
}

// AddLocalVar records one LocalVariableTable entry spanning [start, end)
// for a variable at index (spec §4.3).
func (m *MethodWriter) AddLocalVar(start, end Label, name, descriptor string, index int) {
	m.locals = append(m.locals, localVarEntry{startLabel: start, endLabel: end, name: name, descriptor: descriptor, index: index})
	width := 1
	if descriptor == "J" || descriptor == "D" {
		width = 2
	}
	m.ReserveLocals(index + width)
}

// AddExceptionHandler records one exception_table entry covering
// [start, end) with handler handler; catchType is an internal class name,
// or "" to catch everything (used for inlined finally blocks, spec
// §4.2.4).
func (m *MethodWriter) AddExceptionHandler(start, end, handler Label, catchType string) {
	m.excs = append(m.excs, excEntry{startLabel: start, endLabel: end, handlerLabel: handler, catchType: catchType})
}

func (m *MethodWriter) resolve(label Label) int {
	pc, ok := m.labelPC[label]
	if !ok {
		panic("classfile: label used but never marked")
	}
	return pc
}

// patchBranches back-patches every forward/backward branch now that all
// labels are resolved.
func (m *MethodWriter) patchBranches() {
	for _, b := range m.branches {
		target := m.resolve(b.label)
		disp := target - b.base
		if b.wide {
			m.code.patchU32(b.pos, uint32(int32(disp)))
		} else {
			m.code.patchU16(b.pos, uint16(int16(disp)))
		}
	}
}

// codeAttribute serializes this method's Code attribute body (everything
// after the attribute_length field) to w.
func (m *MethodWriter) codeAttribute(w *BinWriter) {
	m.patchBranches()

	code := m.code.Bytes()
	w.WriteU16(uint16(m.maxStack))
	w.WriteU16(uint16(m.maxLocals))
	w.WriteU32(uint32(len(code)))
	w.WriteBytes(code)

	w.WriteU16(uint16(len(m.excs)))
	for _, e := range m.excs {
		w.WriteU16(uint16(m.resolve(e.startLabel)))
		w.WriteU16(uint16(m.resolve(e.endLabel)))
		w.WriteU16(uint16(m.resolve(e.handlerLabel)))
		if e.catchType == "" {
			w.WriteU16(0)
		} else {
			w.WriteU16(m.pool.Class(e.catchType))
		}
	}

	attrCount := uint16(0)
	if len(m.lines) > 0 {
		attrCount++
	}
	if len(m.locals) > 0 {
		attrCount++
	}
	if len(m.frames) > 0 {
		attrCount++
	}
	w.WriteU16(attrCount)
	if len(m.lines) > 0 {
		m.writeLineNumberTable(w)
	}
	if len(m.locals) > 0 {
		m.writeLocalVariableTable(w)
	}
	if len(m.frames) > 0 {
		m.writeStackMapTable(w)
	}
}

func (m *MethodWriter) writeLineNumberTable(w *BinWriter) {
	w.WriteU16(m.pool.UTF8("LineNumberTable"))
	w.WriteU32(uint32(2 + 4*len(m.lines)))
	w.WriteU16(uint16(len(m.lines)))
	for _, l := range m.lines {
		w.WriteU16(uint16(l.pc))
		w.WriteU16(uint16(l.line))
	}
}

func (m *MethodWriter) writeLocalVariableTable(w *BinWriter) {
	w.WriteU16(m.pool.UTF8("LocalVariableTable"))
	w.WriteU32(uint32(2 + 10*len(m.locals)))
	w.WriteU16(uint16(len(m.locals)))
	for _, l := range m.locals {
		start := m.resolve(l.startLabel)
		end := m.resolve(l.endLabel)
		w.WriteU16(uint16(start))
		w.WriteU16(uint16(end - start))
		w.WriteU16(m.pool.UTF8(l.name))
		w.WriteU16(m.pool.UTF8(l.descriptor))
		w.WriteU16(uint16(l.index))
	}
}

// writeStackMapTable emits one full_frame entry (JVMS §4.7.4) per recorded
// snapshot, in ascending PC order. full_frame is the least compact but
// always-valid encoding; DESIGN.md documents the decision
// not to pursue the denser chop/append/same-locals encodings here.
func (m *MethodWriter) writeStackMapTable(w *BinWriter) {
	type resolved struct {
		pc   int
		snap FrameSnapshot
	}
	rs := make([]resolved, len(m.frames))
	for i, f := range m.frames {
		rs[i] = resolved{pc: m.resolve(f.label), snap: f.snap}
	}
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			if rs[j].pc < rs[i].pc {
				rs[i], rs[j] = rs[j], rs[i]
			}
		}
	}

	body := NewBinWriter()
	body.WriteU16(uint16(len(rs)))
	prevPC := -1
	for _, r := range rs {
		offsetDelta := r.pc
		if prevPC >= 0 {
			offsetDelta = r.pc - prevPC - 1
		}
		prevPC = r.pc

		body.WriteU8(255) // full_frame tag
		body.WriteU16(uint16(offsetDelta))
		body.WriteU16(uint16(len(r.snap.Locals)))
		for _, l := range r.snap.Locals {
			l.writeTo(body, m.pool)
		}
		body.WriteU16(uint16(len(r.snap.Stack)))
		for _, s := range r.snap.Stack {
			s.writeTo(body, m.pool)
		}
	}

	w.WriteU16(m.pool.UTF8("StackMapTable"))
	w.WriteU32(uint32(body.Len()))
	w.WriteBytes(body.Bytes())
}
