// Package classfile is the class writer facade (spec §2, §4.1): a
// low-level binary encoder for the JVM class file format, a deduplicating
// constant pool, and a per-method instruction/label/exception/debug-table
// writer. Nothing in this package understands the source AST; it exposes
// the primitives package emitter and package classemitter drive.
package classfile

import (
	"bytes"
	"encoding/binary"
)

// BinWriter accumulates big-endian class-file bytes, following the
// teacher's io.BufBinWriter convention: once Err is set, every further
// write is a silent no-op so callers can chain a long sequence of writes
// and check the error exactly once at the end (pkg/io/binaryrw_test.go).
type BinWriter struct {
	buf *bytes.Buffer
	Err error
}

// NewBinWriter returns an empty BinWriter.
func NewBinWriter() *BinWriter {
	return &BinWriter{buf: new(bytes.Buffer)}
}

// Len returns the number of bytes written so far.
func (w *BinWriter) Len() int {
	return w.buf.Len()
}

// Bytes returns the accumulated bytes. The caller must check Err first.
func (w *BinWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteU8 writes a single byte.
func (w *BinWriter) WriteU8(v byte) {
	if w.Err != nil {
		return
	}
	w.Err = w.buf.WriteByte(v)
}

// WriteU16 writes a big-endian uint16, the class file format's native
// short width (JVMS §4.1 u2).
func (w *BinWriter) WriteU16(v uint16) {
	if w.Err != nil {
		return
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, w.Err = w.buf.Write(b[:])
}

// WriteU32 writes a big-endian uint32 (JVMS §4.1 u4).
func (w *BinWriter) WriteU32(v uint32) {
	if w.Err != nil {
		return
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, w.Err = w.buf.Write(b[:])
}

// WriteU64 writes a big-endian uint64, used for the high/low halves of
// CONSTANT_Long/CONSTANT_Double entries (JVMS §4.4.5).
func (w *BinWriter) WriteU64(v uint64) {
	if w.Err != nil {
		return
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, w.Err = w.buf.Write(b[:])
}

// WriteBytes appends p verbatim.
func (w *BinWriter) WriteBytes(p []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.buf.Write(p)
}

// patchU16 overwrites the 2 bytes at byte offset off with v, used to back
// -patch forward branch targets and table lengths once they're known.
func (w *BinWriter) patchU16(off int, v uint16) {
	b := w.buf.Bytes()
	binary.BigEndian.PutUint16(b[off:off+2], v)
}

// patchU32 is patchU16's 4-byte counterpart, used for code-length and
// attribute-length fields discovered only after the body is written.
func (w *BinWriter) patchU32(off int, v uint32) {
	b := w.buf.Bytes()
	binary.BigEndian.PutUint32(b[off:off+4], v)
}
