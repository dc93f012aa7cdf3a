package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinWriterWritesBigEndian(t *testing.T) {
	w := NewBinWriter()
	w.WriteU8(0x01)
	w.WriteU16(0x0203)
	w.WriteU32(0x04050607)
	w.WriteU64(0x08090a0b0c0d0e0f)
	w.WriteBytes([]byte{0xff})
	assert.NoError(t, w.Err)
	assert.Equal(t, []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0xff,
	}, w.Bytes())
}

func TestBinWriterLenTracksBytesWritten(t *testing.T) {
	w := NewBinWriter()
	w.WriteU16(1)
	w.WriteU32(2)
	assert.Equal(t, 6, w.Len())
}

func TestBinWriterPatchU16AndU32(t *testing.T) {
	w := NewBinWriter()
	w.WriteU16(0)
	w.WriteU32(0)
	w.patchU16(0, 0xAABB)
	w.patchU32(2, 0xCCDDEEFF)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}, w.Bytes())
}
