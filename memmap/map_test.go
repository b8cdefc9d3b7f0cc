package memmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/go-chip-genesis/m68k"
)

// TestByteLaneSwap68k exercises the documented concrete scenario: a 64 KiB
// buffer containing AA BB CC DD... mapped into the 68k's address space
// must read back with address^1 byte-lane swapping on byte access, but in
// natural big-endian order on word access.
func TestByteLaneSwap68k(t *testing.T) {
	buf := make([]byte, 0x10000)
	buf[0], buf[1], buf[2], buf[3] = 0xAA, 0xBB, 0xCC, 0xDD

	m := NewMap()
	m.AddChunk(&Chunk{Start: 0, End: 0xFFFF, Flags: FlagRead | FlagWrite, Buffer: buf})
	m.Build()

	assert.Equal(t, uint32(0xBB), m.Read(m68k.Byte, 0))
	assert.Equal(t, uint32(0xAA), m.Read(m68k.Byte, 1))
	assert.Equal(t, uint32(0xAABB), m.Read(m68k.Word, 0))
}

// TestZ80NoByteSwap confirms the Z80-facing view reads the same backing
// buffer directly, without the 68k's byte-lane swap.
func TestZ80NoByteSwap(t *testing.T) {
	buf := make([]byte, 0x2000)
	buf[0], buf[1] = 0xAA, 0xBB

	m := NewMap()
	m.AddChunk(&Chunk{Start: 0, End: 0x1FFF, Flags: FlagRead | FlagWrite, Buffer: buf})
	m.Build()

	z := Z80Bus{m}
	assert.Equal(t, uint8(0xAA), z.Read(0))
	assert.Equal(t, uint8(0xBB), z.Read(1))
}

func TestFastPathAndSlowPathAgree(t *testing.T) {
	buf := make([]byte, 0x10000)
	buf[4] = 0x42

	callbackCalls := 0
	m := NewMap()
	m.AddChunk(&Chunk{Start: 0, End: 0xFFFF, Flags: FlagRead | FlagWrite, Buffer: buf})
	m.AddChunk(&Chunk{
		Start: 0x20000, End: 0x20003,
		Flags: FlagRead | FlagWrite,
		Read8: func(addr uint32) uint8 {
			callbackCalls++
			return 0x99
		},
		Write8: func(addr uint32, val uint8) {},
	})
	m.Build()

	assert.Equal(t, uint32(0x42), m.Read(m68k.Byte, 5))
	assert.Equal(t, uint32(0x99), m.Read(m68k.Byte, 0x20000))
	assert.Equal(t, uint32(0x99), m.Read(m68k.Byte, 0x20000))
	assert.Equal(t, 2, callbackCalls)
}

func TestOnlyOddEvenLane(t *testing.T) {
	buf := []byte{0x55, 0x66}
	m := NewMap()
	m.AddChunk(&Chunk{Start: 0, End: 0x1, Flags: FlagRead | FlagOnlyOdd, Buffer: buf})
	m.Build()

	require.Equal(t, uint32(0xFF), m.Read(m68k.Byte, 0), "even lane of an odd-only device reads all-1s")
}

func TestPtrIndexSwap(t *testing.T) {
	bankA := make([]byte, 0x10000)
	bankB := make([]byte, 0x10000)
	bankA[0], bankA[1] = 0x11, 0x22
	bankB[0], bankB[1] = 0x33, 0x44

	m := NewMap()
	m.AddChunk(&Chunk{Start: 0, End: 0xFFFF, Flags: FlagRead | FlagWrite | FlagPtrIdx, PtrIndex: 0})
	m.SetPtrIndexBuffer(0, bankA)
	m.Build()

	assert.Equal(t, uint32(0x22), m.Read(m68k.Byte, 0))

	m.SetPtrIndexBuffer(0, bankB)
	assert.Equal(t, uint32(0x44), m.Read(m68k.Byte, 0))
}

func TestPortIO(t *testing.T) {
	var latched uint8
	m := NewMap()
	m.AddPort(&Chunk{
		Start: 0x7E, End: 0x7E,
		Read8:  func(addr uint32) uint8 { return latched },
		Write8: func(addr uint32, val uint8) { latched = val },
	})

	z := Z80Bus{m}
	z.Out(0x7E, 0x3C)
	assert.Equal(t, uint8(0x3C), z.In(0x7E))
	assert.Equal(t, uint8(0xFF), z.In(0x7F))
}
