package memmap

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/user-none/go-chip-genesis/m68k"
)

// fast68kBits / fastZ80Bits size the fast-path pointer tables: one slot per
// 64 KiB of the 68k's 24-bit address space (addr>>16, 256 entries) and one
// slot per 8 KiB of the Z80's 16-bit address space (addr>>13, 8 entries).
const (
	fast68kBits = 16
	fastZ80Bits = 13
)

// Map is an ordered list of Chunks forming one CPU's address space. The
// same Map backs both a 68k-facing view (via Read/Write, implementing
// m68k.Bus/m68k.CycleBus directly) and a Z80-facing view (via the Z80Bus
// adapter), since a chunk's underlying buffer may be shared or mirrored
// between both address spaces with different byte-lane conventions.
type Map struct {
	chunks []*Chunk
	ports  []*Chunk

	fast68k [1 << (24 - fast68kBits)]*Chunk
	fastZ80 [1 << (16 - fastZ80Bits)]*Chunk

	ptrBuffers map[uint8][]byte
	slow       *lru.Cache[uint32, *Chunk]
}

// NewMap constructs an empty Map. Add chunks with AddChunk, then call
// Build once the full layout is known.
func NewMap() *Map {
	cache, _ := lru.New[uint32, *Chunk](256)
	return &Map{
		ptrBuffers: make(map[uint8][]byte),
		slow:       cache,
	}
}

// AddChunk appends a memory chunk. Chunks are consulted in the order
// added, so more specific (narrower) regions should be added before
// broader catch-alls they're meant to shadow.
func (m *Map) AddChunk(c *Chunk) {
	m.chunks = append(m.chunks, c)
}

// AddPort registers a Chunk covering a range of Z80 I/O port numbers,
// consulted by Z80Bus.In/Out. Port chunks are never part of the 68k or
// Z80 memory fast-path tables.
func (m *Map) AddPort(c *Chunk) {
	m.ports = append(m.ports, c)
}

// SetPtrIndexBuffer binds the physical buffer for a FlagPtrIdx chunk's
// PtrIndex slot, used for mode-switched work RAM banks that swap their
// backing store at runtime without altering the chunk list.
func (m *Map) SetPtrIndexBuffer(slot uint8, buf []byte) {
	m.ptrBuffers[slot] = buf
}

// Build walks the chunk list and populates the fast-path pointer tables
// for every chunk eligible for direct installation (see
// Chunk.fastPathEligible), leaving chunks that need lane restrictions,
// PTR_IDX indirection, or callback dispatch to the slow linear-scan path.
func (m *Map) Build() {
	for _, c := range m.chunks {
		if !c.fastPathEligible() {
			continue
		}
		firstSlot := c.Start >> fast68kBits
		lastSlot := c.End >> fast68kBits
		for slot := firstSlot; slot <= lastSlot; slot++ {
			if slot >= uint32(len(m.fast68k)) {
				break
			}
			m.fast68k[slot] = c
		}

		if c.End < 0x10000 {
			firstZ := c.Start >> fastZ80Bits
			lastZ := c.End >> fastZ80Bits
			for slot := firstZ; slot <= lastZ; slot++ {
				if slot >= uint32(len(m.fastZ80)) {
					break
				}
				m.fastZ80[slot] = c
			}
		}
	}
}

func (m *Map) resolvePtrIdx(c *Chunk) []byte {
	if buf, ok := m.ptrBuffers[c.PtrIndex]; ok {
		return buf
	}
	return c.Buffer
}

// find locates the chunk covering addr, preferring the fast-path table
// (z80 selects the 8 KiB table, otherwise the 64 KiB 68k table) and
// falling back to a cached linear scan for lane-restricted, PTR_IDX, or
// callback-backed chunks.
func (m *Map) find(addr uint32, z80 bool) *Chunk {
	if z80 {
		if addr < 0x10000 {
			if c := m.fastZ80[addr>>fastZ80Bits]; c != nil {
				return c
			}
		}
	} else if addr < 1<<24 {
		if c := m.fast68k[addr>>fast68kBits]; c != nil {
			return c
		}
	}

	if c, ok := m.slow.Get(addr); ok && c.contains(addr) {
		return c
	}
	for _, c := range m.chunks {
		if c.contains(addr) {
			m.slow.Add(addr, c)
			return c
		}
	}
	return nil
}

func (m *Map) findPort(port uint16) *Chunk {
	for _, c := range m.ports {
		if uint32(port) >= c.Start && uint32(port) <= c.End {
			return c
		}
	}
	return nil
}

// Read implements m68k.Bus. Byte accesses apply the 68k address^1
// byte-lane swap; word and long accesses read the buffer in its stored
// big-endian order.
func (m *Map) Read(op m68k.Size, addr uint32) uint32 {
	switch op {
	case m68k.Byte:
		return uint32(m.read8(addr))
	case m68k.Word:
		return uint32(m.read16(addr))
	case m68k.Long:
		hi := uint32(m.read16(addr))
		lo := uint32(m.read16(addr + 2))
		return hi<<16 | lo
	}
	return 0
}

// Write implements m68k.Bus.
func (m *Map) Write(op m68k.Size, addr uint32, val uint32) {
	switch op {
	case m68k.Byte:
		m.write8(addr, uint8(val))
	case m68k.Word:
		m.write16(addr, uint16(val))
	case m68k.Long:
		m.write16(addr, uint16(val>>16))
		m.write16(addr+2, uint16(val))
	}
}

// ReadCycle/WriteCycle implement m68k.CycleBus. The underlying chunk
// dispatch carries no per-access timing state, so the cycle timestamp is
// accepted but not otherwise consulted.
func (m *Map) ReadCycle(cycle uint64, op m68k.Size, addr uint32) uint32 {
	return m.Read(op, addr)
}

func (m *Map) WriteCycle(cycle uint64, op m68k.Size, addr uint32, val uint32) {
	m.Write(op, addr, val)
}

// Reset implements m68k.Bus. It carries no device state of its own; any
// chunk backed by callbacks is expected to reset itself on the other side
// of its Read8/Write8 functions.
func (m *Map) Reset() {}

func (m *Map) read8(addr uint32) uint8 {
	c := m.find(addr, false)
	if c == nil {
		return 0xFF
	}
	if c.Flags&FlagPtrIdx != 0 {
		return readPtrIdx(c, m.resolvePtrIdx(c), addr, true)
	}
	return c.read8(addr, true)
}

func (m *Map) write8(addr uint32, val uint8) {
	c := m.find(addr, false)
	if c == nil || c.Flags&FlagWrite == 0 && c.Write8 == nil {
		return
	}
	if c.Flags&FlagPtrIdx != 0 {
		writePtrIdx(c, m.resolvePtrIdx(c), addr, val, true)
		return
	}
	c.write8(addr, val, true)
}

func (m *Map) read16(addr uint32) uint16 {
	c := m.find(addr, false)
	if c == nil {
		return 0xFFFF
	}
	if c.Flags&(FlagOnlyOdd|FlagOnlyEven) != 0 {
		hi := c.read8(addr, true)
		lo := c.read8(addr+1, true)
		return uint16(hi)<<8 | uint16(lo)
	}
	if c.Flags&FlagPtrIdx != 0 {
		buf := m.resolvePtrIdx(c)
		off := (addr - c.Start) & c.mask()
		return uint16(buf[off])<<8 | uint16(buf[(off+1)&c.mask()])
	}
	return c.read16(addr)
}

func (m *Map) write16(addr uint32, val uint16) {
	c := m.find(addr, false)
	if c == nil {
		return
	}
	if c.Flags&(FlagOnlyOdd|FlagOnlyEven) != 0 {
		c.write8(addr, uint8(val>>8), true)
		c.write8(addr+1, uint8(val), true)
		return
	}
	if c.Flags&FlagPtrIdx != 0 {
		buf := m.resolvePtrIdx(c)
		off := (addr - c.Start) & c.mask()
		buf[off] = uint8(val >> 8)
		buf[(off+1)&c.mask()] = uint8(val)
		return
	}
	c.write16(addr, val)
}

func readPtrIdx(c *Chunk, buf []byte, addr uint32, swapLane bool) uint8 {
	off := (addr - c.Start) & c.mask()
	if swapLane {
		off ^= 1
	}
	return buf[off]
}

func writePtrIdx(c *Chunk, buf []byte, addr uint32, val uint8, swapLane bool) {
	off := (addr - c.Start) & c.mask()
	if swapLane {
		off ^= 1
	}
	buf[off] = val
}

// Z80Bus adapts a Map to z80.Bus. It exists because Go cannot overload a
// method name by signature on one type: m68k.Bus.Read(Size, uint32) and
// z80.Bus.Read(uint16) uint8 can't both be satisfied by *Map directly, so
// the Z80-facing view is this thin wrapper over the same chunk list
// instead, reading without the 68k byte-lane swap per the Z80's own
// memory convention.
type Z80Bus struct {
	*Map
}

func (z Z80Bus) Read(addr uint16) uint8 {
	c := z.find(uint32(addr), true)
	if c == nil {
		return 0xFF
	}
	if c.Flags&FlagPtrIdx != 0 {
		return readPtrIdx(c, z.resolvePtrIdx(c), uint32(addr), false)
	}
	return c.read8(uint32(addr), false)
}

func (z Z80Bus) Write(addr uint16, val uint8) {
	c := z.find(uint32(addr), true)
	if c == nil {
		return
	}
	if c.Flags&FlagPtrIdx != 0 {
		writePtrIdx(c, z.resolvePtrIdx(c), uint32(addr), val, false)
		return
	}
	c.write8(uint32(addr), val, false)
}

func (z Z80Bus) In(port uint16) uint8 {
	c := z.findPort(port)
	if c == nil || c.Read8 == nil {
		return 0xFF
	}
	return c.Read8(uint32(port))
}

func (z Z80Bus) Out(port uint16, val uint8) {
	c := z.findPort(port)
	if c == nil || c.Write8 == nil {
		return
	}
	c.Write8(uint32(port), val)
}
