package m68k

// EA addressing mode categories.
const (
	eaDataReg   = iota // Data register direct (Dn)
	eaAddrReg          // Address register direct (An)
	eaMemory           // All memory addressing modes
	eaImmediate        // Immediate (#imm)
)

// ea represents a resolved effective address operand.
type ea struct {
	mode uint8  // eaDataReg, eaAddrReg, eaMemory, eaImmediate
	reg  uint8  // register number (for register modes)
	addr uint32 // memory address (for memory modes)
	imm  uint32 // immediate value (for immediate mode)
}

// read returns the value at this effective address.
func (e ea) read(c *CPU, sz Size) uint32 {
	switch e.mode {
	case eaDataReg:
		return c.reg.D[e.reg] & sz.Mask()
	case eaAddrReg:
		return c.reg.A[e.reg] & sz.Mask()
	case eaMemory:
		return c.readBus(sz, e.addr)
	case eaImmediate:
		return e.imm & sz.Mask()
	}
	return 0
}

// write stores a value at this effective address.
// Data register writes preserve upper bits for byte/word operations.
// Address register writes always store the full 32-bit value.
func (e ea) write(c *CPU, sz Size, val uint32) {
	switch e.mode {
	case eaDataReg:
		mask := sz.Mask()
		c.reg.D[e.reg] = (c.reg.D[e.reg] & ^mask) | (val & mask)
	case eaAddrReg:
		c.reg.A[e.reg] = val
	case eaMemory:
		c.writeBus(sz, e.addr, val)
	}
}

// address returns the memory address (only valid for memory EAs).
func (e ea) address() uint32 {
	return e.addr
}

// resolveEA decodes and resolves an effective address from a mode/register pair.
// The mode is bits 5-3 and reg is bits 2-0 of the standard EA field.
// Extension words are fetched from the instruction stream as needed.
func (c *CPU) resolveEA(mode, reg uint8, sz Size) ea {
	switch mode {
	case 0: // Dn - Data register direct
		return ea{mode: eaDataReg, reg: reg}

	case 1: // An - Address register direct
		return ea{mode: eaAddrReg, reg: reg}

	case 2: // (An) - Address register indirect
		return ea{mode: eaMemory, addr: c.reg.A[reg]}

	case 3: // (An)+ - Address register indirect with postincrement
		addr := c.reg.A[reg]
		inc := uint32(sz)
		if reg == 7 && sz == Byte {
			inc = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] += inc
		return ea{mode: eaMemory, addr: addr}

	case 4: // -(An) - Address register indirect with predecrement
		dec := uint32(sz)
		if reg == 7 && sz == Byte {
			dec = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] -= dec
		return ea{mode: eaMemory, addr: c.reg.A[reg]}

	case 5: // d16(An) - Address register indirect with displacement
		disp := int16(c.fetchPC())
		return ea{mode: eaMemory, addr: uint32(int32(c.reg.A[reg]) + int32(disp))}

	case 6: // d8(An,Xn) - Address register indirect with index (68020+: full format, memory indirect)
		return ea{mode: eaMemory, addr: c.resolveIndexed(c.reg.A[reg])}

	case 7:
		switch reg {
		case 0: // abs.W - Absolute short (sign-extended to 32 bits)
			addr := int16(c.fetchPC())
			return ea{mode: eaMemory, addr: uint32(int32(addr))}

		case 1: // abs.L - Absolute long
			addr := c.fetchPCLong()
			return ea{mode: eaMemory, addr: addr}

		case 2: // d16(PC) - PC relative with displacement
			pc := c.reg.PC // PC points to the extension word
			disp := int16(c.fetchPC())
			return ea{mode: eaMemory, addr: uint32(int32(pc) + int32(disp))}

		case 3: // d8(PC,Xn) - PC relative with index (68020+: full format, memory indirect)
			pc := c.reg.PC // PC points to the extension word
			return ea{mode: eaMemory, addr: c.resolveIndexed(pc)}

		case 4: // #imm - Immediate
			switch sz {
			case Byte:
				val := c.fetchPC()
				return ea{mode: eaImmediate, imm: uint32(val & 0xFF)}
			case Word:
				val := c.fetchPC()
				return ea{mode: eaImmediate, imm: uint32(val)}
			case Long:
				val := c.fetchPCLong()
				return ea{mode: eaImmediate, imm: val}
			}
		}
	}

	// Invalid EA - treat as illegal instruction
	c.exception(vecIllegalInstruction)
	return ea{}
}

// resolveIndexed fetches the index extension word and computes the
// effective address relative to base (an address register or the PC, per
// the caller). The 68000-68010 only ever see the brief format (extension
// word bit 8 clear); the 68020 and later also support the full format,
// which adds scaled indexing, a base displacement, and optional one level
// of memory indirection with an outer displacement.
func (c *CPU) resolveIndexed(base uint32) uint32 {
	ext := c.fetchPC()
	if ext&0x0100 == 0 || !c.available(Mask020OrLater) {
		return c.calcIndexBrief(base, ext)
	}
	return c.calcIndexFull(base, ext)
}

// calcIndexBrief computes a base + d8(Xn) indexed address from a brief
// extension word. Format: D/A | Reg(3) | W/L | 0(3) | Disp(8)
func (c *CPU) calcIndexBrief(base uint32, ext uint16) uint32 {
	disp := int8(ext & 0xFF)
	idx := c.indexValue(ext, 1)
	return uint32(int32(base) + idx + int32(disp))
}

// indexValue extracts and scales the index register value named by a
// brief or full extension word. scale is 1 for brief-format words (which
// carry no scale field) and 1/2/4/8 for full-format words.
func (c *CPU) indexValue(ext uint16, scale int32) int32 {
	xn := (ext >> 12) & 7
	var idx int32
	if ext&0x8000 != 0 {
		idx = int32(c.reg.A[xn])
	} else {
		idx = int32(c.reg.D[xn])
	}
	if ext&0x0800 == 0 { // W/L: 0 = sign-extend word index
		idx = int32(int16(idx))
	}
	return idx * scale
}

// eaIdxCycleKey packs the scale, base-displacement-size, and
// outer-displacement-size triple that indexes the 64-entry memory-indirect
// addressing cycle penalty table.
func eaIdxCycleKey(scale, baseDispSize, outerDispSize uint8) uint8 {
	return scale<<4 | baseDispSize<<2 | outerDispSize
}

// calcIndexFull implements the 68020+ full-format extension word: scaled
// index, base displacement, base/index suppression, and the two flavors of
// memory indirection (preindexed and postindexed) with an outer
// displacement. ext bits: D/A Reg(3) WL scale(2) 1 BS IS bdSize(2) 0 I/IS(3).
func (c *CPU) calcIndexFull(base uint32, ext uint16) uint32 {
	baseSuppress := ext&0x0080 != 0
	scale := uint8((ext >> 9) & 3)
	bdSize := uint8((ext >> 4) & 3)
	iis := uint8(ext & 7)

	var idx int32
	if ext&0x0040 == 0 { // IS: index register suppressed when set
		idx = c.indexValue(ext, int32(1)<<scale)
	}

	if baseSuppress {
		base = 0
	}

	var baseDisp int32
	switch bdSize {
	case 2:
		baseDisp = int32(int16(c.fetchPC()))
	case 3:
		baseDisp = c.fetchPCLongSigned()
	}
	baseAddr := uint32(int32(base) + baseDisp)

	if iis == 0 {
		// No memory indirection: (bd,An,Xn) or d8(An,Xn) full format.
		c.chargeIdx(eaIdxCycleKey(scale, bdSize, 0))
		return uint32(int32(baseAddr) + idx)
	}

	var outerSize uint8
	preindexed := iis <= 3
	if preindexed {
		outerSize = iis
	} else {
		outerSize = iis - 4
	}

	c.chargeIdx(eaIdxCycleKey(scale, bdSize, outerSize))

	var ptr uint32
	if preindexed {
		ptr = c.readBus(Long, uint32(int32(baseAddr)+idx))
	} else {
		ptr = c.readBus(Long, baseAddr)
	}

	var outerDisp int32
	switch outerSize {
	case 2:
		outerDisp = int32(int16(c.fetchPC()))
	case 3:
		outerDisp = c.fetchPCLongSigned()
	}

	if preindexed {
		return uint32(int32(ptr) + outerDisp)
	}
	return uint32(int32(ptr) + idx + outerDisp)
}

// fetchPCLongSigned fetches a long extension word as a signed displacement.
func (c *CPU) fetchPCLongSigned() int32 {
	return int32(c.fetchPCLong())
}

// chargeIdx adds the memory-indirect addressing penalty for the given
// scale/base-displacement/outer-displacement key, looked up in this
// variant's 64-entry ea_idx_cycle_table.
func (c *CPU) chargeIdx(key uint8) {
	c.charge(uint64(c.info.eaIdxCycles[key&0x3F]))
}
