package z80

// opcodeTable, cbTable, and edTable are built once at package init by the
// registerXxx functions in the ops_*.go files, mirroring the 68k core's
// handler-table dispatch.
var (
	opcodeTable [256]func(*CPU)
	cbTable     [256]func(*CPU)
	edTable     [256]func(*CPU)
)

func init() {
	registerLoad8()
	registerLoad16()
	registerExchange()
	registerALU()
	registerIncDec()
	registerMisc()
	registerRotateA()
	registerJump()
	registerIO()
	registerBlock()
	registerCB()
	registerED()
}

// execOp dispatches a fetched main-table opcode, handling the CB/ED/DD/FD
// prefixes, and returns the T-states consumed.
func (c *CPU) execOp(op uint8) int {
	switch op {
	case 0xCB:
		return c.execCB()
	case 0xED:
		return c.execED()
	case 0xDD:
		return c.execIndexed(&c.reg.IX)
	case 0xFD:
		return c.execIndexed(&c.reg.IY)
	}

	c.pending = 0
	c.charge(ccOp[op])
	h := opcodeTable[op]
	if h == nil {
		logIllegal("", op)
		return c.pending
	}
	h(c)
	return c.pending
}

func (c *CPU) execCB() int {
	c.pending = 0
	op := c.fetch()
	c.reg.R = (c.reg.R & 0x80) | ((c.reg.R + 1) & 0x7F)
	c.charge(ccCB[op])
	h := cbTable[op]
	if h == nil {
		logIllegal("CB", op)
		return c.pending
	}
	h(c)
	return c.pending
}

func (c *CPU) execED() int {
	c.pending = 0
	op := c.fetch()
	c.charge(ccED[op])
	h := edTable[op]
	if h == nil {
		logIllegal("ED", op)
		return c.pending
	}
	h(c)
	return c.pending
}

// execIndexed handles the DD/FD prefix by pointing idx at IX or IY for the
// duration of one (possibly CB-nested) instruction, then dispatching
// through the ordinary opcode table. Handlers that reference HL via
// c.hlReg/c.setHLReg/c.addrHL transparently operate on the indexed
// register instead; handlers that don't touch HL execute unmodified,
// exactly as real DD/FD decoding falls through to the base instruction set.
func (c *CPU) execIndexed(idx *uint16) int {
	c.pending = 0

	op := c.fetch()
	if op == 0xDD || op == 0xFD || op == 0xED {
		// A second prefix byte cancels the first (observable on real
		// silicon as the earlier prefix having no effect); its own
		// 4-cycle fetch overhead still applies.
		c.charge(4)
		carry := c.pending
		n := c.execOp(op)
		return carry + n
	}
	if op == 0xCB {
		// ccXYCB already carries the full DD/FD CB dd op total.
		c.idx = idx
		c.execIndexedCB(idx)
		c.idx = nil
		return c.pending
	}

	c.charge(4) // prefix fetch overhead
	c.idx = idx
	c.usedIndirectHL = false
	c.charge(ccOp[op])
	h := opcodeTable[op]
	if h == nil {
		logIllegal("DD/FD", op)
	} else {
		h(c)
	}
	if c.usedIndirectHL {
		// Flat displacement-addressing surcharge, calibrated against the
		// common 8-bit load/INC/DEC (IX+d) forms; a few rarer (IX+d)
		// opcodes differ from real hardware by a handful of T-states.
		c.charge(8)
	} else if touchesHL(op) {
		c.charge(4) // H/L operand becomes IXh/IXl/IYh/IYl; no displacement needed
	}
	c.idx = nil
	return c.pending
}

// execIndexedCB handles DDCB/FDCB: the displacement byte precedes the
// opcode byte, and the opcode always addresses (IX+d)/(IY+d), optionally
// copying the result into a register as well.
func (c *CPU) execIndexedCB(idx *uint16) {
	disp := int8(c.fetch())
	addr := uint16(int32(*idx) + int32(disp))
	c.wz = addr
	op := c.fetch()
	c.charge(ccXYCB[op])

	reg := op & 7
	bitOrRot := (op >> 3) & 7
	group := op >> 6

	v := c.bus.Read(addr)
	var result uint8

	switch group {
	case 0: // rotate/shift
		result = c.rotateShiftValue(bitOrRot, v)
	case 1: // BIT
		c.flagBit(bitOrRot, v, uint8(c.wz>>8))
		return
	case 2: // RES
		result = v &^ (1 << bitOrRot)
	case 3: // SET
		result = v | (1 << bitOrRot)
	}

	c.bus.Write(addr, result)
	if reg != 6 {
		c.setReg8NoIndex(reg, result)
	}
}

// touchesHL reports whether an unprefixed opcode's encoding references H,
// L, or (HL) directly (as opposed to A, BC, DE, SP, or an immediate) and
// therefore is affected by a DD/FD prefix even when it never reaches
// addrHL (e.g. "LD H,B" becomes "LD IXH,B").
func touchesHL(op uint8) bool {
	// Opcodes of the form 01rrrsss (LD) or the ALU/INC/DEC/BIT groups
	// encode a register in bits 5-3 (dst) and/or 2-0 (src); H=4, L=5, (HL)=6.
	r := (op >> 3) & 7
	s := op & 7
	switch {
	case op == 0x21 || op == 0x22 || op == 0x2A || op == 0x23 || op == 0x2B:
		return true // LD HL,nn / LD (nn),HL / LD HL,(nn) / INC HL / DEC HL
	case op == 0xE1 || op == 0xE5 || op == 0xE3 || op == 0xE9:
		return true // POP HL / PUSH HL / EX (SP),HL / JP (HL)
	case op == 0xF9:
		return true // LD SP,HL
	case op&0xC0 == 0x40: // LD r,r'
		return r == 4 || r == 5 || r == 6 || s == 4 || s == 5 || s == 6
	case op&0xC0 == 0x80: // ALU A,r
		return s == 4 || s == 5 || s == 6
	case op&0xC7 == 0x04 || op&0xC7 == 0x05: // INC r / DEC r
		return r == 4 || r == 5 || r == 6
	case op&0xC7 == 0x06: // LD r,n
		return r == 4 || r == 5 || r == 6
	}
	return false
}
