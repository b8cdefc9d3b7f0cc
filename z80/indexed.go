package z80

// hlReg returns the 16-bit value an opcode should treat as "HL": the real
// HL pair, or IX/IY while a DD/FD prefix is active.
func (c *CPU) hlReg() uint16 {
	if c.idx != nil {
		return *c.idx
	}
	return c.HL()
}

func (c *CPU) setHLReg(v uint16) {
	if c.idx != nil {
		*c.idx = v
		return
	}
	c.setHL(v)
}

// addrHL returns the effective address a memory-referencing opcode should
// use: HL directly, or IX/IY plus a displacement byte fetched from the
// instruction stream when a DD/FD prefix is active. It also updates WZ,
// matching the real CPU's internal MEMPTR behaviour for indexed addressing.
func (c *CPU) addrHL() uint16 {
	if c.idx == nil {
		return c.HL()
	}
	c.usedIndirectHL = true
	disp := int8(c.fetch())
	addr := uint16(int32(*c.idx) + int32(disp))
	c.wz = addr
	return addr
}

// reg8 and setReg8 decode a 3-bit register field (B=0 C=1 D=2 E=3 H=4 L=5
// (HL)=6 A=7), consulting idx so H/L/(HL) become IXh/IXl/(IX+d) etc. under
// a DD/FD prefix.
func (c *CPU) reg8(i uint8) uint8 {
	switch i {
	case 0:
		return c.reg.B
	case 1:
		return c.reg.C
	case 2:
		return c.reg.D
	case 3:
		return c.reg.E
	case 4:
		if c.idx != nil {
			return uint8(*c.idx >> 8)
		}
		return c.reg.H
	case 5:
		if c.idx != nil {
			return uint8(*c.idx)
		}
		return c.reg.L
	case 6:
		return c.bus.Read(c.addrHL())
	default:
		return c.reg.A
	}
}

func (c *CPU) setReg8(i uint8, v uint8) {
	switch i {
	case 0:
		c.reg.B = v
	case 1:
		c.reg.C = v
	case 2:
		c.reg.D = v
	case 3:
		c.reg.E = v
	case 4:
		if c.idx != nil {
			*c.idx = uint16(v)<<8 | (*c.idx & 0xFF)
		} else {
			c.reg.H = v
		}
	case 5:
		if c.idx != nil {
			*c.idx = (*c.idx & 0xFF00) | uint16(v)
		} else {
			c.reg.L = v
		}
	case 6:
		c.bus.Write(c.addrHL(), v)
	default:
		c.reg.A = v
	}
}

// reg8NoIndex is reg8 without DD/FD substitution, used by DDCB/FDCB opcodes
// which always address (IX+d)/(IY+d) but may additionally copy the result
// into one of the plain 8-bit registers (never H or L themselves).
func (c *CPU) reg8NoIndex(i uint8) uint8 {
	switch i {
	case 0:
		return c.reg.B
	case 1:
		return c.reg.C
	case 2:
		return c.reg.D
	case 3:
		return c.reg.E
	case 4:
		return c.reg.H
	case 5:
		return c.reg.L
	default:
		return c.reg.A
	}
}

func (c *CPU) setReg8NoIndex(i uint8, v uint8) {
	switch i {
	case 0:
		c.reg.B = v
	case 1:
		c.reg.C = v
	case 2:
		c.reg.D = v
	case 3:
		c.reg.E = v
	case 4:
		c.reg.H = v
	case 5:
		c.reg.L = v
	default:
		c.reg.A = v
	}
}

// regPair decodes a 2-bit rp field (00=BC 01=DE 10=HL/IX/IY 11=SP) for the
// 16-bit load/arithmetic groups.
func (c *CPU) regPair(i uint8) uint16 {
	switch i {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hlReg()
	default:
		return c.reg.SP
	}
}

func (c *CPU) setRegPair(i uint8, v uint16) {
	switch i {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHLReg(v)
	default:
		c.reg.SP = v
	}
}

// regPair2 decodes the same 2-bit field but for PUSH/POP, where slot 3
// means AF rather than SP.
func (c *CPU) regPair2(i uint8) uint16 {
	if i == 3 {
		return c.AF()
	}
	return c.regPair(i)
}

func (c *CPU) setRegPair2(i uint8, v uint16) {
	if i == 3 {
		c.setAF(v)
		return
	}
	c.setRegPair(i, v)
}

// cond evaluates one of the eight 3-bit condition codes against F.
func (c *CPU) cond(i uint8) bool {
	switch i {
	case 0:
		return c.reg.F&flagZ == 0 // NZ
	case 1:
		return c.reg.F&flagZ != 0 // Z
	case 2:
		return c.reg.F&flagC == 0 // NC
	case 3:
		return c.reg.F&flagC != 0 // C
	case 4:
		return c.reg.F&flagPV == 0 // PO
	case 5:
		return c.reg.F&flagPV != 0 // PE
	case 6:
		return c.reg.F&flagS == 0 // P
	default:
		return c.reg.F&flagS != 0 // M
	}
}
