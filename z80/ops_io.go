package z80

// registerIO builds the accumulator-specific IN A,(n) / OUT (n),A forms and
// the ED-prefixed IN r,(C) / OUT (C),r group.
func registerIO() {
	opcodeTable[0xDB] = func(c *CPU) {
		port := c.fetch()
		addr := uint16(c.reg.A)<<8 | uint16(port)
		c.reg.A = c.bus.In(addr)
		c.wz = addr + 1
	}
	opcodeTable[0xD3] = func(c *CPU) {
		port := c.fetch()
		addr := uint16(c.reg.A)<<8 | uint16(port)
		c.bus.Out(addr, c.reg.A)
		c.wz = uint16(c.reg.A)<<8 | uint16(port+1)
	}

	for r := uint8(0); r < 8; r++ {
		inOp := 0x40 | r<<3
		outOp := 0x41 | r<<3
		reg := r
		edTable[inOp] = func(c *CPU) {
			addr := c.BC()
			v := c.bus.In(addr)
			c.wz = addr + 1
			c.reg.F = szp[v] | c.reg.F&flagC
			if reg != 6 { // undocumented IN (C) discards the value
				c.setReg8NoIndex(reg, v)
			}
		}
		edTable[outOp] = func(c *CPU) {
			addr := c.BC()
			v := uint8(0)
			if reg != 6 { // undocumented OUT (C),0
				v = c.reg8NoIndex(reg)
			}
			c.bus.Out(addr, v)
			c.wz = addr + 1
		}
	}
}
