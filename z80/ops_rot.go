package z80

// registerRotateA builds the four accumulator rotates RLCA, RRCA, RLA, and
// RRA. Unlike the CB-prefixed rotate group, these leave S, Z, and PV
// untouched and run in 4 T-states.
func registerRotateA() {
	opcodeTable[0x07] = func(c *CPU) {
		carry := c.reg.A >> 7
		c.reg.A = c.reg.A<<1 | carry
		c.setRotFlagsA(carry)
	}
	opcodeTable[0x0F] = func(c *CPU) {
		carry := c.reg.A & 1
		c.reg.A = c.reg.A>>1 | carry<<7
		c.setRotFlagsA(carry)
	}
	opcodeTable[0x17] = func(c *CPU) {
		carry := c.reg.A >> 7
		oldC := uint8(0)
		if c.reg.F&flagC != 0 {
			oldC = 1
		}
		c.reg.A = c.reg.A<<1 | oldC
		c.setRotFlagsA(carry)
	}
	opcodeTable[0x1F] = func(c *CPU) {
		carry := c.reg.A & 1
		oldC := uint8(0)
		if c.reg.F&flagC != 0 {
			oldC = 1
		}
		c.reg.A = c.reg.A>>1 | oldC<<7
		c.setRotFlagsA(carry)
	}
}

func (c *CPU) setRotFlagsA(carry uint8) {
	c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagY|flagX) | carry
}
