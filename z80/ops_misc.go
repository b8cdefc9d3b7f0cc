package z80

// registerMisc builds NOP, HALT, DI, EI, DAA, CPL, SCF, and CCF.
func registerMisc() {
	opcodeTable[0x00] = func(c *CPU) {}

	opcodeTable[0x76] = func(c *CPU) { c.halted = true; c.reg.PC-- }

	opcodeTable[0xF3] = func(c *CPU) {
		c.reg.IFF1 = false
		c.reg.IFF2 = false
	}
	opcodeTable[0xFB] = func(c *CPU) {
		c.reg.IFF1 = true
		c.reg.IFF2 = true
		c.afterEI = true
	}

	opcodeTable[0x27] = (*CPU).daa
	opcodeTable[0x2F] = func(c *CPU) {
		c.reg.A = ^c.reg.A
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV|flagC) | flagH | flagN | c.reg.A&(flagY|flagX)
	}
	opcodeTable[0x37] = func(c *CPU) {
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | flagC | c.reg.A&(flagY|flagX)
	}
	opcodeTable[0x3F] = func(c *CPU) {
		h := uint8(0)
		if c.reg.F&flagC != 0 {
			h = flagH
		}
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | h | c.reg.A&(flagY|flagX)
		c.reg.F ^= flagC
	}
}

// daa adjusts A after a BCD ADD/ADC/SUB/SBC according to the previous N,
// H, and C flags, following the standard lookup-free correction recipe.
func (c *CPU) daa() {
	a := c.reg.A
	cf := c.reg.F&flagC != 0
	hf := c.reg.F&flagH != 0
	nf := c.reg.F&flagN != 0

	corr := uint8(0)
	newC := cf
	if hf || a&0xF > 9 {
		corr |= 0x06
	}
	if cf || a > 0x99 {
		corr |= 0x60
		newC = true
	}

	var result uint8
	if nf {
		result = a - corr
	} else {
		result = a + corr
	}

	newH := false
	if nf {
		newH = hf && a&0xF < 6
	} else {
		newH = a&0xF > 9
	}

	c.reg.A = result
	f := szp[result] | c.reg.F&flagN
	if newC {
		f |= flagC
	}
	if newH {
		f |= flagH
	}
	c.reg.F = f
}
