package m68k

import "log"

// MC68000 exception vector numbers.
const (
	vecResetSSP           = 0
	vecResetPC            = 1
	vecBusError           = 2
	vecAddressError       = 3
	vecIllegalInstruction = 4
	vecDivideByZero       = 5
	vecCHK                = 6
	vecTRAPV              = 7
	vecPrivilegeViolation = 8
	vecTrace              = 9
	vecLineA              = 10
	vecLineF              = 11
	vecUninitialized      = 15
	vecSpuriousInterrupt  = 24
	vecAutoVector1        = 25
	vecTrap0              = 32 // TRAP #0 through TRAP #15 = vectors 32-47
)

// exception processes an exception: enters supervisor mode, pushes the
// return frame (PC + SR), reads the vector, and jumps to the handler.
func (c *CPU) exception(vector int) {
	// Log error exceptions (vectors 2-11) for diagnostics
	if vector >= vecBusError && vector <= vecLineF {
		log.Printf("[m68k] exception %d at PC=%06x SR=%04x", vector, c.reg.PC, c.reg.SR)
	}

	// Determine the PC to push. For group 1 fault exceptions (illegal
	// instruction, privilege violation, Line-A, Line-F), the 68000 pushes
	// the address of the faulting instruction. For all other exceptions
	// (group 2: TRAP, TRAPV, CHK, divide-by-zero; and interrupts/trace),
	// the 68000 pushes the next instruction address (current PC).
	pushPC := c.reg.PC
	switch vector {
	case vecIllegalInstruction, vecPrivilegeViolation, vecLineA, vecLineF:
		pushPC = c.prevPC
	}

	oldSR := c.reg.SR

	// Enter supervisor mode, clear trace and (68020+) master state
	if c.reg.SR&flagS == 0 {
		c.reg.USP = c.reg.A[7]
		c.reg.A[7] = c.reg.SSP
	}
	c.reg.SR = (c.reg.SR | flagS) & ^(flagT | flagT0 | flagM)

	c.pushExceptionFrame(pushPC, oldSR, uint8(vector))

	// Read handler address from vector table
	addr := c.readBus(Long, uint32(vector)*4)
	if addr == 0 {
		// Uninitialized vector: try the uninitialized-interrupt vector
		addr = c.readBus(Long, vecUninitialized*4)
		if addr == 0 {
			// Double fault on uninitialized vectors: halt
			c.halted = true
			return
		}
	}
	c.reg.PC = addr

	if vector >= 0 && vector < 256 {
		c.charge(uint64(c.info.excCycles[vector]))
	} else {
		c.charge(34)
	}
}

// pushExceptionFrame writes the exception return frame. The 68000 frame is
// three words: SR and the two words of PC. Every later variant additionally
// carries a format/vector-offset word below PC (format 0, the short bus
// cycle frame; we do not model the long frames used for bus/address
// errors, per the Non-goals around those exceptions).
func (c *CPU) pushExceptionFrame(pc uint32, sr uint16, vector uint8) {
	if c.info.hasFormatWord {
		c.pushWord(uint16(vector) * 4) // format nibble 0, vector offset = vector*4
	}
	c.pushLong(pc)
	c.pushWord(sr)
}

// popExceptionFrame reads back an exception return frame pushed by
// pushExceptionFrame, returning the saved SR and PC. On variants with a
// format word, the word is discarded; a non-zero format number designates
// a longer frame we never push, so there is nothing to reconcile here.
func (c *CPU) popExceptionFrame() (sr uint16, pc uint32) {
	sr = c.popWord()
	pc = c.popLong()
	if c.info.hasFormatWord {
		c.popWord()
	}
	return sr, pc
}
