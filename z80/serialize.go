package z80

import (
	"encoding/binary"
	"errors"
)

// cpuSerializeVersion is incremented whenever the binary layout changes.
const cpuSerializeVersion = 1

// cpuSerializeSize is the number of bytes produced by CPU.Serialize.
const cpuSerializeSize = 50

// SerializeSize returns the number of bytes needed for Serialize.
func (c *CPU) SerializeSize() int { return cpuSerializeSize }

// Serialize writes the full CPU state into buf, which must be at least
// SerializeSize() bytes. Bus references are not included.
func (c *CPU) Serialize(buf []byte) error {
	if len(buf) < cpuSerializeSize {
		return errors.New("z80: serialize buffer too small")
	}

	buf[0] = cpuSerializeVersion
	be := binary.BigEndian
	off := 1

	bytes := []uint8{
		c.reg.A, c.reg.F, c.reg.B, c.reg.C, c.reg.D, c.reg.E, c.reg.H, c.reg.L,
		c.reg.A2, c.reg.F2, c.reg.B2, c.reg.C2, c.reg.D2, c.reg.E2, c.reg.H2, c.reg.L2,
		c.reg.I, c.reg.R, c.reg.IM,
	}
	for _, v := range bytes {
		buf[off] = v
		off++
	}

	be.PutUint16(buf[off:], c.reg.IX)
	off += 2
	be.PutUint16(buf[off:], c.reg.IY)
	off += 2
	be.PutUint16(buf[off:], c.reg.SP)
	off += 2
	be.PutUint16(buf[off:], c.reg.PC)
	off += 2
	be.PutUint16(buf[off:], c.wz)
	off += 2

	flags := []bool{
		c.reg.IFF1, c.reg.IFF2, c.halted, c.afterEI, c.afterLDAIR,
		c.nmiPending, c.nmiLine, c.irqLine, c.busreq, c.busack, c.reset,
	}
	for _, f := range flags {
		buf[off] = boolByte(f)
		off++
	}

	buf[off] = c.irqVector
	off++

	be.PutUint64(buf[off:], c.cycles)
	off += 8

	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Deserialize restores CPU state from buf. The bus reference is left
// unchanged.
func (c *CPU) Deserialize(buf []byte) error {
	if len(buf) < cpuSerializeSize {
		return errors.New("z80: deserialize buffer too small")
	}
	if buf[0] != cpuSerializeVersion {
		return errors.New("z80: unsupported serialize version")
	}

	be := binary.BigEndian
	off := 1

	dst := []*uint8{
		&c.reg.A, &c.reg.F, &c.reg.B, &c.reg.C, &c.reg.D, &c.reg.E, &c.reg.H, &c.reg.L,
		&c.reg.A2, &c.reg.F2, &c.reg.B2, &c.reg.C2, &c.reg.D2, &c.reg.E2, &c.reg.H2, &c.reg.L2,
		&c.reg.I, &c.reg.R, &c.reg.IM,
	}
	for _, p := range dst {
		*p = buf[off]
		off++
	}

	c.reg.IX = be.Uint16(buf[off:])
	off += 2
	c.reg.IY = be.Uint16(buf[off:])
	off += 2
	c.reg.SP = be.Uint16(buf[off:])
	off += 2
	c.reg.PC = be.Uint16(buf[off:])
	off += 2
	c.wz = be.Uint16(buf[off:])
	off += 2

	flagDst := []*bool{
		&c.reg.IFF1, &c.reg.IFF2, &c.halted, &c.afterEI, &c.afterLDAIR,
		&c.nmiPending, &c.nmiLine, &c.irqLine, &c.busreq, &c.busack, &c.reset,
	}
	for _, p := range flagDst {
		*p = buf[off] != 0
		off++
	}

	c.irqVector = buf[off]
	off++

	c.cycles = be.Uint64(buf[off:])
	off += 8

	return nil
}
