// Package system coordinates a 68k and a Z80 core sharing one memory map,
// the way the two CPUs sit side by side on a Genesis/Mega Drive main board:
// the 68k drives the master clock, the Z80 runs at a fixed divider of it,
// and the two sides hand off control through the bus-request line, shared
// interrupt publication, and reset propagation.
package system

import (
	"errors"

	"github.com/user-none/go-chip-genesis/m68k"
	"github.com/user-none/go-chip-genesis/memmap"
	"github.com/user-none/go-chip-genesis/z80"
)

// PulseSource supplies the next scheduled Z80 interrupt pulse at or after
// a given master-clock cycle. It exists so a caller that models VDP
// vertical-blank timing can drive PulseZ80Interrupt without Genesis
// reaching into device state directly, grounded in the preference for
// small consumer-defined interfaces over a global callback registry.
type PulseSource interface {
	NextPulse(afterCycle uint64) (cycle uint64, ok bool)
}

// Genesis owns a 68k core, a Z80 core, and the memory map they share, and
// drives both to a common master-clock deadline per call.
type Genesis struct {
	M68K *m68k.CPU
	Z80  *z80.CPU
	Mem  *memmap.Map

	cycle uint64

	pulses    PulseSource
	nextPulse uint64
	havePulse bool
	irqVector uint8
}

// Config describes how to wire a Genesis: the shared memory map, the 68k
// variant to emulate, and the Z80 clock divider relative to the master
// clock the 68k core counts in (on real hardware the Z80 runs at roughly
// half the 68k's rate).
type Config struct {
	Mem        *memmap.Map
	Variant    m68k.Variant
	Z80Divider uint64
}

// New builds a Genesis from mem, wiring a 68k core directly against mem
// and a Z80 core against mem's Z80-facing adapter view. Returns an error
// if mem is nil, since a coordinator with no memory map has nothing to
// schedule against.
func New(cfg Config) (*Genesis, error) {
	if cfg.Mem == nil {
		return nil, errors.New("system: nil memory map")
	}
	divider := cfg.Z80Divider
	if divider == 0 {
		divider = 2
	}

	m := m68k.NewVariant(cfg.Mem, cfg.Variant)
	z := z80.New(memmap.Z80Bus{Map: cfg.Mem})
	z.SetClockDivider(divider)

	return &Genesis{
		M68K: m,
		Z80:  z,
		Mem:  cfg.Mem,
	}, nil
}

// SetPulseSource installs the source consulted by RunTo to automatically
// raise the Z80 maskable interrupt line at scheduled cycles (the Genesis
// VDP asserts one pulse per scanline's worth of vblank). RunTo does not
// lower the line again; it stays raised until ClearZ80Interrupt.
func (g *Genesis) SetPulseSource(p PulseSource, irqVector uint8) {
	g.pulses = p
	g.irqVector = irqVector
	g.havePulse = false
}

// Cycle returns the coordinator's master-clock position, which tracks
// the 68k core's own cycle counter.
func (g *Genesis) Cycle() uint64 {
	return g.cycle
}

// RunTo advances both cores to target on the shared master clock,
// honoring Z80 bus-request freezing: once the Z80 asserts busack it stops
// consuming cycles, and the 68k is free to access the regions they share.
func (g *Genesis) RunTo(target uint64) {
	for g.cycle < target {
		step := target

		if g.pulses != nil {
			if !g.havePulse {
				if c, ok := g.pulses.NextPulse(g.cycle); ok {
					g.nextPulse = c
					g.havePulse = true
				}
			}
			if g.havePulse && g.nextPulse < step {
				step = g.nextPulse
			}
			if step <= g.cycle {
				// A pulse scheduled for the current instant still needs at
				// least one cycle of forward progress to be observable.
				step = g.cycle + 1
				if step > target {
					step = target
				}
			}
		}

		g.runM68kTo(step)
		g.Z80.RunTo(step)
		g.cycle = step

		if g.havePulse && g.cycle >= g.nextPulse {
			g.Z80.SetIRQ(true, g.irqVector)
			g.havePulse = false
		}
	}
}

// runM68kTo drives the 68k core to target by repeatedly consuming its
// StepCycles budget; the core itself has no notion of a cycle target, so
// the coordinator converts one into a budget loop.
func (g *Genesis) runM68kTo(target uint64) {
	for g.M68K.Cycles() < target {
		budget := target - g.M68K.Cycles()
		if budget > 1<<30 {
			budget = 1 << 30
		}
		consumed := g.M68K.StepCycles(int(budget))
		if consumed == 0 {
			g.M68K.AddCycles(budget)
			return
		}
	}
}

// RequestZ80Bus asserts the 68k's bus request against the Z80, freezing
// it at its next instruction boundary.
func (g *Genesis) RequestZ80Bus() {
	g.Z80.AssertBusreq()
}

// ReleaseZ80Bus clears the bus request; busack drops on the Z80's next
// RunTo call.
func (g *Genesis) ReleaseZ80Bus() {
	g.Z80.ClearBusreq()
}

// Z80BusAcked reports whether the Z80 has frozen and ceded the bus.
func (g *Genesis) Z80BusAcked() bool {
	return g.Z80.Busack()
}

// PulseZ80Interrupt raises the Z80's maskable interrupt line with the
// given databus vector, for a host driving interrupt timing directly
// rather than through a PulseSource.
func (g *Genesis) PulseZ80Interrupt(vector uint8) {
	g.Z80.SetIRQ(true, vector)
}

// ClearZ80Interrupt lowers the Z80's maskable interrupt line.
func (g *Genesis) ClearZ80Interrupt() {
	g.Z80.SetIRQ(false, 0)
}

// AssertZ80Reset catches the Z80 up to cycle, then applies the reset
// edge: PC, I, R cleared and interrupts disabled.
func (g *Genesis) AssertZ80Reset(cycle uint64) {
	g.Z80.AssertReset(cycle)
}

// ClearZ80Reset catches the Z80 up to cycle and releases the reset line.
func (g *Genesis) ClearZ80Reset(cycle uint64) {
	g.Z80.ClearReset(cycle)
}

// RequestM68KInterrupt queues a 68k interrupt at the given priority level
// (1-7); a nil vector requests auto-vectoring.
func (g *Genesis) RequestM68KInterrupt(level uint8, vector *uint8) {
	g.M68K.RequestInterrupt(level, vector)
}

// AdjustCycles rebases both cores' latched cycle timestamps and the
// pending pulse cycle after the host scheduler subtracts deduction from
// the shared master clock (a pending pulse already in the past is
// dropped), e.g.
// at the end of a video frame to keep counters from growing without
// bound.
func (g *Genesis) AdjustCycles(deduction uint64) {
	if g.cycle > deduction {
		g.cycle -= deduction
	} else {
		g.cycle = 0
	}
	if g.havePulse {
		if g.nextPulse > deduction {
			g.nextPulse -= deduction
		} else {
			g.havePulse = false
		}
	}
	g.Z80.AdjustCycles(deduction)
	g.M68K.AdjustCycles(deduction)
}
