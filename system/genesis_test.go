package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user-none/go-chip-genesis/m68k"
	"github.com/user-none/go-chip-genesis/memmap"
	"github.com/user-none/go-chip-genesis/z80"
)

func newTestGenesis(t *testing.T) *Genesis {
	t.Helper()
	mem := memmap.NewMap()
	buf := make([]byte, 0x10000)
	mem.AddChunk(&memmap.Chunk{Start: 0, End: 0xFFFF, Flags: memmap.FlagRead | memmap.FlagWrite, Buffer: buf})
	mem.Build()

	g, err := New(Config{Mem: mem})
	require.NoError(t, err)

	// Reset vectors: SSP=0x0000FFF0, PC=0x00000400; the zeroed memory from
	// there on decodes as ORI.B #0,D0.
	g.Mem.Write(m68k.Long, 0, 0x0000FFF0)
	g.Mem.Write(m68k.Long, 4, 0x00000400)
	g.M68K.Reset()
	return g
}

func TestNewRejectsNilMap(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRunToAdvancesBothCores(t *testing.T) {
	g := newTestGenesis(t)
	g.RunTo(1000)
	assert.Equal(t, uint64(1000), g.Cycle())
	assert.GreaterOrEqual(t, g.M68K.Cycles(), uint64(1000))
}

func TestZ80BusRequestFreezesZ80(t *testing.T) {
	g := newTestGenesis(t)
	g.RequestZ80Bus()
	g.RunTo(1000)
	assert.True(t, g.Z80BusAcked())

	g.ReleaseZ80Bus()
	g.RunTo(2000)
}

type fixedPulse struct {
	at   uint64
	used bool
}

func (f *fixedPulse) NextPulse(afterCycle uint64) (uint64, bool) {
	if f.used || f.at < afterCycle {
		return 0, false
	}
	f.used = true
	return f.at, true
}

func TestPulseSourceRaisesZ80Interrupt(t *testing.T) {
	g := newTestGenesis(t)
	// The Z80 waits in HALT at 0x0100 until the pulse, then halts again at
	// the IM 1 vector, so its PC stays observable after RunTo returns.
	zb := memmap.Z80Bus{Map: g.Mem}
	zb.Write(0x0100, 0x76)
	zb.Write(0x0038, 0x76)
	g.Z80.SetState(z80.Registers{PC: 0x0100, SP: 0xFFF0, IFF1: true, IFF2: true, IM: 1})
	g.SetPulseSource(&fixedPulse{at: 500}, 0xFF)
	g.RunTo(1000)
	assert.Equal(t, uint16(0x0038), g.Z80.Registers().PC)
}

func TestZ80ResetPropagation(t *testing.T) {
	g := newTestGenesis(t)
	g.AssertZ80Reset(100)
	g.ClearZ80Reset(200)
	assert.Equal(t, uint16(0), g.Z80.Registers().PC)
}
