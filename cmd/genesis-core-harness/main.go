// Command genesis-core-harness loads a flat ROM image, wires a 68k and a
// Z80 core against a shared memory map, and runs both to a cycle
// deadline. It exists to exercise the CPU tier end to end as a real
// binary; it is not a Genesis emulator front end (no VDP, audio, or
// input handling).
package main

import (
	"flag"
	"log"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/user-none/go-chip-genesis/m68k"
	"github.com/user-none/go-chip-genesis/memmap"
	"github.com/user-none/go-chip-genesis/system"
)

const (
	romWindow = 0x400000 // 68k cartridge ROM window
	ramSize   = 0x10000  // 68k work RAM
	z80RAM    = 0x2000   // Z80 program RAM
)

func main() {
	romPath := flag.String("rom", "", "path to a flat Genesis ROM image")
	cycles := flag.Uint64("cycles", 1_000_000, "master-clock cycles to run")
	snapshotOut := flag.String("snapshot", "", "write a compressed save state to this path after running")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("genesis-core-harness: -rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("genesis-core-harness: reading rom: %v", err)
	}
	if len(rom) > romWindow {
		rom = rom[:romWindow]
	}

	mem := buildMap(rom)

	g, err := system.New(system.Config{Mem: mem, Variant: m68k.Variant68000})
	if err != nil {
		log.Fatalf("genesis-core-harness: %v", err)
	}

	g.M68K.Reset()
	g.RunTo(*cycles)
	log.Printf("genesis-core-harness: ran to cycle %d (68k cycles=%d)", g.Cycle(), g.M68K.Cycles())

	if *snapshotOut != "" {
		if err := writeSnapshot(*snapshotOut, g); err != nil {
			log.Fatalf("genesis-core-harness: snapshot: %v", err)
		}
	}
}

func buildMap(rom []byte) *memmap.Map {
	mem := memmap.NewMap()

	romBuf := make([]byte, romWindow)
	copy(romBuf, rom)
	mem.AddChunk(&memmap.Chunk{
		Start: 0x000000, End: romWindow - 1,
		Flags:  memmap.FlagRead | memmap.FlagCode,
		Buffer: romBuf,
	})

	ram := make([]byte, ramSize)
	mem.AddChunk(&memmap.Chunk{
		Start: 0xFF0000, End: 0xFF0000 + ramSize - 1,
		Flags:  memmap.FlagRead | memmap.FlagWrite,
		Buffer: ram,
	})

	z80ram := make([]byte, z80RAM)
	mem.AddChunk(&memmap.Chunk{
		Start: 0xA00000, End: 0xA00000 + z80RAM - 1,
		Flags:  memmap.FlagRead | memmap.FlagWrite,
		Buffer: z80ram,
	})

	mem.Build()
	return mem
}

// writeSnapshot serializes both CPU cores and zstd-compresses the result;
// the memory map itself is not captured here since the harness treats ROM
// as read-only and RAM as reproducible from a fresh run for this
// exercise, not as a full save-state format.
func writeSnapshot(path string, g *system.Genesis) error {
	m68kBuf := make([]byte, g.M68K.SerializeSize())
	if err := g.M68K.Serialize(m68kBuf); err != nil {
		return err
	}
	z80Buf := make([]byte, g.Z80.SerializeSize())
	if err := g.Z80.Serialize(z80Buf); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := w.Write(m68kBuf); err != nil {
		return err
	}
	_, err = w.Write(z80Buf)
	return err
}
