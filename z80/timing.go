package z80

// Five cycle tables hold the base T-state cost of each opcode. They are
// package-level (not per-instance) because, unlike the 68k's per-variant
// tables, every Z80 shares one timing model; RunTo still treats them as
// swappable data rather than inlining constants, so a host emulating a
// non-standard part (e.g. a Z80 with wait-state injection) can patch a
// table in place before use.
//
// ccEx carries the *additional* cost charged only when a conditional
// branch is taken or a block-repeat instruction loops again; ccOp and
// ccED already hold the not-taken/single-iteration cost.
var (
	ccOp   [256]uint8
	ccCB   [256]uint8
	ccED   [256]uint8
	ccXYCB [256]uint8
	ccEx   [256]uint8
)

// ccOpRow holds the standard (unprefixed) NMOS Z80 instruction timing,
// 16 opcodes per row starting at 0x00.
var ccOpRows = [16][16]uint8{
	{4, 10, 7, 6, 4, 4, 7, 4, 4, 11, 7, 6, 4, 4, 7, 4},
	{8, 10, 7, 6, 4, 4, 7, 4, 12, 11, 7, 6, 4, 4, 7, 4},
	{7, 10, 16, 6, 4, 4, 7, 4, 7, 11, 16, 6, 4, 4, 7, 4},
	{7, 10, 13, 6, 11, 11, 10, 4, 7, 11, 13, 6, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{7, 7, 7, 7, 7, 7, 4, 7, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4},
	{5, 10, 10, 10, 10, 11, 7, 11, 5, 10, 10, 0, 10, 17, 7, 11},
	{5, 10, 10, 11, 10, 11, 7, 11, 5, 4, 10, 11, 10, 0, 7, 11},
	{5, 10, 10, 19, 10, 11, 7, 11, 5, 4, 10, 4, 10, 0, 7, 11},
	{5, 10, 10, 4, 10, 11, 7, 11, 5, 6, 10, 4, 10, 0, 7, 11},
}

// ccExRows is all zero; the extra taken-branch and block-repeat costs
// (JR cc/DJNZ, conditional CALL and RET, the repeating block opcodes) are
// written into ccEx by init below.
var ccExRows = [16][16]uint8{
	{}, {}, {}, {},
	{}, {}, {}, {},
	{}, {}, {}, {},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

func init() {
	for row := 0; row < 16; row++ {
		for col := 0; col < 16; col++ {
			ccOp[row<<4|col] = ccOpRows[row][col]
			ccEx[row<<4|col] = ccExRows[row][col]
		}
	}

	// JR cc,d / DJNZ d: base cost above is the not-taken cost; taken adds 5.
	ccEx[0x10] = 5 // DJNZ
	ccEx[0x18] = 0 // JR is unconditional, no separate taken/not-taken split
	ccEx[0x20] = 5
	ccEx[0x28] = 5
	ccEx[0x30] = 5
	ccEx[0x38] = 5

	// Conditional CALL cc,nn: not-taken 10, taken 17 (+7).
	for _, op := range []uint8{0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC} {
		ccOp[op] = 10
		ccEx[op] = 7
	}
	ccOp[0xCD] = 17 // unconditional CALL

	// Conditional RET cc: not-taken 5, taken 11 (+6).
	for _, op := range []uint8{0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8} {
		ccOp[op] = 5
		ccEx[op] = 6
	}

	for i := range ccCB {
		ccCB[i] = 8
	}
	for x := uint8(0); x < 8; x++ {
		ccCB[0x00|x<<3|6] = 15 // rotate/shift (HL)
		ccCB[0x80|x<<3|6] = 15 // RES n,(HL)
		ccCB[0xC0|x<<3|6] = 15 // SET n,(HL)
	}
	for n := uint8(0); n < 8; n++ {
		ccCB[0x40|n<<3|6] = 12 // BIT n,(HL)
	}

	for i := range ccED {
		ccED[i] = 8 // undefined ED dd behaves as a 2-byte NOP
	}
	for _, op := range []uint8{0x47, 0x4F, 0x57, 0x5F} { // LD I,A / LD R,A / LD A,I / LD A,R
		ccED[op] = 9
	}
	for _, op := range []uint8{0x42, 0x4A, 0x52, 0x5A, 0x62, 0x6A, 0x72, 0x7A} { // ADC/SBC HL,rp
		ccED[op] = 15
	}
	for _, op := range []uint8{0x43, 0x4B, 0x53, 0x5B, 0x63, 0x6B, 0x73, 0x7B} { // LD (nn),rp / LD rp,(nn)
		ccED[op] = 20
	}
	for _, op := range []uint8{0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C} { // NEG
		ccED[op] = 8
	}
	for _, op := range []uint8{0x45, 0x4D, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D} { // RETN/RETI
		ccED[op] = 14
	}
	for _, op := range []uint8{0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x76, 0x7E} { // IM 0/1/2
		ccED[op] = 8
	}
	for _, op := range []uint8{0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x70, 0x78} { // IN r,(C)
		ccED[op] = 12
	}
	for _, op := range []uint8{0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x71, 0x79} { // OUT (C),r
		ccED[op] = 12
	}
	ccED[0x67], ccED[0x6F] = 18, 18 // RRD/RLD
	for _, op := range []uint8{0xA0, 0xA1, 0xA2, 0xA3, 0xA8, 0xA9, 0xAA, 0xAB} { // LDI/CPI/INI/OUTI and D-forms
		ccED[op] = 16
	}
	for _, op := range []uint8{0xB0, 0xB1, 0xB2, 0xB3, 0xB8, 0xB9, 0xBA, 0xBB} { // LDIR/CPIR/INIR/OTIR and D-forms
		ccED[op] = 16
		ccEx[op] = 5 // charged again when BC/B makes the block repeat
	}

	for i := range ccXYCB {
		ccXYCB[i] = 23
	}
}
