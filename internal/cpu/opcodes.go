package cpu

// opcodeTable is the 256-entry decode table keyed by the instruction's
// first byte: addressing mode, base cycle count, and handler. Unassigned
// slots fall back to a two-cycle implied NOP rather than panicking, since the
// undocumented set must be recognized without crashing even where two
// different illegal opcodes happen to alias the same behavior.

var asl_acc = makeASL(true)
var asl_mem = makeASL(false)
var lsr_acc = makeLSR(true)
var lsr_mem = makeLSR(false)
var rol_acc = makeROL(true)
var rol_mem = makeROL(false)
var ror_acc = makeROR(true)
var ror_mem = makeROR(false)

var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]instruction {
	var t [256]instruction
	for i := range t {
		t[i] = instruction{name: "NOP", mode: Implicit, cycles: 2, exec: nop}
	}

	set := func(op uint8, name string, mode AddressingMode, cycles uint8, exec func(*CPU, uint16, bool) uint8) {
		t[op] = instruction{name: name, mode: mode, cycles: cycles, exec: exec}
	}

	// LDA/LDX/LDY
	set(0xA9, "LDA", Immediate, 2, lda)
	set(0xA5, "LDA", ZeroPage, 3, lda)
	set(0xB5, "LDA", ZeroPageX, 4, lda)
	set(0xAD, "LDA", Absolute, 4, lda)
	set(0xBD, "LDA", AbsoluteX, 4, lda)
	set(0xB9, "LDA", AbsoluteY, 4, lda)
	set(0xA1, "LDA", IndirectX, 6, lda)
	set(0xB1, "LDA", IndirectY, 5, lda)

	set(0xA2, "LDX", Immediate, 2, ldx)
	set(0xA6, "LDX", ZeroPage, 3, ldx)
	set(0xB6, "LDX", ZeroPageY, 4, ldx)
	set(0xAE, "LDX", Absolute, 4, ldx)
	set(0xBE, "LDX", AbsoluteY, 4, ldx)

	set(0xA0, "LDY", Immediate, 2, ldy)
	set(0xA4, "LDY", ZeroPage, 3, ldy)
	set(0xB4, "LDY", ZeroPageX, 4, ldy)
	set(0xAC, "LDY", Absolute, 4, ldy)
	set(0xBC, "LDY", AbsoluteX, 4, ldy)

	set(0x85, "STA", ZeroPage, 3, sta)
	set(0x95, "STA", ZeroPageX, 4, sta)
	set(0x8D, "STA", Absolute, 4, sta)
	set(0x9D, "STA", AbsoluteX, 5, sta)
	set(0x99, "STA", AbsoluteY, 5, sta)
	set(0x81, "STA", IndirectX, 6, sta)
	set(0x91, "STA", IndirectY, 6, sta)

	set(0x86, "STX", ZeroPage, 3, stx)
	set(0x96, "STX", ZeroPageY, 4, stx)
	set(0x8E, "STX", Absolute, 4, stx)

	set(0x84, "STY", ZeroPage, 3, sty)
	set(0x94, "STY", ZeroPageX, 4, sty)
	set(0x8C, "STY", Absolute, 4, sty)

	// Arithmetic
	set(0x69, "ADC", Immediate, 2, adc)
	set(0x65, "ADC", ZeroPage, 3, adc)
	set(0x75, "ADC", ZeroPageX, 4, adc)
	set(0x6D, "ADC", Absolute, 4, adc)
	set(0x7D, "ADC", AbsoluteX, 4, adc)
	set(0x79, "ADC", AbsoluteY, 4, adc)
	set(0x61, "ADC", IndirectX, 6, adc)
	set(0x71, "ADC", IndirectY, 5, adc)

	set(0xE9, "SBC", Immediate, 2, sbc)
	set(0xE5, "SBC", ZeroPage, 3, sbc)
	set(0xF5, "SBC", ZeroPageX, 4, sbc)
	set(0xED, "SBC", Absolute, 4, sbc)
	set(0xFD, "SBC", AbsoluteX, 4, sbc)
	set(0xF9, "SBC", AbsoluteY, 4, sbc)
	set(0xE1, "SBC", IndirectX, 6, sbc)
	set(0xF1, "SBC", IndirectY, 5, sbc)
	set(0xEB, "SBC", Immediate, 2, sbc) // undocumented duplicate

	// Logical
	set(0x29, "AND", Immediate, 2, and)
	set(0x25, "AND", ZeroPage, 3, and)
	set(0x35, "AND", ZeroPageX, 4, and)
	set(0x2D, "AND", Absolute, 4, and)
	set(0x3D, "AND", AbsoluteX, 4, and)
	set(0x39, "AND", AbsoluteY, 4, and)
	set(0x21, "AND", IndirectX, 6, and)
	set(0x31, "AND", IndirectY, 5, and)

	set(0x09, "ORA", Immediate, 2, ora)
	set(0x05, "ORA", ZeroPage, 3, ora)
	set(0x15, "ORA", ZeroPageX, 4, ora)
	set(0x0D, "ORA", Absolute, 4, ora)
	set(0x1D, "ORA", AbsoluteX, 4, ora)
	set(0x19, "ORA", AbsoluteY, 4, ora)
	set(0x01, "ORA", IndirectX, 6, ora)
	set(0x11, "ORA", IndirectY, 5, ora)

	set(0x49, "EOR", Immediate, 2, eor)
	set(0x45, "EOR", ZeroPage, 3, eor)
	set(0x55, "EOR", ZeroPageX, 4, eor)
	set(0x4D, "EOR", Absolute, 4, eor)
	set(0x5D, "EOR", AbsoluteX, 4, eor)
	set(0x59, "EOR", AbsoluteY, 4, eor)
	set(0x41, "EOR", IndirectX, 6, eor)
	set(0x51, "EOR", IndirectY, 5, eor)

	// Shifts/rotates
	set(0x0A, "ASL", Accumulator, 2, asl_acc)
	set(0x06, "ASL", ZeroPage, 5, asl_mem)
	set(0x16, "ASL", ZeroPageX, 6, asl_mem)
	set(0x0E, "ASL", Absolute, 6, asl_mem)
	set(0x1E, "ASL", AbsoluteX, 7, asl_mem)

	set(0x4A, "LSR", Accumulator, 2, lsr_acc)
	set(0x46, "LSR", ZeroPage, 5, lsr_mem)
	set(0x56, "LSR", ZeroPageX, 6, lsr_mem)
	set(0x4E, "LSR", Absolute, 6, lsr_mem)
	set(0x5E, "LSR", AbsoluteX, 7, lsr_mem)

	set(0x2A, "ROL", Accumulator, 2, rol_acc)
	set(0x26, "ROL", ZeroPage, 5, rol_mem)
	set(0x36, "ROL", ZeroPageX, 6, rol_mem)
	set(0x2E, "ROL", Absolute, 6, rol_mem)
	set(0x3E, "ROL", AbsoluteX, 7, rol_mem)

	set(0x6A, "ROR", Accumulator, 2, ror_acc)
	set(0x66, "ROR", ZeroPage, 5, ror_mem)
	set(0x76, "ROR", ZeroPageX, 6, ror_mem)
	set(0x6E, "ROR", Absolute, 6, ror_mem)
	set(0x7E, "ROR", AbsoluteX, 7, ror_mem)

	// Compares
	set(0xC9, "CMP", Immediate, 2, cmp)
	set(0xC5, "CMP", ZeroPage, 3, cmp)
	set(0xD5, "CMP", ZeroPageX, 4, cmp)
	set(0xCD, "CMP", Absolute, 4, cmp)
	set(0xDD, "CMP", AbsoluteX, 4, cmp)
	set(0xD9, "CMP", AbsoluteY, 4, cmp)
	set(0xC1, "CMP", IndirectX, 6, cmp)
	set(0xD1, "CMP", IndirectY, 5, cmp)

	set(0xE0, "CPX", Immediate, 2, cpx)
	set(0xE4, "CPX", ZeroPage, 3, cpx)
	set(0xEC, "CPX", Absolute, 4, cpx)

	set(0xC0, "CPY", Immediate, 2, cpy)
	set(0xC4, "CPY", ZeroPage, 3, cpy)
	set(0xCC, "CPY", Absolute, 4, cpy)

	// Inc/dec
	set(0xE6, "INC", ZeroPage, 5, inc)
	set(0xF6, "INC", ZeroPageX, 6, inc)
	set(0xEE, "INC", Absolute, 6, inc)
	set(0xFE, "INC", AbsoluteX, 7, inc)

	set(0xC6, "DEC", ZeroPage, 5, dec)
	set(0xD6, "DEC", ZeroPageX, 6, dec)
	set(0xCE, "DEC", Absolute, 6, dec)
	set(0xDE, "DEC", AbsoluteX, 7, dec)

	set(0xE8, "INX", Implicit, 2, inx)
	set(0xCA, "DEX", Implicit, 2, dex)
	set(0xC8, "INY", Implicit, 2, iny)
	set(0x88, "DEY", Implicit, 2, dey)

	// Transfers
	set(0xAA, "TAX", Implicit, 2, tax)
	set(0x8A, "TXA", Implicit, 2, txa)
	set(0xA8, "TAY", Implicit, 2, tay)
	set(0x98, "TYA", Implicit, 2, tya)
	set(0xBA, "TSX", Implicit, 2, tsx)
	set(0x9A, "TXS", Implicit, 2, txs)

	// Stack
	set(0x48, "PHA", Implicit, 3, pha)
	set(0x68, "PLA", Implicit, 4, pla)
	set(0x08, "PHP", Implicit, 3, php)
	set(0x28, "PLP", Implicit, 4, plp)

	// Flags
	set(0x18, "CLC", Implicit, 2, clc)
	set(0x38, "SEC", Implicit, 2, sec)
	set(0x58, "CLI", Implicit, 2, cli)
	set(0x78, "SEI", Implicit, 2, sei)
	set(0xB8, "CLV", Implicit, 2, clv)
	set(0xD8, "CLD", Implicit, 2, cld)
	set(0xF8, "SED", Implicit, 2, sed)

	// Control flow
	set(0x4C, "JMP", Absolute, 3, jmp)
	set(0x6C, "JMP", Indirect, 5, jmp)
	set(0x20, "JSR", Absolute, 6, jsr)
	set(0x60, "RTS", Implicit, 6, rts)
	set(0x40, "RTI", Implicit, 6, rti)

	// Branches
	set(0x90, "BCC", Relative, 2, bcc)
	set(0xB0, "BCS", Relative, 2, bcs)
	set(0xD0, "BNE", Relative, 2, bne)
	set(0xF0, "BEQ", Relative, 2, beq)
	set(0x10, "BPL", Relative, 2, bpl)
	set(0x30, "BMI", Relative, 2, bmi)
	set(0x50, "BVC", Relative, 2, bvc)
	set(0x70, "BVS", Relative, 2, bvs)

	// Misc
	set(0x24, "BIT", ZeroPage, 3, bit)
	set(0x2C, "BIT", Absolute, 4, bit)
	set(0xEA, "NOP", Implicit, 2, nop)
	set(0x00, "BRK", Implicit, 7, brk)

	// Undocumented NOPs: recognized, consume their operand bytes, no effect.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", Implicit, 2, nop)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", Immediate, 2, nop)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", ZeroPage, 3, nop)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", ZeroPageX, 4, nop)
	}
	set(0x0C, "NOP", Absolute, 4, nop)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", AbsoluteX, 4, nop)
	}

	// Undocumented opcodes.
	set(0xA7, "LAX", ZeroPage, 3, lax)
	set(0xB7, "LAX", ZeroPageY, 4, lax)
	set(0xAF, "LAX", Absolute, 4, lax)
	set(0xBF, "LAX", AbsoluteY, 4, lax)
	set(0xA3, "LAX", IndirectX, 6, lax)
	set(0xB3, "LAX", IndirectY, 5, lax)

	set(0x87, "SAX", ZeroPage, 3, sax)
	set(0x97, "SAX", ZeroPageY, 4, sax)
	set(0x8F, "SAX", Absolute, 4, sax)
	set(0x83, "SAX", IndirectX, 6, sax)

	set(0xC7, "DCP", ZeroPage, 5, dcp)
	set(0xD7, "DCP", ZeroPageX, 6, dcp)
	set(0xCF, "DCP", Absolute, 6, dcp)
	set(0xDF, "DCP", AbsoluteX, 7, dcp)
	set(0xDB, "DCP", AbsoluteY, 7, dcp)
	set(0xC3, "DCP", IndirectX, 8, dcp)
	set(0xD3, "DCP", IndirectY, 8, dcp)

	set(0xE7, "ISB", ZeroPage, 5, isb)
	set(0xF7, "ISB", ZeroPageX, 6, isb)
	set(0xEF, "ISB", Absolute, 6, isb)
	set(0xFF, "ISB", AbsoluteX, 7, isb)
	set(0xFB, "ISB", AbsoluteY, 7, isb)
	set(0xE3, "ISB", IndirectX, 8, isb)
	set(0xF3, "ISB", IndirectY, 8, isb)

	set(0x07, "SLO", ZeroPage, 5, slo)
	set(0x17, "SLO", ZeroPageX, 6, slo)
	set(0x0F, "SLO", Absolute, 6, slo)
	set(0x1F, "SLO", AbsoluteX, 7, slo)
	set(0x1B, "SLO", AbsoluteY, 7, slo)
	set(0x03, "SLO", IndirectX, 8, slo)
	set(0x13, "SLO", IndirectY, 8, slo)

	set(0x27, "RLA", ZeroPage, 5, rla)
	set(0x37, "RLA", ZeroPageX, 6, rla)
	set(0x2F, "RLA", Absolute, 6, rla)
	set(0x3F, "RLA", AbsoluteX, 7, rla)
	set(0x3B, "RLA", AbsoluteY, 7, rla)
	set(0x23, "RLA", IndirectX, 8, rla)
	set(0x33, "RLA", IndirectY, 8, rla)

	set(0x47, "SRE", ZeroPage, 5, sre)
	set(0x57, "SRE", ZeroPageX, 6, sre)
	set(0x4F, "SRE", Absolute, 6, sre)
	set(0x5F, "SRE", AbsoluteX, 7, sre)
	set(0x5B, "SRE", AbsoluteY, 7, sre)
	set(0x43, "SRE", IndirectX, 8, sre)
	set(0x53, "SRE", IndirectY, 8, sre)

	set(0x67, "RRA", ZeroPage, 5, rra)
	set(0x77, "RRA", ZeroPageX, 6, rra)
	set(0x6F, "RRA", Absolute, 6, rra)
	set(0x7F, "RRA", AbsoluteX, 7, rra)
	set(0x7B, "RRA", AbsoluteY, 7, rra)
	set(0x63, "RRA", IndirectX, 8, rra)
	set(0x73, "RRA", IndirectY, 8, rra)

	set(0x0B, "ANC", Immediate, 2, anc)
	set(0x2B, "ANC", Immediate, 2, anc)
	set(0x4B, "ALR", Immediate, 2, alr)
	set(0x6B, "ARR", Immediate, 2, arr)
	set(0xCB, "SBX", Immediate, 2, sbx)

	return addPageCrossPenalties(t)
}

// addPageCrossPenalties wraps the indexed-addressing read handlers so a
// page boundary crossed while computing the address costs one extra
// cycle, per spec §4.4 ("modes that cross a page boundary ... add one
// cycle to reads, except ST* and RMW variants"). Branch penalties are
// handled by the branch handlers themselves since they also depend on
// whether the branch is taken.
func addPageCrossPenalties(t [256]instruction) [256]instruction {
	penalized := map[uint8]bool{
		// Official read instructions in a page-crossable indexed mode.
		0xBD: true, 0xB9: true, 0xB1: true, 0xBE: true, 0xBC: true,
		0x7D: true, 0x79: true, 0x71: true,
		0x3D: true, 0x39: true, 0x31: true,
		0x1D: true, 0x19: true, 0x11: true,
		0x5D: true, 0x59: true, 0x51: true,
		0xDD: true, 0xD9: true, 0xD1: true,
		0xFD: true, 0xF9: true, 0xF1: true,
		// Undocumented NOP reads in AbsoluteX.
		0x1C: true, 0x3C: true, 0x5C: true, 0x7C: true, 0xDC: true, 0xFC: true,
		// Undocumented read instruction, AbsoluteY/IndirectY variants.
		0xBF: true, 0xB3: true,
	}
	for op := range t {
		if !penalized[uint8(op)] {
			continue
		}
		inner := t[op].exec
		t[op].exec = func(cpu *CPU, address uint16, pageCrossed bool) uint8 {
			extra := inner(cpu, address, pageCrossed)
			if pageCrossed {
				extra++
			}
			return extra
		}
	}
	return t
}
