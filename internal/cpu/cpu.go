// Package cpu implements a cycle-accounted 6502 interpreter: the full
// official instruction set plus the undocumented opcodes NES software
// relies on, driven by a 256-entry opcode table.
package cpu

// AddressingMode names how an instruction's operand address is computed.
type AddressingMode int

const (
	Implicit AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
)

const (
	stackBase = 0x0100

	nFlagMask = 0x80
	vFlagMask = 0x40
	uFlagMask = 0x20
	bFlagMask = 0x10
	dFlagMask = 0x08
	iFlagMask = 0x04
	zFlagMask = 0x02
	cFlagMask = 0x01

	zeroPageMask = 0x00FF
	pageMask     = 0xFF00

	resetVector = 0xFFFC
	nmiVector   = 0xFFFA
	irqVector   = 0xFFFE
)

// MemoryInterface is the bus a CPU executes against.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// instruction is one row of the opcode table: its addressing mode, base
// cycle count, and the handler that performs the operation. A handler
// returns the number of extra cycles it incurs beyond the base count
// (used by branches, which know their own page-cross penalty).
type instruction struct {
	name   string
	mode   AddressingMode
	cycles uint8
	exec   func(cpu *CPU, address uint16, pageCrossed bool) uint8
}

// CPU is a MOS 6502 as wired into the NES: no decimal mode, no hardware
// interrupt lines besides NMI/IRQ routed in via SetNMI/SetIRQ.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C, Z, I, D, B, V, N bool

	memory MemoryInterface
	cycles uint64

	nmiPending  bool
	nmiPrevious bool
	irqPending  bool
}

// New constructs a CPU wired to the given bus. Call Reset before Step.
func New(memory MemoryInterface) *CPU {
	return &CPU{memory: memory, SP: 0xFD}
}

// Reset performs the documented power-up/reset sequence: five dummy bus
// reads at the current PC, then the reset vector, for 7 cycles total.
func (cpu *CPU) Reset() {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = 0xFD
	cpu.C, cpu.Z, cpu.D, cpu.V, cpu.N = false, false, false, false, false
	cpu.I = true

	for i := 0; i < 5; i++ {
		cpu.memory.Read(cpu.PC)
	}
	low := uint16(cpu.memory.Read(resetVector))
	high := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = (high << 8) | low
	cpu.cycles = 7
}

// Cycles returns the running total of cycles executed since Reset.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Step services a pending interrupt if one is allowed, otherwise fetches,
// decodes, and executes one instruction. Returns the number of cycles
// consumed so the driver can advance the PPU 3x.
func (cpu *CPU) Step() uint64 {
	before := cpu.cycles

	if cpu.serviceInterrupt() {
		return cpu.cycles - before
	}

	opcode := cpu.memory.Read(cpu.PC)
	ins := &opcodeTable[opcode]

	address, pageCrossed := cpu.operandAddress(ins.mode)
	extra := ins.exec(cpu, address, pageCrossed)

	cpu.cycles += uint64(ins.cycles) + uint64(extra)
	return cpu.cycles - before
}

func (cpu *CPU) serviceInterrupt() bool {
	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.handleInterrupt(nmiVector, false)
		return true
	}
	if cpu.irqPending && !cpu.I {
		cpu.handleInterrupt(irqVector, false)
		return true
	}
	return false
}

// handleInterrupt pushes PC and status (B as given, U=1), sets I, and
// loads PC from vector. brk passes B=true; NMI/IRQ pass B=false.
func (cpu *CPU) handleInterrupt(vector uint16, brk bool) {
	cpu.pushWord(cpu.PC)
	status := cpu.statusByte()
	if brk {
		status |= bFlagMask
	} else {
		status &^= bFlagMask
	}
	status |= uFlagMask
	cpu.push(status)
	cpu.I = true
	low := uint16(cpu.memory.Read(vector))
	high := uint16(cpu.memory.Read(vector + 1))
	cpu.PC = (high << 8) | low
	cpu.cycles += 7
}

// SetNMI latches a pending NMI on the rising edge of state, matching the
// PPU asserting its NMI output at VBlank entry (scanline 241 dot 1); the
// interrupt is serviced at the start of the next CPU step, while the line
// stays high until the PPU deasserts it at pre-render.
func (cpu *CPU) SetNMI(state bool) {
	if !cpu.nmiPrevious && state {
		cpu.nmiPending = true
	}
	cpu.nmiPrevious = state
}

// SetIRQ sets the level-triggered IRQ line.
func (cpu *CPU) SetIRQ(state bool) { cpu.irqPending = state }

// operandAddress computes the effective address for mode, advances PC
// past the instruction's operand bytes, and reports whether an indexed
// computation crossed a page boundary.
func (cpu *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implicit, Accumulator:
		cpu.PC++
		return 0, false

	case Immediate:
		address := cpu.PC + 1
		cpu.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		return address, false

	case ZeroPageX:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.PC += 2
		return uint16((base + cpu.X) & zeroPageMask), false

	case ZeroPageY:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.PC += 2
		return uint16((base + cpu.Y) & zeroPageMask), false

	case Relative:
		offset := int8(cpu.memory.Read(cpu.PC + 1))
		oldPC := cpu.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		cpu.PC = oldPC
		return newPC, (oldPC & pageMask) != (newPC & pageMask)

	case Absolute:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		cpu.PC += 3
		return (high << 8) | low, false

	case AbsoluteX:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		base := (high << 8) | low
		address := base + uint16(cpu.X)
		cpu.PC += 3
		return address, (base & pageMask) != (address & pageMask)

	case AbsoluteY:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		base := (high << 8) | low
		address := base + uint16(cpu.Y)
		cpu.PC += 3
		return address, (base & pageMask) != (address & pageMask)

	case Indirect: // JMP only; reproduces the page-wrap bug
		lowPtr := uint16(cpu.memory.Read(cpu.PC + 1))
		highPtr := uint16(cpu.memory.Read(cpu.PC + 2))
		ptr := (highPtr << 8) | lowPtr
		cpu.PC += 3

		var low, high uint16
		if ptr&zeroPageMask == zeroPageMask {
			low = uint16(cpu.memory.Read(ptr))
			high = uint16(cpu.memory.Read(ptr & pageMask))
		} else {
			low = uint16(cpu.memory.Read(ptr))
			high = uint16(cpu.memory.Read(ptr + 1))
		}
		return (high << 8) | low, false

	case IndirectX:
		base := cpu.memory.Read(cpu.PC + 1)
		ptr := (base + cpu.X) & zeroPageMask
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16((ptr + 1) & zeroPageMask)))
		cpu.PC += 2
		return (high << 8) | low, false

	case IndirectY:
		ptr := uint16(cpu.memory.Read(cpu.PC + 1))
		low := uint16(cpu.memory.Read(ptr))
		high := uint16(cpu.memory.Read((ptr + 1) & zeroPageMask))
		base := (high << 8) | low
		address := base + uint16(cpu.Y)
		cpu.PC += 2
		return address, (base & pageMask) != (address & pageMask)

	default:
		return 0, false
	}
}

func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return (high << 8) | low
}

func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

func (cpu *CPU) statusByte() uint8 {
	var s uint8
	if cpu.N {
		s |= nFlagMask
	}
	if cpu.V {
		s |= vFlagMask
	}
	s |= uFlagMask
	if cpu.B {
		s |= bFlagMask
	}
	if cpu.D {
		s |= dFlagMask
	}
	if cpu.I {
		s |= iFlagMask
	}
	if cpu.Z {
		s |= zFlagMask
	}
	if cpu.C {
		s |= cFlagMask
	}
	return s
}

func (cpu *CPU) setStatusByte(status uint8) {
	cpu.N = status&nFlagMask != 0
	cpu.V = status&vFlagMask != 0
	cpu.B = status&bFlagMask != 0
	cpu.D = status&dFlagMask != 0
	cpu.I = status&iFlagMask != 0
	cpu.Z = status&zFlagMask != 0
	cpu.C = status&cFlagMask != 0
}
