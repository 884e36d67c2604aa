// Package memory implements the NES CPU and PPU memory buses: address
// decoding, RAM mirroring, and the nametable/palette mirroring rules that
// sit between the PPU and its cartridge.
package memory

// PPUInterface is the CPU-bus-facing view of the PPU: register reads and
// writes, mirrored every 8 bytes across 0x2000-0x3FFF.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface is the CPU-bus-facing view of the APU register stub.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface is the CPU-bus-facing view of the controller ports.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the mapper contract both buses address through.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// CPUBus routes CPU reads/writes to internal RAM, PPU registers, the APU
// stub, the controller ports, the OAM-DMA trigger, and the mapper's PRG
// window, per spec §4.3.
type CPUBus struct {
	ram [0x800]uint8

	ppu   PPUInterface
	apu   APUInterface
	input InputInterface
	cart  CartridgeInterface

	dmaCallback func(uint8)
}

// NewCPUBus wires a CPU bus to its PPU, APU, and cartridge. Input and the
// DMA callback are optional and may be attached afterward.
func NewCPUBus(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *CPUBus {
	return &CPUBus{ppu: ppu, apu: apu, cart: cart}
}

// SetInput attaches the controller ports.
func (b *CPUBus) SetInput(input InputInterface) { b.input = input }

// SetDMACallback registers the function invoked when the CPU writes to
// 0x4014. If none is set, OAM DMA executes immediately as a plain bus copy.
func (b *CPUBus) SetDMACallback(callback func(uint8)) { b.dmaCallback = callback }

// Read reads a byte from CPU address space.
func (b *CPUBus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&0x07FF]

	case address < 0x4000:
		return b.ppu.ReadRegister(0x2000 + (address & 0x0007))

	case address == 0x4015:
		return b.apu.ReadStatus()

	case address == 0x4016 || address == 0x4017:
		if b.input == nil {
			return 0
		}
		return b.input.Read(address)

	case address < 0x4020:
		return 0 // write-only APU registers: open bus reads as zero

	default:
		return b.cart.ReadPRG(address)
	}
}

// Write writes a byte to CPU address space.
func (b *CPUBus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value

	case address < 0x4000:
		b.ppu.WriteRegister(0x2000+(address&0x0007), value)

	case address == 0x4014:
		if b.dmaCallback != nil {
			b.dmaCallback(value)
		} else {
			b.performOAMDMA(value)
		}

	case address == 0x4016:
		if b.input != nil {
			b.input.Write(address, value)
		}

	case address == 0x4017:
		b.apu.WriteRegister(address, value) // frame-counter write, no effect on input

	case address < 0x4020:
		b.apu.WriteRegister(address, value)

	default:
		b.cart.WritePRG(address, value)
	}
}

// performOAMDMA copies 256 bytes from 0xHH00 into OAM as a plain sequence
// of bus reads, matching the Open Question resolution: DMA has no
// side-effecting-address special case, it is an ordinary read loop.
func (b *CPUBus) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		value := b.Read(base + i)
		b.ppu.WriteRegister(0x2004, value)
	}
}
