package memory

import "github.com/nesvm/nesvm/internal/cartridge"

// PPUBus routes PPU reads/writes to pattern tables (via the mapper's CHR
// side), nametables (4 KiB VRAM, mirrored per the cartridge's mode), and
// palette RAM, per spec §4.2/§4.5.
type PPUBus struct {
	vram       [0x1000]uint8 // 4 KiB: enough to give FourScreen its own bank per quadrant
	paletteRAM [32]uint8
	cart       CartridgeInterface
	mirror     cartridge.Mirror
}

// NewPPUBus constructs a PPU bus over the given cartridge and mirroring
// mode. Palette RAM powers up zeroed, matching the smoke-test expectation
// that an untouched PPU renders palette index 0 until software writes to
// $3F00-$3F1F.
func NewPPUBus(cart CartridgeInterface, mirror cartridge.Mirror) *PPUBus {
	return &PPUBus{cart: cart, mirror: mirror}
}

// SetMirror updates the active mirroring mode, for mappers (MMC1) that
// can change it at runtime via a control register write.
func (b *PPUBus) SetMirror(mode cartridge.Mirror) { b.mirror = mode }

// PaletteRAM returns the 32 bytes of palette RAM, in PPU address order
// ($3F00-$3F1F), for the host-facing palette pointer.
func (b *PPUBus) PaletteRAM() [32]uint8 { return b.paletteRAM }

// Read reads a byte from PPU address space ($0000-$3FFF).
func (b *PPUBus) Read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return b.cart.ReadCHR(address)
	case address < 0x3000:
		return b.vram[Mirror(address, b.mirror)]
	case address < 0x3F00:
		return b.vram[Mirror(address-0x1000, b.mirror)]
	default:
		return b.readPalette(address)
	}
}

// Write writes a byte to PPU address space ($0000-$3FFF).
func (b *PPUBus) Write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.cart.WriteCHR(address, value)
	case address < 0x3000:
		b.vram[Mirror(address, b.mirror)] = value
	case address < 0x3F00:
		b.vram[Mirror(address-0x1000, b.mirror)] = value
	default:
		b.writePalette(address, value)
	}
}

func (b *PPUBus) paletteIndex(address uint16) uint16 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return index
}

func (b *PPUBus) readPalette(address uint16) uint8 {
	return b.paletteRAM[b.paletteIndex(address)]
}

func (b *PPUBus) writePalette(address uint16, value uint8) {
	b.paletteRAM[b.paletteIndex(address)] = value
}

// Mirror is the single pure function mapping a 12-bit nametable address
// (bits 0-11 of $2000-$2FFF) and a mirroring mode to an index into 4 KiB
// of nametable VRAM. It is total over all five modes and is the only
// place mirroring logic lives, called from both the read and write paths.
func Mirror(address uint16, mode cartridge.Mirror) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 0x03
	offset := address & 0x03FF

	switch mode {
	case cartridge.MirrorHorizontal:
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case cartridge.MirrorVertical:
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case cartridge.MirrorSingleLower:
		return offset

	case cartridge.MirrorSingleUpper:
		return 0x400 + offset

	case cartridge.MirrorFourScreen:
		return nametable*0x400 + offset

	default:
		return offset
	}
}
