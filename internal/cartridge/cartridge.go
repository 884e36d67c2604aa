// Package cartridge implements iNES ROM loading and cartridge mapper hardware.
package cartridge

import (
	"errors"
)

// Errors returned by Load. All other malformed-input conditions resolve
// to defined default behavior rather than an error (see the mapper_*.go
// implementations).
var (
	ErrInvalidHeader     = errors.New("cartridge: invalid iNES header")
	ErrNes2Unsupported   = errors.New("cartridge: NES 2.0 headers are not supported")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper id")
)

// Mirror is the nametable mirroring mode selected by the cartridge.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleLower
	MirrorSingleUpper
	MirrorFourScreen
)

var inesMagic = [4]byte{0x4E, 0x45, 0x53, 0x1A}

// Cartridge is the immutable ROM image plus the mutable mapper state that
// arbitrates access to it. It implements both the CPU-facing and PPU-facing
// sides of the mapper contract described in spec §4.2.
type Cartridge struct {
	prgROM []byte
	chrROM []byte
	chrRAM []byte // used instead of chrROM when the cartridge has no CHR-ROM
	hasChrRAM bool

	prgRAM [0x2000]byte

	mapperID uint8
	mirror   Mirror

	mapper Mapper
}

// Mapper translates CPU and PPU addresses into cartridge storage offsets
// and owns whatever banking state the cartridge hardware needs. Every
// mapper also reports the current nametable mirroring, since on MMC1 it
// can change at runtime.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirror() Mirror
}

// Load parses an iNES 1.0 image per spec §4.1 and constructs the mapper
// selected by the header.
func Load(data []byte) (*Cartridge, error) {
	if len(data) < 16 {
		return nil, ErrInvalidHeader
	}
	var magic [4]byte
	copy(magic[:], data[:4])
	if magic != inesMagic {
		return nil, ErrInvalidHeader
	}

	flags6 := data[6]
	flags7 := data[7]

	if flags7&0x0C == 0x08 {
		return nil, ErrNes2Unsupported
	}

	prgBanks := int(data[4])
	chrBanks := int(data[5])
	if prgBanks == 0 {
		return nil, ErrInvalidHeader
	}

	mapperID := (flags7 & 0xF0) | (flags6 >> 4)
	if mapperID != 0 && mapperID != 1 && mapperID != 3 {
		return nil, ErrUnsupportedMapper
	}

	var mirror Mirror
	switch {
	case flags6&0x08 != 0:
		mirror = MirrorFourScreen
	case flags6&0x01 != 0:
		mirror = MirrorVertical
	default:
		mirror = MirrorHorizontal
	}

	offset := 16
	if flags6&0x04 != 0 {
		offset += 512 // trainer
	}

	prgSize := prgBanks * 16384
	if offset+prgSize > len(data) {
		return nil, ErrInvalidHeader
	}
	prgROM := make([]byte, prgSize)
	copy(prgROM, data[offset:offset+prgSize])
	offset += prgSize

	chrSize := chrBanks * 8192
	var chrROM, chrRAM []byte
	hasChrRAM := chrSize == 0
	if hasChrRAM {
		chrRAM = make([]byte, 8192)
	} else {
		if offset+chrSize > len(data) {
			chrSize = len(data) - offset
		}
		chrROM = make([]byte, chrBanks*8192)
		copy(chrROM, data[offset:offset+chrSize])
	}

	cart := &Cartridge{
		prgROM:    prgROM,
		chrROM:    chrROM,
		chrRAM:    chrRAM,
		hasChrRAM: hasChrRAM,
		mapperID:  mapperID,
		mirror:    mirror,
	}
	cart.mapper = newMapper(mapperID, cart)
	return cart, nil
}

func newMapper(id uint8, cart *Cartridge) Mapper {
	switch id {
	case 0:
		return newNROM(cart)
	case 1:
		return newMMC1(cart)
	case 3:
		return newCNROM(cart)
	default:
		return newNROM(cart)
	}
}

// chr returns the backing CHR store, ROM or RAM, whichever the cartridge has.
func (c *Cartridge) chr() []byte {
	if c.hasChrRAM {
		return c.chrRAM
	}
	return c.chrROM
}

// ReadPRG implements the CPU-facing side of the mapper contract.
func (c *Cartridge) ReadPRG(addr uint16) uint8 { return c.mapper.ReadPRG(addr) }

// WritePRG implements the CPU-facing side of the mapper contract.
func (c *Cartridge) WritePRG(addr uint16, value uint8) { c.mapper.WritePRG(addr, value) }

// ReadCHR implements the PPU-facing side of the mapper contract.
func (c *Cartridge) ReadCHR(addr uint16) uint8 { return c.mapper.ReadCHR(addr) }

// WriteCHR implements the PPU-facing side of the mapper contract.
func (c *Cartridge) WriteCHR(addr uint16, value uint8) { c.mapper.WriteCHR(addr, value) }

// Mirror returns the cartridge's current nametable mirroring mode.
func (c *Cartridge) Mirror() Mirror { return c.mapper.Mirror() }
