// Package ppu implements the 2C02 picture processing unit: register
// read/write semantics, the per-dot scanline state machine, and
// background/sprite compositing into an RGBA frame buffer.
package ppu

const (
	screenWidth  = 256
	screenHeight = 240

	ctrlNMIEnable     = 0x80
	ctrlSpriteHeight  = 0x20
	ctrlBGPattern     = 0x10
	ctrlSpritePattern = 0x08
	ctrlIncrement32   = 0x04
	ctrlNametableMask = 0x03

	maskShowBG       = 0x08
	maskShowSprites  = 0x10
	maskShowBGLeft   = 0x02
	maskShowSpriteLeft = 0x04

	statusVBlank   = 0x80
	statusSprite0  = 0x40
	statusOverflow = 0x20

	spriteAttrPriority = 0x20
	spriteAttrFlipH    = 0x40
	spriteAttrFlipV    = 0x80
)

// Bus is the address space a PPU reads/writes for nametables, palette RAM
// and pattern data (typically internal/memory's PPUBus, mapper-backed for
// CHR and mirror-aware for nametables).
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

type spriteEntry struct {
	y, tile, attr, x uint8
	index            int
}

// PPU is a 2C02 as wired into the NES: no external pins besides the NMI
// callback and the CPU-visible register window at $2000-$2007 ($4014 OAM
// DMA is handled by the CPU bus, which feeds OAMDATA).
type PPU struct {
	bus Bus

	ctrl   uint8
	mask   uint8
	status uint8
	oamAddr uint8

	oam [256]uint8

	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8

	scanline int
	dot      int
	frame    uint64
	oddFrame bool

	secondaryOAM []spriteEntry

	frameBuffer [screenWidth * screenHeight]uint32

	nmiCallback   func(bool)
	frameCallback func()
}

// New constructs a PPU wired to bus, starting at scanline 0 dot 0 so the
// first completed frame covers all 240 visible scanlines.
func New(bus Bus) *PPU {
	p := &PPU{bus: bus, scanline: 0, dot: 0}
	return p
}

// SetNMICallback registers the function invoked whenever the PPU's NMI
// output line changes; the caller (the console driver) routes this into
// CPU.SetNMI.
func (p *PPU) SetNMICallback(cb func(bool)) { p.nmiCallback = cb }

// SetFrameCompleteCallback registers a function called once per completed
// frame, after the frame buffer has its final pixel.
func (p *PPU) SetFrameCompleteCallback(cb func()) { p.frameCallback = cb }

// FrameBuffer returns the current frame's pixels as NES palette indices
// resolved to RGBA, row-major, 256x240.
func (p *PPU) FrameBuffer() []uint32 { return p.frameBuffer[:] }

// Status peeks PPUSTATUS without the clear-on-read side effect a CPU
// access through ReadRegister would have; useful for driver-level tests
// and debug tooling.
func (p *PPU) Status() uint8 { return p.status }

// OAMByte peeks a single OAM byte, for verifying OAM DMA landed correctly.
func (p *PPU) OAMByte(index int) uint8 { return p.oam[index] }

// ScanlineDot reports the PPU's current position in its dot/scanline
// counter.
func (p *PPU) ScanlineDot() (scanline, dot int) { return p.scanline, p.dot }

// ReadRegister implements the CPU-visible $2000-$2007 register window
// (mirrored every 8 bytes by the caller).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address & 0x0007 {
	case 2: // PPUSTATUS
		value := p.status
		p.status &^= statusVBlank
		p.w = false
		return value
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readPPUData()
	default:
		return 0
	}
}

// WriteRegister implements the CPU-visible $2000-$2007 register window.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address & 0x0007 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&ctrlNametableMask) << 10)
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		p.writePPUScroll(value)
	case 6: // PPUADDR
		p.writePPUAddr(value)
	case 7: // PPUDATA
		p.writePPUData(value)
	}
}

// WriteOAM stores value at OAMADDR and advances it, the same as an OAMDATA
// write. The CPU bus's OAM DMA goes through WriteRegister($2004) instead.
func (p *PPU) WriteOAM(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

func (p *PPU) writePPUScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
		p.x = value & 0x07
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

func (p *PPU) writePPUAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0xFF00) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t &^ 0x00FF) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readPPUData() uint8 {
	address := p.v & 0x3FFF
	var value uint8
	if address >= 0x3F00 {
		value = p.bus.Read(address)
		p.readBuffer = p.bus.Read(address & 0x2FFF)
	} else {
		value = p.readBuffer
		p.readBuffer = p.bus.Read(address)
	}
	p.v += p.vramIncrement()
	return value
}

func (p *PPU) writePPUData(value uint8) {
	p.bus.Write(p.v&0x3FFF, value)
	p.v += p.vramIncrement()
}

func (p *PPU) getCoarseX() uint16   { return p.v & 0x001F }
func (p *PPU) getCoarseY() uint16   { return (p.v >> 5) & 0x001F }
func (p *PPU) getFineY() uint16     { return (p.v >> 12) & 0x0007 }
func (p *PPU) getNametable() uint16 { return (p.v >> 10) & 0x0003 }

// incrementY implements the canonical coarse-Y increment: fine Y counts
// 0-7 normally, wraps at 8 into coarse Y, and coarse Y wraps from 29 (the
// last row of tiles) back to 0 with a nametable-select toggle; writing
// coarse Y past 29 via PPUADDR instead wraps silently at 32 with no
// toggle, matching documented 2C02 behavior.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	coarseY := (p.v >> 5) & 0x1F
	switch coarseY {
	case 29:
		coarseY = 0
		p.v ^= 0x0800
	case 31:
		coarseY = 0
	default:
		coarseY++
	}
	p.v = (p.v &^ 0x03E0) | (coarseY << 5)
}

func (p *PPU) copyX() { p.v = (p.v &^ 0x041F) | (p.t & 0x041F) }
func (p *PPU) copyY() { p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0) }

func (p *PPU) setNMI(asserted bool) {
	if p.nmiCallback != nil {
		p.nmiCallback(asserted)
	}
}

// Step advances the PPU by one dot (one PPU clock) and reports whether a
// new frame just completed.
func (p *PPU) Step() bool {
	frameDone := false

	switch {
	case p.scanline == 261:
		p.preRenderDot()
	case p.scanline >= 0 && p.scanline <= 239:
		p.visibleDot()
	case p.scanline == 240:
		// post-render: idle
	case p.scanline == 241 && p.dot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.setNMI(true)
		}
	}

	p.dot++
	if p.scanline == 261 && p.dot == 340 && p.oddFrame && p.renderingEnabled() {
		p.dot = 341 // skip the idle dot on odd frames when rendering is on
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frame++
			p.oddFrame = !p.oddFrame
			frameDone = true
			if p.frameCallback != nil {
				p.frameCallback()
			}
		}
	}
	return frameDone
}

func (p *PPU) preRenderDot() {
	if p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
		p.setNMI(false)
	}
	if p.renderingEnabled() {
		if p.dot == 256 {
			p.incrementY()
		}
		if p.dot == 257 {
			p.copyX()
			p.evaluateSprites() // seeds scanline 0's sprites
		}
		if p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}
	}
}

func (p *PPU) visibleDot() {
	if p.dot >= 1 && p.dot <= 256 {
		x := p.dot - 1
		if p.renderingEnabled() {
			p.renderPixel(x, p.scanline)
		} else {
			p.frameBuffer[p.scanline*screenWidth+x] = colorToRGBA(p.bus.Read(0x3F00))
		}
	}
	if !p.renderingEnabled() {
		return
	}
	if p.dot == 256 {
		p.incrementY()
	}
	if p.dot == 257 {
		p.copyX()
		p.evaluateSprites()
	}
}
