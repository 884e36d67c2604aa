package ppu

// backgroundPixel derives the background color index and opacity at
// screen column x of the current scanline, directly from the scroll
// registers rather than a cycle-exact fetch pipeline: it walks the
// nametable from the current coarse scroll position, wrapping across
// nametable boundaries exactly as the hardware's coarse-X increment
// would. This reproduces the same pixels as the real per-dot fetch
// cadence without needing two-tile shift registers.
func (p *PPU) backgroundPixel(x int) (index uint8, opaque bool) {
	if p.mask&maskShowBG == 0 {
		return 0, false
	}
	if x < 8 && p.mask&maskShowBGLeft == 0 {
		return 0, false
	}

	effectiveX := x + int(p.x)
	tileCol := effectiveX / 8
	bitInTile := 7 - uint(effectiveX%8)

	coarseYBase := p.getCoarseY()
	fineY := p.getFineY()
	nametableBase := p.getNametable()

	totalCoarseX := int(p.getCoarseX()) + tileCol
	coarseX := uint16(totalCoarseX%32) & 0x1F
	crossings := totalCoarseX / 32
	nametable := nametableBase
	if crossings%2 != 0 {
		nametable ^= 0x01
	}

	nametableAddr := 0x2000 | (nametable << 10) | (coarseYBase << 5) | coarseX
	tile := p.bus.Read(nametableAddr)

	attrAddr := 0x23C0 | (nametable << 10) | ((coarseYBase >> 2) << 3) | (coarseX >> 2)
	attr := p.bus.Read(attrAddr)
	quadrant := ((coarseYBase & 2) << 1) | (coarseX & 2)
	pal := (attr >> quadrant) & 0x03

	patternHalf := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		patternHalf = 1
	}
	patLow := p.bus.Read((patternHalf << 12) | (uint16(tile) << 4) | fineY)
	patHigh := p.bus.Read((patternHalf << 12) | (uint16(tile) << 4) | 8 | fineY)

	bit0 := (patLow >> bitInTile) & 1
	bit1 := (patHigh >> bitInTile) & 1
	pixelBits := (bit1 << 1) | bit0

	if pixelBits == 0 {
		return p.bus.Read(0x3F00), false
	}
	return p.bus.Read(0x3F00 | uint16(pal)<<2 | uint16(pixelBits)), true
}

// spritePixel returns the composited sprite pixel at screen column x of
// the scanline currently being drawn, searching the secondary OAM
// (already limited to 8 entries) in priority order.
func (p *PPU) spritePixel(x int) (index uint8, opaque, behind, isSprite0 bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, false, false, false
	}
	if x < 8 && p.mask&maskShowSpriteLeft == 0 {
		return 0, false, false, false
	}

	height := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		height = 16
	}

	for _, s := range p.secondaryOAM {
		if x < int(s.x) || x >= int(s.x)+8 {
			continue
		}
		row := p.scanline - int(s.y)
		if row < 0 || row >= height {
			continue
		}
		if s.attr&spriteAttrFlipV != 0 {
			row = height - 1 - row
		}

		tile := s.tile
		patternHalf := uint16(0)
		if height == 16 {
			patternHalf = uint16(tile & 1)
			tile &^= 1
			if row >= 8 {
				tile++
				row -= 8
			}
		} else if p.ctrl&ctrlSpritePattern != 0 {
			patternHalf = 1
		}

		col := x - int(s.x)
		if s.attr&spriteAttrFlipH == 0 {
			col = 7 - col
		}

		patLow := p.bus.Read((patternHalf << 12) | (uint16(tile) << 4) | uint16(row))
		patHigh := p.bus.Read((patternHalf << 12) | (uint16(tile) << 4) | 8 | uint16(row))
		bit0 := (patLow >> uint(col)) & 1
		bit1 := (patHigh >> uint(col)) & 1
		pixelBits := (bit1 << 1) | bit0
		if pixelBits == 0 {
			continue // transparent pixel of this sprite, keep searching lower-priority ones
		}

		pal := s.attr & 0x03
		color := p.bus.Read(0x3F10 | uint16(pal)<<2 | uint16(pixelBits))
		return color, true, s.attr&spriteAttrPriority != 0, s.index == 0
	}
	return 0, false, false, false
}

// renderPixel composites background and sprite pixels per NES priority
// rules (sprite-in-front > background > sprite-behind) and evaluates
// sprite-0 hit, then writes the resolved color into the frame buffer.
func (p *PPU) renderPixel(x, y int) {
	bgIndex, bgOpaque := p.backgroundPixel(x)
	spIndex, spOpaque, spBehind, isSprite0 := p.spritePixel(x)

	if isSprite0 && bgOpaque && spOpaque && x != 255 {
		p.status |= statusSprite0
	}

	color := bgIndex
	if spOpaque && (!bgOpaque || !spBehind) {
		color = spIndex
	}
	p.frameBuffer[y*screenWidth+x] = colorToRGBA(color)
}

// evaluateSprites selects up to 8 sprites for the next scanline from
// primary OAM, flagging overflow on the ninth, matching the hardware's
// one-scanline-ahead evaluation (run here at dot 257 of the current
// scanline, covering scanline+1).
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		height = 16
	}
	target := (p.scanline + 1) % 262 // pre-render (261) feeds scanline 0

	p.secondaryOAM = p.secondaryOAM[:0]
	count := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		row := target - y
		if row < 0 || row >= height {
			continue
		}
		if count < 8 {
			p.secondaryOAM = append(p.secondaryOAM, spriteEntry{
				y:     uint8(y),
				tile:  p.oam[i*4+1],
				attr:  p.oam[i*4+2],
				x:     p.oam[i*4+3],
				index: i,
			})
			count++
		} else {
			p.status |= statusOverflow
			break
		}
	}
}
