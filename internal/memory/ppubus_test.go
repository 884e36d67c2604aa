package memory

import (
	"testing"

	"github.com/nesvm/nesvm/internal/cartridge"
)

func TestPPUBus_CHRDelegatesToCartridge(t *testing.T) {
	cart := &chrCart{}
	bus := NewPPUBus(cart, cartridge.MirrorHorizontal)
	bus.Write(0x0010, 0x5A)
	if cart.writes[0x0010] != 0x5A {
		t.Fatalf("CHR write did not reach cartridge")
	}
}

type chrCart struct {
	writes map[uint16]uint8
}

func (c *chrCart) ReadPRG(address uint16) uint8     { return 0 }
func (c *chrCart) WritePRG(address uint16, v uint8) {}
func (c *chrCart) ReadCHR(address uint16) uint8 {
	if c.writes == nil {
		return 0
	}
	return c.writes[address]
}
func (c *chrCart) WriteCHR(address uint16, v uint8) {
	if c.writes == nil {
		c.writes = make(map[uint16]uint8)
	}
	c.writes[address] = v
}

func TestPPUBus_PaletteBackgroundMirror(t *testing.T) {
	bus := NewPPUBus(&chrCart{}, cartridge.MirrorHorizontal)

	bus.Write(0x3F00, 0x20)
	if got := bus.Read(0x3F10); got != 0x20 {
		t.Fatalf("0x3F10 did not mirror 0x3F00: got %#02x", got)
	}

	bus.Write(0x3F14, 0x33)
	if got := bus.Read(0x3F04); got != 0x33 {
		t.Fatalf("0x3F14 write did not mirror to 0x3F04: got %#02x", got)
	}
}

func TestPPUBus_PaletteMirrorRegionRepeats(t *testing.T) {
	bus := NewPPUBus(&chrCart{}, cartridge.MirrorHorizontal)
	bus.Write(0x3F05, 0x77)
	if got := bus.Read(0x3F25); got != 0x77 {
		t.Fatalf("palette mirror region 0x3F25 got %#02x, want 0x77", got)
	}
}

func TestMirror_Horizontal(t *testing.T) {
	cases := map[uint16]uint16{
		0x2000: 0x000, 0x23FF: 0x3FF,
		0x2400: 0x000, 0x27FF: 0x3FF,
		0x2800: 0x400, 0x2BFF: 0x7FF,
		0x2C00: 0x400, 0x2FFF: 0x7FF,
	}
	for addr, want := range cases {
		if got := Mirror(addr, cartridge.MirrorHorizontal); got != want {
			t.Errorf("Mirror(%#04x, Horizontal) = %#03x, want %#03x", addr, got, want)
		}
	}
}

func TestMirror_Vertical(t *testing.T) {
	cases := map[uint16]uint16{
		0x2000: 0x000, 0x2800: 0x000,
		0x2400: 0x400, 0x2C00: 0x400,
	}
	for addr, want := range cases {
		if got := Mirror(addr, cartridge.MirrorVertical); got != want {
			t.Errorf("Mirror(%#04x, Vertical) = %#03x, want %#03x", addr, got, want)
		}
	}
}

func TestMirror_SingleScreen(t *testing.T) {
	for _, addr := range []uint16{0x2000, 0x2400, 0x2800, 0x2C00} {
		if got := Mirror(addr, cartridge.MirrorSingleLower); got != 0x000 {
			t.Errorf("Mirror(%#04x, SingleLower) = %#03x, want 0x000", addr, got)
		}
		if got := Mirror(addr, cartridge.MirrorSingleUpper); got != 0x400 {
			t.Errorf("Mirror(%#04x, SingleUpper) = %#03x, want 0x400", addr, got)
		}
	}
}

func TestMirror_FourScreen(t *testing.T) {
	cases := map[uint16]uint16{
		0x2000: 0x000, 0x2400: 0x400, 0x2800: 0x800, 0x2C00: 0xC00,
	}
	for addr, want := range cases {
		if got := Mirror(addr, cartridge.MirrorFourScreen); got != want {
			t.Errorf("Mirror(%#04x, FourScreen) = %#03x, want %#03x", addr, got, want)
		}
	}
}
