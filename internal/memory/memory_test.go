package memory

import "testing"

type mockPPU struct {
	regs [8]uint8
}

func (m *mockPPU) ReadRegister(address uint16) uint8  { return m.regs[address&0x07] }
func (m *mockPPU) WriteRegister(address uint16, v uint8) { m.regs[address&0x07] = v }

type mockAPU struct {
	written map[uint16]uint8
}

func (m *mockAPU) WriteRegister(address uint16, v uint8) {
	if m.written == nil {
		m.written = make(map[uint16]uint8)
	}
	m.written[address] = v
}
func (m *mockAPU) ReadStatus() uint8 { return 0 }

type mockCart struct {
	prg [0x10000]uint8
}

func (m *mockCart) ReadPRG(address uint16) uint8         { return m.prg[address] }
func (m *mockCart) WritePRG(address uint16, v uint8)     { m.prg[address] = v }
func (m *mockCart) ReadCHR(address uint16) uint8         { return 0 }
func (m *mockCart) WriteCHR(address uint16, v uint8)     {}

func TestCPUBus_RAMMirror(t *testing.T) {
	bus := NewCPUBus(&mockPPU{}, &mockAPU{}, &mockCart{})

	bus.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := bus.Read(mirror); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42", mirror, got)
		}
	}

	bus.Write(0x1801, 0x99)
	if got := bus.Read(0x0001); got != 0x99 {
		t.Fatalf("mirror write did not reach base: got %#02x", got)
	}
}

func TestCPUBus_PPURegisterMirrorEvery8Bytes(t *testing.T) {
	ppu := &mockPPU{}
	bus := NewCPUBus(ppu, &mockAPU{}, &mockCart{})

	bus.Write(0x2000, 0x11) // PPUCTRL
	if got := bus.Read(0x2008); got != 0x11 {
		t.Errorf("PPU register mirror at 0x2008: got %#02x, want 0x11", got)
	}
	if got := bus.Read(0x3FF8); got != 0x11 {
		t.Errorf("PPU register mirror at 0x3FF8: got %#02x, want 0x11", got)
	}
}

func TestCPUBus_APUWriteOnlyReadsZero(t *testing.T) {
	bus := NewCPUBus(&mockPPU{}, &mockAPU{}, &mockCart{})
	bus.Write(0x4000, 0xFF)
	if got := bus.Read(0x4000); got != 0 {
		t.Fatalf("write-only APU register read as %#02x, want 0", got)
	}
}

func TestCPUBus_OAMDMA_PlainReadLoop(t *testing.T) {
	ppu := &mockPPU{}
	cart := &mockCart{}
	bus := NewCPUBus(ppu, &mockAPU{}, cart)

	for i := uint16(0); i < 256; i++ {
		bus.Write(0x0200+i, uint8(i))
	}

	var copied []uint8
	ppuWithCapture := &capturingPPU{mockPPU: ppu}
	bus = NewCPUBus(ppuWithCapture, &mockAPU{}, &mockCart{})
	for i := uint16(0); i < 256; i++ {
		bus.Write(0x0200+i, uint8(i))
	}
	bus.Write(0x4014, 0x02)
	copied = ppuWithCapture.oamWrites

	if len(copied) != 256 {
		t.Fatalf("expected 256 OAM writes, got %d", len(copied))
	}
	for i, v := range copied {
		if v != uint8(i) {
			t.Fatalf("OAM byte %d = %#02x, want %#02x", i, v, uint8(i))
		}
	}
}

type capturingPPU struct {
	*mockPPU
	oamWrites []uint8
}

func (c *capturingPPU) WriteRegister(address uint16, v uint8) {
	if address == 0x2004 {
		c.oamWrites = append(c.oamWrites, v)
		return
	}
	c.mockPPU.WriteRegister(address, v)
}

func TestCPUBus_DMACallback_InvokedOn4014Write(t *testing.T) {
	bus := NewCPUBus(&mockPPU{}, &mockAPU{}, &mockCart{})
	called := false
	bus.SetDMACallback(func(page uint8) { called = true })
	bus.Write(0x4014, 0x07)
	if !called {
		t.Fatalf("registered DMA callback was not invoked")
	}
}
