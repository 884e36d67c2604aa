// Package console wires the CPU, PPU, APU, cartridge, and controller
// ports into a runnable NES, and drives the CPU:PPU 1:3 clock interleave
// that produces one composited frame at a time.
package console

import (
	"github.com/nesvm/nesvm/internal/apu"
	"github.com/nesvm/nesvm/internal/cartridge"
	"github.com/nesvm/nesvm/internal/cpu"
	"github.com/nesvm/nesvm/internal/input"
	"github.com/nesvm/nesvm/internal/memory"
	"github.com/nesvm/nesvm/internal/ppu"
)

// Emulator owns a loaded cartridge and every component wired to it. Its
// frame boundary is driven by the PPU's own scanline/dot counter, not a
// fixed cycle-count approximation, so odd-frame dot-skipping and mid-frame
// rendering toggles stay in sync with the real PPU clock.
type Emulator struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	cart *cartridge.Cartridge
	bus  *memory.CPUBus
	ppuBus *memory.PPUBus
	ports *input.Ports

	pendingDMAStall uint64
}

// New parses romBytes as an iNES image and wires a complete machine
// around it. Reset runs automatically so the returned Emulator is ready
// for StepFrame.
func New(romBytes []byte) (*Emulator, error) {
	cart, err := cartridge.Load(romBytes)
	if err != nil {
		return nil, err
	}

	ppuBus := memory.NewPPUBus(cart, cart.Mirror())
	p := ppu.New(ppuBus)
	a := apu.New()
	bus := memory.NewCPUBus(p, a, cart)
	ports := input.NewPorts()
	bus.SetInput(ports)

	c := cpu.New(bus)

	e := &Emulator{cpu: c, ppu: p, apu: a, cart: cart, bus: bus, ppuBus: ppuBus, ports: ports}

	p.SetNMICallback(func(asserted bool) { e.cpu.SetNMI(asserted) })
	bus.SetDMACallback(e.performOAMDMA)

	e.Reset()
	return e, nil
}

// Reset performs the CPU's power-up/reset sequence. The PPU and APU keep
// running; only the CPU's registers and program counter are affected,
// matching the NES reset line's actual wiring.
func (e *Emulator) Reset() {
	e.cpu.Reset()
}

// performOAMDMA is the DMA callback wired into the CPU bus: it runs the
// exact plain bus-read-then-OAM-write sequence the bus would run on its
// own with no callback attached, and additionally accounts for the
// 513/514-cycle CPU stall real DMA imposes (514 when triggered on an odd
// CPU cycle) so StepFrame keeps the PPU in lockstep.
func (e *Emulator) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		value := e.bus.Read(base + i)
		e.ppu.WriteRegister(0x2004, value)
	}
	stall := uint64(513)
	if e.cpu.Cycles()%2 == 1 {
		stall = 514
	}
	e.pendingDMAStall += stall
}

// StepFrame runs the machine until the PPU completes one frame.
func (e *Emulator) StepFrame() {
	for {
		delta := e.cpu.Step()
		delta += e.pendingDMAStall
		e.pendingDMAStall = 0
		e.ppuBus.SetMirror(e.cart.Mirror()) // mappers like MMC1 can change mirroring at runtime

		for i := uint64(0); i < delta*3; i++ {
			if e.ppu.Step() {
				return
			}
		}
	}
}

// FrameBuffer returns the most recently composited frame, 256x240 RGBA
// pixels in row-major order.
func (e *Emulator) FrameBuffer() []uint32 {
	return e.ppu.FrameBuffer()
}

// Palette returns the 32 bytes of palette RAM ($3F00-$3F1F), the host
// API's palette pointer per spec.
func (e *Emulator) Palette() [32]uint8 {
	return e.ppuBus.PaletteRAM()
}

// ColorTable returns the 64-entry NES color table that palette RAM values
// index into to produce the frame buffer's RGBA pixels.
func (e *Emulator) ColorTable() [64]uint32 {
	return ppu.Palette()
}

// SetButtons replaces the held-button mask for the given controller port
// (0 or 1).
func (e *Emulator) SetButtons(port int, mask uint8) {
	if port == 0 {
		e.ports.Port1.SetButtons(mask)
	} else {
		e.ports.Port2.SetButtons(mask)
	}
}
