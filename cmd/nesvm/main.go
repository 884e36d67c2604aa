// Command nesvm runs the NES core behind an ebiten window, or headlessly
// for scripted verification.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nesvm/nesvm/internal/console"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

var (
	romPath      = flag.String("rom", "", "Path to an iNES ROM file")
	headless     = flag.Bool("headless", false, "Run a fixed number of frames with no window")
	headlessRuns = flag.Int("frames", 60, "Number of frames to run in -headless mode")
)

// keyMap gives each controller bit its keyboard key, A/B/Select/Start/
// Up/Down/Left/Right in shift-register order.
var keyMap = []ebiten.Key{
	ebiten.KeyZ,
	ebiten.KeyX,
	ebiten.KeyShiftRight,
	ebiten.KeyEnter,
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

// game adapts an Emulator to ebiten.Game: Update steps one frame and
// samples the keyboard, Draw blits the resolved RGBA frame buffer.
type game struct {
	emu    *console.Emulator
	screen *ebiten.Image
	pixels []byte
}

func newGame(emu *console.Emulator) *game {
	return &game{
		emu:    emu,
		screen: ebiten.NewImage(screenWidth, screenHeight),
		pixels: make([]byte, screenWidth*screenHeight*4),
	}
}

func (g *game) Update() error {
	var mask uint8
	for i, key := range keyMap {
		if ebiten.IsKeyPressed(key) {
			mask |= 1 << i
		}
	}
	g.emu.SetButtons(0, mask)
	g.emu.StepFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.emu.FrameBuffer()
	for i, color := range fb {
		g.pixels[i*4+0] = byte(color >> 16)
		g.pixels[i*4+1] = byte(color >> 8)
		g.pixels[i*4+2] = byte(color)
		g.pixels[i*4+3] = byte(color >> 24)
	}
	g.screen.WritePixels(g.pixels)
	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	if *romPath == "" {
		log.Fatal("nesvm: -rom is required")
	}
	romBytes, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("nesvm: reading ROM: %v", err)
	}

	emu, err := console.New(romBytes)
	if err != nil {
		log.Fatalf("nesvm: loading ROM: %v", err)
	}

	if *headless {
		runHeadless(emu)
		return
	}

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("nesvm")
	if err := ebiten.RunGame(newGame(emu)); err != nil {
		log.Fatal(err)
	}
}

func runHeadless(emu *console.Emulator) {
	for i := 0; i < *headlessRuns; i++ {
		emu.StepFrame()
	}
	log.Printf("nesvm: ran %d frames headless", *headlessRuns)
}
