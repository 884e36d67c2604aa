package cartridge

import "testing"

func newCNROMCart(t *testing.T, chrBanks int) *Cartridge {
	t.Helper()
	header := buildHeader(2, byte(chrBanks), 0x30, 0x00) // mapper 3, horizontal mirroring
	prg := make([]byte, 2*16384)
	chr := make([]byte, chrBanks*8192)
	data := append(append([]byte{}, header...), prg...)
	data = append(data, chr...)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cart
}

func TestCNROM_CHRBankSwitch(t *testing.T) {
	cart := newCNROMCart(t, 4)
	chr := cart.chrROM
	chr[0*0x2000] = 0x01
	chr[1*0x2000] = 0x02
	chr[2*0x2000] = 0x03

	cart.WritePRG(0x8000, 0x02)
	if got := cart.ReadCHR(0x0000); got != 0x03 {
		t.Fatalf("expected CHR bank 2 selected, got %#x", got)
	}

	cart.WritePRG(0xC000, 0x00)
	if got := cart.ReadCHR(0x0000); got != 0x01 {
		t.Fatalf("expected CHR bank 0 after reselect, got %#x", got)
	}
}

func TestCNROM_CHRBankMaskedTo2Bits(t *testing.T) {
	cart := newCNROMCart(t, 2)
	chr := cart.chrROM
	chr[1*0x2000] = 0x42

	cart.WritePRG(0x8000, 0xFF) // masked to 0x03, then modulo 2 banks
	if got := cart.ReadCHR(0x0000); got != 0x42 {
		t.Fatalf("expected bank wraparound to bank 1, got %#x", got)
	}
}

func TestCNROM_PRGFixed(t *testing.T) {
	cart := newCNROMCart(t, 1)
	cart.prgROM[0] = 0x77
	cart.prgROM[0x4000] = 0x88

	if cart.ReadPRG(0x8000) != 0x77 {
		t.Fatalf("unexpected PRG bank 0 byte")
	}
	if cart.ReadPRG(0xC000) != 0x88 {
		t.Fatalf("unexpected PRG bank 1 byte")
	}

	cart.WritePRG(0x8000, 0x00) // CHR select write must not disturb PRG-ROM
	if cart.ReadPRG(0x8000) != 0x77 {
		t.Fatalf("PRG-ROM mutated by CHR-select write")
	}
}
