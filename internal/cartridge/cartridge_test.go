package cartridge

import "testing"

func buildHeader(prgBanks, chrBanks, flags6, flags7 byte) []byte {
	h := make([]byte, 16)
	copy(h, inesMagic[:])
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = flags6
	h[7] = flags7
	return h
}

func TestLoad_InvalidHeader(t *testing.T) {
	data := make([]byte, 32)
	if _, err := Load(data); err != ErrInvalidHeader {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestLoad_Nes2Unsupported(t *testing.T) {
	header := buildHeader(1, 1, 0, 0x08)
	data := append(header, make([]byte, 16384+8192)...)
	if _, err := Load(data); err != ErrNes2Unsupported {
		t.Fatalf("expected ErrNes2Unsupported, got %v", err)
	}
}

func TestLoad_UnsupportedMapper(t *testing.T) {
	header := buildHeader(1, 1, 0x20, 0) // mapper id nibble = 2
	data := append(header, make([]byte, 16384+8192)...)
	if _, err := Load(data); err != ErrUnsupportedMapper {
		t.Fatalf("expected ErrUnsupportedMapper, got %v", err)
	}
}

func TestLoad_NROM_Smoke(t *testing.T) {
	header := buildHeader(1, 1, 0, 0)
	prg := make([]byte, 16384)
	for i := range prg {
		prg[i] = 0xEA // NOP
	}
	prg[0x3FFC] = 0x00 // reset vector low -> 0x8000
	prg[0x3FFD] = 0x80
	data := append(append([]byte{}, header...), prg...)
	data = append(data, make([]byte, 8192)...)

	cart, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ReadPRG(0xFFFC) != 0x00 || cart.ReadPRG(0xFFFD) != 0x80 {
		t.Fatalf("reset vector not readable through 16KB mirror")
	}
	if cart.ReadPRG(0x8000) != 0xEA {
		t.Fatalf("expected NOP at 0x8000")
	}
}

func TestLoad_TrainerSkipped(t *testing.T) {
	header := buildHeader(1, 1, 0x04, 0) // trainer present
	trainer := make([]byte, 512)
	for i := range trainer {
		trainer[i] = 0xFF
	}
	prg := make([]byte, 16384)
	prg[0] = 0x42
	data := append(append([]byte{}, header...), trainer...)
	data = append(data, prg...)
	data = append(data, make([]byte, 8192)...)

	cart, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ReadPRG(0x8000) != 0x42 {
		t.Fatalf("trainer bytes leaked into PRG-ROM")
	}
}

func TestNROM_PRGRAM(t *testing.T) {
	header := buildHeader(1, 1, 0, 0)
	data := append(append([]byte{}, header...), make([]byte, 16384+8192)...)
	cart, _ := Load(data)

	cart.WritePRG(0x6000, 0x55)
	if cart.ReadPRG(0x6000) != 0x55 {
		t.Fatalf("PRG-RAM round trip failed")
	}
}

func TestCHRROM_WriteProtected(t *testing.T) {
	header := buildHeader(1, 1, 0, 0)
	prg := make([]byte, 16384)
	chr := make([]byte, 8192)
	chr[0x0010] = 0x7A
	data := append(append([]byte{}, header...), prg...)
	data = append(data, chr...)

	cart, _ := Load(data)
	cart.WriteCHR(0x0010, 0xFF)
	if cart.ReadCHR(0x0010) != 0x7A {
		t.Fatalf("CHR-ROM should reject writes, got %#x", cart.ReadCHR(0x0010))
	}
}

func TestCHRRAM_Writable(t *testing.T) {
	header := buildHeader(1, 0, 0, 0) // CHR banks = 0 -> CHR-RAM
	data := append(append([]byte{}, header...), make([]byte, 16384)...)
	cart, _ := Load(data)

	cart.WriteCHR(0x0100, 0xAB)
	if cart.ReadCHR(0x0100) != 0xAB {
		t.Fatalf("CHR-RAM write did not round-trip")
	}
}

func TestMirroring_FromHeader(t *testing.T) {
	cases := []struct {
		flags6 byte
		want   Mirror
	}{
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
	}
	for _, c := range cases {
		header := buildHeader(1, 1, c.flags6, 0)
		data := append(append([]byte{}, header...), make([]byte, 16384+8192)...)
		cart, err := Load(data)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cart.Mirror() != c.want {
			t.Errorf("flags6=%#x: got mirror %v, want %v", c.flags6, cart.Mirror(), c.want)
		}
	}
}
