package cpu

import "testing"

func TestParityTable(t *testing.T) {
	cases := []struct {
		v    uint8
		want bool
	}{
		{0x00, true}, {0x01, false}, {0x03, true}, {0xFF, true}, {0x0F, true}, {0x07, false},
	}
	for _, c := range cases {
		if got := parity(c.v); got != c.want {
			t.Errorf("parity(%#x) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFlagsPackUnpackRoundTrip(t *testing.T) {
	var f Flags
	f.S, f.Z, f.AC, f.P, f.CY = true, false, true, false, true
	packed := f.Pack()

	var g Flags
	g.Unpack(packed)
	if g != f {
		t.Errorf("round trip: got %+v, want %+v", g, f)
	}
}

func TestFlagsPackForcesReservedBits(t *testing.T) {
	var f Flags
	packed := f.Pack()
	if packed&flagB1 == 0 {
		t.Errorf("packed flags %#02x: bit 1 not forced", packed)
	}
	if packed&(flagB3|flagB5) != 0 {
		t.Errorf("packed flags %#02x: bits 3/5 not clear", packed)
	}
}

func TestFlagsUnpackClearsReservedBits(t *testing.T) {
	var f Flags
	f.Unpack(0xFF)
	packed := f.Pack()
	if packed&(flagB3|flagB5) != 0 {
		t.Errorf("packed flags %#02x after unpacking 0xFF: bits 3/5 not clear", packed)
	}
	if packed&flagB1 == 0 {
		t.Errorf("packed flags %#02x after unpacking 0xFF: bit 1 not forced", packed)
	}
}

func TestAuxCarry(t *testing.T) {
	if !auxCarryAdd(0x0F, 0x01, 0) {
		t.Error("auxCarryAdd(0x0F,0x01,0) = false, want true")
	}
	if auxCarryAdd(0x0E, 0x01, 0) {
		t.Error("auxCarryAdd(0x0E,0x01,0) = true, want false")
	}
	if !auxCarrySub(0x10, 0x01, 0) {
		t.Error("auxCarrySub(0x10,0x01,0) = false, want true")
	}
}
