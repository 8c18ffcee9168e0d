package inst

import "testing"

func TestCatalogCoversAllOpcodes(t *testing.T) {
	for op := 0; op < 256; op++ {
		if Catalog[op].Size == 0 {
			t.Errorf("opcode %#02x has zero size", op)
		}
	}
}

func TestUndocumentedAliases(t *testing.T) {
	cases := []struct {
		op   byte
		want Mnemonic
	}{
		{0x08, NOP}, {0x10, NOP}, {0x18, NOP}, {0x20, NOP},
		{0x28, NOP}, {0x30, NOP}, {0x38, NOP},
		{0xCB, JMP}, {0xD9, RET}, {0xDD, CALL}, {0xED, CALL}, {0xFD, CALL},
	}
	for _, c := range cases {
		if got := Catalog[c.op].Mnemonic; got != c.want {
			t.Errorf("opcode %#02x: mnemonic = %s, want %s", c.op, got, c.want)
		}
	}
}

func TestMOVGridExcludesHLT(t *testing.T) {
	if Catalog[0x76].Mnemonic != HLT {
		t.Fatalf("0x76 = %s, want HLT", Catalog[0x76].Mnemonic)
	}
	if Catalog[0x40].Mnemonic != MOV || Catalog[0x40].Reg != RegB || Catalog[0x40].Reg2 != RegB {
		t.Fatalf("0x40 = %+v, want MOV B,B", Catalog[0x40])
	}
	if Catalog[0x7F].Mnemonic != MOV || Catalog[0x7F].Reg != RegA || Catalog[0x7F].Reg2 != RegA {
		t.Fatalf("0x7F = %+v, want MOV A,A", Catalog[0x7F])
	}
}

func TestALUImmediateOpcodes(t *testing.T) {
	cases := map[byte]Mnemonic{
		0xC6: ADD, 0xCE: ADC, 0xD6: SUB, 0xDE: SBB,
		0xE6: ANA, 0xEE: XRA, 0xF6: ORA, 0xFE: CMP,
	}
	for op, want := range cases {
		if got := Catalog[op].Mnemonic; got != want {
			t.Errorf("opcode %#02x: mnemonic = %s, want %s", op, got, want)
		}
		if Catalog[op].Size != 2 {
			t.Errorf("opcode %#02x: size = %d, want 2", op, Catalog[op].Size)
		}
	}
}

func TestPushPopOpcodes(t *testing.T) {
	if Catalog[0xF5].RP != PairPSW || Catalog[0xF5].Mnemonic != PUSH {
		t.Fatalf("0xF5 = %+v, want PUSH PSW", Catalog[0xF5])
	}
	if Catalog[0xF1].RP != PairPSW || Catalog[0xF1].Mnemonic != POP {
		t.Fatalf("0xF1 = %+v, want POP PSW", Catalog[0xF1])
	}
}

func TestDisassembleMOV(t *testing.T) {
	mem := []byte{0x41} // MOV B,C
	if got, want := Disassemble(mem, 0), "MOV B,C"; got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}

func TestDisassembleLXI(t *testing.T) {
	mem := []byte{0x21, 0x34, 0x12} // LXI H,0x1234
	if got, want := Disassemble(mem, 0), "LXI HL,0x1234"; got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}
