package cpu

import "testing"

// TestDADSetsOnlyCY verifies DAD adds the named pair into HL and updates CY
// alone, leaving S/Z/P/AC untouched (spec §4.4).
func TestDADSetsOnlyCY(t *testing.T) {
	c := NewCPU()
	c.Regs.H, c.Regs.L = 0xFF, 0xFF // HL = 0xFFFF
	c.Regs.B, c.Regs.C = 0x00, 0x01 // BC = 0x0001
	c.Flags.S, c.Flags.Z, c.Flags.P, c.Flags.AC = true, true, true, true
	c.Mem[0] = 0x09 // DAD B
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Regs.H != 0x00 || c.Regs.L != 0x00 {
		t.Errorf("HL = %#02x%02x, want 0x0000", c.Regs.H, c.Regs.L)
	}
	if !c.Flags.CY {
		t.Error("CY = false, want true")
	}
	if !c.Flags.S || !c.Flags.Z || !c.Flags.P || !c.Flags.AC {
		t.Errorf("flags = %+v, want S/Z/P/AC unchanged (all true)", c.Flags)
	}
}

func TestDADNoOverflowClearsCY(t *testing.T) {
	c := NewCPU()
	c.Regs.H, c.Regs.L = 0x00, 0x01 // HL = 0x0001
	c.Regs.D, c.Regs.E = 0x00, 0x01 // DE = 0x0001
	c.Flags.CY = true
	c.Mem[0] = 0x19 // DAD D
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Regs.H != 0x00 || c.Regs.L != 0x02 {
		t.Errorf("HL = %02x%02x, want 0002", c.Regs.H, c.Regs.L)
	}
	if c.Flags.CY {
		t.Error("CY = true, want false")
	}
}

// TestLHLDSHLDRoundTrip verifies SHLD stores L at addr and H at addr+1, and
// LHLD reads them back the same way (spec §4.4).
func TestLHLDSHLDRoundTrip(t *testing.T) {
	c := NewCPU()
	c.Regs.H, c.Regs.L = 0x12, 0x34
	c.Mem[0], c.Mem[1], c.Mem[2] = 0x22, 0x00, 0x20 // SHLD 0x2000
	if _, err := c.Step(); err != nil {
		t.Fatalf("SHLD step: %v", err)
	}
	if c.Mem[0x2000] != 0x34 || c.Mem[0x2001] != 0x12 {
		t.Fatalf("memory at 0x2000 = %02x %02x, want 34 12", c.Mem[0x2000], c.Mem[0x2001])
	}

	c.Regs.H, c.Regs.L = 0, 0
	c.Mem[3], c.Mem[4], c.Mem[5] = 0x2A, 0x00, 0x20 // LHLD 0x2000
	if _, err := c.Step(); err != nil {
		t.Fatalf("LHLD step: %v", err)
	}
	if c.Regs.H != 0x12 || c.Regs.L != 0x34 {
		t.Errorf("HL after LHLD = %02x%02x, want 1234", c.Regs.H, c.Regs.L)
	}
}

// TestXCHGSwapsHLAndDE verifies XCHG swaps HL with DE.
func TestXCHGSwapsHLAndDE(t *testing.T) {
	c := NewCPU()
	c.Regs.H, c.Regs.L = 0x11, 0x22
	c.Regs.D, c.Regs.E = 0x33, 0x44
	c.Mem[0] = 0xEB // XCHG
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Regs.H != 0x33 || c.Regs.L != 0x44 {
		t.Errorf("HL = %02x%02x, want 3344", c.Regs.H, c.Regs.L)
	}
	if c.Regs.D != 0x11 || c.Regs.E != 0x22 {
		t.Errorf("DE = %02x%02x, want 1122", c.Regs.D, c.Regs.E)
	}
}

// TestLDAXSTAXBothPairs verifies LDAX/STAX address memory via BC and DE.
func TestLDAXSTAXBothPairs(t *testing.T) {
	c := NewCPU()
	c.Regs.B, c.Regs.C = 0x20, 0x00 // BC = 0x2000
	c.Regs.A = 0x7A
	c.Mem[0] = 0x02 // STAX B
	if _, err := c.Step(); err != nil {
		t.Fatalf("STAX B step: %v", err)
	}
	if c.Mem[0x2000] != 0x7A {
		t.Errorf("memory[0x2000] = %#x, want 0x7A", c.Mem[0x2000])
	}

	c.Regs.D, c.Regs.E = 0x20, 0x01 // DE = 0x2001
	c.Mem[0x2001] = 0x55
	c.Regs.A = 0
	c.Mem[1] = 0x1A // LDAX D
	c.PC = 1
	if _, err := c.Step(); err != nil {
		t.Fatalf("LDAX D step: %v", err)
	}
	if c.Regs.A != 0x55 {
		t.Errorf("A = %#x after LDAX D, want 0x55", c.Regs.A)
	}
}

// TestXTHLSwapsHLWithStackTop verifies XTHL swaps (L,mem[SP]) and (H,mem[SP+1]).
func TestXTHLSwapsHLWithStackTop(t *testing.T) {
	c := NewCPU()
	c.SP = 0x2000
	c.Mem[0x2000], c.Mem[0x2001] = 0xAA, 0xBB
	c.Regs.H, c.Regs.L = 0x11, 0x22
	c.Mem[0] = 0xE3 // XTHL
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Regs.H != 0xBB || c.Regs.L != 0xAA {
		t.Errorf("HL = %02x%02x, want BBAA", c.Regs.H, c.Regs.L)
	}
	if c.Mem[0x2000] != 0x22 || c.Mem[0x2001] != 0x11 {
		t.Errorf("memory at SP = %02x %02x, want 22 11", c.Mem[0x2000], c.Mem[0x2001])
	}
	if c.SP != 0x2000 {
		t.Errorf("SP = %#x, want unchanged 0x2000", c.SP)
	}
}

// TestSPHLLoadsSPFromHL verifies SPHL.
func TestSPHLLoadsSPFromHL(t *testing.T) {
	c := NewCPU()
	c.Regs.H, c.Regs.L = 0x30, 0x40
	c.Mem[0] = 0xF9 // SPHL
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.SP != 0x3040 {
		t.Errorf("SP = %#x, want 0x3040", c.SP)
	}
}

// TestCMALeavesFlagsUntouched verifies CMA complements A without touching
// any flag (spec §4.4).
func TestCMALeavesFlagsUntouched(t *testing.T) {
	c := NewCPU()
	c.Regs.A = 0x0F
	c.Flags = Flags{S: true, Z: true, AC: true, P: true, CY: true}
	want := c.Flags
	c.Mem[0] = 0x2F // CMA
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Regs.A != 0xF0 {
		t.Errorf("A = %#x, want 0xF0", c.Regs.A)
	}
	if c.Flags != want {
		t.Errorf("flags = %+v, want unchanged %+v", c.Flags, want)
	}
}

// TestSTCSetsCY and TestCMCTogglesCY exercise the two carry-only opcodes.
func TestSTCSetsCY(t *testing.T) {
	c := NewCPU()
	c.Flags.CY = false
	c.Mem[0] = 0x37 // STC
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !c.Flags.CY {
		t.Error("CY = false after STC, want true")
	}
}

func TestCMCTogglesCY(t *testing.T) {
	c := NewCPU()
	c.Flags.CY = true
	c.Mem[0], c.Mem[1] = 0x3F, 0x3F // CMC ; CMC
	if _, err := c.Step(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if c.Flags.CY {
		t.Error("CY = true after first CMC, want false")
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !c.Flags.CY {
		t.Error("CY = false after second CMC, want true")
	}
}

// TestRSTPushesReturnAndJumps exercises RST directly (as opposed to the
// interrupt-delivery path, which reuses the same PC<-8n jump but pushes PC
// rather than PC+1 and is covered separately).
func TestRSTPushesReturnAndJumps(t *testing.T) {
	c := NewCPU()
	c.SP = 0x2400
	c.PC = 0x0050
	c.Mem[0x0050] = 0xD7 // RST 2 (0xC7 | 2<<3 = 0xD7)
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x10 { // 8*2
		t.Errorf("PC = %#x, want 0x0010", c.PC)
	}
	if c.SP != 0x23FE {
		t.Errorf("SP = %#x, want 0x23FE", c.SP)
	}
	if c.Mem[0x23FE] != 0x51 || c.Mem[0x23FF] != 0x00 {
		t.Errorf("pushed return = %02x%02x, want 0051", c.Mem[0x23FF], c.Mem[0x23FE])
	}
}
