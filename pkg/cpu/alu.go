package cpu

// ALU primitives compute over a widened integer before masking back to 8 or
// 16 bits, the teacher's execAdd/execSub/execDaa shape in pkg/cpu/exec.go.
// Each function mutates only the flag fields its operation actually defines,
// leaving the rest of *Flags untouched — callers rely on that to implement
// e.g. INR/DCR's "S,Z,P,AC but not CY" contract.

// addWithCarry computes a + b + cy, setting S,Z,P,CY,AC, and returns the
// masked 8-bit result. Shared by ADD/ADC/ADI/ACI.
func addWithCarry(f *Flags, a, b, cy uint8) uint8 {
	wide := int32(a) + int32(b) + int32(cy)
	result := uint8(wide)
	f.setSZP(result)
	f.CY = carry8(wide)
	f.AC = auxCarryAdd(a, b, cy)
	return result
}

// subWithBorrow computes a - b - cy, setting S,Z,P,CY,AC. CY is the borrow
// flag: set when the subtraction underflows. AC follows the 8080's
// a + ^b + !cy adder: it is set when the low nibble does NOT borrow, the
// complement of auxCarrySub. Shared by SUB/SBB/SUI/SBI/CMP.
func subWithBorrow(f *Flags, a, b, cy uint8) uint8 {
	wide := int32(a) - int32(b) - int32(cy)
	result := uint8(wide)
	f.setSZP(result)
	f.CY = carry8(wide)
	f.AC = !auxCarrySub(a, b, cy)
	return result
}

// incByte computes v+1, setting S,Z,P,AC. CY is left untouched: INR never
// affects it per spec.
func incByte(f *Flags, v uint8) uint8 {
	result := uint8(int32(v) + 1)
	f.setSZP(result)
	f.AC = auxCarryAdd(v, 1, 0)
	return result
}

// decByte computes v-1, setting S,Z,P,AC. CY is left untouched.
func decByte(f *Flags, v uint8) uint8 {
	result := uint8(int32(v) - 1)
	f.setSZP(result)
	f.AC = auxCarrySub(v, 1, 0)
	return result
}

// dad computes hl + rp, setting only CY (overflow out of bit 15). S,Z,P,AC
// are untouched per spec.
func dad(f *Flags, hl, rp uint16) uint16 {
	wide := int32(hl) + int32(rp)
	f.CY = carry16(wide)
	return uint16(wide)
}

// logicAnd implements ANA's 8080 quirk: AC is the OR of bit 3 of both
// operands, computed before the AND, not derived from the result.
func logicAnd(f *Flags, a, operand uint8) uint8 {
	result := a & operand
	f.setSZP(result)
	f.AC = (a&0x08 != 0) || (operand&0x08 != 0)
	f.CY = false
	return result
}

func logicOr(f *Flags, a, operand uint8) uint8 {
	result := a | operand
	f.setSZP(result)
	f.AC = false
	f.CY = false
	return result
}

func logicXor(f *Flags, a, operand uint8) uint8 {
	result := a ^ operand
	f.setSZP(result)
	f.AC = false
	f.CY = false
	return result
}

// daa adjusts A to valid packed BCD after an addition. CY is sticky: once
// set by the upper-nibble correction it never clears even if the lower
// correction alone would not have set it.
func daa(f *Flags, a uint8) uint8 {
	correction := uint8(0)
	cy := f.CY
	if f.AC || a&0x0F > 9 {
		correction |= 0x06
	}
	if cy || a>>4 > 9 || (a>>4 == 9 && a&0x0F > 9) {
		correction |= 0x60
		cy = true
	}
	wide := int32(a) + int32(correction)
	result := uint8(wide)
	f.AC = auxCarryAdd(a, correction, 0)
	f.CY = cy || carry8(wide)
	f.setSZP(result)
	return result
}

// rlc rotates v left by one bit, carry out of bit 7 becomes the new CY and
// wraps into bit 0.
func rlc(f *Flags, v uint8) uint8 {
	f.CY = v&0x80 != 0
	return v<<1 | v>>7
}

func rrc(f *Flags, v uint8) uint8 {
	f.CY = v&0x01 != 0
	return v>>1 | v<<7
}

// ral rotates v left through the carry flag: the old CY enters bit 0, bit 7
// becomes the new CY.
func ral(f *Flags, v uint8) uint8 {
	oldCY := uint8(0)
	if f.CY {
		oldCY = 1
	}
	f.CY = v&0x80 != 0
	return v<<1 | oldCY
}

func rar(f *Flags, v uint8) uint8 {
	oldCY := uint8(0)
	if f.CY {
		oldCY = 0x80
	}
	f.CY = v&0x01 != 0
	return v>>1 | oldCY
}
