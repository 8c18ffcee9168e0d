package cpu

import "github.com/matthewmpalen/i8080/pkg/inst"

// Flag bit positions within the packed PSW byte: S Z 0 AC 0 P 1 CY (bits 7..0).
const (
	FlagCY = 1 << 0
	flagB1 = 1 << 1 // always 1 when packed
	FlagP  = 1 << 2
	flagB3 = 1 << 3 // always 0 when packed
	FlagAC = 1 << 4
	flagB5 = 1 << 5 // always 0 when packed
	FlagZ  = 1 << 6
	FlagS  = 1 << 7
)

// parityTable[v] is true when v has an even number of set bits, precomputed
// once so Flags.setSZP never recomputes popcount (the teacher's
// Sz53pTable/ParityTable idiom in pkg/cpu/flags.go).
var parityTable [256]bool

func init() {
	for v := 0; v < 256; v++ {
		n := 0
		for b := v; b != 0; b &= b - 1 {
			n++
		}
		parityTable[v] = n%2 == 0
	}
}

func zero(v uint8) bool    { return v == 0 }
func sign(v uint8) bool    { return v&0x80 != 0 }
func parity(v uint8) bool  { return parityTable[v] }
func carry8(v int32) bool  { return v < 0 || v > 0xFF }
func carry16(v int32) bool { return v < 0 || v > 0xFFFF }

func auxCarryAdd(a, b uint8, cy uint8) bool {
	return int32(a&0x0F)+int32(b&0x0F)+int32(cy) > 0x0F
}

func auxCarrySub(a, b uint8, cy uint8) bool {
	return int32(a&0x0F)-int32(b&0x0F)-int32(cy) < 0
}

// Flags holds the five architectural condition bits. It packs to and unpacks
// from the PSW byte exactly as spec'd: bit1 forced 1, bits 3/5 forced 0 on
// unpack, the same shape regardless of how the bits got there.
type Flags struct {
	S, Z, AC, P, CY bool
}

func (f Flags) Pack() uint8 {
	var b uint8 = flagB1
	if f.S {
		b |= FlagS
	}
	if f.Z {
		b |= FlagZ
	}
	if f.AC {
		b |= FlagAC
	}
	if f.P {
		b |= FlagP
	}
	if f.CY {
		b |= FlagCY
	}
	return b
}

func (f *Flags) Unpack(b uint8) {
	f.S = b&FlagS != 0
	f.Z = b&FlagZ != 0
	f.AC = b&FlagAC != 0
	f.P = b&FlagP != 0
	f.CY = b&FlagCY != 0
}

// setSZP updates S, Z and P from the 8-bit result; CY and AC are the
// caller's responsibility since they depend on the operation, not the result.
func (f *Flags) setSZP(result uint8) {
	f.S = sign(result)
	f.Z = zero(result)
	f.P = parity(result)
}

// test reports whether the named condition currently holds.
func (f Flags) test(c inst.CondID) bool {
	switch c {
	case inst.CondNZ:
		return !f.Z
	case inst.CondZ:
		return f.Z
	case inst.CondNC:
		return !f.CY
	case inst.CondC:
		return f.CY
	case inst.CondPO:
		return !f.P
	case inst.CondPE:
		return f.P
	case inst.CondP:
		return !f.S
	case inst.CondM:
		return f.S
	}
	return false
}
