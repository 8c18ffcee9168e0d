package cpu

import (
	"fmt"

	"github.com/matthewmpalen/i8080/pkg/inst"
)

// Registers is the flat mutable register file: six general-purpose 8-bit
// registers plus A, grounded on the teacher's flat State{A,B,C,D,E,H,L}
// struct (pkg/cpu/state.go) rather than a map or slice indirection.
type Registers struct {
	A, B, C, D, E, H, L uint8
}

// Get8 reads an 8-bit register. RegM is never valid here; callers route M
// through Memory at HL before reaching this method.
func (r *Registers) Get8(id inst.RegID) uint8 {
	switch id {
	case inst.RegA:
		return r.A
	case inst.RegB:
		return r.B
	case inst.RegC:
		return r.C
	case inst.RegD:
		return r.D
	case inst.RegE:
		return r.E
	case inst.RegH:
		return r.H
	case inst.RegL:
		return r.L
	}
	panic("cpu: Get8 called with RegM")
}

func (r *Registers) Set8(id inst.RegID, v uint8) {
	switch id {
	case inst.RegA:
		r.A = v
	case inst.RegB:
		r.B = v
	case inst.RegC:
		r.C = v
	case inst.RegD:
		r.D = v
	case inst.RegE:
		r.E = v
	case inst.RegH:
		r.H = v
	case inst.RegL:
		r.L = v
	default:
		panic("cpu: Set8 called with RegM")
	}
}

// GetPair reads a 16-bit register pair, high byte first (B+C, D+E, H+L).
// PairSP is not valid here; the CPU reads SP directly.
func (r *Registers) GetPair(p inst.PairID) uint16 {
	switch p {
	case inst.PairBC:
		return uint16(r.B)<<8 | uint16(r.C)
	case inst.PairDE:
		return uint16(r.D)<<8 | uint16(r.E)
	case inst.PairHL:
		return uint16(r.H)<<8 | uint16(r.L)
	}
	panic("cpu: GetPair called with PairSP")
}

// SetPair stores a 16-bit value into a register pair. It masks against
// 0xFFFF before splitting into high/low bytes — the Python draft this spec
// was distilled from masked against 0xFF first, which would always zero the
// high byte; that is a documented source bug, not the intended behavior.
func (r *Registers) SetPair(p inst.PairID, v uint16) {
	v &= 0xFFFF
	high, low := uint8(v>>8), uint8(v)
	switch p {
	case inst.PairBC:
		r.B, r.C = high, low
	case inst.PairDE:
		r.D, r.E = high, low
	case inst.PairHL:
		r.H, r.L = high, low
	default:
		panic("cpu: SetPair called with PairSP")
	}
}

// Inc adds a non-negative delta to register r over a widened integer, writes
// the masked 8-bit result back, and returns a flags snapshot (S, Z, P, AC)
// computed from the operation, grounded on original_source's
// Register.increment contract. A negative delta is a programmer error (spec
// §7 InvalidArgument), not a wraparound case, and is rejected rather than
// silently masked.
func (r *Registers) Inc(id inst.RegID, delta int) (Flags, error) {
	if delta < 0 {
		return Flags{}, fmt.Errorf("registers: inc delta %d: %w", delta, ErrInvalidArgument)
	}
	v := r.Get8(id)
	wide := int32(v) + int32(delta)
	result := uint8(wide)
	r.Set8(id, result)
	return Flags{S: sign(result), Z: zero(result), P: parity(result), AC: auxCarryAdd(v, uint8(delta), 0)}, nil
}

// Dec subtracts a non-negative delta from register r over a widened integer,
// writes the masked 8-bit result back, and returns a flags snapshot (S, Z, P,
// AC). A negative delta is rejected the same way Inc rejects one.
func (r *Registers) Dec(id inst.RegID, delta int) (Flags, error) {
	if delta < 0 {
		return Flags{}, fmt.Errorf("registers: dec delta %d: %w", delta, ErrInvalidArgument)
	}
	v := r.Get8(id)
	wide := int32(v) - int32(delta)
	result := uint8(wide)
	r.Set8(id, result)
	return Flags{S: sign(result), Z: zero(result), P: parity(result), AC: auxCarrySub(v, uint8(delta), 0)}, nil
}
