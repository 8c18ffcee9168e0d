package cpu

import (
	"errors"
	"testing"

	"github.com/matthewmpalen/i8080/pkg/inst"
)

func TestGetSetPair(t *testing.T) {
	var r Registers
	r.SetPair(inst.PairBC, 0x1234)
	if r.B != 0x12 || r.C != 0x34 {
		t.Fatalf("SetPair(BC, 0x1234): B=%#x C=%#x", r.B, r.C)
	}
	if got := r.GetPair(inst.PairBC); got != 0x1234 {
		t.Errorf("GetPair(BC) = %#x, want 0x1234", got)
	}
}

// TestSetPairMasksWideFirst guards against the source bug this spec
// documents: masking against 0xFF before splitting high/low would always
// zero the high byte.
func TestSetPairMasksWideFirst(t *testing.T) {
	var r Registers
	r.SetPair(inst.PairHL, 0xABCD)
	if r.H != 0xAB || r.L != 0xCD {
		t.Fatalf("SetPair(HL, 0xABCD): H=%#x L=%#x, want H=0xAB L=0xCD", r.H, r.L)
	}
}

func TestGet8Set8(t *testing.T) {
	var r Registers
	r.Set8(inst.RegA, 0x99)
	if got := r.Get8(inst.RegA); got != 0x99 {
		t.Errorf("Get8(A) = %#x, want 0x99", got)
	}
}

func TestGet8PanicsOnRegM(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Get8(RegM) did not panic")
		}
	}()
	var r Registers
	r.Get8(inst.RegM)
}

func TestIncDecWrapAndFlags(t *testing.T) {
	var r Registers
	r.Set8(inst.RegB, 0xFF)
	flags, err := r.Inc(inst.RegB, 1)
	if err != nil {
		t.Fatalf("Inc: %v", err)
	}
	if got := r.Get8(inst.RegB); got != 0x00 {
		t.Errorf("B = %#x after Inc(B,1) from 0xFF, want 0x00", got)
	}
	if !flags.Z || flags.S || !flags.P || !flags.AC {
		t.Errorf("flags = %+v, want Z=1 S=0 P=1 AC=1", flags)
	}

	flags, err = r.Dec(inst.RegB, 1)
	if err != nil {
		t.Fatalf("Dec: %v", err)
	}
	if got := r.Get8(inst.RegB); got != 0xFF {
		t.Errorf("B = %#x after Dec(B,1) from 0x00, want 0xFF", got)
	}
	if flags.Z || !flags.S || !flags.P || !flags.AC {
		t.Errorf("flags = %+v, want Z=0 S=1 P=1 AC=1", flags)
	}
}

func TestIncDecZeroDelta(t *testing.T) {
	var r Registers
	r.Set8(inst.RegC, 0x42)
	if _, err := r.Inc(inst.RegC, 0); err != nil {
		t.Fatalf("Inc with delta 0: %v", err)
	}
	if got := r.Get8(inst.RegC); got != 0x42 {
		t.Errorf("C = %#x after Inc(C,0), want unchanged 0x42", got)
	}
	if _, err := r.Dec(inst.RegC, 0); err != nil {
		t.Fatalf("Dec with delta 0: %v", err)
	}
}

func TestIncDecRejectsNegativeDelta(t *testing.T) {
	var r Registers
	r.Set8(inst.RegD, 0x10)
	if _, err := r.Inc(inst.RegD, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Inc(D,-1) err = %v, want ErrInvalidArgument", err)
	}
	if got := r.Get8(inst.RegD); got != 0x10 {
		t.Errorf("D = %#x after rejected Inc, want unchanged 0x10", got)
	}
	if _, err := r.Dec(inst.RegD, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Dec(D,-1) err = %v, want ErrInvalidArgument", err)
	}
}
