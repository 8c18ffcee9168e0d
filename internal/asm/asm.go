// Package asm is a small mnemonic-text assembler for building test ROM
// images without hand-writing opcode bytes; no other package in this
// repository imports it. It is adapted from the teacher's parseAssembly/parseSingleInstruction
// text-matching idiom (cmd/z80opt/main.go) against pkg/inst's reverse
// mnemonic table instead of its OpCode-string Catalog.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matthewmpalen/i8080/pkg/inst"
)

var regByName = map[string]inst.RegID{
	"A": inst.RegA, "B": inst.RegB, "C": inst.RegC, "D": inst.RegD,
	"E": inst.RegE, "H": inst.RegH, "L": inst.RegL, "M": inst.RegM,
}

var pairByName = map[string]inst.PairID{
	"B": inst.PairBC, "D": inst.PairDE, "H": inst.PairHL, "SP": inst.PairSP,
	"BC": inst.PairBC, "DE": inst.PairDE, "HL": inst.PairHL, "PSW": inst.PairPSW,
}

// condSuffixes lists the eight condition mnemonics in inst.CondID order, used
// to recognize J<cc>/C<cc>/R<cc> forms like "JNZ" or "RPE".
var condSuffixes = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// Assemble parses ':'-separated mnemonic statements (mirroring the teacher's
// multi-instruction ':'-joined sequence syntax) into a flat byte stream.
func Assemble(text string) ([]byte, error) {
	var out []byte
	for _, stmt := range strings.Split(text, ":") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		bytes, err := assembleOne(stmt)
		if err != nil {
			return nil, fmt.Errorf("asm: cannot parse %q: %w", stmt, err)
		}
		out = append(out, bytes...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("asm: no instructions parsed from %q", text)
	}
	return out, nil
}

func assembleOne(stmt string) ([]byte, error) {
	mnemonic, operandText, _ := strings.Cut(stmt, " ")
	mnemonic = strings.ToUpper(strings.TrimSpace(mnemonic))
	operandText = strings.TrimSpace(operandText)
	var operands []string
	if operandText != "" {
		for _, op := range strings.Split(operandText, ",") {
			operands = append(operands, strings.TrimSpace(op))
		}
	}

	if opcode, ok := findNoOperand(mnemonic); ok {
		return []byte{opcode}, nil
	}
	if opcode, ok := findMVIForm(mnemonic, operands); ok {
		return mviBytes(opcode, operands)
	}
	if opcode, ok := findRegisterForm(mnemonic, operands); ok {
		return []byte{opcode}, nil
	}
	if opcode, ok := findPairForm(mnemonic, operands); ok {
		return pairBytes(opcode, operands)
	}
	if opcode, ok := findPushPopForm(mnemonic, operands); ok {
		return []byte{opcode}, nil
	}
	if opcode, ok := findRSTForm(mnemonic, operands); ok {
		return []byte{opcode}, nil
	}
	if opcode, ok := findCondForm(mnemonic); ok {
		return condBytes(opcode, operands)
	}
	if opcode, ok := findImmediateForm(mnemonic); ok {
		return immediateBytes(opcode, operands)
	}
	return nil, fmt.Errorf("unrecognized mnemonic %q", mnemonic)
}

func findNoOperand(mnemonic string) (byte, bool) {
	for op := 0; op < 256; op++ {
		info := &inst.Catalog[op]
		if info.Kind == inst.KindNone && info.Mnemonic.String() == mnemonic {
			return byte(op), true
		}
	}
	return 0, false
}

// findRegisterForm handles MOV r1,r2 and single-register ALU/INR/DCR forms.
func findRegisterForm(mnemonic string, operands []string) (byte, bool) {
	if mnemonic == "MOV" && len(operands) == 2 {
		dst, ok1 := regByName[strings.ToUpper(operands[0])]
		src, ok2 := regByName[strings.ToUpper(operands[1])]
		if !ok1 || !ok2 {
			return 0, false
		}
		return byte(0x40 | uint8(dst)<<3 | uint8(src)), true
	}
	if len(operands) != 1 {
		return 0, false
	}
	r, ok := regByName[strings.ToUpper(operands[0])]
	if !ok {
		return 0, false
	}
	for op := 0; op < 256; op++ {
		info := &inst.Catalog[op]
		if info.Kind == inst.KindReg && info.Mnemonic.String() == mnemonic && info.Reg == r && info.Reg2 == 0 && mnemonic != "MOV" {
			return byte(op), true
		}
	}
	return 0, false
}

func findMVIForm(mnemonic string, operands []string) (byte, bool) {
	if mnemonic != "MVI" || len(operands) != 2 {
		return 0, false
	}
	r, ok := regByName[strings.ToUpper(operands[0])]
	if !ok {
		return 0, false
	}
	return byte(0x06 | uint8(r)<<3), true
}

func mviBytes(opcode byte, operands []string) ([]byte, error) {
	v, err := strconv.ParseUint(operands[1], 0, 8)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v)}, nil
}

func findPairForm(mnemonic string, operands []string) (byte, bool) {
	if len(operands) < 1 {
		return 0, false
	}
	rp, ok := pairByName[strings.ToUpper(operands[0])]
	if !ok {
		return 0, false
	}
	for op := 0; op < 256; op++ {
		info := &inst.Catalog[op]
		if info.Kind != inst.KindRegPair || info.Mnemonic.String() != mnemonic {
			continue
		}
		if info.RP == rp {
			return byte(op), true
		}
	}
	return 0, false
}

func findPushPopForm(mnemonic string, operands []string) (byte, bool) {
	if len(operands) != 1 || (mnemonic != "PUSH" && mnemonic != "POP") {
		return 0, false
	}
	rp, ok := pairByName[strings.ToUpper(operands[0])]
	if !ok {
		return 0, false
	}
	for op := 0; op < 256; op++ {
		info := &inst.Catalog[op]
		if info.Kind == inst.KindPushPop && info.Mnemonic.String() == mnemonic && info.RP == rp {
			return byte(op), true
		}
	}
	return 0, false
}

func findRSTForm(mnemonic string, operands []string) (byte, bool) {
	if mnemonic != "RST" || len(operands) != 1 {
		return 0, false
	}
	n, err := strconv.ParseUint(operands[0], 0, 8)
	if err != nil || n > 7 {
		return 0, false
	}
	return byte(0xC7 | n<<3), true
}

// findCondForm recognizes J<cc>/C<cc>/R<cc> by stripping the leading letter
// and matching the remainder against condSuffixes.
func findCondForm(mnemonic string) (byte, bool) {
	if len(mnemonic) < 2 {
		return 0, false
	}
	lead, suffix := mnemonic[:1], mnemonic[1:]
	var base byte
	switch lead {
	case "J":
		base = 0xC2
	case "C":
		base = 0xC4
	case "R":
		base = 0xC0
	default:
		return 0, false
	}
	for i, s := range condSuffixes {
		if s == suffix {
			return base | byte(i)<<3, true
		}
	}
	return 0, false
}

func findImmediateForm(mnemonic string) (byte, bool) {
	for op := 0; op < 256; op++ {
		info := &inst.Catalog[op]
		switch info.Kind {
		case inst.KindImm8, inst.KindImm16, inst.KindAddr16, inst.KindPort:
			if info.Mnemonic.String() == mnemonic && info.Reg == 0 {
				return byte(op), true
			}
		}
	}
	return 0, false
}

func pairBytes(opcode byte, operands []string) ([]byte, error) {
	info := &inst.Catalog[opcode]
	if info.Mnemonic != inst.LXI {
		return []byte{opcode}, nil
	}
	if len(operands) != 2 {
		return nil, fmt.Errorf("LXI requires two operands")
	}
	v, err := strconv.ParseUint(operands[1], 0, 16)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v), byte(v >> 8)}, nil
}

func condBytes(opcode byte, operands []string) ([]byte, error) {
	info := &inst.Catalog[opcode]
	if info.Kind != inst.KindCondAddr16 {
		return []byte{opcode}, nil
	}
	if len(operands) != 1 {
		return nil, fmt.Errorf("%s requires an address operand", info.Mnemonic)
	}
	v, err := strconv.ParseUint(operands[0], 0, 16)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v), byte(v >> 8)}, nil
}

func immediateBytes(opcode byte, operands []string) ([]byte, error) {
	info := &inst.Catalog[opcode]
	if len(operands) != 1 {
		return nil, fmt.Errorf("%s requires one operand", info.Mnemonic)
	}
	if info.Kind == inst.KindImm16 || info.Kind == inst.KindAddr16 {
		v, err := strconv.ParseUint(operands[0], 0, 16)
		if err != nil {
			return nil, err
		}
		return []byte{opcode, byte(v), byte(v >> 8)}, nil
	}
	v, err := strconv.ParseUint(operands[0], 0, 8)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v)}, nil
}
