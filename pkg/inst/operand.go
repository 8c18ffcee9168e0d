// Package inst holds the static decode table for the Intel 8080 instruction
// set: the opcode-byte-indexed catalog that maps each of the 256 possible
// opcode bytes to a descriptor naming its mnemonic, operand shape, size and
// T-state cost. It does not execute anything; pkg/cpu consumes this package.
package inst

// RegID identifies an 8-bit operand using the 8080's own 3-bit register
// field encoding, so a RegID can be read directly off an opcode byte with no
// translation table: (opcode>>3)&7 or opcode&7 is already a valid RegID.
type RegID uint8

const (
	RegB RegID = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM // memory[HL] — not a register, a routing token (spec §3)
	RegA
)

func (r RegID) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "?"
}

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// PairID identifies a 16-bit register pair. The same 2-bit field encodes
// either {BC,DE,HL,SP} (LXI/INX/DCX/DAD) or {BC,DE,HL,PSW} (PUSH/POP);
// which table applies depends on the mnemonic, not the bit pattern.
type PairID uint8

const (
	PairBC PairID = iota
	PairDE
	PairHL
	PairSP  // LXI/INX/DCX/DAD read this as SP
	PairPSW = PairSP // PUSH/POP read the same bit pattern as PSW
)

func (p PairID) stackName() string {
	switch p {
	case PairBC:
		return "BC"
	case PairDE:
		return "DE"
	case PairHL:
		return "HL"
	default:
		return "PSW"
	}
}

func (p PairID) regName() string {
	if p == PairSP {
		return "SP"
	}
	return p.stackName()
}

// CondID identifies one of the eight condition codes used by conditional
// jumps, calls and returns. Its bit pattern is (opcode>>3)&7.
type CondID uint8

const (
	CondNZ CondID = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

func (c CondID) String() string { return condNames[c] }

// OperandKind tells the executor where an instruction's operand(s) live.
type OperandKind uint8

const (
	KindNone    OperandKind = iota
	KindReg                 // Info.Reg (may be RegM, routed through memory[HL])
	KindRegPair             // 16-bit pair access via Info.RP (LXI/INX/DCX/DAD/LDAX/STAX)
	KindPushPop             // PUSH/POP — Info.RP read against the PSW table
	KindImm8                // 8-bit immediate follows the opcode
	KindImm16               // 16-bit immediate follows the opcode
	KindAddr16              // 16-bit absolute address follows (LDA/STA/LHLD/SHLD/JMP/CALL)
	KindCond                // conditional branch — Info.Cond selects the flag test
	KindCondAddr16          // conditional branch with an address operand (Jcc/Ccc)
	KindRST                 // Info.RST names the fixed vector (0..7)
	KindPort                // IN/OUT — 8-bit port number follows the opcode
)
