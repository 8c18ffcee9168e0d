package cpu

import (
	"fmt"

	"github.com/matthewmpalen/i8080/pkg/inst"
)

// getOperand8 resolves an 8-bit operand, routing RegM through memory at HL
// instead of the register file (spec §4.2's M tie-break).
func (c *CPU) getOperand8(id inst.RegID) uint8 {
	if id == inst.RegM {
		return c.Mem[c.Regs.GetPair(inst.PairHL)]
	}
	return c.Regs.Get8(id)
}

func (c *CPU) setOperand8(id inst.RegID, v uint8) {
	if id == inst.RegM {
		c.Mem[c.Regs.GetPair(inst.PairHL)] = v
		return
	}
	c.Regs.Set8(id, v)
}

// getPairOrSP and setPairOrSP resolve a register-pair operand that may name
// SP (LXI/INX/DCX/DAD read PairSP as the architectural stack pointer,
// not a fourth register pair).
func (c *CPU) getPairOrSP(p inst.PairID) uint16 {
	if p == inst.PairSP {
		return c.SP
	}
	return c.Regs.GetPair(p)
}

func (c *CPU) setPairOrSP(p inst.PairID, v uint16) {
	if p == inst.PairSP {
		c.SP = v
		return
	}
	c.Regs.SetPair(p, v)
}

// aluOperand resolves an ALU source operand: the immediate byte for the d8
// forms (ADI/ACI/SUI/SBI/ANI/XRI/ORI/CPI), else the named register or M.
func (c *CPU) aluOperand(info *inst.Info) uint8 {
	if info.Kind == inst.KindImm8 {
		return c.imm8()
	}
	return c.getOperand8(info.Reg)
}

func (c *CPU) imm8() uint8   { return c.Mem[c.PC+1] }
func (c *CPU) imm16() uint16 { return uint16(c.Mem[c.PC+1]) | uint16(c.Mem[c.PC+2])<<8 }

// execute runs the instruction named by info, consuming any immediate bytes
// via c.PC-relative reads and mutating register file, flags, memory, SP/PC
// as spec'd in §4.4. It returns whether the instruction took a branch (for
// conditional jump/call/return and the unconditional control-transfer
// family); Step uses that to decide whether to apply the normal PC advance.
func (c *CPU) execute(info *inst.Info) (bool, error) {
	switch info.Mnemonic {
	case inst.NOP:
		return false, nil

	case inst.MOV:
		c.setOperand8(info.Reg, c.getOperand8(info.Reg2))
		return false, nil

	case inst.MVI:
		c.setOperand8(info.Reg, c.imm8())
		return false, nil

	case inst.LXI:
		c.setPairOrSP(info.RP, c.imm16())
		return false, nil

	case inst.LDA:
		c.Regs.A = c.Mem[c.imm16()]
		return false, nil

	case inst.STA:
		c.Mem[c.imm16()] = c.Regs.A
		return false, nil

	case inst.LHLD:
		addr := c.imm16()
		c.Regs.L = c.Mem[addr]
		c.Regs.H = c.Mem[addr+1]
		return false, nil

	case inst.SHLD:
		addr := c.imm16()
		c.Mem[addr] = c.Regs.L
		c.Mem[addr+1] = c.Regs.H
		return false, nil

	case inst.LDAX:
		c.Regs.A = c.Mem[c.Regs.GetPair(info.RP)]
		return false, nil

	case inst.STAX:
		c.Mem[c.Regs.GetPair(info.RP)] = c.Regs.A
		return false, nil

	case inst.XCHG:
		c.Regs.H, c.Regs.D = c.Regs.D, c.Regs.H
		c.Regs.L, c.Regs.E = c.Regs.E, c.Regs.L
		return false, nil

	case inst.ADD, inst.ADC:
		operand := c.aluOperand(info)
		c.Regs.A = addWithCarry(&c.Flags, c.Regs.A, operand, carryIn(info.Mnemonic == inst.ADC, c.Flags.CY))
		return false, nil

	case inst.SUB, inst.SBB:
		operand := c.aluOperand(info)
		c.Regs.A = subWithBorrow(&c.Flags, c.Regs.A, operand, carryIn(info.Mnemonic == inst.SBB, c.Flags.CY))
		return false, nil

	case inst.ANA:
		c.Regs.A = logicAnd(&c.Flags, c.Regs.A, c.aluOperand(info))
		return false, nil

	case inst.XRA:
		c.Regs.A = logicXor(&c.Flags, c.Regs.A, c.aluOperand(info))
		return false, nil

	case inst.ORA:
		c.Regs.A = logicOr(&c.Flags, c.Regs.A, c.aluOperand(info))
		return false, nil

	case inst.CMP:
		subWithBorrow(&c.Flags, c.Regs.A, c.aluOperand(info), 0)
		return false, nil

	case inst.INR:
		c.setOperand8(info.Reg, incByte(&c.Flags, c.getOperand8(info.Reg)))
		return false, nil

	case inst.DCR:
		c.setOperand8(info.Reg, decByte(&c.Flags, c.getOperand8(info.Reg)))
		return false, nil

	case inst.INX:
		c.setPairOrSP(info.RP, c.getPairOrSP(info.RP)+1)
		return false, nil

	case inst.DCX:
		c.setPairOrSP(info.RP, c.getPairOrSP(info.RP)-1)
		return false, nil

	case inst.DAD:
		hl := c.Regs.GetPair(inst.PairHL)
		c.Regs.SetPair(inst.PairHL, dad(&c.Flags, hl, c.getPairOrSP(info.RP)))
		return false, nil

	case inst.DAA:
		c.Regs.A = daa(&c.Flags, c.Regs.A)
		return false, nil

	case inst.RLC:
		c.Regs.A = rlc(&c.Flags, c.Regs.A)
		return false, nil

	case inst.RRC:
		c.Regs.A = rrc(&c.Flags, c.Regs.A)
		return false, nil

	case inst.RAL:
		c.Regs.A = ral(&c.Flags, c.Regs.A)
		return false, nil

	case inst.RAR:
		c.Regs.A = rar(&c.Flags, c.Regs.A)
		return false, nil

	case inst.CMA:
		c.Regs.A = ^c.Regs.A
		return false, nil

	case inst.STC:
		c.Flags.CY = true
		return false, nil

	case inst.CMC:
		c.Flags.CY = !c.Flags.CY
		return false, nil

	case inst.JMP:
		c.PC = c.imm16()
		return true, nil

	case inst.JCC:
		if c.Flags.test(info.Cond) {
			c.PC = c.imm16()
			return true, nil
		}
		return false, nil

	case inst.CALL:
		if err := c.push16(c.PC + 3); err != nil {
			return false, err
		}
		c.PC = c.imm16()
		return true, nil

	case inst.CCC:
		if c.Flags.test(info.Cond) {
			if err := c.push16(c.PC + 3); err != nil {
				return false, err
			}
			c.PC = c.imm16()
			return true, nil
		}
		return false, nil

	case inst.RET:
		addr, err := c.pop16()
		if err != nil {
			return false, err
		}
		c.PC = addr
		return true, nil

	case inst.RCC:
		if c.Flags.test(info.Cond) {
			addr, err := c.pop16()
			if err != nil {
				return false, err
			}
			c.PC = addr
			return true, nil
		}
		return false, nil

	case inst.RST:
		if err := c.push16(c.PC + 1); err != nil {
			return false, err
		}
		c.PC = 8 * uint16(info.RST)
		return true, nil

	case inst.PCHL:
		c.PC = c.Regs.GetPair(inst.PairHL)
		return true, nil

	case inst.PUSH:
		hi, lo := c.pushPopPair(info.RP)
		return false, c.push16(uint16(hi)<<8 | uint16(lo))

	case inst.POP:
		v, err := c.pop16()
		if err != nil {
			return false, err
		}
		c.setPushPopPair(info.RP, uint8(v>>8), uint8(v))
		return false, nil

	case inst.XTHL:
		lo, hi := c.Mem[c.SP], c.Mem[c.SP+1]
		c.Mem[c.SP], c.Mem[c.SP+1] = c.Regs.L, c.Regs.H
		c.Regs.L, c.Regs.H = lo, hi
		return false, nil

	case inst.SPHL:
		c.SP = c.Regs.GetPair(inst.PairHL)
		return false, nil

	case inst.EI:
		return false, nil // Step arms the one-instruction delay.

	case inst.DI:
		c.INTE = false
		c.eiArmed = false
		return false, nil

	case inst.HLT:
		c.Halted = true
		return false, nil

	case inst.IN:
		v, err := c.InPort(c.imm8())
		if err != nil {
			return false, fmt.Errorf("in port %#x: %w", c.imm8(), err)
		}
		c.Regs.A = v
		return false, nil

	case inst.OUT:
		if err := c.OutPort(c.imm8(), c.Regs.A); err != nil {
			return false, fmt.Errorf("out port %#x: %w", c.imm8(), err)
		}
		return false, nil
	}

	return false, ErrUnhandledInstruction
}

func carryIn(withCarry bool, cy bool) uint8 {
	if withCarry && cy {
		return 1
	}
	return 0
}

// pushPopPair reads a PUSH source as (high,low); PairSP in this context
// names PSW, not SP, per spec §4.4.
func (c *CPU) pushPopPair(p inst.PairID) (hi, lo uint8) {
	if p == inst.PairSP {
		return c.Regs.A, c.Flags.Pack()
	}
	v := c.Regs.GetPair(p)
	return uint8(v >> 8), uint8(v)
}

// setPushPopPair writes a POP destination. POP PSW forces bit 1 set and
// bits 3/5 clear via Flags.Unpack.
func (c *CPU) setPushPopPair(p inst.PairID, hi, lo uint8) {
	if p == inst.PairSP {
		c.Regs.A = hi
		c.Flags.Unpack(lo)
		return
	}
	c.Regs.SetPair(p, uint16(hi)<<8|uint16(lo))
}
