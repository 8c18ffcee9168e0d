package cpu

import (
	"context"
	"fmt"

	"github.com/matthewmpalen/i8080/pkg/inst"
)

// Snapshot is the read-only observability record spec'd for ambient tracing:
// exactly the register file, flags byte, SP, PC, cycle total and halted bit,
// taken after a completed Step. It is never persisted to disk.
type Snapshot struct {
	A, B, C, D, E, H, L uint8
	Flags               uint8
	SP, PC              uint16
	Cycles              uint64
	Halted              bool
}

// CPU is the single-threaded execution engine: register file, flags, memory,
// SP/PC, the interrupt-enable latch, and the I/O port seats, grounded on the
// teacher's flat State+Exec(*State,...) split (pkg/cpu/state.go,
// pkg/cpu/exec.go) generalized with PC, INTE and port hooks the teacher's
// Z80 optimizer never needed.
type CPU struct {
	Regs   Registers
	Flags  Flags
	Mem    Memory
	SP, PC uint16
	INTE   bool
	Halted bool
	Cycles uint64

	// InPort/OutPort are the two callback seats spec'd for IN/OUT. Neither
	// assumes any port is wired; a CPU from NewCPU reads 0 and discards
	// writes (on a zero-value CPU both are nil).
	InPort  func(port uint8) (uint8, error)
	OutPort func(port uint8, value uint8) error

	// interrupts is the thread-safe mailbox external actors enqueue pending
	// vectors into, mirroring the teacher's channel-based worker task
	// handoff (pkg/search/worker.go) sized down from a work queue to a
	// small interrupt mailbox.
	interrupts chan uint8

	eiArmed bool // EI executed last step; INTE takes effect once this step's instruction completes
}

const interruptMailboxSize = 8

// NewCPU returns a CPU with default no-op I/O hooks and a zeroed register
// file, flags, memory and PC/SP — the lifecycle spec calls "created once at
// power-on".
func NewCPU() *CPU {
	return &CPU{
		InPort:     func(uint8) (uint8, error) { return 0, nil },
		OutPort:    func(uint8, uint8) error { return nil },
		interrupts: make(chan uint8, interruptMailboxSize),
	}
}

// Load copies a ROM image into memory at address 0.
func (c *CPU) Load(image []byte) error {
	if err := c.Mem.Load(image); err != nil {
		return fmt.Errorf("cpu: load: %w", err)
	}
	return nil
}

// RaiseInterrupt enqueues an interrupt vector for delivery at the next
// instruction boundary where INTE is set.
func (c *CPU) RaiseInterrupt(vector uint8) error {
	if vector > 7 {
		return fmt.Errorf("cpu: interrupt vector %d: %w", vector, ErrInvalidArgument)
	}
	select {
	case c.interrupts <- vector:
		return nil
	default:
		return fmt.Errorf("cpu: interrupt mailbox full: %w", ErrIOFailure)
	}
}

func (c *CPU) pendingInterrupt() (uint8, bool) {
	select {
	case v := <-c.interrupts:
		return v, true
	default:
		return 0, false
	}
}

// push16 stores high at SP-1, low at SP-2, then SP -= 2 — the stack
// convention, kept deliberately distinct from Memory.Write16's generic
// addr/addr+1 store (see DESIGN.md's Open Question #1).
func (c *CPU) push16(v uint16) error {
	hi, lo := uint8(v>>8), uint8(v)
	if err := c.Mem.Write8(int(c.SP-1), hi); err != nil {
		return err
	}
	if err := c.Mem.Write8(int(c.SP-2), lo); err != nil {
		return err
	}
	c.SP -= 2
	return nil
}

func (c *CPU) pop16() (uint16, error) {
	lo, err := c.Mem.Read8(int(c.SP))
	if err != nil {
		return 0, err
	}
	hi, err := c.Mem.Read8(int(c.SP + 1))
	if err != nil {
		return 0, err
	}
	c.SP += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

// Step executes exactly one architectural step: an interrupt acceptance, or
// one fetch-decode-execute cycle, per spec §4.6. It returns the number of
// T-states consumed.
func (c *CPU) Step() (int, error) {
	// Only this goroutine receives from the mailbox, so a non-zero length
	// guarantees pendingInterrupt succeeds; a vector is left queued while
	// INTE is clear.
	hasInterrupt := len(c.interrupts) > 0

	if c.Halted && !hasInterrupt {
		return 0, nil
	}

	if hasInterrupt && c.INTE {
		vector, _ := c.pendingInterrupt()
		c.INTE = false
		c.Halted = false
		if err := c.push16(c.PC); err != nil {
			return 0, fmt.Errorf("cpu: interrupt push at pc %#x: %w", c.PC, err)
		}
		c.PC = 8 * uint16(vector)
		c.Cycles += 11
		return 11, nil
	}

	opcode, err := c.Mem.Read8(int(c.PC))
	if err != nil {
		return 0, fmt.Errorf("cpu: fetch at pc %#x: %w", c.PC, err)
	}
	info := inst.Decode(opcode)

	taken, err := c.execute(info)
	if err != nil {
		return 0, fmt.Errorf("cpu: execute %s at pc %#x: %w", info.Mnemonic, c.PC, err)
	}

	if !pcIsWriteVariant(info.Mnemonic) || (!taken && pcAdvancesOnUntaken(info.Mnemonic)) {
		c.PC += uint16(info.Size)
	}

	cycles := int(info.Cycles)
	if taken {
		cycles += int(info.Taken)
	}
	c.Cycles += uint64(cycles)

	if info.Mnemonic == inst.EI {
		c.eiArmed = true
	} else if c.eiArmed {
		c.INTE = true
		c.eiArmed = false
	}

	return cycles, nil
}

// pcIsWriteVariant reports whether mnem may write PC directly (branch
// family); such instructions manage their own PC advance inside execute.
func pcIsWriteVariant(m inst.Mnemonic) bool {
	switch m {
	case inst.JMP, inst.JCC, inst.CALL, inst.CCC, inst.RET, inst.RCC, inst.RST, inst.PCHL:
		return true
	}
	return false
}

// pcAdvancesOnUntaken reports whether an untaken conditional branch still
// needs its PC advanced by execute's normal post-step (it does — only the
// taken path overwrites PC directly).
func pcAdvancesOnUntaken(m inst.Mnemonic) bool {
	switch m {
	case inst.JCC, inst.CCC, inst.RCC:
		return true
	}
	return false
}

// Run repeats Step until halted, ctx is cancelled, or maxCycles is exhausted
// (0 means unbounded). Cancellation is cooperative: checked at instruction
// boundaries, never mid-instruction.
func (c *CPU) Run(ctx context.Context, maxCycles uint64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.Halted {
			return nil
		}
		if maxCycles != 0 && c.Cycles >= maxCycles {
			return nil
		}
		if _, err := c.Step(); err != nil {
			return err
		}
	}
}

// Snapshot returns the current observable state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.Regs.A, B: c.Regs.B, C: c.Regs.C, D: c.Regs.D,
		E: c.Regs.E, H: c.Regs.H, L: c.Regs.L,
		Flags:  c.Flags.Pack(),
		SP:     c.SP,
		PC:     c.PC,
		Cycles: c.Cycles,
		Halted: c.Halted,
	}
}
