// Package conformance exhaustively checks the CPU core's universal
// invariants across their full input domains, parallelized across a worker
// pool sized to runtime.NumCPU() — adapted from the teacher's
// pkg/search/worker.go WorkerPool/RunTasks and pkg/search/verifier.go
// per-candidate verification loop, repurposed from searching for
// instruction-sequence equivalences to checking this CPU's own properties.
package conformance

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/matthewmpalen/i8080/pkg/cpu"
	"github.com/matthewmpalen/i8080/pkg/inst"
)

// Failure describes one property violation: which property, which inputs,
// and what was observed, mirroring the teacher's verifier reporting a
// mismatching candidate rather than a bare boolean.
type Failure struct {
	Property string
	Detail   string
}

// Report is the aggregate result of a conformance run.
type Report struct {
	Checked  int64
	Failures []Failure
}

// task is one unit of work: an input partition of a property to check.
type task func() []Failure

// Run executes every registered property exhaustively, distributing work
// across numWorkers goroutines (runtime.NumCPU() when numWorkers <= 0,
// exactly NewWorkerPool's default).
func Run(numWorkers int) *Report {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tasks := buildTasks()
	ch := make(chan task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var (
		checked  atomic.Int64
		mu       sync.Mutex
		failures []Failure
		wg       sync.WaitGroup
	)
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range ch {
				fails := t()
				checked.Add(1)
				if len(fails) > 0 {
					mu.Lock()
					failures = append(failures, fails...)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	return &Report{Checked: checked.Load(), Failures: failures}
}

func buildTasks() []task {
	var tasks []task
	for a := 0; a < 256; a++ {
		a := uint8(a)
		tasks = append(tasks, func() []Failure { return checkAddSubRoundTrip(a) })
		tasks = append(tasks, func() []Failure { return checkIncDecRoundTrip(a) })
	}
	tasks = append(tasks, func() []Failure { return checkRotateIdentity() })
	tasks = append(tasks, func() []Failure { return checkParityMatchesPopcount() })
	tasks = append(tasks, func() []Failure { return checkMVIRoundTrip() })
	tasks = append(tasks, func() []Failure { return checkLXIRoundTrip() })
	tasks = append(tasks, func() []Failure { return checkPushPopRoundTrip() })
	tasks = append(tasks, func() []Failure { return checkPushPopPSWMasking() })
	return tasks
}

// checkAddSubRoundTrip verifies: for a fixed A and every B, CY, running
// `ADD B` then `SUB B` restores A.
func checkAddSubRoundTrip(a uint8) []Failure {
	var fails []Failure
	for b := 0; b < 256; b++ {
		for cy := 0; cy < 2; cy++ {
			c := cpu.NewCPU()
			c.Regs.A = a
			c.Regs.B = uint8(b)
			c.Flags.CY = cy == 1
			c.Mem[0], c.Mem[1] = 0x80, 0x90 // ADD B ; SUB B
			c.PC = 0
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"add-sub-roundtrip", fmt.Sprintf("A=%#x B=%#x CY=%d: ADD step: %v", a, b, cy, err)})
				continue
			}
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"add-sub-roundtrip", fmt.Sprintf("A=%#x B=%#x CY=%d: SUB step: %v", a, b, cy, err)})
				continue
			}
			if c.Regs.A != a {
				fails = append(fails, Failure{
					"add-sub-roundtrip",
					fmt.Sprintf("A=%#x B=%#x CY=%d: got A=%#x after ADD B; SUB B", a, b, cy, c.Regs.A),
				})
			}
		}
	}
	return fails
}

// checkIncDecRoundTrip verifies INR B; DCR B restores B for every starting
// value, independent of CY (INR/DCR never touch it).
func checkIncDecRoundTrip(start uint8) []Failure {
	c := cpu.NewCPU()
	c.Regs.B = start
	c.Mem[0], c.Mem[1] = 0x04, 0x05 // INR B ; DCR B
	c.PC = 0
	if _, err := c.Step(); err != nil {
		return []Failure{{"inr-dcr-roundtrip", fmt.Sprintf("B=%#x: INR step: %v", start, err)}}
	}
	if _, err := c.Step(); err != nil {
		return []Failure{{"inr-dcr-roundtrip", fmt.Sprintf("B=%#x: DCR step: %v", start, err)}}
	}
	if c.Regs.B != start {
		return []Failure{{"inr-dcr-roundtrip", fmt.Sprintf("B=%#x: got B=%#x after INR B; DCR B", start, c.Regs.B)}}
	}
	return nil
}

// checkRotateIdentity verifies RLC and RRC applied 8 times each are the
// identity on A, for every starting A.
func checkRotateIdentity() []Failure {
	var fails []Failure
	for a := 0; a < 256; a++ {
		for _, op := range []struct {
			name string
			code byte
		}{{"RLC", 0x07}, {"RRC", 0x0F}} {
			c := cpu.NewCPU()
			c.Regs.A = uint8(a)
			for i := 0; i < 8; i++ {
				c.Mem[i] = op.code
			}
			c.PC = 0
			for i := 0; i < 8; i++ {
				if _, err := c.Step(); err != nil {
					fails = append(fails, Failure{"rotate-identity", fmt.Sprintf("%s A=%#x step %d: %v", op.name, a, i, err)})
					break
				}
			}
			if c.Regs.A != uint8(a) {
				fails = append(fails, Failure{"rotate-identity", fmt.Sprintf("%s applied 8x to A=%#x yielded %#x", op.name, a, c.Regs.A)})
			}
		}
	}
	return fails
}

// checkParityMatchesPopcount verifies P equals popcount-even for every byte,
// observed via CPI 0 (which sets flags from A without altering it).
func checkParityMatchesPopcount() []Failure {
	var fails []Failure
	for v := 0; v < 256; v++ {
		popcountEven := true
		n := 0
		for b := v; b != 0; b &= b - 1 {
			n++
		}
		popcountEven = n%2 == 0

		c := cpu.NewCPU()
		c.Regs.A = uint8(v)
		c.Mem[0], c.Mem[1] = 0xFE, 0x00 // CPI 0
		c.PC = 0
		if _, err := c.Step(); err != nil {
			fails = append(fails, Failure{"parity-matches-popcount", fmt.Sprintf("v=%#x: %v", v, err)})
			continue
		}
		if c.Flags.P != popcountEven {
			fails = append(fails, Failure{"parity-matches-popcount", fmt.Sprintf("v=%#x: P=%v want %v", v, c.Flags.P, popcountEven)})
		}
	}
	return fails
}

// checkMVIRoundTrip verifies MVI r,v followed by reading r yields v, for
// every register and a representative sample of v (every byte value).
func checkMVIRoundTrip() []Failure {
	var fails []Failure
	regs := []inst.RegID{inst.RegA, inst.RegB, inst.RegC, inst.RegD, inst.RegE, inst.RegH, inst.RegL}
	for _, r := range regs {
		for v := 0; v < 256; v++ {
			c := cpu.NewCPU()
			opcode := byte(0x06 | uint8(r)<<3)
			c.Mem[0], c.Mem[1] = opcode, byte(v)
			c.PC = 0
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"mvi-roundtrip", fmt.Sprintf("r=%s v=%#x: %v", r, v, err)})
				continue
			}
			if got := c.Regs.Get8(r); got != uint8(v) {
				fails = append(fails, Failure{"mvi-roundtrip", fmt.Sprintf("r=%s v=%#x: got %#x", r, v, got)})
			}
		}
	}
	return fails
}

// checkLXIRoundTrip verifies LXI rp,v; get_pair(rp) == v for BC/DE/HL across
// every 16-bit value.
func checkLXIRoundTrip() []Failure {
	var fails []Failure
	pairs := []struct {
		name string
		rp   inst.PairID
		base byte
	}{{"BC", inst.PairBC, 0x01}, {"DE", inst.PairDE, 0x11}, {"HL", inst.PairHL, 0x21}}
	for _, p := range pairs {
		for v := 0; v <= 0xFFFF; v++ {
			c := cpu.NewCPU()
			c.Mem[0], c.Mem[1], c.Mem[2] = p.base, byte(v), byte(v>>8)
			c.PC = 0
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"lxi-roundtrip", fmt.Sprintf("rp=%s v=%#x: %v", p.name, v, err)})
				continue
			}
			if got := c.Regs.GetPair(p.rp); got != uint16(v) {
				fails = append(fails, Failure{"lxi-roundtrip", fmt.Sprintf("rp=%s v=%#x: got %#x", p.name, v, got)})
			}
		}
	}
	return fails
}

// checkPushPopRoundTrip verifies PUSH rp; POP rp leaves the pair and SP
// unchanged, for BC/DE/HL. PSW is checked separately by
// checkPushPopPSWMasking since its bit-forcing rules differ.
func checkPushPopRoundTrip() []Failure {
	var fails []Failure
	type pushPop struct {
		name        string
		pushOp      byte
		popOp       byte
		setValue    func(c *cpu.CPU, v uint16)
		readValue   func(c *cpu.CPU) uint16
	}
	cases := []pushPop{
		{"BC", 0xC5, 0xC1,
			func(c *cpu.CPU, v uint16) { c.Regs.SetPair(inst.PairBC, v) },
			func(c *cpu.CPU) uint16 { return c.Regs.GetPair(inst.PairBC) }},
		{"DE", 0xD5, 0xD1,
			func(c *cpu.CPU, v uint16) { c.Regs.SetPair(inst.PairDE, v) },
			func(c *cpu.CPU) uint16 { return c.Regs.GetPair(inst.PairDE) }},
		{"HL", 0xE5, 0xE1,
			func(c *cpu.CPU, v uint16) { c.Regs.SetPair(inst.PairHL, v) },
			func(c *cpu.CPU) uint16 { return c.Regs.GetPair(inst.PairHL) }},
	}
	for _, tc := range cases {
		for v := 0; v <= 0xFFFF; v++ {
			c := cpu.NewCPU()
			c.SP = 0x2400
			tc.setValue(c, uint16(v))
			c.Mem[0], c.Mem[1] = tc.pushOp, tc.popOp
			c.PC = 0
			startSP := c.SP
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"push-pop-roundtrip", fmt.Sprintf("%s v=%#x: push: %v", tc.name, v, err)})
				continue
			}
			if _, err := c.Step(); err != nil {
				fails = append(fails, Failure{"push-pop-roundtrip", fmt.Sprintf("%s v=%#x: pop: %v", tc.name, v, err)})
				continue
			}
			if c.SP != startSP {
				fails = append(fails, Failure{"push-pop-roundtrip", fmt.Sprintf("%s v=%#x: SP changed %#x -> %#x", tc.name, v, startSP, c.SP)})
			}
			if got := tc.readValue(c); got != uint16(v) {
				fails = append(fails, Failure{"push-pop-roundtrip", fmt.Sprintf("%s v=%#x: got %#x", tc.name, v, got)})
			}
		}
	}
	return fails
}

// checkPushPopPSWMasking verifies PUSH PSW; POP PSW forces bit 1 set and
// bits 3/5 clear in the popped flags byte, for every packable flags state.
func checkPushPopPSWMasking() []Failure {
	var fails []Failure
	for raw := 0; raw < 256; raw++ {
		c := cpu.NewCPU()
		c.SP = 0x2400
		c.Regs.A = 0x42
		c.Flags.Unpack(uint8(raw))
		wantFlags := c.Flags.Pack() // what a round trip through Pack/Unpack normalizes to
		c.Mem[0], c.Mem[1] = 0xF5, 0xF1 // PUSH PSW ; POP PSW
		c.PC = 0
		if _, err := c.Step(); err != nil {
			fails = append(fails, Failure{"push-pop-psw-masking", fmt.Sprintf("raw=%#x: push: %v", raw, err)})
			continue
		}
		if _, err := c.Step(); err != nil {
			fails = append(fails, Failure{"push-pop-psw-masking", fmt.Sprintf("raw=%#x: pop: %v", raw, err)})
			continue
		}
		if c.Regs.A != 0x42 {
			fails = append(fails, Failure{"push-pop-psw-masking", fmt.Sprintf("raw=%#x: A changed to %#x", raw, c.Regs.A)})
		}
		if got := c.Flags.Pack(); got != wantFlags {
			fails = append(fails, Failure{"push-pop-psw-masking", fmt.Sprintf("raw=%#x: flags byte %#x want %#x", raw, got, wantFlags)})
		}
	}
	return fails
}
