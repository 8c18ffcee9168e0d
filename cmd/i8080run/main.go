package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthewmpalen/i8080/internal/conformance"
	"github.com/matthewmpalen/i8080/pkg/cpu"
	"github.com/matthewmpalen/i8080/pkg/inst"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "i8080run",
		Short: "Intel 8080 emulator",
	}

	var maxCycles uint64
	var portLog bool
	runCmd := &cobra.Command{
		Use:   "run <rom-path>",
		Short: "Load a ROM image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runROM(args[0], maxCycles, portLog)
		},
	}
	runCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "stop after this many T-states (0 = unbounded)")
	runCmd.Flags().BoolVar(&portLog, "port-log", false, "log every IN/OUT to stderr")

	var verbose bool
	selftestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the exhaustive conformance suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelftest(verbose)
		},
	}
	selftestCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print how many checks ran before the failures")

	disasmCmd := &cobra.Command{
		Use:   "disasm <rom-path>",
		Short: "Disassemble a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, selftestCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runROM(path string, maxCycles uint64, portLog bool) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	c := cpu.NewCPU()
	if err := c.Load(image); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if portLog {
		inPort, outPort := c.InPort, c.OutPort
		c.InPort = func(port uint8) (uint8, error) {
			v, err := inPort(port)
			fmt.Fprintf(os.Stderr, "IN  port=%#02x value=%#02x\n", port, v)
			return v, err
		}
		c.OutPort = func(port uint8, value uint8) error {
			fmt.Fprintf(os.Stderr, "OUT port=%#02x value=%#02x\n", port, value)
			return outPort(port, value)
		}
	}

	if err := c.Run(context.Background(), maxCycles); err != nil {
		snap := c.Snapshot()
		fmt.Fprintf(os.Stderr, "halted with error at pc=%#04x cycles=%d\n", snap.PC, snap.Cycles)
		return fmt.Errorf("run: %w", err)
	}

	snap := c.Snapshot()
	fmt.Printf("halted pc=%#04x cycles=%d a=%#02x bc=%#04x de=%#04x hl=%#04x sp=%#04x flags=%#02x\n",
		snap.PC, snap.Cycles, snap.A,
		uint16(snap.B)<<8|uint16(snap.C), uint16(snap.D)<<8|uint16(snap.E), uint16(snap.H)<<8|uint16(snap.L),
		snap.SP, snap.Flags)
	return nil
}

func runSelftest(verbose bool) error {
	report := conformance.Run(0)
	if verbose {
		fmt.Printf("ran %d checks\n", report.Checked)
	}
	for _, f := range report.Failures {
		fmt.Printf("FAIL %s: %s\n", f.Property, f.Detail)
	}
	fmt.Printf("%d checked, %d failed\n", report.Checked, len(report.Failures))
	if len(report.Failures) > 0 {
		return fmt.Errorf("selftest: %d failures", len(report.Failures))
	}
	return nil
}

func runDisasm(path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("disasm: %w", err)
	}
	if len(image) > 1<<16 {
		return fmt.Errorf("disasm: %w", cpu.ErrImageTooLarge)
	}
	var mem [1 << 16]byte
	copy(mem[:], image)

	for pc := 0; pc < len(image); {
		text := inst.Disassemble(mem[:], uint16(pc))
		size := inst.ByteSize(mem[pc])
		fmt.Printf("%04x: %s\n", pc, text)
		pc += size
	}
	return nil
}
