// Command batpu2 is a thin CLI around the BatPU-2 emulator core: load a
// .mc program, step or run it, disassemble it, or snapshot a session. It
// imports pkg/cpu, pkg/loader, and pkg/session, none of which import it
// back.
package main

import (
	"fmt"
	"os"

	"github.com/oisee/batpu2emu/pkg/cpu"
	"github.com/oisee/batpu2emu/pkg/loader"
	"github.com/oisee/batpu2emu/pkg/session"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "batpu2",
		Short: "BatPU-2 instruction-set emulator",
	}

	var maxSteps uint64
	runCmd := &cobra.Command{
		Use:   "run <file.mc>",
		Short: "Load and run a program to completion or budget exhaustion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, _, err := loadCore(args[0])
			if err != nil {
				return err
			}
			result := core.Run(maxSteps)
			printState(core)
			if result == cpu.RunBudgetExhausted {
				fmt.Printf("stopped: instruction budget of %d exhausted\n", maxSteps)
			}
			return nil
		},
	}
	runCmd.Flags().Uint64Var(&maxSteps, "max-steps", 100000, "instruction budget for run")

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step <file.mc>",
		Short: "Single-step a program, printing each retired instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, _, err := loadCore(args[0])
			if err != nil {
				return err
			}
			for i := 0; i < stepCount; i++ {
				pc := core.PC()
				disasm := core.Disassemble(pc)
				if !core.Step() {
					fmt.Printf("[%4d] %s  (halted)\n", pc, disasm)
					break
				}
				fmt.Printf("[%4d] %s\n", pc, disasm)
			}
			printState(core)
			return nil
		},
	}
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 1, "number of steps to execute")

	disasmCmd := &cobra.Command{
		Use:   "disasm <file.mc>",
		Short: "Disassemble every word in a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, words, err := loadCore(args[0])
			if err != nil {
				return err
			}
			for i := range words {
				fmt.Printf("[%4d] %s\n", i, core.Disassemble(uint16(i)))
			}
			return nil
		},
	}

	var savePath string
	snapshotCmd := &cobra.Command{
		Use:   "snapshot <file.mc>",
		Short: "Run a program and save a debugger snapshot of its final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, words, err := loadCore(args[0])
			if err != nil {
				return err
			}
			core.Run(maxSteps)
			snap := session.Capture(core, words)
			if savePath == "" {
				fmt.Printf("%+v\n", snap)
				return nil
			}
			f, err := os.Create(savePath)
			if err != nil {
				return err
			}
			defer f.Close()
			return session.Save(f, snap)
		},
	}
	snapshotCmd.Flags().StringVar(&savePath, "save", "", "write the snapshot to this path instead of printing it")
	snapshotCmd.Flags().Uint64Var(&maxSteps, "max-steps", 100000, "instruction budget before snapshotting")

	rootCmd.AddCommand(runCmd, stepCmd, disasmCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCore(path string) (*cpu.Core, []uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	res, err := loader.LoadMC(f)
	if err != nil {
		return nil, nil, err
	}
	if res.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: skipped %d malformed line(s) in %s\n", res.Skipped, path)
	}

	core := cpu.New()
	core.Load(res.Words)
	return core, res.Words, nil
}

func printState(core *cpu.Core) {
	regs := core.Registers()
	fmt.Printf("PC=%d  instructions=%d  halted=%v\n", core.PC(), core.InstructionCount(), core.Halted())
	flags := core.Flags()
	fmt.Printf("Z=%v C=%v\n", flags.Zero, flags.Carry)
	for i := 0; i < 16; i += 4 {
		fmt.Printf("  r%-2d=%-3d r%-2d=%-3d r%-2d=%-3d r%-2d=%-3d\n",
			i, regs[i], i+1, regs[i+1], i+2, regs[i+2], i+3, regs[i+3])
	}
	if value, present, signed := core.NumberDisplay(); present {
		fmt.Printf("number display: %d (signed=%v)\n", value, signed)
	}
	if cb := core.CharBuffer(); cb != "" {
		fmt.Printf("char buffer: %q\n", cb)
	}
	for _, fault := range core.LastFaults() {
		fmt.Printf("fault: %s at pc=%d\n", fault.Kind, fault.PC)
	}
}
