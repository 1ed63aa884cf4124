// Command dcpu16 assembles DCPU-16 source and runs the resulting
// memory image on the cpu.VM.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/medek/dcpu-16/asm"
	"github.com/medek/dcpu-16/cpu"
	"github.com/medek/dcpu-16/hw"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dcpu16",
		Short: "Assemble and run DCPU-16 programs",
	}
	root.AddCommand(assembleCmd(), runCmd())
	return root
}

func assembleCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "assemble [source]",
		Short: "Assemble a source file into a raw word image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}
			words, err := asm.Assemble(string(src))
			if err != nil {
				return fmt.Errorf("assembling %s: %w", args[0], err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeImage(out, words)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runCmd() *cobra.Command {
	var origin uint16
	var clockRate uint16
	var steps int
	var withClock bool

	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a raw word image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening image: %w", err)
			}
			defer f.Close()

			words, err := readImage(f)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			var opts []cpu.Option
			opts = append(opts, cpu.WithClockRate(clockRate))
			if withClock {
				opts = append(opts, cpu.WithHardware(hw.NewClock()))
			}
			v := cpu.New(opts...)
			v.Write(origin, words)

			if steps > 0 {
				for i := 0; i < steps; i++ {
					if err := v.Step(); err != nil {
						return reportHalt(v, err)
					}
				}
				return nil
			}
			if err := v.Run(); err != nil {
				return reportHalt(v, err)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&origin, "origin", 0, "load address for the image")
	cmd.Flags().Uint16Var(&clockRate, "clock-rate", 100000, "cycles per second; 0 runs unthrottled")
	cmd.Flags().IntVar(&steps, "steps", 0, "execute exactly this many instructions instead of running to completion")
	cmd.Flags().BoolVar(&withClock, "with-clock", true, "attach the reference clock device")
	return cmd
}

// reportHalt treats ErrOnFire/ReservedOpcodeError as the expected way
// a program finishes: print final register state and exit cleanly
// rather than surfacing a shell-visible error for every halted run.
func reportHalt(v *cpu.VM, cause error) error {
	fmt.Fprintf(os.Stdout, "halted: %v\n", cause)
	r := v.Registers()
	fmt.Printf("A=%#04x B=%#04x C=%#04x X=%#04x Y=%#04x Z=%#04x I=%#04x J=%#04x\n",
		r[cpu.A], r[cpu.B], r[cpu.C], r[cpu.X], r[cpu.Y], r[cpu.Z], r[cpu.I], r[cpu.J])
	fmt.Printf("PC=%#04x SP=%#04x EX=%#04x IA=%#04x cycles=%d\n",
		r[cpu.PC], r[cpu.SP], r[cpu.EX], r[cpu.IA], r[cpu.CYCLE])
	return nil
}

// Images are a flat sequence of big-endian 16-bit words, loaded at an
// origin offset into VM memory with no header or container format.
func writeImage(w *os.File, words []uint16) error {
	buf := make([]byte, 2*len(words))
	for i, word := range words {
		binary.BigEndian.PutUint16(buf[2*i:], word)
	}
	_, err := w.Write(buf)
	return err
}

func readImage(f *os.File) ([]uint16, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	words := make([]uint16, len(buf)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(buf[2*i:])
	}
	return words, nil
}
