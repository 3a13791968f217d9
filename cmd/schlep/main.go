// Schlep CLI - runs, generates, mutates and breeds stack programs
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/schleplang/schlep/evolve"
	"github.com/schleplang/schlep/manifest"
	"github.com/schleplang/schlep/ops"
	"github.com/schleplang/schlep/population"
	"github.com/schleplang/schlep/vm"
)

func main() {
	verbose := flag.Int("v", 0, "Log verbosity (0-2)")
	trace := flag.Bool("trace", false, "Print each step while running")
	steps := flag.Int("steps", 10000, "Maximum steps per run")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	gen := flag.Bool("gen", false, "Generate a random program and print its source")
	mutate := flag.String("mutate", "", "Mutate the program in the given file and print the child")
	mate := flag.String("mate", "", "Cross the positional program with this one and print both children")
	save := flag.Bool("save", false, "Save the positional program to the population store")
	best := flag.Int("best", 0, "List the n fittest stored programs")
	full := flag.Bool("full", false, "Use the full catalog (bitwise, tape and register instructions)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: schlep [options] [program]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a schlep program from source (.schlep) or binary (.bin) form.\n")
		fmt.Fprintf(os.Stderr, "Configuration is read from the nearest schlep.toml, if any.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  schlep prog.schlep             # Run a program, print its data stack\n")
		fmt.Fprintf(os.Stderr, "  schlep -trace prog.schlep      # Run it step by step\n")
		fmt.Fprintf(os.Stderr, "  schlep -gen -seed 7            # Print a random program\n")
		fmt.Fprintf(os.Stderr, "  schlep -mutate prog.schlep     # Print a mutated child\n")
		fmt.Fprintf(os.Stderr, "  schlep -mate b.schlep a.schlep # Print two crossover children\n")
		fmt.Fprintf(os.Stderr, "  schlep -save prog.schlep       # Store the program\n")
		fmt.Fprintf(os.Stderr, "  schlep -best 10                # List the fittest stored programs\n")
	}
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fatal(err)
	}

	set := ops.Default()
	if *full {
		n := m.Machine.Registers
		if n <= 0 {
			n = vm.DefaultRegisters
		}
		set = ops.Full(n)
	}
	if m.Program.InstructionSize != vm.DefaultInstructionSize {
		if err := set.SetInstructionSize(m.Program.InstructionSize); err != nil {
			fatal(err)
		}
	}

	r := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if *gen {
		p, err := evolve.RandomWeighted(r, set, m.WeightedConfig())
		if err != nil {
			fatal(err)
		}
		fmt.Println(p.Source())
		return
	}

	if *best > 0 {
		if err := listBest(m, set, *best); err != nil {
			fatal(err)
		}
		return
	}

	if *mutate != "" {
		p, err := loadProgram(*mutate, set)
		if err != nil {
			fatal(err)
		}
		child := evolve.Mutate(r, p, m.Evolve.Probability, m.Evolve.Amount)
		fmt.Println(child.Source())
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	p, err := loadProgram(flag.Arg(0), set)
	if err != nil {
		fatal(err)
	}

	if *mate != "" {
		other, err := loadProgram(*mate, set)
		if err != nil {
			fatal(err)
		}
		c1, c2, err := evolve.Mate(r, p, other)
		if err != nil {
			fatal(err)
		}
		fmt.Println(c1.Source())
		fmt.Println(c2.Source())
		return
	}

	if *save {
		if err := saveProgram(m, set, p); err != nil {
			fatal(err)
		}
		fmt.Println(p.ID)
		return
	}

	if err := runProgram(m, p, *steps, *trace); err != nil {
		fatal(err)
	}
}

// loadProgram reads a program from source or binary form, chosen by
// extension.
func loadProgram(path string, set *vm.InstructionSet) (*vm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".bin" {
		return vm.FromBinary(data, set), nil
	}
	source := strings.TrimSpace(string(data))
	return vm.NewProgram(source, set)
}

func runProgram(m *manifest.Manifest, p *vm.Program, maxSteps int, trace bool) error {
	opts, err := m.MachineOptions()
	if err != nil {
		return err
	}
	machine := vm.NewMachine(p, opts...)

	if trace {
		for i := 0; i < maxSteps && machine.Running(); i++ {
			pc := machine.PC()
			name := "(restart)"
			if in := p.At(pc); in != nil {
				name = in.Name
			}
			machine.Step()
			fmt.Printf("%4d  %-16s %s\n", pc, name, machine.Data())
		}
	} else {
		machine.Run(maxSteps)
	}

	fmt.Println(machine.Data())
	if machine.Faulted() {
		fmt.Fprintln(os.Stderr, "warning: program ran off the end of a branch")
	}
	return nil
}

func saveProgram(m *manifest.Manifest, set *vm.InstructionSet, p *vm.Program) error {
	store, err := population.Open(m.StorePath(), set)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Put(p)
}

func listBest(m *manifest.Manifest, set *vm.InstructionSet, n int) error {
	store, err := population.Open(m.StorePath(), set)
	if err != nil {
		return err
	}
	defer store.Close()

	top, err := store.Fittest(n)
	if err != nil {
		return err
	}
	for _, p := range top {
		fmt.Printf("%-36s  %8.3f  %s\n", p.ID, p.Fitness, p.Source())
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
