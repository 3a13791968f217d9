package ops

import (
	"fmt"
	"io"

	"github.com/schleplang/schlep/vm"
)

// Console returns the diagnostic output operators, writing to w. There are
// no input operators; a population run must never block on a human.
func Console(w io.Writer) *vm.InstructionSet {
	s := vm.NewInstructionSet("console")

	// Prints the topmost element without removing it.
	s.Register(vm.NewOperator("output", func(m *vm.Machine) {
		fmt.Fprintf(w, "Top item in data stack: %d\n", m.Data().Peek())
	}))

	// Prints the entire stack, bottom to top.
	s.Register(vm.NewOperator("outputStack", func(m *vm.Machine) {
		fmt.Fprintf(w, "Stack contents: %s\n", m.Data())
	}))

	return s
}
