package ops

import "github.com/schleplang/schlep/vm"

// Terminators returns the branch-closing instructions. There is exactly
// one: end, which restores the saved frame pointer.
func Terminators() *vm.InstructionSet {
	s := vm.NewInstructionSet("terminators")

	s.Register(vm.NewTerminator("end", func(m *vm.Machine) {
		m.PopPointer()
	}))

	return s
}
