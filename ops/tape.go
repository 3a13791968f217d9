package ops

import "github.com/schleplang/schlep/vm"

// Tape returns the operators for the dual-stack tape machine. On a
// single-stack machine they are harmless: selection wraps onto the only
// stack there is.
func Tape() *vm.InstructionSet {
	s := vm.NewInstructionSet("tape")

	// Switches which stack is the active data stack.
	s.Register(vm.NewOperator("toggleStacks", func(m *vm.Machine) {
		m.ToggleStack()
	}))

	// Switches the active stack to the one named by the top element
	// (even or odd).
	s.Register(vm.NewOperator("switchStack", func(m *vm.Machine) {
		m.SelectStack(m.Data().Pop())
	}))

	// Moves a value from the inactive stack to the active one.
	s.Register(vm.NewOperator("shiftStacks", func(m *vm.Machine) {
		m.Data().Push(m.Secondary().Pop())
	}))

	// Pushes the active stack's number.
	s.Register(vm.NewOperator("activeStackNum", func(m *vm.Machine) {
		m.Data().Push(int64(m.ActiveStack()))
	}))

	return s
}
