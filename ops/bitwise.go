package ops

import "github.com/schleplang/schlep/vm"

// Bitwise returns the bitwise operators.
func Bitwise() *vm.InstructionSet {
	s := vm.NewInstructionSet("bitwise")

	s.Register(vm.NewOperator("bitAnd", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(a & b)
	}))

	s.Register(vm.NewOperator("bitOr", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(a | b)
	}))

	s.Register(vm.NewOperator("bitXor", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(a ^ b)
	}))

	// Shifts are by a fixed two bits.
	s.Register(vm.NewOperator("bitShiftLeft", func(m *vm.Machine) {
		m.Data().Push(m.Data().Pop() << 2)
	}))

	s.Register(vm.NewOperator("bitShiftRight", func(m *vm.Machine) {
		m.Data().Push(m.Data().Pop() >> 2)
	}))

	return s
}
