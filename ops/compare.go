package ops

import "github.com/schleplang/schlep/vm"

// Compare returns the arithmetic-test conditionals. The if* forms run their
// branch once; the while* forms also save the frame pointer so their
// terminator re-enters them, turning the branch into a loop.
func Compare() *vm.InstructionSet {
	s := vm.NewInstructionSet("compare")

	ifEqual := func(m *vm.Machine) bool {
		a, b := m.Data().Pop2()
		return a == b
	}
	ifUnequal := func(m *vm.Machine) bool {
		a, b := m.Data().Pop2()
		return a != b
	}
	ifGreaterThan := func(m *vm.Machine) bool {
		a, b := m.Data().Pop2()
		return a > b
	}
	ifLessThan := func(m *vm.Machine) bool {
		a, b := m.Data().Pop2()
		return a < b
	}

	s.Register(vm.NewConditional("ifEqual", ifEqual))
	s.Register(vm.NewConditional("ifUnequal", ifUnequal))
	s.Register(vm.NewConditional("ifGreaterThan", ifGreaterThan))
	s.Register(vm.NewConditional("ifLessThan", ifLessThan))

	s.Register(vm.NewConditional("ifZero", func(m *vm.Machine) bool {
		return m.Data().Pop() == 0
	}))
	s.Register(vm.NewConditional("ifNotZero", func(m *vm.Machine) bool {
		return m.Data().Pop() != 0
	}))
	s.Register(vm.NewConditional("ifEven", func(m *vm.Machine) bool {
		return m.Data().Pop()%2 == 0
	}))
	s.Register(vm.NewConditional("ifOdd", func(m *vm.Machine) bool {
		return m.Data().Pop()%2 != 0
	}))

	s.Register(vm.NewConditional("whileEqual", loop(ifEqual)))
	s.Register(vm.NewConditional("whileUnequal", loop(ifUnequal)))
	s.Register(vm.NewConditional("whileGreaterThan", loop(ifGreaterThan)))
	s.Register(vm.NewConditional("whileLessThan", loop(ifLessThan)))

	return s
}

// loop wraps a test so that passing it also saves the frame pointer.
func loop(test func(*vm.Machine) bool) func(*vm.Machine) bool {
	return func(m *vm.Machine) bool {
		if test(m) {
			m.PushPointer()
			return true
		}
		return false
	}
}
