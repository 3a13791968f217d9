package ops

import "github.com/schleplang/schlep/vm"

// Stack returns the stack-manipulation operators.
func Stack() *vm.InstructionSet {
	s := vm.NewInstructionSet("stack")

	// Removes and discards the top element.
	s.Register(vm.NewOperator("pop", func(m *vm.Machine) {
		m.Data().Pop()
	}))

	// Duplicates the top element.
	s.Register(vm.NewOperator("dup", func(m *vm.Machine) {
		m.Data().Push(m.Data().Peek())
	}))

	// Duplicates the top two elements.
	s.Register(vm.NewOperator("dup2", func(m *vm.Machine) {
		a, b := m.Data().Peek2()
		m.Data().Push(b)
		m.Data().Push(a)
	}))

	// Swaps the top two elements.
	s.Register(vm.NewOperator("swap", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(a)
		m.Data().Push(b)
	}))

	// Moves the third-from-top element to the top.
	s.Register(vm.NewOperator("shuffle", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		c := m.Data().Pop()
		m.Data().Push(b)
		m.Data().Push(a)
		m.Data().Push(c)
	}))

	// Removes all contents of the stack.
	s.Register(vm.NewOperator("clear", func(m *vm.Machine) {
		m.Data().Clear()
	}))

	// Pushes the current stack size (not counting the pushed number).
	s.Register(vm.NewOperator("stackSize", func(m *vm.Machine) {
		m.Data().Push(int64(m.Data().Len()))
	}))

	return s
}

// StackTests returns the conditionals that test stack state.
func StackTests() *vm.InstructionSet {
	s := vm.NewInstructionSet("stackTests")

	// True when the stack is empty.
	s.Register(vm.NewConditional("ifStackEmpty", func(m *vm.Machine) bool {
		return m.Data().Len() == 0
	}))

	// True when the stack holds data.
	s.Register(vm.NewConditional("ifStackNotEmpty", func(m *vm.Machine) bool {
		return m.Data().Len() != 0
	}))

	// Repeats its branch until the stack holds data.
	s.Register(vm.NewConditional("whileStackEmpty", func(m *vm.Machine) bool {
		if m.Data().Len() == 0 {
			m.PushPointer()
			return true
		}
		return false
	}))

	// Repeats its branch until the stack is empty.
	s.Register(vm.NewConditional("untilStackEmpty", func(m *vm.Machine) bool {
		if m.Data().Len() != 0 {
			m.PushPointer()
			return true
		}
		return false
	}))

	return s
}
