package ops

import "github.com/schleplang/schlep/vm"

// Math returns the basic arithmetic operators for an integer machine.
func Math() *vm.InstructionSet {
	s := vm.NewInstructionSet("math")

	// Pops the top two elements and pushes the sum.
	s.Register(vm.NewOperator("add", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(b + a)
	}))

	// Pops the top two elements and pushes the difference.
	s.Register(vm.NewOperator("subtract", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(b - a)
	}))

	// Pops the top two elements and pushes the product.
	s.Register(vm.NewOperator("multiply", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.Data().Push(b * a)
	}))

	// Pops the top two elements and pushes the quotient. Division by zero
	// pushes 0.
	s.Register(vm.NewOperator("divide", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		if a != 0 {
			m.Data().Push(b / a)
		} else {
			m.Data().Push(0)
		}
	}))

	// Pops the top two elements and pushes the lesser.
	s.Register(vm.NewOperator("min", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		if a < b {
			m.Data().Push(a)
		} else {
			m.Data().Push(b)
		}
	}))

	// Pops the top two elements and pushes the greater.
	s.Register(vm.NewOperator("max", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		if a > b {
			m.Data().Push(a)
		} else {
			m.Data().Push(b)
		}
	}))

	// Pops the top element and pushes its absolute value.
	s.Register(vm.NewOperator("abs", func(m *vm.Machine) {
		v := m.Data().Pop()
		if v < 0 {
			v = -v
		}
		m.Data().Push(v)
	}))

	// Multiplies the top element by -1.
	s.Register(vm.NewOperator("negate", func(m *vm.Machine) {
		m.Data().Push(-m.Data().Pop())
	}))

	// Increments the top element by 1.
	s.Register(vm.NewOperator("inc", func(m *vm.Machine) {
		m.Data().Push(m.Data().Pop() + 1)
	}))

	// Decrements the top element by 1.
	s.Register(vm.NewOperator("dec", func(m *vm.Machine) {
		m.Data().Push(m.Data().Pop() - 1)
	}))

	// Pops the top two elements and pushes the remainder of (top-1)/top.
	// A zero divisor pushes 0.
	s.Register(vm.NewOperator("mod", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		if a != 0 {
			m.Data().Push(b % a)
		} else {
			m.Data().Push(0)
		}
	}))

	// Pops the top element and pushes its square.
	s.Register(vm.NewOperator("square", func(m *vm.Machine) {
		v := m.Data().Pop()
		m.Data().Push(v * v)
	}))

	return s
}
