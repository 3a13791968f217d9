package ops

import (
	"fmt"

	"github.com/schleplang/schlep/vm"
)

// Registers returns the operators for the register machine: generic
// stack-addressed get/set plus a generated get/set pair per register.
// Register addressing is always modulo the machine's register count.
func Registers(numRegisters int) *vm.InstructionSet {
	s := vm.NewInstructionSet("registers")

	// Pops a register number and pushes that register's contents.
	s.Register(vm.NewOperator("getRegister", func(m *vm.Machine) {
		a := m.Data().Pop()
		m.Data().Push(m.Register(a))
	}))

	// Pops a register number then a value, storing the value there.
	s.Register(vm.NewOperator("setRegister", func(m *vm.Machine) {
		a, b := m.Data().Pop2()
		m.SetRegister(a, b)
	}))

	for n := 0; n < numRegisters; n++ {
		s.Register(regSetter(n))
	}
	for n := 0; n < numRegisters; n++ {
		s.Register(regGetter(n))
	}

	return s
}

// regSetter builds an operator that stores the top of the data stack into
// one specific register.
func regSetter(n int) *vm.Instruction {
	return vm.NewOperator(fmt.Sprintf("setRegister%d", n), func(m *vm.Machine) {
		m.SetRegister(int64(n), m.Data().Pop())
	})
}

// regGetter builds an operator that pushes one specific register's value.
func regGetter(n int) *vm.Instruction {
	return vm.NewOperator(fmt.Sprintf("getRegister%d", n), func(m *vm.Machine) {
		m.Data().Push(m.Register(int64(n)))
	})
}
