package ops

import "github.com/schleplang/schlep/vm"

// Default returns the standard catalog: comparison conditionals, math,
// stack-state conditionals, stack manipulation and the end terminator, in
// that fixed order. Programs encoded against it stay decodable as long as
// this order never changes.
func Default() *vm.InstructionSet {
	s := vm.NewInstructionSet("default")
	s.Extend(Compare())
	s.Extend(Math())
	s.Extend(StackTests())
	s.Extend(Stack())
	s.Extend(Terminators())
	return s
}

// Full returns the default catalog plus bitwise, tape and register
// operators, for machines that carry the corresponding hardware.
func Full(numRegisters int) *vm.InstructionSet {
	s := Default()
	s.Extend(Bitwise())
	s.Extend(Tape())
	s.Extend(Registers(numRegisters))
	return s
}
