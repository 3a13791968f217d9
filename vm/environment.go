package vm

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// Environment runs a group of machines in lock-step: each round advances
// every machine by exactly one instruction. Machines never observe each
// other's state, so rounds have no meaningful ordering beyond that.
type Environment struct {
	machines []*Machine

	// defaults applied to every machine the environment creates
	defaults []MachineOption
}

// NewEnvironment creates an empty environment. The given options are
// applied to every machine created through it, before any per-machine
// options.
func NewEnvironment(defaults ...MachineOption) *Environment {
	return &Environment{defaults: defaults}
}

// CreateMachine builds a machine for the program, registers it with the
// environment and returns it.
func (e *Environment) CreateMachine(program *Program, opts ...MachineOption) *Machine {
	all := make([]MachineOption, 0, len(e.defaults)+len(opts))
	all = append(all, e.defaults...)
	all = append(all, opts...)
	m := NewMachine(program, all...)
	e.machines = append(e.machines, m)
	return m
}

// Machines returns the registered machines in creation order.
func (e *Environment) Machines() []*Machine {
	return e.machines
}

// Step executes one instruction on every machine. When callback is non-nil
// it is invoked with each machine's position and handle before that machine
// steps, which is how tracing hooks in.
func (e *Environment) Step(callback func(int, *Machine)) {
	for i, m := range e.machines {
		if callback != nil {
			callback(i, m)
		}
		m.Step()
	}
}

// Trace logs one round of stepping at debug level: each machine's pending
// instruction, data stack and control stack.
func (e *Environment) Trace() {
	e.Step(func(i int, m *Machine) {
		next := "<end>"
		if in := m.program.At(m.pc); in != nil {
			next = in.Name
		}
		log.Debugf("machine %d: pc=%d next=%s data=%s ptrs=%s",
			i, m.pc, next, m.Data(), m.Pointers())
	})
}
