package vm

// ---------------------------------------------------------------------------
// Machine
// ---------------------------------------------------------------------------

// Machine executes one Program. It owns its stacks, registers and pointer
// state exclusively; the program it references is shared and read-only.
//
// The base machine has one data stack. The tape variant (WithTape) carries
// two, with exactly one active at a time; the register variant
// (WithRegisters) adds a fixed array of integer registers addressed modulo
// its length.
type Machine struct {
	program *Program

	stacks   []*Stack
	active   int
	pointers *Stack

	registers []int64

	pc      int
	running bool

	runForever        bool
	clearData         bool
	missingTerminator bool

	coverage []bool

	// construction-time settings, kept so Reset can rebuild state
	stackBits     int
	trackCoverage bool
}

// MachineOption configures a Machine at construction.
type MachineOption func(*Machine)

// RunOnce makes the machine stop when its control stack empties instead of
// restarting from the top.
func RunOnce() MachineOption {
	return func(m *Machine) { m.runForever = false }
}

// ClearDataOnRestart empties the data stack whenever the program restarts
// from the top.
func ClearDataOnRestart() MachineOption {
	return func(m *Machine) { m.clearData = true }
}

// WithTape gives the machine two data stacks forming a Turing-style tape.
// One stack is active at a time; tape operators toggle or select it.
func WithTape() MachineOption {
	return func(m *Machine) { m.stacks = []*Stack{nil, nil} }
}

// WithRegisters gives the machine n integer registers. Register addressing
// is modulo n, so any index is valid.
func WithRegisters(n int) MachineOption {
	return func(m *Machine) { m.registers = make([]int64, n) }
}

// DefaultRegisters is the register count of the standard register machine.
const DefaultRegisters = 8

// WithClippedStacks bounds the data stacks to a signed integer width;
// pushed values saturate rather than wrap.
func WithClippedStacks(bits int) MachineOption {
	return func(m *Machine) { m.stackBits = bits }
}

// WithoutCoverage disables the per-position execution coverage vector.
func WithoutCoverage() MachineOption {
	return func(m *Machine) { m.trackCoverage = false }
}

// NewMachine creates a machine for the given program. By default it runs
// forever (restarting at the top when the control stack empties), keeps its
// data across restarts, has a single unbounded data stack and tracks
// coverage.
func NewMachine(program *Program, opts ...MachineOption) *Machine {
	m := &Machine{
		program:       program,
		stacks:        []*Stack{nil},
		runForever:    true,
		trackCoverage: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state: empty stacks, zeroed
// registers, pointer at 0, flags cleared.
func (m *Machine) Reset() {
	for i := range m.stacks {
		if m.stackBits > 0 {
			m.stacks[i] = NewClippedStack(m.stackBits)
		} else {
			m.stacks[i] = NewStack()
		}
	}
	m.active = 0
	m.pointers = NewStack()
	for i := range m.registers {
		m.registers[i] = 0
	}
	m.pc = 0
	m.running = true
	m.missingTerminator = false
	if m.trackCoverage {
		m.coverage = make([]bool, m.program.Len())
	} else {
		m.coverage = nil
	}
}

// Program returns the program this machine executes.
func (m *Machine) Program() *Program {
	return m.program
}

// PC returns the current instruction pointer.
func (m *Machine) PC() int {
	return m.pc
}

// Running reports whether the machine will execute on the next Step.
func (m *Machine) Running() bool {
	return m.running || m.runForever
}

// Faulted reports whether execution ever ran off the program's control
// structure (unmatched conditional or wild branch). The fault is
// recoverable; the machine keeps running from the top.
func (m *Machine) Faulted() bool {
	return m.missingTerminator
}

// Coverage returns the per-position execution vector, or nil when coverage
// tracking is disabled.
func (m *Machine) Coverage() []bool {
	return m.coverage
}

// ---------------------------------------------------------------------------
// Stack and register handles
// ---------------------------------------------------------------------------

// Data returns the active data stack.
func (m *Machine) Data() *Stack {
	return m.stacks[m.active]
}

// Secondary returns the inactive tape stack. On a single-stack machine it
// is the data stack itself.
func (m *Machine) Secondary() *Stack {
	if len(m.stacks) < 2 {
		return m.stacks[m.active]
	}
	return m.stacks[(m.active+1)%len(m.stacks)]
}

// Pointers returns the control stack of saved program pointers.
func (m *Machine) Pointers() *Stack {
	return m.pointers
}

// ActiveStack returns the index of the active data stack.
func (m *Machine) ActiveStack() int {
	return m.active
}

// ToggleStack flips which tape stack is active.
func (m *Machine) ToggleStack() {
	m.SelectStack(int64(m.active) + 1)
}

// SelectStack makes stack n the active data stack. Selection is modulo the
// stack count, so any value is valid.
func (m *Machine) SelectStack(n int64) {
	c := int64(len(m.stacks))
	i := n % c
	if i < 0 {
		i += c
	}
	m.active = int(i)
}

// Registers returns the register array, or nil on a non-register machine.
func (m *Machine) Registers() []int64 {
	return m.registers
}

// Register reads register i, addressing modulo the register count. A
// machine without registers reads 0.
func (m *Machine) Register(i int64) int64 {
	if len(m.registers) == 0 {
		return 0
	}
	return m.registers[regIndex(i, len(m.registers))]
}

// SetRegister writes register i, addressing modulo the register count. A
// machine without registers drops the write.
func (m *Machine) SetRegister(i, v int64) {
	if len(m.registers) == 0 {
		return
	}
	m.registers[regIndex(i, len(m.registers))] = v
}

func regIndex(i int64, n int) int {
	r := i % int64(n)
	if r < 0 {
		r += int64(n)
	}
	return int(r)
}

// ---------------------------------------------------------------------------
// Control-stack discipline
// ---------------------------------------------------------------------------

// PushPointer saves the current program pointer on the control stack.
// Loop-style conditionals call this when they evaluate true so their
// terminator re-enters them.
func (m *Machine) PushPointer() {
	m.pointers.Push(int64(m.pc))
}

// PopPointer restores the program pointer from the control stack. Popping
// the last frame either stops the machine (RunOnce) or restarts it,
// clearing the data stack when ClearDataOnRestart is set.
func (m *Machine) PopPointer() {
	m.pc = int(m.pointers.Pop())
	if m.pointers.PoppedEmpty() {
		if !m.runForever {
			m.running = false
		} else if m.clearData {
			m.Data().Clear()
		}
	}
}

// ---------------------------------------------------------------------------
// Stepping
// ---------------------------------------------------------------------------

// Step executes exactly one instruction. It is a no-op once the machine has
// stopped. Runtime anomalies never escape as errors: a pointer that leaves
// the program marks the machine faulted and restarts it from the top.
func (m *Machine) Step() {
	if !m.running && !m.runForever {
		return
	}
	if m.coverage != nil && m.pc >= 0 && m.pc < len(m.coverage) {
		m.coverage[m.pc] = true
	}

	in := m.program.At(m.pc)
	if in == nil {
		// The pointer reached the end without a terminator emptying the
		// control stack. Expected for generated programs: flag it, then
		// stop or restart from the top.
		m.missingTerminator = true
		m.pc = 0
		if !m.runForever {
			m.running = false
			return
		}
		if m.clearData {
			m.Data().Clear()
		}
		return
	}

	switch in.Behavior(m) {
	case Continue:
		m.pc++
	case Branch:
		m.pc = m.program.Else(m.pc)
	case Return:
		// The terminator already restored the pointer.
	}

	if m.pc < 0 || m.pc > m.program.Len() {
		m.missingTerminator = true
		m.pc = 0
	}
}

// Run steps the machine until it stops or maxSteps instructions have
// executed, returning the number of steps taken. A machine created without
// RunOnce never stops on its own; the cap is the only bound.
func (m *Machine) Run(maxSteps int) int {
	steps := 0
	for steps < maxSteps && m.Running() {
		m.Step()
		steps++
	}
	return steps
}
