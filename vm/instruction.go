package vm

import "strconv"

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

// Role classifies an instruction. It is fixed at construction and drives
// both branch resolution (compile time) and stepping (run time).
type Role uint8

const (
	RoleOperator    Role = iota // plain operator: executes and falls through
	RoleConditional             // opens a guarded branch, closed by a terminator
	RoleTerminator              // closes a branch by popping the control stack
	RoleLiteral                 // synthesized push-constant, never in a set
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleOperator:
		return "operator"
	case RoleConditional:
		return "conditional"
	case RoleTerminator:
		return "terminator"
	case RoleLiteral:
		return "literal"
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// ---------------------------------------------------------------------------
// Outcomes
// ---------------------------------------------------------------------------

// Outcome is the tri-valued result of executing one instruction. It tells
// the machine how to move its instruction pointer.
type Outcome uint8

const (
	// Continue advances the pointer to the next instruction. Operators and
	// conditionals that evaluated true produce this.
	Continue Outcome = iota
	// Branch jumps to the conditional's else target (the instruction after
	// its matching terminator). Only conditionals produce this.
	Branch
	// Return means a terminator already restored the pointer from the
	// control stack; the machine must not move it again.
	Return
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Branch:
		return "branch"
	case Return:
		return "return"
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// ---------------------------------------------------------------------------
// Instruction descriptors
// ---------------------------------------------------------------------------

// Behavior is the body of an instruction: a unary function of the machine.
// Behaviors touch machine state only through the machine's stack and
// register handles.
type Behavior func(*Machine) Outcome

// Instruction is a single named unit of machine behavior. Descriptors are
// immutable after construction; programs and sets share them freely.
type Instruction struct {
	Name     string
	Role     Role
	Cost     float64
	Behavior Behavior

	// value is the payload of a literal descriptor. Meaningless for the
	// other roles.
	value int64
}

// String returns the instruction's display name.
func (in *Instruction) String() string {
	return in.Name
}

// LiteralValue returns the embedded constant and whether the instruction is
// a literal.
func (in *Instruction) LiteralValue() (int64, bool) {
	return in.value, in.Role == RoleLiteral
}

// NewOperator builds an operator descriptor. The body runs for its side
// effects and the machine falls through to the next instruction.
func NewOperator(name string, fn func(*Machine)) *Instruction {
	return &Instruction{
		Name: name,
		Role: RoleOperator,
		Behavior: func(m *Machine) Outcome {
			fn(m)
			return Continue
		},
	}
}

// NewConditional builds a conditional descriptor. A true result falls
// through into the guarded branch; a false result jumps to the else target.
// Loop-style conditionals push the frame pointer themselves inside fn.
func NewConditional(name string, fn func(*Machine) bool) *Instruction {
	return &Instruction{
		Name: name,
		Role: RoleConditional,
		Behavior: func(m *Machine) Outcome {
			if fn(m) {
				return Continue
			}
			return Branch
		},
	}
}

// NewTerminator builds a terminator descriptor. The body is responsible for
// restoring the pointer from the control stack (normally via PopPointer).
func NewTerminator(name string, fn func(*Machine)) *Instruction {
	return &Instruction{
		Name: name,
		Role: RoleTerminator,
		Behavior: func(m *Machine) Outcome {
			fn(m)
			return Return
		},
	}
}

// Literal synthesizes a push-constant descriptor. Literals are materialized
// per occurrence at compile time and never registered in an instruction set.
func Literal(value int64) *Instruction {
	return &Instruction{
		Name: strconv.FormatInt(value, 10),
		Role: RoleLiteral,
		value: value,
		Behavior: func(m *Machine) Outcome {
			m.Data().Push(value)
			return Continue
		},
	}
}
