package vm

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrUnknownInstruction means source code referenced a name that is not
	// in the bound instruction set.
	ErrUnknownInstruction = errors.New("unknown instruction")

	// ErrIncompatibleSets means a strict same-set operation was asked to
	// combine programs built against different instruction sets.
	ErrIncompatibleSets = errors.New("incompatible instruction sets")

	// ErrInstructionSize means an unsupported instruction width was
	// requested. Valid widths are 1, 2, 4 and 8 bytes.
	ErrInstructionSize = errors.New("invalid instruction size")
)

// DefaultInstructionSize is the encoded width of one instruction in bytes.
const DefaultInstructionSize = 4

// ---------------------------------------------------------------------------
// InstructionSet
// ---------------------------------------------------------------------------

// InstructionSet is an ordered, name-unique catalog of instructions.
// Insertion order defines the numeric index used by program encodings, so
// registration must be deterministic. Index lookups wrap around rather than
// fail: any integer resolves to some instruction.
type InstructionSet struct {
	Name string

	names  []string
	byName map[string]*Instruction

	// instructionSize is the encoded width in bytes (1, 2, 4 or 8). It
	// determines the literal range and the binary program format.
	instructionSize int
}

// NewInstructionSet creates an empty set with the default 32-bit width.
func NewInstructionSet(name string) *InstructionSet {
	return &InstructionSet{
		Name:            name,
		byName:          make(map[string]*Instruction),
		instructionSize: DefaultInstructionSize,
	}
}

// SetInstructionSize changes the encoded instruction width in bytes.
func (s *InstructionSet) SetInstructionSize(size int) error {
	switch size {
	case 1, 2, 4, 8:
		s.instructionSize = size
		return nil
	}
	return fmt.Errorf("%w: %d bytes", ErrInstructionSize, size)
}

// InstructionSize returns the encoded instruction width in bytes.
func (s *InstructionSet) InstructionSize() int {
	return s.instructionSize
}

// Len returns the number of registered instructions.
func (s *InstructionSet) Len() int {
	return len(s.names)
}

// Register adds an instruction to the set. A new name is appended at the
// next index; re-registering an existing name replaces the descriptor in
// place, keeping its index.
func (s *InstructionSet) Register(in *Instruction) {
	if _, ok := s.byName[in.Name]; !ok {
		s.names = append(s.names, in.Name)
	}
	s.byName[in.Name] = in
}

// Get retrieves an instruction by name.
func (s *InstructionSet) Get(name string) (*Instruction, error) {
	in, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstruction, name)
	}
	return in, nil
}

// GetByIndex retrieves an instruction by numeric index. Out-of-range
// indices wrap around, so the lookup never fails on a non-empty set.
func (s *InstructionSet) GetByIndex(idx int64) *Instruction {
	n := int64(len(s.names))
	if n == 0 {
		return nil
	}
	i := idx % n
	if i < 0 {
		i += n
	}
	return s.byName[s.names[i]]
}

// Index returns the current positional index of a name. Indices are not
// stable across set mutation; callers holding indices must re-resolve after
// Update or Register changes the set.
func (s *InstructionSet) Index(name string) (int, error) {
	for i, n := range s.names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInstruction, name)
}

// Names returns the instruction names in index order.
func (s *InstructionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Instructions returns the descriptors in index order.
func (s *InstructionSet) Instructions() []*Instruction {
	out := make([]*Instruction, len(s.names))
	for i, n := range s.names {
		out[i] = s.byName[n]
	}
	return out
}

// byRole collects the descriptors of one role, preserving index order.
func (s *InstructionSet) byRole(r Role) []*Instruction {
	var out []*Instruction
	for _, n := range s.names {
		if in := s.byName[n]; in.Role == r {
			out = append(out, in)
		}
	}
	return out
}

// Operators returns all operator descriptors in index order.
func (s *InstructionSet) Operators() []*Instruction {
	return s.byRole(RoleOperator)
}

// Conditionals returns all conditional descriptors in index order.
func (s *InstructionSet) Conditionals() []*Instruction {
	return s.byRole(RoleConditional)
}

// Terminators returns all terminator descriptors in index order.
func (s *InstructionSet) Terminators() []*Instruction {
	return s.byRole(RoleTerminator)
}

// Extend merges another set into this one additively: names already present
// keep their descriptor and index, new names are appended in the other
// set's order.
func (s *InstructionSet) Extend(other *InstructionSet) {
	for _, n := range other.names {
		if _, ok := s.byName[n]; !ok {
			s.names = append(s.names, n)
			s.byName[n] = other.byName[n]
		}
	}
}

// Update merges another set into this one, replacing identically-named
// instructions. Replaced names keep their index; previously resolved
// indices for other callers may no longer mean what they did.
func (s *InstructionSet) Update(other *InstructionSet) {
	for _, n := range other.names {
		s.Register(other.byName[n])
	}
}

// Union returns a new set holding this set's instructions extended with the
// other's. Neither operand is modified.
func (s *InstructionSet) Union(other *InstructionSet) *InstructionSet {
	out := s.Copy()
	out.Extend(other)
	return out
}

// Copy returns a shallow copy: descriptors are shared, ordering is not.
func (s *InstructionSet) Copy() *InstructionSet {
	out := NewInstructionSet(s.Name)
	out.instructionSize = s.instructionSize
	out.names = append(out.names, s.names...)
	for n, in := range s.byName {
		out.byName[n] = in
	}
	return out
}

// Source returns the space-joined name sequence. Two sets with the same
// source are considered equal regardless of behavior; this looseness is
// deliberate and used for program compatibility checks.
func (s *InstructionSet) Source() string {
	return strings.Join(s.names, " ")
}

// Equal reports whether two sets contain the same names in the same order.
func (s *InstructionSet) Equal(other *InstructionSet) bool {
	if other == nil || len(s.names) != len(other.names) {
		return false
	}
	for i, n := range s.names {
		if other.names[i] != n {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Literal encoding
// ---------------------------------------------------------------------------

// MaxLiteral returns the largest value a literal can carry at the current
// instruction width: one quarter of the unsigned range, leaving the rest of
// the negative space to distinguish literals from indices.
func (s *InstructionSet) MaxLiteral() int64 {
	bits := uint(s.instructionSize*8 - 2)
	return int64(1)<<bits - 1
}

// MinLiteral returns the smallest encodable literal value.
func (s *InstructionSet) MinLiteral() int64 {
	return -s.MaxLiteral() - 1
}

// LiteralOffset is the bias applied to literal values when stored as
// indices. A literal v is stored as v + LiteralOffset(), which is negative
// for any in-range v; compilation recovers v by subtracting the offset.
func (s *InstructionSet) LiteralOffset() int64 {
	return -s.MaxLiteral()
}
