package vm

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is a single schlep program: a sequence of indices into an
// instruction set. Non-negative indices resolve (with wraparound) to
// instructions; negative indices encode integer literals biased by the
// set's literal offset.
//
// Compile derives the executable form (resolved descriptors plus the branch
// jump table) from the indices. After compilation a program is read-only
// and may be shared by any number of machines.
type Program struct {
	// ID is a process-unique identifier, assigned at construction unless
	// supplied (e.g. when loading a stored program).
	ID string

	// Parents holds the ids of the programs this one was bred from. Nil
	// for programs authored directly.
	Parents []string

	// Fitness is scratch state for selection loops; the VM never reads it.
	Fitness float64

	set     *InstructionSet
	indices []int64

	// derived by Compile
	code      []*Instruction
	jumpTable map[int]int
}

// ProgramOption configures program construction.
type ProgramOption func(*Program)

// WithID supplies the program id, e.g. when deserializing. New programs
// normally get a generated one.
func WithID(id string) ProgramOption {
	return func(p *Program) { p.ID = id }
}

// WithParents records the ancestor program ids.
func WithParents(ids ...string) ProgramOption {
	return func(p *Program) { p.Parents = append([]string(nil), ids...) }
}

// NewProgram compiles whitespace-delimited source against an instruction
// set. A token of digits, '-' and '.' is a literal; anything else must name
// an instruction in the set.
func NewProgram(source string, set *InstructionSet, opts ...ProgramOption) (*Program, error) {
	indices := make([]int64, 0, len(strings.Fields(source)))
	for _, tok := range strings.Fields(source) {
		if isLiteralToken(tok) {
			v, err := parseLiteral(tok)
			if err != nil {
				return nil, err
			}
			indices = append(indices, v+set.LiteralOffset())
			continue
		}
		idx, err := set.Index(tok)
		if err != nil {
			return nil, err
		}
		indices = append(indices, int64(idx))
	}
	return NewProgramFromIndices(indices, set, opts...), nil
}

// NewProgramFromIndices builds and compiles a program directly from index
// values. The slice is copied.
func NewProgramFromIndices(indices []int64, set *InstructionSet, opts ...ProgramOption) *Program {
	p := &Program{
		set:     set,
		indices: append([]int64(nil), indices...),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Compile()
	return p
}

// isLiteralToken matches the literal token alphabet. Tokens that match but
// fail to parse (e.g. "1.5" or "--") are construction errors.
func isLiteralToken(tok string) bool {
	for _, c := range tok {
		if (c < '0' || c > '9') && c != '-' && c != '.' {
			return false
		}
	}
	return len(tok) > 0
}

func parseLiteral(tok string) (int64, error) {
	var v int64
	neg := false
	for i, c := range tok {
		switch {
		case c == '-' && i == 0:
			neg = true
		case c >= '0' && c <= '9':
			v = v*10 + int64(c-'0')
		default:
			return 0, fmt.Errorf("invalid literal %q", tok)
		}
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Compile re-derives the executable code and jump table from the indices.
// It is called on construction and after any mutation of the index
// sequence; callers never observe a partially compiled program.
func (p *Program) Compile() {
	p.code = make([]*Instruction, len(p.indices))
	for i, idx := range p.indices {
		if idx < 0 {
			p.code[i] = Literal(idx - p.set.LiteralOffset())
		} else {
			p.code[i] = p.set.GetByIndex(idx)
		}
	}

	p.jumpTable = make(map[int]int)
	for i, in := range p.code {
		if in != nil && in.Role == RoleConditional {
			p.jumpTable[i] = p.branchEnd(i + 1)
		}
	}
}

// branchEnd scans forward from start for the terminator closing the current
// branch, treating conditionals as opening brackets and terminators as
// closing ones. It returns the index after the matching terminator, or the
// program length if the branch falls off the end.
func (p *Program) branchEnd(start int) int {
	depth := 0
	for i := start; i < len(p.code); i++ {
		if p.code[i] == nil {
			continue
		}
		switch p.code[i].Role {
		case RoleConditional:
			depth++
		case RoleTerminator:
			if depth == 0 {
				return i + 1
			}
			depth--
		}
	}
	return len(p.code)
}

// BranchEnd returns the index just past the branch enclosing position idx,
// scanning from idx+1. Genetic crossover uses this to extend a cut point to
// the end of its branch.
func (p *Program) BranchEnd(idx int) int {
	return p.branchEnd(idx + 1)
}

// Else returns the false-branch target of the conditional at idx, from the
// jump table built at compile time. For non-conditional positions it falls
// back to a scan.
func (p *Program) Else(idx int) int {
	if t, ok := p.jumpTable[idx]; ok {
		return t
	}
	return p.branchEnd(idx + 1)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.indices)
}

// At retrieves the compiled instruction at idx. Out-of-range access is
// safe and returns nil.
func (p *Program) At(idx int) *Instruction {
	if idx < 0 || idx >= len(p.code) {
		return nil
	}
	return p.code[idx]
}

// Set returns the bound instruction set.
func (p *Program) Set() *InstructionSet {
	return p.set
}

// Indices returns a copy of the canonical index sequence.
func (p *Program) Indices() []int64 {
	out := make([]int64, len(p.indices))
	copy(out, p.indices)
	return out
}

// Source renders the program back to whitespace-delimited source. Literals
// render as bare decimal values.
func (p *Program) Source() string {
	names := make([]string, len(p.code))
	for i, in := range p.code {
		if in == nil {
			continue
		}
		names[i] = in.Name
	}
	return strings.Join(names, " ")
}

// Equal reports whether two programs render to the same source.
func (p *Program) Equal(other *Program) bool {
	return other != nil && p.Source() == other.Source()
}

// Extend appends another program's code to this one and recompiles. This is
// the strict concatenation path: the sets must be equal.
func (p *Program) Extend(other *Program) error {
	if !p.set.Equal(other.set) {
		return ErrIncompatibleSets
	}
	p.indices = append(p.indices, other.indices...)
	p.Compile()
	return nil
}

// Concat returns a new program holding this program's code followed by the
// other's, with both recorded as parents. Neither operand is modified.
func (p *Program) Concat(other *Program) (*Program, error) {
	if !p.set.Equal(other.set) {
		return nil, ErrIncompatibleSets
	}
	indices := make([]int64, 0, len(p.indices)+len(other.indices))
	indices = append(indices, p.indices...)
	indices = append(indices, other.indices...)
	return NewProgramFromIndices(indices, p.set, WithParents(p.ID, other.ID)), nil
}
