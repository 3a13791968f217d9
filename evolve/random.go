package evolve

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/schleplang/schlep/vm"
)

// ---------------------------------------------------------------------------
// Uniform generation
// ---------------------------------------------------------------------------

// Random generates a program from uniform signed draws over the literal
// range. Non-negative draws select an instruction by wraparound index;
// negative draws are literal encodings. Generation tracks conditional
// nesting the same way branch resolution does and stops when the depth
// closes or the length cap is reached, so short draws tend to produce
// well-bracketed programs.
func Random(r *rand.Rand, set *vm.InstructionSet, maxLength int) *vm.Program {
	if set.Len() == 0 {
		return vm.NewProgramFromIndices(nil, set)
	}

	max := set.MaxLiteral()
	depth := 1
	var indices []int64

	for depth > 0 && len(indices) < maxLength {
		v := r.Int63n(2*max) - max
		if v >= 0 {
			switch set.GetByIndex(v).Role {
			case vm.RoleTerminator:
				depth--
			case vm.RoleConditional:
				depth++
			}
		}
		indices = append(indices, v)
	}
	return vm.NewProgramFromIndices(indices, set)
}

// ---------------------------------------------------------------------------
// Weighted generation
// ---------------------------------------------------------------------------

// Weights are the relative frequencies of the four draw categories. They
// can have any positive total; the generator normalizes them.
type Weights struct {
	Literal     float64
	Operator    float64
	Conditional float64
	Terminator  float64
}

// DefaultWeights mirrors the 30/30/20/20 split the uniform generator's
// instruction-heavy draws lack.
var DefaultWeights = Weights{Literal: 30, Operator: 30, Conditional: 20, Terminator: 20}

// WeightedConfig configures RandomWeighted.
type WeightedConfig struct {
	MaxLength  int
	LiteralMin int64 // zero min and max default to the set's literal range
	LiteralMax int64
	Weights    Weights
}

// RandomWeighted generates a program with control over the frequency of
// each instruction category. Conditionals raise the nesting depth;
// terminator draws are only legal above depth 1, so a program never closes
// itself in the middle. Reaching the length cap with open conditionals
// appends one terminator per open level.
func RandomWeighted(r *rand.Rand, set *vm.InstructionSet, cfg WeightedConfig) (*vm.Program, error) {
	operators := set.Operators()
	conditionals := set.Conditionals()
	terminators := set.Terminators()
	if len(operators) == 0 || len(conditionals) == 0 || len(terminators) == 0 {
		return nil, fmt.Errorf("weighted generation needs operators, conditionals and terminators; set has %d/%d/%d",
			len(operators), len(conditionals), len(terminators))
	}

	w := cfg.Weights
	total := w.Literal + w.Operator + w.Conditional + w.Terminator
	if total <= 0 {
		return nil, fmt.Errorf("weights must have a positive total, got %v", total)
	}
	pLiteral := w.Literal / total
	pOperator := pLiteral + w.Operator/total
	pConditional := pOperator + w.Conditional/total

	min, max := cfg.LiteralMin, cfg.LiteralMax
	if min == 0 && max == 0 {
		min, max = set.MinLiteral(), set.MaxLiteral()
	}
	if max <= min {
		return nil, fmt.Errorf("literal range [%d, %d) is empty", min, max)
	}

	depth := 1
	var tokens []string
	for depth > 0 && len(tokens) < cfg.MaxLength {
		switch v := r.Float64(); {
		case v <= pLiteral:
			lit := min + r.Int63n(max-min)
			tokens = append(tokens, strconv.FormatInt(lit, 10))
		case v <= pOperator:
			tokens = append(tokens, operators[r.Intn(len(operators))].Name)
		case v <= pConditional:
			tokens = append(tokens, conditionals[r.Intn(len(conditionals))].Name)
			depth++
		case depth > 1:
			tokens = append(tokens, terminators[r.Intn(len(terminators))].Name)
			depth--
		}
	}

	// Close whatever is still open, including the implicit top level.
	for i := 0; i < depth; i++ {
		tokens = append(tokens, terminators[r.Intn(len(terminators))].Name)
	}

	return vm.NewProgram(strings.Join(tokens, " "), set)
}
