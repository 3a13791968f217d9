package evolve

import (
	"math/rand"

	"github.com/schleplang/schlep/vm"
)

// Mutate returns a derived program with randomly twiddled bits. For each
// index it runs amount independent trials; a trial fires with the given
// probability and flips one uniformly chosen bit of the instruction-width
// word. Every trial appends the current (possibly mutated) index to the
// output, so the child is amount times the parent's length. That
// reproduction-by-trial behavior is relied on for growing populations from
// small seed programs; do not collapse it to one output per index.
func Mutate(r *rand.Rand, p *vm.Program, probability float64, amount int) *vm.Program {
	bits := p.Set().InstructionSize() * 8
	out := make([]int64, 0, p.Len()*amount)
	for _, idx := range p.Indices() {
		mutated := idx
		for j := 0; j < amount; j++ {
			if r.Float64() < probability {
				mutated = idx ^ int64(1)<<uint(r.Float64()*float64(bits))
			}
			out = append(out, mutated)
		}
	}
	return vm.NewProgramFromIndices(out, p.Set(), vm.WithParents(p.ID))
}
