package evolve

import (
	"math/rand"
	"strings"

	"github.com/schleplang/schlep/vm"
)

// ---------------------------------------------------------------------------
// Crossover
// ---------------------------------------------------------------------------

// Crossover breeds two children by swapping branch-aligned segments of the
// parents at the given cut positions. Each cut is extended forward to the
// end of its enclosing branch, so the spliced segments respect the
// conditional/terminator bracket structure. The parents are not modified;
// both children record both parent ids.
//
// Parents over the same instruction set are spliced at the index level.
// Parents over different sets are first rendered to source, spliced as
// token sequences and recompiled against the additive union of both sets.
func Crossover(p1, p2 *vm.Program, cut1, cut2 int) (*vm.Program, *vm.Program, error) {
	end1 := p1.BranchEnd(cut1)
	end2 := p2.BranchEnd(cut2)

	if p1.Set().Equal(p2.Set()) {
		i1 := p1.Indices()
		i2 := p2.Indices()
		c1 := spliceIndices(i1, i2, cut1, end1, cut2, end2)
		c2 := spliceIndices(i2, i1, cut2, end2, cut1, end1)
		parents := vm.WithParents(p1.ID, p2.ID)
		return vm.NewProgramFromIndices(c1, p1.Set(), parents),
			vm.NewProgramFromIndices(c2, p1.Set(), parents),
			nil
	}

	// Different sets: merge and splice textually. Token positions line up
	// with index positions, so the branch ends computed above still apply.
	merged := p1.Set().Union(p2.Set())
	t1 := strings.Fields(p1.Source())
	t2 := strings.Fields(p2.Source())
	s1 := spliceTokens(t1, t2, cut1, end1, cut2, end2)
	s2 := spliceTokens(t2, t1, cut2, end2, cut1, end1)

	parents := vm.WithParents(p1.ID, p2.ID)
	c1, err := vm.NewProgram(s1, merged, parents)
	if err != nil {
		return nil, nil, err
	}
	c2, err := vm.NewProgram(s2, merged, parents)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// spliceIndices returns into[:cutA] + from[cutB:endB] + into[endA:].
func spliceIndices(into, from []int64, cutA, endA, cutB, endB int) []int64 {
	out := make([]int64, 0, cutA+(endB-cutB)+len(into)-endA)
	out = append(out, into[:cutA]...)
	out = append(out, from[cutB:endB]...)
	out = append(out, into[endA:]...)
	return out
}

func spliceTokens(into, from []string, cutA, endA, cutB, endB int) string {
	out := make([]string, 0, cutA+(endB-cutB)+len(into)-endA)
	out = append(out, into[:cutA]...)
	out = append(out, from[cutB:endB]...)
	out = append(out, into[endA:]...)
	return strings.Join(out, " ")
}

// Mate performs crossover at uniformly chosen cut points.
func Mate(r *rand.Rand, p1, p2 *vm.Program) (*vm.Program, *vm.Program, error) {
	cut1 := randomCut(r, p1.Len())
	cut2 := randomCut(r, p2.Len())
	return Crossover(p1, p2, cut1, cut2)
}

// randomCut picks a cut position in [0, length-1).
func randomCut(r *rand.Rand, length int) int {
	if length < 2 {
		return 0
	}
	return int(r.Float64() * float64(length-1))
}
