// Package wire defines the portable genome encoding. A genome carries a
// program's index words together with its lineage and fitness, encoded as
// canonical CBOR so two hosts always produce byte-identical encodings for
// the same genome.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/schleplang/schlep/vm"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Genome is the persisted and transmitted form of a program. Set carries
// the space-joined instruction names the genome was written against;
// Decode refuses a genome whose catalog does not match the local one, since
// the index words would silently mean different instructions.
type Genome struct {
	ID              string   `cbor:"1,keyasint"`
	Parents         []string `cbor:"2,keyasint,omitempty"`
	Indices         []int64  `cbor:"3,keyasint"`
	Fitness         float64  `cbor:"4,keyasint,omitempty"`
	Set             string   `cbor:"5,keyasint"`
	InstructionSize int      `cbor:"6,keyasint"`
}

// Encode captures a program as a Genome.
func Encode(p *vm.Program) *Genome {
	return &Genome{
		ID:              p.ID,
		Parents:         append([]string(nil), p.Parents...),
		Indices:         p.Indices(),
		Fitness:         p.Fitness,
		Set:             p.Set().Source(),
		InstructionSize: p.Set().InstructionSize(),
	}
}

// Decode rebuilds a program from a genome against a local instruction set.
func Decode(g *Genome, set *vm.InstructionSet) (*vm.Program, error) {
	if g.Set != set.Source() {
		return nil, fmt.Errorf("wire: genome written against a different instruction set")
	}
	if g.InstructionSize != set.InstructionSize() {
		return nil, fmt.Errorf("wire: genome instruction size %d, local size %d",
			g.InstructionSize, set.InstructionSize())
	}
	p := vm.NewProgramFromIndices(g.Indices, set,
		vm.WithID(g.ID), vm.WithParents(g.Parents...))
	p.Fitness = g.Fitness
	return p, nil
}

// Marshal serializes a Genome to canonical CBOR bytes.
func Marshal(g *Genome) ([]byte, error) {
	return cborEncMode.Marshal(g)
}

// Unmarshal deserializes a Genome from CBOR bytes.
func Unmarshal(data []byte) (*Genome, error) {
	var g Genome
	if err := cbor.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("wire: unmarshal genome: %w", err)
	}
	return &g, nil
}

// MarshalProgram is a convenience combining Encode and Marshal.
func MarshalProgram(p *vm.Program) ([]byte, error) {
	return Marshal(Encode(p))
}

// UnmarshalProgram is a convenience combining Unmarshal and Decode.
func UnmarshalProgram(data []byte, set *vm.InstructionSet) (*vm.Program, error) {
	g, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Decode(g, set)
}
