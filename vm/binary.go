package vm

import (
	"encoding/binary"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("schlep.vm")

// ---------------------------------------------------------------------------
// Binary program format
// ---------------------------------------------------------------------------
//
// A binary program is the raw index sequence packed little-endian into
// fixed-width words of the set's instruction size. Values are stored as the
// unsigned reinterpretation of the signed index; decoding recovers the sign
// by reinterpreting at the same width, so the negative/literal convention
// survives the round trip.

// ToBinary packs the program's indices into a byte buffer of
// len(indices) * InstructionSize bytes.
func (p *Program) ToBinary() []byte {
	size := p.set.InstructionSize()
	buf := make([]byte, len(p.indices)*size)
	for i, idx := range p.indices {
		off := i * size
		switch size {
		case 1:
			buf[off] = byte(idx)
		case 2:
			binary.LittleEndian.PutUint16(buf[off:], uint16(idx))
		case 4:
			binary.LittleEndian.PutUint32(buf[off:], uint32(idx))
		case 8:
			binary.LittleEndian.PutUint64(buf[off:], uint64(idx))
		}
	}
	return buf
}

// FromBinary decodes a packed index sequence and compiles it against the
// given set. Trailing bytes that do not fill a whole word are dropped with
// a logged warning; truncation is not an error.
func FromBinary(data []byte, set *InstructionSet, opts ...ProgramOption) *Program {
	size := set.InstructionSize()
	if rem := len(data) % size; rem != 0 {
		log.Warningf("binary program length %d not divisible by %d; truncating %d trailing bytes",
			len(data), size, rem)
		data = data[:len(data)-rem]
	}

	indices := make([]int64, 0, len(data)/size)
	for off := 0; off < len(data); off += size {
		var v int64
		switch size {
		case 1:
			v = int64(int8(data[off]))
		case 2:
			v = int64(int16(binary.LittleEndian.Uint16(data[off:])))
		case 4:
			v = int64(int32(binary.LittleEndian.Uint32(data[off:])))
		case 8:
			v = int64(binary.LittleEndian.Uint64(data[off:]))
		}
		indices = append(indices, v)
	}
	return NewProgramFromIndices(indices, set, opts...)
}
