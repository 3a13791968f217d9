package vm

import (
	"errors"
	"testing"
)

func TestNewProgramFromSource(t *testing.T) {
	s := testSet()
	p, err := NewProgram("nop 10 inc end", s)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if got := p.Len(); got != 4 {
		t.Fatalf("Len = %d, want 4", got)
	}

	want := []int64{0, 10 + s.LiteralOffset(), 1, 4}
	for i, idx := range p.Indices() {
		if idx != want[i] {
			t.Errorf("indices[%d] = %d, want %d", i, idx, want[i])
		}
	}
	if got := p.Source(); got != "nop 10 inc end" {
		t.Errorf("Source = %q, want %q", got, "nop 10 inc end")
	}
	if p.ID == "" {
		t.Error("program was not assigned an id")
	}
	if p.Parents != nil {
		t.Errorf("Parents = %v, want nil for an authored program", p.Parents)
	}
}

func TestNewProgramUnknownInstruction(t *testing.T) {
	if _, err := NewProgram("nop bogus end", testSet()); !errors.Is(err, ErrUnknownInstruction) {
		t.Errorf("error = %v, want ErrUnknownInstruction", err)
	}
}

func TestNewProgramBadLiteral(t *testing.T) {
	for _, src := range []string{"1.5", "--3", "1-2"} {
		if _, err := NewProgram(src, testSet()); err == nil {
			t.Errorf("NewProgram(%q) succeeded, want literal parse error", src)
		}
	}
}

func TestNegativeLiteral(t *testing.T) {
	s := testSet()
	p, err := NewProgram("-42", s)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	v, ok := p.At(0).LiteralValue()
	if !ok || v != -42 {
		t.Errorf("literal = (%d, %v), want (-42, true)", v, ok)
	}
	if got := p.Source(); got != "-42" {
		t.Errorf("Source = %q, want %q", got, "-42")
	}
}

func TestCompileConsistency(t *testing.T) {
	s := testSet()
	p, err := NewProgram("ifZero 5 end nop", s)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if len(p.Indices()) != p.Len() {
		t.Fatalf("indices/code length mismatch: %d vs %d", len(p.Indices()), p.Len())
	}
	for i, idx := range p.Indices() {
		in := p.At(i)
		if idx < 0 {
			if _, ok := in.LiteralValue(); !ok {
				t.Errorf("code[%d]: negative index %d did not compile to a literal", i, idx)
			}
		} else if in != s.GetByIndex(idx) {
			t.Errorf("code[%d] does not match set descriptor for index %d", i, idx)
		}
	}
}

func TestJumpTableSimple(t *testing.T) {
	// "ifZero nop end" : the conditional's else target is right after end.
	p, err := NewProgram("ifZero nop end", testSet())
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if got := p.Else(0); got != 3 {
		t.Errorf("Else(0) = %d, want 3", got)
	}
}

func TestJumpTableNested(t *testing.T) {
	// Outer conditional must skip past both terminators.
	p, err := NewProgram("ifZero ifZero nop end inc end", testSet())
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if got := p.Else(0); got != 6 {
		t.Errorf("outer Else(0) = %d, want 6", got)
	}
	if got := p.Else(1); got != 4 {
		t.Errorf("inner Else(1) = %d, want 4", got)
	}
}

func TestJumpTableMissingTerminator(t *testing.T) {
	// A dangling conditional's else target is the program length.
	p, err := NewProgram("ifZero nop inc", testSet())
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if got := p.Else(0); got != 3 {
		t.Errorf("Else(0) = %d, want program length 3", got)
	}
}

func TestAtOutOfRange(t *testing.T) {
	p, err := NewProgram("nop", testSet())
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	for _, idx := range []int{-1, 1, 99} {
		if got := p.At(idx); got != nil {
			t.Errorf("At(%d) = %v, want nil", idx, got)
		}
	}
}

func TestExtendStrict(t *testing.T) {
	s := testSet()
	p1, _ := NewProgram("nop", s)
	p2, _ := NewProgram("inc", s)
	if err := p1.Extend(p2); err != nil {
		t.Fatalf("Extend same set: %v", err)
	}
	if got := p1.Source(); got != "nop inc" {
		t.Errorf("Source after Extend = %q, want %q", got, "nop inc")
	}

	other := NewInstructionSet("other")
	other.Register(NewOperator("dec", func(m *Machine) {}))
	p3, _ := NewProgram("dec", other)
	if err := p1.Extend(p3); !errors.Is(err, ErrIncompatibleSets) {
		t.Errorf("Extend across sets error = %v, want ErrIncompatibleSets", err)
	}
}

func TestConcatRecordsParents(t *testing.T) {
	s := testSet()
	p1, _ := NewProgram("nop", s)
	p2, _ := NewProgram("inc", s)
	c, err := p1.Concat(p2)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if got := c.Source(); got != "nop inc" {
		t.Errorf("Source = %q, want %q", got, "nop inc")
	}
	if len(c.Parents) != 2 || c.Parents[0] != p1.ID || c.Parents[1] != p2.ID {
		t.Errorf("Parents = %v, want [%s %s]", c.Parents, p1.ID, p2.ID)
	}
	if got := p1.Len(); got != 1 {
		t.Errorf("Concat mutated its receiver: Len = %d, want 1", got)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	s := testSet()
	for _, size := range []int{1, 2, 4, 8} {
		if err := s.SetInstructionSize(size); err != nil {
			t.Fatalf("SetInstructionSize(%d): %v", size, err)
		}
		p, err := NewProgram("nop 10 inc ifZero -3 end", s)
		if err != nil {
			t.Fatalf("size %d: NewProgram: %v", size, err)
		}

		data := p.ToBinary()
		if got := len(data); got != p.Len()*size {
			t.Errorf("size %d: binary length = %d, want %d", size, got, p.Len()*size)
		}
		q := FromBinary(data, s)
		qi := q.Indices()
		for i, idx := range p.Indices() {
			if qi[i] != idx {
				t.Errorf("size %d: round-trip indices[%d] = %d, want %d", size, i, qi[i], idx)
			}
		}
	}
}

func TestFromBinaryTruncates(t *testing.T) {
	s := testSet()
	p, err := NewProgram("nop inc end", s)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	data := append(p.ToBinary(), 0xFF, 0x01) // trailing partial word
	q := FromBinary(data, s)
	if got := q.Len(); got != 3 {
		t.Errorf("Len after truncating decode = %d, want 3", got)
	}
}

func TestFromBinaryKeepsSuppliedIdentity(t *testing.T) {
	s := testSet()
	p, _ := NewProgram("nop", s)
	q := FromBinary(p.ToBinary(), s, WithID(p.ID), WithParents("a", "b"))
	if q.ID != p.ID {
		t.Errorf("ID = %q, want %q", q.ID, p.ID)
	}
	if len(q.Parents) != 2 {
		t.Errorf("Parents = %v, want 2 entries", q.Parents)
	}
}
