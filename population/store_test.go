package population

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/schleplang/schlep/ops"
	"github.com/schleplang/schlep/vm"
)

func testStore(t *testing.T) (*Store, *vm.InstructionSet) {
	t.Helper()
	set := ops.Default()
	s, err := Open(filepath.Join(t.TempDir(), "population.db"), set)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, set
}

func mustProgram(t *testing.T, source string, set *vm.InstructionSet) *vm.Program {
	t.Helper()
	p, err := vm.NewProgram(source, set)
	if err != nil {
		t.Fatalf("NewProgram(%q): %v", source, err)
	}
	return p
}

func TestStore_PutGet(t *testing.T) {
	s, set := testStore(t)
	p := mustProgram(t, "1 2 add ifZero dup end", set)
	p.Fitness = 0.5

	if err := s.Put(p); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(p) {
		t.Errorf("got %q, want %q", got.Source(), p.Source())
	}
	if got.Fitness != 0.5 {
		t.Errorf("Fitness: got %v, want 0.5", got.Fitness)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := testStore(t)
	if _, err := s.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s, set := testStore(t)
	p := mustProgram(t, "1 2 add", set)
	if err := s.Put(p); err != nil {
		t.Fatalf("Put: %v", err)
	}
	p.Fitness = 9
	if err := s.Put(p); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Fitness != 9 {
		t.Errorf("Fitness after replace = %v, want 9", got.Fitness)
	}
}

func TestStore_SetFitness(t *testing.T) {
	s, set := testStore(t)
	p := mustProgram(t, "1 2 add", set)
	if err := s.Put(p); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.SetFitness(p.ID, 3.25); err != nil {
		t.Fatalf("SetFitness: %v", err)
	}
	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Fitness != 3.25 {
		t.Errorf("Fitness = %v, want 3.25", got.Fitness)
	}

	if err := s.SetFitness("no-such-id", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestStore_Fittest(t *testing.T) {
	s, set := testStore(t)
	sources := []struct {
		source  string
		fitness float64
	}{
		{"1 dup", 0.1},
		{"2 dup", 0.9},
		{"3 dup", 0.5},
	}
	for _, src := range sources {
		p := mustProgram(t, src.source, set)
		p.Fitness = src.fitness
		if err := s.Put(p); err != nil {
			t.Fatalf("Put(%q): %v", src.source, err)
		}
	}

	top, err := s.Fittest(2)
	if err != nil {
		t.Fatalf("Fittest: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Source() != "2 dup" || top[1].Source() != "3 dup" {
		t.Errorf("order: got [%q %q], want [%q %q]",
			top[0].Source(), top[1].Source(), "2 dup", "3 dup")
	}
}

func TestStore_Delete(t *testing.T) {
	s, set := testStore(t)
	p := mustProgram(t, "1 2 add", set)
	if err := s.Put(p); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
	if err := s.Delete("no-such-id"); err != nil {
		t.Errorf("deleting an absent id: %v", err)
	}
}

func TestStore_Lineage(t *testing.T) {
	s, set := testStore(t)
	p := mustProgram(t, "1 2 add", set)
	child, err := vm.NewProgram("3 4 add", set, vm.WithParents(p.ID))
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if err := s.Put(child); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(child.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Parents) != 1 || got.Parents[0] != p.ID {
		t.Errorf("Parents = %v, want [%s]", got.Parents, p.ID)
	}
}
