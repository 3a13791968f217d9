package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with a schlep.toml
	dir := t.TempDir()
	tomlContent := `
[machine]
kind = "register"
registers = 4
run-forever = false
clear-data = true
coverage = false
clipped-stack = 8

[program]
instruction-size = 2

[generate]
max-length = 80
literal-min = -100
literal-max = 100

[generate.weights]
literal = 40
operator = 30
conditional = 15
terminator = 15

[evolve]
probability = 0.25
amount = 3

[store]
path = "runs/pop.db"
`
	if err := os.WriteFile(filepath.Join(dir, "schlep.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Machine.Kind != "register" {
		t.Errorf("machine kind = %q, want register", m.Machine.Kind)
	}
	if m.Machine.Registers != 4 {
		t.Errorf("registers = %d, want 4", m.Machine.Registers)
	}
	if m.Machine.RunForever {
		t.Error("run-forever = true, want false")
	}
	if !m.Machine.ClearData {
		t.Error("clear-data = false, want true")
	}
	if m.Program.InstructionSize != 2 {
		t.Errorf("instruction-size = %d, want 2", m.Program.InstructionSize)
	}
	if m.Generate.MaxLength != 80 {
		t.Errorf("max-length = %d, want 80", m.Generate.MaxLength)
	}
	if m.Generate.Weights.Literal != 40 {
		t.Errorf("literal weight = %v, want 40", m.Generate.Weights.Literal)
	}
	if m.Evolve.Probability != 0.25 {
		t.Errorf("probability = %v, want 0.25", m.Evolve.Probability)
	}
	if m.Evolve.Amount != 3 {
		t.Errorf("amount = %d, want 3", m.Evolve.Amount)
	}
	if got := m.StorePath(); got != filepath.Join(m.Dir, "runs", "pop.db") {
		t.Errorf("store path = %q", got)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[evolve]
amount = 2
`
	if err := os.WriteFile(filepath.Join(dir, "schlep.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Machine.Kind != "basic" {
		t.Errorf("machine kind = %q, want basic", m.Machine.Kind)
	}
	if !m.Machine.RunForever {
		t.Error("run-forever defaulted to false")
	}
	if m.Program.InstructionSize != 4 {
		t.Errorf("instruction-size = %d, want 4", m.Program.InstructionSize)
	}
	if m.Evolve.Amount != 2 {
		t.Errorf("amount = %d, want 2", m.Evolve.Amount)
	}
	if m.Evolve.Probability != 0.1 {
		t.Errorf("probability = %v, want 0.1", m.Evolve.Probability)
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	tomlContent := `
[machine]
kind = "tape"
`
	if err := os.WriteFile(filepath.Join(root, "schlep.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m.Machine.Kind != "tape" {
		t.Errorf("machine kind = %q, want tape", m.Machine.Kind)
	}
}

func TestFindAndLoadFallsBackToDefaults(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m.Machine.Kind != "basic" {
		t.Errorf("machine kind = %q, want basic", m.Machine.Kind)
	}
}

func TestMachineOptions(t *testing.T) {
	m := Default()
	m.Machine.Kind = "register"
	m.Machine.RunForever = false
	opts, err := m.MachineOptions()
	if err != nil {
		t.Fatalf("MachineOptions: %v", err)
	}
	if len(opts) == 0 {
		t.Error("no options produced")
	}

	m.Machine.Kind = "holographic"
	if _, err := m.MachineOptions(); err == nil {
		t.Error("unknown machine kind accepted")
	}
}
