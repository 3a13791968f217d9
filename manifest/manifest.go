// Package manifest handles schlep.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/schleplang/schlep/evolve"
	"github.com/schleplang/schlep/vm"
)

// Manifest represents a schlep.toml configuration.
type Manifest struct {
	Machine  MachineConfig  `toml:"machine"`
	Program  ProgramConfig  `toml:"program"`
	Generate GenerateConfig `toml:"generate"`
	Evolve   EvolveConfig   `toml:"evolve"`
	Store    StoreConfig    `toml:"store"`

	// Dir is the directory containing the schlep.toml file (set at load time).
	Dir string `toml:"-"`
}

// MachineConfig selects the machine variant and its knobs.
type MachineConfig struct {
	Kind         string `toml:"kind"` // "basic", "tape" or "register"
	Registers    int    `toml:"registers"`
	RunForever   bool   `toml:"run-forever"`
	ClearData    bool   `toml:"clear-data"`
	Coverage     bool   `toml:"coverage"`
	ClippedStack int    `toml:"clipped-stack"` // bit width, 0 disables clipping
}

// ProgramConfig configures the instruction catalog.
type ProgramConfig struct {
	InstructionSize int `toml:"instruction-size"`
}

// GenerateConfig configures random program generation.
type GenerateConfig struct {
	MaxLength  int     `toml:"max-length"`
	LiteralMin int64   `toml:"literal-min"`
	LiteralMax int64   `toml:"literal-max"`
	Weights    Weights `toml:"weights"`
}

// Weights holds the draw frequencies for weighted generation.
type Weights struct {
	Literal     float64 `toml:"literal"`
	Operator    float64 `toml:"operator"`
	Conditional float64 `toml:"conditional"`
	Terminator  float64 `toml:"terminator"`
}

// EvolveConfig configures mutation.
type EvolveConfig struct {
	Probability float64 `toml:"probability"`
	Amount      int     `toml:"amount"`
}

// StoreConfig locates the population database.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no schlep.toml is present.
func Default() *Manifest {
	return &Manifest{
		Machine: MachineConfig{
			Kind:       "basic",
			Registers:  vm.DefaultRegisters,
			RunForever: true,
			Coverage:   true,
		},
		Program: ProgramConfig{
			InstructionSize: vm.DefaultInstructionSize,
		},
		Generate: GenerateConfig{
			MaxLength: 50,
			Weights: Weights{
				Literal:     evolve.DefaultWeights.Literal,
				Operator:    evolve.DefaultWeights.Operator,
				Conditional: evolve.DefaultWeights.Conditional,
				Terminator:  evolve.DefaultWeights.Terminator,
			},
		},
		Evolve: EvolveConfig{
			Probability: 0.1,
			Amount:      1,
		},
		Store: StoreConfig{
			Path: "population.db",
		},
	}
}

// Load parses a schlep.toml file from the given directory. Missing fields
// keep their defaults.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "schlep.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a schlep.toml file, then loads
// and returns the manifest. Returns the defaults if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "schlep.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// MachineOptions translates the machine section into vm options.
func (m *Manifest) MachineOptions() ([]vm.MachineOption, error) {
	var opts []vm.MachineOption
	switch m.Machine.Kind {
	case "", "basic":
	case "tape":
		opts = append(opts, vm.WithTape())
	case "register":
		n := m.Machine.Registers
		if n <= 0 {
			n = vm.DefaultRegisters
		}
		opts = append(opts, vm.WithRegisters(n))
	default:
		return nil, fmt.Errorf("unknown machine kind %q", m.Machine.Kind)
	}
	if !m.Machine.RunForever {
		opts = append(opts, vm.RunOnce())
	}
	if m.Machine.ClearData {
		opts = append(opts, vm.ClearDataOnRestart())
	}
	if !m.Machine.Coverage {
		opts = append(opts, vm.WithoutCoverage())
	}
	if m.Machine.ClippedStack > 0 {
		opts = append(opts, vm.WithClippedStacks(m.Machine.ClippedStack))
	}
	return opts, nil
}

// WeightedConfig translates the generate section for the weighted generator.
func (m *Manifest) WeightedConfig() evolve.WeightedConfig {
	return evolve.WeightedConfig{
		MaxLength:  m.Generate.MaxLength,
		LiteralMin: m.Generate.LiteralMin,
		LiteralMax: m.Generate.LiteralMax,
		Weights: evolve.Weights{
			Literal:     m.Generate.Weights.Literal,
			Operator:    m.Generate.Weights.Operator,
			Conditional: m.Generate.Weights.Conditional,
			Terminator:  m.Generate.Weights.Terminator,
		},
	}
}

// StorePath returns the population database path, resolved against the
// manifest directory when one was loaded.
func (m *Manifest) StorePath() string {
	if m.Dir == "" || filepath.IsAbs(m.Store.Path) {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}
