// Package config loads named stream definitions from HCL files for the CLI
// and the draw service.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/randstream/collection"
	"github.com/lox/randstream/internal/tensor"
	"github.com/lox/randstream/pcg"
)

// Config is the root of a stream-definition file.
type Config struct {
	LogLevel string         `hcl:"log_level,optional"`
	Listen   string         `hcl:"listen,optional"`
	Streams  []StreamConfig `hcl:"stream,block"`
}

// StreamConfig defines one named stream: a scalar generator when shape is
// absent, a generator collection otherwise.
type StreamConfig struct {
	Name string `hcl:"name,label"`

	// Seed is a single 64-bit seed expanded into per-cell
	// (initstate, initseq) pairs. Mutually exclusive with InitState.
	Seed *uint64 `hcl:"seed,optional"`

	// InitState/InitSeq set the PCG seed pair directly. For shaped
	// streams, cell i gets InitState+i on the shared sequence.
	InitState *uint64 `hcl:"initstate,optional"`
	InitSeq   *uint64 `hcl:"initseq,optional"`

	Shape []int `hcl:"shape,optional"`

	Distribution *DistConfig `hcl:"distribution,block"`
}

// DistConfig selects the distribution a stream draws from by default.
type DistConfig struct {
	Kind   string  `hcl:"kind,label"`
	K      float64 `hcl:"k,optional"`
	Lambda float64 `hcl:"lambda,optional"`
	Mu     float64 `hcl:"mu,optional"`
	Sigma  float64 `hcl:"sigma,optional"`
}

// Default returns the configuration used when no file is present: a single
// scalar stream on the reference seed.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Listen:   "localhost:8337",
		Streams: []StreamConfig{
			{Name: "default"},
		},
	}
}

// Load reads a stream-definition file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Listen == "" {
		cfg.Listen = "localhost:8337"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes stream definitions from a byte slice, for callers that do
// not go through the filesystem.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	seen := map[string]bool{}
	for _, s := range c.Streams {
		if s.Name == "" {
			return fmt.Errorf("config: stream with empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate stream %q", s.Name)
		}
		seen[s.Name] = true

		if s.Seed != nil && s.InitState != nil {
			return fmt.Errorf("config: stream %q sets both seed and initstate", s.Name)
		}
		for _, dim := range s.Shape {
			if dim <= 0 {
				return fmt.Errorf("config: stream %q has non-positive dimension %d", s.Name, dim)
			}
		}
		if d := s.Distribution; d != nil {
			switch d.Kind {
			case "uniform", "weibull", "exponential", "normal":
			default:
				return fmt.Errorf("config: stream %q has unknown distribution %q", s.Name, d.Kind)
			}
		}
	}
	return nil
}

// Stream returns the named stream definition.
func (c *Config) Stream(name string) (*StreamConfig, error) {
	for i := range c.Streams {
		if c.Streams[i].Name == name {
			return &c.Streams[i], nil
		}
	}
	return nil, fmt.Errorf("config: no stream named %q", name)
}

// Build instantiates the stream: a scalar Auto for shapeless definitions, a
// collection otherwise.
func (s *StreamConfig) Build() (*collection.Auto, error) {
	size := tensor.Size(s.Shape)

	var initstates, initseqs []uint64
	switch {
	case s.Seed != nil:
		initstates, initseqs = pcg.DeriveSeedList(*s.Seed, size)
	default:
		base := uint64(pcg.DefaultState)
		if s.InitState != nil {
			base = *s.InitState
		}
		seq := uint64(pcg.DefaultSeq)
		if s.InitSeq != nil {
			seq = *s.InitSeq
		}
		initstates = make([]uint64, size)
		initseqs = make([]uint64, size)
		for i := range initstates {
			initstates[i] = base + uint64(i)
			initseqs[i] = seq
		}
	}

	states, err := tensor.FromSlice(initstates, s.Shape...)
	if err != nil {
		return nil, err
	}
	seqs, err := tensor.FromSlice(initseqs, s.Shape...)
	if err != nil {
		return nil, err
	}
	return collection.FromSeedsWithSeq(states, seqs)
}
