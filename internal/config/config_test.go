package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/randstream/pcg"
)

const sampleConfig = `
log_level = "debug"
listen    = "localhost:9000"

stream "scalar" {
  initstate = 42
  initseq   = 54
}

stream "field" {
  seed  = 1234
  shape = [2, 3]

  distribution "weibull" {
    k      = 1.5
    lambda = 2.0
  }
}
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.Streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(cfg.Streams))
	}

	scalar, err := cfg.Stream("scalar")
	if err != nil {
		t.Fatal(err)
	}
	if scalar.InitState == nil || *scalar.InitState != 42 {
		t.Errorf("scalar initstate = %v, want 42", scalar.InitState)
	}
	if len(scalar.Shape) != 0 {
		t.Errorf("scalar shape = %v, want none", scalar.Shape)
	}

	field, err := cfg.Stream("field")
	if err != nil {
		t.Fatal(err)
	}
	if field.Distribution == nil || field.Distribution.Kind != "weibull" {
		t.Fatalf("field distribution = %+v, want weibull", field.Distribution)
	}
	if field.Distribution.K != 1.5 {
		t.Errorf("weibull k = %v, want 1.5", field.Distribution.K)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"duplicate stream", `
stream "a" {}
stream "a" {}
`},
		{"seed and initstate", `
stream "a" {
  seed      = 1
  initstate = 2
}
`},
		{"bad distribution", `
stream "a" {
  distribution "cauchy" {}
}
`},
		{"zero dimension", `
stream "a" {
  shape = [2, 0]
}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src), "test.hcl"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFileGivesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Streams) != 1 || cfg.Streams[0].Name != "default" {
		t.Errorf("default config streams = %+v", cfg.Streams)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streams.hcl")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "localhost:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
}

func TestBuildScalar(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := cfg.Stream("scalar")
	if err != nil {
		t.Fatal(err)
	}

	auto, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !auto.IsScalar() {
		t.Fatal("shapeless stream should build a scalar")
	}

	// The built generator matches a directly seeded one.
	want := pcg.New(42, 54)
	if !auto.Gen().Equal(want) {
		t.Error("built scalar generator differs from pcg.New(42, 54)")
	}
}

func TestBuildCollection(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cfg.Stream("field")
	if err != nil {
		t.Fatal(err)
	}

	auto, err := fc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if auto.IsScalar() {
		t.Fatal("shaped stream should build a collection")
	}
	if got := auto.Size(); got != 6 {
		t.Errorf("Size = %d, want 6", got)
	}

	// Per-cell seed derivation must be reproducible.
	again, err := fc.Build()
	if err != nil {
		t.Fatal(err)
	}
	a, b := auto.Random(2), again.Random(2)
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("rebuilt stream diverged")
		}
	}
}

func TestDefaultStreamBuilds(t *testing.T) {
	auto, err := Default().Streams[0].Build()
	if err != nil {
		t.Fatal(err)
	}
	if !auto.IsScalar() {
		t.Error("default stream should be scalar")
	}
	if auto.Gen().InitState() != pcg.DefaultState {
		t.Error("default stream should use the reference seed")
	}
}
