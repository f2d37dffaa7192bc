// Package checkpoint persists and restores generator states. A checkpoint
// is the raw state integers plus the seed pair per stream — nothing else is
// needed to resume or rewind a stream.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/randstream/collection"
	"github.com/lox/randstream/internal/fileutil"
	"github.com/lox/randstream/internal/tensor"
)

// Stream is the serialized form of one stream: seeds, shape, and the
// per-cell states in row-major order.
type Stream struct {
	InitStates []uint64 `json:"initstates"`
	InitSeqs   []uint64 `json:"initseqs"`
	Shape      []int    `json:"shape,omitempty"`
	States     []uint64 `json:"states"`
}

// File is an on-disk checkpoint of named streams.
type File struct {
	Streams map[string]Stream `json:"streams"`
}

// Capture snapshots an Auto into a Stream record.
func Capture(src *collection.Auto) Stream {
	return Stream{
		InitStates: src.InitStates().Data(),
		InitSeqs:   src.InitSeqs().Data(),
		Shape:      src.Shape(),
		States:     src.States().Data(),
	}
}

// Rebuild reconstructs the stream a record was captured from: seeded with
// the recorded pairs, then restored to the recorded states.
func (s Stream) Rebuild() (*collection.Auto, error) {
	initstates, err := tensor.FromSlice(s.InitStates, s.Shape...)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	initseqs, err := tensor.FromSlice(s.InitSeqs, s.Shape...)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	auto, err := collection.FromSeedsWithSeq(initstates, initseqs)
	if err != nil {
		return nil, err
	}

	states, err := tensor.FromSlice(s.States, s.Shape...)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	if err := auto.Restore(states); err != nil {
		return nil, err
	}
	return auto, nil
}

// Apply restores a record's states onto an existing stream without
// reseeding it.
func (s Stream) Apply(dst *collection.Auto) error {
	states, err := tensor.FromSlice(s.States, s.Shape...)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return dst.Restore(states)
}

// Save writes a checkpoint file atomically.
func Save(filename string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	return fileutil.WriteFileAtomic(filename, data, 0o644)
}

// Load reads a checkpoint file.
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("checkpoint: parse %s: %w", filename, err)
	}
	return &f, nil
}
