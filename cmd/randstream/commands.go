package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/randstream/collection"
	"github.com/lox/randstream/internal/checkpoint"
	"github.com/lox/randstream/internal/config"
)

// loadStream builds the named stream from the config file, optionally
// restoring it from a checkpoint file first.
func loadStream(configPath, name, checkpointPath string) (*collection.Auto, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	sc, err := cfg.Stream(name)
	if err != nil {
		return nil, err
	}
	auto, err := sc.Build()
	if err != nil {
		return nil, err
	}

	if checkpointPath != "" {
		file, err := checkpoint.Load(checkpointPath)
		if err != nil {
			return nil, err
		}
		record, ok := file.Streams[name]
		if !ok {
			return nil, fmt.Errorf("checkpoint %s has no stream %q", checkpointPath, name)
		}
		if err := record.Apply(auto); err != nil {
			return nil, err
		}
	}
	return auto, nil
}

// saveCheckpoint writes the stream's snapshot into the checkpoint file,
// merging with any streams already recorded there.
func saveCheckpoint(path, name string, auto *collection.Auto) error {
	file := &checkpoint.File{Streams: map[string]checkpoint.Stream{}}
	if existing, err := checkpoint.Load(path); err == nil {
		file = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if file.Streams == nil {
		file.Streams = map[string]checkpoint.Stream{}
	}
	file.Streams[name] = checkpoint.Capture(auto)
	return checkpoint.Save(path, file)
}

// printValues writes drawn values to stdout, one row per trailing
// dimension.
func printValues(shape []int, values []float64) {
	rowLen := 1
	if len(shape) > 0 {
		rowLen = shape[len(shape)-1]
	}
	if rowLen <= 0 {
		return
	}
	for i, v := range values {
		if i > 0 {
			if i%rowLen == 0 {
				fmt.Println()
			} else {
				fmt.Print(" ")
			}
		}
		fmt.Printf("%.9g", v)
	}
	fmt.Println()
}
