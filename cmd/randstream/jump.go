package main

import (
	"fmt"

	"github.com/lox/randstream/cmd/randstream/shared"
	"github.com/lox/randstream/internal/checkpoint"
	"github.com/lox/randstream/internal/tensor"
)

type AdvanceCmd struct {
	Stream     string `default:"default" help:"Stream name from the config file"`
	Config     string `type:"path" default:"randstream.hcl" help:"Stream definition file"`
	Checkpoint string `type:"path" help:"Restore the stream from this checkpoint first"`
	Save       string `type:"path" help:"Write a checkpoint here after jumping"`
	Delta      int64  `arg:"" help:"Signed step count (negative rewinds)"`
	Debug      bool   `help:"Debug logging"`
}

func (c *AdvanceCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	auto, err := loadStream(c.Config, c.Stream, c.Checkpoint)
	if err != nil {
		return err
	}

	auto.AdvanceAll(c.Delta)
	logger.Info("advanced", "stream", c.Stream, "delta", c.Delta)

	for i, s := range auto.States().Data() {
		fmt.Printf("cell %d state %#016x\n", i, s)
	}

	if c.Save != "" {
		if err := saveCheckpoint(c.Save, c.Stream, auto); err != nil {
			return err
		}
		logger.Info("checkpoint written", "path", c.Save)
	}
	return nil
}

type DistanceCmd struct {
	Stream string `default:"default" help:"Stream name present in both checkpoints"`
	From   string `arg:"" type:"path" help:"Checkpoint to measure from"`
	To     string `arg:"" type:"path" help:"Checkpoint to measure to"`
	Debug  bool   `help:"Debug logging"`
}

func (c *DistanceCmd) Run() error {
	shared.SetupLogger(c.Debug)

	fromFile, err := checkpoint.Load(c.From)
	if err != nil {
		return err
	}
	toFile, err := checkpoint.Load(c.To)
	if err != nil {
		return err
	}

	fromRec, ok := fromFile.Streams[c.Stream]
	if !ok {
		return fmt.Errorf("checkpoint %s has no stream %q", c.From, c.Stream)
	}
	toRec, ok := toFile.Streams[c.Stream]
	if !ok {
		return fmt.Errorf("checkpoint %s has no stream %q", c.To, c.Stream)
	}

	auto, err := fromRec.Rebuild()
	if err != nil {
		return err
	}
	targets, err := tensor.FromSlice(toRec.States, toRec.Shape...)
	if err != nil {
		return err
	}
	dist, err := auto.DistanceStates(targets)
	if err != nil {
		return err
	}

	for i, d := range dist.Data() {
		fmt.Printf("cell %d distance %d\n", i, d)
	}
	return nil
}
