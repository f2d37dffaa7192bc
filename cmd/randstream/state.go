package main

import (
	"fmt"

	"github.com/lox/randstream/cmd/randstream/shared"
)

type StateCmd struct {
	Show StateShowCmd `cmd:"" default:"withargs" help:"Print seeds and current states"`
	Save StateSaveCmd `cmd:"" help:"Write the stream's current checkpoint"`
}

type StateShowCmd struct {
	Stream     string `default:"default" help:"Stream name from the config file"`
	Config     string `type:"path" default:"randstream.hcl" help:"Stream definition file"`
	Checkpoint string `type:"path" help:"Show states from this checkpoint instead of fresh seeds"`
}

func (c *StateShowCmd) Run() error {
	auto, err := loadStream(c.Config, c.Stream, c.Checkpoint)
	if err != nil {
		return err
	}

	states := auto.States().Data()
	initstates := auto.InitStates().Data()
	initseqs := auto.InitSeqs().Data()

	fmt.Printf("# stream=%s shape=%v cells=%d\n", c.Stream, auto.Shape(), auto.Size())
	for i := range states {
		fmt.Printf("cell %d initstate %#016x initseq %#016x state %#016x\n",
			i, initstates[i], initseqs[i], states[i])
	}
	return nil
}

type StateSaveCmd struct {
	Stream     string `default:"default" help:"Stream name from the config file"`
	Config     string `type:"path" default:"randstream.hcl" help:"Stream definition file"`
	Checkpoint string `type:"path" help:"Restore from this checkpoint before saving"`
	Out        string `arg:"" type:"path" help:"Checkpoint file to write"`
	Debug      bool   `help:"Debug logging"`
}

func (c *StateSaveCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	auto, err := loadStream(c.Config, c.Stream, c.Checkpoint)
	if err != nil {
		return err
	}
	if err := saveCheckpoint(c.Out, c.Stream, auto); err != nil {
		return err
	}
	logger.Info("checkpoint written", "stream", c.Stream, "path", c.Out)
	return nil
}
