package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Draw     DrawCmd          `cmd:"" help:"Draw samples from a stream"`
	Advance  AdvanceCmd       `cmd:"" help:"Jump a stream forward or backward without drawing"`
	Distance DistanceCmd      `cmd:"" help:"Compute per-cell step counts between two checkpoints"`
	State    StateCmd         `cmd:"" help:"Inspect and checkpoint stream states"`
	Simulate SimulateCmd      `cmd:"" help:"Run a Monte Carlo draw and summarise the samples"`
	Serve    ServeCmd         `cmd:"" help:"Serve streams over websockets"`
	Remote   RemoteCmd        `cmd:"" help:"Talk to a running draw service"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("randstream"),
		kong.Description("Deterministic, checkpointable PCG32 random streams"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
