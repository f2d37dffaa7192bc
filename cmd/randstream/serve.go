package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/lox/randstream/cmd/randstream/shared"
	"github.com/lox/randstream/internal/config"
	"github.com/lox/randstream/internal/server"
)

type ServeCmd struct {
	Config string `type:"path" default:"randstream.hcl" help:"Stream definition file"`
	Listen string `help:"Listen address (overrides the config file)"`
	Debug  bool   `help:"Debug logging"`
}

func (c *ServeCmd) Run() error {
	procLog := shared.SetupStructuredLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	listen := cfg.Listen
	if c.Listen != "" {
		listen = c.Listen
	}

	srv, err := server.New(cfg, shared.SetupLogger(c.Debug), quartz.NewReal())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	procLog.Info().Str("addr", listen).Int("streams", len(cfg.Streams)).Msg("starting draw service")
	if err := srv.Run(ctx, listen); err != nil {
		procLog.Error().Err(err).Msg("server exited")
		return err
	}
	procLog.Info().Msg("shutdown complete")
	return nil
}
