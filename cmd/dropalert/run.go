package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/dropalert/internal/audio"
	"github.com/jmylchreest/dropalert/internal/config"
	"github.com/jmylchreest/dropalert/internal/tui"
)

// runTUI starts the terminal host with a chime and stops it on SIGINT or
// SIGTERM.
func runTUI(c *config.Config, opts tui.RunOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chime := audio.NewChime(c.Sound, logger)
	defer chime.Close()

	opts.Config = c
	opts.Chime = chime
	opts.Logger = logger
	opts.ConfigPath = globalOpts.configPath

	return tui.Run(ctx, opts)
}
