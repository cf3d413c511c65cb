package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ucli "github.com/urfave/cli/v3"

	toolcli "github.com/dsartori/tool-agent/internal/cli"
	"github.com/dsartori/tool-agent/internal/config"
	"github.com/dsartori/tool-agent/internal/core"
)

const version = "0.1"

func main() {
	cmd := &ucli.Command{
		Name:      "toolagent",
		Usage:     "command-line AI agent with tool chaining",
		ArgsUsage: "[message]",
		Version:   version,
		Flags:     config.GetFlags(),
		Action: func(ctx context.Context, c *ucli.Command) error {
			cfg := config.NewConfiguration(c)
			core.InitLogger(cfg.Agent.Verbose)

			if err := cfg.Verify(); err != nil {
				return ucli.Exit(err.Error(), 1)
			}

			return toolcli.Run(ctx, cfg, c.Args().Slice())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
