package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/todos/internal/cli"
	"github.com/idilsaglam/todos/internal/config"
	"github.com/idilsaglam/todos/internal/logging"
)

func main() {
	// Root flags come before the subcommand; subcommands may look like flags (-d, -c).
	rootArgs, rest := cli.SplitArgs(os.Args[1:])
	cfg, err := config.Load(flag.CommandLine, rootArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.Source != "" {
		logger.Debug("config loaded", "file", cfg.Source)
	}

	// Hand the remaining args to the CLI runner.
	args := append(flag.Args(), rest...)
	code := cli.Run(args, cli.Options{
		Path:    cfg.File,
		Group:   cfg.Group,
		Lock:    cfg.Lock,
		Lenient: cfg.Lenient,
		Theme:   cfg.Theme,
		Logger:  logger,
	})
	os.Exit(code)
}
