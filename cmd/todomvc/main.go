package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/todomvc/internal/cli"
	"github.com/idilsaglam/todomvc/internal/config"
)

func main() {
	flag.CommandLine.Usage = func() { cli.PrintHelp(os.Stderr) }

	// Root flags apply to every subcommand; the rest goes to the runner.
	cfg, args, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "todomvc:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{Config: cfg})
	stop()
	os.Exit(code)
}
