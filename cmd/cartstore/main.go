// Package main is the entry point for the cartstore command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/cartstore/internal/app"
	"github.com/dshills/cartstore/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg = parseFlags(cfg)

	application, err := app.New(app.Options{Config: cfg, LogOutput: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// A second signal falls through to the default handler.
	context.AfterFunc(ctx, stop)

	if err := application.Run(ctx, os.Stdin, os.Stdout); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags overrides environment settings with command-line flags.
func parseFlags(cfg config.Config) config.Config {
	var showVersion bool
	var showHelp bool

	flag.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "Maximum undo/redo snapshots (0 keeps all)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.ListenerScript, "script", cfg.ListenerScript, "Lua listener script")
	flag.StringVar(&cfg.ListenerScript, "s", cfg.ListenerScript, "Lua listener script (shorthand)")
	flag.DurationVar(&cfg.ListenerTimeout, "listener-timeout", cfg.ListenerTimeout, "Per-listener timeout (0 disables)")
	flag.BoolVar(&cfg.RequireLogin, "require-login", cfg.RequireLogin, "Reject cart changes while logged out")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cartstore - event-sourced shopping cart store\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cartstore [options] < commands\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands (one per line):\n")
		fmt.Fprintf(os.Stderr, "  {\"type\":\"ADD_TO_CART\",\"payload\":{\"id\":1}}   Dispatch an event\n")
		fmt.Fprintf(os.Stderr, "  undo | redo                                 Move through history\n")
		fmt.Fprintf(os.Stderr, "  state | history | reset | quit\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment variables use the %s prefix, e.g. %sHISTORY_LIMIT.\n",
			config.EnvPrefix, config.EnvPrefix)
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("cartstore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
