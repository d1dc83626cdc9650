package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/emplace/internal/cmd"
	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/logging"
	"github.com/quantmind-br/emplace/internal/paths"
	"github.com/quantmind-br/emplace/internal/ui"
)

var version = "dev"

const colorNever = "never"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return core.ExitGeneral
	}

	ui.InitColors()
	switch cfg.Logging.Color {
	case colorNever:
		ui.DisableColors()
	case "always":
		ui.EnableColors()
	}

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: paths.NewResolver(cfg).GetLogFile(),
		NoColor: cfg.Logging.Color == colorNever,
		Quiet:   isHook(args),
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		return cmd.ExitCode(err)
	}
	return core.ExitSuccess
}

// isHook reports whether emplace was started by the shell hook, which must
// stay silent unless something needs the user's attention.
func isHook(args []string) bool {
	return len(args) > 0 && args[0] == "catch"
}
