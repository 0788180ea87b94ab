package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emmett/voxtype/internal/app"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file (default: ~/.voxtype.yaml or /etc/voxtype/config.yaml)")
	modelDir    = flag.String("model-dir", "", "Override the model directory")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxtype MCP v%s\n", Version)
		fmt.Printf("  Commit:  %s\n", GitCommit)
		fmt.Printf("  Branch:  %s\n", GitBranch)
		fmt.Printf("  Built:   %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadWithFallback(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *modelDir != "" {
		cfg.Paths.ModelDir = *modelDir
	}

	// stdout carries the protocol, so logs go to stderr
	opts := logger.FromEnv()
	opts.Service = "voxtype-mcp"
	opts.Writer = os.Stderr
	logger.Init(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := app.NewMCPHandler(cfg, Version, GitCommit)
	if err := handler.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
