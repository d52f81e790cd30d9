package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tabscope/tabscope/cli"
	"github.com/tabscope/tabscope/config"
	"github.com/tabscope/tabscope/display"
)

func main() {
	cfg := loadConfig()

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	displayInstance := display.NewWithConfig(display.DefaultConfig())

	ctx := context.Background()
	ctx = display.WithDisplay(ctx, displayInstance)
	ctx = cli.WithLogger(ctx, logger)

	logger.Info().Str("cmd", "main").Msg("Starting tabscope")

	if err := cli.ExecuteWithContext(ctx); err != nil {
		logger.Error().Str("cmd", "main").Err(err).Msg("Command failed")
		displayInstance.Error(err.Error())
		os.Exit(1)
	}

	logger.Info().Str("cmd", "main").Msg("tabscope completed")
}

// loadConfig reads the nearest project config for logging setup, falling
// back to defaults outside a project. Command-level config handling happens
// later, inside the cli package, where the --config flag is known.
func loadConfig() *config.Config {
	if root := cli.FindProjectRoot(); root != "" {
		if cfg, err := config.LoadConfig(filepath.Join(root, config.ConfigFileName)); err == nil {
			if cfg.Log.FilePath != "" && !filepath.IsAbs(cfg.Log.FilePath) {
				cfg.Log.FilePath = filepath.Join(root, cfg.Log.FilePath)
			}
			return cfg
		}
	}
	return config.LoadDefaultConfig()
}
