package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tabscope/tabscope/config"
	"github.com/tabscope/tabscope/display"
)

var rootCmd = &cobra.Command{
	Use:   "tabscope",
	Short: "Exploratory profiling for tabular sensor datasets",
	Long: `Tabscope profiles delimited text datasets without assigning physical
meaning to any column: per-column statistics, heuristic role hypotheses,
structural cleaning, and content fingerprints that detect when a processed
dataset silently changes between analysis runs.`,
	Version: "0.1.0",
}

var configFlag string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with context containing display and logger
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger stores the logger in the context for subcommands.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// getLoggerFromContext retrieves the logger from context
func getLoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// getDisplayFromContext retrieves the display instance from context
func getDisplayFromContext(ctx context.Context) display.Display {
	return display.GetDisplayOrDefault(ctx)
}

// commandContext normalizes the command's context for testability: commands
// can run with a nil command or nil context.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd == nil {
		return context.Background()
	}
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration: the --config flag first, then a
// .tabscope.yml found walking up from the working directory, then defaults.
func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadConfig(configFlag)
	}
	if root := FindProjectRoot(); root != "" {
		return config.LoadConfig(filepath.Join(root, config.ConfigFileName))
	}
	return config.LoadDefaultConfig(), nil
}

// FindProjectRoot searches upward for .tabscope.yml to determine the project
// root. Returns "" when no marker exists.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, config.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: nearest .tabscope.yml)")
}
