// Package display owns user-facing terminal output so command logic never
// prints directly. It is carried through context the same way the logger is.
package display

import (
	"context"

	"github.com/pterm/pterm"
)

// Display is the terminal output surface used by commands.
type Display interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Plain(msg string)
	Table(header []string, rows [][]string)
}

// Config controls display behavior.
type Config struct {
	Color bool
	Quiet bool
}

// DefaultConfig returns colored, non-quiet output.
func DefaultConfig() *Config {
	return &Config{Color: true}
}

// NewWithConfig creates a pterm-backed Display.
func NewWithConfig(cfg *Config) Display {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Color {
		pterm.DisableColor()
	}
	return &terminal{quiet: cfg.Quiet}
}

type terminal struct {
	quiet bool
}

func (t *terminal) Info(msg string) {
	if t.quiet {
		return
	}
	pterm.Info.Println(msg)
}

func (t *terminal) Success(msg string) {
	if t.quiet {
		return
	}
	pterm.Success.Println(msg)
}

func (t *terminal) Warning(msg string) {
	pterm.Warning.Println(msg)
}

func (t *terminal) Error(msg string) {
	pterm.Error.Println(msg)
}

func (t *terminal) Plain(msg string) {
	if t.quiet {
		return
	}
	pterm.Println(msg)
}

func (t *terminal) Table(header []string, rows [][]string) {
	if t.quiet {
		return
	}
	data := pterm.TableData{header}
	for _, row := range rows {
		data = append(data, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}

type contextKey struct{}

// WithDisplay stores a Display in the context.
func WithDisplay(ctx context.Context, d Display) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// GetDisplayOrDefault retrieves the Display from context, falling back to a
// default terminal display.
func GetDisplayOrDefault(ctx context.Context) Display {
	if d, ok := ctx.Value(contextKey{}).(Display); ok {
		return d
	}
	return NewWithConfig(DefaultConfig())
}
