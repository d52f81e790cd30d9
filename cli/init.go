package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tabscope/tabscope/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a tabscope project configuration",
	Long: `Write a default .tabscope.yml into the given directory (or the
current one), marking it as the project root and pinning the documented
threshold defaults so they can be tuned per dataset.

Examples:
  tabscope init
  tabscope init ~/analysis/munra`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	disp := getDisplayFromContext(ctx)

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.SaveConfig(config.LoadDefaultConfig(), path); err != nil {
		return err
	}

	disp.Success(fmt.Sprintf("Created %s", path))
	return nil
}
