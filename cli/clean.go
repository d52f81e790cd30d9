package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabscope/tabscope/clean"
	"github.com/tabscope/tabscope/loader"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Structurally clean a dataset and save the processed CSV",
	Long: `Apply structural, format-level cleaning to a dataset.

Text values are trimmed, text columns that are mostly numeric are coerced to
float (unparseable cells become missing), and columns past the missing-ratio
threshold are dropped. No rows are removed and no values are imputed.

Examples:
  tabscope clean data/dataset_original.csv
  tabscope clean data/raw/munra_2.txt --no-header --output data/processed/munra_clean.csv
  tabscope clean readings.csv --max-missing 0.4`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

type cleanOptions struct {
	noHeader       bool
	expectColumns  int
	outputPath     string
	maxMissing     float64
	coerceFraction float64
}

var cleanOpts = &cleanOptions{}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanOpts.noHeader, "no-header", false, "treat the first line as data and use neutral col_N names")
	cleanCmd.Flags().IntVar(&cleanOpts.expectColumns, "expect-columns", 0, "fail unless the file parses to exactly this many columns")
	cleanCmd.Flags().StringVar(&cleanOpts.outputPath, "output", "", "processed CSV path (default: <processed_dir>/<name>_clean.csv)")
	cleanCmd.Flags().Float64Var(&cleanOpts.maxMissing, "max-missing", -1, "drop columns whose missing fraction exceeds this (default from config)")
	cleanCmd.Flags().Float64Var(&cleanOpts.coerceFraction, "coerce-fraction", -1, "numeric fraction required to coerce a text column (default from config)")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := getLoggerFromContext(ctx)
	disp := getDisplayFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := cfg.Clean
	if cleanOpts.maxMissing >= 0 {
		opts.MaxMissingRatio = cleanOpts.maxMissing
	}
	if cleanOpts.coerceFraction >= 0 {
		opts.CoerceFraction = cleanOpts.coerceFraction
	}

	l := loader.New(loader.Options{
		HasHeader:       !cleanOpts.noHeader,
		ExpectedColumns: cleanOpts.expectColumns,
	}, logger)

	tbl, err := l.Load(args[0])
	if err != nil {
		return err
	}

	cleaner, err := clean.New(opts, logger)
	if err != nil {
		return err
	}

	result, err := cleaner.Clean(tbl)
	if err != nil {
		return err
	}

	if len(result.DroppedColumns) > 0 {
		disp.Warning(fmt.Sprintf("Dropped columns (> %.0f%% missing): %s",
			opts.MaxMissingRatio*100, strings.Join(result.DroppedColumns, ", ")))
	}
	if len(result.CoercedColumns) > 0 {
		disp.Info(fmt.Sprintf("Coerced to float: %s", strings.Join(result.CoercedColumns, ", ")))
	}

	outputPath := cleanOpts.outputPath
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		outputPath = filepath.Join(cfg.Output.ProcessedDir, base+"_clean.csv")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	if err := clean.SaveCSV(result.Table, outputPath); err != nil {
		return err
	}

	disp.Success(fmt.Sprintf("Saved clean base to %s (%d rows, %d columns)",
		outputPath, result.Table.NumRows(), result.Table.NumCols()))
	return nil
}
