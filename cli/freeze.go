package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabscope/tabscope/freeze"
	"github.com/tabscope/tabscope/loader"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/report"
)

// Freeze command error codes
var (
	ErrDatasetDrift = errors.MustNewCode("cli.dataset_drift")
)

var freezeCmd = &cobra.Command{
	Use:   "freeze [file]",
	Short: "Fingerprint a dataset to detect drift between runs",
	Long: `Compute a deterministic content fingerprint for a dataset.

The dataset is serialized canonically (stable column and row order, fixed
tokens for missing values) and hashed with SHA-256. The resulting freeze
record pins row/column counts, per-column dtypes and the content hash, so a
later run can assert the processed dataset has not silently changed.

Examples:
  tabscope freeze data/processed/munra_clean.csv
  tabscope freeze data/processed/munra_clean.csv --output freeze.json
  tabscope freeze data/processed/munra_clean.csv --check freeze.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFreeze,
}

type freezeOptions struct {
	noHeader      bool
	expectColumns int
	outputPath    string
	checkPath     string
}

var freezeOpts = &freezeOptions{}

func init() {
	rootCmd.AddCommand(freezeCmd)

	freezeCmd.Flags().BoolVar(&freezeOpts.noHeader, "no-header", false, "treat the first line as data and use neutral col_N names")
	freezeCmd.Flags().IntVar(&freezeOpts.expectColumns, "expect-columns", 0, "fail unless the file parses to exactly this many columns")
	freezeCmd.Flags().StringVar(&freezeOpts.outputPath, "output", "", "write the freeze record as JSON to this path")
	freezeCmd.Flags().StringVar(&freezeOpts.checkPath, "check", "", "compare against a previously saved freeze record")
}

func runFreeze(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := getLoggerFromContext(ctx)
	disp := getDisplayFromContext(ctx)

	l := loader.New(loader.Options{
		HasHeader:       !freezeOpts.noHeader,
		ExpectedColumns: freezeOpts.expectColumns,
	}, logger)

	tbl, err := l.Load(args[0])
	if err != nil {
		return err
	}

	record, err := freeze.NewFingerprinter(logger).Freeze(tbl, args[0])
	if err != nil {
		return err
	}

	disp.Plain(report.FreezeText(record))

	if freezeOpts.checkPath != "" {
		stored, err := freeze.LoadRecord(freezeOpts.checkPath)
		if err != nil {
			return err
		}

		if drift := freeze.Diff(record, stored); len(drift) > 0 {
			for _, line := range drift {
				disp.Error(line)
			}
			return errors.Newf(ErrDatasetDrift,
				"dataset drifted from %s: %s", freezeOpts.checkPath, strings.Join(drift, "; "))
		}
		disp.Success(fmt.Sprintf("Dataset matches freeze record %s", freezeOpts.checkPath))
	}

	if freezeOpts.outputPath != "" {
		if err := freeze.SaveRecord(record, freezeOpts.outputPath); err != nil {
			return err
		}
		disp.Success(fmt.Sprintf("Wrote freeze record to %s", freezeOpts.outputPath))
	}

	return nil
}
