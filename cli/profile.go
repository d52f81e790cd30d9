package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tabscope/tabscope/loader"
	"github.com/tabscope/tabscope/profile"
	"github.com/tabscope/tabscope/report"
)

var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Profile a dataset's columns and guess their roles",
	Long: `Profile a delimited text dataset column by column.

For every column this computes the dtype, distinct-value count, min/max,
zero fraction, monotonicity and a cardinality class, then assigns a
pattern-based role hypothesis. Hypotheses describe statistical shape only;
they never claim physical meaning.

Examples:
  tabscope profile data/munra_clean.csv
  tabscope profile data/raw/munra_2.txt --no-header --expect-columns 10
  tabscope profile readings.csv --near-constant-range 1.0 --workers 4
  tabscope profile readings.csv --report reports/schema_report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

type profileOptions struct {
	noHeader      bool
	expectColumns int
	nearConstantN int
	nearConstantR float64
	zeroHeavy     float64
	reportPath    string
	workers       int
}

var profileOpts = &profileOptions{}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().BoolVar(&profileOpts.noHeader, "no-header", false, "treat the first line as data and use neutral col_N names")
	profileCmd.Flags().IntVar(&profileOpts.expectColumns, "expect-columns", 0, "fail unless the file parses to exactly this many columns")
	profileCmd.Flags().IntVar(&profileOpts.nearConstantN, "near-constant-nunique", 0, "max distinct values for near-constant detection (default from config)")
	profileCmd.Flags().Float64Var(&profileOpts.nearConstantR, "near-constant-range", -1, "max value range for near-constant detection (default from config)")
	profileCmd.Flags().Float64Var(&profileOpts.zeroHeavy, "zero-heavy", -1, "zero fraction at which a column reads as mostly unused (default from config)")
	profileCmd.Flags().StringVar(&profileOpts.reportPath, "report", "", "also write a Markdown schema report to this path")
	profileCmd.Flags().IntVar(&profileOpts.workers, "workers", 1, "profile columns in parallel with this many workers")
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := getLoggerFromContext(ctx)
	disp := getDisplayFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	thresholds := cfg.Profile
	if profileOpts.nearConstantN > 0 {
		thresholds.NearConstantMaxNunique = profileOpts.nearConstantN
	}
	if profileOpts.nearConstantR >= 0 {
		thresholds.NearConstantMaxRange = profileOpts.nearConstantR
	}
	if profileOpts.zeroHeavy >= 0 {
		thresholds.ZeroHeavyFraction = profileOpts.zeroHeavy
	}

	l := loader.New(loader.Options{
		HasHeader:       !profileOpts.noHeader,
		ExpectedColumns: profileOpts.expectColumns,
	}, logger)

	tbl, err := l.Load(args[0])
	if err != nil {
		return err
	}

	profiler, err := profile.NewProfiler(thresholds, logger)
	if err != nil {
		return err
	}
	if profileOpts.workers > 1 {
		profiler = profiler.WithWorkers(profileOpts.workers)
	}

	schemaReport, err := profiler.Profile(tbl)
	if err != nil {
		return err
	}

	disp.Info(fmt.Sprintf("%s: %d rows, %d columns", tbl.Name, schemaReport.Rows, schemaReport.Cols))
	disp.Table(
		[]string{"column", "dtype", "nunique", "min", "max", "% zeros", "monotonic", "const/low-card", "possible role (hypothesis)"},
		profileRows(schemaReport),
	)
	disp.Plain("Role hypotheses are statistical-shape guesses only, not physical meanings.")

	if profileOpts.reportPath != "" {
		if err := os.MkdirAll(filepath.Dir(profileOpts.reportPath), 0755); err != nil {
			return err
		}
		if err := report.WriteMarkdown(schemaReport, profileOpts.reportPath); err != nil {
			return err
		}
		disp.Success(fmt.Sprintf("Wrote schema report to %s", profileOpts.reportPath))
	}

	return nil
}

func profileRows(r *profile.SchemaReport) [][]string {
	rows := make([][]string, 0, len(r.Profiles))
	for i := range r.Profiles {
		p := &r.Profiles[i]

		min, max := "", ""
		if p.HasMinMax {
			min = report.FormatNumber(p.Min)
			max = report.FormatNumber(p.Max)
		}
		zeros := "n/a"
		if p.HasZeroFrac {
			zeros = report.FormatPercent(p.ZeroFraction)
		}
		mono := "n/a"
		if p.DType.IsNumeric() {
			mono = string(p.Monotonicity)
		}

		rows = append(rows, []string{
			p.Name, p.DTag, fmt.Sprintf("%d", p.NUnique),
			min, max, zeros, mono, string(p.Cardinality), p.Role,
		})
	}
	return rows
}
