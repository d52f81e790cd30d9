// Package report renders schema reports and freeze records for humans:
// Markdown documents for the reports directory and plain text summaries for
// the terminal.
package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tabscope/tabscope/freeze"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/profile"
)

// Report-specific error codes
var (
	ErrWriteFailed = errors.MustNewCode("report.write_failed")
)

const notApplicable = "n/a"

// Markdown renders a SchemaReport as a Markdown document. The disclaimer
// wording is fixed: role hypotheses are functional guesses and must never
// read as physical-meaning claims.
func Markdown(r *profile.SchemaReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s schema report\n\n", r.TableName)
	b.WriteString("**Important:** This report is *functional/technical* profiling only.\n")
	b.WriteString("It does **not** assign physical meaning definitively. Any 'possible role' is a hypothesis.\n\n")
	fmt.Fprintf(&b, "- Rows: **%d**\n", r.Rows)
	fmt.Fprintf(&b, "- Columns: **%d**\n\n", r.Cols)

	b.WriteString("## Column summary\n\n")
	b.WriteString("| column | dtype | nunique | min | max | % zeros | monotonic | const/low-card | possible role (hypothesis) |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---|\n")

	for i := range r.Profiles {
		p := &r.Profiles[i]
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s |\n",
			p.Name, p.DTag, p.NUnique,
			minCell(p), maxCell(p), zerosCell(p),
			monotonicCell(p), string(p.Cardinality), p.Role)
	}

	b.WriteString("\n## Notes / next steps\n\n")
	b.WriteString("- If a column is monotonic increasing, it is often a counter or timestamp-like field.\n")
	b.WriteString("- If a column is constant (or low-cardinality), it may be a fixed sensor reading or a configuration parameter.\n")
	b.WriteString("- If a column is mostly zeros, it may be a flag/channel not used in this measurement setup.\n")
	b.WriteString("- Definitive physical mapping should be done by comparing with device documentation and checking expected units/ranges.\n")

	return b.String()
}

// WriteMarkdown renders the report and writes it to path.
func WriteMarkdown(r *profile.SchemaReport, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(r)), 0644); err != nil {
		return errors.New(ErrWriteFailed, "failed to write schema report", err)
	}
	return nil
}

// FreezeText renders a freeze record as a plain text summary: path, counts,
// hash and one dtype line per column in original order.
func FreezeText(record *freeze.FreezeRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "file:    %s\n", record.Path)
	fmt.Fprintf(&b, "rows:    %d\n", record.Rows)
	fmt.Fprintf(&b, "columns: %d\n", record.Cols)
	fmt.Fprintf(&b, "sha256:  %s\n", record.Hash)
	for i, tag := range record.DTypes {
		fmt.Fprintf(&b, "  col %d: %s\n", i, tag)
	}

	return b.String()
}

// FormatNumber renders a numeric statistic losslessly in the shortest form
// that round-trips: small integers come out as plain decimals, large or very
// small magnitudes in scientific notation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatPercent renders a fraction as a percentage with two decimals.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func minCell(p *profile.ColumnProfile) string {
	if !p.HasMinMax {
		return ""
	}
	return FormatNumber(p.Min)
}

func maxCell(p *profile.ColumnProfile) string {
	if !p.HasMinMax {
		return ""
	}
	return FormatNumber(p.Max)
}

func zerosCell(p *profile.ColumnProfile) string {
	if !p.HasZeroFrac {
		return notApplicable
	}
	return FormatPercent(p.ZeroFraction)
}

func monotonicCell(p *profile.ColumnProfile) string {
	if !p.DType.IsNumeric() {
		return notApplicable
	}
	return string(p.Monotonicity)
}
