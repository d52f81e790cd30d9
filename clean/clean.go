// Package clean performs structural, format-level cleaning only: trimming
// text, best-effort numeric coercion and dropping columns that are mostly
// missing. It never interprets what a column means.
package clean

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

// Cleaner-specific error codes
var (
	ErrInvalidOptions = errors.MustNewCode("clean.invalid_options")
	ErrSaveFailed     = errors.MustNewCode("clean.save_failed")
)

// Options control cleaning behavior.
type Options struct {
	// MaxMissingRatio drops columns whose missing fraction exceeds it.
	MaxMissingRatio float64 `yaml:"max_missing_ratio"`

	// CoerceFraction converts a text column to float when at least this
	// fraction of its non-missing values parses as numeric; values that do
	// not parse become missing.
	CoerceFraction float64 `yaml:"coerce_fraction"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxMissingRatio: 0.60,
		CoerceFraction:  0.80,
	}
}

// Validate checks option sanity.
func (o Options) Validate() error {
	if o.MaxMissingRatio < 0 || o.MaxMissingRatio > 1 {
		return errors.Newf(ErrInvalidOptions, "max_missing_ratio must be in [0,1], got %g", o.MaxMissingRatio)
	}
	if o.CoerceFraction <= 0 || o.CoerceFraction > 1 {
		return errors.Newf(ErrInvalidOptions, "coerce_fraction must be in (0,1], got %g", o.CoerceFraction)
	}
	return nil
}

// Result carries the cleaned table plus what was changed.
type Result struct {
	Table          *table.Table
	DroppedColumns []string
	CoercedColumns []string
}

// Cleaner applies structural cleaning to loaded tables.
type Cleaner struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Cleaner.
func New(opts Options, logger zerolog.Logger) (*Cleaner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Cleaner{
		opts:   opts,
		logger: logger.With().Str("component", "cleaner").Logger(),
	}, nil
}

// Clean trims text, coerces numeric-looking text columns and drops columns
// past the missing-ratio threshold. The input table is not modified.
func (c *Cleaner) Clean(t *table.Table) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	var kept []table.Column

	for i := range t.Columns {
		col := trimText(&t.Columns[i])

		if coerced, ok := c.coerceNumeric(&col); ok {
			col = coerced
			result.CoercedColumns = append(result.CoercedColumns, col.Name)
		}

		if t.NumRows() > 0 {
			ratio := float64(col.NullCount()) / float64(t.NumRows())
			if ratio > c.opts.MaxMissingRatio {
				result.DroppedColumns = append(result.DroppedColumns, col.Name)
				continue
			}
		}

		kept = append(kept, col)
	}

	if len(result.DroppedColumns) > 0 {
		c.logger.Info().
			Strs("columns", result.DroppedColumns).
			Float64("max_missing_ratio", c.opts.MaxMissingRatio).
			Msg("Dropped mostly-missing columns")
	}

	cleaned, err := table.New(t.Name, kept...)
	if err != nil {
		return nil, err
	}
	result.Table = cleaned
	return result, nil
}

// trimText returns a copy of text columns with surrounding whitespace
// stripped; other dtypes pass through unchanged.
func trimText(c *table.Column) table.Column {
	if c.DType != table.Text {
		return *c
	}

	out := *c
	out.Texts = make([]string, len(c.Texts))
	for i, v := range c.Texts {
		out.Texts[i] = strings.TrimSpace(v)
	}
	return out
}

// coerceNumeric converts a text column to float when enough of its values
// parse; cells that fail to parse become missing rather than failing the
// clean.
func (c *Cleaner) coerceNumeric(col *table.Column) (table.Column, bool) {
	if col.DType != table.Text {
		return table.Column{}, false
	}

	n := len(col.Texts)
	parsed := make([]float64, n)
	nulls := make([]bool, n)
	nonMissing, numeric := 0, 0

	for i, v := range col.Texts {
		if col.IsNull(i) || v == "" {
			nulls[i] = true
			continue
		}
		nonMissing++
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			nulls[i] = true
			continue
		}
		parsed[i] = f
		numeric++
	}

	if nonMissing == 0 || float64(numeric)/float64(nonMissing) < c.opts.CoerceFraction {
		return table.Column{}, false
	}

	c.logger.Debug().
		Str("column", col.Name).
		Int("coerced_to_missing", nonMissing-numeric).
		Msg("Coerced text column to float")

	return table.NewFloatColumn(col.Name, parsed, nulls), true
}

// SaveCSV writes a table as a headered CSV file, rendering missing entries
// as empty fields.
func SaveCSV(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(ErrSaveFailed, "failed to create output file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return errors.New(ErrSaveFailed, "failed to write header", err)
	}

	row := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j := range t.Columns {
			row[j] = cellString(&t.Columns[j], i)
		}
		if err := w.Write(row); err != nil {
			return errors.New(ErrSaveFailed, "failed to write row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.New(ErrSaveFailed, "failed to flush output", err)
	}
	return nil
}

func cellString(c *table.Column, i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.DType {
	case table.Integer:
		return strconv.FormatInt(c.Ints[i], 10)
	case table.Float:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	default:
		return c.Texts[i]
	}
}
