// Package loader turns delimited text files into in-memory tables. It
// handles CSV and whitespace-separated layouts, skips malformed lines,
// recognises missing-value tokens and resolves each column's dtype once, at
// load time. No schema inference happens beyond dtype detection.
package loader

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/tabscope/tabscope/table"
)

// Format selects how lines are split into fields.
type Format int

const (
	// FormatAuto picks CSV for .csv files and whitespace splitting otherwise.
	FormatAuto Format = iota
	FormatCSV
	FormatWhitespace
)

// Options control parsing behavior.
type Options struct {
	Format Format

	// HasHeader treats the first record as column names. When false columns
	// get neutral col_0..col_n names, making no assumptions about content.
	HasHeader bool

	// ExpectedColumns, when non-zero, makes loading fail fast if the parsed
	// field count differs. Lines with a deviating field count are skipped
	// either way.
	ExpectedColumns int
}

// DefaultOptions returns options for a headered CSV file.
func DefaultOptions() Options {
	return Options{Format: FormatAuto, HasHeader: true}
}

// Loader reads delimited text files into tables.
type Loader struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Loader.
func New(opts Options, logger zerolog.Logger) *Loader {
	return &Loader{
		opts:   opts,
		logger: logger.With().Str("component", "loader").Logger(),
	}
}

// Load reads the file at path into a Table.
func (l *Loader) Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	format := l.opts.Format
	if format == FormatAuto {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = FormatCSV
		} else {
			format = FormatWhitespace
		}
	}

	return l.load(filepath.Base(path), format, f)
}

// LoadReader reads delimited text from r into a Table named name. FormatAuto
// falls back to CSV here since there is no filename to inspect.
func (l *Loader) LoadReader(name string, r io.Reader) (*table.Table, error) {
	format := l.opts.Format
	if format == FormatAuto {
		format = FormatCSV
	}
	return l.load(name, format, r)
}

func (l *Loader) load(name string, format Format, r io.Reader) (*table.Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	default:
		records, err = readWhitespace(r)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Errorf("dataset %s has no parseable records", name)
	}

	var header []string
	if l.opts.HasHeader {
		header = records[0]
		records = records[1:]
	}

	width := 0
	if header != nil {
		width = len(header)
	} else if len(records) > 0 {
		width = len(records[0])
	}

	if l.opts.ExpectedColumns > 0 && width != l.opts.ExpectedColumns {
		return nil, errors.Errorf("expected %d columns after parsing, got %d: check delimiter or file format",
			l.opts.ExpectedColumns, width)
	}

	// Rows whose field count deviates from the established width are
	// skipped rather than failing the whole load.
	rows := records[:0]
	skipped := 0
	for _, rec := range records {
		if len(rec) != width {
			skipped++
			continue
		}
		rows = append(rows, rec)
	}
	if skipped > 0 {
		l.logger.Warn().
			Str("dataset", name).
			Int("skipped", skipped).
			Msg("Skipped rows with deviating field count")
	}

	names := header
	if names == nil {
		names = neutralNames(width)
	}

	columns := make([]table.Column, width)
	for col := 0; col < width; col++ {
		columns[col] = buildColumn(strings.TrimSpace(names[col]), col, rows)
	}

	tbl, err := table.New(name, columns...)
	if err != nil {
		return nil, errors.Wrap(err, "assemble table")
	}

	l.logger.Debug().
		Str("dataset", name).
		Int("rows", tbl.NumRows()).
		Int("cols", tbl.NumCols()).
		Msg("Loaded dataset")

	return tbl, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed lines are skipped, mirroring the variable-quality
			// sensor exports this tool exists for.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func readWhitespace(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records [][]string
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan dataset")
	}
	return records, nil
}

func neutralNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "col_" + strconv.Itoa(i)
	}
	return names
}
