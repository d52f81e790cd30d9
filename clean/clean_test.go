package clean

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

func newTestCleaner(t *testing.T) *Cleaner {
	t.Helper()
	c, err := New(DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestCleanTrimsText(t *testing.T) {
	tbl, err := table.New("x",
		table.NewTextColumn("city", []string{" Delhi ", "Mumbai", " Pune"}, nil),
	)
	require.NoError(t, err)

	result, err := newTestCleaner(t).Clean(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Delhi", "Mumbai", "Pune"}, result.Table.Columns[0].Texts)

	// The input table stays untouched.
	assert.Equal(t, " Delhi ", tbl.Columns[0].Texts[0])
}

func TestCleanDropsMostlyMissingColumns(t *testing.T) {
	tbl, err := table.New("x",
		table.NewFloatColumn("good", []float64{1, 2, 3, 4, 5}, nil),
		table.NewFloatColumn("sparse", []float64{1, 0, 0, 0, 0}, []bool{false, true, true, true, true}),
	)
	require.NoError(t, err)

	result, err := newTestCleaner(t).Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"sparse"}, result.DroppedColumns)
	assert.Equal(t, []string{"good"}, result.Table.ColumnNames())
}

func TestCleanCoercesNumericText(t *testing.T) {
	tbl, err := table.New("x",
		table.NewTextColumn("v", []string{"1.5", "2.5", "oops", "4.0", "5.5"}, nil),
		table.NewTextColumn("label", []string{"a", "b", "c", "d", "e"}, nil),
	)
	require.NoError(t, err)

	result, err := newTestCleaner(t).Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"v"}, result.CoercedColumns)

	v := result.Table.Columns[0]
	assert.Equal(t, table.Float, v.DType)
	assert.Equal(t, 1, v.NullCount(), "unparseable cell becomes missing")
	assert.Equal(t, 1.5, v.Floats[0])

	assert.Equal(t, table.Text, result.Table.Columns[1].DType, "non-numeric text is left alone")
}

func TestCleanZeroRows(t *testing.T) {
	tbl, err := table.New("x", table.NewFloatColumn("v", []float64{}, nil))
	require.NoError(t, err)

	result, err := newTestCleaner(t).Clean(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Table.NumCols())
	assert.Empty(t, result.DroppedColumns)
}

func TestOptionsValidate(t *testing.T) {
	bad := []Options{
		{MaxMissingRatio: -0.1, CoerceFraction: 0.8},
		{MaxMissingRatio: 0.6, CoerceFraction: 0},
		{MaxMissingRatio: 1.5, CoerceFraction: 0.8},
	}
	for _, o := range bad {
		_, err := New(o, zerolog.Nop())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, ErrInvalidOptions))
	}
}

func TestSaveCSV(t *testing.T) {
	tbl, err := table.New("x",
		table.NewIntColumn("id", []int64{1, 2}, nil),
		table.NewFloatColumn("v", []float64{1.5, 0}, []bool{false, true}),
		table.NewTextColumn("s", []string{"a", "b"}, nil),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCSV(tbl, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,v,s", lines[0])
	assert.Equal(t, "1,1.5,a", lines[1])
	assert.Equal(t, "2,,b", lines[2], "missing entries render as empty fields")
}

func TestSaveCSVBadPath(t *testing.T) {
	tbl, err := table.New("x", table.NewIntColumn("id", []int64{1}, nil))
	require.NoError(t, err)

	err = SaveCSV(tbl, filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrSaveFailed))
}
