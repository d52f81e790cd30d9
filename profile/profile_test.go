package profile

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

func newTestProfiler(t *testing.T) *Profiler {
	t.Helper()
	p, err := NewProfiler(DefaultThresholds(), zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestProfileScenario(t *testing.T) {
	// Reference scenario: monotonic id, all-zero flag, constant category.
	tbl, err := table.New("scenario",
		table.NewIntColumn("id", []int64{1, 2, 3, 4}, nil),
		table.NewIntColumn("flag", []int64{0, 0, 0, 0}, nil),
		table.NewTextColumn("cat", []string{"A", "A", "A", "A"}, nil),
	)
	require.NoError(t, err)

	report, err := newTestProfiler(t).Profile(tbl)
	require.NoError(t, err)

	require.Len(t, report.Profiles, 3)
	assert.Equal(t, tbl.ColumnNames(), report.ColumnNames())
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 3, report.Cols)

	id := report.Profiles[0]
	assert.Equal(t, MonotonicIncreasing, id.Monotonicity)
	assert.Equal(t, RoleMonotonic, id.Role)

	flag := report.Profiles[1]
	assert.Equal(t, Constant, flag.Cardinality)
	require.True(t, flag.HasZeroFrac)
	assert.Equal(t, 1.0, flag.ZeroFraction)
	assert.Equal(t, RoleConstantZero, flag.Role)

	cat := report.Profiles[2]
	assert.Equal(t, Constant, cat.Cardinality)
	assert.False(t, cat.HasMinMax)
	assert.Equal(t, RoleConstantCategory, cat.Role)
}

func TestProfileEmptyTable(t *testing.T) {
	tbl, err := table.New("empty")
	require.NoError(t, err)

	_, err = newTestProfiler(t).Profile(tbl)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrEmptyTable))
}

func TestProfileZeroRows(t *testing.T) {
	tbl, err := table.New("zero-rows",
		table.NewFloatColumn("v", []float64{}, nil),
	)
	require.NoError(t, err)

	report, err := newTestProfiler(t).Profile(tbl)
	require.NoError(t, err)

	v := report.Profiles[0]
	assert.Equal(t, 0, v.NUnique)
	assert.False(t, v.HasMinMax)
	assert.False(t, v.HasZeroFrac)
	assert.Equal(t, NotMonotonic, v.Monotonicity)
	assert.Equal(t, RoleUnknown, v.Role)
}

func TestProfileMalformedTable(t *testing.T) {
	tbl := &table.Table{
		Name: "bad",
		Rows: 3,
		Columns: []table.Column{
			table.NewIntColumn("id", []int64{1, 2}, nil),
		},
	}

	_, err := newTestProfiler(t).Profile(tbl)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, table.ErrColumnLengthMismatch))
}

func TestMonotonicity(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		nulls  []bool
		want   Monotonicity
	}{
		{"strictly increasing", []float64{1, 2, 3, 4}, nil, MonotonicIncreasing},
		{"increasing with ties", []float64{1, 1, 2, 3}, nil, MonotonicIncreasing},
		{"decreasing", []float64{9, 7, 7, 1}, nil, MonotonicDecreasing},
		{"mixed", []float64{1, 3, 2}, nil, NotMonotonic},
		{"all equal", []float64{5, 5, 5}, nil, NotMonotonic},
		{"single value", []float64{5}, nil, NotMonotonic},
		{"empty", []float64{}, nil, NotMonotonic},
		{"nulls skipped", []float64{1, 99, 3}, []bool{false, true, false}, MonotonicIncreasing},
	}

	p := newTestProfiler(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := table.New("m", table.NewFloatColumn("v", tc.values, tc.nulls))
			require.NoError(t, err)

			report, err := p.Profile(tbl)
			require.NoError(t, err)
			assert.Equal(t, tc.want, report.Profiles[0].Monotonicity)
		})
	}
}

func TestConstantNumericRoles(t *testing.T) {
	p := newTestProfiler(t)

	tbl, err := table.New("c",
		table.NewFloatColumn("zero", []float64{0, 0, 0}, nil),
		table.NewFloatColumn("fixed", []float64{7.5, 7.5, 7.5}, nil),
	)
	require.NoError(t, err)

	report, err := p.Profile(tbl)
	require.NoError(t, err)

	zero := report.Profiles[0]
	assert.Equal(t, 1, zero.NUnique)
	assert.Equal(t, RoleConstantZero, zero.Role)

	fixed := report.Profiles[1]
	assert.Equal(t, 1, fixed.NUnique)
	assert.Equal(t, RoleConstantSensor, fixed.Role)
}

func TestNearConstant(t *testing.T) {
	p := newTestProfiler(t)

	tbl, err := table.New("nc",
		table.NewFloatColumn("narrow", []float64{1.0, 1.2, 1.0, 1.2}, nil),
		table.NewFloatColumn("wide", []float64{1.0, 9.0, 1.0, 9.0}, nil),
	)
	require.NoError(t, err)

	report, err := p.Profile(tbl)
	require.NoError(t, err)

	assert.Equal(t, NearConstant, report.Profiles[0].Cardinality)
	assert.Equal(t, RoleNearConstant, report.Profiles[0].Role)

	// Two distinct values but the spread exceeds the range threshold.
	assert.Equal(t, Varies, report.Profiles[1].Cardinality)
}

func TestZeroHeavyRole(t *testing.T) {
	p := newTestProfiler(t)

	values := make([]float64, 100)
	values[3] = 1.5
	values[40] = -2.0
	values[77] = 3.25

	tbl, err := table.New("z", table.NewFloatColumn("ch", values, nil))
	require.NoError(t, err)

	report, err := p.Profile(tbl)
	require.NoError(t, err)

	ch := report.Profiles[0]
	require.True(t, ch.HasZeroFrac)
	assert.InDelta(t, 0.97, ch.ZeroFraction, 1e-9)
	assert.Equal(t, RoleZeroHeavy, ch.Role)
}

func TestMonotonicTakesPrecedenceOverZeroHeavy(t *testing.T) {
	// Non-negative, mostly-zero but monotonic column: the counter hypothesis
	// wins under the documented precedence.
	values := make([]float64, 50)
	for i := 45; i < 50; i++ {
		values[i] = float64(i - 44)
	}

	tbl, err := table.New("m", table.NewFloatColumn("v", values, nil))
	require.NoError(t, err)

	report, err := newTestProfiler(t).Profile(tbl)
	require.NoError(t, err)
	assert.Equal(t, RoleMonotonic, report.Profiles[0].Role)
}

func TestCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.NearConstantMaxNunique = 4
	th.NearConstantMaxRange = 10

	p, err := NewProfiler(th, zerolog.Nop())
	require.NoError(t, err)

	tbl, err := table.New("c",
		table.NewFloatColumn("v", []float64{1, 4, 7, 9}, nil),
	)
	require.NoError(t, err)

	report, err := p.Profile(tbl)
	require.NoError(t, err)
	assert.Equal(t, NearConstant, report.Profiles[0].Cardinality)
}

func TestThresholdValidation(t *testing.T) {
	bad := []Thresholds{
		{NearConstantMaxNunique: 0, NearConstantMaxRange: 0.5, ZeroHeavyFraction: 0.9},
		{NearConstantMaxNunique: 2, NearConstantMaxRange: -1, ZeroHeavyFraction: 0.9},
		{NearConstantMaxNunique: 2, NearConstantMaxRange: 0.5, ZeroHeavyFraction: 1.5},
	}
	for _, th := range bad {
		_, err := NewProfiler(th, zerolog.Nop())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, ErrInvalidThresholds))
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	cols := make([]table.Column, 0, 8)
	for i := 0; i < 8; i++ {
		values := make([]int64, 200)
		for j := range values {
			values[j] = int64((j * (i + 1)) % 17)
		}
		cols = append(cols, table.NewIntColumn("c"+string(rune('a'+i)), values, nil))
	}

	tbl, err := table.New("wide", cols...)
	require.NoError(t, err)

	serial, err := newTestProfiler(t).Profile(tbl)
	require.NoError(t, err)

	parallel, err := newTestProfiler(t).WithWorkers(4).Profile(tbl)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}
