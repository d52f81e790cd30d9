package profile

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

// Profiler computes a SchemaReport from a Table in a single pass per column,
// with no side effects and no I/O.
type Profiler struct {
	thresholds Thresholds
	workers    int
	logger     zerolog.Logger
}

// NewProfiler creates a Profiler with the given thresholds.
func NewProfiler(th Thresholds, logger zerolog.Logger) (*Profiler, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Profiler{
		thresholds: th,
		workers:    1,
		logger:     logger.With().Str("component", "profiler").Logger(),
	}, nil
}

// WithWorkers enables parallel per-column profiling. Columns are profiled
// independently with read-only table access, each profile written to its own
// output slot; results are identical to the serial path.
func (p *Profiler) WithWorkers(n int) *Profiler {
	if n < 1 {
		n = 1
	}
	p.workers = n
	return p
}

// Profile produces one ColumnProfile per column, in table column order. A
// zero-column table fails with profile.empty_table; a zero-row table
// succeeds with nunique 0, undefined min/max and role "unknown".
func (p *Profiler) Profile(t *table.Table) (*SchemaReport, error) {
	if t.NumCols() == 0 {
		return nil, errors.Newf(ErrEmptyTable, "table %q has no columns", t.Name)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("table", t.Name).
		Int("rows", t.NumRows()).
		Int("cols", t.NumCols()).
		Msg("Profiling table")

	profiles := make([]ColumnProfile, t.NumCols())

	if p.workers > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, p.workers)
		for i := range t.Columns {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				profiles[i] = p.profileColumn(&t.Columns[i])
				<-sem
			}(i)
		}
		wg.Wait()
	} else {
		for i := range t.Columns {
			profiles[i] = p.profileColumn(&t.Columns[i])
		}
	}

	return &SchemaReport{
		TableName: t.Name,
		Rows:      t.NumRows(),
		Cols:      t.NumCols(),
		Profiles:  profiles,
	}, nil
}

// profileColumn computes all statistics for one column over its non-null
// entries, then classifies cardinality and assigns the role hypothesis.
func (p *Profiler) profileColumn(c *table.Column) ColumnProfile {
	cp := ColumnProfile{
		Name:         c.Name,
		DType:        c.DType,
		DTag:         c.DType.String(),
		Monotonicity: NotMonotonic,
		Cardinality:  Varies,
		Role:         RoleUnknown,
	}

	if c.DType.IsNumeric() {
		p.profileNumeric(c, &cp)
	} else {
		p.profileText(c, &cp)
	}

	cp.Cardinality = p.classifyCardinality(&cp)
	cp.Role = p.classifyRole(&cp)

	p.logger.Debug().
		Str("column", cp.Name).
		Str("dtype", cp.DTag).
		Int("nunique", cp.NUnique).
		Str("role", cp.Role).
		Msg("Profiled column")

	return cp
}

func (p *Profiler) profileNumeric(c *table.Column, cp *ColumnProfile) {
	distinct := make(map[float64]struct{})

	var (
		count, zeros int
		min, max     float64
		prev         float64
		havePrev     bool
		nonDecr      = true
		nonIncr      = true
	)

	for i := 0; i < c.Len(); i++ {
		v, ok := c.Float64(i)
		if !ok {
			continue
		}

		distinct[v] = struct{}{}
		if v == 0 {
			zeros++
		}

		if count == 0 {
			min, max = v, v
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		count++

		if havePrev {
			if v < prev {
				nonDecr = false
			}
			if v > prev {
				nonIncr = false
			}
		}
		prev = v
		havePrev = true
	}

	cp.NUnique = len(distinct)
	if count > 0 {
		cp.Min, cp.Max = min, max
		cp.HasMinMax = true
		cp.ZeroFraction = float64(zeros) / float64(count)
		cp.HasZeroFrac = true
	}

	// A single usable value is vacuously both non-decreasing and
	// non-increasing; by convention that carries no signal and classifies
	// as not_monotonic, as does an all-equal sequence.
	switch {
	case count <= 1:
		cp.Monotonicity = NotMonotonic
	case nonDecr && !nonIncr:
		cp.Monotonicity = MonotonicIncreasing
	case nonIncr && !nonDecr:
		cp.Monotonicity = MonotonicDecreasing
	default:
		cp.Monotonicity = NotMonotonic
	}
}

func (p *Profiler) profileText(c *table.Column, cp *ColumnProfile) {
	distinct := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		distinct[c.Texts[i]] = struct{}{}
	}
	cp.NUnique = len(distinct)
}

func (p *Profiler) classifyCardinality(cp *ColumnProfile) Cardinality {
	if cp.NUnique == 1 {
		return Constant
	}
	if cp.HasMinMax &&
		cp.NUnique <= p.thresholds.NearConstantMaxNunique &&
		cp.Max-cp.Min <= p.thresholds.NearConstantMaxRange {
		return NearConstant
	}
	return Varies
}

// classifyRole assigns the role hypothesis; first match wins. The labels are
// advisory shape-based guesses, never claims about physical meaning.
func (p *Profiler) classifyRole(cp *ColumnProfile) string {
	switch {
	case cp.NUnique == 1 && cp.DType == table.Text:
		return RoleConstantCategory
	case cp.NUnique == 1 && cp.HasMinMax && cp.Min == 0 && cp.Max == 0:
		return RoleConstantZero
	case cp.NUnique == 1 && cp.DType.IsNumeric():
		return RoleConstantSensor
	case cp.Monotonicity == MonotonicIncreasing || cp.Monotonicity == MonotonicDecreasing:
		return RoleMonotonic
	case cp.Cardinality == NearConstant:
		return RoleNearConstant
	case cp.HasZeroFrac && cp.ZeroFraction >= p.thresholds.ZeroHeavyFraction:
		return RoleZeroHeavy
	default:
		return RoleUnknown
	}
}
