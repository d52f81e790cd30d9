package profile

import (
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

// Monotonicity classifies the row-order trend of a numeric column.
type Monotonicity string

const (
	MonotonicIncreasing Monotonicity = "monotonic_increasing"
	MonotonicDecreasing Monotonicity = "monotonic_decreasing"
	NotMonotonic        Monotonicity = "not_monotonic"
)

// Cardinality classifies how many distinct values a column carries.
type Cardinality string

const (
	Constant     Cardinality = "constant"
	NearConstant Cardinality = "near_constant"
	Varies       Cardinality = "varies"
)

// Role hypothesis labels. These are advisory pattern-based guesses only and
// never assign physical meaning to a column.
const (
	RoleConstantCategory = "label/type (constant category)"
	RoleConstantZero     = "constant sensor/setting (fixed parameter)"
	RoleConstantSensor   = "constant sensor/setting"
	RoleMonotonic        = "counter or time-like variable (monotonic)"
	RoleNearConstant     = "near-constant reading (low variation)"
	RoleZeroHeavy        = "flag/channel, mostly unused"
	RoleUnknown          = "unknown"
)

// Thresholds are the tunable classification parameters. Zero value is not
// usable; start from DefaultThresholds.
type Thresholds struct {
	// NearConstantMaxNunique is the largest distinct-value count a numeric
	// column may have and still classify near_constant.
	NearConstantMaxNunique int `yaml:"near_constant_max_nunique"`

	// NearConstantMaxRange is the largest max-min spread for near_constant.
	NearConstantMaxRange float64 `yaml:"near_constant_max_range"`

	// ZeroHeavyFraction is the zero fraction at or above which a column gets
	// the mostly-unused role hypothesis.
	ZeroHeavyFraction float64 `yaml:"zero_heavy_fraction"`
}

// DefaultThresholds returns the documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NearConstantMaxNunique: 2,
		NearConstantMaxRange:   0.5,
		ZeroHeavyFraction:      0.90,
	}
}

// Validate checks threshold sanity.
func (th Thresholds) Validate() error {
	if th.NearConstantMaxNunique < 1 {
		return errors.Newf(ErrInvalidThresholds,
			"near_constant_max_nunique must be >= 1, got %d", th.NearConstantMaxNunique)
	}
	if th.NearConstantMaxRange < 0 {
		return errors.Newf(ErrInvalidThresholds,
			"near_constant_max_range must be >= 0, got %g", th.NearConstantMaxRange)
	}
	if th.ZeroHeavyFraction < 0 || th.ZeroHeavyFraction > 1 {
		return errors.Newf(ErrInvalidThresholds,
			"zero_heavy_fraction must be in [0,1], got %g", th.ZeroHeavyFraction)
	}
	return nil
}

// ColumnProfile is the read-only summary for one column. Created fresh per
// profiling run and never mutated after creation.
type ColumnProfile struct {
	Name    string      `json:"name"`
	DType   table.DType `json:"-"`
	DTag    string      `json:"dtype"`
	NUnique int         `json:"nunique"`

	// Min/Max/ZeroFraction are defined only when the matching Has flag is
	// set: numeric columns with at least one non-null value.
	Min          float64 `json:"min,omitempty"`
	Max          float64 `json:"max,omitempty"`
	HasMinMax    bool    `json:"-"`
	ZeroFraction float64 `json:"zero_fraction,omitempty"`
	HasZeroFrac  bool    `json:"-"`

	Monotonicity Monotonicity `json:"monotonic"`
	Cardinality  Cardinality  `json:"cardinality"`
	Role         string       `json:"role"`
}

// SchemaReport is an ordered sequence of column profiles plus table-level
// dimensions. Profile order matches table column order.
type SchemaReport struct {
	TableName string          `json:"table"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	Profiles  []ColumnProfile `json:"columns"`
}

// ColumnNames returns profiled column names in report order.
func (r *SchemaReport) ColumnNames() []string {
	names := make([]string, len(r.Profiles))
	for i := range r.Profiles {
		names[i] = r.Profiles[i].Name
	}
	return names
}
