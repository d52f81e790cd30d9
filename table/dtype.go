package table

import "github.com/tabscope/tabscope/pkg/errors"

// DType is the declared semantic type of a column, resolved once at load
// time and carried immutably thereafter.
type DType int

const (
	Integer DType = iota
	Float
	Text
)

// String returns the dtype tag used in reports and freeze records.
func (d DType) String() string {
	switch d {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this dtype participate in numeric
// statistics (min/max, zero fraction, monotonicity).
func (d DType) IsNumeric() bool {
	return d == Integer || d == Float
}

// ParseDType resolves a dtype tag back to its DType.
func ParseDType(tag string) (DType, error) {
	switch tag {
	case "integer":
		return Integer, nil
	case "float":
		return Float, nil
	case "text":
		return Text, nil
	default:
		return 0, errors.Newf(ErrUnknownDType, "unknown dtype tag %q", tag)
	}
}
