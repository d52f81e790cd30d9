package loader

import (
	"strconv"
	"strings"

	"github.com/tabscope/tabscope/table"
)

// Tokens treated as missing values, matched after trimming.
var missingTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"NULL": {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
}

func isMissing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// buildColumn resolves the dtype for one column by full-column vote — every
// non-missing value must parse for a numeric dtype to win — and materialises
// the typed storage with a null mask for missing entries.
func buildColumn(name string, col int, rows [][]string) table.Column {
	n := len(rows)
	cells := make([]string, n)
	nulls := make([]bool, n)
	hasNull := false

	allInt := true
	allFloat := true
	for i, row := range rows {
		v := strings.TrimSpace(row[col])
		cells[i] = v
		if isMissing(v) {
			nulls[i] = true
			hasNull = true
			continue
		}
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
	}

	var mask []bool
	if hasNull {
		mask = nulls
	}

	switch {
	case allInt:
		values := make([]int64, n)
		for i, v := range cells {
			if nulls[i] {
				continue
			}
			values[i], _ = strconv.ParseInt(v, 10, 64)
		}
		return table.NewIntColumn(name, values, mask)

	case allFloat:
		values := make([]float64, n)
		for i, v := range cells {
			if nulls[i] {
				continue
			}
			values[i], _ = strconv.ParseFloat(v, 64)
		}
		return table.NewFloatColumn(name, values, mask)

	default:
		// Missing tokens stay flagged in the mask; the stored cell keeps its
		// zero value so text columns remain canonical.
		for i := range cells {
			if nulls[i] {
				cells[i] = ""
			}
		}
		return table.NewTextColumn(name, cells, mask)
	}
}
