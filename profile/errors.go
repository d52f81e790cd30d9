package profile

import "github.com/tabscope/tabscope/pkg/errors"

// Profiler-specific error codes
var (
	ErrEmptyTable        = errors.MustNewCode("profile.empty_table")
	ErrInvalidThresholds = errors.MustNewCode("profile.invalid_thresholds")
)
