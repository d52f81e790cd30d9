package table

import "github.com/tabscope/tabscope/pkg/errors"

// Table-specific error codes
var (
	ErrColumnLengthMismatch = errors.MustNewCode("table.column_length_mismatch")
	ErrColumnStorageInvalid = errors.MustNewCode("table.column_storage_invalid")
	ErrUnknownDType         = errors.MustNewCode("table.unknown_dtype")
)
