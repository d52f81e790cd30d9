package freeze

import "github.com/tabscope/tabscope/pkg/errors"

// Fingerprinter-specific error codes
var (
	ErrSerializationFailed = errors.MustNewCode("freeze.serialization_failed")
	ErrRecordReadFailed    = errors.MustNewCode("freeze.record_read_failed")
	ErrRecordInvalid       = errors.MustNewCode("freeze.record_invalid")
	ErrRecordWriteFailed   = errors.MustNewCode("freeze.record_write_failed")
)
