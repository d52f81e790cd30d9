package config

import "github.com/tabscope/tabscope/pkg/errors"

// Config-specific error codes
var (
	ErrFileReadFailed     = errors.MustNewCode("config.file_read_failed")
	ErrFileParseFailed    = errors.MustNewCode("config.file_parse_failed")
	ErrFileWriteFailed    = errors.MustNewCode("config.file_write_failed")
	ErrValidationFailed   = errors.MustNewCode("config.validation_failed")
	ErrInvalidLogLevel    = errors.MustNewCode("config.invalid_log_level")
	ErrLogFileOpenFailed  = errors.MustNewCode("config.log_file_open_failed")
	ErrLogDirCreateFailed = errors.MustNewCode("config.log_dir_create_failed")
)
