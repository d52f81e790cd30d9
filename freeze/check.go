package freeze

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tabscope/tabscope/pkg/errors"
)

// SaveRecord writes a freeze record as JSON.
func SaveRecord(record *FreezeRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.New(ErrRecordWriteFailed, "failed to marshal freeze record", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(ErrRecordWriteFailed, "failed to write freeze record", err)
	}
	return nil
}

// LoadRecord reads a previously saved freeze record, validating that every
// comparison field is present before trusting it.
func LoadRecord(path string) (*FreezeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(ErrRecordReadFailed, "failed to read freeze record", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.Newf(ErrRecordInvalid, "freeze record %s is not valid JSON", path)
	}

	parsed := gjson.ParseBytes(data)
	for _, field := range []string{"path", "rows", "cols", "dtypes", "hash"} {
		if !parsed.Get(field).Exists() {
			return nil, errors.Newf(ErrRecordInvalid,
				"freeze record %s is missing field %q", path, field)
		}
	}

	record := &FreezeRecord{
		ID:   parsed.Get("id").String(),
		Path: parsed.Get("path").String(),
		Rows: int(parsed.Get("rows").Int()),
		Cols: int(parsed.Get("cols").Int()),
		Hash: parsed.Get("hash").String(),
	}
	for _, tag := range parsed.Get("dtypes").Array() {
		record.DTypes = append(record.DTypes, tag.String())
	}
	if ts := parsed.Get("frozen_at"); ts.Exists() {
		if parsedTime, err := time.Parse(time.RFC3339Nano, ts.String()); err == nil {
			record.FrozenAt = parsedTime
		}
	}

	return record, nil
}

// Diff describes how a freshly computed record differs from a stored one.
// An empty Diff means the processed dataset has not silently changed.
func Diff(current, stored *FreezeRecord) []string {
	var drift []string

	if current.Rows != stored.Rows {
		drift = append(drift, fmt.Sprintf("row count changed: %d -> %d", stored.Rows, current.Rows))
	}
	if current.Cols != stored.Cols {
		drift = append(drift, fmt.Sprintf("column count changed: %d -> %d", stored.Cols, current.Cols))
	}
	if len(current.DTypes) == len(stored.DTypes) {
		for i := range current.DTypes {
			if current.DTypes[i] != stored.DTypes[i] {
				drift = append(drift, fmt.Sprintf("column %d dtype changed: %s -> %s",
					i, stored.DTypes[i], current.DTypes[i]))
			}
		}
	}
	if current.Hash != stored.Hash {
		drift = append(drift, fmt.Sprintf("content hash changed: %s -> %s", stored.Hash, current.Hash))
	}

	return drift
}
