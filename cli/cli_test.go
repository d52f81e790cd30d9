package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabscope/tabscope/freeze"
	"github.com/tabscope/tabscope/pkg/errors"
)

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "readings.csv")
	data := "id,flag,cat\n1,0,A\n2,0,A\n3,0,A\n4,0,A\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestRunProfileWritesReport(t *testing.T) {
	dir := t.TempDir()
	dataset := writeDataset(t, dir)
	reportPath := filepath.Join(dir, "reports", "schema_report.md")

	oldOpts := *profileOpts
	defer func() { *profileOpts = oldOpts }()
	*profileOpts = profileOptions{reportPath: reportPath, workers: 1}

	require.NoError(t, runProfile(nil, []string{dataset}))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "counter or time-like variable (monotonic)")
	assert.Contains(t, string(data), "label/type (constant category)")
}

func TestRunFreezeAndCheck(t *testing.T) {
	dir := t.TempDir()
	dataset := writeDataset(t, dir)
	recordPath := filepath.Join(dir, "freeze.json")

	oldOpts := *freezeOpts
	defer func() { *freezeOpts = oldOpts }()

	*freezeOpts = freezeOptions{outputPath: recordPath}
	require.NoError(t, runFreeze(nil, []string{dataset}))

	record, err := freeze.LoadRecord(recordPath)
	require.NoError(t, err)
	assert.Equal(t, 4, record.Rows)
	assert.Equal(t, 3, record.Cols)

	// Unchanged dataset passes the check.
	*freezeOpts = freezeOptions{checkPath: recordPath}
	require.NoError(t, runFreeze(nil, []string{dataset}))

	// A single-cell mutation is reported as drift.
	mutated := "id,flag,cat\n1,0,A\n2,0,A\n3,1,A\n4,0,A\n"
	require.NoError(t, os.WriteFile(dataset, []byte(mutated), 0644))

	err = runFreeze(nil, []string{dataset})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrDatasetDrift))
}

func TestRunClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.csv")
	data := "v,sparse\n1.5, x \n2.5,\n3.5,\n4.5,\n5.5,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	outputPath := filepath.Join(dir, "processed", "raw_clean.csv")

	oldOpts := *cleanOpts
	defer func() { *cleanOpts = oldOpts }()
	*cleanOpts = cleanOptions{outputPath: outputPath, maxMissing: -1, coerceFraction: -1}

	require.NoError(t, runClean(nil, []string{path}))

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "v")
	assert.NotContains(t, string(out), "sparse", "mostly-missing column is dropped")
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(nil, []string{dir}))
	assert.FileExists(t, filepath.Join(dir, ".tabscope.yml"))

	// Refuses to clobber an existing config.
	require.Error(t, runInit(nil, []string{dir}))
}
