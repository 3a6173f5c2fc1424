package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"out/dlm250.gpkg", "out/dlm250.log"},
		{"dlm250", "dlm250.log"},
		{"/data/v1.2/dlm.gpkg", "/data/v1.2/dlm.log"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultLogPath(tt.output), tt.output)
	}
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.gpkg")

	require.NoError(t, EnsureParentDir(path))
	assert.DirExists(t, filepath.Dir(path))

	require.NoError(t, EnsureParentDir("out.gpkg"))
}

func TestRemoveContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gpkg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path+"-wal", []byte("x"), 0o644))
	keep := filepath.Join(dir, "out.log")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	require.NoError(t, RemoveContainer(path))

	assert.False(t, FileExists(path))
	assert.False(t, FileExists(path+"-wal"))
	assert.True(t, FileExists(keep))

	require.NoError(t, RemoveContainer(path), "removing twice is fine")
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestWriteSummaryLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.txt")
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	summary := RunSummary{
		RunID:            "3f1c9a2e-0000-4000-8000-000000000000",
		StartTime:        start,
		EndTime:          start.Add(90 * time.Second),
		OutputPath:       "out/dlm250.gpkg",
		LogPath:          "out/dlm250.log",
		Planned:          3,
		Processed:        2,
		Status:           "failed",
		MissingSources:   []string{"src/roads.shp"},
		ConversionErrors: []string{"gewaesser_f: ogr2ogr exited with status 1"},
		Warnings:         []WarningLine{{Message: "Warning 1: truncated", Count: 4}},
	}

	require.NoError(t, WriteSummaryLog(summary, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Run ID:         3f1c9a2e-0000-4000-8000-000000000000")
	assert.Contains(t, text, "Duration:       1m30s")
	assert.Contains(t, text, "Processed Layers: 2")
	assert.Contains(t, text, "Status:           failed")
	assert.Contains(t, text, "Missing Sources:\n"+subRule+"  src/roads.shp\n")
	assert.Contains(t, text, "  gewaesser_f: ogr2ogr exited with status 1\n")
	assert.Contains(t, text, "  4x Warning 1: truncated\n")
	assert.NotContains(t, text, "Missing Styles:\n")
	assert.Contains(t, text, "End of Summary\n")
}
