package ogr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
)

// fakeTool writes a shell script standing in for ogr2ogr.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(t.TempDir(), "ogr2ogr")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func testSpec() LayerSpec {
	return LayerSpec{OutputPath: "out.gpkg", SourcePath: "in.shp", LayerName: "layer", SQL: "SELECT 1"}
}

func TestExecutor_Success(t *testing.T) {
	opts := config.Default().Ogr
	opts.Binary = fakeTool(t, `echo "Warning 1: something odd" >&2; echo progress; exit 0`)

	res, err := NewExecutor(opts).Convert(context.Background(), testSpec())
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Diagnostics, "Warning 1: something odd")
	assert.NotContains(t, res.Diagnostics, "progress")
}

func TestExecutor_PassesArguments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args.txt")
	opts := config.Default().Ogr
	opts.Binary = fakeTool(t, `for a in "$@"; do echo "$a"; done > `+out)

	_, err := NewExecutor(opts).Convert(context.Background(), testSpec())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	want, err := BuildArgs(testSpec(), opts)
	require.NoError(t, err)
	assert.Equal(t, want, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestExecutor_NonZeroExit(t *testing.T) {
	opts := config.Default().Ogr
	opts.Binary = fakeTool(t, `echo "ERROR 1: Unable to open datasource" >&2; exit 3`)

	res, err := NewExecutor(opts).Convert(context.Background(), testSpec())
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Diagnostics, "ERROR 1: Unable to open datasource")
}

func TestExecutor_MissingBinary(t *testing.T) {
	tests := []struct {
		name   string
		binary string
	}{
		{"absolute path", filepath.Join(t.TempDir(), "no-such-ogr2ogr")},
		{"not on PATH", "no-such-ogr2ogr-binary-on-path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := config.Default().Ogr
			opts.Binary = tt.binary

			_, err := NewExecutor(opts).Convert(context.Background(), testSpec())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrToolUnavailable), "got %v", err)
		})
	}
}

func TestExecutor_InvalidSpec(t *testing.T) {
	_, err := NewExecutor(config.Default().Ogr).Convert(context.Background(), LayerSpec{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrToolUnavailable))
}
