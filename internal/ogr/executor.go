// Package ogr wraps the ogr2ogr command line tool, which does all geometry
// work for the builder.
package ogr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
)

// ErrToolUnavailable means the ogr2ogr executable could not be found at all.
// It is an environment failure and distinct from a failed conversion.
var ErrToolUnavailable = errors.New("ogr2ogr not found (is GDAL on the PATH?)")

// Result is the outcome of a finished ogr2ogr process.
type Result struct {
	// ExitCode is the process exit code; 0 means success.
	ExitCode int

	// Diagnostics is the captured stderr text.
	Diagnostics string
}

// LayerConverter converts one source layer into the output container.
//
// Convert returns ErrToolUnavailable when the tool cannot be started because
// it does not exist. A process that ran and failed is reported through
// Result.ExitCode with a nil error.
type LayerConverter interface {
	Convert(ctx context.Context, spec LayerSpec) (Result, error)
}

// Executor runs the real ogr2ogr binary.
type Executor struct {
	opts config.OgrSettings
}

// NewExecutor returns an Executor using the given tool settings.
func NewExecutor(opts config.OgrSettings) *Executor {
	return &Executor{opts: opts}
}

// Convert runs ogr2ogr for spec and waits for it to exit.
func (e *Executor) Convert(ctx context.Context, spec LayerSpec) (Result, error) {
	args, err := BuildArgs(spec, e.opts)
	if err != nil {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, e.opts.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := Result{Diagnostics: stderr.String()}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 when the process was killed by a signal.
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrToolUnavailable, e.opts.Binary)
	}

	return Result{}, fmt.Errorf("failed to start %s: %w", e.opts.Binary, err)
}
