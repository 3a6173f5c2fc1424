package converter

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/dlm250-gpkg/internal/diagnostics"
)

// ErrNoOutput means the run finished without ever creating the container.
var ErrNoOutput = errors.New("no data imported, container was not created")

// RunState is the mutable record of one conversion run. It is created by Run
// and handed to Report and the exit policy afterwards.
type RunState struct {
	// OutputPath is the container written to.
	OutputPath string

	// OutputExists is true once the container exists on disk, either from
	// the start or after the first successful layer.
	OutputExists bool

	// Planned is the number of jobs in the plan.
	Planned int

	// Processed counts layers ogr2ogr wrote successfully.
	Processed int

	// MissingSources lists source files that were skipped.
	MissingSources []string

	// ConversionErrors lists failed layers and fatal run errors.
	ConversionErrors []string

	// MissingStyles lists "<layer>: <path>" for styles that were not found.
	MissingStyles []string

	// Diagnostics aggregates ogr2ogr stderr over all jobs.
	Diagnostics *diagnostics.Report

	// ToolUnavailable is set when ogr2ogr could not be started.
	ToolUnavailable bool
}

// NewRunState returns an empty state for a run writing to outputPath.
func NewRunState(outputPath string, outputExists bool, plan *Plan) *RunState {
	state := &RunState{
		OutputPath:   outputPath,
		OutputExists: outputExists,
		Diagnostics:  diagnostics.NewReport(),
	}
	if plan != nil {
		state.Planned = len(plan.Jobs)
		state.MissingSources = append([]string(nil), plan.MissingSources...)
	}
	return state
}

// Err applies the exit policy: any conversion error fails the run, and so
// does a run that never created the container. Missing sources and styles
// are advisory.
func (s *RunState) Err() error {
	if len(s.ConversionErrors) > 0 {
		return fmt.Errorf("completed with %d error(s)", len(s.ConversionErrors))
	}
	if !s.OutputExists {
		return ErrNoOutput
	}
	return nil
}

// Succeeded reports whether Err returns nil.
func (s *RunState) Succeeded() bool {
	return s.Err() == nil
}
