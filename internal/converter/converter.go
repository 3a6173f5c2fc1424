// =============================================================================
// DLM250 GeoPackage Builder - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It drives ogr2ogr over every
// job of a plan and writes the metadata tables into the resulting GeoPackage.
//
// CONVERSION PIPELINE (per job):
//   1. Build the label query for the source
//   2. Run ogr2ogr (create the container, or append to it)
//   3. Aggregate the tool's stderr diagnostics
//   4. Inject the layer style on success
//
// After the last job the lookup table is persisted once, provided the
// container exists.
//
// CONCURRENCY:
//   Jobs run strictly one after another. Every ogr2ogr call writes to the same
//   container, and the first successful call decides whether later calls
//   create or append.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/dlm250-gpkg/internal/ogr"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ContainerWriter writes the non-feature tables of the GeoPackage.
type ContainerWriter interface {
	InjectStyle(containerPath, layerName, stylePath string) (bool, error)
	PersistLookups(containerPath string, lookups []types.LookupEntry) error
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options configures a Converter.
type Options struct {
	// OutputPath is the GeoPackage to create or extend.
	OutputPath string

	// MappingDir resolves relative style paths. Usually the directory of the
	// mapping table.
	MappingDir string

	// LogPath is only mentioned in the final summary line.
	LogPath string

	// Lookups feed the label columns and the referenz_lookups table.
	Lookups []types.LookupEntry

	// Query builds the per-layer SQL.
	Query QueryBuilder
}

// Converter runs the conversion of a plan into one GeoPackage.
type Converter struct {
	opts   Options
	tool   ogr.LayerConverter
	writer ContainerWriter
	logger Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - opts: Output location, lookups and query settings.
//   - tool: Converts a single layer (normally the ogr2ogr executor).
//   - writer: Writes styles and lookups into the container.
//
// RETURNS:
//   - A new Converter instance that logs to stdout until SetLogger is called.
func New(opts Options, tool ogr.LayerConverter, writer ContainerWriter) *Converter {
	return &Converter{
		opts:   opts,
		tool:   tool,
		writer: writer,
		logger: &defaultLogger{},
	}
}

// SetLogger replaces the logger.
func (c *Converter) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run converts every job of plan in order and returns the resulting state.
//
// A failed layer is recorded and the next job is attempted. A missing
// ogr2ogr binary stops the loop. In both cases the lookup table is still
// written if the container exists.
func (c *Converter) Run(ctx context.Context, plan *Plan) *RunState {
	state := NewRunState(c.opts.OutputPath, fileExists(c.opts.OutputPath), plan)

	if plan != nil {
		for _, job := range plan.Jobs {
			if !c.runJob(ctx, state, job) {
				break
			}
		}
	}

	// =========================================================================
	// FINALIZE
	// =========================================================================

	if state.OutputExists {
		if err := c.writer.PersistLookups(c.opts.OutputPath, c.opts.Lookups); err != nil {
			msg := fmt.Sprintf("referenz_lookups: %v", err)
			state.ConversionErrors = append(state.ConversionErrors, msg)
			c.logger.Error("Error writing lookups: %v", err)
		} else {
			c.logger.Debug("Wrote %d lookup entries", len(c.opts.Lookups))
		}
	}

	return state
}

// runJob converts a single layer. It returns false when the run must stop.
func (c *Converter) runJob(ctx context.Context, state *RunState, job types.ConversionJob) bool {
	layer := job.Rule.LayerName()
	query := c.opts.Query.Build(job.Rule.SourceID, job.Rule.FilterExpression, c.opts.Lookups)

	c.logger.Info("--> Creating %s from %s", layer, filepath.Base(job.SourcePath))
	c.logger.Debug("SQL: %s", query)

	result, err := c.tool.Convert(ctx, ogr.LayerSpec{
		OutputPath: c.opts.OutputPath,
		SourcePath: job.SourcePath,
		LayerName:  layer,
		SQL:        query,
		Append:     state.OutputExists,
	})

	if err != nil {
		if errors.Is(err, ogr.ErrToolUnavailable) {
			state.ToolUnavailable = true
			state.ConversionErrors = append(state.ConversionErrors, err.Error())
			c.logger.Error("Error: %v", err)
			return false
		}

		msg := fmt.Sprintf("%s: %v", layer, err)
		state.ConversionErrors = append(state.ConversionErrors, msg)
		c.logger.Error("Error in %s", msg)
		return ctx.Err() == nil
	}

	state.Diagnostics.Collect(result.Diagnostics)

	if result.ExitCode != 0 {
		msg := fmt.Sprintf("%s: ogr2ogr exited with status %d", layer, result.ExitCode)
		state.ConversionErrors = append(state.ConversionErrors, msg)
		c.logger.Error("Error in %s", msg)
		return true
	}

	state.OutputExists = true
	state.Processed++

	c.applyStyle(state, layer, job.Rule.StylePath)
	return true
}

// applyStyle injects the layer style, if the rule names one.
func (c *Converter) applyStyle(state *RunState, layer, stylePath string) {
	stylePath = strings.TrimSpace(stylePath)
	if stylePath == "" {
		return
	}
	if !filepath.IsAbs(stylePath) {
		stylePath = filepath.Join(c.opts.MappingDir, stylePath)
	}

	ok, err := c.writer.InjectStyle(c.opts.OutputPath, layer, stylePath)
	if err != nil {
		msg := fmt.Sprintf("%s: style %s: %v", layer, stylePath, err)
		state.ConversionErrors = append(state.ConversionErrors, msg)
		c.logger.Error("Error in %s", msg)
		return
	}
	if !ok {
		state.MissingStyles = append(state.MissingStyles, fmt.Sprintf("%s: %s", layer, stylePath))
		return
	}

	c.logger.Debug("Injected style %s into %s", stylePath, layer)
}

// =============================================================================
// SUMMARY
// =============================================================================

// Report logs the end-of-run summary. Warnings and advisory lists go to the
// Warn level, failures to the Error level, and the final line to Info unless
// the run failed.
func (c *Converter) Report(state *RunState) {
	if len(state.MissingSources) > 0 {
		c.logger.Warn("Missing source files (skipped):")
		for _, path := range state.MissingSources {
			c.logger.Warn("- %s", path)
		}
	}

	if total := state.Diagnostics.TotalWarnings(); total > 0 {
		c.logger.Warn("Warning summary (aggregated):")
		for _, w := range state.Diagnostics.Warnings() {
			c.logger.Warn("%dx %s", w.Count, w.Message)
		}
		c.logger.Info("Note: %d warnings detected (details in log file).", total)
	}

	if len(state.Diagnostics.ErrorLines) > 0 {
		c.logger.Error("ogr2ogr error details:")
		for _, line := range state.Diagnostics.ErrorLines {
			c.logger.Error("- %s", line)
		}
	}

	if len(state.ConversionErrors) > 0 {
		c.logger.Error("Conversion error summary:")
		for _, entry := range state.ConversionErrors {
			c.logger.Error("- %s", entry)
		}
	}

	if len(state.MissingStyles) > 0 {
		c.logger.Warn("Style summary (not fatal):")
		for _, entry := range state.MissingStyles {
			c.logger.Warn("- Missing style file: %s", entry)
		}
	}

	switch {
	case len(state.ConversionErrors) > 0:
		c.logger.Error("Completed with errors. GPKG: %s. Log: %s", state.OutputPath, c.opts.LogPath)
	case !state.OutputExists:
		c.logger.Error("Completed without importing data. No GeoPackage created: %s. Log: %s",
			state.OutputPath, c.opts.LogPath)
	default:
		c.logger.Info("Done: %d/%d layers processed. Status: no errors. Log: %s",
			state.Processed, state.Planned, c.opts.LogPath)
	}
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// fileExists reports whether path exists.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger is a simple logger that prints to stdout.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
