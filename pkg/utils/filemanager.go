// =============================================================================
// DLM250 GeoPackage Builder - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the builder, including:
//   - Output and log path handling
//   - Removal of a previous container before a fresh run
//   - Run identifiers
//   - The optional plain-text run summary
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PATH HANDLING
// =============================================================================

// DefaultLogPath returns the log path used when none is given: the output
// path with its extension replaced by ".log".
func DefaultLogPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".log"
}

// EnsureParentDir creates the directory containing path if it is missing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// sqliteSidecars are files SQLite may leave next to a container.
var sqliteSidecars = []string{"-journal", "-wal", "-shm"}

// RemoveContainer deletes the GeoPackage at path together with any SQLite
// journal files. Missing files are ignored.
func RemoveContainer(path string) error {
	for _, p := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

func sidecarPaths(path string) []string {
	paths := make([]string, len(sqliteSidecars))
	for i, suffix := range sqliteSidecars {
		paths[i] = path + suffix
	}
	return paths
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a random identifier for one run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a conversion run.
type RunSummary struct {
	RunID            string
	StartTime        time.Time
	EndTime          time.Time
	OutputPath       string
	LogPath          string
	Planned          int
	Processed        int
	Status           string
	MissingSources   []string
	ConversionErrors []string
	MissingStyles    []string
	Warnings         []WarningLine
	ErrorLines       []string
}

// WarningLine is one aggregated tool warning.
type WarningLine struct {
	Message string
	Count   int
}

const rule = "================================================================================\n"
const subRule = "--------------------------------------------------------------------------------\n"

// WriteSummaryLog writes a run summary to path.
//
// PARAMETERS:
//   - summary: The run summary.
//   - path: The file to write. Its directory is created if needed.
//
// RETURNS:
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, path string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "DLM250 GeoPackage Builder - Run Summary\n"+
		rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Output:         %s\n"+
		"  Log:            %s\n\n"+
		"Statistics:\n"+
		"  Planned Layers:   %d\n"+
		"  Processed Layers: %d\n"+
		"  Missing Sources:  %d\n"+
		"  Failed:           %d\n"+
		"  Missing Styles:   %d\n"+
		"  Status:           %s\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.OutputPath,
		summary.LogPath,
		summary.Planned,
		summary.Processed,
		len(summary.MissingSources),
		len(summary.ConversionErrors),
		len(summary.MissingStyles),
		summary.Status)

	writeSection(writer, "Missing Sources", summary.MissingSources)
	writeSection(writer, "Conversion Errors", summary.ConversionErrors)
	writeSection(writer, "Missing Styles", summary.MissingStyles)

	if len(summary.Warnings) > 0 {
		warnings := make([]string, len(summary.Warnings))
		for i, w := range summary.Warnings {
			warnings[i] = fmt.Sprintf("%dx %s", w.Count, w.Message)
		}
		writeSection(writer, "Tool Warnings", warnings)
	}
	writeSection(writer, "Tool Errors", summary.ErrorLines)

	writer.WriteString(rule + "End of Summary\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}

	return nil
}

func writeSection(w *bufio.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	w.WriteString(title + ":\n")
	w.WriteString(subRule)
	for _, line := range lines {
		w.WriteString("  " + line + "\n")
	}
	w.WriteString("\n")
}
