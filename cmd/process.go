// =============================================================================
// DLM250 GeoPackage Builder - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// building a GeoPackage from DLM250 Shapefiles.
//
// COMMAND USAGE:
//   dlm250-gpkg process -m <mapping> -l <lookups> -o <out.gpkg> (-s <dir> | -i <file>) [flags]
//
// FLAGS:
//   -m, --mapping : Mapping table (.csv or .xlsx)
//   -l, --lookups : Lookup table (.csv or .xlsx)
//   -o, --output  : Target GeoPackage
//   -s, --source  : Source directory (all mapped layers)
//   -i, --input   : Single source file
//   -f, --force   : Overwrite an existing GeoPackage without asking
//   --append      : Add to an existing GeoPackage instead of replacing it
//   --log         : Log file (default: output path with .log)
//   --summary     : Optional plain-text run summary
//
// PROCESSING PIPELINE:
//   1. Load the run profile, mapping table and lookup table
//   2. Resolve source files (nothing is written if this fails)
//   3. Confirm overwriting an existing GeoPackage
//   4. Create the output directory and the log file
//   5. Convert every layer, inject styles, persist lookups
//   6. Log the summary and exit 0 only if no layer failed
//
// =============================================================================

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
	"github.com/ginjaninja78/dlm250-gpkg/internal/converter"
	"github.com/ginjaninja78/dlm250-gpkg/internal/gpkg"
	"github.com/ginjaninja78/dlm250-gpkg/internal/logging"
	"github.com/ginjaninja78/dlm250-gpkg/internal/ogr"
	"github.com/ginjaninja78/dlm250-gpkg/internal/tables"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
	"github.com/ginjaninja78/dlm250-gpkg/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the flags of the process and validate commands.
type processOptions struct {
	configPath  string
	mappingPath string
	lookupsPath string
	outputPath  string
	sourceDir   string
	inputFile   string
	force       bool
	appendMode  bool
	logPath     string
	summaryPath string
	verbose     bool
}

var procOpts processOptions

// processDeps are the collaborators of a run. Tests replace them.
type processDeps struct {
	newTool func(config.OgrSettings) ogr.LayerConverter
	writer  converter.ContainerWriter
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func defaultDeps() processDeps {
	return processDeps{
		newTool: func(opts config.OgrSettings) ogr.LayerConverter { return ogr.NewExecutor(opts) },
		writer:  gpkg.NewWriter(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert the mapped Shapefiles into a GeoPackage",
	Long: `The process command reads the mapping and lookup tables, finds the mapped
source files and converts each of them into a layer of the target GeoPackage
using ogr2ogr.

A missing source file is skipped with a warning. A layer that ogr2ogr fails to
convert is reported and the remaining layers are still converted. Styles named
in the mapping table are stored in layer_styles; a missing style file is only
reported. The complete lookup table is written to referenz_lookups at the end.

Exit status is 0 only if every attempted layer was converted.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := procOpts
		opts.configPath = cfgFile
		opts.verbose = verbose
		return runProcess(cmd.Context(), opts, defaultDeps())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	addInputFlags(processCmd, &procOpts)

	processCmd.Flags().StringVarP(&procOpts.outputPath, "output", "o", "", "Target GeoPackage (.gpkg)")
	processCmd.Flags().BoolVarP(&procOpts.force, "force", "f", false, "Overwrite an existing GeoPackage without asking")
	processCmd.Flags().BoolVar(&procOpts.appendMode, "append", false, "Add layers to an existing GeoPackage")
	processCmd.Flags().StringVar(&procOpts.logPath, "log", "", "Log file (default: output path with .log)")
	processCmd.Flags().StringVar(&procOpts.summaryPath, "summary", "", "Write a plain-text run summary to this file")

	processCmd.MarkFlagRequired("output")
	processCmd.MarkFlagsMutuallyExclusive("force", "append")
}

// addInputFlags registers the flags shared by process and validate.
func addInputFlags(cmd *cobra.Command, opts *processOptions) {
	cmd.Flags().StringVarP(&opts.mappingPath, "mapping", "m", "", "Mapping table (.csv or .xlsx)")
	cmd.Flags().StringVarP(&opts.lookupsPath, "lookups", "l", "", "Lookup table (.csv or .xlsx)")
	cmd.Flags().StringVarP(&opts.sourceDir, "source", "s", "", "Source directory (processes every mapped layer)")
	cmd.Flags().StringVarP(&opts.inputFile, "input", "i", "", "Single source file")

	cmd.MarkFlagRequired("mapping")
	cmd.MarkFlagRequired("lookups")
	cmd.MarkFlagsMutuallyExclusive("source", "input")
	cmd.MarkFlagsOneRequired("source", "input")
}

// =============================================================================
// RUN INPUTS
// =============================================================================

// runInputs is everything loaded and checked before the first write.
type runInputs struct {
	cfg        *config.Config
	rules      []types.MappingRule
	lookups    []types.LookupEntry
	plan       *converter.Plan
	mappingDir string
}

// loadInputs loads the profile and both tables and resolves the jobs.
//
// RETURNS:
//   - The inputs. On a resolution error the plan is still returned so that
//     missing sources can be shown.
//   - A *tables.ConfigError, *converter.ResolutionError or load error.
func loadInputs(opts processOptions) (*runInputs, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	in := &runInputs{cfg: cfg}

	in.rules, err = tables.LoadMappingRules(opts.mappingPath, cfg.Tables)
	if err != nil {
		return nil, err
	}

	in.lookups, err = tables.LoadLookups(opts.lookupsPath, cfg.Tables)
	if err != nil {
		return nil, err
	}

	absMapping, err := filepath.Abs(opts.mappingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.mappingPath, err)
	}
	in.mappingDir = filepath.Dir(absMapping)

	in.plan, err = converter.Resolve(in.rules, converter.ResolveOptions{
		SourceDir: opts.sourceDir,
		InputFile: opts.inputFile,
		Extension: cfg.Ogr.SourceExtension,
	})
	if err != nil {
		return in, err
	}

	return in, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// printMissingSources lists the probed paths that were not found.
func printMissingSources(w io.Writer, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(w, "Missing source files (skipped):")
	for _, path := range paths {
		fmt.Fprintf(w, "- %s\n", path)
	}
}

// runProcess builds the GeoPackage. It returns nil when the run succeeded or
// the user declined to overwrite the existing output.
func runProcess(ctx context.Context, opts processOptions, deps processDeps) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD AND RESOLVE
	// =========================================================================
	// Nothing on disk changes until the tables are valid and there is at
	// least one job.

	in, err := loadInputs(opts)
	if err != nil {
		var resErr *converter.ResolutionError
		if errors.As(err, &resErr) && in != nil && in.plan != nil {
			printMissingSources(deps.stderr, in.plan.MissingSources)
		}
		return err
	}

	// =========================================================================
	// STEP 2: EXISTING OUTPUT
	// =========================================================================

	replace := false
	if utils.FileExists(opts.outputPath) && !opts.appendMode {
		if !opts.force && !confirmOverwrite(deps.stdin, deps.stdout, opts.outputPath) {
			fmt.Fprintln(deps.stdout, "Aborted.")
			return nil
		}
		replace = true
	}

	// =========================================================================
	// STEP 3: PREPARE OUTPUT
	// =========================================================================

	if err := utils.EnsureParentDir(opts.outputPath); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	logPath := opts.logPath
	if logPath == "" {
		logPath = utils.DefaultLogPath(opts.outputPath)
	}

	logger, err := logging.Open(logPath, opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Close()

	if replace {
		if err := utils.RemoveContainer(opts.outputPath); err != nil {
			logger.Error("Error: %v", err)
			return err
		}
	}

	runID := utils.NewRunID()
	logger.Debug("Run %s: %d job(s), %d lookup entries, ogr2ogr=%s",
		runID, len(in.plan.Jobs), len(in.lookups), in.cfg.Ogr.Binary)

	// =========================================================================
	// STEP 4: CONVERT
	// =========================================================================

	conv := converter.New(converter.Options{
		OutputPath: opts.outputPath,
		MappingDir: in.mappingDir,
		LogPath:    logPath,
		Lookups:    in.lookups,
		Query:      converter.NewQueryBuilder(in.cfg.Query),
	}, deps.newTool(in.cfg.Ogr), deps.writer)
	conv.SetLogger(logger)

	state := conv.Run(ctx, in.plan)
	conv.Report(state)

	// =========================================================================
	// STEP 5: SUMMARY FILE
	// =========================================================================

	if opts.summaryPath != "" {
		summary := buildSummary(state, runID, startTime, logPath)
		if err := utils.WriteSummaryLog(summary, opts.summaryPath); err != nil {
			logger.Error("Error writing summary: %v", err)
			return err
		}
	}

	return state.Err()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// confirmOverwrite asks whether path may be replaced. Only "y" or "yes"
// (any case) confirms; end of input declines.
func confirmOverwrite(in io.Reader, out io.Writer, path string) bool {
	fmt.Fprintf(out, "Overwrite %s? (y/n): ", path)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// buildSummary converts the run state into the summary file record.
func buildSummary(state *converter.RunState, runID string, start time.Time, logPath string) utils.RunSummary {
	status := "no errors"
	if err := state.Err(); err != nil {
		status = err.Error()
	}

	warnings := state.Diagnostics.Warnings()
	lines := make([]utils.WarningLine, len(warnings))
	for i, w := range warnings {
		lines[i] = utils.WarningLine{Message: w.Message, Count: w.Count}
	}

	return utils.RunSummary{
		RunID:            runID,
		StartTime:        start,
		EndTime:          time.Now(),
		OutputPath:       state.OutputPath,
		LogPath:          logPath,
		Planned:          state.Planned,
		Processed:        state.Processed,
		Status:           status,
		MissingSources:   state.MissingSources,
		ConversionErrors: state.ConversionErrors,
		MissingStyles:    state.MissingStyles,
		Warnings:         lines,
		ErrorLines:       state.Diagnostics.ErrorLines,
	}
}
