package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// =============================================================================
// SOURCE RESOLUTION
// =============================================================================

// ResolveOptions selects how mapping rules are matched to source files.
// Exactly one of SourceDir and InputFile is set.
type ResolveOptions struct {
	// SourceDir is probed for "<source_id><Extension>" per rule.
	SourceDir string

	// InputFile is a single source; every rule whose SourceID equals its base
	// name (without extension) is applied to it.
	InputFile string

	// Extension of source files in SourceDir, including the dot.
	Extension string
}

// Plan is the ordered list of conversion jobs for one run.
type Plan struct {
	// Jobs in mapping table order.
	Jobs []types.ConversionJob

	// MissingSources lists probed paths that do not exist. Advisory only.
	MissingSources []string
}

// ResolutionError means no conversion can be attempted.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return e.Reason
}

// Resolve turns mapping rules into conversion jobs.
//
// PARAMETERS:
//   - rules: The filtered mapping rules, in table order.
//   - opts: Directory or single-file mode.
//
// RETURNS:
//   - The plan. MissingSources is only filled in directory mode.
//   - A *ResolutionError if the input file does not exist or no job
//     could be formed.
func Resolve(rules []types.MappingRule, opts ResolveOptions) (*Plan, error) {
	plan := &Plan{}

	switch {
	case opts.InputFile != "":
		info, err := os.Stat(opts.InputFile)
		if err != nil || info.IsDir() {
			return nil, &ResolutionError{Reason: fmt.Sprintf("input file not found: %s", opts.InputFile)}
		}

		base := filepath.Base(opts.InputFile)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		for _, rule := range rules {
			if rule.SourceID == base {
				plan.Jobs = append(plan.Jobs, types.ConversionJob{SourcePath: opts.InputFile, Rule: rule})
			}
		}

	case opts.SourceDir != "":
		for _, rule := range rules {
			path := filepath.Join(opts.SourceDir, rule.SourceID+opts.Extension)
			if _, err := os.Stat(path); err != nil {
				plan.MissingSources = append(plan.MissingSources, path)
				continue
			}
			plan.Jobs = append(plan.Jobs, types.ConversionJob{SourcePath: path, Rule: rule})
		}

	default:
		return nil, &ResolutionError{Reason: "either a source directory or an input file is required"}
	}

	if len(plan.Jobs) == 0 {
		return plan, &ResolutionError{Reason: "no matching input data found for the mapping table"}
	}

	return plan, nil
}
