// =============================================================================
// DLM250 GeoPackage Builder - Validate Command
// =============================================================================
//
// The validate command runs the checks that precede every conversion without
// touching the output:
//   1. The run profile parses
//   2. Both tables carry their required columns
//   3. At least one mapped source file can be found
//
// COMMAND USAGE:
//   dlm250-gpkg validate -m <mapping> -l <lookups> (-s <dir> | -i <file>)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dlm250-gpkg/internal/converter"
)

var validateOpts processOptions

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check mapping, lookups and source files without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := validateOpts
		opts.configPath = cfgFile
		opts.verbose = verbose
		return runValidate(cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addInputFlags(validateCmd, &validateOpts)
}

// runValidate prints what a process run would do.
func runValidate(out io.Writer, opts processOptions) error {
	in, err := loadInputs(opts)

	var resErr *converter.ResolutionError
	if err != nil && !(errors.As(err, &resErr) && in != nil && in.plan != nil) {
		return err
	}

	fmt.Fprintf(out, "Mapping rules:  %d\n", len(in.rules))
	fmt.Fprintf(out, "Lookup entries: %d\n", len(in.lookups))
	fmt.Fprintf(out, "ogr2ogr:        %s\n", in.cfg.Ogr.Binary)

	printMissingSources(out, in.plan.MissingSources)

	fmt.Fprintf(out, "Layers to create: %d\n", len(in.plan.Jobs))
	if opts.verbose {
		query := converter.NewQueryBuilder(in.cfg.Query)
		for _, job := range in.plan.Jobs {
			fmt.Fprintf(out, "- %s <- %s\n", job.Rule.LayerName(), job.SourcePath)
			fmt.Fprintf(out, "  %s\n", query.Build(job.Rule.SourceID, job.Rule.FilterExpression, in.lookups))
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}
