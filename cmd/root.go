// =============================================================================
// DLM250 GeoPackage Builder - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (dlm250-gpkg)
//   ├── processCmd  (dlm250-gpkg process)
//   ├── validateCmd (dlm250-gpkg validate)
//   └── versionCmd  (dlm250-gpkg version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). A .env file
//   in the working directory is loaded before any command runs, so that
//   OGR2OGR_BIN can be set there.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the optional YAML run profile.
var cfgFile string

// verbose enables debug output on the console.
var verbose bool

// envFile is loaded into the environment before every command.
const envFile = ".env"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dlm250-gpkg",
	Short: "DLM250 GeoPackage Builder - Convert BKG DLM250 Shapefiles into one GeoPackage",
	Long: `DLM250 GeoPackage Builder converts the Shapefiles of the BKG DLM250 into a
single structured GeoPackage. A mapping table decides which source file becomes
which layer; a lookup table adds plain-text labels for coded attributes.

Key Features:
  - Layer mapping with name suffixes and SQL filters
  - Code-to-label columns (e.g. objart_klartext) computed during import
  - QGIS default styles stored in layer_styles
  - Complete lookup table stored as referenz_lookups
  - Aggregated ogr2ogr warnings in a log file

Example Usage:
  dlm250-gpkg process -m mapping.csv -l lookups.csv -s ./dlm250/shape -o out/dlm250.gpkg
  dlm250-gpkg process -m mapping.xlsx -l lookups.xlsx -i ./ver01_l.shp -o out/verkehr.gpkg -f
  dlm250-gpkg validate -m mapping.csv -l lookups.csv -s ./dlm250/shape`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnv(envFile)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. Any error is printed and the process exits with 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to an optional YAML run profile",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
