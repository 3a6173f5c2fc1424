// =============================================================================
// DLM250 GeoPackage Builder - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   dlm250-gpkg version
//
// OUTPUT:
//   DLM250 GeoPackage Builder
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//   ogr2ogr:    ogr2ogr
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
)

// Version is the application version.
// Set at build time using ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/dlm250-gpkg/cmd.Version=1.0.0'"
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and the ogr2ogr binary in use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "DLM250 GeoPackage Builder")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "ogr2ogr:    %s\n", cfg.Ogr.Binary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
