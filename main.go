// =============================================================================
// DLM250 GeoPackage Builder - Main Entry Point
// =============================================================================
//
// USAGE:
//   dlm250-gpkg process    - Convert the mapped Shapefiles into a GeoPackage
//   dlm250-gpkg validate   - Check mapping, lookups and sources without writing
//   dlm250-gpkg version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Table loading, query building, ogr2ogr and GeoPackage access
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/dlm250-gpkg/cmd"
)

func main() {
	cmd.Execute()
}
