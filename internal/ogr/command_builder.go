package ogr

import (
	"fmt"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
)

// LayerSpec describes one ogr2ogr invocation.
type LayerSpec struct {
	// OutputPath is the GeoPackage written to.
	OutputPath string

	// SourcePath is the vector file read from.
	SourcePath string

	// LayerName is the destination layer (-nln).
	LayerName string

	// SQL is the view requested from the source (-sql).
	SQL string

	// Append adds the layer to an existing container instead of creating it.
	Append bool
}

// BuildArgs constructs the ogr2ogr arguments for spec.
//
//	-f GPKG [-update -append -addfields] <out> <in> -nln <layer>
//	-dialect SQLite -sql <query> -lco ENCODING=.. -lco SPATIAL_INDEX=YES
//	-nlt PROMOTE_TO_MULTI -oo ENCODING=..
func BuildArgs(spec LayerSpec, opts config.OgrSettings) ([]string, error) {
	if spec.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if spec.SourcePath == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if spec.LayerName == "" {
		return nil, fmt.Errorf("layer name is required")
	}

	args := []string{"-f", opts.Format}
	if spec.Append {
		args = append(args, "-update", "-append", "-addfields")
	}

	args = append(args, spec.OutputPath, spec.SourcePath, "-nln", spec.LayerName)

	if spec.SQL != "" {
		if opts.Dialect != "" {
			args = append(args, "-dialect", opts.Dialect)
		}
		args = append(args, "-sql", spec.SQL)
	}

	if opts.OutputEncoding != "" {
		args = append(args, "-lco", "ENCODING="+opts.OutputEncoding)
	}
	if opts.SpatialIndexEnabled() {
		args = append(args, "-lco", "SPATIAL_INDEX=YES")
	}
	if opts.GeometryType != "" {
		args = append(args, "-nlt", opts.GeometryType)
	}
	if opts.SourceEncoding != "" {
		args = append(args, "-oo", "ENCODING="+opts.SourceEncoding)
	}

	return args, nil
}
