// =============================================================================
// DLM250 GeoPackage Builder - Shared Types
// =============================================================================
//
// This package contains the record types shared by the table loaders, the
// converter and the GeoPackage writer. Keeping them here avoids import cycles
// between:
//   - tables
//   - converter
//   - gpkg
//
// =============================================================================

package types

// =============================================================================
// CONFIGURATION RECORDS
// =============================================================================

// LookupEntry is one row of the lookup table: a categorical code and its
// human-readable label.
//
// Category and Code are never empty once loaded. Duplicates are kept; every
// matching entry takes part in the generated translation expression.
type LookupEntry struct {
	// Category is the attribute the code belongs to (e.g. "OBJART").
	Category string

	// Code is the coded value as text. Leading zeros are significant.
	Code string

	// Label is the plain-text translation written into the output.
	Label string
}

// MappingRule is one row of the mapping table and describes how a single
// output layer is derived from a source file.
type MappingRule struct {
	// SourceID is the source file name without extension.
	SourceID string

	// TargetLayer is the base name of the output layer.
	TargetLayer string

	// Suffix is appended to TargetLayer to form the final layer name.
	Suffix string

	// FilterExpression is an optional SQL condition applied to the source.
	FilterExpression string

	// StylePath is an optional QML style file. Relative paths are resolved
	// against the directory of the mapping table.
	StylePath string
}

// LayerName returns the name of the output layer (TargetLayer + Suffix).
func (r MappingRule) LayerName() string {
	return r.TargetLayer + r.Suffix
}

// =============================================================================
// PROCESSING RECORDS
// =============================================================================

// ConversionJob pairs a resolved source file with the rule that converts it.
type ConversionJob struct {
	// SourcePath is the path of the vector file handed to ogr2ogr.
	SourcePath string

	// Rule is the mapping rule describing the output layer.
	Rule MappingRule
}

// Table is a parsed configuration table before it is turned into records.
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// Headers contains the trimmed column names in file order.
	Headers []string

	// Rows contains the data rows as header -> value maps.
	Rows []map[string]string
}
