// =============================================================================
// DLM250 GeoPackage Builder - Configuration Tables
// =============================================================================
//
// This module turns the mapping table and the lookup table into validated
// records. Nothing downstream re-checks field presence: a MappingRule or
// LookupEntry returned from here is complete.
//
// VALIDATION:
//   - Table level: every required column must exist, otherwise a ConfigError
//     naming all missing columns is returned. This is fatal and happens before
//     anything is written.
//   - Row level: incomplete rows and comment rows are dropped silently.
//
// =============================================================================

package tables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
	"github.com/ginjaninja78/dlm250-gpkg/internal/csvparser"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
	"github.com/ginjaninja78/dlm250-gpkg/internal/xlsxparser"
)

// Column names of the mapping table.
const (
	ColSourceFile  = "src_file"
	ColTargetLayer = "target_layer"
	ColSuffix      = "suffix"
	ColFilterSQL   = "filter_sql"
	ColStyleFile   = "style_file"
)

// Column names of the lookup table.
const (
	ColCategory = "kategorie"
	ColCode     = "code"
	ColLabel    = "klartext"
)

// CommentMarker starts a mapping row that is ignored.
const CommentMarker = "#"

var (
	mappingColumns = []string{ColSourceFile, ColTargetLayer, ColSuffix, ColFilterSQL, ColStyleFile}
	lookupColumns  = []string{ColCategory, ColCode, ColLabel}
)

// =============================================================================
// ERRORS
// =============================================================================

// ConfigError reports required columns missing from a configuration table.
type ConfigError struct {
	// Table is "mapping" or "lookup".
	Table string

	// Path is the file the table was read from.
	Path string

	// Missing lists every absent column, sorted.
	Missing []string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s table %s is missing column(s): %s",
		e.Table, e.Path, strings.Join(e.Missing, ", "))
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadMappingRules reads and validates the mapping table.
//
// A row is dropped if src_file is empty or starts with "#", or if
// target_layer is empty. All values are trimmed.
func LoadMappingRules(path string, settings config.TableSettings) ([]types.MappingRule, error) {
	table, err := Read(path, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping table: %w", err)
	}

	if err := RequireColumns("mapping", table, mappingColumns); err != nil {
		return nil, err
	}

	rules := make([]types.MappingRule, 0, len(table.Rows))
	for _, row := range table.Rows {
		sourceID := strings.TrimSpace(row[ColSourceFile])
		if sourceID == "" || strings.HasPrefix(sourceID, CommentMarker) {
			continue
		}

		targetLayer := strings.TrimSpace(row[ColTargetLayer])
		if targetLayer == "" {
			continue
		}

		rules = append(rules, types.MappingRule{
			SourceID:         sourceID,
			TargetLayer:      targetLayer,
			Suffix:           strings.TrimSpace(row[ColSuffix]),
			FilterExpression: strings.TrimSpace(row[ColFilterSQL]),
			StylePath:        strings.TrimSpace(row[ColStyleFile]),
		})
	}

	return rules, nil
}

// LoadLookups reads and validates the lookup table.
//
// A row is dropped if kategorie or code is empty. All values are trimmed.
func LoadLookups(path string, settings config.TableSettings) ([]types.LookupEntry, error) {
	table, err := Read(path, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup table: %w", err)
	}

	if err := RequireColumns("lookup", table, lookupColumns); err != nil {
		return nil, err
	}

	entries := make([]types.LookupEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		category := strings.TrimSpace(row[ColCategory])
		code := strings.TrimSpace(row[ColCode])
		if category == "" || code == "" {
			continue
		}

		entries = append(entries, types.LookupEntry{
			Category: category,
			Code:     code,
			Label:    strings.TrimSpace(row[ColLabel]),
		})
	}

	return entries, nil
}

// Read parses a table, choosing the parser by file extension.
func Read(path string, settings config.TableSettings) (*types.Table, error) {
	if xlsxparser.IsWorkbook(path) {
		return xlsxparser.Parse(path, settings.Sheet)
	}
	return csvparser.Parse(path, settings)
}

// RequireColumns returns a *ConfigError if any required column is absent
// from the table header.
func RequireColumns(name string, table *types.Table, required []string) error {
	present := make(map[string]bool, len(table.Headers))
	for _, header := range table.Headers {
		present[strings.TrimSpace(header)] = true
	}

	var missing []string
	for _, column := range required {
		if !present[column] {
			missing = append(missing, column)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return &ConfigError{Table: name, Path: table.SourceFile, Missing: missing}
}
