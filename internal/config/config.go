// =============================================================================
// DLM250 GeoPackage Builder - Configuration Module
// =============================================================================
//
// This module loads the run profile: the settings that control how ogr2ogr is
// invoked, how the mapping and lookup tables are read and which lookup
// categories become label columns.
//
// SOURCES (lowest to highest precedence):
//   1. Built-in defaults (applyDefaults)
//   2. The YAML profile given with --config
//   3. Environment variables (a .env file in the working directory is loaded
//      first when present)
//
// The mapping and lookup tables themselves are not part of the profile; they
// are loaded by the tables package.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvOgrBinary overrides the ogr2ogr executable.
const EnvOgrBinary = "OGR2OGR_BIN"

// AllCategories in Query.LabelCategories selects every category of the
// lookup table.
const AllCategories = "*"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the run profile.
type Config struct {
	// Ogr controls the ogr2ogr invocation.
	Ogr OgrSettings `yaml:"ogr"`

	// Tables controls how the mapping and lookup tables are parsed.
	Tables TableSettings `yaml:"tables"`

	// Query controls the generated label columns.
	Query QuerySettings `yaml:"query"`
}

// OgrSettings describes the external conversion tool.
type OgrSettings struct {
	// Binary is the ogr2ogr executable name or path.
	// Default: "ogr2ogr"
	Binary string `yaml:"binary"`

	// Format is the output driver passed with -f.
	// Default: "GPKG"
	Format string `yaml:"format"`

	// Dialect is the SQL dialect used for the -sql view.
	// Default: "SQLite"
	Dialect string `yaml:"dialect"`

	// SourceExtension is appended to src_file when scanning a source directory.
	// Default: ".shp"
	SourceExtension string `yaml:"source_extension"`

	// SourceEncoding is passed as the ENCODING open option of the source.
	// Default: "ISO-8859-1"
	SourceEncoding string `yaml:"source_encoding"`

	// OutputEncoding is passed as the ENCODING layer creation option.
	// Default: "UTF-8"
	OutputEncoding string `yaml:"output_encoding"`

	// SpatialIndex requests a spatial index for every layer.
	// Default: true
	SpatialIndex *bool `yaml:"spatial_index"`

	// GeometryType is passed with -nlt.
	// Default: "PROMOTE_TO_MULTI"
	GeometryType string `yaml:"geometry_type"`
}

// TableSettings contains settings for parsing the configuration tables.
type TableSettings struct {
	// Delimiter separates fields in delimited text tables.
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of delimited text tables.
	// Supported: "UTF-8", "ISO-8859-1", "ISO-8859-15", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the worksheet read from XLSX tables. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// QuerySettings controls the label columns added by the query builder.
type QuerySettings struct {
	// LabelCategories lists the lookup categories that become label columns.
	// "*" selects every category found in the lookup table.
	// Default: ["*"]; ["OBJART"] restricts the labels to the object type.
	LabelCategories []string `yaml:"label_categories"`

	// UnknownLabel is the fallback for codes without a lookup entry.
	// Default: "Unbekannt"
	UnknownLabel string `yaml:"unknown_label"`

	// ColumnSuffix is appended to the lower-cased category name to form the
	// label column name.
	// Default: "_klartext"
	ColumnSuffix string `yaml:"column_suffix"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns a profile with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML profile. An empty path returns the defaults. Environment
// overrides are applied in both cases.
//
// PARAMETERS:
//   - configPath: The path to the profile, or "".
//
// RETURNS:
//   - The effective configuration.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads variables from a dotenv file into the process environment.
// A missing file is not an error. Variables already set are not overwritten.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Ogr.Binary == "" {
		cfg.Ogr.Binary = "ogr2ogr"
	}
	if cfg.Ogr.Format == "" {
		cfg.Ogr.Format = "GPKG"
	}
	if cfg.Ogr.Dialect == "" {
		cfg.Ogr.Dialect = "SQLite"
	}
	if cfg.Ogr.SourceExtension == "" {
		cfg.Ogr.SourceExtension = ".shp"
	}
	if !strings.HasPrefix(cfg.Ogr.SourceExtension, ".") {
		cfg.Ogr.SourceExtension = "." + cfg.Ogr.SourceExtension
	}
	if cfg.Ogr.SourceEncoding == "" {
		cfg.Ogr.SourceEncoding = "ISO-8859-1"
	}
	if cfg.Ogr.OutputEncoding == "" {
		cfg.Ogr.OutputEncoding = "UTF-8"
	}
	if cfg.Ogr.SpatialIndex == nil {
		enabled := true
		cfg.Ogr.SpatialIndex = &enabled
	}
	if cfg.Ogr.GeometryType == "" {
		cfg.Ogr.GeometryType = "PROMOTE_TO_MULTI"
	}

	if cfg.Tables.Delimiter == "" {
		cfg.Tables.Delimiter = ","
	}
	if cfg.Tables.Encoding == "" {
		cfg.Tables.Encoding = "UTF-8"
	}

	if len(cfg.Query.LabelCategories) == 0 {
		cfg.Query.LabelCategories = []string{AllCategories}
	}
	if cfg.Query.UnknownLabel == "" {
		cfg.Query.UnknownLabel = "Unbekannt"
	}
	if cfg.Query.ColumnSuffix == "" {
		cfg.Query.ColumnSuffix = "_klartext"
	}
}

// applyEnv applies environment overrides.
func applyEnv(cfg *Config) {
	if bin := strings.TrimSpace(os.Getenv(EnvOgrBinary)); bin != "" {
		cfg.Ogr.Binary = bin
	}
}

// validate checks option values that defaults cannot repair.
func validate(cfg *Config) error {
	if len([]rune(cfg.Tables.Delimiter)) != 1 && !isNamedDelimiter(cfg.Tables.Delimiter) {
		return fmt.Errorf("tables.delimiter must be a single character, got %q", cfg.Tables.Delimiter)
	}
	if !SupportedEncoding(cfg.Tables.Encoding) {
		return fmt.Errorf("tables.encoding %q is not supported", cfg.Tables.Encoding)
	}
	for _, category := range cfg.Query.LabelCategories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("query.label_categories must not contain empty entries")
		}
	}
	return nil
}

// SpatialIndexEnabled reports whether layers get a spatial index.
func (o OgrSettings) SpatialIndexEnabled() bool {
	return o.SpatialIndex == nil || *o.SpatialIndex
}

// SupportedEncoding reports whether the table reader can decode name.
func SupportedEncoding(name string) bool {
	switch NormalizeEncoding(name) {
	case "UTF-8", "ISO-8859-1", "ISO-8859-15", "WINDOWS-1252":
		return true
	}
	return false
}

// NormalizeEncoding maps common spellings of an encoding name to one form.
func NormalizeEncoding(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch n {
	case "UTF8", "UTF-8":
		return "UTF-8"
	case "LATIN1", "LATIN-1", "ISO8859-1", "ISO-8859-1":
		return "ISO-8859-1"
	case "LATIN9", "ISO8859-15", "ISO-8859-15":
		return "ISO-8859-15"
	case "CP1252", "WINDOWS1252", "WINDOWS-1252":
		return "WINDOWS-1252"
	}
	return n
}

func isNamedDelimiter(d string) bool {
	switch d {
	case "\\t", "tab", "TAB", "semicolon", "pipe", "PIPE":
		return true
	}
	return false
}
