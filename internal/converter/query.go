// =============================================================================
// DLM250 GeoPackage Builder - Query Builder
// =============================================================================
//
// This module builds the SQLite-dialect view handed to ogr2ogr for every
// layer. The view keeps all native columns and adds one label column per
// lookup category, translating coded values into plain text:
//
//   SELECT *,
//     CASE "OBJART" WHEN '3101' THEN 'Straße' ... ELSE 'Unbekannt' END
//       AS "objart_klartext"
//   FROM "ver01_l" WHERE <filter_sql>
//
// QUOTING:
//   - Codes and labels are always single-quoted string literals; embedded
//     single quotes are doubled.
//   - The source name, category column and label column are double-quoted
//     identifiers; embedded double quotes are doubled.
//   - filter_sql is trusted local configuration and is appended verbatim.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

const (
	// DefaultUnknownLabel is returned for codes without a lookup entry.
	DefaultUnknownLabel = "Unbekannt"

	// DefaultColumnSuffix is appended to the lower-cased category name.
	DefaultColumnSuffix = "_klartext"
)

// QueryBuilder builds layer queries.
type QueryBuilder struct {
	// Categories restricts which lookup categories become label columns.
	// Empty, or containing "*", selects every category.
	Categories []string

	// UnknownLabel is the fallback label.
	UnknownLabel string

	// ColumnSuffix forms the label column name.
	ColumnSuffix string
}

// NewQueryBuilder returns a builder configured from the query settings.
func NewQueryBuilder(settings config.QuerySettings) QueryBuilder {
	return QueryBuilder{
		Categories:   settings.LabelCategories,
		UnknownLabel: settings.UnknownLabel,
		ColumnSuffix: settings.ColumnSuffix,
	}
}

// BuildQuery builds the query for sourceID with one label column for every
// category present in lookups.
func BuildQuery(sourceID, filter string, lookups []types.LookupEntry) string {
	return QueryBuilder{}.Build(sourceID, filter, lookups)
}

// Build builds the query for sourceID. Categories without lookup entries
// produce no column.
func (b QueryBuilder) Build(sourceID, filter string, lookups []types.LookupEntry) string {
	selectParts := []string{"*"}

	for _, category := range b.selectedCategories(lookups) {
		if column := b.labelColumn(category, lookups); column != "" {
			selectParts = append(selectParts, column)
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectParts, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(QuoteIdentifier(sourceID))

	if f := strings.TrimSpace(filter); f != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(f)
	}

	return sb.String()
}

// labelColumn builds the CASE expression for one category, or "" if the
// category has no entries.
func (b QueryBuilder) labelColumn(category string, lookups []types.LookupEntry) string {
	var branches []string
	for _, entry := range lookups {
		if entry.Category != category {
			continue
		}
		branches = append(branches,
			"WHEN "+QuoteLiteral(entry.Code)+" THEN "+QuoteLiteral(entry.Label))
	}

	if len(branches) == 0 {
		return ""
	}

	return "CASE " + QuoteIdentifier(category) + " " +
		strings.Join(branches, " ") +
		" ELSE " + QuoteLiteral(b.unknownLabel()) + " END AS " +
		QuoteIdentifier(strings.ToLower(category)+b.columnSuffix())
}

// selectedCategories returns the categories that get a label column, in the
// order they first appear in lookups.
func (b QueryBuilder) selectedCategories(lookups []types.LookupEntry) []string {
	all := b.allCategories()
	wanted := make(map[string]bool, len(b.Categories))
	for _, c := range b.Categories {
		wanted[strings.TrimSpace(c)] = true
	}

	seen := make(map[string]bool)
	var result []string
	for _, entry := range lookups {
		if seen[entry.Category] {
			continue
		}
		seen[entry.Category] = true
		if all || wanted[entry.Category] {
			result = append(result, entry.Category)
		}
	}
	return result
}

func (b QueryBuilder) allCategories() bool {
	if len(b.Categories) == 0 {
		return true
	}
	for _, c := range b.Categories {
		if strings.TrimSpace(c) == config.AllCategories {
			return true
		}
	}
	return false
}

func (b QueryBuilder) unknownLabel() string {
	if b.UnknownLabel == "" {
		return DefaultUnknownLabel
	}
	return b.UnknownLabel
}

func (b QueryBuilder) columnSuffix() string {
	if b.ColumnSuffix == "" {
		return DefaultColumnSuffix
	}
	return b.ColumnSuffix
}

// QuoteLiteral returns s as a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier returns s as a double-quoted SQL identifier.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
