// =============================================================================
// DLM250 GeoPackage Builder - CSV Parser Module
// =============================================================================
//
// This module parses the delimited text variants of the mapping and lookup
// tables. It handles:
//   - Different delimiters (comma, semicolon, tab, pipe)
//   - Different encodings (UTF-8 with or without BOM, Latin-1, Windows-1252)
//   - Quoted fields containing delimiters (filter expressions often do)
//
// Every value is returned as text. Codes such as "0100" keep their leading
// zeros because nothing here interprets cell contents.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/dlm250-gpkg/internal/config"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited text file whose first row is the header row.
//
// PARAMETERS:
//   - filePath: The path to the table.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The parsed table.
//   - An error if the file cannot be read or has no header row.
func Parse(filePath string, settings config.TableSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// ParseReader parses a table from r. See Parse.
func ParseReader(r io.Reader, settings config.TableSettings) (*types.Table, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(bufio.NewReader(r), decoder.NewDecoder()))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := CleanHeaders(allRows[0])

	return &types.Table{
		Headers: headers,
		Rows:    RowsToMaps(headers, allRows[1:]),
	}, nil
}

// decoderFor returns the decoder for a configured encoding name.
// UTF-8 input has an optional byte order mark removed.
func decoderFor(name string) (encoding.Encoding, error) {
	switch config.NormalizeEncoding(name) {
	case "", "UTF-8":
		return unicode.UTF8BOM, nil
	case "ISO-8859-1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-15":
		return charmap.ISO8859_15, nil
	case "WINDOWS-1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding: %s", name)
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.TableSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if d := []rune(settings.Delimiter); len(d) > 0 {
			reader.Comma = d[0]
		} else {
			reader.Comma = ','
		}
	}

	// Trailing empty columns are often cut off by spreadsheet exports.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
}

// =============================================================================
// ROW HELPERS
// =============================================================================

// CleanHeaders trims header names and replaces blank ones with Column_N.
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// RowsToMaps converts raw rows into header -> value maps. Values are trimmed,
// missing trailing cells become "" and fully blank rows are skipped.
func RowsToMaps(headers []string, rows [][]string) []map[string]string {
	result := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		if IsRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		result = append(result, rowMap)
	}

	return result
}

// IsRowEmpty checks if a row contains only blank values.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
