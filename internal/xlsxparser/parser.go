// =============================================================================
// DLM250 GeoPackage Builder - XLSX Table Parser
// =============================================================================
//
// The mapping and lookup tables are often maintained in a spreadsheet. This
// module reads them straight from an XLSX workbook so they do not have to be
// exported to CSV first.
//
// TABLE STRUCTURE:
//   The first row of the sheet holds the column names, every following row is
//   a record. Example mapping sheet:
//
//   | src_file | target_layer | suffix | filter_sql      | style_file          |
//   |----------|--------------|--------|-----------------|---------------------|
//   | ver01_l  | verkehr      | _l     | OBJART = '3101' | styles/strasse.qml  |
//   | gew01_f  | gewaesser    | _f     |                 |                     |
//
// Cells are read with their raw value so numeric-looking codes are not
// reformatted. A code typed into Excel as a number has already lost its
// leading zeros, though; such columns must be formatted as text.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dlm250-gpkg/internal/csvparser"
	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// IsWorkbook reports whether path names a workbook this package can read.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Parse reads one sheet of an XLSX workbook as a table.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - sheet: The sheet name. If empty, the first sheet is used.
//
// RETURNS:
//   - The parsed table.
//   - An error if the workbook or sheet cannot be read, or the sheet is empty.
func Parse(filePath, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, filepath.Base(filePath))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	// Leading blank rows are skipped so a title row left empty does not hide
	// the header.
	start := 0
	for start < len(rows) && csvparser.IsRowEmpty(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := csvparser.CleanHeaders(rows[start])

	return &types.Table{
		SourceFile: filePath,
		Headers:    headers,
		Rows:       csvparser.RowsToMaps(headers, rows[start+1:]),
	}, nil
}
