package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows to a new workbook under sheet and returns its path.
func writeWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_FirstSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"kategorie", " code ", "klartext"},
		{"OBJART", "0100", "Straße"},
		{"", "", ""},
		{"OBJART", "2", "Weg"},
	})

	table, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, []string{"kategorie", "code", "klartext"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "0100", table.Rows[0]["code"])
	assert.Equal(t, "Weg", table.Rows[1]["klartext"])
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "mapping", [][]string{
		{"src_file", "target_layer"},
		{"ver01_l", "verkehr"},
	})

	table, err := Parse(path, "mapping")
	require.NoError(t, err)
	assert.Equal(t, "ver01_l", table.Rows[0]["src_file"])

	_, err = Parse(path, "missing")
	assert.Error(t, err)
}

func TestParse_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)

	_, err := Parse(path, "")
	assert.Error(t, err)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("mapping.xlsx"))
	assert.True(t, IsWorkbook("MAPPING.XLSM"))
	assert.False(t, IsWorkbook("mapping.csv"))
}
