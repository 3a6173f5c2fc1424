package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	r := NewReport()

	r.Collect("Warning 1: Value 'abc' of field X not successfully written.\n" +
		"  \n" +
		"ERROR 1: Failed to open datasource.\n" +
		"0...10...20...30...40...50...60...70...80...90...100 - done.\n" +
		"warning 6: Normalized/laundered field name: 'OBJART_KLARTEXT'\r\n")
	r.Collect("Warning 1: Value 'abc' of field X not successfully written.\n" +
		"error in second call\n")

	assert.Equal(t, 2, r.WarningCounts["Warning 1: Value 'abc' of field X not successfully written."])
	assert.Equal(t, 1, r.WarningCounts["warning 6: Normalized/laundered field name: 'OBJART_KLARTEXT'"])
	assert.Equal(t, []string{"ERROR 1: Failed to open datasource.", "error in second call"}, r.ErrorLines)
	assert.Equal(t, 3, r.TotalWarnings())
}

func TestCollect_ZeroValueReport(t *testing.T) {
	var r Report
	r.Collect("Warning: x")
	assert.Equal(t, 1, r.WarningCounts["Warning: x"])
}

func TestWarnings_Order(t *testing.T) {
	r := NewReport()
	r.Collect("Warning A\nWarning B\nWarning C\nWarning B\n")

	assert.Equal(t, []WarningCount{
		{Message: "Warning B", Count: 2},
		{Message: "Warning A", Count: 1},
		{Message: "Warning C", Count: 1},
	}, r.Warnings())
}

func TestCollect_NothingRelevant(t *testing.T) {
	r := NewReport()
	r.Collect("")
	r.Collect("INFO: nothing\n   \n")

	assert.Empty(t, r.WarningCounts)
	assert.Empty(t, r.ErrorLines)
	assert.Empty(t, r.Warnings())
}
