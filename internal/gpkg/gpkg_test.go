package gpkg

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// newContainer creates an empty SQLite file standing in for a GeoPackage.
func newContainer(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.gpkg")
	db, err := open(path)
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE verkehr_l (fid INTEGER PRIMARY KEY)").Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	return path
}

// query opens the container for assertions.
func query(t *testing.T, path string) *gorm.DB {
	t.Helper()

	db, err := open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func writeStyle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strasse.qml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInjectStyle(t *testing.T) {
	container := newContainer(t)
	style := writeStyle(t, "<qgis version=\"3.34\"/>")
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	w := &Writer{Now: func() time.Time { return stamp }}
	ok, err := w.InjectStyle(container, "verkehr_l", style)
	require.NoError(t, err)
	assert.True(t, ok)

	var styles []LayerStyle
	require.NoError(t, query(t, container).Find(&styles).Error)
	require.Len(t, styles, 1)
	assert.Equal(t, "verkehr_l", styles[0].FTableName)
	assert.Equal(t, DefaultStyleName, styles[0].StyleName)
	assert.Equal(t, "<qgis version=\"3.34\"/>", styles[0].StyleQML)
	assert.True(t, styles[0].UseAsDefault)
	assert.True(t, stamp.Equal(styles[0].UpdateTime))
}

func TestInjectStyle_ReplacesExisting(t *testing.T) {
	container := newContainer(t)

	ok, err := InjectStyle(container, "verkehr_l", writeStyle(t, "<old/>"))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = InjectStyle(container, "gewaesser_f", writeStyle(t, "<other/>"))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = InjectStyle(container, "verkehr_l", writeStyle(t, "<new/>"))
	require.NoError(t, err)
	require.True(t, ok)

	var styles []LayerStyle
	require.NoError(t, query(t, container).Where("f_table_name = ?", "verkehr_l").Find(&styles).Error)
	require.Len(t, styles, 1)
	assert.Equal(t, "<new/>", styles[0].StyleQML)

	var total int64
	require.NoError(t, query(t, container).Model(&LayerStyle{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestInjectStyle_MissingFile(t *testing.T) {
	container := newContainer(t)

	ok, err := InjectStyle(container, "verkehr_l", filepath.Join(t.TempDir(), "missing.qml"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = InjectStyle(container, "verkehr_l", t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, query(t, container).Migrator().HasTable(StylesTable))
}

func TestPersistLookups(t *testing.T) {
	container := newContainer(t)
	lookups := []types.LookupEntry{
		{Category: "OBJART", Code: "0100", Label: "Straße"},
		{Category: "OBJART", Code: "0100", Label: "Straße"},
		{Category: "BRS", Code: "7", Label: "O'Brien"},
	}

	require.NoError(t, PersistLookups(container, lookups))

	var rows []ReferenceLookup
	require.NoError(t, query(t, container).Find(&rows).Error)
	assert.Equal(t, []ReferenceLookup{
		{Kategorie: "OBJART", Code: "0100", Klartext: "Straße"},
		{Kategorie: "OBJART", Code: "0100", Klartext: "Straße"},
		{Kategorie: "BRS", Code: "7", Klartext: "O'Brien"},
	}, rows)
}

func TestPersistLookups_Overwrites(t *testing.T) {
	container := newContainer(t)

	require.NoError(t, PersistLookups(container, []types.LookupEntry{{Category: "A", Code: "1", Label: "x"}}))
	require.NoError(t, PersistLookups(container, []types.LookupEntry{{Category: "B", Code: "2", Label: "y"}}))

	var rows []ReferenceLookup
	require.NoError(t, query(t, container).Find(&rows).Error)
	assert.Equal(t, []ReferenceLookup{{Kategorie: "B", Code: "2", Klartext: "y"}}, rows)
}

func TestPersistLookups_Empty(t *testing.T) {
	container := newContainer(t)

	require.NoError(t, PersistLookups(container, nil))
	assert.True(t, query(t, container).Migrator().HasTable(LookupsTable))
}

func TestPersistLookups_ManyRows(t *testing.T) {
	container := newContainer(t)

	lookups := make([]types.LookupEntry, 1234)
	for i := range lookups {
		lookups[i] = types.LookupEntry{Category: "OBJART", Code: strconv.Itoa(i), Label: "x"}
	}
	require.NoError(t, NewWriter().PersistLookups(container, lookups))

	var count int64
	require.NoError(t, query(t, container).Model(&ReferenceLookup{}).Count(&count).Error)
	assert.Equal(t, int64(1234), count)
}
