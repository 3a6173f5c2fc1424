// =============================================================================
// DLM250 GeoPackage Builder - GeoPackage Metadata Writer
// =============================================================================
//
// ogr2ogr creates the feature tables. This module adds the two plain tables
// that ogr2ogr knows nothing about:
//   - layer_styles:     QML styles picked up by QGIS as the layer default
//   - referenz_lookups: the complete lookup table for reference
//
// Every function opens the container, does its work in one transaction and
// closes it again, so ogr2ogr never runs while a connection is held.
//
// =============================================================================

package gpkg

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// Writer writes metadata tables into a GeoPackage.
type Writer struct {
	// Now returns the timestamp stored with injected styles.
	Now func() time.Time
}

// NewWriter returns a Writer using the wall clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// InjectStyle stores stylePath as the default style of layerName. See
// InjectStyle (package level).
func (w *Writer) InjectStyle(containerPath, layerName, stylePath string) (bool, error) {
	return injectStyle(containerPath, layerName, stylePath, w.now())
}

// PersistLookups replaces the reference lookup table. See PersistLookups
// (package level).
func (w *Writer) PersistLookups(containerPath string, lookups []types.LookupEntry) error {
	return PersistLookups(containerPath, lookups)
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// open connects to the GeoPackage at path.
func open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return db, nil
}

// withContainer runs fn inside a transaction on the container and closes the
// connection afterwards.
func withContainer(path string, fn func(tx *gorm.DB) error) error {
	db, err := open(path)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", path, err)
	}
	defer sqlDB.Close()

	return db.Transaction(fn)
}
