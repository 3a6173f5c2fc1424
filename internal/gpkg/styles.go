package gpkg

import (
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
)

// StylesTable is the style registry table read by QGIS.
const StylesTable = "layer_styles"

// DefaultStyleName is the name given to every injected style.
const DefaultStyleName = "default"

const createStylesTable = `CREATE TABLE IF NOT EXISTS layer_styles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	f_table_name TEXT,
	styleName TEXT,
	styleQML TEXT,
	useAsDefault BOOLEAN,
	update_time DATETIME DEFAULT CURRENT_TIMESTAMP)`

// LayerStyle is one row of layer_styles.
type LayerStyle struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FTableName   string    `gorm:"column:f_table_name"`
	StyleName    string    `gorm:"column:styleName"`
	StyleQML     string    `gorm:"column:styleQML"`
	UseAsDefault bool      `gorm:"column:useAsDefault"`
	UpdateTime   time.Time `gorm:"column:update_time"`
}

// TableName implements gorm's Tabler.
func (LayerStyle) TableName() string {
	return StylesTable
}

// InjectStyle stores the QML document at stylePath as the default style of
// layerName.
//
// It returns false without touching the container when stylePath is not an
// existing file. Otherwise the layer_styles table is created if needed, any
// previous style rows of the layer are removed and exactly one new row is
// inserted.
func InjectStyle(containerPath, layerName, stylePath string) (bool, error) {
	return injectStyle(containerPath, layerName, stylePath, time.Now())
}

func injectStyle(containerPath, layerName, stylePath string, now time.Time) (bool, error) {
	info, err := os.Stat(stylePath)
	if err != nil || info.IsDir() {
		return false, nil
	}

	qml, err := os.ReadFile(stylePath)
	if err != nil {
		return false, fmt.Errorf("failed to read style %s: %w", stylePath, err)
	}

	err = withContainer(containerPath, func(tx *gorm.DB) error {
		if err := tx.Exec(createStylesTable).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", StylesTable, err)
		}

		if err := tx.Where("f_table_name = ?", layerName).Delete(&LayerStyle{}).Error; err != nil {
			return fmt.Errorf("failed to remove old style of %s: %w", layerName, err)
		}

		style := LayerStyle{
			FTableName:   layerName,
			StyleName:    DefaultStyleName,
			StyleQML:     string(qml),
			UseAsDefault: true,
			UpdateTime:   now,
		}
		if err := tx.Create(&style).Error; err != nil {
			return fmt.Errorf("failed to insert style of %s: %w", layerName, err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
