package gpkg

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ginjaninja78/dlm250-gpkg/internal/types"
)

// LookupsTable holds the lookup table inside the container.
const LookupsTable = "referenz_lookups"

const createLookupsTable = `CREATE TABLE referenz_lookups (
	kategorie TEXT NOT NULL,
	code TEXT NOT NULL,
	klartext TEXT)`

// insertBatchSize keeps each INSERT well below SQLite's bound parameter limit.
const insertBatchSize = 500

// ReferenceLookup is one row of referenz_lookups.
type ReferenceLookup struct {
	Kategorie string `gorm:"column:kategorie"`
	Code      string `gorm:"column:code"`
	Klartext  string `gorm:"column:klartext"`
}

// TableName implements gorm's Tabler.
func (ReferenceLookup) TableName() string {
	return LookupsTable
}

// PersistLookups drops and recreates referenz_lookups in the container and
// inserts every entry in the order given.
func PersistLookups(containerPath string, lookups []types.LookupEntry) error {
	rows := make([]ReferenceLookup, len(lookups))
	for i, entry := range lookups {
		rows[i] = ReferenceLookup{Kategorie: entry.Category, Code: entry.Code, Klartext: entry.Label}
	}

	return withContainer(containerPath, func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS " + LookupsTable).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", LookupsTable, err)
		}
		if err := tx.Exec(createLookupsTable).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", LookupsTable, err)
		}

		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert lookups: %w", err)
		}
		return nil
	})
}
