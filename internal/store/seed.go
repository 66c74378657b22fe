package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedReport lists how many rows were inserted per table.
type SeedReport map[string]int

// Seed inserts the dataset into every registry table that is still empty. Tables that
// already hold rows are left untouched.
func (d *Database) Seed(ctx context.Context, ds *Dataset) (SeedReport, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	report := make(SeedReport)
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			table string
			seed  func(*gorm.DB) (int, error)
		}{
			{"cdsco_banned_drugs", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.BannedDrugs) }},
			{"cdsco_safety_alerts", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.SafetyAlerts) }},
			{"batch_blacklist", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.Blacklist) }},
			{"cdsco_approved_drugs", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.ApprovedDrugs) }},
			{"cdsco_manufacturers", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.Manufacturers) }},
			{"indian_medicines", func(tx *gorm.DB) (int, error) { return seedTable(tx, ds.Catalogue) }},
		}
		for _, step := range steps {
			inserted, err := step.seed(tx)
			if err != nil {
				return fmt.Errorf("seed %s: %w", step.table, err)
			}
			report[step.table] = inserted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("inserted", map[string]int(report)).Info("registry seed complete")
	return report, nil
}

func seedTable[T any](tx *gorm.DB, rows []T) (int, error) {
	var count int64
	if err := tx.Model(new(T)).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 || len(rows) == 0 {
		return 0, nil
	}
	// Insert copies so the dataset (shared with the fixture backend) keeps zero IDs.
	batch := make([]T, len(rows))
	copy(batch, rows)
	if err := tx.CreateInBatches(batch, 100).Error; err != nil {
		return 0, err
	}
	return len(batch), nil
}
