package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func addAlertDestinationsNameIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_add_alert_destinations_name_index",
		Migrate: func(tx *gorm.DB) error {
			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_destinations_name ON alert_destinations (name)`,
				`CREATE INDEX IF NOT EXISTS idx_alert_destinations_created_at ON alert_destinations (created_at DESC)`,
			}
			for _, sql := range statements {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			statements := []string{
				`DROP INDEX IF EXISTS idx_alert_destinations_created_at`,
				`DROP INDEX IF EXISTS idx_alert_destinations_name`,
			}
			for _, sql := range statements {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
