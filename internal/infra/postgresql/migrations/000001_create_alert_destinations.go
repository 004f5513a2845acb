package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	"gorm.io/gorm"
)

func createAlertDestinationsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_alert_destinations",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.DestinationModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.DestinationModel{})
		},
	}
}
