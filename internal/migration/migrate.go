package migration

import (
	"github.com/blognest/blognest-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all blognest tables and seeds crosspost
// targets for existing posts if the table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Post{},
		&domain.CrosspostTarget{},
		&domain.PlatformCredential{},
		&domain.DeliveryRecord{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.PlatformCredential{}).Count(&count)
	if count == 0 {
		return seedCredentialRows(db)
	}

	return nil
}

// seedCredentialRows inserts one inactive placeholder row per platform so
// admins can see the full platform list before configuring anything.
func seedCredentialRows(db *gorm.DB) error {
	rows := make([]domain.PlatformCredential, 0, len(domain.AllPlatforms))
	for _, p := range domain.AllPlatforms {
		rows = append(rows, domain.PlatformCredential{
			Platform: p,
			IsActive: false,
		})
	}
	return db.Create(&rows).Error
}
