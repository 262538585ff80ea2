package migration

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates the schema for all catalog tables
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Game{},
		&domain.Correction{},
		&domain.GameSubmission{},
		&domain.AuditLog{},
		&domain.ModerationAction{},
		&domain.ReviewerApplication{},
		&domain.BannedProvider{},
	)
}
