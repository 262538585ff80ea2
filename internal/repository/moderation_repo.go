package repository

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// ModerationRepository moderation history access interface
type ModerationRepository interface {
	Create(action *domain.ModerationAction) error
	FindByTarget(targetUserID uint64, page, limit int) ([]domain.ModerationAction, int64, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

// Create appends a moderation entry
func (r *moderationRepository) Create(action *domain.ModerationAction) error {
	return r.db.Create(action).Error
}

// FindByTarget retrieves a user's moderation history, newest first
func (r *moderationRepository) FindByTarget(targetUserID uint64, page, limit int) ([]domain.ModerationAction, int64, error) {
	var actions []domain.ModerationAction
	var total int64

	query := r.db.Model(&domain.ModerationAction{}).
		Where("target_user_id = ?", targetUserID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}
