package repository

import (
	"errors"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// ErrAlreadyResolved indicates another reviewer resolved the record first
var ErrAlreadyResolved = errors.New("already resolved by another reviewer")

// CorrectionFilter narrows correction listings
type CorrectionFilter struct {
	GameID      uint64
	Status      string
	SubmittedBy uint64
	Field       string
}

// CorrectionRepository correction data access interface
type CorrectionRepository interface {
	Create(correction *domain.Correction) error
	FindByID(id uint64) (*domain.Correction, error)
	FindAll(page, limit int, filter CorrectionFilter) ([]domain.Correction, int64, error)
	HasPendingForField(gameID uint64, field string) (bool, error)
	CountPendingByGame(gameID uint64) (int64, error)
	Resolve(id uint64, updates map[string]interface{}) error
}

type correctionRepository struct {
	db *gorm.DB
}

// NewCorrectionRepository creates a new CorrectionRepository
func NewCorrectionRepository(db *gorm.DB) CorrectionRepository {
	return &correctionRepository{db: db}
}

// Create creates a new correction
func (r *correctionRepository) Create(correction *domain.Correction) error {
	return r.db.Create(correction).Error
}

// FindByID finds a correction with its game and participants preloaded
func (r *correctionRepository) FindByID(id uint64) (*domain.Correction, error) {
	var correction domain.Correction
	if err := r.db.Preload("Game").
		Preload("SubmittedBy").
		Preload("ReviewedBy").
		Where("id = ?", id).
		First(&correction).Error; err != nil {
		return nil, err
	}
	return &correction, nil
}

// FindAll retrieves paginated corrections with optional filters, newest first
func (r *correctionRepository) FindAll(page, limit int, filter CorrectionFilter) ([]domain.Correction, int64, error) {
	var corrections []domain.Correction
	var total int64

	query := r.db.Model(&domain.Correction{})
	if filter.GameID != 0 {
		query = query.Where("game_id = ?", filter.GameID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SubmittedBy != 0 {
		query = query.Where("submitted_by_id = ?", filter.SubmittedBy)
	}
	if filter.Field != "" {
		query = query.Where("field = ?", filter.Field)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Game").
		Preload("SubmittedBy").
		Preload("ReviewedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&corrections).Error; err != nil {
		return nil, 0, err
	}
	return corrections, total, nil
}

// HasPendingForField reports whether a pending correction already targets
// the same game field
func (r *correctionRepository) HasPendingForField(gameID uint64, field string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Correction{}).
		Where("game_id = ? AND field = ? AND status = ?", gameID, field, domain.CorrectionStatusPending).
		Count(&count).Error
	return count > 0, err
}

// CountPendingByGame counts pending corrections for a game
func (r *correctionRepository) CountPendingByGame(gameID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Correction{}).
		Where("game_id = ? AND status = ?", gameID, domain.CorrectionStatusPending).
		Count(&count).Error
	return count, err
}

// Resolve transitions a pending correction in one conditional update.
// The status guard makes resolution first-wins: when two reviewers race,
// the second update matches zero rows and gets ErrAlreadyResolved.
func (r *correctionRepository) Resolve(id uint64, updates map[string]interface{}) error {
	result := r.db.Model(&domain.Correction{}).
		Where("id = ? AND status = ?", id, domain.CorrectionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}
