package repository

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// ReviewerApplicationRepository reviewer application access interface
type ReviewerApplicationRepository interface {
	Create(application *domain.ReviewerApplication) error
	FindByID(id uint64) (*domain.ReviewerApplication, error)
	FindAll(page, limit int, status string) ([]domain.ReviewerApplication, int64, error)
	HasPendingByUser(userID uint64) (bool, error)
	Resolve(id uint64, updates map[string]interface{}) error
}

type reviewerApplicationRepository struct {
	db *gorm.DB
}

// NewReviewerApplicationRepository creates a new ReviewerApplicationRepository
func NewReviewerApplicationRepository(db *gorm.DB) ReviewerApplicationRepository {
	return &reviewerApplicationRepository{db: db}
}

// Create creates a new reviewer application
func (r *reviewerApplicationRepository) Create(application *domain.ReviewerApplication) error {
	return r.db.Create(application).Error
}

// FindByID finds an application with its participants preloaded
func (r *reviewerApplicationRepository) FindByID(id uint64) (*domain.ReviewerApplication, error) {
	var application domain.ReviewerApplication
	if err := r.db.Preload("User").
		Preload("ReviewedBy").
		Where("id = ?", id).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// FindAll retrieves paginated applications with optional status filter
func (r *reviewerApplicationRepository) FindAll(page, limit int, status string) ([]domain.ReviewerApplication, int64, error) {
	var applications []domain.ReviewerApplication
	var total int64

	query := r.db.Model(&domain.ReviewerApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// HasPendingByUser reports whether the user already has an open application
func (r *reviewerApplicationRepository) HasPendingByUser(userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ReviewerApplication{}).
		Where("user_id = ? AND status = ?", userID, domain.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

// Resolve transitions a pending application in one conditional update
func (r *reviewerApplicationRepository) Resolve(id uint64, updates map[string]interface{}) error {
	result := r.db.Model(&domain.ReviewerApplication{}).
		Where("id = ? AND status = ?", id, domain.ApplicationStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}
