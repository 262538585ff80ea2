package repository

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// SubmissionFilter narrows game submission listings
type SubmissionFilter struct {
	Status      string
	SubmittedBy uint64
}

// SubmissionRepository game submission data access interface
type SubmissionRepository interface {
	Create(submission *domain.GameSubmission) error
	FindByID(id uint64) (*domain.GameSubmission, error)
	FindAll(page, limit int, filter SubmissionFilter) ([]domain.GameSubmission, int64, error)
	FindPendingByUserAndTitle(userID uint64, title string) (*domain.GameSubmission, error)
	Resolve(id uint64, updates map[string]interface{}) error
	MarkPublished(id uint64, updates map[string]interface{}) error
	SetGameID(id, gameID uint64) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create creates a new game submission
func (r *submissionRepository) Create(submission *domain.GameSubmission) error {
	return r.db.Create(submission).Error
}

// FindByID finds a submission with its participants preloaded
func (r *submissionRepository) FindByID(id uint64) (*domain.GameSubmission, error) {
	var submission domain.GameSubmission
	if err := r.db.Preload("SubmittedBy").
		Preload("ReviewedBy").
		Preload("PublishedBy").
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindAll retrieves paginated submissions with optional filters, newest first
func (r *submissionRepository) FindAll(page, limit int, filter SubmissionFilter) ([]domain.GameSubmission, int64, error) {
	var submissions []domain.GameSubmission
	var total int64

	query := r.db.Model(&domain.GameSubmission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SubmittedBy != 0 {
		query = query.Where("submitted_by_id = ?", filter.SubmittedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("SubmittedBy").
		Preload("ReviewedBy").
		Preload("PublishedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// FindPendingByUserAndTitle finds the user's open submission for a title.
// Used to fold repeated submits into an update instead of a duplicate row.
func (r *submissionRepository) FindPendingByUserAndTitle(userID uint64, title string) (*domain.GameSubmission, error) {
	var submission domain.GameSubmission
	if err := r.db.Where("submitted_by_id = ? AND title = ? AND status = ?",
		userID, title, domain.SubmissionStatusPending).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// Resolve transitions a pending submission in one conditional update.
// First-wins: a concurrent resolution gets ErrAlreadyResolved.
func (r *submissionRepository) Resolve(id uint64, updates map[string]interface{}) error {
	result := r.db.Model(&domain.GameSubmission{}).
		Where("id = ? AND status = ?", id, domain.SubmissionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}

// SetGameID links a published submission to the catalog row it produced.
// Runs after the publish transition has been won, so it is unconditional.
func (r *submissionRepository) SetGameID(id, gameID uint64) error {
	return r.db.Model(&domain.GameSubmission{}).
		Where("id = ?", id).
		Update("game_id", gameID).Error
}

// MarkPublished transitions an approved submission to published. The status
// guard keeps a submission from being published twice.
func (r *submissionRepository) MarkPublished(id uint64, updates map[string]interface{}) error {
	result := r.db.Model(&domain.GameSubmission{}).
		Where("id = ? AND status = ?", id, domain.SubmissionStatusApproved).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyResolved
	}
	return nil
}
