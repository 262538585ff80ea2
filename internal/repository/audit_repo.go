package repository

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// AuditLogRepository append-only audit log access interface.
// There are deliberately no update or delete methods.
type AuditLogRepository interface {
	Create(entry *domain.AuditLog) error
	FindAll(page, limit int, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error)
	FindByGame(gameID uint64, page, limit int) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create appends an audit entry
func (r *auditLogRepository) Create(entry *domain.AuditLog) error {
	return r.db.Create(entry).Error
}

// FindAll retrieves paginated audit entries with optional filters, newest first
func (r *auditLogRepository) FindAll(page, limit int, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error) {
	var entries []domain.AuditLog
	var total int64

	query := r.db.Model(&domain.AuditLog{})
	if filter.GameID != 0 {
		query = query.Where("game_id = ?", filter.GameID)
	}
	if filter.UserID != 0 {
		query = query.Where("changed_by_id = ?", filter.UserID)
	}
	if filter.SubmittedBy != 0 {
		query = query.Where("submitted_by_id = ?", filter.SubmittedBy)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByGame retrieves a game's audit history, newest first
func (r *auditLogRepository) FindByGame(gameID uint64, page, limit int) ([]domain.AuditLog, int64, error) {
	return r.FindAll(page, limit, domain.AuditLogFilter{GameID: gameID})
}
