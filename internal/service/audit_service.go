package service

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
)

// AuditService serves the read-only audit log
type AuditService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// List returns paginated audit entries, newest first
func (s *AuditService) List(page, limit int, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.auditRepo.FindAll(page, limit, filter)
}

// ListByGame returns a game's change history, newest first
func (s *AuditService) ListByGame(gameID uint64, page, limit int) ([]domain.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.auditRepo.FindByGame(gameID, page, limit)
}
