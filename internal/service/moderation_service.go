package service

import (
	"context"
	"errors"
	"time"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/config"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/cache"
	"github.com/gamedex/gamedex-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSelfModeration       = errors.New("cannot moderate your own account")
	ErrBlockedPromotion     = errors.New("blocked accounts cannot hold elevated roles")
	ErrDeveloperRequired    = errors.New("admin role changes require a developer identity")
	ErrNotDeleted           = errors.New("account is not deleted")
	ErrAlreadyDeleted       = errors.New("account is already deleted")
	ErrRestoreWindowExpired = errors.New("restore grace period has passed; developer override required")
	ErrAlreadyApplied       = errors.New("a reviewer application is already pending")
	ErrAlreadyReviewer      = errors.New("account already holds the reviewer role or higher")
)

// ModerationService handles admin actions against user accounts
type ModerationService struct {
	userRepo        repository.UserRepository
	moderationRepo  repository.ModerationRepository
	applicationRepo repository.ReviewerApplicationRepository
	bannedRepo      repository.BannedProviderRepository
	cfg             *config.Config
	cache           cache.Service
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	userRepo repository.UserRepository,
	moderationRepo repository.ModerationRepository,
	applicationRepo repository.ReviewerApplicationRepository,
	bannedRepo repository.BannedProviderRepository,
	cfg *config.Config,
	cacheService cache.Service,
) *ModerationService {
	return &ModerationService{
		userRepo:        userRepo,
		moderationRepo:  moderationRepo,
		applicationRepo: applicationRepo,
		bannedRepo:      bannedRepo,
		cfg:             cfg,
		cache:           cacheService,
	}
}

// requireAdmin re-fetches the acting user and checks admin standing.
// Sensitive writes never trust token claims alone.
func (s *ModerationService) requireAdmin(adminID uint64) (*domain.User, error) {
	admin, err := s.userRepo.FindByID(adminID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if admin.Role != domain.RoleAdmin || admin.Status != domain.StatusActive {
		return nil, common.ErrForbidden
	}
	return admin, nil
}

func (s *ModerationService) findTarget(targetID uint64) (*domain.User, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return target, nil
}

// UpdateRole changes a user's role
func (s *ModerationService) UpdateRole(ctx context.Context, adminID, targetID uint64, req *domain.UpdateRoleRequest) (*domain.User, error) {
	admin, err := s.requireAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if adminID == targetID {
		return nil, ErrSelfModeration
	}

	target, err := s.findTarget(targetID)
	if err != nil {
		return nil, err
	}
	// Granting or revoking the admin role is reserved for the out-of-band
	// developer allow-list, so admins cannot escalate each other.
	if (target.Role == domain.RoleAdmin || req.Role == domain.RoleAdmin) && !s.cfg.IsDeveloper(admin.ID) {
		return nil, ErrDeveloperRequired
	}
	if target.Status == domain.StatusBlocked && req.Role != domain.RoleUser {
		return nil, ErrBlockedPromotion
	}
	if target.Role == req.Role {
		return target, nil
	}

	oldRole := target.Role
	if err := s.userRepo.UpdateFields(target.ID, map[string]interface{}{"role": req.Role}); err != nil {
		return nil, err
	}
	target.Role = req.Role

	s.record(target.ID, admin, domain.ModerationRoleChange, oldRole, req.Role, req.Reason)
	s.invalidate(ctx)
	return target, nil
}

// UpdateStatus changes a user's account status. Blocking an account also
// strips any elevated role so a later unblock does not silently restore
// review powers.
func (s *ModerationService) UpdateStatus(ctx context.Context, adminID, targetID uint64, req *domain.UpdateStatusRequest) (*domain.User, error) {
	admin, err := s.requireAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if adminID == targetID {
		return nil, ErrSelfModeration
	}

	target, err := s.findTarget(targetID)
	if err != nil {
		return nil, err
	}
	// Deleted accounts only leave that state through Restore
	if target.Status == domain.StatusDeleted {
		return nil, ErrAlreadyDeleted
	}

	oldStatus := target.Status
	fields := map[string]interface{}{"status": req.Status}
	if req.Status == domain.StatusSuspended {
		fields["suspended_until"] = req.SuspendedUntil
	} else {
		fields["suspended_until"] = nil
	}
	if req.Status == domain.StatusBlocked && target.Role != domain.RoleUser {
		fields["role"] = domain.RoleUser
		s.record(target.ID, admin, domain.ModerationRoleChange, target.Role, domain.RoleUser, "role removed on block")
		target.Role = domain.RoleUser
	}
	if err := s.userRepo.UpdateFields(target.ID, fields); err != nil {
		return nil, err
	}
	target.Status = req.Status
	target.SuspendedUntil = req.SuspendedUntil

	s.record(target.ID, admin, domain.ModerationStatusChange, oldStatus, req.Status, req.Reason)
	s.invalidate(ctx)
	return target, nil
}

// DeleteAccount soft-deletes the caller's own account. The display name
// is archived and replaced with an anonymized placeholder; statistics and
// authored records stay, attributed via the archived name.
func (s *ModerationService) DeleteAccount(ctx context.Context, userID uint64, req *domain.DeleteUserRequest) error {
	target, err := s.findTarget(userID)
	if err != nil {
		return err
	}
	if target.Status == domain.StatusDeleted {
		return ErrAlreadyDeleted
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":        domain.StatusDeleted,
		"archived_name": target.Name,
		"name":          domain.AnonymizedName(target.ID),
		"deleted_at":    now,
		"anonymized_at": now,
	}
	if target.Role != domain.RoleUser {
		fields["role"] = domain.RoleUser
	}
	if err := s.userRepo.UpdateFields(target.ID, fields); err != nil {
		return err
	}

	s.record(target.ID, target, domain.ModerationDelete, target.Status, domain.StatusDeleted, req.Reason)
	s.invalidate(ctx)
	return nil
}

// Restore reverses a soft deletion. Within the grace period any admin may
// restore; after that only configured developer accounts may, and only
// with an explicit override flag.
func (s *ModerationService) Restore(ctx context.Context, adminID, targetID uint64, req *domain.RestoreUserRequest) (*domain.User, error) {
	admin, err := s.requireAdmin(adminID)
	if err != nil {
		return nil, err
	}

	target, err := s.findTarget(targetID)
	if err != nil {
		return nil, err
	}
	if target.Status != domain.StatusDeleted || target.DeletedAt == nil {
		return nil, ErrNotDeleted
	}

	if time.Since(*target.DeletedAt) > domain.RestoreGracePeriod {
		if !req.AdminOverride || !s.cfg.IsDeveloper(admin.ID) {
			return nil, ErrRestoreWindowExpired
		}
	}

	restoredName := target.ArchivedName
	if restoredName == "" {
		restoredName = domain.AnonymizedName(target.ID)
	}
	fields := map[string]interface{}{
		"status":        domain.StatusActive,
		"name":          restoredName,
		"archived_name": "",
		"deleted_at":    nil,
		"anonymized_at": nil,
	}
	if err := s.userRepo.UpdateFields(target.ID, fields); err != nil {
		return nil, err
	}
	target.Status = domain.StatusActive
	target.Name = restoredName
	target.ArchivedName = ""
	target.DeletedAt = nil
	target.AnonymizedAt = nil

	s.record(target.ID, admin, domain.ModerationRestore, domain.StatusDeleted, domain.StatusActive, req.Reason)
	s.invalidate(ctx)
	return target, nil
}

// History returns a user's moderation history, newest first
func (s *ModerationService) History(targetID uint64, page, limit int) ([]domain.ModerationAction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.moderationRepo.FindByTarget(targetID, page, limit)
}

// ApplyReviewer opens a reviewer application for the calling user
func (s *ModerationService) ApplyReviewer(userID uint64, req *domain.ApplyReviewerRequest) (*domain.ReviewerApplication, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if user.Status != domain.StatusActive {
		return nil, common.ErrForbidden
	}
	if user.Role != domain.RoleUser {
		return nil, ErrAlreadyReviewer
	}

	pending, err := s.applicationRepo.HasPendingByUser(user.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrAlreadyApplied
	}

	application := &domain.ReviewerApplication{
		UserID:     user.ID,
		Motivation: req.Motivation,
		Status:     domain.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(application); err != nil {
		return nil, err
	}
	application.User = user
	return application, nil
}

// ReviewApplication resolves a reviewer application. Approval promotes the
// applicant and records the role change in the moderation history.
func (s *ModerationService) ReviewApplication(ctx context.Context, adminID, applicationID uint64, req *domain.ReviewApplicationRequest) (*domain.ReviewerApplication, error) {
	admin, err := s.requireAdmin(adminID)
	if err != nil {
		return nil, err
	}

	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if application.Status != domain.ApplicationStatusPending {
		return nil, common.ErrConflict
	}

	status := domain.ApplicationStatusRejected
	if req.Decision == domain.DecisionApprove {
		status = domain.ApplicationStatusApproved
	}

	now := time.Now()
	if err := s.applicationRepo.Resolve(application.ID, map[string]interface{}{
		"status":         status,
		"reviewed_by_id": admin.ID,
		"review_note":    req.Note,
		"reviewed_at":    now,
	}); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	if status == domain.ApplicationStatusApproved {
		applicant, err := s.findTarget(application.UserID)
		if err != nil {
			return nil, err
		}
		if applicant.Status == domain.StatusActive && applicant.Role == domain.RoleUser {
			if err := s.userRepo.UpdateFields(applicant.ID, map[string]interface{}{"role": domain.RoleReviewer}); err != nil {
				return nil, err
			}
			s.record(applicant.ID, admin, domain.ModerationRoleChange, domain.RoleUser, domain.RoleReviewer, "reviewer application approved")
		}
	}

	application.Status = status
	application.ReviewedByID = &admin.ID
	application.ReviewNote = req.Note
	application.ReviewedAt = &now
	application.ReviewedBy = admin
	s.invalidate(ctx)
	return application, nil
}

// ListApplications returns paginated reviewer applications
func (s *ModerationService) ListApplications(page, limit int, status string) ([]domain.ReviewerApplication, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.applicationRepo.FindAll(page, limit, status)
}

// BanProvider blocks future sign-ins from an identity provider
func (s *ModerationService) BanProvider(adminID uint64, req *domain.BanProviderRequest) (*domain.BannedProvider, error) {
	admin, err := s.requireAdmin(adminID)
	if err != nil {
		return nil, err
	}

	banned, err := s.bannedRepo.IsBanned(req.Provider)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, common.ErrConflict
	}

	ban := &domain.BannedProvider{
		Provider: req.Provider,
		Reason:   req.Reason,
		BannedBy: admin.ID,
	}
	if err := s.bannedRepo.Create(ban); err != nil {
		return nil, err
	}
	return ban, nil
}

// UnbanProvider lifts a provider ban
func (s *ModerationService) UnbanProvider(adminID uint64, provider string) error {
	if _, err := s.requireAdmin(adminID); err != nil {
		return err
	}
	if err := s.bannedRepo.Delete(provider); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	return nil
}

// ListBannedProviders lists all banned providers
func (s *ModerationService) ListBannedProviders(adminID uint64) ([]domain.BannedProvider, error) {
	if _, err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}
	return s.bannedRepo.FindAll()
}

func (s *ModerationService) record(targetID uint64, actor *domain.User, action, oldValue, newValue, reason string) {
	entry := &domain.ModerationAction{
		TargetUserID: targetID,
		ActorID:      actor.ID,
		ActorName:    actor.AuditName(),
		Action:       action,
		OldValue:     oldValue,
		NewValue:     newValue,
		Reason:       reason,
	}
	if err := s.moderationRepo.Create(entry); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("target_user_id", targetID).Msg("failed to write moderation entry")
	}
}

func (s *ModerationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateLeaderboard(ctx)
	}
}
