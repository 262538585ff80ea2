package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/cache"
	"github.com/gamedex/gamedex-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSelfReview            = errors.New("cannot review your own submission")
	ErrDuplicatePending      = errors.New("a pending correction already targets this field")
	ErrSubmissionNotAllowed  = errors.New("account is not allowed to submit")
	ErrModifiedValueRequired = errors.New("modified value is required for a modify decision")
)

// CorrectionService handles the field correction workflow
type CorrectionService struct {
	correctionRepo repository.CorrectionRepository
	gameRepo       repository.GameRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditLogRepository
	cache          cache.Service
	notifier       *Notifier
}

// NewCorrectionService creates a new CorrectionService
func NewCorrectionService(
	correctionRepo repository.CorrectionRepository,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	cacheService cache.Service,
	notifier *Notifier,
) *CorrectionService {
	return &CorrectionService{
		correctionRepo: correctionRepo,
		gameRepo:       gameRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		cache:          cacheService,
		notifier:       notifier,
	}
}

// Submit opens a correction against a game field. The current field value
// is snapshotted into the correction so reviewers see exactly what the
// submitter saw.
func (s *CorrectionService) Submit(ctx context.Context, userID uint64, gameSlug string, req *domain.SubmitCorrectionRequest) (*domain.Correction, error) {
	// The token may be stale; permission checks run against the stored row
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if !user.CanSubmit(time.Now()) {
		return nil, ErrSubmissionNotAllowed
	}

	game, err := s.gameRepo.FindBySlug(gameSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if !game.FeatureEnabled {
		return nil, common.ErrNotFound
	}

	newValue, err := domain.ValidateFieldValue(req.Field, req.NewValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	pending, err := s.correctionRepo.HasPendingForField(game.ID, req.Field)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	current, _ := game.FieldValue(req.Field)
	oldValue, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	newValueJSON, err := json.Marshal(newValue)
	if err != nil {
		return nil, err
	}

	correction := &domain.Correction{
		GameID:        game.ID,
		Field:         req.Field,
		OldValue:      datatypes.JSON(oldValue),
		NewValue:      datatypes.JSON(newValueJSON),
		Reason:        req.Reason,
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: user.ID,
	}
	if err := s.correctionRepo.Create(correction); err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementCounters(user.ID, 1, 0, 0); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to bump submission counter")
	}
	if s.cache != nil {
		_ = s.cache.InvalidateCorrectionLists(ctx)
	}
	s.notifier.CorrectionSubmitted(correction, game.Title, user.AuditName())

	correction.Game = game
	correction.SubmittedBy = user
	return correction, nil
}

// Review resolves a pending correction. Resolution is first-wins: the
// conditional update in the repository guarantees exactly one reviewer
// succeeds, the loser gets a conflict.
func (s *CorrectionService) Review(ctx context.Context, reviewerID, correctionID uint64, req *domain.ReviewCorrectionRequest) (*domain.Correction, error) {
	// Re-fetch the acting user so revoked reviewers cannot ride an old token
	reviewer, err := s.userRepo.FindByID(reviewerID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if reviewer.Role != domain.RoleReviewer && reviewer.Role != domain.RoleAdmin {
		return nil, common.ErrForbidden
	}
	if reviewer.Status != domain.StatusActive {
		return nil, common.ErrForbidden
	}

	correction, err := s.correctionRepo.FindByID(correctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if correction.SubmittedByID == reviewer.ID {
		return nil, ErrSelfReview
	}
	if !correction.IsPending() {
		return nil, common.ErrConflict
	}

	var status string
	var appliedValue interface{}
	var appliedJSON []byte
	switch req.Decision {
	case domain.DecisionApprove:
		status = domain.CorrectionStatusApproved
		appliedValue, err = domain.ValidateFieldValue(correction.Field, json.RawMessage(correction.NewValue))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		appliedJSON = []byte(correction.NewValue)
	case domain.DecisionModify:
		status = domain.CorrectionStatusModified
		if len(req.ModifiedValue) == 0 {
			return nil, ErrModifiedValueRequired
		}
		appliedValue, err = domain.ValidateFieldValue(correction.Field, req.ModifiedValue)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		if appliedJSON, err = json.Marshal(appliedValue); err != nil {
			return nil, err
		}
	case domain.DecisionReject:
		status = domain.CorrectionStatusRejected
	default:
		return nil, common.ErrInvalidInput
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         status,
		"reviewed_by_id": reviewer.ID,
		"review_note":    req.Note,
		"reviewed_at":    now,
	}
	if appliedJSON != nil {
		updates["applied_value"] = datatypes.JSON(appliedJSON)
	}
	if err := s.correctionRepo.Resolve(correction.ID, updates); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	// Apply the change to the catalog after winning the resolution
	if status != domain.CorrectionStatusRejected {
		spec := domain.CorrectionFields[correction.Field]
		if err := s.gameRepo.UpdateField(correction.GameID, spec.Column, appliedValue); err != nil {
			logger.GetLogger().Error().Err(err).
				Uint64("correction_id", correction.ID).
				Str("field", correction.Field).
				Msg("failed to apply approved correction to game")
			return nil, err
		}
	}

	approvedDelta, rejectedDelta := 1, 0
	if status == domain.CorrectionStatusRejected {
		approvedDelta, rejectedDelta = 0, 1
	}
	if err := s.userRepo.IncrementCounters(correction.SubmittedByID, 0, approvedDelta, rejectedDelta); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("user_id", correction.SubmittedByID).Msg("failed to bump review counters")
	}

	s.writeAudit(correction, status, reviewer, req.Note, appliedJSON)

	if s.cache != nil {
		if correction.Game != nil {
			_ = s.cache.InvalidateGame(ctx, correction.Game.Slug)
		}
		_ = s.cache.InvalidateCorrectionLists(ctx)
		_ = s.cache.InvalidateLeaderboard(ctx)
	}

	correction.Status = status
	correction.ReviewedByID = &reviewer.ID
	correction.ReviewNote = req.Note
	correction.ReviewedAt = &now
	correction.ReviewedBy = reviewer
	if appliedJSON != nil {
		correction.AppliedValue = datatypes.JSON(appliedJSON)
	}

	gameTitle := ""
	if correction.Game != nil {
		gameTitle = correction.Game.Title
	}
	s.notifier.CorrectionResolved(correction, gameTitle, reviewer.AuditName())

	return correction, nil
}

// GetByID returns a single correction
func (s *CorrectionService) GetByID(id uint64) (*domain.Correction, error) {
	correction, err := s.correctionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return correction, nil
}

// CorrectionListResult is a cacheable listing page
type CorrectionListResult struct {
	Items []domain.Correction `json:"items"`
	Total int64               `json:"total"`
}

// List returns paginated corrections. Pages are cached with a short TTL
// since the pending queue is near-realtime; resolutions and new
// corrections drop the cached pages.
func (s *CorrectionService) List(ctx context.Context, page, limit int, filter repository.CorrectionFilter) ([]domain.Correction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("%s%d:%d:%d:%d:%s:%s", cache.PrefixCorrections,
		page, limit, filter.GameID, filter.SubmittedBy, filter.Status, filter.Field)
	if s.cache != nil && s.cache.IsAvailable() {
		var cached CorrectionListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
	}

	corrections, total, err := s.correctionRepo.FindAll(page, limit, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil && s.cache.IsAvailable() {
		_ = s.cache.Set(ctx, cacheKey, &CorrectionListResult{Items: corrections, Total: total}, cache.TTLShort)
	}
	return corrections, total, nil
}

func (s *CorrectionService) writeAudit(c *domain.Correction, status string, reviewer *domain.User, note string, appliedJSON []byte) {
	action := domain.AuditCorrectionRejected
	switch status {
	case domain.CorrectionStatusApproved:
		action = domain.AuditCorrectionApproved
	case domain.CorrectionStatusModified:
		action = domain.AuditCorrectionModified
	}

	gameTitle := ""
	if c.Game != nil {
		gameTitle = c.Game.Title
	}
	entry := &domain.AuditLog{
		Action:        action,
		GameID:        &c.GameID,
		GameTitle:     gameTitle,
		Field:         c.Field,
		OldValue:      c.OldValue,
		CorrectionID:  &c.ID,
		ChangedByID:   reviewer.ID,
		ChangedByName: reviewer.AuditName(),
		ChangedByRole: reviewer.Role,
		SubmittedByID: &c.SubmittedByID,
		Note:          note,
	}
	if appliedJSON != nil {
		entry.NewValue = datatypes.JSON(appliedJSON)
	}
	if err := s.auditRepo.Create(entry); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("correction_id", c.ID).Msg("failed to write audit entry")
	}
}
