package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
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
	ErrNotApproved       = errors.New("only approved submissions can be published")
	ErrMissingGameFields = errors.New("submission is missing required fields for publication")
	ErrGameAlreadyLive   = errors.New("target game is already published")
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SubmissionService handles the new game submission workflow
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	gameRepo       repository.GameRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditLogRepository
	cache          cache.Service
	notifier       *Notifier
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	cacheService cache.Service,
	notifier *Notifier,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		gameRepo:       gameRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		cache:          cacheService,
		notifier:       notifier,
	}
}

// Submit proposes a catalog entry, brand-new or targeting an existing
// not-yet-live game by slug. A repeated submit for the same title by the
// same user updates the open proposal instead of duplicating it; the
// latest draft wins.
func (s *SubmissionService) Submit(ctx context.Context, userID uint64, req *domain.SubmitGameRequest) (*domain.GameSubmission, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if !user.CanSubmit(time.Now()) {
		return nil, ErrSubmissionNotAllowed
	}

	targetSlug := strings.TrimSpace(req.TargetSlug)
	if targetSlug != "" {
		target, err := s.gameRepo.FindBySlug(targetSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrNotFound
			}
			return nil, err
		}
		if target.FeatureEnabled {
			return nil, ErrGameAlreadyLive
		}
	}

	draft := domain.GameDraft{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		ReleaseDate:    req.ReleaseDate,
		Developer:      req.Developer,
		Publisher:      req.Publisher,
		Genres:         req.Genres,
		Platforms:      req.Platforms,
		ActivationType: req.ActivationType,
		StoreURL:       req.StoreURL,
		SupportURL:     req.SupportURL,
		Instructions:   req.Instructions,
	}
	if draft.ReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", draft.ReleaseDate); err != nil {
			return nil, fmt.Errorf("release_date expects YYYY-MM-DD: %w", common.ErrInvalidInput)
		}
	}
	proposedData, err := json.Marshal(&draft)
	if err != nil {
		return nil, err
	}

	// Fold repeated submits into the existing pending proposal
	if existing, err := s.submissionRepo.FindPendingByUserAndTitle(user.ID, draft.Title); err == nil {
		if err := s.submissionRepo.Resolve(existing.ID, map[string]interface{}{
			"proposed_data": datatypes.JSON(proposedData),
			"target_slug":   targetSlug,
			"status":        domain.SubmissionStatusPending,
		}); err != nil {
			return nil, err
		}
		existing.ProposedData = datatypes.JSON(proposedData)
		existing.TargetSlug = targetSlug
		existing.SubmittedBy = user
		return existing, nil
	}

	submission := &domain.GameSubmission{
		Title:         draft.Title,
		TargetSlug:    targetSlug,
		ProposedData:  datatypes.JSON(proposedData),
		Status:        domain.SubmissionStatusPending,
		SubmittedByID: user.ID,
	}
	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementCounters(user.ID, 1, 0, 0); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("user_id", user.ID).Msg("failed to bump submission counter")
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSubmissionLists(ctx)
	}
	s.notifier.SubmissionSubmitted(submission, user.AuditName())

	submission.SubmittedBy = user
	return submission, nil
}

// Review resolves a pending submission. Approval records the decision but
// does not create the game; publication is a separate admin step.
func (s *SubmissionService) Review(ctx context.Context, reviewerID, submissionID uint64, req *domain.ReviewSubmissionRequest) (*domain.GameSubmission, error) {
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

	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if submission.SubmittedByID == reviewer.ID {
		return nil, ErrSelfReview
	}
	if submission.Status != domain.SubmissionStatusPending {
		return nil, common.ErrConflict
	}

	status := domain.SubmissionStatusRejected
	if req.Decision == domain.DecisionApprove {
		status = domain.SubmissionStatusApproved
	}

	now := time.Now()
	if err := s.submissionRepo.Resolve(submission.ID, map[string]interface{}{
		"status":         status,
		"reviewed_by_id": reviewer.ID,
		"review_note":    req.Note,
		"reviewed_at":    now,
	}); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	approvedDelta, rejectedDelta := 1, 0
	if status == domain.SubmissionStatusRejected {
		approvedDelta, rejectedDelta = 0, 1
	}
	if err := s.userRepo.IncrementCounters(submission.SubmittedByID, 0, approvedDelta, rejectedDelta); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("user_id", submission.SubmittedByID).Msg("failed to bump review counters")
	}

	action := domain.AuditSubmissionRejected
	if status == domain.SubmissionStatusApproved {
		action = domain.AuditSubmissionApproved
	}
	s.writeAudit(submission, action, reviewer, req.Note)

	if s.cache != nil {
		_ = s.cache.InvalidateSubmissionLists(ctx)
		_ = s.cache.InvalidateLeaderboard(ctx)
	}

	submission.Status = status
	submission.ReviewedByID = &reviewer.ID
	submission.ReviewNote = req.Note
	submission.ReviewedAt = &now
	submission.ReviewedBy = reviewer
	s.notifier.SubmissionResolved(submission, reviewer.AuditName())

	return submission, nil
}

// appliedField records one field change made by a publish, for the audit
// trail. Old is nil when the publish created the game.
type appliedField struct {
	name     string
	oldValue []byte
	newValue []byte
}

// Publish turns an approved submission into a live catalog entry. Admin
// only; the draft must carry every publish-required field. A submission
// with a target slug merges its fields onto that game and flips it live;
// without one it creates a new entry.
func (s *SubmissionService) Publish(ctx context.Context, adminID, submissionID uint64) (*domain.Game, error) {
	admin, err := s.userRepo.FindByID(adminID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if admin.Role != domain.RoleAdmin || admin.Status != domain.StatusActive {
		return nil, common.ErrForbidden
	}

	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if submission.Status != domain.SubmissionStatusApproved {
		return nil, ErrNotApproved
	}

	draft, err := submission.Draft()
	if err != nil {
		return nil, err
	}
	if missing := draft.MissingRequiredFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingGameFields, strings.Join(missing, ", "))
	}

	// Resolve the publish target before any state changes
	var game *domain.Game
	if submission.TargetSlug != "" {
		game, err = s.gameRepo.FindBySlug(submission.TargetSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrNotFound
			}
			return nil, err
		}
		if game.FeatureEnabled {
			return nil, ErrGameAlreadyLive
		}
	}

	// Win the publish transition first. The loser of a concurrent publish
	// gets a conflict here, before any catalog row exists to orphan.
	now := time.Now()
	if err := s.submissionRepo.MarkPublished(submission.ID, map[string]interface{}{
		"status":          domain.SubmissionStatusPublished,
		"published_by_id": admin.ID,
		"published_at":    now,
	}); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	var applied []appliedField
	if game == nil {
		if game, applied, err = s.createGame(draft); err != nil {
			return nil, err
		}
	} else if applied, err = s.mergeGame(game, draft); err != nil {
		return nil, err
	}

	if err := s.submissionRepo.SetGameID(submission.ID, game.ID); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("submission_id", submission.ID).Msg("failed to link submission to game")
	}

	// One audit row per field applied, in resolution order
	for _, f := range applied {
		entry := &domain.AuditLog{
			Action:        domain.AuditGamePublished,
			GameID:        &game.ID,
			GameTitle:     game.Title,
			Field:         f.name,
			NewValue:      datatypes.JSON(f.newValue),
			SubmissionID:  &submission.ID,
			ChangedByID:   admin.ID,
			ChangedByName: admin.AuditName(),
			ChangedByRole: admin.Role,
			SubmittedByID: &submission.SubmittedByID,
		}
		if f.oldValue != nil {
			entry.OldValue = datatypes.JSON(f.oldValue)
		}
		if err := s.auditRepo.Create(entry); err != nil {
			logger.GetLogger().Error().Err(err).
				Uint64("submission_id", submission.ID).
				Str("field", f.name).
				Msg("failed to write audit entry")
		}
	}

	if s.cache != nil {
		_ = s.cache.InvalidateGame(ctx, game.Slug)
		_ = s.cache.InvalidateSubmissionLists(ctx)
	}
	s.notifier.GamePublished(game, admin.AuditName())

	return game, nil
}

// createGame builds a brand-new catalog row from the draft
func (s *SubmissionService) createGame(draft *domain.GameDraft) (*domain.Game, []appliedField, error) {
	slug, err := s.uniqueSlug(draft.Title)
	if err != nil {
		return nil, nil, err
	}

	game := &domain.Game{
		Slug:              slug,
		Title:             draft.Title,
		Description:       draft.Description,
		ReleaseDate:       draft.ReleaseDate,
		Developer:         draft.Developer,
		Publisher:         draft.Publisher,
		Genres:            domain.StringArray(draft.Genres),
		Platforms:         domain.StringArray(draft.Platforms),
		ActivationType:    draft.ActivationType,
		Status:            domain.GameStatusTesting,
		Instructions:      domain.StringArray(draft.Instructions),
		StoreURL:          draft.StoreURL,
		SupportURL:        draft.SupportURL,
		PlayabilityStatus: domain.PlayabilityPlayable,
		FeatureEnabled:    true,
	}
	if err := s.gameRepo.Create(game); err != nil {
		return nil, nil, err
	}

	var applied []appliedField
	for _, f := range draft.Fields() {
		newJSON, err := json.Marshal(f.Value)
		if err != nil {
			continue
		}
		applied = append(applied, appliedField{name: f.Name, newValue: newJSON})
	}
	return game, applied, nil
}

// mergeGame applies the draft's populated fields onto an existing game and
// flips it live. The diff runs against the game's current state, so the
// draft is the last writer for any field it carries.
func (s *SubmissionService) mergeGame(game *domain.Game, draft *domain.GameDraft) ([]appliedField, error) {
	updates := map[string]interface{}{"feature_enabled": true}
	var applied []appliedField
	for _, f := range draft.Fields() {
		current, known := game.FieldValue(f.Name)
		if !known {
			continue
		}
		oldJSON, err := json.Marshal(current)
		if err != nil {
			return nil, err
		}
		newJSON, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(oldJSON, newJSON) {
			continue
		}
		updates[domain.CorrectionFields[f.Name].Column] = f.Value
		applied = append(applied, appliedField{name: f.Name, oldValue: oldJSON, newValue: newJSON})
	}

	if err := s.gameRepo.UpdateFields(game.ID, updates); err != nil {
		return nil, err
	}

	draft.ApplyTo(game)
	game.FeatureEnabled = true
	return applied, nil
}

// GetByID returns a single submission
func (s *SubmissionService) GetByID(id uint64) (*domain.GameSubmission, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

// SubmissionListResult is a cacheable listing page
type SubmissionListResult struct {
	Items []domain.GameSubmission `json:"items"`
	Total int64                   `json:"total"`
}

// List returns paginated submissions. Pages are cached with a short TTL;
// submits, reviews and publishes drop the cached pages.
func (s *SubmissionService) List(ctx context.Context, page, limit int, filter repository.SubmissionFilter) ([]domain.GameSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("%s%d:%d:%d:%s", cache.PrefixSubmissions,
		page, limit, filter.SubmittedBy, filter.Status)
	if s.cache != nil && s.cache.IsAvailable() {
		var cached SubmissionListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
	}

	submissions, total, err := s.submissionRepo.FindAll(page, limit, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil && s.cache.IsAvailable() {
		_ = s.cache.Set(ctx, cacheKey, &SubmissionListResult{Items: submissions, Total: total}, cache.TTLShort)
	}
	return submissions, total, nil
}

// uniqueSlug derives a URL slug from the title, suffixing on collision
func (s *SubmissionService) uniqueSlug(title string) (string, error) {
	base := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if base == "" {
		base = "game"
	}
	if len(base) > 140 {
		base = base[:140]
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.gameRepo.ExistsBySlug(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *SubmissionService) writeAudit(sub *domain.GameSubmission, action string, reviewer *domain.User, note string) {
	entry := &domain.AuditLog{
		Action:        action,
		GameTitle:     sub.Title,
		SubmissionID:  &sub.ID,
		ChangedByID:   reviewer.ID,
		ChangedByName: reviewer.AuditName(),
		ChangedByRole: reviewer.Role,
		SubmittedByID: &sub.SubmittedByID,
		Note:          note,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		logger.GetLogger().Error().Err(err).Uint64("submission_id", sub.ID).Msg("failed to write audit entry")
	}
}
