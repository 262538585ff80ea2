package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

func newCorrectionService(correctionRepo *mockCorrectionRepo, gameRepo *mockGameRepo, userRepo *mockUserRepo, auditRepo *mockAuditRepo) *CorrectionService {
	return NewCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo, nil, nil)
}

func activeUser(id uint64) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   fmt.Sprintf("user-%d", id),
		Role:   domain.RoleUser,
		Status: domain.StatusActive,
	}
}

func enabledGame() *domain.Game {
	return &domain.Game{
		ID:             7,
		Slug:           "chrono-breaker",
		Title:          "Chrono Breaker",
		Developer:      "Lumen Forge",
		FeatureEnabled: true,
	}
}

func TestCorrectionSubmit_SnapshotsOldValue(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	auditRepo := new(mockAuditRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo)

	game := enabledGame()
	userRepo.On("FindByID", uint64(1)).Return(activeUser(1), nil)
	gameRepo.On("FindBySlug", "chrono-breaker").Return(game, nil)
	correctionRepo.On("HasPendingForField", game.ID, "developer").Return(false, nil)
	correctionRepo.On("Create", mock.AnythingOfType("*domain.Correction")).Return(nil)
	userRepo.On("IncrementCounters", uint64(1), 1, 0, 0).Return(nil)

	correction, err := svc.Submit(context.Background(), 1, "chrono-breaker", &domain.SubmitCorrectionRequest{
		Field:    "developer",
		NewValue: json.RawMessage(`"Lumen Forge Studios"`),
		Reason:   "official studio rename announced",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CorrectionStatusPending, correction.Status)
	assert.JSONEq(t, `"Lumen Forge"`, string(correction.OldValue))
	assert.JSONEq(t, `"Lumen Forge Studios"`, string(correction.NewValue))
	correctionRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCorrectionSubmit_DuplicatePending(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, new(mockAuditRepo))

	game := enabledGame()
	userRepo.On("FindByID", uint64(1)).Return(activeUser(1), nil)
	gameRepo.On("FindBySlug", "chrono-breaker").Return(game, nil)
	correctionRepo.On("HasPendingForField", game.ID, "title").Return(true, nil)

	_, err := svc.Submit(context.Background(), 1, "chrono-breaker", &domain.SubmitCorrectionRequest{
		Field:    "title",
		NewValue: json.RawMessage(`"Chrono Breaker HD"`),
		Reason:   "title updated on the store page",
	})

	assert.ErrorIs(t, err, ErrDuplicatePending)
	correctionRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCorrectionSubmit_RestrictedUser(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(new(mockCorrectionRepo), new(mockGameRepo), userRepo, new(mockAuditRepo))

	restricted := activeUser(1)
	restricted.Status = domain.StatusRestricted
	userRepo.On("FindByID", uint64(1)).Return(restricted, nil)

	_, err := svc.Submit(context.Background(), 1, "chrono-breaker", &domain.SubmitCorrectionRequest{
		Field:    "title",
		NewValue: json.RawMessage(`"Anything"`),
		Reason:   "should never get this far",
	})

	assert.ErrorIs(t, err, ErrSubmissionNotAllowed)
}

func TestCorrectionSubmit_InvalidValue(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, new(mockAuditRepo))

	userRepo.On("FindByID", uint64(1)).Return(activeUser(1), nil)
	gameRepo.On("FindBySlug", "chrono-breaker").Return(enabledGame(), nil)

	_, err := svc.Submit(context.Background(), 1, "chrono-breaker", &domain.SubmitCorrectionRequest{
		Field:    "releaseDate",
		NewValue: json.RawMessage(`"March 14, 2019"`),
		Reason:   "release date is missing on the page",
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	correctionRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCorrectionReview_SelfReview(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(correctionRepo, new(mockGameRepo), userRepo, new(mockAuditRepo))

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(&domain.Correction{
		ID:            10,
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 2,
	}, nil)

	_, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{Decision: domain.DecisionApprove})

	assert.ErrorIs(t, err, ErrSelfReview)
}

func TestCorrectionReview_PlainUserForbidden(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(new(mockCorrectionRepo), new(mockGameRepo), userRepo, new(mockAuditRepo))

	userRepo.On("FindByID", uint64(3)).Return(activeUser(3), nil)

	_, err := svc.Review(context.Background(), 3, 10, &domain.ReviewCorrectionRequest{Decision: domain.DecisionApprove})

	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCorrectionReview_ApproveAppliesValue(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	auditRepo := new(mockAuditRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo)

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	game := enabledGame()
	correction := &domain.Correction{
		ID:            10,
		GameID:        game.ID,
		Field:         "developer",
		OldValue:      datatypes.JSON(`"Lumen Forge"`),
		NewValue:      datatypes.JSON(`"Lumen Forge Studios"`),
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 1,
		Game:          game,
	}

	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(correction, nil)
	correctionRepo.On("Resolve", uint64(10), mock.Anything).Return(nil)
	gameRepo.On("UpdateField", game.ID, "developer", "Lumen Forge Studios").Return(nil)
	userRepo.On("IncrementCounters", uint64(1), 0, 1, 0).Return(nil)
	auditRepo.On("Create", mock.AnythingOfType("*domain.AuditLog")).Return(nil)

	result, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{
		Decision: domain.DecisionApprove,
		Note:     "verified against the publisher site",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CorrectionStatusApproved, result.Status)
	assert.Equal(t, reviewer.ID, *result.ReviewedByID)
	gameRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestCorrectionReview_RejectSkipsCatalog(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	auditRepo := new(mockAuditRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo)

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleAdmin
	correction := &domain.Correction{
		ID:            10,
		GameID:        7,
		Field:         "developer",
		NewValue:      datatypes.JSON(`"Wrong Name"`),
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 1,
	}

	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(correction, nil)
	correctionRepo.On("Resolve", uint64(10), mock.Anything).Return(nil)
	userRepo.On("IncrementCounters", uint64(1), 0, 0, 1).Return(nil)
	auditRepo.On("Create", mock.AnythingOfType("*domain.AuditLog")).Return(nil)

	result, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{
		Decision: domain.DecisionReject,
		Note:     "no source provided",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CorrectionStatusRejected, result.Status)
	gameRepo.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrectionReview_LostRaceIsConflict(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(correctionRepo, new(mockGameRepo), userRepo, new(mockAuditRepo))

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	correction := &domain.Correction{
		ID:            10,
		GameID:        7,
		Field:         "developer",
		NewValue:      datatypes.JSON(`"Lumen Forge Studios"`),
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 1,
	}

	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(correction, nil)
	correctionRepo.On("Resolve", uint64(10), mock.Anything).Return(repository.ErrAlreadyResolved)

	_, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{Decision: domain.DecisionApprove})

	assert.ErrorIs(t, err, common.ErrConflict)
	userRepo.AssertNotCalled(t, "IncrementCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrectionReview_ModifyRequiresValue(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	userRepo := new(mockUserRepo)
	svc := newCorrectionService(correctionRepo, new(mockGameRepo), userRepo, new(mockAuditRepo))

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(&domain.Correction{
		ID:            10,
		Field:         "developer",
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 1,
	}, nil)

	_, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{Decision: domain.DecisionModify})

	assert.ErrorIs(t, err, ErrModifiedValueRequired)
}

func TestCorrectionReview_ModifyAppliesReviewerValue(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	gameRepo := new(mockGameRepo)
	userRepo := new(mockUserRepo)
	auditRepo := new(mockAuditRepo)
	svc := newCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo)

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	correction := &domain.Correction{
		ID:            10,
		GameID:        7,
		Field:         "developer",
		NewValue:      datatypes.JSON(`"Lumen forge studios"`),
		Status:        domain.CorrectionStatusPending,
		SubmittedByID: 1,
	}

	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)
	correctionRepo.On("FindByID", uint64(10)).Return(correction, nil)
	correctionRepo.On("Resolve", uint64(10), mock.Anything).Return(nil)
	gameRepo.On("UpdateField", uint64(7), "developer", "Lumen Forge Studios").Return(nil)
	userRepo.On("IncrementCounters", uint64(1), 0, 1, 0).Return(nil)
	auditRepo.On("Create", mock.AnythingOfType("*domain.AuditLog")).Return(nil)

	result, err := svc.Review(context.Background(), 2, 10, &domain.ReviewCorrectionRequest{
		Decision:      domain.DecisionModify,
		Note:          "fixed capitalization",
		ModifiedValue: json.RawMessage(`"Lumen Forge Studios"`),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CorrectionStatusModified, result.Status)
	assert.JSONEq(t, `"Lumen Forge Studios"`, string(result.AppliedValue))
	gameRepo.AssertExpectations(t)
}

func TestCorrectionList_CachesPages(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	cacheSvc := new(mockCache)
	svc := NewCorrectionService(correctionRepo, new(mockGameRepo), new(mockUserRepo), new(mockAuditRepo), cacheSvc, nil)

	rows := []domain.Correction{{ID: 10, Field: "developer", Status: domain.CorrectionStatusPending}}
	key := cache.PrefixCorrections + "1:20:0:0:pending:"

	cacheSvc.On("IsAvailable").Return(true)
	cacheSvc.On("Get", mock.Anything, key, mock.Anything).Return(redis.Nil)
	correctionRepo.On("FindAll", 1, 20, repository.CorrectionFilter{Status: domain.CorrectionStatusPending}).Return(rows, int64(1), nil)
	cacheSvc.On("Set", mock.Anything, key, mock.Anything, cache.TTLShort).Return(nil)

	got, total, err := svc.List(context.Background(), 1, 20, repository.CorrectionFilter{Status: domain.CorrectionStatusPending})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
	cacheSvc.AssertExpectations(t)
}

func TestCorrectionList_ServesCachedPage(t *testing.T) {
	correctionRepo := new(mockCorrectionRepo)
	cacheSvc := new(mockCache)
	svc := NewCorrectionService(correctionRepo, new(mockGameRepo), new(mockUserRepo), new(mockAuditRepo), cacheSvc, nil)

	cacheSvc.On("IsAvailable").Return(true)
	cacheSvc.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*CorrectionListResult)
			dest.Items = []domain.Correction{{ID: 10, Field: "developer"}}
			dest.Total = 1
		}).
		Return(nil)

	got, total, err := svc.List(context.Background(), 1, 20, repository.CorrectionFilter{})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
	correctionRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}
