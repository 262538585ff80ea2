package service

import (
	"context"
	"time"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id uint64) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByProviderIdentity(provider, providerAccountID string) (*domain.User, error) {
	args := m.Called(provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(page, limit int, role, status, search string) ([]domain.User, int64, error) {
	args := m.Called(page, limit, role, status, search)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) FindForLeaderboard(minSubmissions, limit int) ([]domain.User, error) {
	args := m.Called(minSubmissions, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) UpdateFields(id uint64, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *mockUserRepo) IncrementCounters(id uint64, submissions, approved, rejected int) error {
	return m.Called(id, submissions, approved, rejected).Error(0)
}

// --- Mock GameRepository ---

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) FindByID(id uint64) (*domain.Game, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *mockGameRepo) FindBySlug(slug string) (*domain.Game, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *mockGameRepo) FindAll(page, limit int, filter repository.GameFilter) ([]domain.Game, int64, error) {
	args := m.Called(page, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Game), args.Get(1).(int64), args.Error(2)
}

func (m *mockGameRepo) ExistsBySlug(slug string) (bool, error) {
	args := m.Called(slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockGameRepo) Create(game *domain.Game) error {
	return m.Called(game).Error(0)
}

func (m *mockGameRepo) UpdateField(id uint64, column string, value interface{}) error {
	return m.Called(id, column, value).Error(0)
}

func (m *mockGameRepo) UpdateFields(id uint64, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

// --- Mock CorrectionRepository ---

type mockCorrectionRepo struct {
	mock.Mock
}

func (m *mockCorrectionRepo) Create(correction *domain.Correction) error {
	return m.Called(correction).Error(0)
}

func (m *mockCorrectionRepo) FindByID(id uint64) (*domain.Correction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Correction), args.Error(1)
}

func (m *mockCorrectionRepo) FindAll(page, limit int, filter repository.CorrectionFilter) ([]domain.Correction, int64, error) {
	args := m.Called(page, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Correction), args.Get(1).(int64), args.Error(2)
}

func (m *mockCorrectionRepo) HasPendingForField(gameID uint64, field string) (bool, error) {
	args := m.Called(gameID, field)
	return args.Bool(0), args.Error(1)
}

func (m *mockCorrectionRepo) CountPendingByGame(gameID uint64) (int64, error) {
	args := m.Called(gameID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCorrectionRepo) Resolve(id uint64, updates map[string]interface{}) error {
	return m.Called(id, updates).Error(0)
}

// --- Mock SubmissionRepository ---

type mockSubmissionRepo struct {
	mock.Mock
}

func (m *mockSubmissionRepo) Create(submission *domain.GameSubmission) error {
	return m.Called(submission).Error(0)
}

func (m *mockSubmissionRepo) FindByID(id uint64) (*domain.GameSubmission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSubmission), args.Error(1)
}

func (m *mockSubmissionRepo) FindAll(page, limit int, filter repository.SubmissionFilter) ([]domain.GameSubmission, int64, error) {
	args := m.Called(page, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.GameSubmission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) FindPendingByUserAndTitle(userID uint64, title string) (*domain.GameSubmission, error) {
	args := m.Called(userID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSubmission), args.Error(1)
}

func (m *mockSubmissionRepo) Resolve(id uint64, updates map[string]interface{}) error {
	return m.Called(id, updates).Error(0)
}

func (m *mockSubmissionRepo) MarkPublished(id uint64, updates map[string]interface{}) error {
	return m.Called(id, updates).Error(0)
}

func (m *mockSubmissionRepo) SetGameID(id, gameID uint64) error {
	return m.Called(id, gameID).Error(0)
}

// --- Mock AuditLogRepository ---

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(entry *domain.AuditLog) error {
	return m.Called(entry).Error(0)
}

func (m *mockAuditRepo) FindAll(page, limit int, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error) {
	args := m.Called(page, limit, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditRepo) FindByGame(gameID uint64, page, limit int) ([]domain.AuditLog, int64, error) {
	args := m.Called(gameID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLog), args.Get(1).(int64), args.Error(2)
}

// --- Mock ModerationRepository ---

type mockModerationRepo struct {
	mock.Mock
}

func (m *mockModerationRepo) Create(action *domain.ModerationAction) error {
	return m.Called(action).Error(0)
}

func (m *mockModerationRepo) FindByTarget(targetUserID uint64, page, limit int) ([]domain.ModerationAction, int64, error) {
	args := m.Called(targetUserID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.ModerationAction), args.Get(1).(int64), args.Error(2)
}

// --- Mock ReviewerApplicationRepository ---

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(application *domain.ReviewerApplication) error {
	return m.Called(application).Error(0)
}

func (m *mockApplicationRepo) FindByID(id uint64) (*domain.ReviewerApplication, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewerApplication), args.Error(1)
}

func (m *mockApplicationRepo) FindAll(page, limit int, status string) ([]domain.ReviewerApplication, int64, error) {
	args := m.Called(page, limit, status)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.ReviewerApplication), args.Get(1).(int64), args.Error(2)
}

func (m *mockApplicationRepo) HasPendingByUser(userID uint64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplicationRepo) Resolve(id uint64, updates map[string]interface{}) error {
	return m.Called(id, updates).Error(0)
}

// --- Mock cache service ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func (m *mockCache) InvalidateGame(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *mockCache) InvalidateLeaderboard(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) InvalidateCorrectionLists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) InvalidateSubmissionLists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) IsAvailable() bool {
	return m.Called().Bool(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock BannedProviderRepository ---

type mockBannedRepo struct {
	mock.Mock
}

func (m *mockBannedRepo) Create(ban *domain.BannedProvider) error {
	return m.Called(ban).Error(0)
}

func (m *mockBannedRepo) Delete(provider string) error {
	return m.Called(provider).Error(0)
}

func (m *mockBannedRepo) FindAll() ([]domain.BannedProvider, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BannedProvider), args.Error(1)
}

func (m *mockBannedRepo) IsBanned(provider string) (bool, error) {
	args := m.Called(provider)
	return args.Bool(0), args.Error(1)
}
