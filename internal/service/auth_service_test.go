package service

import (
	"testing"
	"time"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret-key-for-testing-only-32b!", 15*time.Minute, 24*time.Hour)
}

func TestExchangeSession_CreatesUserOnFirstSignIn(t *testing.T) {
	userRepo := new(mockUserRepo)
	bannedRepo := new(mockBannedRepo)
	svc := NewAuthService(userRepo, bannedRepo, newTestJWTManager())

	userRepo.On("FindByProviderIdentity", "github", "gh-123").Return(nil, gorm.ErrRecordNotFound)
	bannedRepo.On("IsBanned", "github").Return(false, nil)
	userRepo.On("Create", mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.User).ID = 42
	}).Return(nil)

	result, err := svc.ExchangeSession(&SessionRequest{
		Provider:          "GitHub",
		ProviderAccountID: "gh-123",
		Email:             "jamie@example.com",
		Name:              "Jamie",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, domain.RoleUser, result.User.Role)
	assert.Equal(t, domain.StatusActive, result.User.Status)
	userRepo.AssertExpectations(t)
}

func TestExchangeSession_BannedProviderRefused(t *testing.T) {
	userRepo := new(mockUserRepo)
	bannedRepo := new(mockBannedRepo)
	svc := NewAuthService(userRepo, bannedRepo, newTestJWTManager())

	userRepo.On("FindByProviderIdentity", "spamlogin", "acct-1").Return(nil, gorm.ErrRecordNotFound)
	bannedRepo.On("IsBanned", "spamlogin").Return(true, nil)

	_, err := svc.ExchangeSession(&SessionRequest{
		Provider:          "spamlogin",
		ProviderAccountID: "acct-1",
		Email:             "a@b.com",
		Name:              "A",
	})

	assert.ErrorIs(t, err, ErrProviderBanned)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestExchangeSession_BanDoesNotAffectExistingUser(t *testing.T) {
	userRepo := new(mockUserRepo)
	bannedRepo := new(mockBannedRepo)
	svc := NewAuthService(userRepo, bannedRepo, newTestJWTManager())

	existing := activeUser(1)
	existing.Provider = "spamlogin"
	userRepo.On("FindByProviderIdentity", "spamlogin", "acct-1").Return(existing, nil)

	result, err := svc.ExchangeSession(&SessionRequest{
		Provider:          "spamlogin",
		ProviderAccountID: "acct-1",
		Email:             "a@b.com",
		Name:              "A",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	// The ban check only guards account creation
	bannedRepo.AssertNotCalled(t, "IsBanned", mock.Anything)
}

func TestExchangeSession_BlockedAccountRefused(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewAuthService(userRepo, new(mockBannedRepo), newTestJWTManager())

	blocked := activeUser(1)
	blocked.Status = domain.StatusBlocked
	userRepo.On("FindByProviderIdentity", "github", "gh-123").Return(blocked, nil)

	_, err := svc.ExchangeSession(&SessionRequest{
		Provider:          "github",
		ProviderAccountID: "gh-123",
		Email:             "a@b.com",
		Name:              "A",
	})

	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestExchangeSession_LapsedSuspensionCleared(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewAuthService(userRepo, new(mockBannedRepo), newTestJWTManager())

	past := time.Now().Add(-time.Hour)
	suspended := activeUser(1)
	suspended.Status = domain.StatusSuspended
	suspended.SuspendedUntil = &past
	userRepo.On("FindByProviderIdentity", "github", "gh-123").Return(suspended, nil)
	userRepo.On("UpdateFields", uint64(1), map[string]interface{}{
		"status":          domain.StatusActive,
		"suspended_until": nil,
	}).Return(nil)

	result, err := svc.ExchangeSession(&SessionRequest{
		Provider:          "github",
		ProviderAccountID: "gh-123",
		Email:             "a@b.com",
		Name:              "A",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusActive, result.User.Status)
	userRepo.AssertExpectations(t)
}

func TestRefresh_ReloadsRoleFromStore(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtMgr := newTestJWTManager()
	svc := NewAuthService(userRepo, new(mockBannedRepo), jwtMgr)

	// Token was minted while the user was a reviewer
	refreshToken, err := jwtMgr.GenerateRefreshToken("1", "Jamie", domain.RoleReviewer)
	assert.NoError(t, err)

	// The role has since been revoked
	demoted := activeUser(1)
	userRepo.On("FindByID", uint64(1)).Return(demoted, nil)

	result, err := svc.Refresh(refreshToken)

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, result.User.Role)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), new(mockBannedRepo), newTestJWTManager())

	_, err := svc.Refresh("not-a-token")

	assert.Error(t, err)
}
