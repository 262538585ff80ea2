package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	"github.com/gamedex/gamedex-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProviderBanned  = errors.New("sign-ins from this provider are not accepted")
	ErrAccountBlocked  = errors.New("account is blocked")
	ErrAccountDeleted  = errors.New("account has been deleted")
	ErrInvalidProvider = errors.New("invalid provider payload")
)

// SessionRequest exchanges a verified provider identity for a session.
// The upstream OAuth dance happens at the edge; this endpoint only sees
// the already-verified identity.
type SessionRequest struct {
	Provider          string `json:"provider" binding:"required,min=2,max=50"`
	ProviderAccountID string `json:"provider_account_id" binding:"required,max=255"`
	Email             string `json:"email" binding:"required,email"`
	Name              string `json:"name" binding:"required,min=1,max=100"`
}

// SessionResult is an issued session
type SessionResult struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *domain.UserResponse `json:"user"`
}

// AuthService handles identity exchange and session issuance
type AuthService struct {
	userRepo   repository.UserRepository
	bannedRepo repository.BannedProviderRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, bannedRepo repository.BannedProviderRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		bannedRepo: bannedRepo,
		jwtManager: jwtManager,
	}
}

// ExchangeSession signs a user in by provider identity, creating the
// account on first sign-in. Banned providers are refused before any row
// is created.
func (s *AuthService) ExchangeSession(req *SessionRequest) (*SessionResult, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" || req.ProviderAccountID == "" {
		return nil, ErrInvalidProvider
	}

	user, err := s.userRepo.FindByProviderIdentity(provider, req.ProviderAccountID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		banned, err := s.bannedRepo.IsBanned(provider)
		if err != nil {
			return nil, err
		}
		if banned {
			return nil, ErrProviderBanned
		}

		user = &domain.User{
			Name:              req.Name,
			Email:             req.Email,
			Role:              domain.RoleUser,
			Status:            domain.StatusActive,
			Provider:          provider,
			ProviderAccountID: req.ProviderAccountID,
			ShowStatistics:    true,
			Notifications:     true,
			Theme:             "system",
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		logger.GetLogger().Info().
			Uint64("user_id", user.ID).
			Str("provider", provider).
			Msg("new user created on first sign-in")
	}

	if err := s.checkSignIn(user); err != nil {
		return nil, err
	}
	s.lazySuspensionExpiry(user)

	return s.issueSession(user)
}

// Refresh exchanges a valid refresh token for a fresh session. Role and
// status come from the stored row, not the old token.
func (s *AuthService) Refresh(refreshToken string) (*SessionResult, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if err := s.checkSignIn(user); err != nil {
		return nil, err
	}
	s.lazySuspensionExpiry(user)

	return s.issueSession(user)
}

// Me returns the caller's own account
func (s *AuthService) Me(userID uint64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	s.lazySuspensionExpiry(user)
	return user, nil
}

// checkSignIn refuses sessions for blocked and deleted accounts.
// Suspended and restricted accounts may still sign in to read.
func (s *AuthService) checkSignIn(user *domain.User) error {
	switch user.Status {
	case domain.StatusBlocked:
		return ErrAccountBlocked
	case domain.StatusDeleted:
		return ErrAccountDeleted
	}
	return nil
}

func (s *AuthService) issueSession(user *domain.User) (*SessionResult, error) {
	id := strconv.FormatUint(user.ID, 10)
	accessToken, err := s.jwtManager.GenerateToken(id, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(id, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &SessionResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// lazySuspensionExpiry clears a lapsed suspension on read. Kept here so
// every sign-in path heals the row without a background job.
func (s *AuthService) lazySuspensionExpiry(user *domain.User) {
	if user.Status != domain.StatusSuspended || user.IsSuspensionActive(time.Now()) {
		return
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"status":          domain.StatusActive,
		"suspended_until": nil,
	}); err != nil {
		logger.GetLogger().Warn().Err(err).Uint64("user_id", user.ID).Msg("failed to clear expired suspension")
		return
	}
	user.Status = domain.StatusActive
	user.SuspendedUntil = nil
}
