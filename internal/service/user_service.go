package service

import (
	"errors"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"gorm.io/gorm"
)

// UserService handles profile and settings operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns a user's public profile. Deleted accounts stay
// visible under their anonymized name so authored records keep a target.
// Hidden statistics are still shown when the viewer is the profile owner.
func (s *UserService) GetProfile(id, viewerID uint64) (*domain.UserProfileResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	resp := user.ToProfileResponse()
	if viewerID == user.ID && !user.ShowStatistics {
		resp.SubmissionsCount = user.SubmissionsCount
		resp.ApprovedCount = user.ApprovedCount
		resp.RejectedCount = user.RejectedCount
	}
	return resp, nil
}

// UpdateSettings updates the caller's own preferences
func (s *UserService) UpdateSettings(userID uint64, req *domain.UpdateSettingsRequest) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.ShowStatistics != nil {
		fields["show_statistics"] = *req.ShowStatistics
		user.ShowStatistics = *req.ShowStatistics
	}
	if req.Notifications != nil {
		fields["notifications"] = *req.Notifications
		user.Notifications = *req.Notifications
	}
	if req.Theme != nil {
		switch *req.Theme {
		case "light", "dark", "system":
		default:
			return nil, common.ErrInvalidInput
		}
		fields["theme"] = *req.Theme
		user.Theme = *req.Theme
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns paginated users for the admin console
func (s *UserService) ListUsers(page, limit int, role, status, search string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.userRepo.FindAll(page, limit, role, status, search)
}
