package repository

import (
	"time"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	// Read operations
	FindByID(id uint64) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByProviderIdentity(provider, providerAccountID string) (*domain.User, error)
	FindAll(page, limit int, role, status, search string) ([]domain.User, int64, error)
	FindForLeaderboard(minSubmissions, limit int) ([]domain.User, error)

	// Write operations
	Create(user *domain.User) error
	UpdateFields(id uint64, fields map[string]interface{}) error
	IncrementCounters(id uint64, submissions, approved, rejected int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByProviderIdentity finds a user by identity provider account
func (r *userRepository) FindByProviderIdentity(provider, providerAccountID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll retrieves paginated users with optional role, status and name filters
func (r *userRepository) FindAll(page, limit int, role, status, search string) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	query := r.db.Model(&domain.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FindForLeaderboard retrieves active contributors with at least minSubmissions
// resolved contributions. Users who opted out of public statistics are
// excluded. Final ordering happens in the service, which applies the
// approval rate tolerance rule.
func (r *userRepository) FindForLeaderboard(minSubmissions, limit int) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Where("status = ? AND submissions_count >= ? AND show_statistics = ?",
		domain.StatusActive, minSubmissions, true).
		Order("submissions_count DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates a new user
func (r *userRepository) Create(user *domain.User) error {
	user.CreatedAt = time.Now()
	return r.db.Create(user).Error
}

// UpdateFields updates selected user columns
func (r *userRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// IncrementCounters atomically bumps contribution counters. Deltas may be
// negative; the SQL expression keeps concurrent reviews from losing updates.
func (r *userRepository) IncrementCounters(id uint64, submissions, approved, rejected int) error {
	updates := map[string]interface{}{}
	if submissions != 0 {
		updates["submissions_count"] = gorm.Expr("submissions_count + ?", submissions)
	}
	if approved != 0 {
		updates["approved_count"] = gorm.Expr("approved_count + ?", approved)
	}
	if rejected != 0 {
		updates["rejected_count"] = gorm.Expr("rejected_count + ?", rejected)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
