package repository

import (
	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// GameFilter narrows catalog listings
type GameFilter struct {
	Status      string
	Playability string
	Search      string
	EnabledOnly bool
}

// GameRepository game catalog data access interface
type GameRepository interface {
	FindByID(id uint64) (*domain.Game, error)
	FindBySlug(slug string) (*domain.Game, error)
	FindAll(page, limit int, filter GameFilter) ([]domain.Game, int64, error)
	ExistsBySlug(slug string) (bool, error)
	Create(game *domain.Game) error
	UpdateField(id uint64, column string, value interface{}) error
	UpdateFields(id uint64, fields map[string]interface{}) error
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// FindByID finds a game by ID
func (r *gameRepository) FindByID(id uint64) (*domain.Game, error) {
	var game domain.Game
	if err := r.db.Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindBySlug finds a game by its slug
func (r *gameRepository) FindBySlug(slug string) (*domain.Game, error) {
	var game domain.Game
	if err := r.db.Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindAll retrieves paginated games with optional filters
func (r *gameRepository) FindAll(page, limit int, filter GameFilter) ([]domain.Game, int64, error) {
	var games []domain.Game
	var total int64

	query := r.db.Model(&domain.Game{})
	if filter.EnabledOnly {
		query = query.Where("feature_enabled = ?", true)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Playability != "" {
		query = query.Where("playability_status = ?", filter.Playability)
	}
	if filter.Search != "" {
		query = query.Where("title LIKE ? OR developer LIKE ? OR publisher LIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&games).Error; err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// ExistsBySlug reports whether a game with the slug exists
func (r *gameRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Game{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Create creates a new game
func (r *gameRepository) Create(game *domain.Game) error {
	return r.db.Create(game).Error
}

// UpdateField updates a single game column
func (r *gameRepository) UpdateField(id uint64, column string, value interface{}) error {
	return r.db.Model(&domain.Game{}).
		Where("id = ?", id).
		Update(column, value).Error
}

// UpdateFields updates selected game columns
func (r *gameRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&domain.Game{}).
		Where("id = ?", id).
		Updates(fields).Error
}
