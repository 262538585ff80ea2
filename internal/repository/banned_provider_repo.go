package repository

import (
	"errors"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"gorm.io/gorm"
)

// BannedProviderRepository banned identity provider access interface
type BannedProviderRepository interface {
	Create(ban *domain.BannedProvider) error
	Delete(provider string) error
	FindAll() ([]domain.BannedProvider, error)
	IsBanned(provider string) (bool, error)
}

type bannedProviderRepository struct {
	db *gorm.DB
}

// NewBannedProviderRepository creates a new BannedProviderRepository
func NewBannedProviderRepository(db *gorm.DB) BannedProviderRepository {
	return &bannedProviderRepository{db: db}
}

// Create bans a provider
func (r *bannedProviderRepository) Create(ban *domain.BannedProvider) error {
	return r.db.Create(ban).Error
}

// Delete lifts a provider ban
func (r *bannedProviderRepository) Delete(provider string) error {
	result := r.db.Where("provider = ?", provider).Delete(&domain.BannedProvider{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll lists all banned providers
func (r *bannedProviderRepository) FindAll() ([]domain.BannedProvider, error) {
	var bans []domain.BannedProvider
	if err := r.db.Order("created_at DESC").Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}

// IsBanned reports whether the provider is banned
func (r *bannedProviderRepository) IsBanned(provider string) (bool, error) {
	var ban domain.BannedProvider
	err := r.db.Where("provider = ?", provider).First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
