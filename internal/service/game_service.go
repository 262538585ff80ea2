package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/cache"
	"gorm.io/gorm"
)

// GameService handles catalog read operations
type GameService struct {
	gameRepo repository.GameRepository
	cache    cache.Service
}

// NewGameService creates a new GameService
func NewGameService(gameRepo repository.GameRepository, cacheService cache.Service) *GameService {
	return &GameService{gameRepo: gameRepo, cache: cacheService}
}

// GameListResult is a cacheable listing page
type GameListResult struct {
	Items []domain.GameListItem `json:"items"`
	Total int64                 `json:"total"`
}

// List returns the public catalog. Only feature-enabled games are visible;
// pages are cached briefly since the catalog changes through reviews only.
func (s *GameService) List(ctx context.Context, page, limit int, filter repository.GameFilter) (*GameListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filter.EnabledOnly = true

	cacheKey := fmt.Sprintf("%s%d:%d:%s:%s:%s", cache.PrefixGames, page, limit,
		filter.Status, filter.Playability, filter.Search)
	if s.cache != nil && s.cache.IsAvailable() {
		var cached GameListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	games, total, err := s.gameRepo.FindAll(page, limit, filter)
	if err != nil {
		return nil, err
	}

	items := make([]domain.GameListItem, len(games))
	for i := range games {
		items[i] = games[i].ToListItem()
	}
	result := &GameListResult{Items: items, Total: total}

	if s.cache != nil && s.cache.IsAvailable() {
		_ = s.cache.Set(ctx, cacheKey, result, cache.TTLGames)
	}
	return result, nil
}

// GetBySlug returns a single catalog entry
func (s *GameService) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	cacheKey := cache.PrefixGame + slug
	if s.cache != nil && s.cache.IsAvailable() {
		var cached domain.Game
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	game, err := s.gameRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if !game.FeatureEnabled {
		return nil, common.ErrNotFound
	}

	if s.cache != nil && s.cache.IsAvailable() {
		_ = s.cache.Set(ctx, cacheKey, game, cache.TTLGames)
	}
	return game, nil
}
