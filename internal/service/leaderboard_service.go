package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/pkg/cache"
)

// Leaderboard tuning
const (
	leaderboardMinSubmissions = 5
	leaderboardFetchLimit     = 500
	// Approval rates closer than this are treated as a tie and broken by
	// total contribution volume.
	approvalRateTolerance = 0.01
)

// LeaderboardEntry is one ranked contributor
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           uint64  `json:"user_id"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	SubmissionsCount int     `json:"submissions_count"`
	ApprovedCount    int     `json:"approved_count"`
	RejectedCount    int     `json:"rejected_count"`
	ApprovalRate     float64 `json:"approval_rate"`
}

// LeaderboardService ranks contributors by review outcomes
type LeaderboardService struct {
	userRepo repository.UserRepository
	cache    cache.Service
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(userRepo repository.UserRepository, cacheService cache.Service) *LeaderboardService {
	return &LeaderboardService{userRepo: userRepo, cache: cacheService}
}

// Get returns the top contributors ordered by approval rate. Users within
// the rate tolerance of each other are ordered by submission volume
// instead, so a 10-for-10 contributor does not outrank a 99-for-100 one.
func (s *LeaderboardService) Get(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}

	cacheKey := fmt.Sprintf("%stop:%d", cache.PrefixLeaderboard, limit)
	if s.cache != nil && s.cache.IsAvailable() {
		var cached []LeaderboardEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	users, err := s.userRepo.FindForLeaderboard(leaderboardMinSubmissions, leaderboardFetchLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:           u.ID,
			Name:             u.Name,
			Role:             u.Role,
			SubmissionsCount: u.SubmissionsCount,
			ApprovedCount:    u.ApprovedCount,
			RejectedCount:    u.RejectedCount,
			ApprovalRate:     approvalRate(&u),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].ApprovalRate - entries[j].ApprovalRate
		if di > approvalRateTolerance {
			return true
		}
		if di < -approvalRateTolerance {
			return false
		}
		return entries[i].SubmissionsCount > entries[j].SubmissionsCount
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.cache != nil && s.cache.IsAvailable() {
		_ = s.cache.Set(ctx, cacheKey, entries, cache.TTLLeaderboard)
	}
	return entries, nil
}

// approvalRate is approved over resolved contributions. Unresolved
// submissions do not count against anyone.
func approvalRate(u *domain.User) float64 {
	resolved := u.ApprovedCount + u.RejectedCount
	if resolved == 0 {
		return 0
	}
	return float64(u.ApprovedCount) / float64(resolved)
}
