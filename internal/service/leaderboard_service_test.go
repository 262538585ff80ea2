package service

import (
	"context"
	"testing"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func contributor(id uint64, name string, submissions, approved, rejected int) domain.User {
	return domain.User{
		ID:               id,
		Name:             name,
		Role:             domain.RoleUser,
		Status:           domain.StatusActive,
		SubmissionsCount: submissions,
		ApprovedCount:    approved,
		RejectedCount:    rejected,
	}
}

func TestLeaderboard_OrderedByApprovalRate(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewLeaderboardService(userRepo, nil)

	userRepo.On("FindForLeaderboard", leaderboardMinSubmissions, leaderboardFetchLimit).Return([]domain.User{
		contributor(1, "half", 20, 10, 10),   // 0.50
		contributor(2, "strong", 20, 18, 2),  // 0.90
		contributor(3, "middle", 20, 14, 6),  // 0.70
	}, nil)

	entries, err := svc.Get(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "strong", entries[0].Name)
	assert.Equal(t, "middle", entries[1].Name)
	assert.Equal(t, "half", entries[2].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboard_NearTieBreaksOnVolume(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewLeaderboardService(userRepo, nil)

	// 99/100 = 0.99 and 10/10 = 1.00 are within the tolerance; the
	// higher-volume contributor must rank first.
	userRepo.On("FindForLeaderboard", leaderboardMinSubmissions, leaderboardFetchLimit).Return([]domain.User{
		contributor(1, "perfect-ten", 10, 10, 0),
		contributor(2, "veteran", 100, 99, 1),
	}, nil)

	entries, err := svc.Get(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, "veteran", entries[0].Name)
	assert.Equal(t, "perfect-ten", entries[1].Name)
}

func TestLeaderboard_UnresolvedCountsForNothing(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewLeaderboardService(userRepo, nil)

	userRepo.On("FindForLeaderboard", leaderboardMinSubmissions, leaderboardFetchLimit).Return([]domain.User{
		contributor(1, "all-pending", 30, 0, 0),
	}, nil)

	entries, err := svc.Get(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, float64(0), entries[0].ApprovalRate)
}

func TestLeaderboard_LimitTruncates(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := NewLeaderboardService(userRepo, nil)

	userRepo.On("FindForLeaderboard", leaderboardMinSubmissions, leaderboardFetchLimit).Return([]domain.User{
		contributor(1, "a", 10, 9, 1),
		contributor(2, "b", 10, 8, 2),
		contributor(3, "c", 10, 7, 3),
	}, nil)

	entries, err := svc.Get(context.Background(), 2)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].Rank)
}
