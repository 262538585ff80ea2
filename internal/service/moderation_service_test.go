package service

import (
	"context"
	"testing"
	"time"

	"github.com/gamedex/gamedex-backend/internal/config"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const developerID = uint64(99)

func newModerationService(userRepo *mockUserRepo, moderationRepo *mockModerationRepo, applicationRepo *mockApplicationRepo, bannedRepo *mockBannedRepo) *ModerationService {
	cfg := &config.Config{
		Security: config.SecurityConfig{Developers: []uint64{developerID}},
	}
	return NewModerationService(userRepo, moderationRepo, applicationRepo, bannedRepo, cfg, nil)
}

func adminUser(id uint64) *domain.User {
	admin := activeUser(id)
	admin.Role = domain.RoleAdmin
	return admin
}

func TestUpdateRole_SelfModeration(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)

	_, err := svc.UpdateRole(context.Background(), 9, 9, &domain.UpdateRoleRequest{
		Role: domain.RoleReviewer, Reason: "self promotion attempt",
	})

	assert.ErrorIs(t, err, ErrSelfModeration)
}

func TestUpdateRole_BlockedAccountCannotBePromoted(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	blocked := activeUser(3)
	blocked.Status = domain.StatusBlocked
	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(blocked, nil)

	_, err := svc.UpdateRole(context.Background(), 9, 3, &domain.UpdateRoleRequest{
		Role: domain.RoleReviewer, Reason: "promote",
	})

	assert.ErrorIs(t, err, ErrBlockedPromotion)
	userRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestUpdateRole_AdminTierRequiresDeveloper(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	// Admin 9 is not on the developer allow-list
	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(activeUser(3), nil)

	_, err := svc.UpdateRole(context.Background(), 9, 3, &domain.UpdateRoleRequest{
		Role: domain.RoleAdmin, Reason: "promote to admin",
	})

	assert.ErrorIs(t, err, ErrDeveloperRequired)
	userRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestUpdateRole_DemotingAdminRequiresDeveloper(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(adminUser(3), nil)

	_, err := svc.UpdateRole(context.Background(), 9, 3, &domain.UpdateRoleRequest{
		Role: domain.RoleUser, Reason: "demote",
	})

	assert.ErrorIs(t, err, ErrDeveloperRequired)
}

func TestUpdateRole_DeveloperMayGrantAdmin(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", developerID).Return(adminUser(developerID), nil)
	userRepo.On("FindByID", uint64(3)).Return(activeUser(3), nil)
	userRepo.On("UpdateFields", uint64(3), map[string]interface{}{"role": domain.RoleAdmin}).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	user, err := svc.UpdateRole(context.Background(), developerID, 3, &domain.UpdateRoleRequest{
		Role: domain.RoleAdmin, Reason: "trusted operator",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	userRepo.AssertExpectations(t)
}

func TestUpdateStatus_BlockStripsElevatedRole(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	reviewer := activeUser(3)
	reviewer.Role = domain.RoleReviewer
	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(reviewer, nil)
	userRepo.On("UpdateFields", uint64(3), mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["status"] == domain.StatusBlocked && fields["role"] == domain.RoleUser
	})).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	user, err := svc.UpdateStatus(context.Background(), 9, 3, &domain.UpdateStatusRequest{
		Status: domain.StatusBlocked, Reason: "repeated abuse",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.StatusBlocked, user.Status)
	// One record for the role strip, one for the status change
	moderationRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestDeleteAccount_AnonymizesDisplayName(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	target := activeUser(3)
	target.Name = "Jamie"
	userRepo.On("FindByID", uint64(3)).Return(target, nil)
	userRepo.On("UpdateFields", uint64(3), mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["status"] == domain.StatusDeleted &&
			fields["archived_name"] == "Jamie" &&
			fields["name"] == domain.AnonymizedName(3)
	})).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	err := svc.DeleteAccount(context.Background(), 3, &domain.DeleteUserRequest{Reason: "leaving"})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestDeleteAccount_StripsElevatedRole(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	reviewer := activeUser(3)
	reviewer.Role = domain.RoleReviewer
	userRepo.On("FindByID", uint64(3)).Return(reviewer, nil)
	userRepo.On("UpdateFields", uint64(3), mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["role"] == domain.RoleUser
	})).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	err := svc.DeleteAccount(context.Background(), 3, &domain.DeleteUserRequest{})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestDeleteAccount_AlreadyDeleted(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	target := activeUser(3)
	target.Status = domain.StatusDeleted
	userRepo.On("FindByID", uint64(3)).Return(target, nil)

	err := svc.DeleteAccount(context.Background(), 3, &domain.DeleteUserRequest{Reason: "again"})

	assert.ErrorIs(t, err, ErrAlreadyDeleted)
}

func deletedUser(id uint64, deletedAgo time.Duration) *domain.User {
	deletedAt := time.Now().Add(-deletedAgo)
	return &domain.User{
		ID:           id,
		Name:         domain.AnonymizedName(id),
		ArchivedName: "Jamie",
		Role:         domain.RoleUser,
		Status:       domain.StatusDeleted,
		DeletedAt:    &deletedAt,
	}
}

func TestRestore_WithinGracePeriod(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(deletedUser(3, 24*time.Hour), nil)
	userRepo.On("UpdateFields", uint64(3), mock.Anything).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	user, err := svc.Restore(context.Background(), 9, 3, &domain.RestoreUserRequest{Reason: "mistake"})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
	assert.Equal(t, "Jamie", user.Name)
	assert.Nil(t, user.DeletedAt)
}

func TestRestore_AfterGracePeriodNeedsOverride(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(deletedUser(3, 31*24*time.Hour), nil)

	_, err := svc.Restore(context.Background(), 9, 3, &domain.RestoreUserRequest{Reason: "late"})

	assert.ErrorIs(t, err, ErrRestoreWindowExpired)
}

func TestRestore_OverrideRequiresDeveloper(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	// Admin 9 is not on the developer allow-list
	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	userRepo.On("FindByID", uint64(3)).Return(deletedUser(3, 31*24*time.Hour), nil)

	_, err := svc.Restore(context.Background(), 9, 3, &domain.RestoreUserRequest{
		Reason: "late", AdminOverride: true,
	})

	assert.ErrorIs(t, err, ErrRestoreWindowExpired)
}

func TestRestore_DeveloperOverrideAfterGracePeriod(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	svc := newModerationService(userRepo, moderationRepo, new(mockApplicationRepo), new(mockBannedRepo))

	userRepo.On("FindByID", developerID).Return(adminUser(developerID), nil)
	userRepo.On("FindByID", uint64(3)).Return(deletedUser(3, 31*24*time.Hour), nil)
	userRepo.On("UpdateFields", uint64(3), mock.Anything).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	user, err := svc.Restore(context.Background(), developerID, 3, &domain.RestoreUserRequest{
		Reason: "appeal accepted", AdminOverride: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusActive, user.Status)
}

func TestApplyReviewer_AlreadyPending(t *testing.T) {
	userRepo := new(mockUserRepo)
	applicationRepo := new(mockApplicationRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), applicationRepo, new(mockBannedRepo))

	userRepo.On("FindByID", uint64(1)).Return(activeUser(1), nil)
	applicationRepo.On("HasPendingByUser", uint64(1)).Return(true, nil)

	_, err := svc.ApplyReviewer(1, &domain.ApplyReviewerRequest{
		Motivation: "I have been contributing corrections for a year.",
	})

	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApplyReviewer_AlreadyReviewer(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := newModerationService(userRepo, new(mockModerationRepo), new(mockApplicationRepo), new(mockBannedRepo))

	reviewer := activeUser(2)
	reviewer.Role = domain.RoleReviewer
	userRepo.On("FindByID", uint64(2)).Return(reviewer, nil)

	_, err := svc.ApplyReviewer(2, &domain.ApplyReviewerRequest{
		Motivation: "I would like the role I already hold.",
	})

	assert.ErrorIs(t, err, ErrAlreadyReviewer)
}

func TestReviewApplication_ApprovePromotesApplicant(t *testing.T) {
	userRepo := new(mockUserRepo)
	moderationRepo := new(mockModerationRepo)
	applicationRepo := new(mockApplicationRepo)
	svc := newModerationService(userRepo, moderationRepo, applicationRepo, new(mockBannedRepo))

	applicant := activeUser(1)
	userRepo.On("FindByID", uint64(9)).Return(adminUser(9), nil)
	applicationRepo.On("FindByID", uint64(4)).Return(&domain.ReviewerApplication{
		ID:     4,
		UserID: 1,
		Status: domain.ApplicationStatusPending,
	}, nil)
	applicationRepo.On("Resolve", uint64(4), mock.Anything).Return(nil)
	userRepo.On("FindByID", uint64(1)).Return(applicant, nil)
	userRepo.On("UpdateFields", uint64(1), map[string]interface{}{"role": domain.RoleReviewer}).Return(nil)
	moderationRepo.On("Create", mock.AnythingOfType("*domain.ModerationAction")).Return(nil)

	application, err := svc.ReviewApplication(context.Background(), 9, 4, &domain.ReviewApplicationRequest{
		Decision: domain.DecisionApprove,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, application.Status)
	userRepo.AssertExpectations(t)
}
