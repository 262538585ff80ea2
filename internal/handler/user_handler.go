package handler

import (
	"net/http"
	"strconv"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/middleware"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and settings requests
type UserHandler struct {
	service           *service.UserService
	moderationService *service.ModerationService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *service.UserService, moderationService *service.ModerationService) *UserHandler {
	return &UserHandler{service: service, moderationService: moderationService}
}

// GetProfile godoc
// @Summary      Get a public user profile
// @Description  Statistics are hidden when the user disabled them, unless the caller is the owner
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  common.APIResponse{data=domain.UserProfileResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	profile, err := h.service.GetProfile(id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	common.SuccessResponse(c, profile)
}

// UpdateSettings godoc
// @Summary      Update the caller's preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.UpdateSettingsRequest  true  "Settings patch"
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /users/me/settings [patch]
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req domain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.UpdateSettings(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}
	common.SuccessResponse(c, user.ToResponse())
}

// DeleteAccount godoc
// @Summary      Delete the caller's own account
// @Description  Soft delete: the display name is anonymized, authored records stay. Restorable by an admin within 30 days.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.DeleteUserRequest  false  "Optional reason"
// @Success      200  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /users/me [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	var req domain.DeleteUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	if err := h.moderationService.DeleteAccount(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// ApplyReviewer godoc
// @Summary      Apply for the reviewer role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.ApplyReviewerRequest  true  "Motivation"
// @Success      201  {object}  common.APIResponse{data=domain.ReviewerApplicationResponse}
// @Failure      409  {object}  common.APIResponse
// @Router       /users/me/reviewer-application [post]
func (h *UserHandler) ApplyReviewer(c *gin.Context) {
	var req domain.ApplyReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	application, err := h.moderationService.ApplyReviewer(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}
	common.CreatedResponse(c, application.ToResponse())
}
