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

// AdminHandler handles user moderation and admin console requests
type AdminHandler struct {
	userService       *service.UserService
	moderationService *service.ModerationService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userService *service.UserService, moderationService *service.ModerationService) *AdminHandler {
	return &AdminHandler{userService: userService, moderationService: moderationService}
}

func parseUserID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID", nil)
		return 0, false
	}
	return id, true
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        role    query  string  false  "Role filter"
// @Param        status  query  string  false  "Status filter"
// @Param        search  query  string  false  "Name or email search"
// @Success      200  {object}  common.APIResponse{data=[]domain.UserResponse}
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := h.userService.ListUsers(page, limit,
		c.Query("role"), c.Query("status"), c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	items := make([]*domain.UserResponse, len(users))
	for i := range users {
		items[i] = users[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}

// UpdateRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                       true  "User ID"
// @Param        request  body  domain.UpdateRoleRequest  true  "New role and reason"
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.moderationService.UpdateRole(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	common.SuccessResponse(c, user.ToResponse())
}

// UpdateStatus godoc
// @Summary      Change a user's account status
// @Description  Blocking also strips any elevated role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                         true  "User ID"
// @Param        request  body  domain.UpdateStatusRequest  true  "New status and reason"
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/users/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.moderationService.UpdateStatus(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}
	common.SuccessResponse(c, user.ToResponse())
}

// RestoreUser godoc
// @Summary      Restore a soft-deleted account
// @Description  After the grace period only developer accounts may restore, with an explicit override
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                        true  "User ID"
// @Param        request  body  domain.RestoreUserRequest  true  "Reason and optional override"
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/users/{id}/restore [post]
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req domain.RestoreUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.moderationService.Restore(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to restore user")
		return
	}
	common.SuccessResponse(c, user.ToResponse())
}

// ModerationHistory godoc
// @Summary      Get a user's moderation history
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   int  true   "User ID"
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Items per page"
// @Success      200  {object}  common.APIResponse{data=[]domain.ModerationActionResponse}
// @Router       /admin/users/{id}/moderation [get]
func (h *AdminHandler) ModerationHistory(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	actions, total, err := h.moderationService.History(id, page, limit)
	if err != nil {
		respondError(c, err, "Failed to load moderation history")
		return
	}

	items := make([]*domain.ModerationActionResponse, len(actions))
	for i := range actions {
		items[i] = actions[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}

// ListApplications godoc
// @Summary      List reviewer applications
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  common.APIResponse{data=[]domain.ReviewerApplicationResponse}
// @Router       /admin/reviewer-applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	applications, total, err := h.moderationService.ListApplications(page, limit, c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}

	items := make([]*domain.ReviewerApplicationResponse, len(applications))
	for i := range applications {
		items[i] = applications[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}

// ReviewApplication godoc
// @Summary      Review a reviewer application
// @Description  Approval promotes the applicant to reviewer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                              true  "Application ID"
// @Param        request  body  domain.ReviewApplicationRequest  true  "Decision"
// @Success      200  {object}  common.APIResponse{data=domain.ReviewerApplicationResponse}
// @Failure      409  {object}  common.APIResponse
// @Router       /admin/reviewer-applications/{id}/review [post]
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid application ID", nil)
		return
	}
	var req domain.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	application, err := h.moderationService.ReviewApplication(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to review application")
		return
	}
	common.SuccessResponse(c, application.ToResponse())
}

// ListBannedProviders godoc
// @Summary      List banned identity providers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]domain.BannedProvider}
// @Router       /admin/banned-providers [get]
func (h *AdminHandler) ListBannedProviders(c *gin.Context) {
	bans, err := h.moderationService.ListBannedProviders(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to list banned providers")
		return
	}
	common.SuccessResponse(c, bans)
}

// BanProvider godoc
// @Summary      Ban an identity provider
// @Description  First-time sign-ins through a banned provider are refused
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.BanProviderRequest  true  "Provider and reason"
// @Success      201  {object}  common.APIResponse{data=domain.BannedProvider}
// @Failure      409  {object}  common.APIResponse
// @Router       /admin/banned-providers [post]
func (h *AdminHandler) BanProvider(c *gin.Context) {
	var req domain.BanProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ban, err := h.moderationService.BanProvider(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to ban provider")
		return
	}
	common.CreatedResponse(c, ban)
}

// UnbanProvider godoc
// @Summary      Lift a provider ban
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path  string  true  "Provider name"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /admin/banned-providers/{provider} [delete]
func (h *AdminHandler) UnbanProvider(c *gin.Context) {
	if err := h.moderationService.UnbanProvider(middleware.GetUserID(c), c.Param("provider")); err != nil {
		respondError(c, err, "Failed to unban provider")
		return
	}
	common.SuccessResponse(c, gin.H{"unbanned": true})
}
