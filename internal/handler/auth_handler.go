package handler

import (
	"net/http"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/middleware"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles session requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// CreateSession godoc
// @Summary      Exchange a provider identity for a session
// @Description  Signs the user in, creating the account on first sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SessionRequest  true  "Verified provider identity"
// @Success      200  {object}  common.APIResponse{data=service.SessionResult}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /auth/session [post]
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req service.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.ExchangeSession(&req)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}
	common.SuccessResponse(c, result)
}

// Refresh godoc
// @Summary      Refresh a session
// @Description  Exchanges a valid refresh token for new tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      object{refresh_token=string}  true  "Refresh token"
// @Success      200  {object}  common.APIResponse{data=service.SessionResult}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh session")
		return
	}
	common.SuccessResponse(c, result)
}

// Me godoc
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	common.SuccessResponse(c, user.ToResponse())
}
