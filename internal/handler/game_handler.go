package handler

import (
	"strconv"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// GameHandler handles catalog requests
type GameHandler struct {
	service      *service.GameService
	auditService *service.AuditService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(service *service.GameService, auditService *service.AuditService) *GameHandler {
	return &GameHandler{service: service, auditService: auditService}
}

// List godoc
// @Summary      List catalog games
// @Tags         games
// @Produce      json
// @Param        page         query  int     false  "Page number"
// @Param        limit        query  int     false  "Items per page"
// @Param        status       query  string  false  "Support status filter"
// @Param        playability  query  string  false  "Playability filter"
// @Param        search       query  string  false  "Title, developer or publisher search"
// @Success      200  {object}  common.APIResponse{data=[]domain.GameListItem}
// @Router       /games [get]
func (h *GameHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.GameFilter{
		Status:      c.Query("status"),
		Playability: c.Query("playability"),
		Search:      c.Query("search"),
	}
	result, err := h.service.List(c.Request.Context(), page, limit, filter)
	if err != nil {
		respondError(c, err, "Failed to list games")
		return
	}
	common.SuccessWithMeta(c, result.Items, common.NewMeta(page, limit, result.Total))
}

// Get godoc
// @Summary      Get a game by slug
// @Tags         games
// @Produce      json
// @Param        slug  path  string  true  "Game slug"
// @Success      200  {object}  common.APIResponse{data=domain.Game}
// @Failure      404  {object}  common.APIResponse
// @Router       /games/{slug} [get]
func (h *GameHandler) Get(c *gin.Context) {
	game, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to load game")
		return
	}
	common.SuccessResponse(c, game)
}

// History godoc
// @Summary      Get a game's change history
// @Description  Audit entries for the game, newest first
// @Tags         games
// @Produce      json
// @Param        slug   path   string  true   "Game slug"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Items per page"
// @Success      200  {object}  common.APIResponse{data=[]domain.AuditLogResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /games/{slug}/history [get]
func (h *GameHandler) History(c *gin.Context) {
	game, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to load game")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, total, err := h.auditService.ListByGame(game.ID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to load game history")
		return
	}

	items := make([]interface{}, len(entries))
	for i := range entries {
		items[i] = entries[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}
