package handler

import (
	"strconv"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// LeaderboardHandler handles contributor ranking requests
type LeaderboardHandler struct {
	service *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(service *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Get godoc
// @Summary      Get the contributor leaderboard
// @Description  Ranked by approval rate; near-ties break on contribution volume
// @Tags         leaderboard
// @Produce      json
// @Param        limit  query  int  false  "Number of entries (default 25)"
// @Success      200  {object}  common.APIResponse{data=[]service.LeaderboardEntry}
// @Router       /leaderboard [get]
func (h *LeaderboardHandler) Get(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	entries, err := h.service.Get(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to load leaderboard")
		return
	}
	common.SuccessResponse(c, entries)
}
