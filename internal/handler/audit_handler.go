package handler

import (
	"strconv"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary      List audit entries
// @Description  Append-only catalog change log, newest first
// @Tags         audit
// @Produce      json
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Param        game_id       query  int     false  "Game filter"
// @Param        user_id       query  int     false  "Acting user filter"
// @Param        submitted_by  query  int     false  "Original submitter filter"
// @Param        action        query  string  false  "Action filter"
// @Success      200  {object}  common.APIResponse{data=[]domain.AuditLogResponse}
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	gameID, _ := strconv.ParseUint(c.Query("game_id"), 10, 64)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	submittedBy, _ := strconv.ParseUint(c.Query("submitted_by"), 10, 64)

	filter := domain.AuditLogFilter{
		GameID:      gameID,
		UserID:      userID,
		SubmittedBy: submittedBy,
		Action:      c.Query("action"),
	}
	entries, total, err := h.service.List(page, limit, filter)
	if err != nil {
		respondError(c, err, "Failed to list audit entries")
		return
	}

	items := make([]*domain.AuditLogResponse, len(entries))
	for i := range entries {
		items[i] = entries[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}
