package handler

import (
	"net/http"
	"strconv"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/internal/middleware"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CorrectionHandler handles field correction requests
type CorrectionHandler struct {
	service *service.CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler
func NewCorrectionHandler(service *service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{service: service}
}

// Submit godoc
// @Summary      Submit a correction for a game field
// @Description  Opens a pending correction; the current field value is snapshotted
// @Tags         corrections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug     path  string                          true  "Game slug"
// @Param        request  body  domain.SubmitCorrectionRequest  true  "Proposed change"
// @Success      201  {object}  common.APIResponse{data=domain.CorrectionResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /games/{slug}/corrections [post]
func (h *CorrectionHandler) Submit(c *gin.Context) {
	var req domain.SubmitCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	correction, err := h.service.Submit(c.Request.Context(), middleware.GetUserID(c), c.Param("slug"), &req)
	if err != nil {
		respondError(c, err, "Failed to submit correction")
		return
	}
	common.CreatedResponse(c, correction.ToResponse())
}

// List godoc
// @Summary      List corrections
// @Tags         corrections
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Items per page"
// @Param        status    query  string  false  "Status filter"
// @Param        game_id   query  int     false  "Game filter"
// @Param        mine      query  bool    false  "Only the caller's corrections"
// @Success      200  {object}  common.APIResponse{data=[]domain.CorrectionResponse}
// @Router       /corrections [get]
func (h *CorrectionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	gameID, _ := strconv.ParseUint(c.Query("game_id"), 10, 64)

	filter := repository.CorrectionFilter{
		GameID: gameID,
		Status: c.Query("status"),
		Field:  c.Query("field"),
	}
	if c.Query("mine") == "true" {
		filter.SubmittedBy = middleware.GetUserID(c)
	}

	corrections, total, err := h.service.List(c.Request.Context(), page, limit, filter)
	if err != nil {
		respondError(c, err, "Failed to list corrections")
		return
	}

	items := make([]*domain.CorrectionResponse, len(corrections))
	for i := range corrections {
		items[i] = corrections[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}

// Get godoc
// @Summary      Get a correction
// @Tags         corrections
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Correction ID"
// @Success      200  {object}  common.APIResponse{data=domain.CorrectionResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /corrections/{id} [get]
func (h *CorrectionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid correction ID", nil)
		return
	}

	correction, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err, "Failed to load correction")
		return
	}
	common.SuccessResponse(c, correction.ToResponse())
}

// Review godoc
// @Summary      Review a pending correction
// @Description  Approve, reject or modify; exactly one reviewer wins a race
// @Tags         corrections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                             true  "Correction ID"
// @Param        request  body  domain.ReviewCorrectionRequest  true  "Review decision"
// @Success      200  {object}  common.APIResponse{data=domain.CorrectionResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /corrections/{id}/review [post]
func (h *CorrectionHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid correction ID", nil)
		return
	}

	var req domain.ReviewCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	correction, err := h.service.Review(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to review correction")
		return
	}

	middleware.CountReviewDecision("correction", correction.Status)
	common.SuccessResponse(c, correction.ToResponse())
}
