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

// SubmissionHandler handles new game submission requests
type SubmissionHandler struct {
	service *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(service *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Submit godoc
// @Summary      Propose a new catalog entry
// @Description  A repeated submit for the same title updates the open proposal
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.SubmitGameRequest  true  "Game draft"
// @Success      201  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req domain.SubmitGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to submit game")
		return
	}
	common.CreatedResponse(c, submission.ToResponse())
}

// List godoc
// @Summary      List game submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        status  query  string  false  "Status filter"
// @Param        mine    query  bool    false  "Only the caller's submissions"
// @Success      200  {object}  common.APIResponse{data=[]domain.SubmissionResponse}
// @Router       /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.SubmissionFilter{Status: c.Query("status")}
	if c.Query("mine") == "true" {
		filter.SubmittedBy = middleware.GetUserID(c)
	}

	submissions, total, err := h.service.List(c.Request.Context(), page, limit, filter)
	if err != nil {
		respondError(c, err, "Failed to list submissions")
		return
	}

	items := make([]*domain.SubmissionResponse, len(submissions))
	for i := range submissions {
		items[i] = submissions[i].ToResponse()
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, limit, total))
}

// Get godoc
// @Summary      Get a game submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid submission ID", nil)
		return
	}

	submission, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err, "Failed to load submission")
		return
	}
	common.SuccessResponse(c, submission.ToResponse())
}

// Review godoc
// @Summary      Review a pending submission
// @Description  Approval records the decision; publication is a separate step
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                             true  "Submission ID"
// @Param        request  body  domain.ReviewSubmissionRequest  true  "Review decision"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /submissions/{id}/review [post]
func (h *SubmissionHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid submission ID", nil)
		return
	}

	var req domain.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	submission, err := h.service.Review(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to review submission")
		return
	}

	middleware.CountReviewDecision("submission", submission.Status)
	common.SuccessResponse(c, submission.ToResponse())
}

// Publish godoc
// @Summary      Publish an approved submission
// @Description  Creates the catalog entry, or merges onto the target game when the submission names one; requires title, release date, developer and publisher
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.Game}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /submissions/{id}/publish [post]
func (h *SubmissionHandler) Publish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid submission ID", nil)
		return
	}

	game, err := h.service.Publish(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err, "Failed to publish submission")
		return
	}
	common.SuccessResponse(c, game)
}
