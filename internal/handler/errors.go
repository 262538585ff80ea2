package handler

import (
	"errors"
	"net/http"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses in one place so
// every handler reports the same way.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrExpiredToken):
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Permission denied", nil)
	case errors.Is(err, service.ErrSelfReview):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrSubmissionNotAllowed):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrSelfModeration):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrRestoreWindowExpired):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrDeveloperRequired):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrAccountBlocked), errors.Is(err, service.ErrAccountDeleted), errors.Is(err, service.ErrProviderBanned):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, common.ErrConflict):
		common.ErrorResponse(c, http.StatusConflict, "Already resolved by another reviewer", nil)
	case errors.Is(err, service.ErrDuplicatePending):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrAlreadyApplied), errors.Is(err, service.ErrAlreadyReviewer),
		errors.Is(err, service.ErrAlreadyDeleted), errors.Is(err, service.ErrGameAlreadyLive):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrNotApproved), errors.Is(err, service.ErrMissingGameFields),
		errors.Is(err, service.ErrModifiedValueRequired), errors.Is(err, service.ErrBlockedPromotion),
		errors.Is(err, service.ErrNotDeleted), errors.Is(err, service.ErrInvalidProvider),
		errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, fallback, err)
	}
}
