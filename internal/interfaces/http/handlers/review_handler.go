package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// ReviewHandler handles the periodic review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewAppService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewAppService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ScheduleReview schedules a reassessment of a risk.
func (h *ReviewHandler) ScheduleReview(c *gin.Context) {
	var req dto.ScheduleReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.reviewService.ScheduleReview(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetReview returns one review.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	result, err := h.reviewService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListPendingReviews returns every review not yet conducted, soonest
// first.
func (h *ReviewHandler) ListPendingReviews(c *gin.Context) {
	result, err := h.reviewService.ListPendingReviews(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListReviewsForRisk returns the review history of one risk.
func (h *ReviewHandler) ListReviewsForRisk(c *gin.Context) {
	result, err := h.reviewService.ListReviewsForRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// CompleteReview marks a review conducted and records its outcome.
func (h *ReviewHandler) CompleteReview(c *gin.Context) {
	var req dto.CompleteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.reviewService.CompleteReview(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// CancelReview removes a scheduled review.
func (h *ReviewHandler) CancelReview(c *gin.Context) {
	if err := h.reviewService.CancelReview(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}
