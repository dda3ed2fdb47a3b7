package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travella/internal/model"
	"travella/internal/repository"
	"travella/internal/service"
)

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	predictService *service.PredictService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(predictService *service.PredictService) *FeedbackHandler {
	return &FeedbackHandler{
		predictService: predictService,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if _, err := uuid.Parse(req.QueryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query ID"})
		return
	}

	err := h.predictService.Feedback(c.Request.Context(), req.QueryID, req.Intent)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnknownIntent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid intent. Must be one of the model labels or general"})
		return
	case errors.Is(err, service.ErrQueryLogDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Query log is disabled"})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Query not found"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log feedback: " + err.Error()})
		return
	}

	response := model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	}

	c.JSON(http.StatusOK, response)
}
