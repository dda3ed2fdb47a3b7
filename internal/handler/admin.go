package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"travella/internal/logger"
	"travella/internal/repository"
	"travella/internal/service"
)

// AdminHandler handles content reloads and query log inspection
type AdminHandler struct {
	predictService *service.PredictService
	defaultLimit   int
	maxLimit       int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(predictService *service.PredictService, defaultLimit, maxLimit int) *AdminHandler {
	return &AdminHandler{
		predictService: predictService,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
	}
}

// Reload handles POST /api/v1/admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	response, err := h.predictService.Reload()
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("content reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Queries handles GET /api/v1/admin/queries
func (h *AdminHandler) Queries(c *gin.Context) {
	limit := h.limit(c)

	records, err := h.predictService.RecentQueries(c.Request.Context(), limit)
	if err != nil {
		h.queryLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": records, "count": len(records)})
}

// Similar handles GET /api/v1/admin/queries/:id/similar
func (h *AdminHandler) Similar(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query ID"})
		return
	}
	limit := h.limit(c)

	records, err := h.predictService.SimilarQueries(c.Request.Context(), id, limit)
	if err != nil {
		h.queryLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": records, "count": len(records)})
}

// limit reads ?limit=, capped to maxLimit
func (h *AdminHandler) limit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit
}

func (h *AdminHandler) queryLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQueryLogDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Query log is disabled"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Query not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read query log: " + err.Error()})
	}
}
