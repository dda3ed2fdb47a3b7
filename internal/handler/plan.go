package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travella/internal/logger"
	"travella/internal/model"
	"travella/internal/service"
)

// PlanHandler handles trip plan requests
type PlanHandler struct {
	planner *service.Planner
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planner *service.Planner) *PlanHandler {
	return &PlanHandler{planner: planner}
}

// Plan handles POST /api/v1/plan
func (h *PlanHandler) Plan(c *gin.Context) {
	plan, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, plan)
}

// PlanPDF handles POST /api/v1/plan/pdf
func (h *PlanHandler) PlanPDF(c *gin.Context) {
	plan, ok := h.build(c)
	if !ok {
		return
	}

	data, err := service.RenderPDF(plan)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("pdf render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	filename := fmt.Sprintf("travella-%s-%dd.pdf", strings.ReplaceAll(plan.City, " ", "-"), plan.Days)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *PlanHandler) build(c *gin.Context) (*model.Plan, bool) {
	var req model.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}

	plan, err := h.planner.Plan(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build plan: " + err.Error()})
		return nil, false
	}
	return plan, true
}
