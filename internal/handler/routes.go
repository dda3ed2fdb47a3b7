package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API on group
func RegisterRoutes(api *gin.RouterGroup, predict *PredictHandler, feedback *FeedbackHandler, admin *AdminHandler, plan *PlanHandler) {
	// Query endpoints
	api.POST("/predict", predict.Predict)
	api.POST("/predict/stream", predict.PredictStream)
	api.POST("/suggest", predict.Suggest)
	api.GET("/intents", predict.Intents)

	// Plans
	api.POST("/plan", plan.Plan)
	api.POST("/plan/pdf", plan.PlanPDF)

	// Feedback endpoint
	api.POST("/feedback", feedback.Submit)

	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/reload", admin.Reload)
		adminGroup.GET("/queries", admin.Queries)
		adminGroup.GET("/queries/:id/similar", admin.Similar)
	}
}
