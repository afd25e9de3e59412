package routes

import (
	"uroreport-backend/handlers/stats"
	"uroreport-backend/middleware"

	"github.com/gin-gonic/gin"
)

func StatsRoutes(r *gin.Engine) {
	statsRoutes := r.Group("/view/uro_reports")
	statsRoutes.Use(middleware.JWTAuth())
	{
		statsRoutes.GET("/stats/dashboard", stats.GetDashboardStats)
		statsRoutes.GET("/stats/age-distribution", stats.GetAgeDistribution)
		statsRoutes.GET("/stats/gender", stats.GetGenderStats)
		statsRoutes.GET("/stats/flow-metrics", stats.GetFlowMetrics)
		statsRoutes.GET("/diseases/statistics", stats.GetDiseaseStatistics)
	}
}
