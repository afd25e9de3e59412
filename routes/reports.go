package routes

import (
	"uroreport-backend/handlers/reports"
	"uroreport-backend/handlers/reports/images"
	"uroreport-backend/handlers/reports/status"
	"uroreport-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ReportsRoutes(r *gin.Engine) {
	// Lecture : le front liste et consulte librement une fois connecté
	view := r.Group("/view/uro_reports")
	view.Use(middleware.JWTAuth())
	{
		view.GET("/search", reports.SearchReports)
		view.GET("/recent", reports.GetRecentReports)
		view.GET("/statuses", reports.GetStatusMetadata)
		view.GET("/export", reports.ExportReports)
		view.GET("/:id", reports.GetReportByID)

		view.POST("", reports.CreateReport)
		view.PUT("/:id", reports.UpdateReport)
		view.DELETE("/:id", reports.DeleteReport)
	}

	// Mutations hors bande : statut et images
	mutations := r.Group("/reports")
	mutations.Use(middleware.JWTAuth())
	{
		mutations.PATCH("/status/:id", status.UpdateReportStatus)
		mutations.POST("/upload/:id", images.UploadReportImages)
		mutations.DELETE("/images/:id/:publicId", images.DeleteReportImage)
	}
}
