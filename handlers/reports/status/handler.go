package status

import (
	"net/http"
	"time"

	"uroreport-backend/cache"
	"uroreport-backend/db"
	"uroreport-backend/models"
	"uroreport-backend/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Change a report's verification status
// @Description Apply one workflow transition. The stored status is normalized to PENDING when unrecognized; the returned status is authoritative.
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param status body models.ReportStatusUpdate true "Target status"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "status, verifiedAt"
// @Failure 400 {object} map[string]string "error: Invalid transition"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /reports/status/{id} [patch]
func UpdateReportStatus(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")

	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	var input models.ReportStatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	target := models.ReportStatusType(input.Status)
	if !target.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value: " + input.Status})
		return
	}

	current := models.ParseReportStatus(string(report.Status))
	if target == current {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report is already in status " + string(current)})
		return
	}
	if !models.CanTransition(current, target) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Transition from " + string(current) + " to " + string(target) + " is not allowed",
		})
		return
	}

	// verified_at vit et meurt avec le statut VERIFIED
	var verifiedAt *time.Time
	if target == models.StatusVerified {
		now := time.Now()
		verifiedAt = &now
	}

	updates := map[string]interface{}{
		"status":      target,
		"verified_at": verifiedAt,
	}
	if err := db.DB.Model(&report).Updates(updates).Error; err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error updating the report status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating status: " + err.Error()})
		return
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report status changed to "+string(target))

	c.JSON(http.StatusOK, gin.H{
		"status":     target,
		"verifiedAt": verifiedAt,
	})
}
