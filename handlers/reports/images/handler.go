package images

import (
	"net/http"

	"uroreport-backend/cache"
	"uroreport-backend/db"
	"uroreport-backend/models"
	"uroreport-backend/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Upload phase-graph images
// @Description Upload one or more phase-graph images for a report. A first upload on a PENDING report advances it to NEEDS_REVIEW; the returned status is authoritative.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Report ID"
// @Param images formData file true "Image files (JPEG, PNG or WebP, max 5MB each)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "images, status"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /reports/upload/{id} [post]
func UploadReportImages(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")

	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image file is required"})
		return
	}

	// Tout le lot est validé avant le moindre upload
	for _, file := range files {
		if msg := utils.ValidateImageFile(file); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	for _, file := range files {
		url, publicID, err := utils.UploadReportImage(file)
		if err != nil {
			utils.LogErrorWithReport(report.ID, err, "Error uploading a report image")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading image: " + err.Error()})
			return
		}

		image := models.ReportImage{
			ReportID: report.ID,
			URL:      url,
			PublicID: publicID,
		}
		if err := db.DB.Create(&image).Error; err != nil {
			utils.LogErrorWithReport(report.ID, err, "Error saving a report image")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving image: " + err.Error()})
			return
		}
	}

	// Première image sur un rapport en attente : il passe en relecture
	newStatus := models.ParseReportStatus(string(report.Status))
	if newStatus == models.StatusPending {
		newStatus = models.StatusNeedsReview
		if err := db.DB.Model(&report).Update("status", newStatus).Error; err != nil {
			utils.LogErrorWithReport(report.ID, err, "Error advancing the report status after upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating status: " + err.Error()})
			return
		}
	}

	images, err := listReportImages(report.ID)
	if err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error reloading report images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving images: " + err.Error()})
		return
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report images uploaded")

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"status": newStatus,
	})
}

// @Summary Delete a phase-graph image
// @Description Delete one image by public ID. Removing the last image rolls a NEEDS_REVIEW report back to PENDING; the returned status is authoritative.
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Param publicId path string true "Image public ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "images, status"
// @Failure 404 {object} map[string]string "error: Image not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /reports/images/{id}/{publicId} [delete]
func DeleteReportImage(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")
	publicID := c.Param("publicId")

	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	var image models.ReportImage
	if err := db.DB.Where("report_id = ? AND public_id = ?", report.ID, publicID).First(&image).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	if err := utils.DeleteReportImage(publicID); err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error deleting the image from Cloudinary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting image: " + err.Error()})
		return
	}

	if err := db.DB.Delete(&image).Error; err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error deleting the image record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting image: " + err.Error()})
		return
	}

	images, err := listReportImages(report.ID)
	if err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error reloading report images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving images: " + err.Error()})
		return
	}

	// Plus d'image sur un rapport en relecture : retour en attente
	newStatus := models.ParseReportStatus(string(report.Status))
	if len(images) == 0 && newStatus == models.StatusNeedsReview {
		newStatus = models.StatusPending
		if err := db.DB.Model(&report).Update("status", newStatus).Error; err != nil {
			utils.LogErrorWithReport(report.ID, err, "Error rolling back the report status after delete")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating status: " + err.Error()})
			return
		}
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report image deleted")

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"status": newStatus,
	})
}

func listReportImages(reportID string) ([]models.ReportImage, error) {
	images := []models.ReportImage{}
	err := db.DB.Where("report_id = ?", reportID).Order("created_at ASC").Find(&images).Error
	return images, err
}
