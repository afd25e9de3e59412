package reports

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"uroreport-backend/cache"
	"uroreport-backend/db"
	"uroreport-backend/models"
	"uroreport-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxExportRows   = 10000
)

// Colonnes de tri autorisées pour la recherche (clé JSON -> colonne SQL)
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"patientName": "patient_name",
	"age":         "age",
	"ipssScore":   "ipss_score",
	"maxFlowRate": "max_flow_rate",
	"status":      "status",
}

// @Summary Create a new urodynamic report
// @Description Create a new urodynamic study report; status starts at PENDING
// @Tags reports
// @Accept json
// @Produce json
// @Param report body models.ReportPayload true "Report fields"
// @Security BearerAuth
// @Success 201 {object} models.UroReport
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports [post]
func CreateReport(c *gin.Context) {
	var payload models.ReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if payload.PatientName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientName is required"})
		return
	}

	if msg := payload.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	report := models.UroReport{
		Status: models.StatusPending,
	}
	payload.Apply(&report)

	if err := db.DB.Create(&report).Error; err != nil {
		utils.LogError(err, "Error creating the report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating report: " + err.Error()})
		return
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report created")
	c.JSON(http.StatusCreated, report)
}

// @Summary Get a report by ID
// @Description Retrieve a single urodynamic report with its images
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} models.UroReport
// @Failure 404 {object} map[string]string "error: Report not found"
// @Router /view/uro_reports/{id} [get]
func GetReportByID(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")

	if err := db.DB.Preload("Images").First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary Update a report
// @Description Update a report's editable fields. Status, verifiedAt and images are never touched here.
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param report body models.ReportPayload true "Report fields"
// @Security BearerAuth
// @Success 200 {object} models.UroReport
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/{id} [put]
func UpdateReport(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")

	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	var payload models.ReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if msg := payload.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	payload.Apply(&report)

	if err := db.DB.Save(&report).Error; err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error updating the report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating report: " + err.Error()})
		return
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report updated")
	c.JSON(http.StatusOK, report)
}

// @Summary Delete a report
// @Description Soft-delete a report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Report deleted successfully"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/{id} [delete]
func DeleteReport(c *gin.Context) {
	var report models.UroReport
	reportID := c.Param("id")

	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err := db.DB.Delete(&report).Error; err != nil {
		utils.LogErrorWithReport(report.ID, err, "Error deleting the report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting report: " + err.Error()})
		return
	}

	cache.InvalidateStats()
	utils.LogSuccessWithReport(report.ID, "Report deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

// @Summary Search reports
// @Description Paged, filtered and sorted report list with per-status counts
// @Tags reports
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param search query string false "Match on patient name, code or disease"
// @Param status query string false "Filter by status"
// @Param gender query string false "Filter by gender"
// @Param disease query string false "Filter by disease"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} map[string]interface{} "reports, totalPages, totalReports, statusCounts"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/search [get]
func SearchReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	sortColumn, ok := sortColumns[c.DefaultQuery("sortBy", "updatedAt")]
	if !ok {
		sortColumn = "updated_at"
	}
	sortOrder := "DESC"
	if c.Query("sortOrder") == "asc" {
		sortOrder = "ASC"
	}

	var total int64
	if err := filteredQuery(c, true).Count(&total).Error; err != nil {
		utils.LogError(err, "Error counting reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching reports: " + err.Error()})
		return
	}

	statusCounts, err := countByStatus(c)
	if err != nil {
		utils.LogError(err, "Error computing status counts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching reports: " + err.Error()})
		return
	}

	var reports []models.UroReport
	err = filteredQuery(c, true).
		Preload("Images").
		Order(sortColumn + " " + sortOrder).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reports).Error
	if err != nil {
		utils.LogError(err, "Error retrieving reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching reports: " + err.Error()})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	c.JSON(http.StatusOK, gin.H{
		"reports":      reports,
		"totalPages":   totalPages,
		"totalReports": total,
		"statusCounts": statusCounts,
		"currentPage":  page,
	})
}

// @Summary Recently updated reports
// @Description Most recently updated reports, newest first
// @Tags reports
// @Produce json
// @Param limit query int false "Number of reports"
// @Success 200 {object} map[string]interface{} "reports"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/recent [get]
func GetRecentReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	var reports []models.UroReport
	err := db.DB.Model(&models.UroReport{}).
		Preload("Images").
		Order("updated_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		utils.LogError(err, "Error retrieving recent reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving recent reports: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// @Summary Export reports to Excel
// @Description Export the current filter set as an xlsx workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Match on patient name, code or disease"
// @Param status query string false "Filter by status"
// @Param gender query string false "Filter by gender"
// @Param disease query string false "Filter by disease"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/export [get]
func ExportReports(c *gin.Context) {
	var reports []models.UroReport
	err := filteredQuery(c, true).
		Order("created_at DESC").
		Limit(maxExportRows).
		Find(&reports).Error
	if err != nil {
		utils.LogError(err, "Error retrieving reports for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting reports: " + err.Error()})
		return
	}

	f, err := utils.BuildReportWorkbook(reports)
	if err != nil {
		utils.LogError(err, "Error building the export workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting reports: " + err.Error()})
		return
	}

	filename := fmt.Sprintf("uro_reports_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		utils.LogError(err, "Error streaming the export workbook")
	}
}

// filteredQuery construit une requête neuve portant les filtres de la recherche.
// withStatus contrôle l'application du filtre de statut : les compteurs par
// statut (onglets du front) se calculent sans lui.
func filteredQuery(c *gin.Context, withStatus bool) *gorm.DB {
	query := db.DB.Model(&models.UroReport{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("patient_name ILIKE ? OR patient_code ILIKE ? OR disease ILIKE ?", like, like, like)
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if disease := c.Query("disease"); disease != "" {
		query = query.Where("disease = ?", disease)
	}
	if withStatus {
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", models.ParseReportStatus(status))
		}
	}

	return query
}

type statusCountRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// countByStatus calcule les compteurs par statut sur les filtres courants,
// hors filtre de statut. Les valeurs inconnues en base comptent comme PENDING.
func countByStatus(c *gin.Context) (map[models.ReportStatusType]int64, error) {
	var rows []statusCountRow
	err := filteredQuery(c, false).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReportStatusType]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[models.ParseReportStatus(row.Status)] += row.Count
	}
	return counts, nil
}

// @Summary Status workflow metadata
// @Description The recognized statuses with their display metadata and legal transitions
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{} "statuses, transitions"
// @Router /view/uro_reports/statuses [get]
func GetStatusMetadata(c *gin.Context) {
	transitions := make(map[models.ReportStatusType][]models.ReportStatusType, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		transitions[s] = models.TransitionsFrom(s)
	}

	c.JSON(http.StatusOK, gin.H{
		"statuses":    models.StatusMetadata(),
		"transitions": transitions,
	})
}
