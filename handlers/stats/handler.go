package stats

import (
	"net/http"
	"time"

	"uroreport-backend/cache"
	"uroreport-backend/db"
	"uroreport-backend/models"
	"uroreport-backend/utils"

	"github.com/gin-gonic/gin"
)

// Tous les agrégats sont calculés côté SQL et mis en cache quelques minutes ;
// le front ne fait que de la mise en forme.

// DashboardStats compteurs de synthèse pour le tableau de bord
type DashboardStats struct {
	TotalReports     int64                             `json:"totalReports"`
	StatusCounts     map[models.ReportStatusType]int64 `json:"statusCounts"`
	UpdatedThisWeek  int64                             `json:"updatedThisWeek"`
	ReportsWithImage int64                             `json:"reportsWithImages"`
}

// @Summary Dashboard summary counts
// @Tags stats
// @Produce json
// @Success 200 {object} DashboardStats
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/stats/dashboard [get]
func GetDashboardStats(c *gin.Context) {
	var stats DashboardStats
	if cache.GetJSON(cache.DashboardKey, &stats) {
		c.JSON(http.StatusOK, stats)
		return
	}

	if err := db.DB.Model(&models.UroReport{}).Count(&stats.TotalReports).Error; err != nil {
		utils.LogError(err, "Error counting reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving dashboard stats: " + err.Error()})
		return
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err := db.DB.Model(&models.UroReport{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		utils.LogError(err, "Error counting reports by status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving dashboard stats: " + err.Error()})
		return
	}
	stats.StatusCounts = make(map[models.ReportStatusType]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		stats.StatusCounts[s] = 0
	}
	for _, row := range rows {
		stats.StatusCounts[models.ParseReportStatus(row.Status)] += row.Count
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	err = db.DB.Model(&models.UroReport{}).
		Where("updated_at >= ?", weekAgo).
		Count(&stats.UpdatedThisWeek).Error
	if err != nil {
		utils.LogError(err, "Error counting recently updated reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving dashboard stats: " + err.Error()})
		return
	}

	err = db.DB.Model(&models.UroReport{}).
		Where("id IN (?)", db.DB.Model(&models.ReportImage{}).Select("report_id")).
		Count(&stats.ReportsWithImage).Error
	if err != nil {
		utils.LogError(err, "Error counting reports with images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving dashboard stats: " + err.Error()})
		return
	}

	cache.SetJSON(cache.DashboardKey, stats, cache.StatsTTL)
	c.JSON(http.StatusOK, stats)
}

// DiseaseStat prévalence d'une pathologie
type DiseaseStat struct {
	Disease string `json:"disease"`
	Count   int64  `json:"count"`
}

// @Summary Disease prevalence counts
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{} "diseases"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/diseases/statistics [get]
func GetDiseaseStatistics(c *gin.Context) {
	var diseases []DiseaseStat
	if cache.GetJSON(cache.DiseasesKey, &diseases) {
		c.JSON(http.StatusOK, gin.H{"diseases": diseases})
		return
	}

	err := db.DB.Model(&models.UroReport{}).
		Select("disease, COUNT(*) as count").
		Where("disease <> ''").
		Group("disease").
		Order("count DESC").
		Scan(&diseases).Error
	if err != nil {
		utils.LogError(err, "Error computing disease statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving disease statistics: " + err.Error()})
		return
	}
	if diseases == nil {
		diseases = []DiseaseStat{}
	}

	cache.SetJSON(cache.DiseasesKey, diseases, cache.StatsTTL)
	c.JSON(http.StatusOK, gin.H{"diseases": diseases})
}

// AgeBucket tranche d'âge du histogramme
type AgeBucket struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// @Summary Age distribution histogram
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{} "buckets"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/stats/age-distribution [get]
func GetAgeDistribution(c *gin.Context) {
	var buckets []AgeBucket
	if cache.GetJSON(cache.AgeKey, &buckets) {
		c.JSON(http.StatusOK, gin.H{"buckets": buckets})
		return
	}

	err := db.DB.Model(&models.UroReport{}).
		Select(`CASE
			WHEN age < 20 THEN '0-19'
			WHEN age < 40 THEN '20-39'
			WHEN age < 60 THEN '40-59'
			WHEN age < 80 THEN '60-79'
			ELSE '80+'
		END as bucket, COUNT(*) as count`).
		Where("age IS NOT NULL").
		Group("bucket").
		Order("bucket ASC").
		Scan(&buckets).Error
	if err != nil {
		utils.LogError(err, "Error computing the age distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving age distribution: " + err.Error()})
		return
	}
	if buckets == nil {
		buckets = []AgeBucket{}
	}

	cache.SetJSON(cache.AgeKey, buckets, cache.StatsTTL)
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// GenderStat répartition par genre
type GenderStat struct {
	Gender string `json:"gender"`
	Count  int64  `json:"count"`
}

// @Summary Gender breakdown
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{} "genders"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/stats/gender [get]
func GetGenderStats(c *gin.Context) {
	var genders []GenderStat
	if cache.GetJSON(cache.GenderKey, &genders) {
		c.JSON(http.StatusOK, gin.H{"genders": genders})
		return
	}

	err := db.DB.Model(&models.UroReport{}).
		Select("gender, COUNT(*) as count").
		Where("gender <> ''").
		Group("gender").
		Scan(&genders).Error
	if err != nil {
		utils.LogError(err, "Error computing gender statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving gender statistics: " + err.Error()})
		return
	}
	if genders == nil {
		genders = []GenderStat{}
	}

	cache.SetJSON(cache.GenderKey, genders, cache.StatsTTL)
	c.JSON(http.StatusOK, gin.H{"genders": genders})
}

// FlowMetricStat moyennes de débitmétrie par pathologie
type FlowMetricStat struct {
	Disease          string   `json:"disease"`
	AvgMaxFlowRate   *float64 `json:"avgMaxFlowRate"`
	AvgAvgFlowRate   *float64 `json:"avgAvgFlowRate"`
	AvgResidualUrine *float64 `json:"avgResidualUrine"`
	Count            int64    `json:"count"`
}

// @Summary Flow metric averages per disease
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{} "metrics"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /view/uro_reports/stats/flow-metrics [get]
func GetFlowMetrics(c *gin.Context) {
	var metrics []FlowMetricStat
	if cache.GetJSON(cache.FlowMetricsKey, &metrics) {
		c.JSON(http.StatusOK, gin.H{"metrics": metrics})
		return
	}

	err := db.DB.Model(&models.UroReport{}).
		Select(`disease,
			AVG(max_flow_rate) as avg_max_flow_rate,
			AVG(avg_flow_rate) as avg_avg_flow_rate,
			AVG(residual_urine) as avg_residual_urine,
			COUNT(*) as count`).
		Where("disease <> ''").
		Group("disease").
		Order("count DESC").
		Scan(&metrics).Error
	if err != nil {
		utils.LogError(err, "Error computing flow metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving flow metrics: " + err.Error()})
		return
	}
	if metrics == nil {
		metrics = []FlowMetricStat{}
	}

	cache.SetJSON(cache.FlowMetricsKey, metrics, cache.StatsTTL)
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}
