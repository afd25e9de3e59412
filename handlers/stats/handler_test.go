package stats

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"uroreport-backend/testutils"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func TestGetDashboardStats_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT status`).
		WillReturnRows(mock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 20).
			AddRow("NEEDS_REVIEW", 10).
			AddRow("VERIFIED", 9).
			AddRow("REJECTED", 2).
			AddRow("legacy-value", 1))
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(15))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/stats/dashboard", GetDashboardStats)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/stats/dashboard", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var stats DashboardStats
	json.Unmarshal(resp.Body.Bytes(), &stats)
	assert.Equal(t, int64(42), stats.TotalReports)
	assert.Equal(t, int64(7), stats.UpdatedThisWeek)
	assert.Equal(t, int64(15), stats.ReportsWithImage)
	// La valeur illisible en base compte comme PENDING
	assert.Equal(t, int64(21), stats.StatusCounts["PENDING"])
	assert.Equal(t, int64(2), stats.StatusCounts["REJECTED"])
}

func TestGetDashboardStats_DatabaseError(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).WillReturnError(gorm.ErrInvalidDB)

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/stats/dashboard", GetDashboardStats)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/stats/dashboard", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestGetDiseaseStatistics_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT disease`).
		WillReturnRows(mock.NewRows([]string{"disease", "count"}).
			AddRow("BPH", 18).
			AddRow("OAB", 9))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/diseases/statistics", GetDiseaseStatistics)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/diseases/statistics", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]DiseaseStat
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	diseases := respBody["diseases"]
	assert.Len(t, diseases, 2)
	assert.Equal(t, "BPH", diseases[0].Disease)
	assert.Equal(t, int64(18), diseases[0].Count)
}

func TestGetDiseaseStatistics_EmptyResult(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT disease`).
		WillReturnRows(mock.NewRows([]string{"disease", "count"}))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/diseases/statistics", GetDiseaseStatistics)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/diseases/statistics", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	// Tableau vide, pas null : le front itère sans garde
	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	diseases, ok := respBody["diseases"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, diseases, 0)
}

func TestGetAgeDistribution_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT CASE`).
		WillReturnRows(mock.NewRows([]string{"bucket", "count"}).
			AddRow("40-59", 5).
			AddRow("60-79", 12))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/stats/age-distribution", GetAgeDistribution)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/stats/age-distribution", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]AgeBucket
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Len(t, respBody["buckets"], 2)
	assert.Equal(t, "60-79", respBody["buckets"][1].Bucket)
	assert.Equal(t, int64(12), respBody["buckets"][1].Count)
}

func TestGetGenderStats_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT gender`).
		WillReturnRows(mock.NewRows([]string{"gender", "count"}).
			AddRow("MALE", 30).
			AddRow("FEMALE", 12))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/stats/gender", GetGenderStats)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/stats/gender", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]GenderStat
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Len(t, respBody["genders"], 2)
	assert.Equal(t, int64(30), respBody["genders"][0].Count)
}

func TestGetFlowMetrics_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT disease`).
		WillReturnRows(mock.NewRows([]string{"disease", "avg_max_flow_rate", "avg_avg_flow_rate", "avg_residual_urine", "count"}).
			AddRow("BPH", 9.8, 5.1, 85.0, 18).
			AddRow("OAB", nil, nil, nil, 3))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/stats/flow-metrics", GetFlowMetrics)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/stats/flow-metrics", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]FlowMetricStat
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	metrics := respBody["metrics"]
	assert.Len(t, metrics, 2)
	assert.Equal(t, 9.8, *metrics[0].AvgMaxFlowRate)
	// Aucune mesure saisie : la moyenne reste null, pas 0
	assert.Nil(t, metrics[1].AvgMaxFlowRate)
}
