package reports

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"uroreport-backend/models"
	"uroreport-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
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

var reportColumns = []string{
	"id", "patient_name", "patient_code", "age", "gender", "disease",
	"ipss_score", "status", "verified_at", "created_at", "updated_at", "deleted_at",
}

func TestGetReportByID_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	rows := mock.NewRows(reportColumns).
		AddRow("report-uuid-1", "Jean Dupont", "P-0042", 67, "MALE", "BPH",
			18, "NEEDS_REVIEW", nil, createdAt, createdAt, nil)

	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).WillReturnRows(rows)
	mock.ExpectQuery(`SELECT \* FROM "report_images"`).
		WillReturnRows(mock.NewRows([]string{"id", "report_id", "url", "public_id", "created_at"}).
			AddRow("img-uuid-1", "report-uuid-1", "https://res.cloudinary.com/demo/uro_1.png", "uro_report_abc", createdAt))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/:id", GetReportByID)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/report-uuid-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var report models.UroReport
	json.Unmarshal(resp.Body.Bytes(), &report)
	assert.Equal(t, "Jean Dupont", report.PatientName)
	assert.Equal(t, models.StatusNeedsReview, report.Status)
	assert.Len(t, report.Images, 1)
	assert.Equal(t, "uro_report_abc", report.Images[0].PublicID)
}

func TestGetReportByID_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/:id", GetReportByID)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/missing-uuid", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Report not found", respBody["error"])
}

func TestCreateReport_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "uro_reports"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("report-uuid-1"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/view/uro_reports", CreateReport)

	body := map[string]interface{}{
		"patientName": "Jean Dupont",
		"patientCode": "P-0042",
		"age":         67,
		"gender":      "MALE",
		"disease":     "BPH",
		"ipssScore":   18,
		"maxFlowRate": "9.4",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/view/uro_reports", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var report models.UroReport
	json.Unmarshal(resp.Body.Bytes(), &report)
	assert.Equal(t, "report-uuid-1", report.ID)
	assert.Equal(t, models.StatusPending, report.Status)
	assert.NotNil(t, report.MaxFlowRate)
	assert.Equal(t, 9.4, *report.MaxFlowRate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReport_EmptyNumericStringBecomesNull(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "uro_reports"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("report-uuid-1"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/view/uro_reports", CreateReport)

	body := map[string]interface{}{
		"patientName": "Jean Dupont",
		"ipssScore":   "",
		"maxFlowRate": "",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/view/uro_reports", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	// La chaîne vide redevient null dans la réponse, jamais 0
	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Nil(t, respBody["ipssScore"])
	assert.Nil(t, respBody["maxFlowRate"])
}

func TestCreateReport_MissingPatientName(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/view/uro_reports", CreateReport)

	jsonData, _ := json.Marshal(map[string]interface{}{"age": 67})

	req, _ := http.NewRequest(http.MethodPost, "/view/uro_reports", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateReport_AgeOutOfRange(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/view/uro_reports", CreateReport)

	jsonData, _ := json.Marshal(map[string]interface{}{
		"patientName": "Jean Dupont",
		"age":         121,
	})

	req, _ := http.NewRequest(http.MethodPost, "/view/uro_reports", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "age must be between 0 and 120", respBody["error"])

	// L'erreur de validation ne touche jamais la base
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReport_IpssScoreOutOfRange(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/view/uro_reports", CreateReport)

	jsonData, _ := json.Marshal(map[string]interface{}{
		"patientName": "Jean Dupont",
		"ipssScore":   36,
	})

	req, _ := http.NewRequest(http.MethodPost, "/view/uro_reports", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "ipssScore must be between 0 and 35", respBody["error"])
}

func TestUpdateReport_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.PUT("/view/uro_reports/:id", UpdateReport)

	jsonData, _ := json.Marshal(map[string]interface{}{"patientName": "Jean Dupont"})

	req, _ := http.NewRequest(http.MethodPut, "/view/uro_reports/missing-uuid", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateReport_KeepsStatusAndVerifiedAt(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	verifiedAt := createdAt.Add(-time.Hour)
	rows := mock.NewRows(reportColumns).
		AddRow("report-uuid-1", "Jean Dupont", "P-0042", 67, "MALE", "BPH",
			18, "VERIFIED", verifiedAt, createdAt, createdAt, nil)

	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "uro_reports"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.PUT("/view/uro_reports/:id", UpdateReport)

	jsonData, _ := json.Marshal(map[string]interface{}{
		"patientName": "Jean Martin",
		"ipssScore":   22,
	})

	req, _ := http.NewRequest(http.MethodPut, "/view/uro_reports/report-uuid-1", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	// Le PUT ne touche jamais le statut ni verifiedAt
	var report models.UroReport
	json.Unmarshal(resp.Body.Bytes(), &report)
	assert.Equal(t, "Jean Martin", report.PatientName)
	assert.Equal(t, models.StatusVerified, report.Status)
	assert.NotNil(t, report.VerifiedAt)
}

func TestSearchReports_Pagination(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT status`).
		WillReturnRows(mock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 10).
			AddRow("NEEDS_REVIEW", 6).
			AddRow("VERIFIED", 8).
			AddRow("legacy-value", 1))

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).
		WillReturnRows(mock.NewRows(reportColumns).
			AddRow("report-uuid-1", "Jean Dupont", "P-0042", 67, "MALE", "BPH",
				18, "PENDING", nil, createdAt, createdAt, nil).
			AddRow("report-uuid-2", "Marie Curie", "P-0043", 58, "FEMALE", "OAB",
				12, "VERIFIED", createdAt, createdAt, createdAt, nil))
	mock.ExpectQuery(`SELECT \* FROM "report_images"`).
		WillReturnRows(mock.NewRows([]string{"id", "report_id", "url", "public_id", "created_at"}))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/search", SearchReports)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/search?page=2&limit=10", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)

	assert.Equal(t, float64(25), respBody["totalReports"])
	assert.Equal(t, float64(3), respBody["totalPages"])
	assert.Equal(t, float64(2), respBody["currentPage"])

	reports := respBody["reports"].([]interface{})
	assert.Len(t, reports, 2)

	// Les valeurs inconnues en base comptent comme PENDING
	counts := respBody["statusCounts"].(map[string]interface{})
	assert.Equal(t, float64(11), counts["PENDING"])
	assert.Equal(t, float64(6), counts["NEEDS_REVIEW"])
	assert.Equal(t, float64(8), counts["VERIFIED"])
	assert.Equal(t, float64(0), counts["REJECTED"])
}

func TestSearchReports_PageFlooredToOne(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT status`).
		WillReturnRows(mock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).
		WillReturnRows(mock.NewRows(reportColumns))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/search", SearchReports)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/search?page=-3", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, float64(1), respBody["currentPage"])
	assert.Equal(t, float64(0), respBody["totalReports"])

	reports := respBody["reports"].([]interface{})
	assert.Len(t, reports, 0)
}

func TestSearchReports_DatabaseError(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count`).WillReturnError(gorm.ErrInvalidDB)

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/search", SearchReports)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/search", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestGetRecentReports_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "uro_reports"`).
		WillReturnRows(mock.NewRows(reportColumns).
			AddRow("report-uuid-1", "Jean Dupont", "P-0042", 67, "MALE", "BPH",
				18, "PENDING", nil, createdAt, createdAt, nil))
	mock.ExpectQuery(`SELECT \* FROM "report_images"`).
		WillReturnRows(mock.NewRows([]string{"id", "report_id", "url", "public_id", "created_at"}))

	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/recent", GetRecentReports)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/recent?limit=3", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]models.UroReport
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Len(t, respBody["reports"], 1)
	assert.Equal(t, "Jean Dupont", respBody["reports"][0].PatientName)
}

func TestGetStatusMetadata(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/view/uro_reports/statuses", GetStatusMetadata)

	req, _ := http.NewRequest(http.MethodGet, "/view/uro_reports/statuses", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody struct {
		Statuses    []models.StatusMeta                  `json:"statuses"`
		Transitions map[string][]models.ReportStatusType `json:"transitions"`
	}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Len(t, respBody.Statuses, 4)
	assert.Len(t, respBody.Transitions["PENDING"], 3)
	assert.NotContains(t, respBody.Transitions["VERIFIED"], models.StatusVerified)
}
