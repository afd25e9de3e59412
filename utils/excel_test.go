package utils

import (
	"testing"
	"time"

	"uroreport-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildReportWorkbook(t *testing.T) {
	age := 67
	qmax := 9.4
	verifiedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	reports := []models.UroReport{
		{
			PatientName: "Jean Dupont",
			PatientCode: "P-0042",
			Age:         &age,
			Gender:      models.GenderMale,
			Disease:     "BPH",
			MaxFlowRate: &qmax,
			Status:      models.StatusVerified,
			VerifiedAt:  &verifiedAt,
			CreatedAt:   verifiedAt,
		},
		{
			PatientName: "Marie Curie",
			Status:      models.ReportStatusType("legacy-value"),
			CreatedAt:   verifiedAt,
		},
	}

	f, err := BuildReportWorkbook(reports)
	assert.NoError(t, err)

	name, err := f.GetCellValue("Reports", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Patient name", name)

	firstName, _ := f.GetCellValue("Reports", "A2")
	assert.Equal(t, "Jean Dupont", firstName)

	firstQmax, _ := f.GetCellValue("Reports", "F2")
	assert.Equal(t, "9.4", firstQmax)

	// Les mesures absentes restent vides, jamais 0
	secondQmax, _ := f.GetCellValue("Reports", "F3")
	assert.Equal(t, "", secondQmax)

	// Un statut illisible s'exporte comme PENDING
	secondStatus, _ := f.GetCellValue("Reports", "K3")
	assert.Equal(t, "PENDING", secondStatus)
}
