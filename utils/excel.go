package utils

import (
	"fmt"
	"time"

	"uroreport-backend/models"

	"github.com/xuri/excelize/v2"
)

var reportExportHeader = []interface{}{
	"Patient name", "Patient code", "Age", "Gender", "Disease",
	"Qmax (ml/s)", "Qavg (ml/s)", "Voided volume (ml)", "Residual urine (ml)",
	"IPSS score", "Status", "Verified at", "Created at",
}

// BuildReportWorkbook construit un classeur Excel à partir d'une liste de rapports
func BuildReportWorkbook(reports []models.UroReport) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Reports"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la feuille: %v", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &reportExportHeader); err != nil {
		return nil, err
	}

	for i, report := range reports {
		row := []interface{}{
			report.PatientName,
			report.PatientCode,
			intCell(report.Age),
			string(report.Gender),
			report.Disease,
			floatCell(report.MaxFlowRate),
			floatCell(report.AvgFlowRate),
			floatCell(report.VoidedVolume),
			floatCell(report.ResidualUrine),
			intCell(report.IpssScore),
			string(models.ParseReportStatus(string(report.Status))),
			timeCell(report.VerifiedAt),
			report.CreatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func intCell(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func timeCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
