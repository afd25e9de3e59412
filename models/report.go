package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Bornes de validation des champs cliniques saisis
const (
	MinAge       = 0
	MaxAge       = 120
	MinIpssScore = 0
	MaxIpssScore = 35
)

// UroReport représente un rapport d'étude urodynamique en base de données
type UroReport struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PatientName string `json:"patientName" gorm:"column:patient_name"`
	PatientCode string `json:"patientCode" gorm:"column:patient_code;index"`
	Age         *int   `json:"age"`
	Gender      Gender `json:"gender" gorm:"type:varchar(10)"`
	Disease     string `json:"disease" gorm:"index"`

	// Mesures urodynamiques (débitmétrie)
	MaxFlowRate   *float64 `json:"maxFlowRate" gorm:"column:max_flow_rate"`
	AvgFlowRate   *float64 `json:"avgFlowRate" gorm:"column:avg_flow_rate"`
	VoidedVolume  *float64 `json:"voidedVolume" gorm:"column:voided_volume"`
	VoidingTime   *float64 `json:"voidingTime" gorm:"column:voiding_time"`
	FlowTime      *float64 `json:"flowTime" gorm:"column:flow_time"`
	TimeToMaxFlow *float64 `json:"timeToMaxFlow" gorm:"column:time_to_max_flow"`
	ResidualUrine *float64 `json:"residualUrine" gorm:"column:residual_urine"`

	// Score IPSS (0-35)
	IpssScore *int `json:"ipssScore" gorm:"column:ipss_score"`

	// Drapeaux symptomatiques
	Nocturia           bool `json:"nocturia"`
	Urgency            bool `json:"urgency"`
	Hesitancy          bool `json:"hesitancy"`
	WeakStream         bool `json:"weakStream" gorm:"column:weak_stream"`
	Intermittency      bool `json:"intermittency"`
	IncompleteEmptying bool `json:"incompleteEmptying" gorm:"column:incomplete_emptying"`

	Notes string `json:"notes"`

	Status     ReportStatusType `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	VerifiedAt *time.Time       `json:"verifiedAt" gorm:"column:verified_at"`

	Images []ReportImage `json:"images" gorm:"foreignKey:ReportID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (UroReport) TableName() string {
	return "uro_reports"
}

// ReportImage représente une image de courbe de phase rattachée à un rapport
type ReportImage struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ReportID string `json:"reportId" gorm:"column:report_id;type:uuid;not null;index"`
	URL      string `json:"url" gorm:"column:url"`
	PublicID string `json:"publicId" gorm:"column:public_id;index"`

	CreatedAt time.Time `json:"createdAt"`
}

func (ReportImage) TableName() string {
	return "report_images"
}

// ReportPayload porte les champs modifiables d'un rapport tels que soumis par
// le front. Le statut, verifiedAt et les images n'en font jamais partie :
// ils ne changent que par leurs endpoints dédiés.
type ReportPayload struct {
	PatientName string      `json:"patientName"`
	PatientCode string      `json:"patientCode"`
	Age         NullableInt `json:"age"`
	Gender      Gender      `json:"gender"`
	Disease     string      `json:"disease"`

	MaxFlowRate   NullableFloat `json:"maxFlowRate"`
	AvgFlowRate   NullableFloat `json:"avgFlowRate"`
	VoidedVolume  NullableFloat `json:"voidedVolume"`
	VoidingTime   NullableFloat `json:"voidingTime"`
	FlowTime      NullableFloat `json:"flowTime"`
	TimeToMaxFlow NullableFloat `json:"timeToMaxFlow"`
	ResidualUrine NullableFloat `json:"residualUrine"`
	IpssScore     NullableInt   `json:"ipssScore"`

	Nocturia           bool `json:"nocturia"`
	Urgency            bool `json:"urgency"`
	Hesitancy          bool `json:"hesitancy"`
	WeakStream         bool `json:"weakStream"`
	Intermittency      bool `json:"intermittency"`
	IncompleteEmptying bool `json:"incompleteEmptying"`

	Notes string `json:"notes"`
}

// Apply recopie le payload sur le modèle, en laissant intacts les champs
// hors bande (statut, verifiedAt, images)
func (p ReportPayload) Apply(report *UroReport) {
	report.PatientName = p.PatientName
	report.PatientCode = p.PatientCode
	report.Age = p.Age.Ptr()
	report.Gender = p.Gender
	report.Disease = p.Disease
	report.MaxFlowRate = p.MaxFlowRate.Ptr()
	report.AvgFlowRate = p.AvgFlowRate.Ptr()
	report.VoidedVolume = p.VoidedVolume.Ptr()
	report.VoidingTime = p.VoidingTime.Ptr()
	report.FlowTime = p.FlowTime.Ptr()
	report.TimeToMaxFlow = p.TimeToMaxFlow.Ptr()
	report.ResidualUrine = p.ResidualUrine.Ptr()
	report.IpssScore = p.IpssScore.Ptr()
	report.Nocturia = p.Nocturia
	report.Urgency = p.Urgency
	report.Hesitancy = p.Hesitancy
	report.WeakStream = p.WeakStream
	report.Intermittency = p.Intermittency
	report.IncompleteEmptying = p.IncompleteEmptying
	report.Notes = p.Notes
}

// Validate vérifie les bornes des champs saisis.
// Retourne un message d'erreur orienté champ, ou une chaîne vide si tout est bon.
func (p ReportPayload) Validate() string {
	if p.Age.Set && (p.Age.Value < MinAge || p.Age.Value > MaxAge) {
		return "age must be between 0 and 120"
	}
	if p.IpssScore.Set && (p.IpssScore.Value < MinIpssScore || p.IpssScore.Value > MaxIpssScore) {
		return "ipssScore must be between 0 and 35"
	}
	if p.Gender != "" && p.Gender != GenderMale && p.Gender != GenderFemale && p.Gender != GenderOther {
		return "gender must be MALE, FEMALE or OTHER"
	}
	return ""
}
