package models

// ReportStatusType définit les différents statuts du workflow de vérification d'un rapport
type ReportStatusType string

const (
	StatusPending     ReportStatusType = "PENDING"
	StatusNeedsReview ReportStatusType = "NEEDS_REVIEW"
	StatusVerified    ReportStatusType = "VERIFIED"
	StatusRejected    ReportStatusType = "REJECTED"
)

// AllStatuses liste tous les statuts reconnus, dans l'ordre du workflow
var AllStatuses = []ReportStatusType{
	StatusPending,
	StatusNeedsReview,
	StatusVerified,
	StatusRejected,
}

// statusTransitions : chaque statut peut passer à tous les autres sauf lui-même.
// Il n'y a pas d'état terminal : un rapport vérifié ou rejeté reste corrigeable.
var statusTransitions = map[ReportStatusType][]ReportStatusType{
	StatusPending:     {StatusNeedsReview, StatusVerified, StatusRejected},
	StatusNeedsReview: {StatusPending, StatusVerified, StatusRejected},
	StatusVerified:    {StatusPending, StatusNeedsReview, StatusRejected},
	StatusRejected:    {StatusPending, StatusNeedsReview, StatusVerified},
}

// ParseReportStatus normalise une valeur de statut venant de la base ou d'un client.
// Toute valeur inconnue (vide, garbage, casse différente sans correspondance)
// retombe sur PENDING : jamais d'erreur.
func ParseReportStatus(value string) ReportStatusType {
	s := ReportStatusType(value)
	if s.IsValid() {
		return s
	}
	return StatusPending
}

// IsValid indique si la valeur fait partie des quatre statuts reconnus
func (s ReportStatusType) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// TransitionsFrom retourne les statuts atteignables depuis un statut donné.
// Le statut d'entrée est d'abord normalisé via ParseReportStatus.
func TransitionsFrom(current ReportStatusType) []ReportStatusType {
	return statusTransitions[ParseReportStatus(string(current))]
}

// CanTransition vérifie qu'un passage current -> target est légal.
// current est normalisé ; target doit être une valeur reconnue et différente.
func CanTransition(current ReportStatusType, target ReportStatusType) bool {
	if !target.IsValid() {
		return false
	}
	for _, allowed := range TransitionsFrom(current) {
		if allowed == target {
			return true
		}
	}
	return false
}

// StatusMeta regroupe les métadonnées de présentation d'un statut
// (le front rend le badge à partir de cette seule source)
type StatusMeta struct {
	Value ReportStatusType `json:"value"`
	Label string           `json:"label"`
	Color string           `json:"color"`
}

var statusMeta = map[ReportStatusType]StatusMeta{
	StatusPending:     {Value: StatusPending, Label: "Pending", Color: "gray"},
	StatusNeedsReview: {Value: StatusNeedsReview, Label: "Needs Review", Color: "amber"},
	StatusVerified:    {Value: StatusVerified, Label: "Verified", Color: "green"},
	StatusRejected:    {Value: StatusRejected, Label: "Rejected", Color: "red"},
}

// Meta retourne les métadonnées de présentation du statut (normalisé)
func (s ReportStatusType) Meta() StatusMeta {
	return statusMeta[ParseReportStatus(string(s))]
}

// StatusMetadata retourne les métadonnées de tous les statuts
func StatusMetadata() []StatusMeta {
	metas := make([]StatusMeta, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		metas = append(metas, statusMeta[s])
	}
	return metas
}

// ReportStatusUpdate modèle pour changer le statut d'un rapport
// @Description modèle pour changer le statut d'un rapport
type ReportStatusUpdate struct {
	Status string `json:"status" binding:"required" example:"VERIFIED"`
}
