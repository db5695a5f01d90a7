package dbmodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
)

// Application binds a candidate to a request. The candidate column in use
// matches the request kind: HelperID on helper requests, PlannerID on planner
// requests.
type Application struct {
	BaseModel
	Kind      models.RequestKind `gorm:"type:varchar(20);index"`
	RequestID string             `gorm:"type:varchar(36);index:idx_app_request"`
	Request   *Request
	HelperID  *string `gorm:"type:varchar(36);index"`
	Helper    *Helper
	PlannerID *string `gorm:"type:varchar(36);index"`
	Planner   *Planner

	ProposedRate  float64
	ProposedHours float64
	Message       string

	Status     models.ApplicationStatus `gorm:"type:varchar(20);index"`
	ReviewedAt *time.Time
}

// CandidateRef returns the role reference of the applicant.
func (a Application) CandidateRef() models.RoleRef {
	if a.PlannerID != nil && *a.PlannerID != "" {
		return models.RoleRef{Kind: models.RoleKindPlanner, RoleID: *a.PlannerID}
	}
	if a.HelperID != nil && *a.HelperID != "" {
		return models.RoleRef{Kind: models.RoleKindHelper, RoleID: *a.HelperID}
	}
	return models.RoleRef{}
}
