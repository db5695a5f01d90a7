package applicationapimodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type ApplicationData struct {
	ProposedRate  float64 `json:"proposed_rate"`  // 0 = take the request's stated rate
	ProposedHours float64 `json:"proposed_hours"` // 0 = take the request's derived hours
	Message       string  `json:"message"`
}

func (a ApplicationData) Validate() error {
	if a.ProposedRate < 0 {
		return models.NewValidationError("proposed rate cannot be negative")
	}
	if a.ProposedHours < 0 {
		return models.NewValidationError("proposed hours cannot be negative")
	}
	return nil
}

type ApplicationView struct {
	ApplicationData
	ID            string                   `json:"id"`
	RequestID     string                   `json:"request_id"`
	RequestTitle  string                   `json:"request_title"`
	Kind          models.RequestKind       `json:"kind"`
	CandidateID   string                   `json:"candidate_id"`
	CandidateName string                   `json:"candidate_name"`
	Status        models.ApplicationStatus `json:"status"`
	StatusName    string                   `json:"status_name"`
	ReviewedAt    *time.Time               `json:"reviewed_at,omitempty"`
	CreationDate  time.Time                `json:"creation_date"`
}

// DecisionView is the outcome of an approve/reject call. AlreadyDecided marks
// the idempotent path: the application was terminal before the call and
// nothing was changed.
type DecisionView struct {
	Application    ApplicationView `json:"application"`
	AlreadyDecided bool            `json:"already_decided"`
	RequestClosed  bool            `json:"request_closed"`
	InvoiceID      string          `json:"invoice_id,omitempty"`
}

func ApplicationConvert(rec dbmodels.Application) ApplicationView {
	result := ApplicationView{
		ApplicationData: ApplicationData{
			ProposedRate:  rec.ProposedRate,
			ProposedHours: rec.ProposedHours,
			Message:       rec.Message,
		},
		ID:           rec.ID,
		RequestID:    rec.RequestID,
		Kind:         rec.Kind,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		ReviewedAt:   rec.ReviewedAt,
		CreationDate: rec.CreatedAt,
	}
	result.CandidateID = rec.CandidateRef().RoleID
	if rec.Helper != nil {
		result.CandidateName = rec.Helper.DisplayName()
	} else if rec.Planner != nil {
		result.CandidateName = rec.Planner.DisplayName()
	}
	if rec.Request != nil {
		result.RequestTitle = rec.Request.Title
	}
	return result
}
