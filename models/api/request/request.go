package requestapimodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type RequestData struct {
	Kind        models.RequestKind `json:"kind"`        // helper/planner
	Title       string             `json:"title"`       // short posting title
	Description string             `json:"description"` // what the event needs
	Location    string             `json:"location"`
	EventDate   time.Time          `json:"event_date"`
	StartTime   string             `json:"start_time"` // "15:04", optional
	EndTime     string             `json:"end_time"`   // "15:04", optional
	HourlyRate  float64            `json:"hourly_rate"` // helper track
	Budget      float64            `json:"budget"`      // planner track
	Skills      []string           `json:"skills"`
	Positions   int                `json:"positions"` // fulfillment quota, default 1
}

func (r RequestData) Validate() error {
	if !r.Kind.IsValid() {
		return models.NewValidationError("unknown request kind %v", r.Kind)
	}
	if r.Title == "" {
		return models.NewValidationError("title is required")
	}
	if r.Description == "" {
		return models.NewValidationError("description is required")
	}
	if r.Location == "" {
		return models.NewValidationError("location is required")
	}
	if r.EventDate.IsZero() {
		return models.NewValidationError("event date is required")
	}
	if r.StartTime != "" {
		if _, err := time.Parse("15:04", r.StartTime); err != nil {
			return models.NewValidationError("start time must be HH:MM")
		}
	}
	if r.EndTime != "" {
		if _, err := time.Parse("15:04", r.EndTime); err != nil {
			return models.NewValidationError("end time must be HH:MM")
		}
	}
	if r.Positions < 0 {
		return models.NewValidationError("positions cannot be negative")
	}
	if r.Kind == models.RequestKindHelper && r.HourlyRate < 0 {
		return models.NewValidationError("hourly rate cannot be negative")
	}
	if r.Kind == models.RequestKindPlanner && r.Budget < 0 {
		return models.NewValidationError("budget cannot be negative")
	}
	return nil
}

type RequestView struct {
	RequestData
	ID            string               `json:"id"`
	Hours         float64              `json:"hours"`
	FilledCount   int                  `json:"filled_count"`
	Status        models.RequestStatus `json:"status"`
	StatusName    string               `json:"status_name"`
	RequesterID   string               `json:"requester_id"`
	RequesterKind models.RoleKind      `json:"requester_kind"`
	RequesterName string               `json:"requester_name"`
	CreationDate  time.Time            `json:"creation_date"`
}

func RequestConvert(rec dbmodels.Request) RequestView {
	result := RequestView{
		RequestData: RequestData{
			Kind:        rec.Kind,
			Title:       rec.Title,
			Description: rec.Description,
			Location:    rec.Location,
			EventDate:   rec.EventDate,
			HourlyRate:  rec.HourlyRate,
			Budget:      rec.Budget,
			Skills:      rec.Skills,
			Positions:   rec.Positions,
		},
		ID:           rec.ID,
		Hours:        rec.Hours,
		FilledCount:  rec.FilledCount,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		CreationDate: rec.CreatedAt,
	}
	if rec.StartTime != nil {
		result.StartTime = *rec.StartTime
	}
	if rec.EndTime != nil {
		result.EndTime = *rec.EndTime
	}
	ref := rec.RequesterRef()
	result.RequesterID = ref.RoleID
	result.RequesterKind = ref.Kind
	if rec.Planner != nil {
		result.RequesterName = rec.Planner.DisplayName()
	} else if rec.Client != nil {
		result.RequesterName = rec.Client.DisplayName()
	}
	return result
}

type RequestSort struct {
	CreatedAtDesc bool `json:"created_at_desc"`
}

type RequestFilter struct {
	apimodels.Pagination
	Kind     models.RequestKind     `json:"kind"`
	Statuses []models.RequestStatus `json:"statuses"`
	Search   string                 `json:"search"`
	Location string                 `json:"location"`
	DateFrom *time.Time             `json:"date_from"`
	DateTo   *time.Time             `json:"date_to"`
	Sort     RequestSort            `json:"sort"`
}
