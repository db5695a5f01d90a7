package dbmodels

import (
	"time"

	"github.com/lib/pq"

	"github.com/bytesandbalance/jovyne-sub000/models"
)

// Request covers both variants in one table, discriminated by Kind.
// Helper requests may be posted by a client or a planner; planner requests
// always come from a client.
type Request struct {
	BaseModel
	Kind      models.RequestKind `gorm:"type:varchar(20);index"`
	ClientID  *string            `gorm:"type:varchar(36);index"`
	Client    *Client
	PlannerID *string `gorm:"type:varchar(36);index"`
	Planner   *Planner

	Title       string `gorm:"type:varchar(255)"`
	Description string
	Location    string `gorm:"type:varchar(255)"`
	EventDate   time.Time
	StartTime   *string `gorm:"type:varchar(5)"` // "15:04"
	EndTime     *string `gorm:"type:varchar(5)"`
	// Hours is derived from the time bounds at creation and persisted so
	// every consumer sees the same figure.
	Hours float64

	HourlyRate float64        // helper track
	Budget     float64        // planner track
	Skills     pq.StringArray `gorm:"type:text[]"`

	// Positions is the fulfillment quota: how many approved applications
	// close the request. Default single-fulfillment.
	Positions   int `gorm:"default:1"`
	FilledCount int

	Status models.RequestStatus `gorm:"type:varchar(30);index"`

	Applications []Application `gorm:"foreignKey:RequestID"`
}

// RequesterRef returns the role reference of the request owner.
func (r Request) RequesterRef() models.RoleRef {
	if r.PlannerID != nil && *r.PlannerID != "" {
		return models.RoleRef{Kind: models.RoleKindPlanner, RoleID: *r.PlannerID}
	}
	if r.ClientID != nil && *r.ClientID != "" {
		return models.RoleRef{Kind: models.RoleKindClient, RoleID: *r.ClientID}
	}
	return models.RoleRef{}
}

// StatedRate is the economics figure a proposal defaults to when the
// candidate omits one: hourly rate on the helper track, budget on the planner
// track.
func (r Request) StatedRate() float64 {
	if r.Kind == models.RequestKindPlanner {
		return r.Budget
	}
	return r.HourlyRate
}
