package dbmodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
)

// Invoice is the billing record of an engagement. Party names and the job
// title are denormalized at creation so history survives later profile edits.
type Invoice struct {
	BaseModel
	Number        string  `gorm:"type:varchar(20);uniqueIndex"`
	ApplicationID *string `gorm:"type:varchar(36);index"`
	Application   *Application
	RequestID     *string `gorm:"type:varchar(36);index"`
	Request       *Request

	PayerID   string          `gorm:"type:varchar(36);index"`
	PayerKind models.RoleKind `gorm:"type:varchar(20)"`
	PayeeID   string          `gorm:"type:varchar(36);index"`
	PayeeKind models.RoleKind `gorm:"type:varchar(20)"`
	PayerName string          `gorm:"type:varchar(255)"`
	PayeeName string          `gorm:"type:varchar(255)"`
	JobTitle  string          `gorm:"type:varchar(255)"`

	Rate    float64
	Hours   float64
	FlatFee bool
	// Amount is materialized and re-derived on every mutating call; dashboard
	// sums read this column, never rate*hours.
	Amount float64

	Status      models.InvoiceStatus `gorm:"type:varchar(30);index"`
	SentAt      *time.Time
	PaidAt      *time.Time
	CompletedAt *time.Time
}

// PayerRef and PayeeRef return the role references of the two parties.
func (i Invoice) PayerRef() models.RoleRef {
	return models.RoleRef{Kind: i.PayerKind, RoleID: i.PayerID}
}

func (i Invoice) PayeeRef() models.RoleRef {
	return models.RoleRef{Kind: i.PayeeKind, RoleID: i.PayeeID}
}

// StatusTotal is one row of the aggregation query summing persisted amounts.
type StatusTotal struct {
	Status models.InvoiceStatus
	Total  float64
	Count  int64
}
