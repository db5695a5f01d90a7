package invoiceapimodels

import (
	"time"

	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

// InvoiceData describes an ad-hoc invoice issued outside of the application
// flow (both parties already engaged). Invoices spawned by an approval are
// seeded by the approval engine directly.
type InvoiceData struct {
	RequestID string          `json:"request_id"` // optional
	PayerID   string          `json:"payer_id"`
	PayerKind models.RoleKind `json:"payer_kind"`
	JobTitle  string          `json:"job_title"`
	Rate      float64         `json:"rate"`
	Hours     float64         `json:"hours"`
	FlatFee   bool            `json:"flat_fee"` // true: Rate is a flat fee, Hours ignored
}

func (d InvoiceData) Validate() error {
	if d.PayerID == "" {
		return models.NewValidationError("payer is required")
	}
	if !d.PayerKind.IsValid() {
		return models.NewValidationError("unknown payer role %v", d.PayerKind)
	}
	if d.JobTitle == "" {
		return models.NewValidationError("job title is required")
	}
	if d.Rate < 0 || d.Hours < 0 {
		return models.NewValidationError("rate and hours cannot be negative")
	}
	if !d.FlatFee && d.Hours == 0 {
		return models.NewValidationError("hours are required on hourly invoices")
	}
	return nil
}

type InvoiceView struct {
	ID            string               `json:"id"`
	Number        string               `json:"number"`
	ApplicationID string               `json:"application_id,omitempty"`
	RequestID     string               `json:"request_id,omitempty"`
	PayerID       string               `json:"payer_id"`
	PayerKind     models.RoleKind      `json:"payer_kind"`
	PayerName     string               `json:"payer_name"`
	PayeeID       string               `json:"payee_id"`
	PayeeKind     models.RoleKind      `json:"payee_kind"`
	PayeeName     string               `json:"payee_name"`
	JobTitle      string               `json:"job_title"`
	Rate          float64              `json:"rate"`
	Hours         float64              `json:"hours"`
	FlatFee       bool                 `json:"flat_fee"`
	Amount        float64              `json:"amount"`
	Status        models.InvoiceStatus `json:"status"`
	StatusName    string               `json:"status_name"`
	SentAt        *time.Time           `json:"sent_at,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CreationDate  time.Time            `json:"creation_date"`
}

func InvoiceConvert(rec dbmodels.Invoice) InvoiceView {
	result := InvoiceView{
		ID:           rec.ID,
		Number:       rec.Number,
		PayerID:      rec.PayerID,
		PayerKind:    rec.PayerKind,
		PayerName:    rec.PayerName,
		PayeeID:      rec.PayeeID,
		PayeeKind:    rec.PayeeKind,
		PayeeName:    rec.PayeeName,
		JobTitle:     rec.JobTitle,
		Rate:         rec.Rate,
		Hours:        rec.Hours,
		FlatFee:      rec.FlatFee,
		Amount:       rec.Amount,
		Status:       rec.Status,
		StatusName:   rec.Status.ToHuman(),
		SentAt:       rec.SentAt,
		PaidAt:       rec.PaidAt,
		CompletedAt:  rec.CompletedAt,
		CreationDate: rec.CreatedAt,
	}
	if rec.ApplicationID != nil {
		result.ApplicationID = *rec.ApplicationID
	}
	if rec.RequestID != nil {
		result.RequestID = *rec.RequestID
	}
	return result
}

type InvoiceFilter struct {
	apimodels.Pagination
	Statuses []models.InvoiceStatus `json:"statuses"`
	Search   string                 `json:"search"`
}

// Totals groups persisted invoice amounts by status for dashboards.
type Totals struct {
	ByStatus map[models.InvoiceStatus]StatusTotal `json:"by_status"`
}

type StatusTotal struct {
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

func (t Totals) Amount(status models.InvoiceStatus) float64 {
	return t.ByStatus[status].Amount
}
