package models

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft           InvoiceStatus = "draft"
	InvoiceStatusSentToPayer     InvoiceStatus = "sent_to_payer"
	InvoiceStatusAwaitingPayment InvoiceStatus = "awaiting_payment"
	InvoiceStatusPaid            InvoiceStatus = "paid"
	InvoiceStatusCompleted       InvoiceStatus = "completed"
	InvoiceStatusCancelled       InvoiceStatus = "cancelled"
)

var invoiceStatusHumanName = map[InvoiceStatus]string{
	InvoiceStatusDraft:           "Draft",
	InvoiceStatusSentToPayer:     "Sent",
	InvoiceStatusAwaitingPayment: "Awaiting payment",
	InvoiceStatusPaid:            "Paid",
	InvoiceStatusCompleted:       "Completed",
	InvoiceStatusCancelled:       "Cancelled",
}

func (s InvoiceStatus) ToHuman() string {
	if human, exist := invoiceStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// InvoiceStatuses in forward order, used by dashboard aggregation.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSentToPayer,
	InvoiceStatusAwaitingPayment,
	InvoiceStatusPaid,
	InvoiceStatusCompleted,
	InvoiceStatusCancelled,
}

// IsAllowChange lists the legal edges of the invoice machine. The chain is
// strictly forward; cancellation is reachable from draft and sent_to_payer
// only.
func (s InvoiceStatus) IsAllowChange(next InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return next == InvoiceStatusSentToPayer || next == InvoiceStatusCancelled
	case InvoiceStatusSentToPayer:
		return next == InvoiceStatusAwaitingPayment || next == InvoiceStatusCancelled
	case InvoiceStatusAwaitingPayment:
		return next == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return next == InvoiceStatusCompleted
	}
	return false
}

func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCompleted || s == InvoiceStatusCancelled
}

// Round2 rounds a money amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// InvoiceAmount is the single source of the materialized amount column:
// rate*hours for hourly engagements, the flat fee otherwise. Every mutating
// invoice call re-derives it rather than trusting the stored figure.
func InvoiceAmount(rate, hours float64, flatFee bool) float64 {
	if flatFee {
		return Round2(rate)
	}
	return Round2(rate * hours)
}

// NewInvoiceNumber mints the human-facing invoice number shared by the
// approval engine and ad-hoc invoice creation.
func NewInvoiceNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INV-" + strings.ToUpper(raw[:12])
}
