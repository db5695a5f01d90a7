package models

// NotifyCode identifies a lifecycle event delivered to a role's notification feed.
type NotifyCode string

const (
	NotifyApplicationReceived   NotifyCode = "APPLICATION_RECEIVED"
	NotifyApplicationApproved   NotifyCode = "APPLICATION_APPROVED"
	NotifyApplicationRejected   NotifyCode = "APPLICATION_REJECTED"
	NotifyApplicationSuperseded NotifyCode = "APPLICATION_SUPERSEDED"
	NotifyRequestFilled         NotifyCode = "REQUEST_FILLED"
	NotifyRequestCancelled      NotifyCode = "REQUEST_CANCELLED"
	NotifyInvoiceReceived       NotifyCode = "INVOICE_RECEIVED"
	NotifyInvoiceAcknowledged   NotifyCode = "INVOICE_ACKNOWLEDGED"
	NotifyInvoicePaid           NotifyCode = "INVOICE_PAID"
	NotifyInvoiceCompleted      NotifyCode = "INVOICE_COMPLETED"
	NotifyInvoiceCancelled      NotifyCode = "INVOICE_CANCELLED"
)

var notifyCodeTitle = map[NotifyCode]string{
	NotifyApplicationReceived:   "New application",
	NotifyApplicationApproved:   "Application approved",
	NotifyApplicationRejected:   "Application rejected",
	NotifyApplicationSuperseded: "Position filled",
	NotifyRequestFilled:         "Request filled",
	NotifyRequestCancelled:      "Request cancelled",
	NotifyInvoiceReceived:       "New invoice",
	NotifyInvoiceAcknowledged:   "Invoice acknowledged",
	NotifyInvoicePaid:           "Invoice paid",
	NotifyInvoiceCompleted:      "Invoice completed",
	NotifyInvoiceCancelled:      "Invoice cancelled",
}

func (c NotifyCode) Title() string {
	if title, exist := notifyCodeTitle[c]; exist {
		return title
	}
	return string(c)
}
