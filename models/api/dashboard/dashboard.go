package dashboardapimodels

import (
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
)

// ClientOverview aggregates a client's side of the marketplace: what they
// posted, who applied, what they owe.
type ClientOverview struct {
	OpenRequests      []requestapimodels.RequestView         `json:"open_requests"`
	PendingApplicants []applicationapimodels.ApplicationView `json:"pending_applicants"`
	PayableTotals     invoiceapimodels.Totals                `json:"payable_totals"`
	PayableOpen       float64                                `json:"payable_open"` // sent + awaiting_payment
}

// CandidateOverview is the shared shape of the planner and helper dashboards:
// their applications, their billing, their earnings.
type CandidateOverview struct {
	MyApplications   []applicationapimodels.ApplicationView `json:"my_applications"`
	ReceivableTotals invoiceapimodels.Totals                `json:"receivable_totals"`
	PendingPayout    float64                                `json:"pending_payout"` // sent + awaiting_payment
	TotalEarned      float64                                `json:"total_earned"`   // paid + completed
	OpenRequestCount int64                                  `json:"open_request_count"`
}
