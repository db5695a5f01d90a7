package dashboardhandler

import (
	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	applicationstore "github.com/bytesandbalance/jovyne-sub000/lib/application/store"
	invoicehandler "github.com/bytesandbalance/jovyne-sub000/lib/invoice"
	invoicestore "github.com/bytesandbalance/jovyne-sub000/lib/invoice/store"
	requeststore "github.com/bytesandbalance/jovyne-sub000/lib/request/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	dashboardapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/dashboard"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
)

type Provider interface {
	ClientOverview(ref models.RoleRef) (view dashboardapimodels.ClientOverview, err error)
	// PlannerOverview and HelperOverview share the candidate shape: their
	// applications, their receivables, the open requests they can browse.
	PlannerOverview(ref models.RoleRef) (view dashboardapimodels.CandidateOverview, err error)
	HelperOverview(ref models.RoleRef) (view dashboardapimodels.CandidateOverview, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		requestStore: requeststore.NewInstance(db.DB),
		appStore:     applicationstore.NewInstance(db.DB),
		invoices:     invoicehandler.Instance,
	}
}

type impl struct {
	requestStore requeststore.Provider
	appStore     applicationstore.Provider
	invoices     invoicehandler.Provider
}

func (i impl) ClientOverview(ref models.RoleRef) (dashboardapimodels.ClientOverview, error) {
	logger := log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind)
	filter := requestapimodels.RequestFilter{
		Statuses: []models.RequestStatus{models.RequestStatusOpen, models.RequestStatusInReview},
	}
	filter.Limit = 100
	openRecs, err := i.requestStore.List(filter, &ref)
	if err != nil {
		logger.WithError(err).Error("dashboard request list failed")
		return dashboardapimodels.ClientOverview{}, err
	}
	view := dashboardapimodels.ClientOverview{
		OpenRequests:      make([]requestapimodels.RequestView, 0, len(openRecs)),
		PendingApplicants: []applicationapimodels.ApplicationView{},
	}
	for _, rec := range openRecs {
		view.OpenRequests = append(view.OpenRequests, requestapimodels.RequestConvert(rec))
		pending, err := i.appStore.ListPendingByRequest(rec.ID)
		if err != nil {
			logger.WithError(err).Error("dashboard pending applicants failed")
			return dashboardapimodels.ClientOverview{}, err
		}
		for _, app := range pending {
			view.PendingApplicants = append(view.PendingApplicants, applicationapimodels.ApplicationConvert(app))
		}
	}
	totals, err := i.invoices.Totals(invoicestore.SidePayer, ref)
	if err != nil {
		return dashboardapimodels.ClientOverview{}, err
	}
	view.PayableTotals = totals
	view.PayableOpen = models.Round2(
		totals.Amount(models.InvoiceStatusSentToPayer) +
			totals.Amount(models.InvoiceStatusAwaitingPayment))
	return view, nil
}

func (i impl) PlannerOverview(ref models.RoleRef) (dashboardapimodels.CandidateOverview, error) {
	return i.candidateOverview(ref, models.RequestKindPlanner)
}

func (i impl) HelperOverview(ref models.RoleRef) (dashboardapimodels.CandidateOverview, error) {
	return i.candidateOverview(ref, models.RequestKindHelper)
}

func (i impl) candidateOverview(ref models.RoleRef, browseKind models.RequestKind) (dashboardapimodels.CandidateOverview, error) {
	logger := log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind)
	apps, err := i.appStore.ListByCandidate(ref)
	if err != nil {
		logger.WithError(err).Error("dashboard application list failed")
		return dashboardapimodels.CandidateOverview{}, err
	}
	view := dashboardapimodels.CandidateOverview{
		MyApplications: make([]applicationapimodels.ApplicationView, 0, len(apps)),
	}
	for _, app := range apps {
		view.MyApplications = append(view.MyApplications, applicationapimodels.ApplicationConvert(app))
	}
	totals, err := i.invoices.Totals(invoicestore.SidePayee, ref)
	if err != nil {
		return dashboardapimodels.CandidateOverview{}, err
	}
	view.ReceivableTotals = totals
	view.PendingPayout = models.Round2(
		totals.Amount(models.InvoiceStatusSentToPayer) +
			totals.Amount(models.InvoiceStatusAwaitingPayment))
	view.TotalEarned = models.Round2(
		totals.Amount(models.InvoiceStatusPaid) +
			totals.Amount(models.InvoiceStatusCompleted))
	openCount, err := i.requestStore.CountOpen(browseKind)
	if err != nil {
		logger.WithError(err).Error("dashboard open request count failed")
		return dashboardapimodels.CandidateOverview{}, err
	}
	view.OpenRequestCount = openCount
	return view, nil
}
