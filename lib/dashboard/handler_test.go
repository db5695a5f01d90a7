package dashboardhandler

import (
	"testing"

	"github.com/stretchr/testify/require"

	invoicestore "github.com/bytesandbalance/jovyne-sub000/lib/invoice/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type fakeRequestStore struct {
	recs      []dbmodels.Request
	openCount int64
}

func (f *fakeRequestStore) Create(rec dbmodels.Request) (string, error) { return rec.ID, nil }

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.Request, error) {
	for idx := range f.recs {
		if f.recs[idx].ID == id {
			clone := f.recs[idx]
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeRequestStore) UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}

func (f *fakeRequestStore) ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (int64, error) {
	return int64(len(f.recs)), nil
}

func (f *fakeRequestStore) List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) ([]dbmodels.Request, error) {
	return f.recs, nil
}

func (f *fakeRequestStore) CountOpen(kind models.RequestKind) (int64, error) {
	return f.openCount, nil
}

type fakeAppStore struct {
	byRequest   map[string][]dbmodels.Application
	byCandidate []dbmodels.Application
}

func (f *fakeAppStore) Create(rec dbmodels.Application) (string, error) { return rec.ID, nil }

func (f *fakeAppStore) GetByID(id string) (*dbmodels.Application, error) { return nil, nil }

func (f *fakeAppStore) GetActiveByCandidate(requestID string, candidate models.RoleRef) (*dbmodels.Application, error) {
	return nil, nil
}

func (f *fakeAppStore) ListByRequest(requestID string) ([]dbmodels.Application, error) {
	return f.byRequest[requestID], nil
}

func (f *fakeAppStore) ListByCandidate(candidate models.RoleRef) ([]dbmodels.Application, error) {
	return f.byCandidate, nil
}

func (f *fakeAppStore) ListPendingByRequest(requestID string) ([]dbmodels.Application, error) {
	pending := []dbmodels.Application{}
	for _, rec := range f.byRequest[requestID] {
		if rec.Status == models.ApplicationStatusPending {
			pending = append(pending, rec)
		}
	}
	return pending, nil
}

func (f *fakeAppStore) UpdateWithStatus(id string, expected models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}

// fakeInvoices stubs the invoice handler with canned per-side totals.
type fakeInvoices struct {
	totals map[invoicestore.Side]invoiceapimodels.Totals
}

func (f fakeInvoices) Create(ref models.RoleRef, data invoiceapimodels.InvoiceData) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) GetByID(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, error) {
	return invoiceapimodels.InvoiceView{}, nil
}

func (f fakeInvoices) Send(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) Acknowledge(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) MarkPaid(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) Complete(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) Cancel(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return invoiceapimodels.InvoiceView{}, "", nil
}

func (f fakeInvoices) ListForPayer(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error) {
	return nil, 0, nil
}

func (f fakeInvoices) ListForPayee(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error) {
	return nil, 0, nil
}

func (f fakeInvoices) ListAllForPayee(ref models.RoleRef) ([]invoiceapimodels.InvoiceView, error) {
	return nil, nil
}

func (f fakeInvoices) Totals(side invoicestore.Side, ref models.RoleRef) (invoiceapimodels.Totals, error) {
	return f.totals[side], nil
}

func totalsOf(pairs map[models.InvoiceStatus]float64) invoiceapimodels.Totals {
	totals := invoiceapimodels.Totals{
		ByStatus: map[models.InvoiceStatus]invoiceapimodels.StatusTotal{},
	}
	for status, amount := range pairs {
		totals.ByStatus[status] = invoiceapimodels.StatusTotal{Amount: amount, Count: 1}
	}
	return totals
}

func strPtr(s string) *string { return &s }

func TestClientOverview(t *testing.T) {
	ref := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
	requests := &fakeRequestStore{recs: []dbmodels.Request{
		{
			BaseModel: dbmodels.BaseModel{ID: "req-1"},
			Kind:      models.RequestKindHelper,
			ClientID:  strPtr("c1"),
			Title:     "Bar staff",
			Status:    models.RequestStatusOpen,
		},
	}}
	apps := &fakeAppStore{byRequest: map[string][]dbmodels.Application{
		"req-1": {
			{BaseModel: dbmodels.BaseModel{ID: "app-1"}, RequestID: "req-1", Status: models.ApplicationStatusPending},
			{BaseModel: dbmodels.BaseModel{ID: "app-2"}, RequestID: "req-1", Status: models.ApplicationStatusRejected},
		},
	}}
	invoices := fakeInvoices{totals: map[invoicestore.Side]invoiceapimodels.Totals{
		invoicestore.SidePayer: totalsOf(map[models.InvoiceStatus]float64{
			models.InvoiceStatusSentToPayer:     100,
			models.InvoiceStatusAwaitingPayment: 50.5,
			models.InvoiceStatusPaid:            300,
		}),
	}}
	h := impl{requestStore: requests, appStore: apps, invoices: invoices}

	view, err := h.ClientOverview(ref)
	require.Nil(t, err)
	require.Len(t, view.OpenRequests, 1)
	require.Equal(t, "req-1", view.OpenRequests[0].ID)
	// only the pending application surfaces on the dashboard
	require.Len(t, view.PendingApplicants, 1)
	require.Equal(t, "app-1", view.PendingApplicants[0].ID)
	require.Equal(t, 150.5, view.PayableOpen)
	require.Equal(t, 300.0, view.PayableTotals.Amount(models.InvoiceStatusPaid))
}

func TestCandidateOverview(t *testing.T) {
	ref := models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}
	requests := &fakeRequestStore{openCount: 7}
	apps := &fakeAppStore{byCandidate: []dbmodels.Application{
		{BaseModel: dbmodels.BaseModel{ID: "app-1"}, RequestID: "req-1", Status: models.ApplicationStatusPending},
		{BaseModel: dbmodels.BaseModel{ID: "app-2"}, RequestID: "req-2", Status: models.ApplicationStatusApproved},
	}}
	invoices := fakeInvoices{totals: map[invoicestore.Side]invoiceapimodels.Totals{
		invoicestore.SidePayee: totalsOf(map[models.InvoiceStatus]float64{
			models.InvoiceStatusSentToPayer: 80,
			models.InvoiceStatusPaid:        120,
			models.InvoiceStatusCompleted:   200,
		}),
	}}
	h := impl{requestStore: requests, appStore: apps, invoices: invoices}

	view, err := h.HelperOverview(ref)
	require.Nil(t, err)
	require.Len(t, view.MyApplications, 2)
	require.Equal(t, 80.0, view.PendingPayout)
	require.Equal(t, 320.0, view.TotalEarned)
	require.Equal(t, int64(7), view.OpenRequestCount)
}
