package invoicehandler

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	invoicestore "github.com/bytesandbalance/jovyne-sub000/lib/invoice/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
	roleapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/role"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type fakeInvoiceStore struct {
	recs map[string]*dbmodels.Invoice
	seq  int
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{recs: map[string]*dbmodels.Invoice{}}
}

func (f *fakeInvoiceStore) Create(rec dbmodels.Invoice) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("inv-%d", f.seq)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeInvoiceStore) GetByID(id string) (*dbmodels.Invoice, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeInvoiceStore) GetByApplication(applicationID string) (*dbmodels.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceStore) UpdateWithStatus(id string, expected models.InvoiceStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok || rec.Status != expected {
		return false, nil
	}
	if next, ok := updMap["status"].(models.InvoiceStatus); ok {
		rec.Status = next
	}
	if amount, ok := updMap["amount"].(float64); ok {
		rec.Amount = amount
	}
	if stamp, ok := updMap["sent_at"].(time.Time); ok {
		rec.SentAt = &stamp
	}
	if stamp, ok := updMap["paid_at"].(time.Time); ok {
		rec.PaidAt = &stamp
	}
	if stamp, ok := updMap["completed_at"].(time.Time); ok {
		rec.CompletedAt = &stamp
	}
	return true, nil
}

func (f *fakeInvoiceStore) ListCount(side invoicestore.Side, roleID string, filter invoiceapimodels.InvoiceFilter) (int64, error) {
	return int64(len(f.recs)), nil
}

func (f *fakeInvoiceStore) List(side invoicestore.Side, roleID string, filter invoiceapimodels.InvoiceFilter) ([]dbmodels.Invoice, error) {
	list := []dbmodels.Invoice{}
	for _, rec := range f.recs {
		list = append(list, *rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if offset >= len(list) {
		return []dbmodels.Invoice{}, nil
	}
	if end := offset + limit; end < len(list) {
		list = list[offset:end]
	} else {
		list = list[offset:]
	}
	return list, nil
}

func (f *fakeInvoiceStore) Totals(side invoicestore.Side, roleID string) ([]dbmodels.StatusTotal, error) {
	byStatus := map[models.InvoiceStatus]*dbmodels.StatusTotal{}
	for _, rec := range f.recs {
		match := rec.PayerID == roleID
		if side == invoicestore.SidePayee {
			match = rec.PayeeID == roleID
		}
		if !match {
			continue
		}
		row, ok := byStatus[rec.Status]
		if !ok {
			row = &dbmodels.StatusTotal{Status: rec.Status}
			byStatus[rec.Status] = row
		}
		row.Total += rec.Amount
		row.Count++
	}
	result := []dbmodels.StatusTotal{}
	for _, row := range byStatus {
		result = append(result, *row)
	}
	return result, nil
}

type fakeRoles struct{}

func (fakeRoles) Resolve(accountID string) (models.RoleRef, error) { return models.RoleRef{}, nil }

func (fakeRoles) GetProfile(ref models.RoleRef) (roleapimodels.ProfileView, error) {
	return roleapimodels.ProfileView{}, nil
}

func (fakeRoles) UpdateProfile(ref models.RoleRef, data roleapimodels.ProfileUpdate) error {
	return nil
}

func (fakeRoles) DisplayName(ref models.RoleRef) (string, error) {
	return string(ref.Kind) + " " + ref.RoleID, nil
}

func (fakeRoles) ContactEmail(ref models.RoleRef) (string, bool, error) { return "", false, nil }

var (
	payer = models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
	payee = models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}
)

func seedInvoice(store *fakeInvoiceStore, status models.InvoiceStatus) string {
	rec := dbmodels.Invoice{
		Number:    "INV-TEST",
		PayerID:   payer.RoleID,
		PayerKind: payer.Kind,
		PayeeID:   payee.RoleID,
		PayeeKind: payee.Kind,
		JobTitle:  "Bar staff",
		Rate:      25,
		Hours:     4,
		Amount:    100,
		Status:    status,
	}
	id, _ := store.Create(rec)
	return id
}

func TestInvoiceCreate(t *testing.T) {
	store := newFakeInvoiceStore()
	h := impl{store: store, roles: fakeRoles{}}

	t.Run(`hourly amount is materialized at creation`, func(t *testing.T) {
		data := invoiceapimodels.InvoiceData{
			PayerID:   payer.RoleID,
			PayerKind: payer.Kind,
			JobTitle:  "Bar staff",
			Rate:      25,
			Hours:     4,
		}
		view, hMsg, err := h.Create(payee, data)
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 100.0, view.Amount)
		require.Equal(t, models.InvoiceStatusDraft, view.Status)
		require.NotEmpty(t, view.Number)
	})

	t.Run(`flat fee ignores hours`, func(t *testing.T) {
		data := invoiceapimodels.InvoiceData{
			PayerID:   payer.RoleID,
			PayerKind: payer.Kind,
			JobTitle:  "Venue planning",
			Rate:      500,
			FlatFee:   true,
		}
		view, _, err := h.Create(payee, data)
		require.Nil(t, err)
		require.Equal(t, 500.0, view.Amount)
	})

	t.Run(`self-billing is rejected`, func(t *testing.T) {
		data := invoiceapimodels.InvoiceData{
			PayerID:   payee.RoleID,
			PayerKind: payee.Kind,
			JobTitle:  "Bar staff",
			Rate:      25,
			Hours:     4,
		}
		_, _, err := h.Create(payee, data)
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeValidation))
	})
}

func TestInvoiceTransitions(t *testing.T) {
	t.Run(`full chain draft to completed`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)

		view, hMsg, err := h.Send(payee, id)
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.InvoiceStatusSentToPayer, view.Status)
		require.NotNil(t, view.SentAt)

		view, _, err = h.Acknowledge(payer, id)
		require.Nil(t, err)
		require.Equal(t, models.InvoiceStatusAwaitingPayment, view.Status)

		view, _, err = h.MarkPaid(payer, id)
		require.Nil(t, err)
		require.Equal(t, models.InvoiceStatusPaid, view.Status)
		require.NotNil(t, view.PaidAt)

		view, _, err = h.Complete(payee, id)
		require.Nil(t, err)
		require.Equal(t, models.InvoiceStatusCompleted, view.Status)
		require.NotNil(t, view.CompletedAt)
	})

	t.Run(`re-send keeps the original timestamp`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)

		first, _, err := h.Send(payee, id)
		require.Nil(t, err)
		second, hMsg, err := h.Send(payee, id)
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, first.SentAt, second.SentAt)
	})

	t.Run(`skipping a step is rejected`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)
		_, _, err := h.MarkPaid(payer, id)
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeInvoiceTransition))
	})

	t.Run(`wrong party is rejected per step`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)

		// payer cannot send, payee cannot acknowledge or pay
		_, _, err := h.Send(payer, id)
		require.True(t, models.IsForbidden(err))
		_, _, err = h.Send(payee, id)
		require.Nil(t, err)
		_, _, err = h.Acknowledge(payee, id)
		require.True(t, models.IsForbidden(err))
		_, _, err = h.Acknowledge(payer, id)
		require.Nil(t, err)
		_, _, err = h.MarkPaid(payee, id)
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`stranger sees nothing`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)
		stranger := models.RoleRef{Kind: models.RoleKindPlanner, RoleID: "p9"}
		_, err := h.GetByID(stranger, id)
		require.True(t, models.IsForbidden(err))
		_, _, err = h.Send(stranger, id)
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`paid marks only once`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusAwaitingPayment)

		first, _, err := h.MarkPaid(payer, id)
		require.Nil(t, err)
		second, hMsg, err := h.MarkPaid(payer, id)
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, first.PaidAt, second.PaidAt)
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run(`payee cancels a draft`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)
		view, hMsg, err := h.Cancel(payee, id)
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.InvoiceStatusCancelled, view.Status)
	})

	t.Run(`payer cannot cancel`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusDraft)
		_, _, err := h.Cancel(payer, id)
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`paid invoice cannot be cancelled`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusPaid)
		_, _, err := h.Cancel(payee, id)
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeInvoiceTransition))
	})

	t.Run(`repeat cancel is a no-op`, func(t *testing.T) {
		store := newFakeInvoiceStore()
		h := impl{store: store, roles: fakeRoles{}}
		id := seedInvoice(store, models.InvoiceStatusCancelled)
		_, hMsg, err := h.Cancel(payee, id)
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestInvoiceListAllForPayee(t *testing.T) {
	store := newFakeInvoiceStore()
	h := impl{store: store, roles: fakeRoles{}}
	for i := 0; i < 237; i++ {
		seedInvoice(store, models.InvoiceStatusSentToPayer)
	}

	list, err := h.ListAllForPayee(payee)
	require.Nil(t, err)
	// the per-page cap is 100, so anything past it proves paging works
	require.Len(t, list, 237)
	seen := map[string]bool{}
	for _, view := range list {
		require.False(t, seen[view.ID])
		seen[view.ID] = true
	}
}

func TestInvoiceTotals(t *testing.T) {
	store := newFakeInvoiceStore()
	h := impl{store: store, roles: fakeRoles{}}
	seedInvoice(store, models.InvoiceStatusSentToPayer)
	seedInvoice(store, models.InvoiceStatusSentToPayer)
	seedInvoice(store, models.InvoiceStatusPaid)

	totals, err := h.Totals(invoicestore.SidePayee, payee)
	require.Nil(t, err)
	require.Equal(t, 200.0, totals.Amount(models.InvoiceStatusSentToPayer))
	require.Equal(t, 100.0, totals.Amount(models.InvoiceStatusPaid))
	require.Equal(t, int64(2), totals.ByStatus[models.InvoiceStatusSentToPayer].Count)
	require.Equal(t, 0.0, totals.Amount(models.InvoiceStatusDraft))
}
