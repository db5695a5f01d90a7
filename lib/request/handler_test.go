package requesthandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bytesandbalance/jovyne-sub000/models"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type fakeRequestStore struct {
	recs       map[string]*dbmodels.Request
	created    []dbmodels.Request
	updates    []map[string]interface{}
	denyUpdate bool
	// raceTo simulates a concurrent writer winning the guarded update
	raceTo models.RequestStatus
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{recs: map[string]*dbmodels.Request{}}
}

func (f *fakeRequestStore) Create(rec dbmodels.Request) (string, error) {
	rec.ID = "req-1"
	f.created = append(f.created, rec)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.Request, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error {
	f.updates = append(f.updates, updMap)
	return nil
}

func (f *fakeRequestStore) UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok || rec.Status != expected || f.denyUpdate {
		if ok && f.raceTo != "" {
			rec.Status = f.raceTo
		}
		return false, nil
	}
	if next, ok := updMap["status"].(models.RequestStatus); ok {
		rec.Status = next
	}
	f.updates = append(f.updates, updMap)
	return true, nil
}

func (f *fakeRequestStore) ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (int64, error) {
	return int64(len(f.recs)), nil
}

func (f *fakeRequestStore) List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) ([]dbmodels.Request, error) {
	list := []dbmodels.Request{}
	for _, rec := range f.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeRequestStore) CountOpen(kind models.RequestKind) (int64, error) {
	return 0, nil
}

func TestDeriveHours(t *testing.T) {
	t.Run(`both bounds`, func(t *testing.T) {
		hours, warning := DeriveHours("14:00", "16:30")
		require.Equal(t, 2.5, hours)
		require.Empty(t, warning)
	})

	t.Run(`no bounds`, func(t *testing.T) {
		hours, warning := DeriveHours("", "")
		require.Equal(t, 0.0, hours)
		require.Empty(t, warning)
	})

	t.Run(`single bound falls back to the default`, func(t *testing.T) {
		hours, _ := DeriveHours("14:00", "")
		require.Equal(t, models.DefaultEngagementHours, hours)
		hours, _ = DeriveHours("", "16:30")
		require.Equal(t, models.DefaultEngagementHours, hours)
	})

	t.Run(`end before start yields zero and a warning`, func(t *testing.T) {
		hours, warning := DeriveHours("18:00", "09:00")
		require.Equal(t, 0.0, hours)
		require.NotEmpty(t, warning)
	})

	t.Run(`end equal to start yields zero and a warning`, func(t *testing.T) {
		hours, warning := DeriveHours("12:00", "12:00")
		require.Equal(t, 0.0, hours)
		require.NotEmpty(t, warning)
	})
}

func validRequestData(kind models.RequestKind) requestapimodels.RequestData {
	return requestapimodels.RequestData{
		Kind:        kind,
		Title:       "Wedding bar staff",
		Description: "Two bartenders for the evening",
		Location:    "Berlin",
		EventDate:   time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		StartTime:   "14:00",
		EndTime:     "18:00",
		HourlyRate:  25,
	}
}

func TestRequestCreate(t *testing.T) {
	t.Run(`client posts a helper request`, func(t *testing.T) {
		store := newFakeRequestStore()
		h := impl{store: store}
		ref := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
		id, warning, err := h.Create(ref, validRequestData(models.RequestKindHelper))
		require.Nil(t, err)
		require.Empty(t, warning)
		require.NotEmpty(t, id)
		rec := store.created[0]
		require.Equal(t, models.RequestStatusOpen, rec.Status)
		require.Equal(t, 4.0, rec.Hours)
		require.Equal(t, 1, rec.Positions)
		require.NotNil(t, rec.ClientID)
		require.Equal(t, "c1", *rec.ClientID)
	})

	t.Run(`planner may request helpers but not planners`, func(t *testing.T) {
		store := newFakeRequestStore()
		h := impl{store: store}
		ref := models.RoleRef{Kind: models.RoleKindPlanner, RoleID: "p1"}
		_, _, err := h.Create(ref, validRequestData(models.RequestKindHelper))
		require.Nil(t, err)
		_, _, err = h.Create(ref, validRequestData(models.RequestKindPlanner))
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`helper cannot post requests`, func(t *testing.T) {
		h := impl{store: newFakeRequestStore()}
		ref := models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}
		_, _, err := h.Create(ref, validRequestData(models.RequestKindHelper))
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`collapsed schedule returns a warning, record still created`, func(t *testing.T) {
		store := newFakeRequestStore()
		h := impl{store: store}
		data := validRequestData(models.RequestKindHelper)
		data.StartTime = "18:00"
		data.EndTime = "09:00"
		ref := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
		id, warning, err := h.Create(ref, data)
		require.Nil(t, err)
		require.NotEmpty(t, warning)
		require.NotEmpty(t, id)
		require.Equal(t, 0.0, store.created[0].Hours)
	})

	t.Run(`incomplete payload is rejected before it reaches the store`, func(t *testing.T) {
		store := newFakeRequestStore()
		h := impl{store: store}
		ref := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
		_, _, err := h.Create(ref, requestapimodels.RequestData{Kind: models.RequestKindHelper})
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeValidation))
		require.Empty(t, store.created)
	})

	t.Run(`positions survive as given`, func(t *testing.T) {
		store := newFakeRequestStore()
		h := impl{store: store}
		data := validRequestData(models.RequestKindHelper)
		data.Positions = 3
		ref := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
		_, _, err := h.Create(ref, data)
		require.Nil(t, err)
		require.Equal(t, 3, store.created[0].Positions)
	})
}

func TestRequestCancel(t *testing.T) {
	owner := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
	makeStore := func(status models.RequestStatus) *fakeRequestStore {
		store := newFakeRequestStore()
		clientID := "c1"
		rec := dbmodels.Request{
			Kind:     models.RequestKindHelper,
			ClientID: &clientID,
			Title:    "Catering help",
			Status:   status,
		}
		rec.ID = "req-1"
		store.recs[rec.ID] = &rec
		return store
	}

	t.Run(`owner cancels an open request`, func(t *testing.T) {
		store := makeStore(models.RequestStatusOpen)
		h := impl{store: store}
		hMsg, err := h.Cancel(owner, "req-1")
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.RequestStatusCancelled, store.recs["req-1"].Status)
	})

	t.Run(`repeat cancel is a no-op`, func(t *testing.T) {
		store := makeStore(models.RequestStatusCancelled)
		h := impl{store: store}
		hMsg, err := h.Cancel(owner, "req-1")
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
	})

	t.Run(`non-owner is rejected`, func(t *testing.T) {
		store := makeStore(models.RequestStatusOpen)
		h := impl{store: store}
		stranger := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c2"}
		_, err := h.Cancel(stranger, "req-1")
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`filled request cannot be cancelled`, func(t *testing.T) {
		store := makeStore(models.RequestStatusFilled)
		h := impl{store: store}
		_, err := h.Cancel(owner, "req-1")
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeValidation))
	})

	t.Run(`lost race against another cancel is idempotent`, func(t *testing.T) {
		store := makeStore(models.RequestStatusOpen)
		store.denyUpdate = true
		store.raceTo = models.RequestStatusCancelled
		h := impl{store: store}
		hMsg, err := h.Cancel(owner, "req-1")
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestRequestCancelConflict(t *testing.T) {
	owner := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
	store := newFakeRequestStore()
	clientID := "c1"
	rec := dbmodels.Request{Kind: models.RequestKindHelper, ClientID: &clientID, Status: models.RequestStatusOpen}
	rec.ID = "req-1"
	store.recs[rec.ID] = &rec
	store.denyUpdate = true
	h := impl{store: store}
	_, err := h.Cancel(owner, "req-1")
	require.True(t, models.IsConflict(err))
}
