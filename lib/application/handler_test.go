package applicationhandler

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/bytesandbalance/jovyne-sub000/models"
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type fakeAppStore struct {
	recs map[string]*dbmodels.Application
	seq  int
	// raceRec simulates a concurrent submit landing between the duplicate
	// check and the insert: it surfaces as the unique index failing the
	// insert while the winning row becomes visible
	raceRec *dbmodels.Application
}

func newFakeAppStore() *fakeAppStore {
	return &fakeAppStore{recs: map[string]*dbmodels.Application{}}
}

func (f *fakeAppStore) Create(rec dbmodels.Application) (string, error) {
	if f.raceRec != nil {
		f.recs[f.raceRec.ID] = f.raceRec
		f.raceRec = nil
		return "", errors.New("duplicate key value violates unique constraint")
	}
	f.seq++
	rec.ID = fmt.Sprintf("app-%d", f.seq)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeAppStore) GetByID(id string) (*dbmodels.Application, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeAppStore) GetActiveByCandidate(requestID string, candidate models.RoleRef) (*dbmodels.Application, error) {
	for _, rec := range f.recs {
		if rec.RequestID != requestID || rec.Status == models.ApplicationStatusRejected {
			continue
		}
		if rec.CandidateRef().Is(candidate.Kind, candidate.RoleID) {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAppStore) ListByRequest(requestID string) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	for _, rec := range f.recs {
		if rec.RequestID == requestID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeAppStore) ListByCandidate(candidate models.RoleRef) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	for _, rec := range f.recs {
		if rec.CandidateRef().Is(candidate.Kind, candidate.RoleID) {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeAppStore) ListPendingByRequest(requestID string) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	for _, rec := range f.recs {
		if rec.RequestID == requestID && rec.Status == models.ApplicationStatusPending {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeAppStore) UpdateWithStatus(id string, expected models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok || rec.Status != expected {
		return false, nil
	}
	if next, ok := updMap["status"].(models.ApplicationStatus); ok {
		rec.Status = next
	}
	return true, nil
}

type fakeRequestStore struct {
	recs map[string]*dbmodels.Request
}

func (f *fakeRequestStore) Create(rec dbmodels.Request) (string, error) { return rec.ID, nil }

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.Request, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeRequestStore) UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	return true, nil
}

func (f *fakeRequestStore) ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (int64, error) {
	return 0, nil
}

func (f *fakeRequestStore) List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) ([]dbmodels.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) CountOpen(kind models.RequestKind) (int64, error) { return 0, nil }

func helperRequest(status models.RequestStatus) *fakeRequestStore {
	clientID := "c1"
	rec := dbmodels.Request{
		Kind:       models.RequestKindHelper,
		ClientID:   &clientID,
		Title:      "Bar staff",
		HourlyRate: 25,
		Hours:      4,
		Positions:  1,
		Status:     status,
	}
	rec.ID = "req-1"
	return &fakeRequestStore{recs: map[string]*dbmodels.Request{rec.ID: &rec}}
}

func TestApplicationSubmit(t *testing.T) {
	helper := models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}

	t.Run(`proposal defaults come from the request`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		view, hMsg, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 25.0, view.ProposedRate)
		require.Equal(t, 4.0, view.ProposedHours)
		require.Equal(t, models.ApplicationStatusPending, view.Status)
	})

	t.Run(`explicit proposal wins over the defaults`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		data := applicationapimodels.ApplicationData{ProposedRate: 30, ProposedHours: 3}
		view, _, err := h.Submit(helper, "req-1", data)
		require.Nil(t, err)
		require.Equal(t, 30.0, view.ProposedRate)
		require.Equal(t, 3.0, view.ProposedHours)
	})

	t.Run(`repeat submit returns the existing application`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		first, _, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		second, hMsg, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, first.ID, second.ID)
		require.Len(t, store.recs, 1)
	})

	t.Run(`rejected application does not block a fresh attempt`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		first, _, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		store.recs[first.ID].Status = models.ApplicationStatusRejected
		second, hMsg, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.NotEqual(t, first.ID, second.ID)
	})

	t.Run(`negative proposal is rejected before it reaches the store`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		data := applicationapimodels.ApplicationData{ProposedRate: -5}
		_, _, err := h.Submit(helper, "req-1", data)
		require.True(t, models.IsLifecycleCode(err, models.ErrCodeValidation))
		require.Empty(t, store.recs)
	})

	t.Run(`lost insert race folds into the repeat-submit path`, func(t *testing.T) {
		store := newFakeAppStore()
		h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
		helperID := helper.RoleID
		winner := &dbmodels.Application{
			RequestID: "req-1",
			HelperID:  &helperID,
			Status:    models.ApplicationStatusPending,
		}
		winner.ID = "app-winner"
		winner.CreatedAt = time.Now()
		store.raceRec = winner

		view, hMsg, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
		require.Nil(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, "app-winner", view.ID)
		require.Len(t, store.recs, 1)
	})

	t.Run(`wrong role kind is rejected`, func(t *testing.T) {
		h := impl{store: newFakeAppStore(), requestStore: helperRequest(models.RequestStatusOpen)}
		planner := models.RoleRef{Kind: models.RoleKindPlanner, RoleID: "p1"}
		_, _, err := h.Submit(planner, "req-1", applicationapimodels.ApplicationData{})
		require.True(t, models.IsForbidden(err))
	})

	t.Run(`closed request rejects applications`, func(t *testing.T) {
		for _, status := range []models.RequestStatus{
			models.RequestStatusFilled,
			models.RequestStatusCancelled,
		} {
			h := impl{store: newFakeAppStore(), requestStore: helperRequest(status)}
			_, _, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
			require.True(t, models.IsLifecycleCode(err, models.ErrCodeRequestNotOpen), string(status))
		}
	})

	t.Run(`unknown request`, func(t *testing.T) {
		h := impl{store: newFakeAppStore(), requestStore: helperRequest(models.RequestStatusOpen)}
		_, _, err := h.Submit(helper, "missing", applicationapimodels.ApplicationData{})
		require.True(t, models.IsNotFound(err))
	})
}

func TestApplicationListForRequest(t *testing.T) {
	helper := models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}
	owner := models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}
	store := newFakeAppStore()
	h := impl{store: store, requestStore: helperRequest(models.RequestStatusOpen)}
	_, _, err := h.Submit(helper, "req-1", applicationapimodels.ApplicationData{})
	require.Nil(t, err)

	t.Run(`owner sees the applications`, func(t *testing.T) {
		list, err := h.ListForRequest(owner, "req-1")
		require.Nil(t, err)
		require.Len(t, list, 1)
	})

	t.Run(`candidate cannot list another requester's applications`, func(t *testing.T) {
		_, err := h.ListForRequest(helper, "req-1")
		require.True(t, models.IsForbidden(err))
	})
}
