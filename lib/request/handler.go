package requesthandler

import (
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	requeststore "github.com/bytesandbalance/jovyne-sub000/lib/request/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	Create(ref models.RoleRef, data requestapimodels.RequestData) (id string, hMsg string, err error)
	GetByID(id string) (item requestapimodels.RequestView, err error)
	ListOpen(filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error)
	ListMy(ref models.RoleRef, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error)
	Cancel(ref models.RoleRef, id string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:  requeststore.NewInstance(db.DB),
		notify: notifyhandler.Instance,
	}
}

type impl struct {
	store  requeststore.Provider
	notify notifyhandler.Provider
}

// DeriveHours computes the engagement duration from optional "15:04" bounds.
// A single bound falls back to models.DefaultEngagementHours; end before or at
// start yields zero hours and a warning for the caller.
func DeriveHours(startTime, endTime string) (hours float64, warning string) {
	if startTime == "" && endTime == "" {
		return 0, ""
	}
	if startTime == "" || endTime == "" {
		return models.DefaultEngagementHours, ""
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return models.DefaultEngagementHours, ""
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return models.DefaultEngagementHours, ""
	}
	diff := end.Sub(start).Hours()
	if diff <= 0 {
		return 0, "end time is not after start time, duration set to 0 hours"
	}
	return diff, ""
}

func (i impl) getLogger(ref models.RoleRef, recID string) *log.Entry {
	return log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind).
		WithField("rec_id", recID)
}

func (i impl) checkRequesterAllowed(ref models.RoleRef, kind models.RequestKind) error {
	switch ref.Kind {
	case models.RoleKindClient:
		return nil
	case models.RoleKindPlanner:
		// planners staff their events with helpers but cannot request planners
		if kind == models.RequestKindHelper {
			return nil
		}
		return models.NewForbiddenError("planners cannot post planner requests")
	}
	return models.NewForbiddenError("%v cannot post requests", ref.Kind.ToHuman())
}

func (i impl) Create(ref models.RoleRef, data requestapimodels.RequestData) (string, string, error) {
	logger := i.getLogger(ref, "")
	if err := data.Validate(); err != nil {
		return "", "", err
	}
	if err := i.checkRequesterAllowed(ref, data.Kind); err != nil {
		logger.WithError(err).Warn("request creation forbidden")
		return "", "", err
	}
	hours, warning := DeriveHours(data.StartTime, data.EndTime)
	rec := dbmodels.Request{
		Kind:        data.Kind,
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		EventDate:   data.EventDate,
		Hours:       hours,
		HourlyRate:  data.HourlyRate,
		Budget:      data.Budget,
		Skills:      pq.StringArray(data.Skills),
		Positions:   data.Positions,
		Status:      models.RequestStatusOpen,
	}
	if rec.Positions == 0 {
		rec.Positions = 1
	}
	if data.StartTime != "" {
		rec.StartTime = &data.StartTime
	}
	if data.EndTime != "" {
		rec.EndTime = &data.EndTime
	}
	switch ref.Kind {
	case models.RoleKindClient:
		rec.ClientID = &ref.RoleID
	case models.RoleKindPlanner:
		rec.PlannerID = &ref.RoleID
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("request creation failed")
		return "", "", err
	}
	logger.
		WithField("rec_id", id).
		Info("request created")
	return id, warning, nil
}

func (i impl) GetByID(id string) (requestapimodels.RequestView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	return requestapimodels.RequestConvert(*rec), nil
}

func (i impl) ListOpen(filter requestapimodels.RequestFilter) ([]requestapimodels.RequestView, int64, error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = []models.RequestStatus{models.RequestStatusOpen, models.RequestStatusInReview}
	}
	return i.list(filter, nil)
}

func (i impl) ListMy(ref models.RoleRef, filter requestapimodels.RequestFilter) ([]requestapimodels.RequestView, int64, error) {
	return i.list(filter, &ref)
}

func (i impl) list(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) ([]requestapimodels.RequestView, int64, error) {
	rowCount, err := i.store.ListCount(filter, ownerRef)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []requestapimodels.RequestView{}, rowCount, nil
	}
	recList, err := i.store.List(filter, ownerRef)
	if err != nil {
		log.WithError(err).Error("request list query failed")
		return nil, 0, err
	}
	result := make([]requestapimodels.RequestView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, requestapimodels.RequestConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Cancel(ref models.RoleRef, id string) (string, error) {
	logger := i.getLogger(ref, id)
	rec, err := i.getRec(id)
	if err != nil {
		return "", err
	}
	if !rec.RequesterRef().Is(ref.Kind, ref.RoleID) {
		logger.Warn("cancel attempt by non-owner")
		return "", models.NewForbiddenError("only the requester may cancel the request")
	}
	if rec.Status == models.RequestStatusCancelled {
		return "request is already cancelled", nil
	}
	if !rec.Status.AllowCancel() {
		return "", models.NewValidationError("request in status %v cannot be cancelled", rec.Status.ToHuman())
	}
	updated, err := i.store.UpdateWithStatus(id, rec.Status, map[string]interface{}{
		"status": models.RequestStatusCancelled,
	})
	if err != nil {
		logger.WithError(err).Error("request cancellation failed")
		return "", err
	}
	if !updated {
		// lost the race; whoever won decides the outcome
		fresh, err := i.getRec(id)
		if err != nil {
			return "", err
		}
		if fresh.Status == models.RequestStatusCancelled {
			return "request is already cancelled", nil
		}
		return "", models.NewConflictError("request")
	}
	logger.Info("request cancelled")
	if i.notify != nil {
		i.notify.NotifyApplicantsOfRequest(id, models.NotifyRequestCancelled, rec.Title)
	}
	return "", nil
}

func (i impl) getRec(id string) (*dbmodels.Request, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.
			WithField("rec_id", id).
			WithError(err).
			Error("request fetch failed")
		return nil, err
	}
	if rec == nil {
		return nil, models.NewNotFoundError("request")
	}
	return rec, nil
}
