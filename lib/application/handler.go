package applicationhandler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	applicationstore "github.com/bytesandbalance/jovyne-sub000/lib/application/store"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	requeststore "github.com/bytesandbalance/jovyne-sub000/lib/request/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	Submit(ref models.RoleRef, requestID string, data applicationapimodels.ApplicationData) (view applicationapimodels.ApplicationView, hMsg string, err error)
	ListForRequest(ownerRef models.RoleRef, requestID string) (list []applicationapimodels.ApplicationView, err error)
	ListMine(ref models.RoleRef) (list []applicationapimodels.ApplicationView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        applicationstore.NewInstance(db.DB),
		requestStore: requeststore.NewInstance(db.DB),
		notify:       notifyhandler.Instance,
	}
}

type impl struct {
	store        applicationstore.Provider
	requestStore requeststore.Provider
	notify       notifyhandler.Provider
}

func (i impl) getLogger(ref models.RoleRef, requestID string) *log.Entry {
	return log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind).
		WithField("request_id", requestID)
}

// Submit files a pending application. A repeated submit on the same request is
// idempotent: the existing non-rejected application is returned untouched.
func (i impl) Submit(ref models.RoleRef, requestID string, data applicationapimodels.ApplicationData) (applicationapimodels.ApplicationView, string, error) {
	logger := i.getLogger(ref, requestID)
	if err := data.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, "", err
	}
	request, err := i.requestStore.GetByID(requestID)
	if err != nil {
		logger.WithError(err).Error("request fetch failed")
		return applicationapimodels.ApplicationView{}, "", err
	}
	if request == nil {
		return applicationapimodels.ApplicationView{}, "", models.NewNotFoundError("request")
	}
	if ref.Kind != request.Kind.CandidateRoleKind() {
		logger.Warn("application by wrong role kind")
		return applicationapimodels.ApplicationView{}, "", models.NewForbiddenError("%v requests accept %v applications only",
			request.Kind, request.Kind.CandidateRoleKind().ToHuman())
	}
	if !request.Status.AcceptsApplications() {
		return applicationapimodels.ApplicationView{}, "", models.NewRequestNotOpenError(request.Status)
	}

	existing, err := i.store.GetActiveByCandidate(requestID, ref)
	if err != nil {
		logger.WithError(err).Error("duplicate check failed")
		return applicationapimodels.ApplicationView{}, "", err
	}
	if existing != nil {
		logger.Info("duplicate application, returning existing record")
		return applicationapimodels.ApplicationConvert(*existing),
			fmt.Sprintf("you already applied to this request on %v", existing.CreatedAt.Format("2006-01-02")),
			nil
	}

	rec := dbmodels.Application{
		Kind:          request.Kind,
		RequestID:     requestID,
		ProposedRate:  data.ProposedRate,
		ProposedHours: data.ProposedHours,
		Message:       data.Message,
		Status:        models.ApplicationStatusPending,
	}
	// proposal defaults come from the request itself
	if rec.ProposedRate == 0 {
		rec.ProposedRate = request.StatedRate()
	}
	if rec.ProposedHours == 0 {
		rec.ProposedHours = request.Hours
	}
	switch ref.Kind {
	case models.RoleKindHelper:
		rec.HelperID = &ref.RoleID
	case models.RoleKindPlanner:
		rec.PlannerID = &ref.RoleID
	}
	id, err := i.store.Create(rec)
	if err != nil {
		// the partial unique index catches a concurrent submit that slipped
		// past the read above; fold it into the idempotent path
		raced, readErr := i.store.GetActiveByCandidate(requestID, ref)
		if readErr == nil && raced != nil {
			logger.Info("duplicate application, returning existing record")
			return applicationapimodels.ApplicationConvert(*raced),
				fmt.Sprintf("you already applied to this request on %v", raced.CreatedAt.Format("2006-01-02")),
				nil
		}
		logger.WithError(err).Error("application creation failed")
		return applicationapimodels.ApplicationView{}, "", err
	}
	logger.
		WithField("rec_id", id).
		Info("application submitted")
	if i.notify != nil {
		i.notify.Send(request.RequesterRef(), models.NotifyApplicationReceived, request.Title)
	}
	created, err := i.store.GetByID(id)
	if err != nil || created == nil {
		// row was written; fall back to the data at hand
		view := applicationapimodels.ApplicationConvert(rec)
		view.ID = id
		view.RequestTitle = request.Title
		return view, "", nil
	}
	return applicationapimodels.ApplicationConvert(*created), "", nil
}

func (i impl) ListForRequest(ownerRef models.RoleRef, requestID string) ([]applicationapimodels.ApplicationView, error) {
	logger := i.getLogger(ownerRef, requestID)
	request, err := i.requestStore.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, models.NewNotFoundError("request")
	}
	if !request.RequesterRef().Is(ownerRef.Kind, ownerRef.RoleID) {
		logger.Warn("application listing by non-owner")
		return nil, models.NewForbiddenError("only the requester may list applications on the request")
	}
	recList, err := i.store.ListByRequest(requestID)
	if err != nil {
		logger.WithError(err).Error("application list query failed")
		return nil, err
	}
	result := make([]applicationapimodels.ApplicationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, applicationapimodels.ApplicationConvert(rec))
	}
	return result, nil
}

func (i impl) ListMine(ref models.RoleRef) ([]applicationapimodels.ApplicationView, error) {
	recList, err := i.store.ListByCandidate(ref)
	if err != nil {
		i.getLogger(ref, "").WithError(err).Error("application list query failed")
		return nil, err
	}
	result := make([]applicationapimodels.ApplicationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, applicationapimodels.ApplicationConvert(rec))
	}
	return result, nil
}
