package notifyhandler

import (
	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	applicationstore "github.com/bytesandbalance/jovyne-sub000/lib/application/store"
	notifystore "github.com/bytesandbalance/jovyne-sub000/lib/notify/store"
	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
	"github.com/bytesandbalance/jovyne-sub000/lib/smtp"
	"github.com/bytesandbalance/jovyne-sub000/models"
	notificationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/notification"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	// Send is fire-and-forget: delivery failures are logged and never affect
	// the transition that triggered them.
	Send(ref models.RoleRef, code models.NotifyCode, detail string)
	// NotifyApplicantsOfRequest fans a request-level event out to every
	// candidate holding a non-rejected application on it.
	NotifyApplicantsOfRequest(requestID string, code models.NotifyCode, detail string)
	List(ref models.RoleRef, unreadOnly bool) (list []notificationapimodels.NotificationView, err error)
	MarkRead(ref models.RoleRef, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:            notifystore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		roleHandler:      rolehandler.Instance,
	}
}

type impl struct {
	store            notifystore.Provider
	applicationStore applicationstore.Provider
	roleHandler      rolehandler.Provider
}

func (i impl) getLogger(ref models.RoleRef, code models.NotifyCode) *log.Entry {
	return log.
		WithField("role_id", ref.RoleID).
		WithField("event_code", code)
}

func (i impl) Send(ref models.RoleRef, code models.NotifyCode, detail string) {
	logger := i.getLogger(ref, code)
	if ref.IsZero() {
		logger.Error("notification without a recipient")
		return
	}
	rec := dbmodels.Notification{
		RoleID:   ref.RoleID,
		RoleKind: ref.Kind,
		Code:     code,
		Title:    code.Title(),
		Body:     detail,
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("notification persist failed")
		return
	}
	if i.roleHandler == nil {
		return
	}
	email, emailNotify, err := i.roleHandler.ContactEmail(ref)
	if err != nil {
		logger.WithError(err).Error("recipient email lookup failed")
		return
	}
	if !emailNotify || smtp.Instance == nil {
		return
	}
	if err = smtp.Instance.SendEMail(email, code.Title(), detail); err != nil {
		logger.WithError(err).Error("notification email failed")
	}
}

func (i impl) NotifyApplicantsOfRequest(requestID string, code models.NotifyCode, detail string) {
	logger := log.
		WithField("request_id", requestID).
		WithField("event_code", code)
	recList, err := i.applicationStore.ListByRequest(requestID)
	if err != nil {
		logger.WithError(err).Error("applicant list fetch failed")
		return
	}
	for _, rec := range recList {
		if rec.Status == models.ApplicationStatusRejected {
			continue
		}
		i.Send(rec.CandidateRef(), code, detail)
	}
}

func (i impl) List(ref models.RoleRef, unreadOnly bool) ([]notificationapimodels.NotificationView, error) {
	recList, err := i.store.ListByRole(ref.RoleID, unreadOnly)
	if err != nil {
		i.getLogger(ref, "").WithError(err).Error("notification list query failed")
		return nil, err
	}
	result := make([]notificationapimodels.NotificationView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, notificationapimodels.NotificationConvert(rec))
	}
	return result, nil
}

func (i impl) MarkRead(ref models.RoleRef, id string) error {
	return i.store.MarkRead(ref.RoleID, id)
}
