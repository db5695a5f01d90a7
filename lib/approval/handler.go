package approvalhandler

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bytesandbalance/jovyne-sub000/db"
	applicationstore "github.com/bytesandbalance/jovyne-sub000/lib/application/store"
	invoicestore "github.com/bytesandbalance/jovyne-sub000/lib/invoice/store"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	requeststore "github.com/bytesandbalance/jovyne-sub000/lib/request/store"
	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
	"github.com/bytesandbalance/jovyne-sub000/models"
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	// Approve moves a pending application to approved and runs the linked side
	// effects in one transaction: the request fill counter, the quota close
	// with sibling rejection, and the draft invoice. Calling it again on a
	// decided application returns the current state with AlreadyDecided set
	// and never seeds a second invoice.
	Approve(ref models.RoleRef, applicationID string) (result applicationapimodels.DecisionView, hMsg string, err error)
	Reject(ref models.RoleRef, applicationID string) (result applicationapimodels.DecisionView, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		appStore:     applicationstore.NewInstance(db.DB),
		requestStore: requeststore.NewInstance(db.DB),
		invoiceStore: invoicestore.NewInstance(db.DB),
		roles:        rolehandler.Instance,
		notify:       notifyhandler.Instance,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		txStores: func(tx *gorm.DB) (applicationstore.Provider, requeststore.Provider, invoicestore.Provider) {
			return applicationstore.NewInstance(tx), requeststore.NewInstance(tx), invoicestore.NewInstance(tx)
		},
	}
}

type impl struct {
	appStore     applicationstore.Provider
	requestStore requeststore.Provider
	invoiceStore invoicestore.Provider
	roles        rolehandler.Provider
	notify       notifyhandler.Provider
	// runTx and txStores scope the approval side effects to one transaction
	runTx    func(fn func(tx *gorm.DB) error) error
	txStores func(tx *gorm.DB) (applicationstore.Provider, requeststore.Provider, invoicestore.Provider)
}

func (i impl) getLogger(ref models.RoleRef, applicationID string) *log.Entry {
	return log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind).
		WithField("application_id", applicationID)
}

// loadForDecision fetches the application and checks that ref owns the parent
// request. Both decisions share this gate.
func (i impl) loadForDecision(ref models.RoleRef, applicationID string) (*dbmodels.Application, error) {
	rec, err := i.appStore.GetByID(applicationID)
	if err != nil {
		i.getLogger(ref, applicationID).WithError(err).Error("application fetch failed")
		return nil, err
	}
	if rec == nil {
		return nil, models.NewNotFoundError("application")
	}
	if rec.Request == nil {
		return nil, models.NewNotFoundError("request")
	}
	owner := rec.Request.RequesterRef()
	if !owner.Is(ref.Kind, ref.RoleID) {
		i.getLogger(ref, applicationID).Warn("decision attempt by non-owner")
		return nil, models.NewForbiddenError("only the requester may decide on applications")
	}
	return rec, nil
}

// decidedView builds the idempotent result for an application that already
// carries a terminal status, attaching the invoice seeded by the first call.
func (i impl) decidedView(rec *dbmodels.Application) (applicationapimodels.DecisionView, error) {
	result := applicationapimodels.DecisionView{
		Application:    applicationapimodels.ApplicationConvert(*rec),
		AlreadyDecided: true,
	}
	if rec.Status != models.ApplicationStatusApproved {
		return result, nil
	}
	invoice, err := i.invoiceStore.GetByApplication(rec.ID)
	if err != nil {
		return result, err
	}
	if invoice != nil {
		result.InvoiceID = invoice.ID
	}
	if rec.Request != nil {
		result.RequestClosed = rec.Request.Status.IsTerminal() ||
			rec.Request.Status == models.FulfilledStatus(rec.Kind)
	}
	return result, nil
}

func (i impl) Approve(ref models.RoleRef, applicationID string) (applicationapimodels.DecisionView, string, error) {
	logger := i.getLogger(ref, applicationID)
	rec, err := i.loadForDecision(ref, applicationID)
	if err != nil {
		return applicationapimodels.DecisionView{}, "", err
	}
	if rec.Status.IsTerminal() {
		result, err := i.decidedView(rec)
		return result, "application is already decided", err
	}
	request := rec.Request
	if !request.Status.AcceptsApplications() {
		return applicationapimodels.DecisionView{}, "", models.NewRequestNotOpenError(request.Status)
	}

	// payer and payee names are denormalized onto the invoice so payment views
	// survive later profile edits
	payer := request.RequesterRef()
	payee := rec.CandidateRef()
	payerName, err := i.roles.DisplayName(payer)
	if err != nil {
		logger.WithError(err).Error("payer lookup failed")
		return applicationapimodels.DecisionView{}, "", err
	}
	payeeName, err := i.roles.DisplayName(payee)
	if err != nil {
		logger.WithError(err).Error("payee lookup failed")
		return applicationapimodels.DecisionView{}, "", err
	}

	now := time.Now()
	flatFee := rec.Kind == models.RequestKindPlanner
	invoice := dbmodels.Invoice{
		Number:        models.NewInvoiceNumber(),
		ApplicationID: &rec.ID,
		RequestID:     &request.ID,
		PayerID:       payer.RoleID,
		PayerKind:     payer.Kind,
		PayeeID:       payee.RoleID,
		PayeeKind:     payee.Kind,
		PayerName:     payerName,
		PayeeName:     payeeName,
		JobTitle:      request.Title,
		Rate:          rec.ProposedRate,
		Hours:         rec.ProposedHours,
		FlatFee:       flatFee,
		Amount:        models.InvoiceAmount(rec.ProposedRate, rec.ProposedHours, flatFee),
		Status:        models.InvoiceStatusDraft,
	}

	var (
		raced        bool
		closed       bool
		supersededID []models.RoleRef
		invoiceID    string
	)
	err = i.runTx(func(tx *gorm.DB) error {
		txApps, txRequests, txInvoices := i.txStores(tx)

		updated, err := txApps.UpdateWithStatus(rec.ID, models.ApplicationStatusPending, map[string]interface{}{
			"status":      models.ApplicationStatusApproved,
			"reviewed_at": now,
		})
		if err != nil {
			return err
		}
		if !updated {
			raced = true
			return nil
		}

		if err := txRequests.Update(request.ID, map[string]interface{}{
			"filled_count": gorm.Expr("filled_count + 1"),
		}); err != nil {
			return err
		}
		fresh, err := txRequests.GetByID(request.ID)
		if err != nil {
			return err
		}
		if fresh != nil && fresh.FilledCount >= fresh.Positions {
			closed = true
			if _, err := txRequests.UpdateWithStatus(request.ID, fresh.Status, map[string]interface{}{
				"status": models.FulfilledStatus(request.Kind),
			}); err != nil {
				return err
			}
			// remaining pending siblings lose their seat once the quota is met
			pending, err := txApps.ListPendingByRequest(request.ID)
			if err != nil {
				return err
			}
			for _, sibling := range pending {
				if sibling.ID == rec.ID {
					continue
				}
				updated, err := txApps.UpdateWithStatus(sibling.ID, models.ApplicationStatusPending, map[string]interface{}{
					"status":      models.ApplicationStatusRejected,
					"reviewed_at": now,
				})
				if err != nil {
					return err
				}
				if updated {
					supersededID = append(supersededID, sibling.CandidateRef())
				}
			}
		}

		invoiceID, err = txInvoices.Create(invoice)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("approval transaction failed")
		return applicationapimodels.DecisionView{}, "", err
	}
	if raced {
		fresh, err := i.appStore.GetByID(rec.ID)
		if err != nil || fresh == nil {
			return applicationapimodels.DecisionView{}, "", err
		}
		result, err := i.decidedView(fresh)
		return result, "application is already decided", err
	}

	logger.
		WithField("invoice_id", invoiceID).
		WithField("request_closed", closed).
		Info("application approved")
	if i.notify != nil {
		i.notify.Send(payee, models.NotifyApplicationApproved, request.Title)
		for _, loser := range supersededID {
			i.notify.Send(loser, models.NotifyApplicationSuperseded, request.Title)
		}
		if closed {
			i.notify.Send(payer, models.NotifyRequestFilled, request.Title)
		}
	}

	fresh, err := i.appStore.GetByID(rec.ID)
	if err != nil {
		return applicationapimodels.DecisionView{}, "", err
	}
	result := applicationapimodels.DecisionView{
		RequestClosed: closed,
		InvoiceID:     invoiceID,
	}
	if fresh != nil {
		result.Application = applicationapimodels.ApplicationConvert(*fresh)
	}
	return result, "", nil
}

func (i impl) Reject(ref models.RoleRef, applicationID string) (applicationapimodels.DecisionView, string, error) {
	logger := i.getLogger(ref, applicationID)
	rec, err := i.loadForDecision(ref, applicationID)
	if err != nil {
		return applicationapimodels.DecisionView{}, "", err
	}
	if rec.Status.IsTerminal() {
		result, err := i.decidedView(rec)
		return result, "application is already decided", err
	}

	updated, err := i.appStore.UpdateWithStatus(rec.ID, models.ApplicationStatusPending, map[string]interface{}{
		"status":      models.ApplicationStatusRejected,
		"reviewed_at": time.Now(),
	})
	if err != nil {
		logger.WithError(err).Error("application rejection failed")
		return applicationapimodels.DecisionView{}, "", err
	}
	if !updated {
		fresh, err := i.appStore.GetByID(rec.ID)
		if err != nil || fresh == nil {
			return applicationapimodels.DecisionView{}, "", err
		}
		result, err := i.decidedView(fresh)
		return result, "application is already decided", err
	}

	logger.Info("application rejected")
	if i.notify != nil {
		i.notify.Send(rec.CandidateRef(), models.NotifyApplicationRejected, rec.Request.Title)
	}
	fresh, err := i.appStore.GetByID(rec.ID)
	if err != nil {
		return applicationapimodels.DecisionView{}, "", err
	}
	result := applicationapimodels.DecisionView{}
	if fresh != nil {
		result.Application = applicationapimodels.ApplicationConvert(*fresh)
	}
	return result, "", nil
}
