package invoicehandler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	invoicestore "github.com/bytesandbalance/jovyne-sub000/lib/invoice/store"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
	"github.com/bytesandbalance/jovyne-sub000/models"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type Provider interface {
	// Create issues an ad-hoc invoice with ref as payee. Invoices born from an
	// approval are seeded by the approval engine instead.
	Create(ref models.RoleRef, data invoiceapimodels.InvoiceData) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	GetByID(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, err error)
	// Send moves draft -> sent_to_payer. SentAt is written once; re-sending an
	// already sent invoice is a no-op keeping the original timestamp.
	Send(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	// Acknowledge moves sent_to_payer -> awaiting_payment (payer side).
	Acknowledge(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	MarkPaid(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	Complete(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	// Cancel is payee-only and reachable from draft and sent_to_payer.
	Cancel(ref models.RoleRef, id string) (view invoiceapimodels.InvoiceView, hMsg string, err error)
	ListForPayer(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) (list []invoiceapimodels.InvoiceView, rowCount int64, err error)
	ListForPayee(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) (list []invoiceapimodels.InvoiceView, rowCount int64, err error)
	// ListAllForPayee walks every page of the payee's invoices; the export
	// needs the full set before it can write a totals row.
	ListAllForPayee(ref models.RoleRef) (list []invoiceapimodels.InvoiceView, err error)
	Totals(side invoicestore.Side, ref models.RoleRef) (totals invoiceapimodels.Totals, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:  invoicestore.NewInstance(db.DB),
		roles:  rolehandler.Instance,
		notify: notifyhandler.Instance,
	}
}

type impl struct {
	store  invoicestore.Provider
	roles  rolehandler.Provider
	notify notifyhandler.Provider
}

func (i impl) getLogger(ref models.RoleRef, recID string) *log.Entry {
	return log.
		WithField("role_id", ref.RoleID).
		WithField("role_kind", ref.Kind).
		WithField("rec_id", recID)
}

func (i impl) Create(ref models.RoleRef, data invoiceapimodels.InvoiceData) (invoiceapimodels.InvoiceView, string, error) {
	logger := i.getLogger(ref, "")
	if err := data.Validate(); err != nil {
		return invoiceapimodels.InvoiceView{}, "", err
	}
	if data.PayerKind == ref.Kind && data.PayerID == ref.RoleID {
		return invoiceapimodels.InvoiceView{}, "", models.NewValidationError("payer and payee cannot be the same role")
	}
	payer := models.RoleRef{Kind: data.PayerKind, RoleID: data.PayerID}
	payerName, err := i.roles.DisplayName(payer)
	if err != nil {
		logger.WithError(err).Error("payer lookup failed")
		return invoiceapimodels.InvoiceView{}, "", err
	}
	payeeName, err := i.roles.DisplayName(ref)
	if err != nil {
		logger.WithError(err).Error("payee lookup failed")
		return invoiceapimodels.InvoiceView{}, "", err
	}
	rec := dbmodels.Invoice{
		Number:    models.NewInvoiceNumber(),
		PayerID:   payer.RoleID,
		PayerKind: payer.Kind,
		PayeeID:   ref.RoleID,
		PayeeKind: ref.Kind,
		PayerName: payerName,
		PayeeName: payeeName,
		JobTitle:  data.JobTitle,
		Rate:      data.Rate,
		Hours:     data.Hours,
		FlatFee:   data.FlatFee,
		Amount:    models.InvoiceAmount(data.Rate, data.Hours, data.FlatFee),
		Status:    models.InvoiceStatusDraft,
	}
	if data.RequestID != "" {
		rec.RequestID = &data.RequestID
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("invoice creation failed")
		return invoiceapimodels.InvoiceView{}, "", err
	}
	logger.
		WithField("rec_id", id).
		WithField("amount", rec.Amount).
		Info("invoice created")
	rec.ID = id
	return invoiceapimodels.InvoiceConvert(rec), "", nil
}

func (i impl) GetByID(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return invoiceapimodels.InvoiceView{}, err
	}
	if !i.isParty(*rec, ref) {
		return invoiceapimodels.InvoiceView{}, models.NewForbiddenError("invoice belongs to another engagement")
	}
	return invoiceapimodels.InvoiceConvert(*rec), nil
}

func (i impl) Send(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return i.transition(ref, id, transitionSpec{
		action:  "send",
		actor:   invoicestore.SidePayee,
		from:    models.InvoiceStatusDraft,
		to:      models.InvoiceStatusSentToPayer,
		idemMsg: "invoice is already sent",
		idempotentIn: []models.InvoiceStatus{
			models.InvoiceStatusSentToPayer,
		},
		stampColumn: "sent_at",
		notifyOther: models.NotifyInvoiceReceived,
	})
}

func (i impl) Acknowledge(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return i.transition(ref, id, transitionSpec{
		action:  "acknowledge",
		actor:   invoicestore.SidePayer,
		from:    models.InvoiceStatusSentToPayer,
		to:      models.InvoiceStatusAwaitingPayment,
		idemMsg: "invoice is already acknowledged",
		idempotentIn: []models.InvoiceStatus{
			models.InvoiceStatusAwaitingPayment,
		},
		notifyOther: models.NotifyInvoiceAcknowledged,
	})
}

func (i impl) MarkPaid(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return i.transition(ref, id, transitionSpec{
		action:  "mark paid",
		actor:   invoicestore.SidePayer,
		from:    models.InvoiceStatusAwaitingPayment,
		to:      models.InvoiceStatusPaid,
		idemMsg: "invoice is already paid",
		idempotentIn: []models.InvoiceStatus{
			models.InvoiceStatusPaid,
			models.InvoiceStatusCompleted,
		},
		stampColumn: "paid_at",
		notifyOther: models.NotifyInvoicePaid,
	})
}

func (i impl) Complete(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	return i.transition(ref, id, transitionSpec{
		action:  "complete",
		actor:   invoicestore.SidePayee,
		from:    models.InvoiceStatusPaid,
		to:      models.InvoiceStatusCompleted,
		idemMsg: "invoice is already completed",
		idempotentIn: []models.InvoiceStatus{
			models.InvoiceStatusCompleted,
		},
		stampColumn: "completed_at",
		notifyOther: models.NotifyInvoiceCompleted,
	})
}

func (i impl) Cancel(ref models.RoleRef, id string) (invoiceapimodels.InvoiceView, string, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return invoiceapimodels.InvoiceView{}, "", err
	}
	if !rec.PayeeRef().Is(ref.Kind, ref.RoleID) {
		return invoiceapimodels.InvoiceView{}, "", models.NewForbiddenError("only the payee may cancel the invoice")
	}
	if rec.Status == models.InvoiceStatusCancelled {
		return invoiceapimodels.InvoiceConvert(*rec), "invoice is already cancelled", nil
	}
	if !rec.Status.IsAllowChange(models.InvoiceStatusCancelled) {
		return invoiceapimodels.InvoiceView{}, "",
			models.NewInvoiceInvalidTransitionError(rec.Status, models.InvoiceStatusCancelled)
	}
	updated, err := i.store.UpdateWithStatus(id, rec.Status, map[string]interface{}{
		"status": models.InvoiceStatusCancelled,
		"amount": models.InvoiceAmount(rec.Rate, rec.Hours, rec.FlatFee),
	})
	if err != nil {
		i.getLogger(ref, id).WithError(err).Error("invoice cancellation failed")
		return invoiceapimodels.InvoiceView{}, "", err
	}
	if !updated {
		fresh, err := i.getRec(id)
		if err != nil {
			return invoiceapimodels.InvoiceView{}, "", err
		}
		if fresh.Status == models.InvoiceStatusCancelled {
			return invoiceapimodels.InvoiceConvert(*fresh), "invoice is already cancelled", nil
		}
		return invoiceapimodels.InvoiceView{}, "", models.NewConflictError("invoice")
	}
	i.getLogger(ref, id).Info("invoice cancelled")
	if i.notify != nil {
		i.notify.Send(rec.PayerRef(), models.NotifyInvoiceCancelled, rec.Number)
	}
	fresh, err := i.getRec(id)
	if err != nil {
		return invoiceapimodels.InvoiceView{}, "", err
	}
	return invoiceapimodels.InvoiceConvert(*fresh), "", nil
}

// transitionSpec captures one forward edge of the invoice machine so that
// Send/Acknowledge/MarkPaid/Complete share guard, race and stamp handling.
type transitionSpec struct {
	action       string
	actor        invoicestore.Side
	from         models.InvoiceStatus
	to           models.InvoiceStatus
	idemMsg      string
	idempotentIn []models.InvoiceStatus
	stampColumn  string
	notifyOther  models.NotifyCode
}

func (i impl) transition(ref models.RoleRef, id string, spec transitionSpec) (invoiceapimodels.InvoiceView, string, error) {
	logger := i.getLogger(ref, id).WithField("action", spec.action)
	rec, err := i.getRec(id)
	if err != nil {
		return invoiceapimodels.InvoiceView{}, "", err
	}

	actorRef := rec.PayeeRef()
	otherRef := rec.PayerRef()
	if spec.actor == invoicestore.SidePayer {
		actorRef, otherRef = otherRef, actorRef
	}
	if !i.isParty(*rec, ref) {
		return invoiceapimodels.InvoiceView{}, "", models.NewForbiddenError("invoice belongs to another engagement")
	}
	if !actorRef.Is(ref.Kind, ref.RoleID) {
		logger.Warn("transition attempt by wrong party")
		return invoiceapimodels.InvoiceView{}, "",
			models.NewForbiddenError("only the %v may %v the invoice", string(spec.actor), spec.action)
	}

	for _, status := range spec.idempotentIn {
		if rec.Status == status {
			return invoiceapimodels.InvoiceConvert(*rec), spec.idemMsg, nil
		}
	}
	if rec.Status != spec.from {
		return invoiceapimodels.InvoiceView{}, "",
			models.NewInvoiceInvalidTransitionError(rec.Status, spec.to)
	}

	updMap := map[string]interface{}{
		"status": spec.to,
		// the stored amount is refreshed on every transition so reads never
		// recompute it
		"amount": models.InvoiceAmount(rec.Rate, rec.Hours, rec.FlatFee),
	}
	if spec.stampColumn != "" {
		updMap[spec.stampColumn] = time.Now()
	}
	updated, err := i.store.UpdateWithStatus(id, spec.from, updMap)
	if err != nil {
		logger.WithError(err).Error("invoice transition failed")
		return invoiceapimodels.InvoiceView{}, "", err
	}
	if !updated {
		fresh, err := i.getRec(id)
		if err != nil {
			return invoiceapimodels.InvoiceView{}, "", err
		}
		for _, status := range spec.idempotentIn {
			if fresh.Status == status {
				return invoiceapimodels.InvoiceConvert(*fresh), spec.idemMsg, nil
			}
		}
		return invoiceapimodels.InvoiceView{}, "", models.NewConflictError("invoice")
	}

	logger.
		WithField("status", spec.to).
		Info("invoice transitioned")
	if i.notify != nil && spec.notifyOther != "" {
		i.notify.Send(otherRef, spec.notifyOther, rec.Number)
	}
	fresh, err := i.getRec(id)
	if err != nil {
		return invoiceapimodels.InvoiceView{}, "", err
	}
	return invoiceapimodels.InvoiceConvert(*fresh), "", nil
}

func (i impl) ListForPayer(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error) {
	return i.list(invoicestore.SidePayer, ref, filter)
}

func (i impl) ListForPayee(ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error) {
	return i.list(invoicestore.SidePayee, ref, filter)
}

func (i impl) ListAllForPayee(ref models.RoleRef) ([]invoiceapimodels.InvoiceView, error) {
	result := []invoiceapimodels.InvoiceView{}
	filter := invoiceapimodels.InvoiceFilter{}
	filter.Limit = 100
	filter.Page = 1
	for {
		list, rowCount, err := i.list(invoicestore.SidePayee, ref, filter)
		if err != nil {
			return nil, err
		}
		result = append(result, list...)
		if len(list) == 0 || int64(len(result)) >= rowCount {
			return result, nil
		}
		filter.Page++
	}
}

func (i impl) list(side invoicestore.Side, ref models.RoleRef, filter invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error) {
	rowCount, err := i.store.ListCount(side, ref.RoleID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []invoiceapimodels.InvoiceView{}, rowCount, nil
	}
	recList, err := i.store.List(side, ref.RoleID, filter)
	if err != nil {
		log.WithError(err).Error("invoice list query failed")
		return nil, 0, err
	}
	result := make([]invoiceapimodels.InvoiceView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, invoiceapimodels.InvoiceConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Totals(side invoicestore.Side, ref models.RoleRef) (invoiceapimodels.Totals, error) {
	rows, err := i.store.Totals(side, ref.RoleID)
	if err != nil {
		log.
			WithField("role_id", ref.RoleID).
			WithError(err).
			Error("invoice totals query failed")
		return invoiceapimodels.Totals{}, err
	}
	totals := invoiceapimodels.Totals{
		ByStatus: map[models.InvoiceStatus]invoiceapimodels.StatusTotal{},
	}
	for _, row := range rows {
		totals.ByStatus[row.Status] = invoiceapimodels.StatusTotal{
			Amount: models.Round2(row.Total),
			Count:  row.Count,
		}
	}
	return totals, nil
}

func (i impl) isParty(rec dbmodels.Invoice, ref models.RoleRef) bool {
	return rec.PayerRef().Is(ref.Kind, ref.RoleID) || rec.PayeeRef().Is(ref.Kind, ref.RoleID)
}

func (i impl) getRec(id string) (*dbmodels.Invoice, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.
			WithField("rec_id", id).
			WithError(err).
			Error("invoice fetch failed")
		return nil, err
	}
	if rec == nil {
		return nil, models.NewNotFoundError("invoice")
	}
	return rec, nil
}
