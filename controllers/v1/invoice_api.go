package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bytesandbalance/jovyne-sub000/controllers"
	xlsexport "github.com/bytesandbalance/jovyne-sub000/lib/export/xls"
	invoicehandler "github.com/bytesandbalance/jovyne-sub000/lib/invoice"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
	invoiceapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/invoice"
)

type invoiceApiController struct {
	controllers.BaseAPIController
}

func InitInvoiceApiRouters(app *fiber.App) {
	controller := invoiceApiController{}
	app.Route("invoices", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("payable", controller.listPayable)
		router.Post("receivable", controller.listReceivable)
		router.Get("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("send", controller.send)
			idRoute.Put("acknowledge", controller.acknowledge)
			idRoute.Put("pay", controller.pay)
			idRoute.Put("complete", controller.complete)
			idRoute.Put("cancel", controller.cancel)
		})
	})
}

// @Summary Create invoice
// @Tags Invoice
// @Description Issues an ad-hoc invoice with the authenticated role as payee
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 invoiceapimodels.InvoiceData	true	"request body"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices [post]
func (c *invoiceApiController) create(ctx *fiber.Ctx) error {
	var payload invoiceapimodels.InvoiceData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	view, hMsg, err := invoicehandler.Instance.Create(ref, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice creation failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(view, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Invoice
// @Tags Invoice
// @Description Returns a single invoice, parties only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id} [get]
func (c *invoiceApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	view, err := invoicehandler.Instance.GetByID(ref, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Payable invoices
// @Tags Invoice
// @Description Lists invoices where the authenticated role pays
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 invoiceapimodels.InvoiceFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/payable [post]
func (c *invoiceApiController) listPayable(ctx *fiber.Ctx) error {
	return c.list(ctx, invoicehandler.Instance.ListForPayer)
}

// @Summary Receivable invoices
// @Tags Invoice
// @Description Lists invoices where the authenticated role is paid
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 invoiceapimodels.InvoiceFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/receivable [post]
func (c *invoiceApiController) listReceivable(ctx *fiber.Ctx) error {
	return c.list(ctx, invoicehandler.Instance.ListForPayee)
}

func (c *invoiceApiController) list(ctx *fiber.Ctx,
	lister func(models.RoleRef, invoiceapimodels.InvoiceFilter) ([]invoiceapimodels.InvoiceView, int64, error)) error {
	var filter invoiceapimodels.InvoiceFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	list, rowCount, err := lister(ref, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Export invoices
// @Tags Invoice
// @Description Returns the receivable invoices of the role as an xlsx workbook
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/export [get]
func (c *invoiceApiController) export(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	list, err := invoicehandler.Instance.ListAllForPayee(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice list failed")
	}
	buf, err := xlsexport.Instance.ExportInvoiceList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice export failed")
	}
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Send invoice
// @Tags Invoice
// @Description Payee-only draft to sent transition; re-sending keeps the original sent timestamp
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id}/send [put]
func (c *invoiceApiController) send(ctx *fiber.Ctx) error {
	return c.transition(ctx, invoicehandler.Instance.Send, "invoice send failed")
}

// @Summary Acknowledge invoice
// @Tags Invoice
// @Description Payer-only sent to awaiting-payment transition
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id}/acknowledge [put]
func (c *invoiceApiController) acknowledge(ctx *fiber.Ctx) error {
	return c.transition(ctx, invoicehandler.Instance.Acknowledge, "invoice acknowledge failed")
}

// @Summary Pay invoice
// @Tags Invoice
// @Description Payer-only awaiting-payment to paid transition
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id}/pay [put]
func (c *invoiceApiController) pay(ctx *fiber.Ctx) error {
	return c.transition(ctx, invoicehandler.Instance.MarkPaid, "invoice payment failed")
}

// @Summary Complete invoice
// @Tags Invoice
// @Description Payee-only paid to completed transition
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id}/complete [put]
func (c *invoiceApiController) complete(ctx *fiber.Ctx) error {
	return c.transition(ctx, invoicehandler.Instance.Complete, "invoice completion failed")
}

// @Summary Cancel invoice
// @Tags Invoice
// @Description Payee-only, reachable from draft and sent only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=invoiceapimodels.InvoiceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invoices/{id}/cancel [put]
func (c *invoiceApiController) cancel(ctx *fiber.Ctx) error {
	return c.transition(ctx, invoicehandler.Instance.Cancel, "invoice cancellation failed")
}

func (c *invoiceApiController) transition(ctx *fiber.Ctx,
	action func(models.RoleRef, string) (invoiceapimodels.InvoiceView, string, error), errMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	view, hMsg, err := action(ref, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, errMsg)
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(view, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
