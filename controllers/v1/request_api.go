package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bytesandbalance/jovyne-sub000/controllers"
	applicationhandler "github.com/bytesandbalance/jovyne-sub000/lib/application"
	approvalhandler "github.com/bytesandbalance/jovyne-sub000/lib/approval"
	filestorage "github.com/bytesandbalance/jovyne-sub000/lib/file-storage"
	requesthandler "github.com/bytesandbalance/jovyne-sub000/lib/request"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
	applicationapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/application"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
)

type requestApiController struct {
	controllers.BaseAPIController
}

func InitRequestApiRouters(app *fiber.App) {
	controller := requestApiController{}
	app.Route("requests", func(router fiber.Router) {
		router.Post("", middleware.RoleRequired(models.RoleKindClient, models.RoleKindPlanner), controller.create)
		router.Post("open", controller.listOpen)
		router.Post("my", controller.listMy)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("cancel", controller.cancel)
			idRoute.Post("image", middleware.RoleRequired(models.RoleKindClient, models.RoleKindPlanner), controller.uploadImage)
			idRoute.Get("images", controller.listImages)
			idRoute.Route("applications", func(appRoute fiber.Router) {
				appRoute.Get("", controller.listApplications)
				appRoute.Post("", middleware.RoleRequired(models.RoleKindHelper, models.RoleKindPlanner), controller.submitApplication)
			})
		})
	})
	app.Route("applications", func(router fiber.Router) {
		router.Get("my", controller.listMyApplications)
		router.Put(":id/approve", controller.approve)
		router.Put(":id/reject", controller.reject)
	})
}

// @Summary Create request
// @Tags Request
// @Description Posts a helper or planner request; a warning message is returned when the schedule collapses to zero hours
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.RequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests [post]
func (c *requestApiController) create(ctx *fiber.Ctx) error {
	var payload requestapimodels.RequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	id, warning, err := requesthandler.Instance.Create(ref, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request creation failed")
	}
	if warning != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(id, warning))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Open requests
// @Tags Request
// @Description Lists requests accepting applications, filter in the body
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/open [post]
func (c *requestApiController) listOpen(ctx *fiber.Ctx) error {
	var filter requestapimodels.RequestFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := requesthandler.Instance.ListOpen(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary My requests
// @Tags Request
// @Description Lists requests posted by the authenticated role
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/my [post]
func (c *requestApiController) listMy(ctx *fiber.Ctx) error {
	var filter requestapimodels.RequestFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	list, rowCount, err := requesthandler.Instance.ListMy(ref, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Request
// @Tags Request
// @Description Returns a single request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id} [get]
func (c *requestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := requesthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Cancel request
// @Tags Request
// @Description Requester-only; repeat calls are no-ops
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/cancel [put]
func (c *requestApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	hMsg, err := requesthandler.Instance.Cancel(ref, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request cancellation failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(nil, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Request image upload
// @Tags Request
// @Description Requester-only; attaches an event image to the request, multipart field "file"
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/image [post]
func (c *requestApiController) uploadImage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileName, contentType, data, err := readFormFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	fileID, err := filestorage.Instance.UploadRequestImage(ctx.Context(), ref, id, fileName, contentType, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "image upload failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fileID))
}

// @Summary Request images
// @Tags Request
// @Description Lists the image records attached to the request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]dbmodels.StoredFile}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/images [get]
func (c *requestApiController) listImages(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := filestorage.Instance.ListRequestImages(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "image list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Request applications
// @Tags Application
// @Description Requester-only list of applications on the request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/applications [get]
func (c *requestApiController) listApplications(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	list, err := applicationhandler.Instance.ListForRequest(ref, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "application list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Apply
// @Tags Application
// @Description Submits an application; a repeat submit returns the existing application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 applicationapimodels.ApplicationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/applications [post]
func (c *requestApiController) submitApplication(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.ApplicationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	view, hMsg, err := applicationhandler.Instance.Submit(ref, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "application submit failed")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(view, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary My applications
// @Tags Application
// @Description Lists the authenticated candidate's applications
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/my [get]
func (c *requestApiController) listMyApplications(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	list, err := applicationhandler.Instance.ListMine(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "application list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Approve application
// @Tags Application
// @Description Requester-only; repeated calls return the decided state without new side effects
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.DecisionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approve [put]
func (c *requestApiController) approve(ctx *fiber.Ctx) error {
	return c.decide(ctx, approvalhandler.Instance.Approve, "application approval failed")
}

// @Summary Reject application
// @Tags Application
// @Description Requester-only; repeated calls return the decided state without new side effects
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.DecisionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/reject [put]
func (c *requestApiController) reject(ctx *fiber.Ctx) error {
	return c.decide(ctx, approvalhandler.Instance.Reject, "application rejection failed")
}

func (c *requestApiController) decide(ctx *fiber.Ctx,
	decision func(models.RoleRef, string) (applicationapimodels.DecisionView, string, error), errMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	result, hMsg, err := decision(ref, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, errMsg)
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewWarningResponse(result, hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
