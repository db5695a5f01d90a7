package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bytesandbalance/jovyne-sub000/controllers"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{}
	app.Route("notifications", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":id/read", controller.markRead)
	})
}

// @Summary Notifications
// @Tags Notification
// @Description Lists the role's notifications, ?unread=true for unread only
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]notificationapimodels.NotificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications [get]
func (c *notificationApiController) list(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	unreadOnly := ctx.QueryBool("unread")
	list, err := notifyhandler.Instance.List(ref, unreadOnly)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Mark notification read
// @Tags Notification
// @Description Marks one of the role's notifications as read
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/{id}/read [put]
func (c *notificationApiController) markRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	if err := notifyhandler.Instance.MarkRead(ref, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
