package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bytesandbalance/jovyne-sub000/controllers"
	dashboardhandler "github.com/bytesandbalance/jovyne-sub000/lib/dashboard"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
)

type dashboardApiController struct {
	controllers.BaseAPIController
}

func InitDashboardApiRouters(app *fiber.App) {
	controller := dashboardApiController{}
	app.Route("dashboard", func(router fiber.Router) {
		router.Get("client", middleware.RoleRequired(models.RoleKindClient), controller.client)
		router.Get("planner", middleware.RoleRequired(models.RoleKindPlanner), controller.planner)
		router.Get("helper", middleware.RoleRequired(models.RoleKindHelper), controller.helper)
	})
}

// @Summary Client dashboard
// @Tags Dashboard
// @Description Open requests, pending applicants and payable totals
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=dashboardapimodels.ClientOverview}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboard/client [get]
func (c *dashboardApiController) client(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	view, err := dashboardhandler.Instance.ClientOverview(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "dashboard fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Planner dashboard
// @Tags Dashboard
// @Description Applications, receivable totals and open planner requests
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=dashboardapimodels.CandidateOverview}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboard/planner [get]
func (c *dashboardApiController) planner(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	view, err := dashboardhandler.Instance.PlannerOverview(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "dashboard fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Helper dashboard
// @Tags Dashboard
// @Description Applications, receivable totals and open helper requests
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=dashboardapimodels.CandidateOverview}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboard/helper [get]
func (c *dashboardApiController) helper(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	view, err := dashboardhandler.Instance.HelperOverview(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "dashboard fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
