package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/fiberlog"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	"github.com/bytesandbalance/jovyne-sub000/models"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body parsing failed")
		return errors.New("could not read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("record id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField(fiberlog.TagMethod, ctx.Method()).
		WithField(fiberlog.TagPath, ctx.Path())
	if accountID := middleware.GetAccountID(ctx); accountID != "" {
		logger = logger.WithField("account_id", accountID)
	}
	if ref := middleware.GetRoleRef(ctx); !ref.IsZero() {
		logger = logger.
			WithField("role_id", ref.RoleID).
			WithField("role_kind", ref.Kind)
	}
	return logger
}

// SendError maps lifecycle errors onto HTTP statuses. Anything untyped is a
// 500 with the fallback message, the original error stays in the log only.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, errMsg string) error {
	lcErr := models.AsLifecycleError(err)
	if lcErr == nil {
		logger.WithError(err).Error(errMsg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(errMsg))
	}
	status := fiber.StatusInternalServerError
	switch lcErr.Code {
	case models.ErrCodeValidation:
		status = fiber.StatusBadRequest
	case models.ErrCodeForbidden:
		status = fiber.StatusForbidden
		logger.WithError(err).Warn(errMsg)
		return ctx.Status(status).JSON(apimodels.NewError(lcErr.Message))
	case models.ErrCodeNotFound, models.ErrCodeRoleNotFound:
		status = fiber.StatusNotFound
	case models.ErrCodeConflict,
		models.ErrCodeRequestNotOpen,
		models.ErrCodeAppNotPending,
		models.ErrCodeInvoiceTransition,
		models.ErrCodeDuplicateApplication:
		status = fiber.StatusConflict
	}
	logger.WithError(err).Error(errMsg)
	return ctx.Status(status).JSON(apimodels.NewError(lcErr.Message))
}
