package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/bytesandbalance/jovyne-sub000/controllers"
	filestorage "github.com/bytesandbalance/jovyne-sub000/lib/file-storage"
	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
	"github.com/bytesandbalance/jovyne-sub000/middleware"
	apimodels "github.com/bytesandbalance/jovyne-sub000/models/api"
	roleapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/role"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Route("profile", func(router fiber.Router) {
		router.Get("", controller.get)
		router.Put("", controller.update)
		router.Post("image", controller.uploadImage)
		router.Get("images", controller.listImages)
		router.Get("image/:id", controller.getImage)
	})
}

// @Summary Profile
// @Tags Profile
// @Description Returns the role profile of the authenticated account
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=roleapimodels.ProfileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile [get]
func (c *profileApiController) get(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	view, err := rolehandler.Instance.GetProfile(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "profile fetch failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Profile update
// @Tags Profile
// @Description Updates the role profile fields
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 roleapimodels.ProfileUpdate	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile [put]
func (c *profileApiController) update(ctx *fiber.Ctx) error {
	var payload roleapimodels.ProfileUpdate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	if err := rolehandler.Instance.UpdateProfile(ref, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "profile update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Profile image upload
// @Tags Profile
// @Description Stores a profile image, multipart field "file"
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/image [post]
func (c *profileApiController) uploadImage(ctx *fiber.Ctx) error {
	fileName, contentType, data, err := readFormFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	ref := middleware.GetRoleRef(ctx)
	id, err := filestorage.Instance.UploadProfileImage(ctx.Context(), ref, fileName, contentType, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "image upload failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// readFormFile pulls the multipart "file" field into memory.
func readFormFile(ctx *fiber.Ctx) (fileName, contentType string, data []byte, err error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return "", "", nil, errors.New("file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, err
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}

// @Summary Profile images
// @Tags Profile
// @Description Lists the stored profile image records of the authenticated role
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dbmodels.StoredFile}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/images [get]
func (c *profileApiController) listImages(ctx *fiber.Ctx) error {
	ref := middleware.GetRoleRef(ctx)
	list, err := filestorage.Instance.ListProfileImages(ref)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "image list failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Profile image download
// @Tags Profile
// @Description Returns the stored image bytes
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/image/{id} [get]
func (c *profileApiController) getImage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, rec, err := filestorage.Instance.GetFile(ctx.Context(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "image download failed")
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	return ctx.Status(fiber.StatusOK).Send(data)
}
