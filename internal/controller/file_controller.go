package controller

import (
	"io"

	"drive-assistant-be/internal/pkg/serverutils"
	"drive-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
	Folders(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type fileController struct {
	service service.IFileService
	authMW  fiber.Handler
}

func NewFileController(service service.IFileService, authMW fiber.Handler) IFileController {
	return &fileController{service: service, authMW: authMW}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files/v1")
	h.Use(c.authMW)
	h.Get("/search", c.Search)
	h.Get("/recent", c.Recent)
	h.Get("/folders", c.Folders)
	h.Post("/upload", c.Upload)
}

func (c *fileController) Search(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	query := ctx.Query("q")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "query parameter 'q' is required"))
	}

	res, err := c.service.SearchFiles(ctx.Context(), userId, query)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search files", res))
}

func (c *fileController) Recent(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	res, err := c.service.GetRecentFiles(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recent files", res))
}

func (c *fileController) Folders(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	parentId := ctx.Query("parent_id")

	res, err := c.service.GetFolders(ctx.Context(), userId, parentId)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get folders", res))
}

func (c *fileController) Upload(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "multipart field 'file' is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	parentId := ctx.FormValue("parent_id")

	res, err := c.service.UploadFile(ctx.Context(), userId, parentId, fileHeader.Filename, content)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("File uploaded", res))
}
