package controller

import (
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/pkg/serverutils"
	"drive-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
	authMW  fiber.Handler
}

func NewReportController(service service.IReportService, authMW fiber.Handler) IReportController {
	return &reportController{service: service, authMW: authMW}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Use(c.authMW)
	h.Post("/generate", c.Generate)
	h.Get("", c.List)
}

func (c *reportController) Generate(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	var req dto.GenerateReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.GenerateReport(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Report generated", res))
}

func (c *reportController) List(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	res, err := c.service.ListReports(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get reports", res))
}
