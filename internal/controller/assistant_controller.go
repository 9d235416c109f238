package controller

import (
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/pkg/serverutils"
	"drive-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
	authMW  fiber.Handler
}

func NewAssistantController(service service.IAssistantService, authMW fiber.Handler) IAssistantController {
	return &assistantController{service: service, authMW: authMW}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(c.authMW)
	h.Post("/session", c.CreateSession)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/session/:id/history", c.GetChatHistory)
	h.Post("/chat", c.SendChat)
	h.Delete("/session/:id", c.DeleteSession)
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	res, err := c.service.CreateSession(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *assistantController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	res, err := c.service.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *assistantController) GetChatHistory(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	res, err := c.service.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid user identity"))
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid session id"))
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, &dto.DeleteSessionRequest{ChatSessionId: sessionId}); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
