package controller

import (
	"strconv"

	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/pkg/logger"
	"risk-copilot-be/internal/pkg/serverutils"
	"risk-copilot-be/internal/service"
	internalWS "risk-copilot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IAuditController interface {
	RegisterRoutes(r fiber.Router)
	ListRecords(ctx *fiber.Ctx) error
	GetRecord(ctx *fiber.Ctx) error
	GetTraces(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Cleanup(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type auditController struct {
	service service.IAuditService
	logger  logger.ILogger
	hub     *internalWS.Hub
}

func NewAuditController(service service.IAuditService, sysLogger logger.ILogger, hub *internalWS.Hub) IAuditController {
	return &auditController{service: service, logger: sysLogger, hub: hub}
}

func (c *auditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/records", c.ListRecords)
	h.Get("/record/:message_id", c.GetRecord)
	h.Get("/record/:message_id/traces", c.GetTraces)
	h.Get("/stats", c.Stats)
	h.Post("/cleanup", c.Cleanup)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
	h.Get("/stream", c.Stream)
}

func (c *auditController) ListRecords(ctx *fiber.Ctx) error {
	var req dto.ListAuditRecordsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.service.ListRecords(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit records", res))
}

func (c *auditController) GetRecord(ctx *fiber.Ctx) error {
	messageId, err := uuid.Parse(ctx.Params("message_id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid message id"}
	}

	res, err := c.service.GetRecord(ctx.Context(), messageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit record", res))
}

func (c *auditController) GetTraces(ctx *fiber.Ctx) error {
	messageId, err := uuid.Parse(ctx.Params("message_id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid message id"}
	}

	res, err := c.service.GetTraces(ctx.Context(), messageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stage traces", res))
}

func (c *auditController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit stats", res))
}

func (c *auditController) Cleanup(ctx *fiber.Ctx) error {
	res, err := c.service.Cleanup(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cleanup audit records", res))
}

func (c *auditController) GetLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))
	level := ctx.Query("level", "")

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *auditController) GetLogDetail(ctx *fiber.Ctx) error {
	// Log ids are content hashes, not UUIDs.
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return &dto.NotFoundError{Resource: "log entry"}
	}

	return ctx.JSON(serverutils.SuccessResponse("Log detail", entry))
}

// Stream upgrades to a websocket and attaches the reviewer to the live
// audit decision feed.
func (c *auditController) Stream(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("AuditController", "Starting audit stream session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			internalWS.ServeWs(c.hub, conn)
			c.logger.Info("AuditController", "Audit stream session ended", nil)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
