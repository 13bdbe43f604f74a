package controller

import (
	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/pkg/serverutils"
	"risk-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPolicyController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type policyController struct {
	service service.IPolicyService
}

func NewPolicyController(service service.IPolicyService) IPolicyController {
	return &policyController{service: service}
}

func (c *policyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/policy/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Ingest)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *policyController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestPolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest policy document", res))
}

func (c *policyController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get policy documents", res))
}

func (c *policyController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid policy document id"}
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete policy document", nil))
}
