package serverutils

import (
	"errors"
	"strconv"

	"risk-copilot-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts typed service errors into HTTP status
// codes. Anything unrecognized becomes a 500 with a generic message so
// internals never leak to the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var notFound *dto.NotFoundError
		if errors.As(err, &notFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(notFound.Error()))
		}

		var validation *dto.ValidationError
		if errors.As(err, &validation) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validation.Error()))
		}

		var rateLimit *dto.RateLimitError
		if errors.As(err, &rateLimit) {
			ctx.Set("Retry-After", strconv.Itoa(rateLimit.RetryAfterSeconds))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(rateLimit.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
