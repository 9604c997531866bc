package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/retrieve"
)

// ErrorHandlerMiddleware converts errors bubbled out of handlers into the
// standard envelope with a sensible status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, retrieve.ErrNotReady):
			status = fiber.StatusServiceUnavailable
			message = "recommendation index not ready"
		case errors.Is(err, rag.ErrTimeout):
			status = fiber.StatusGatewayTimeout
			message = "upstream model timed out"
		default:
			message = err.Error()
		}

		return ctx.Status(status).JSON(ErrorResponse(message))
	}
}
