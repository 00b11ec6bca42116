package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps panics in downstream handlers to a 500 JSON
// response instead of tearing down the connection.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := ctx.Locals(RequestIDLocal).(string)
				err = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":      fmt.Sprintf("internal error: %v", r),
					"request_id": requestID,
				})
			}
		}()
		return ctx.Next()
	}
}
