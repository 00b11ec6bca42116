package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocal is the Locals key handlers read the id from.
	RequestIDLocal = "request_id"
)

// RequestIDMiddleware tags every request with an id for log correlation. An
// inbound X-Request-ID is kept, otherwise a fresh UUID is generated.
func RequestIDMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Locals(RequestIDLocal, id)
		ctx.Set(RequestIDHeader, id)
		return ctx.Next()
	}
}
