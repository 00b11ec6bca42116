package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BeatricePi/MeinePraxisKI/internal/config"
)

// SessionKeyLocal is the fiber.Ctx local under which the middleware stores
// the caller identity used to key pending questions.
const SessionKeyLocal = "session_key"

// JwtMiddleware verifies the bearer token against the shared secret and,
// when an allow-list is configured, checks the token's email claim against
// it. The resolved identity (email, else subject, else client IP) is stored
// in Locals for the pending-question store.
func JwtMiddleware(cfg *config.Config) fiber.Handler {
	allowed := make(map[string]bool, len(cfg.Auth.AllowedEmails))
	for _, email := range cfg.Auth.AllowedEmails {
		allowed[strings.ToLower(email)] = true
	}

	return func(ctx *fiber.Ctx) error {
		if cfg.Auth.JWTSecret == "" {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server ist nicht konfiguriert (JWT_SECRET fehlt)"})
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
		}

		email, _ := claims["email"].(string)
		if len(allowed) > 0 {
			if email == "" || !allowed[strings.ToLower(email)] {
				return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized for this service"})
			}
		}

		identity := email
		if identity == "" {
			identity, _ = claims["sub"].(string)
		}
		if identity == "" {
			identity = ctx.IP()
		}
		ctx.Locals(SessionKeyLocal, identity)
		return ctx.Next()
	}
}
