package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/BeatricePi/MeinePraxisKI/internal/config"
	"github.com/BeatricePi/MeinePraxisKI/internal/dto"
	"github.com/BeatricePi/MeinePraxisKI/pkg/catalog"
)

type ISystemController interface {
	RegisterRoutes(app *fiber.App, api fiber.Router)
	Health(ctx *fiber.Ctx) error
	Check(ctx *fiber.Ctx) error
}

type systemController struct {
	cfg     *config.Config
	index   *catalog.Index
	started time.Time
}

func NewSystemController(cfg *config.Config, index *catalog.Index) ISystemController {
	return &systemController{
		cfg:     cfg,
		index:   index,
		started: time.Now(),
	}
}

func (c *systemController) RegisterRoutes(app *fiber.App, api fiber.Router) {
	app.Get("/health", c.Health)
	api.Get("/check", c.Check)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status: "ok",
		Uptime: time.Since(c.started).Seconds(),
	})
}

// Check reports which required configuration is present. Secrets are never
// echoed, only a masked preview of the API key.
func (c *systemController) Check(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.CheckResponse{
		OpenAIKeyPresent:  c.cfg.OpenAI.APIKey != "",
		OpenAIKeyPreview:  maskKey(c.cfg.OpenAI.APIKey),
		JWTSecretPresent:  c.cfg.Auth.JWTSecret != "",
		AllowedEmailCount: len(c.cfg.Auth.AllowedEmails),
		Model:             c.cfg.OpenAI.Model,
		CatalogEntries:    c.index.Len(),
		PendingStore:      c.cfg.Pending.Store,
		RedisURLPresent:   c.cfg.Pending.RedisURL != "",
	})
}

// maskKey keeps the first five and last two characters visible.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:5] + "..." + key[len(key)-2:]
}
