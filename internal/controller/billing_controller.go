package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/BeatricePi/MeinePraxisKI/internal/dto"
	"github.com/BeatricePi/MeinePraxisKI/internal/pkg/serverutils"
	"github.com/BeatricePi/MeinePraxisKI/internal/service"
	"github.com/BeatricePi/MeinePraxisKI/pkg/llm"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Abrechnen(ctx *fiber.Ctx) error
}

type billingController struct {
	service service.IBillingService
}

func NewBillingController(service service.IBillingService) IBillingController {
	return &billingController{service: service}
}

func (c *billingController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/abrechnen", auth, c.Abrechnen)
}

func (c *billingController) Abrechnen(ctx *fiber.Ctx) error {
	var req dto.AbrechnenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ungültiger Request-Body"})
	}

	sessionKey, _ := ctx.Locals(serverutils.SessionKeyLocal).(string)
	if sessionKey == "" {
		sessionKey = ctx.IP()
	}

	res, err := c.service.Abrechnen(ctx.Context(), sessionKey, &req)
	if err != nil {
		return mapServiceError(ctx, err)
	}
	return ctx.JSON(res)
}

func mapServiceError(ctx *fiber.Ctx, err error) error {
	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, service.ErrEmptyPrompt):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Feld 'prompt' fehlt"})
	case errors.Is(err, service.ErrNoCandidates):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotConfigured):
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &upstream):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Modell-Anfrage fehlgeschlagen (Status %d): %s", upstream.StatusCode, upstream.Message),
		})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
