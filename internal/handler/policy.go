package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/service"
	"github.com/civicengine/api/pkg/response"
)

type PolicyHandler struct {
	service   *service.ScoreService
	validator *validator.Validate
}

func NewPolicyHandler(svc *service.ScoreService, v *validator.Validate) *PolicyHandler {
	return &PolicyHandler{
		service:   svc,
		validator: v,
	}
}

// List handles GET /api/policies — the catalog with baseline scores.
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	return response.OK(c, h.service.Policies())
}

// Score handles POST /api/score
func (h *PolicyHandler) Score(c *fiber.Ctx) error {
	var req model.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Score(&req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownArchetype) || errors.Is(err, service.ErrUnknownPolicy) {
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Archetypes handles GET /api/archetypes
func (h *PolicyHandler) Archetypes(c *fiber.Ctx) error {
	return response.OK(c, h.service.Archetypes())
}
