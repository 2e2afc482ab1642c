package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/civicengine/api/internal/middleware"
	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/service"
	"github.com/civicengine/api/internal/store"
	"github.com/civicengine/api/pkg/response"
)

type CohortHandler struct {
	service   *service.CohortService
	validator *validator.Validate
}

func NewCohortHandler(svc *service.CohortService, v *validator.Validate) *CohortHandler {
	return &CohortHandler{
		service:   svc,
		validator: v,
	}
}

// Create handles POST /api/cohorts (teacher role required, enforced by
// route middleware).
func (h *CohortHandler) Create(c *fiber.Ctx) error {
	var req model.CreateCohortRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	cohort, err := h.service.Create(c.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPolicy) {
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Created(c, cohort)
}

// Get handles GET /api/cohorts/:id
func (h *CohortHandler) Get(c *fiber.Ctx) error {
	cohort, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Cohort not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, cohort)
}

// GetByCode handles GET /api/cohorts/code/:joinCode — how students
// find their class before joining.
func (h *CohortHandler) GetByCode(c *fiber.Ctx) error {
	cohort, err := h.service.GetByCode(c.Context(), c.Params("joinCode"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Invalid join code")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, cohort)
}

// Join handles POST /api/cohorts/:id/join
func (h *CohortHandler) Join(c *fiber.Ctx) error {
	var req model.JoinCohortRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	cohort, err := h.service.Join(c.Context(), c.Params("id"), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Cohort not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, cohort)
}

// Members handles GET /api/cohorts/:id/members
func (h *CohortHandler) Members(c *fiber.Ctx) error {
	members, err := h.service.Members(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Cohort not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, fiber.Map{"members": members})
}

// SetPhase handles POST /api/cohorts/:id/phase
func (h *CohortHandler) SetPhase(c *fiber.Ctx) error {
	var req struct {
		Phase model.CohortPhase `json:"phase"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	cohort, err := h.service.SetPhase(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Phase)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return response.NotFound(c, "Cohort not found")
		case errors.Is(err, service.ErrNotOwner):
			return response.Forbidden(c, "Only the cohort owner can change the phase")
		case errors.Is(err, service.ErrInvalidPhase):
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, cohort)
}

// SubmitPosition handles POST /api/cohorts/:id/positions
func (h *CohortHandler) SubmitPosition(c *fiber.Ctx) error {
	var req model.SubmitPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	pos, err := h.service.SubmitPosition(c.Context(), c.Params("id"), middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return response.NotFound(c, "Cohort not found")
		case errors.Is(err, service.ErrPhaseClosed):
			return response.Conflict(c, "Positions are closed in this phase")
		case errors.Is(err, service.ErrPolicyNotInCohort):
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Created(c, pos)
}

// Positions handles GET /api/cohorts/:id/positions
func (h *CohortHandler) Positions(c *fiber.Ctx) error {
	positions, err := h.service.Positions(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Cohort not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, fiber.Map{"positions": positions})
}
