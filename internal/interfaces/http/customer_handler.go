package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
)

// CustomerHandler handles buyer requests (protected).
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create registers a buyer.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(settingsID, in)
	if err != nil {
		return customerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update replaces a buyer.
// PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Update(settingsID, id, in)
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(out)
}

// GetByID returns one buyer.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	out, err := h.uc.Get(settingsID, id)
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(out)
}

// List returns the taxpayer's buyers.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	out, err := h.uc.List(settingsID)
	if err != nil {
		return customerError(c, err)
	}
	return c.JSON(out)
}

func customerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid customer data"})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "customer not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
