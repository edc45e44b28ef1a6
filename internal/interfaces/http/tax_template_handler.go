package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
)

// TaxTemplateHandler handles tax template requests (protected).
type TaxTemplateHandler struct {
	uc *billing.TaxTemplateUseCase
}

// NewTaxTemplateHandler builds the handler.
func NewTaxTemplateHandler(uc *billing.TaxTemplateUseCase) *TaxTemplateHandler {
	return &TaxTemplateHandler{uc: uc}
}

// Create registers a tax template.
// POST /api/tax-templates
func (h *TaxTemplateHandler) Create(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateTaxTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(settingsID, in)
	if err != nil {
		return taxTemplateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID returns one tax template.
// GET /api/tax-templates/:id
func (h *TaxTemplateHandler) GetByID(c *fiber.Ctx) error {
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
		return taxTemplateError(c, err)
	}
	return c.JSON(out)
}

// List returns the taxpayer's tax templates.
// GET /api/tax-templates
func (h *TaxTemplateHandler) List(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	out, err := h.uc.List(settingsID)
	if err != nil {
		return taxTemplateError(c, err)
	}
	return c.JSON(out)
}

func taxTemplateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid tax template data"})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tax template not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
