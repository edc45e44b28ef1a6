package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
)

// SettingsHandler handles taxpayer (business settings) requests.
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler builds the handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Create registers a taxpayer profile.
// POST /api/settings
func (h *SettingsHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return settingsError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update replaces the caller's taxpayer profile.
// PUT /api/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateBusinessSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Update(settingsID, in)
	if err != nil {
		return settingsError(c, err)
	}
	return c.JSON(out)
}

// Get returns the caller's taxpayer profile.
// GET /api/settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	out, err := h.uc.Get(settingsID)
	if err != nil {
		return settingsError(c, err)
	}
	return c.JSON(out)
}

func settingsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid settings data"})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "VAT number cannot change"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "settings not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
