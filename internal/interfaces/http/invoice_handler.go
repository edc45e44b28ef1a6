package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
)

// InvoiceHandler handles e-invoice requests (protected): creation, status
// polling, XML/PDF download and submission retry.
type InvoiceHandler struct {
	uc           *billing.CreateInvoiceUseCase
	orchestrator *billing.ZATCAOrchestrator
	pdfUC        *billing.PDFUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase, orchestrator *billing.ZATCAOrchestrator, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, orchestrator: orchestrator, pdfUC: pdfUC}
}

// Create issues an invoice: reserves its chain state synchronously and
// starts the ZATCA pipeline in the background.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	invoice, err := h.uc.CreateInvoice(c.Context(), settingsID, in)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID returns the full invoice view with its pipeline state.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	invoice, err := h.uc.GetInvoice(c.Context(), settingsID, id)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// GetStatus returns the light submission-state view, meant for polling
// while the background pipeline runs.
// GET /api/invoices/:id/status
func (h *InvoiceHandler) GetStatus(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	status, err := h.uc.GetInvoiceStatus(c.Context(), settingsID, id)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(status)
}

// GetXML downloads the signed UBL XML, the chain artifact.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) GetXML(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	xmlBytes, err := h.uc.GetInvoiceXML(c.Context(), settingsID, id)
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice_`+id+`.xml"`)
	return c.Send(xmlBytes)
}

// GetPDF downloads the printable representation with the ZATCA QR.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(settingsID, id)
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Retry re-runs the ZATCA pipeline for an invoice whose previous attempt
// failed or was rejected. The chain state never changes on retry.
// POST /api/invoices/:id/retry
func (h *InvoiceHandler) Retry(c *fiber.Ctx) error {
	settingsID := GetSettingsID(c)
	if settingsID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	if err := h.orchestrator.Retry(c.Context(), settingsID, id); err != nil {
		return invoiceError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "processing"})
}

func invoiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invoice, customer or template not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case errors.Is(err, domain.ErrPrecondition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRECONDITION", Message: err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	case errors.Is(err, domain.ErrChainIntegrity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CHAIN_INTEGRITY", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
