package billing

import (
	"fmt"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
)

// InvoicePDFGenerator renders the human-readable representation of an
// e-invoice, including the ZATCA QR code.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(inv *entity.Invoice, settings *entity.BusinessSettings,
		customer *entity.Customer, lines []*entity.InvoiceLine) ([]byte, error)
}

// PDFUseCase produces the printable PDF of a processed invoice.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.BusinessSettingsRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.BusinessSettingsRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF renders the invoice PDF. The invoice must have gone
// through the pipeline far enough to carry a QR code: a human-readable
// copy without the ZATCA QR is not a valid fiscal document.
func (uc *PDFUseCase) DownloadInvoicePDF(settingsID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.SettingsID != settingsID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == entity.StatusDraft || inv.Status == entity.StatusErrorGeneration || inv.QRCode == "" {
		return nil, "", fmt.Errorf("%w: invoice %s has no QR code yet (status %s)",
			domain.ErrPrecondition, inv.Number, inv.Status)
	}

	settings, err := uc.settingsRepo.GetByID(inv.SettingsID)
	if err != nil {
		return nil, "", err
	}
	if settings == nil {
		return nil, "", fmt.Errorf("%w: settings %s", domain.ErrNotFound, inv.SettingsID)
	}

	var customer *entity.Customer
	if inv.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(inv.CustomerID)
		if err != nil {
			return nil, "", err
		}
	}

	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(inv.ID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := uc.generator.GenerateInvoicePDF(inv, settings, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("generate invoice PDF: %w", err)
	}
	filename := fmt.Sprintf("invoice_%s.pdf", inv.Number)
	return pdf, filename, nil
}
