package repository

import "zatca-pro/internal/domain/entity"

// InvoiceRepository defines the persistence port for invoices, lines and
// prepayment allocations.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	CreateAllocation(alloc *entity.PrepaymentAllocation) error
	// Update persists the ZATCA pipeline fields: invoice_hash, xml_signed,
	// qr_code, status, submission_id, warnings.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetBySettingsAndCounter locates the invoice with a given chain counter
	// within one taxpayer scope (nil if absent).
	GetBySettingsAndCounter(settingsID string, counter int64) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	GetAllocationsByInvoiceID(invoiceID string) ([]*entity.PrepaymentAllocation, error)
	// GetStatus returns only the submission-state fields (light, for polling).
	GetStatus(id string) (*entity.Invoice, error)
}
