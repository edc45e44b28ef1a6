// Package einvoice (application) orchestrates invoice assembly: it drives
// the field accumulator over resolved settings, parties, tax categories,
// lines and prepayment offsets, and manages the per-taxpayer counter/hash
// chain. Collaborator stores are consumed through narrow ports so the
// assembler is testable without a database.
package einvoice

import (
	"context"

	"zatca-pro/internal/domain/entity"
)

// TaxTemplateStore resolves tax templates referenced by invoice lines and
// documents. Lookups are synchronous read-only and assumed available
// before assembly begins.
type TaxTemplateStore interface {
	GetTaxTemplate(id string) (*entity.TaxTemplate, error)
}

// PrepaymentStore resolves previously-issued prepayment invoices
// referenced by payment allocations.
type PrepaymentStore interface {
	GetPrepaymentInvoice(id string) (*entity.Invoice, error)
}

// CounterStore assigns the next chain counter for a taxpayer. The
// implementation must serialize assignment per taxpayer (row-level lock
// held until the surrounding transaction commits).
type CounterStore interface {
	NextCounter(ctx context.Context, settingsID string) (int64, error)
}

// PriorInvoiceStore locates the invoice holding a given counter and reads
// its signed XML artifact for PIH computation.
type PriorInvoiceStore interface {
	GetBySettingsAndCounter(settingsID string, counter int64) (*entity.Invoice, error)
	ReadSignedXML(ctx context.Context, invoiceID string) ([]byte, error)
}
