package entity

import "github.com/shopspring/decimal"

// InvoiceLine represents one sold item, or one synthetic line offsetting a
// previously-issued prepayment invoice. Lines are derived read-only from
// the source transaction and never mutated after derivation.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	Idx       int // 1-based; prepayment lines index past the real lines

	ItemName   string
	ItemCode   string
	UnitCode   string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	NetAmount  decimal.Decimal // pre-tax line extension amount
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal

	TaxTemplateID   string
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal

	// Prepayment offset lines reference the original prepayment invoice.
	IsPrepayment        bool
	PrepaymentInvoiceID string
	PrepaymentUUID      string
	PrepaymentIssueDate string // YYYY-MM-DD of the referenced invoice
}

// PrepaymentAllocation links an invoice to a previously-issued prepayment
// invoice and the amount of it consumed by this invoice.
type PrepaymentAllocation struct {
	ID                  string
	InvoiceID           string
	PrepaymentInvoiceID string
	AllocatedAmount     decimal.Decimal // gross (taxable + tax)
}
