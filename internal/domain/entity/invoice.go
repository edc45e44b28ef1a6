package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Submission states of an invoice in the ZATCA pipeline.
const (
	StatusDraft           = "DRAFT"            // persisted with counter + PIH reserved
	StatusSigned          = "SIGNED"           // XML built and signed, pending submission
	StatusAccepted        = "ACCEPTED"         // reported/cleared by ZATCA
	StatusAcceptedWarning = "ACCEPTED_WARNING" // accepted with validation warnings
	StatusRejected        = "REJECTED"         // rejected by ZATCA
	StatusErrorGeneration = "ERROR_GENERATION" // assembly, XML or signing failed
	StatusCancelled       = "CANCELLED"
)

// AllowanceCharge is a document-level deduction (allowance) or addition
// (charge). The indicator flag governs whether the amount fields are
// required during assembly.
type AllowanceCharge struct {
	IsCharge    bool // false = allowance (discount), true = charge
	Amount      decimal.Decimal
	BaseAmount  decimal.Decimal
	Percent     decimal.Decimal
	Reason      string
	ReasonCode  string
	TaxCategory string // VAT category code the amount belongs to
	TaxRate     decimal.Decimal
}

// Invoice represents the header of an e-invoice with its chain state.
// Counter and PreviousInvoiceHash are assigned once at creation time and
// never change, regardless of submission retries.
type Invoice struct {
	ID         string
	SettingsID string // taxpayer scope (chain scope)
	CustomerID string
	Number     string // human-readable invoice number
	UUID       string // cbc:UUID, assigned at creation

	// Chain state.
	Counter             int64  // ICV: gapless, strictly increasing per taxpayer
	PreviousInvoiceHash string // PIH: hash of counter-1's signed XML, or the seed
	InvoiceHash         string // hash of this invoice's signed XML, set after signing

	TypeCode        string // 388 tax invoice, 383 debit note, 381 credit note, 386 prepayment
	TransactionCode string // 0100000 standard, 0200000 simplified
	PaymentMeans    string // UNTDID 4461 code
	IsReturn        bool
	ReturnAgainst   string // referenced invoice ID for credit/debit notes
	ReturnReason    string

	IssueDate    time.Time
	Currency     string
	TaxInclusive bool // line prices include VAT

	// TaxTemplateID is the document-level tax template; item-level
	// templates on lines take precedence when both are set.
	TaxTemplateID string

	NetTotal        decimal.Decimal // sum of line net amounts
	TaxTotal        decimal.Decimal
	GrandTotal      decimal.Decimal // net + taxes and charges
	DiscountAmount  decimal.Decimal // document-level allowance
	DiscountPercent decimal.Decimal
	PrepaymentTotal decimal.Decimal // taxable+tax of prepayment offsets
	PayableAmount   decimal.Decimal // grand total minus prepayment offsets

	AllowanceCharges []AllowanceCharge

	Status       string
	XMLSigned    string // signed XML, the chain artifact
	QRCode       string // base64 TLV payload
	SubmissionID string // request ID returned by ZATCA
	Warnings     string // validation warnings returned by ZATCA
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
