package dto

import "github.com/shopspring/decimal"

// InvoiceItemRequest is one sold item on an invoice creation request.
type InvoiceItemRequest struct {
	ItemName        string          `json:"item_name"`
	ItemCode        string          `json:"item_code,omitempty"`
	UnitCode        string          `json:"unit_code,omitempty"` // UN/ECE Rec 20, default PCE
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxTemplateID   string          `json:"tax_template_id,omitempty"` // overrides the document template
	DiscountAmount  decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent,omitempty"`
}

// PrepaymentAllocationRequest applies part of a previously-issued
// prepayment invoice against this invoice.
type PrepaymentAllocationRequest struct {
	PrepaymentInvoiceID string          `json:"prepayment_invoice_id"`
	Amount              decimal.Decimal `json:"amount"` // gross (taxable + tax)
}

// ChargeRequest is a document-level charge.
type ChargeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	BaseAmount  decimal.Decimal `json:"base_amount,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	ReasonCode  string          `json:"reason_code,omitempty"`
	TaxCategory string          `json:"tax_category,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate,omitempty"`
}

// CreateInvoiceRequest creates an invoice and kicks off the ZATCA
// submission pipeline. SuppressSubmit leaves the invoice in DRAFT with its
// counter and PIH already reserved; processing can be triggered later via
// the retry endpoint.
type CreateInvoiceRequest struct {
	CustomerID      string `json:"customer_id,omitempty"` // required for standard invoices
	Number          string `json:"number,omitempty"`      // generated from the counter when empty
	TypeCode        string `json:"type_code,omitempty"`   // 388 (default), 383, 381, 386
	TransactionCode string `json:"transaction_code"`      // 0100000 standard, 0200000 simplified
	PaymentMeans    string `json:"payment_means,omitempty"`
	Currency        string `json:"currency,omitempty"` // default from settings

	IsReturn      bool   `json:"is_return,omitempty"`
	ReturnAgainst string `json:"return_against,omitempty"` // referenced invoice number
	ReturnReason  string `json:"return_reason,omitempty"`

	TaxInclusive  bool   `json:"tax_inclusive,omitempty"` // unit prices include VAT
	TaxTemplateID string `json:"tax_template_id,omitempty"`

	DiscountAmount  decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent,omitempty"`
	Charges         []ChargeRequest `json:"charges,omitempty"`

	Items       []InvoiceItemRequest          `json:"items"`
	Prepayments []PrepaymentAllocationRequest `json:"prepayments,omitempty"`

	SuppressSubmit bool `json:"suppress_submit,omitempty"`
}

// InvoiceLineResponse is one line on an invoice response.
type InvoiceLineResponse struct {
	Idx          int             `json:"idx"`
	ItemName     string          `json:"item_name"`
	ItemCode     string          `json:"item_code,omitempty"`
	UnitCode     string          `json:"unit_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	IsPrepayment bool            `json:"is_prepayment,omitempty"`
}

// InvoiceResponse is the full invoice view.
type InvoiceResponse struct {
	ID              string          `json:"id"`
	SettingsID      string          `json:"settings_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	Number          string          `json:"number"`
	UUID            string          `json:"uuid"`
	Counter         int64           `json:"counter"`
	TypeCode        string          `json:"type_code"`
	TransactionCode string          `json:"transaction_code"`
	IssueDate       string          `json:"issue_date"`
	Currency        string          `json:"currency"`
	NetTotal        decimal.Decimal `json:"net_total"`
	TaxTotal        decimal.Decimal `json:"tax_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	PrepaymentTotal decimal.Decimal `json:"prepayment_total"`
	PayableAmount   decimal.Decimal `json:"payable_amount"`
	Status          string          `json:"status"`
	QRCode          string          `json:"qr_code,omitempty"`
	SubmissionID    string          `json:"submission_id,omitempty"`
	Warnings        string          `json:"warnings,omitempty"`

	Lines []InvoiceLineResponse `json:"lines,omitempty"`
}

// InvoiceStatusResponse is the light polling view of an invoice.
type InvoiceStatusResponse struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Counter      int64  `json:"counter"`
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id,omitempty"`
	Warnings     string `json:"warnings,omitempty"`
}
