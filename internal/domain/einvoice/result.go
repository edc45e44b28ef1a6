package einvoice

import "github.com/shopspring/decimal"

// Result is the validated field tree produced by one assembly pass and
// consumed by the XML serializer. Sections are strongly typed; optional
// fields are pointers (nil = absent). A field is only ever set after it
// passed validation; the Result never holds partially-validated values.
type Result struct {
	Invoice           InvoiceSection
	SellerDetails     PartySection
	BuyerDetails      PartySection
	BusinessSettings  SettingsSection
	PrepaymentInvoice PrepaymentSection
}

// InvoiceSection holds the document header, totals, allowance/charge and
// line fields of the invoice.
type InvoiceSection struct {
	ID                     *string // invoice number
	UUID                   *string
	IssueDate              *string // YYYY-MM-DD
	IssueTime              *string // HH:MM:SS
	InvoiceTypeCode        *string // 388 / 383 / 381 / 386
	InvoiceTypeTransaction *string // 0100000 / 0200000
	Currency               *string
	TaxCurrency            *string
	InvoiceCounter         *int64  // ICV
	Pih                    *string // previous invoice hash
	PaymentMeansCode       *string
	ReturnReason           *string
	BillingReferenceID     *string // referenced invoice number for credit/debit notes
	ContractID             *string
	ActualDeliveryDate     *string
	LatestDeliveryDate     *string

	// Document-level allowance (discount). Required-ness of the amount
	// fields is governed by the indicator, evaluated by the assembler.
	AllowanceIndicator   *bool
	AllowanceAmount      *decimal.Decimal
	AllowanceBaseAmount  *decimal.Decimal
	AllowancePercent     *decimal.Decimal
	AllowanceReason      *string
	AllowanceReasonCode  *string
	AllowanceVatCategory *string
	AllowanceVatRate     *decimal.Decimal

	// Document-level allowance/charge entries beyond the header discount.
	// An invoice may carry any number of them; each one becomes a
	// cac:AllowanceCharge block and every amount feeds the totals.
	AllowanceCharges []AllowanceChargeValues

	// Legal monetary totals.
	LineExtensionAmount  *decimal.Decimal
	TaxExclusiveAmount   *decimal.Decimal
	TaxInclusiveAmount   *decimal.Decimal
	AllowanceTotalAmount *decimal.Decimal
	ChargeTotalAmount    *decimal.Decimal
	PrepaidAmount        *decimal.Decimal
	PayableAmount        *decimal.Decimal
	TaxTotal             *decimal.Decimal

	Lines        []LineValues
	TaxSubtotals []TaxSubtotalValues
}

// PartySection holds seller or buyer identity and address fields.
type PartySection struct {
	RegistrationName *string
	VatNumber        *string
	// OtherIDs preserves the canonical scheme order after validation.
	OtherIDs []SchemeValue

	BuildingNumber       *string
	StreetName           *string
	AdditionalStreetName *string
	District             *string
	CityName             *string
	PostalZone           *string
	CountrySubentity     *string
	CountryCode          *string
}

// AllowanceChargeValues is one validated document-level allowance or
// charge entry.
type AllowanceChargeValues struct {
	IsCharge    bool
	Amount      decimal.Decimal
	BaseAmount  *decimal.Decimal
	Percent     *decimal.Decimal
	Reason      string
	ReasonCode  string
	VatCategory string
	VatRate     *decimal.Decimal
}

// SchemeValue is one validated (scheme, value) party identifier.
type SchemeValue struct {
	Scheme string
	Value  string
}

// SettingsSection carries taxpayer-level configuration echoed into the
// result for the serializer.
type SettingsSection struct {
	CompanyName       *string
	CompanyNameArabic *string
	Currency          *string
	RoundingStrategy  *string
}

// LineValues is one validated invoice line ready for serialization.
type LineValues struct {
	Idx             int
	ItemName        string
	ItemCode        string
	UnitCode        string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	NetAmount       decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	TaxCategoryCode string
	ReasonCode      string
	ReasonText      string
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal

	IsPrepayment   bool
	PrepaymentUUID string
	PrepaymentDate string
}

// TaxSubtotalValues is one VAT category subtotal (lines grouped by
// category + reason + percent).
type TaxSubtotalValues struct {
	CategoryCode  string
	Percent       decimal.Decimal
	ReasonCode    string
	ReasonText    string
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
}

// PrepaymentSection aggregates the synthetic prepayment offset lines.
type PrepaymentSection struct {
	TotalTaxableAmount *decimal.Decimal
	TotalTaxAmount     *decimal.Decimal
	Lines              []LineValues
}
