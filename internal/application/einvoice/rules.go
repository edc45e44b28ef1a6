package einvoice

import (
	dom "zatca-pro/internal/domain/einvoice"

	"github.com/shopspring/decimal"
)

// Field rule declarations for the invoice source record. Bounds follow
// the ZATCA data dictionary (15-digit VAT numbers, 5-digit postal zones,
// 2-letter country codes, free-text fields capped at schema limits).
// Rule sets are composed per concern and merged once; flag-driven
// required-ness (allowance/charge indicators) is overridden per call by
// the assembler, as the accumulator contract demands.

var (
	zeroDec    = decimal.Zero
	oneDec     = decimal.NewFromInt(1)
	maxPercent = decimal.NewFromInt(100)
)

func headerRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "invoice_number", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 127, Out: "id"},
		dom.Rule{Name: "uuid", Kind: dom.KindText, Requirement: dom.Always, MinLen: 36, MaxLen: 36},
		dom.Rule{Name: "issue_date", Kind: dom.KindDate, Requirement: dom.Always},
		dom.Rule{Name: "issue_time", Kind: dom.KindTime, Requirement: dom.Always},
		dom.Rule{Name: "invoice_type_code", Kind: dom.KindText, Requirement: dom.Always, MinLen: 3, MaxLen: 3},
		dom.Rule{Name: "invoice_type_transaction", Kind: dom.KindText, Requirement: dom.Always, MinLen: 7, MaxLen: 7},
		dom.Rule{Name: "currency", Kind: dom.KindText, Requirement: dom.Always, MinLen: 3, MaxLen: 3},
		dom.Rule{Name: "tax_currency", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 3, MaxLen: 3},
		dom.Rule{Name: "invoice_counter", Kind: dom.KindInt, Requirement: dom.Always, Min: &oneDec},
		dom.Rule{Name: "pih", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 88},
		dom.Rule{Name: "payment_means_code", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 3},
		dom.Rule{Name: "return_reason", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 1000},
		dom.Rule{Name: "billing_reference_id", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 127},
		dom.Rule{Name: "contract_id", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 127},
		dom.Rule{Name: "actual_delivery_date", Kind: dom.KindDate, Requirement: dom.Optional},
		dom.Rule{Name: "latest_delivery_date", Kind: dom.KindDate, Requirement: dom.Optional},
	)
}

func totalsRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "net_total", Kind: dom.KindDecimal, Requirement: dom.Always, Min: &zeroDec},
		dom.Rule{Name: "tax_total", Kind: dom.KindDecimal, Requirement: dom.Always, Min: &zeroDec},
		dom.Rule{Name: "grand_total", Kind: dom.KindDecimal, Requirement: dom.Always, Min: &zeroDec},
		dom.Rule{Name: "prepayment_total", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec},
		dom.Rule{Name: "payable_amount", Kind: dom.KindDecimal, Requirement: dom.Always, Min: &zeroDec},
	)
}

// allowanceRules: amount fields are declared Optional here; when the
// document allowance indicator is set the assembler passes required=true
// per field, preserving the indicator-driven conditional semantics.
func allowanceRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "allowance_indicator", Kind: dom.KindBool, Requirement: dom.Optional},
		dom.Rule{Name: "discount_amount", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec},
		dom.Rule{Name: "discount_percentage", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec, Max: &maxPercent},
		dom.Rule{Name: "allowance_base_amount", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec},
		dom.Rule{Name: "allowance_reason", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 1000},
		dom.Rule{Name: "allowance_reason_code", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 4},
		dom.Rule{Name: "allowance_vat_category", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 1, MaxLen: 1},
		dom.Rule{Name: "allowance_vat_rate", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec, Max: &maxPercent},
	)
}

// chargeRules: the declared contract every allowance_charges.N.* entry is
// validated against; the amount turns required per entry in the assembler.
func chargeRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "charge_amount", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec},
		dom.Rule{Name: "charge_base_amount", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec},
		dom.Rule{Name: "charge_reason", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 1000},
		dom.Rule{Name: "charge_reason_code", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 4},
		dom.Rule{Name: "charge_vat_category", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 1, MaxLen: 1},
		dom.Rule{Name: "charge_vat_rate", Kind: dom.KindDecimal, Requirement: dom.Optional, Min: &zeroDec, Max: &maxPercent},
	)
}

func sellerRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "company_name", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 1000},
		dom.Rule{Name: "company_name_arabic", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 1000},
		dom.Rule{Name: "seller_vat_registration_number", Kind: dom.KindText, Requirement: dom.Always, MinLen: 15, MaxLen: 15},
		dom.Rule{Name: "seller_building_number", Kind: dom.KindText, Requirement: dom.Always, MinLen: 4, MaxLen: 4},
		dom.Rule{Name: "seller_street_name", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 1000},
		dom.Rule{Name: "seller_district", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 127},
		dom.Rule{Name: "seller_city", Kind: dom.KindText, Requirement: dom.Always, MaxLen: 127, Out: "city_name"},
		dom.Rule{Name: "seller_postal_zone", Kind: dom.KindText, Requirement: dom.Always, MinLen: 5, MaxLen: 5},
		dom.Rule{Name: "seller_country_code", Kind: dom.KindText, Requirement: dom.Always, MinLen: 2, MaxLen: 2},
	)
}

// buyerRules: identity and address are mandatory for Standard (B2B)
// invoices only. The VAT-or-other-ID alternative is enforced separately
// by the party resolver.
func buyerRules() dom.RuleSet {
	return dom.NewRuleSet(
		dom.Rule{Name: "buyer_name", Kind: dom.KindText, Requirement: dom.StandardOnly, MaxLen: 1000},
		dom.Rule{Name: "buyer_vat_registration_number", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 15, MaxLen: 15},
		dom.Rule{Name: "buyer_building_number", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 4, MaxLen: 4},
		dom.Rule{Name: "buyer_street_name", Kind: dom.KindText, Requirement: dom.StandardOnly, MaxLen: 1000},
		dom.Rule{Name: "buyer_district", Kind: dom.KindText, Requirement: dom.Optional, MaxLen: 127},
		dom.Rule{Name: "buyer_city", Kind: dom.KindText, Requirement: dom.StandardOnly, MaxLen: 127, Out: "city_name"},
		dom.Rule{Name: "buyer_postal_zone", Kind: dom.KindText, Requirement: dom.Optional, MinLen: 5, MaxLen: 5},
		dom.Rule{Name: "buyer_country_code", Kind: dom.KindText, Requirement: dom.StandardOnly, MinLen: 2, MaxLen: 2},
	)
}

// InvoiceRules composes the full rule set for one assembly pass.
func InvoiceRules() dom.RuleSet {
	return dom.Merge(headerRules(), totalsRules(), allowanceRules(), chargeRules(), sellerRules(), buyerRules())
}
