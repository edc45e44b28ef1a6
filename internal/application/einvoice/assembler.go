package einvoice

import (
	"fmt"

	"zatca-pro/internal/domain"
	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/internal/domain/entity"
	domzatca "zatca-pro/internal/domain/zatca"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/shopspring/decimal"
)

// Assembler builds the validated field tree for one invoice. A single
// pass runs every field through the accumulator and collects all soft
// violations before returning; only configuration, consistency and
// precondition failures abort early, because continuing past those would
// produce a document that lies about its tax treatment.
type Assembler struct {
	templates   TaxTemplateStore
	prepayments PrepaymentStore
}

func NewAssembler(templates TaxTemplateStore, prepayments PrepaymentStore) *Assembler {
	return &Assembler{templates: templates, prepayments: prepayments}
}

// AssembleInput carries the already-loaded entities for one assembly
// pass. Lines must exclude prepayment offset lines; those are derived
// here from Allocations.
type AssembleInput struct {
	Settings    *entity.BusinessSettings
	Customer    *entity.Customer // nil for walk-in Simplified buyers
	Invoice     *entity.Invoice
	Lines       []*entity.InvoiceLine
	Allocations []*entity.PrepaymentAllocation
}

// lineGroup accumulates one tax-treatment subtotal while lines are built.
type lineGroup struct {
	cat     domzatca.Category
	taxable decimal.Decimal // unrounded sum of member nets
	tax     decimal.Decimal // unrounded sum of member taxes
	members []int           // indexes into the lines slice
}

// Assemble validates and derives every field of the invoice into a typed
// Result. Field-level violations accumulate in the returned Errors and do
// not stop the pass; the error return is reserved for hard failures
// (unknown tax category, scheme-order violation, totals inconsistency,
// unsubmitted prepayment reference) where no usable Result exists.
func (a *Assembler) Assemble(in AssembleInput) (*dom.Result, dom.Errors, error) {
	if in.Settings == nil || in.Invoice == nil {
		return nil, nil, fmt.Errorf("%w: assembly requires business settings and an invoice", domain.ErrInvalidInput)
	}

	inv := in.Invoice
	standard := inv.TransactionCode == pkgzatca.TransactionStandard

	rec := sourceRecord(in)
	errs := dom.Errors{}
	acc := dom.NewAccumulator(rec, errs)
	rules := InvoiceRules()
	res := &dom.Result{}

	// ---------------------------------------------------------------------
	// Header
	// ---------------------------------------------------------------------
	a.accumulateHeader(acc, rules, inv, res)

	// ---------------------------------------------------------------------
	// Settings + parties
	// ---------------------------------------------------------------------
	if err := a.resolveSettings(acc, rules, in.Settings, res); err != nil {
		return nil, errs, err
	}
	if err := resolveSellerParty(acc, rules, res); err != nil {
		return nil, errs, err
	}
	if err := resolveSellerIDs(in.Settings.OtherIDs, res); err != nil {
		return nil, errs, err
	}
	var buyerIDs []entity.PartyIdentifier
	if in.Customer != nil {
		buyerIDs = in.Customer.OtherIDs
	}
	if err := resolveBuyerParty(acc, rules, standard, buyerIDs, res, errs); err != nil {
		return nil, errs, err
	}

	// ---------------------------------------------------------------------
	// Lines and tax subtotals
	// ---------------------------------------------------------------------
	lines, groups, order, err := a.buildLines(in, errs)
	if err != nil {
		return nil, errs, err
	}

	var lineExt decimal.Decimal
	for _, ln := range lines {
		lineExt = lineExt.Add(ln.NetAmount)
	}

	taxTotal := applyRounding(in.Settings.RoundingStrategy, lines, groups, order, res)
	res.Invoice.Lines = lines

	// ---------------------------------------------------------------------
	// Document allowances and charges
	// ---------------------------------------------------------------------
	allowanceTotal, err := a.resolveAllowance(acc, rules, res, lineExt, taxTotal)
	if err != nil {
		return nil, errs, err
	}
	chargeTotal, extraAllowances := a.resolveAllowanceCharges(acc, rules, inv, res, lineExt)
	allowanceTotal = allowanceTotal.Add(extraAllowances)

	// ---------------------------------------------------------------------
	// Prepayment offsets
	// ---------------------------------------------------------------------
	prepaid, err := a.resolvePrepayments(in, len(lines), res)
	if err != nil {
		return nil, errs, err
	}

	// ---------------------------------------------------------------------
	// Legal monetary totals
	// ---------------------------------------------------------------------
	taxExclusive := lineExt.Sub(allowanceTotal).Add(chargeTotal)
	taxInclusive := taxExclusive.Add(taxTotal)
	payable := taxInclusive.Sub(prepaid)

	setDec(&res.Invoice.LineExtensionAmount, lineExt)
	setDec(&res.Invoice.TaxExclusiveAmount, taxExclusive)
	setDec(&res.Invoice.TaxInclusiveAmount, taxInclusive)
	setDec(&res.Invoice.TaxTotal, taxTotal)
	if !allowanceTotal.IsZero() {
		setDec(&res.Invoice.AllowanceTotalAmount, allowanceTotal)
	}
	if !chargeTotal.IsZero() {
		setDec(&res.Invoice.ChargeTotalAmount, chargeTotal)
	}
	if !prepaid.IsZero() {
		setDec(&res.Invoice.PrepaidAmount, prepaid)
	}
	setDec(&res.Invoice.PayableAmount, payable)

	// The claimed header totals are validated for type and range, then
	// checked against each other. A failed equality is a hard stop: the
	// source transaction disagrees with itself.
	var claimedNet, claimedTax, claimedGrand, claimedPrepaid, claimedPayable *decimal.Decimal
	decRule(acc, rules, "net_total", true, &claimedNet)
	decRule(acc, rules, "tax_total", true, &claimedTax)
	decRule(acc, rules, "grand_total", true, &claimedGrand)
	decRule(acc, rules, "prepayment_total", false, &claimedPrepaid)
	decRule(acc, rules, "payable_amount", true, &claimedPayable)

	if claimedGrand != nil && claimedNet != nil && claimedTax != nil {
		taxesAndCharges := claimedTax.Add(chargeTotal).Sub(allowanceTotal)
		if err := domzatca.CheckTotals(*claimedGrand, *claimedNet, taxesAndCharges); err != nil {
			return nil, errs, err
		}
	}

	return res, errs, nil
}

func (a *Assembler) accumulateHeader(acc *dom.Accumulator, rules dom.RuleSet, inv *entity.Invoice, res *dom.Result) {
	iv := &res.Invoice
	textRule(acc, rules, "invoice_number", true, &iv.ID)
	textRule(acc, rules, "uuid", true, &iv.UUID)
	acc.Date("issue_date", true, &iv.IssueDate)
	acc.Time("issue_time", true, &iv.IssueTime)
	textRule(acc, rules, "invoice_type_code", true, &iv.InvoiceTypeCode)
	textRule(acc, rules, "invoice_type_transaction", true, &iv.InvoiceTypeTransaction)
	textRule(acc, rules, "currency", true, &iv.Currency)
	textRule(acc, rules, "tax_currency", false, &iv.TaxCurrency)
	intRule(acc, rules, "invoice_counter", true, &iv.InvoiceCounter)
	textRule(acc, rules, "pih", true, &iv.Pih)
	textRule(acc, rules, "payment_means_code", false, &iv.PaymentMeansCode)
	textRule(acc, rules, "contract_id", false, &iv.ContractID)
	acc.Date("actual_delivery_date", false, &iv.ActualDeliveryDate)
	acc.Date("latest_delivery_date", false, &iv.LatestDeliveryDate)

	// Credit and debit notes must carry the reference to the invoice they
	// correct and the reason for the correction.
	textRule(acc, rules, "return_reason", inv.IsReturn, &iv.ReturnReason)
	textRule(acc, rules, "billing_reference_id", inv.IsReturn, &iv.BillingReferenceID)
}

func (a *Assembler) resolveSettings(acc *dom.Accumulator, rules dom.RuleSet, st *entity.BusinessSettings, res *dom.Result) error {
	sec := &res.BusinessSettings
	textRule(acc, rules, "company_name", true, &sec.CompanyName)
	textRule(acc, rules, "company_name_arabic", true, &sec.CompanyNameArabic)
	sec.Currency = res.Invoice.TaxCurrency

	switch st.RoundingStrategy {
	case entity.RoundingDocumentLevel, entity.RoundingRowWise:
		s := st.RoundingStrategy
		sec.RoundingStrategy = &s
	case "":
		s := entity.RoundingDocumentLevel
		sec.RoundingStrategy = &s
	default:
		return fmt.Errorf("%w: unknown rounding strategy %q", domain.ErrConfiguration, st.RoundingStrategy)
	}
	return nil
}

// buildLines derives the validated line values and groups them by tax
// treatment. Tax amounts are left unrounded here; applyRounding finalizes
// them under the taxpayer's rounding strategy.
func (a *Assembler) buildLines(in AssembleInput, errs dom.Errors) ([]dom.LineValues, map[string]*lineGroup, []string, error) {
	inv := in.Invoice
	lines := make([]dom.LineValues, 0, len(in.Lines))
	groups := make(map[string]*lineGroup)
	var order []string

	for _, src := range in.Lines {
		if src.IsPrepayment {
			continue
		}

		cat, err := a.lineCategory(src, inv)
		if err != nil {
			return nil, nil, nil, err
		}

		field := fmt.Sprintf("items.%d", src.Idx)
		if src.ItemName == "" {
			errs.Add(field+".item_name", "Missing field value: item_name")
		}
		if src.Quantity.Sign() <= 0 {
			errs.Add(field+".quantity", "Value of quantity must be positive, got %s", src.Quantity.String())
		}

		qty := src.Quantity.Abs()
		price := src.UnitPrice.Abs()
		gross := qty.Mul(price)

		discount := src.DiscountAmount.Abs()
		if discount.IsZero() && !src.DiscountPercent.IsZero() {
			discount = domzatca.DeriveAmount(src.DiscountPercent.Abs(), gross)
		}
		if discount.GreaterThan(gross) {
			errs.Add(field+".discount_amount", "Discount %s exceeds the line amount %s",
				discount.StringFixed(2), gross.StringFixed(2))
			discount = gross
		}
		gross = gross.Sub(discount)

		net := gross
		if inv.TaxInclusive {
			net = domzatca.InclusiveNet(gross, cat.Percent)
		}
		tax := net.Mul(cat.Percent).Div(decimal.NewFromInt(100))

		ln := dom.LineValues{
			Idx:             src.Idx,
			ItemName:        src.ItemName,
			ItemCode:        src.ItemCode,
			UnitCode:        unitOrDefault(src.UnitCode),
			Quantity:        qty,
			UnitPrice:       price,
			NetAmount:       net.Round(2),
			TaxPercent:      cat.Percent,
			TaxAmount:       tax.Round(2),
			TaxCategoryCode: cat.Code,
			ReasonCode:      cat.ReasonCode,
			ReasonText:      cat.ArabicReason,
			DiscountAmount:  discount.Round(2),
			DiscountPercent: src.DiscountPercent.Abs(),
		}

		key := cat.GroupKey()
		g, ok := groups[key]
		if !ok {
			g = &lineGroup{cat: cat}
			groups[key] = g
			order = append(order, key)
		}
		g.taxable = g.taxable.Add(net)
		g.tax = g.tax.Add(tax)
		g.members = append(g.members, len(lines))
		lines = append(lines, ln)
	}
	return lines, groups, order, nil
}

// lineCategory resolves the tax treatment of one line: the line's own
// template wins over the document-level one; with neither configured the
// line's stored percent is taken at the standard category.
func (a *Assembler) lineCategory(src *entity.InvoiceLine, inv *entity.Invoice) (domzatca.Category, error) {
	templateID := src.TaxTemplateID
	if templateID == "" {
		templateID = inv.TaxTemplateID
	}
	if templateID == "" {
		return domzatca.Category{Code: pkgzatca.CategoryStandard, Percent: src.TaxPercent.Abs()}, nil
	}
	tpl, err := a.templates.GetTaxTemplate(templateID)
	if err != nil {
		return domzatca.Category{}, fmt.Errorf("%w: tax template %s: %v", domain.ErrConfiguration, templateID, err)
	}
	return domzatca.ResolveCategory(tpl.CategoryLabel, tpl.CustomReason, tpl.Rate)
}

// applyRounding finalizes per-line tax amounts and builds the subtotals.
// Under document-level rounding each subtotal rounds its own unrounded
// sum; under row-wise rounding the rounded subtotal is allocated back
// across the member lines so the parts reproduce it exactly.
func applyRounding(strategy string, lines []dom.LineValues, groups map[string]*lineGroup, order []string, res *dom.Result) decimal.Decimal {
	var taxTotal decimal.Decimal
	for _, key := range order {
		g := groups[key]
		rowTax := g.tax.Round(2)

		if strategy == entity.RoundingRowWise {
			nets := make([]decimal.Decimal, len(g.members))
			for i, li := range g.members {
				nets[i] = lines[li].NetAmount
			}
			shares := domzatca.AllocateRowWise(rowTax, nets)
			for i, li := range g.members {
				lines[li].TaxAmount = shares[i]
			}
		}

		res.Invoice.TaxSubtotals = append(res.Invoice.TaxSubtotals, dom.TaxSubtotalValues{
			CategoryCode:  g.cat.Code,
			Percent:       g.cat.Percent,
			ReasonCode:    g.cat.ReasonCode,
			ReasonText:    g.cat.ArabicReason,
			TaxableAmount: g.taxable.Round(2),
			TaxAmount:     rowTax,
		})
		taxTotal = taxTotal.Add(rowTax)
	}
	return taxTotal
}

// resolveAllowance validates the document discount. Amount and percentage
// derive from each other when only one is present; with the indicator set
// and neither present the discount is a field violation.
func (a *Assembler) resolveAllowance(acc *dom.Accumulator, rules dom.RuleSet, res *dom.Result, lineExt, taxTotal decimal.Decimal) (decimal.Decimal, error) {
	iv := &res.Invoice
	acc.Bool("allowance_indicator", false, &iv.AllowanceIndicator)
	on := iv.AllowanceIndicator != nil && *iv.AllowanceIndicator
	if !on {
		return decimal.Zero, nil
	}

	hasAmount := decRule(acc, rules, "discount_amount", false, &iv.AllowanceAmount)
	hasPercent := decRule(acc, rules, "discount_percentage", false, &iv.AllowancePercent)
	decRule(acc, rules, "allowance_base_amount", false, &iv.AllowanceBaseAmount)
	textRule(acc, rules, "allowance_reason", false, &iv.AllowanceReason)
	textRule(acc, rules, "allowance_reason_code", false, &iv.AllowanceReasonCode)
	hasCat := textRule(acc, rules, "allowance_vat_category", false, &iv.AllowanceVatCategory)
	decRule(acc, rules, "allowance_vat_rate", false, &iv.AllowanceVatRate)

	// The bases are pinned per direction: an amount reports its percentage
	// over the tax-inclusive line total, a percentage is taken over the
	// line extension alone. Chaining the two is not an identity.
	switch {
	case hasAmount && !hasPercent:
		pct := domzatca.DerivePercent(*iv.AllowanceAmount, lineExt.Add(taxTotal)).Round(2)
		iv.AllowancePercent = &pct
	case hasPercent && !hasAmount:
		amt := domzatca.DeriveAmount(*iv.AllowancePercent, lineExt).Round(2)
		iv.AllowanceAmount = &amt
	case !hasAmount && !hasPercent:
		// re-run as required so the missing-field violation is recorded
		acc.Decimal("discount_amount", true, new(*decimal.Decimal), dom.DecimalOpts{})
		return decimal.Zero, nil
	}

	if iv.AllowanceBaseAmount == nil {
		base := lineExt.Round(2)
		iv.AllowanceBaseAmount = &base
	}
	if !hasCat {
		cat := pkgzatca.CategoryStandard
		iv.AllowanceVatCategory = &cat
		rate := decimal.NewFromInt(pkgzatca.StandardVATRate)
		iv.AllowanceVatRate = &rate
	}
	return *iv.AllowanceAmount, nil
}

// resolveAllowanceCharges validates every explicit document allowance/
// charge entry, mirroring the header-discount allowance. Each entry runs
// through the accumulator under its indexed record keys and, when valid,
// lands in the Result list. Returns the summed charge and allowance
// amounts; both feed the legal monetary totals and the totals cross-check.
func (a *Assembler) resolveAllowanceCharges(acc *dom.Accumulator, rules dom.RuleSet, inv *entity.Invoice, res *dom.Result, lineExt decimal.Decimal) (charges, allowances decimal.Decimal) {
	for i := range inv.AllowanceCharges {
		src := &inv.AllowanceCharges[i]
		key := fmt.Sprintf("allowance_charges.%d.", i+1)
		entry := dom.AllowanceChargeValues{IsCharge: src.IsCharge}

		var amount *decimal.Decimal
		if !decAt(acc, rules, key+"amount", "charge_amount", true, &amount) {
			continue
		}
		entry.Amount = *amount

		decAt(acc, rules, key+"base_amount", "charge_base_amount", false, &entry.BaseAmount)
		decAt(acc, rules, key+"percentage", "discount_percentage", false, &entry.Percent)

		var reason, reasonCode, category *string
		textAt(acc, rules, key+"reason", "charge_reason", false, &reason)
		textAt(acc, rules, key+"reason_code", "charge_reason_code", false, &reasonCode)
		hasCat := textAt(acc, rules, key+"vat_category", "charge_vat_category", false, &category)
		decAt(acc, rules, key+"vat_rate", "charge_vat_rate", false, &entry.VatRate)
		if reason != nil {
			entry.Reason = *reason
		}
		if reasonCode != nil {
			entry.ReasonCode = *reasonCode
		}

		if entry.BaseAmount == nil {
			base := lineExt.Round(2)
			entry.BaseAmount = &base
		}
		if hasCat {
			entry.VatCategory = *category
		} else {
			entry.VatCategory = pkgzatca.CategoryStandard
			rate := decimal.NewFromInt(pkgzatca.StandardVATRate)
			entry.VatRate = &rate
		}

		res.Invoice.AllowanceCharges = append(res.Invoice.AllowanceCharges, entry)
		if entry.IsCharge {
			charges = charges.Add(entry.Amount)
		} else {
			allowances = allowances.Add(entry.Amount)
		}
	}
	return charges, allowances
}

// resolvePrepayments derives the synthetic offset lines from the payment
// allocations and aggregates them into the prepayment section. Returns
// the gross prepaid amount (taxable + tax).
func (a *Assembler) resolvePrepayments(in AssembleInput, realLines int, res *dom.Result) (decimal.Decimal, error) {
	if len(in.Allocations) == 0 {
		return decimal.Zero, nil
	}

	var taxable, tax decimal.Decimal
	for i, alloc := range in.Allocations {
		prepayment, err := a.prepayments.GetPrepaymentInvoice(alloc.PrepaymentInvoiceID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: prepayment invoice %s: %v",
				domain.ErrPrecondition, alloc.PrepaymentInvoiceID, err)
		}

		cat := domzatca.Category{Code: pkgzatca.CategoryStandard, Percent: decimal.NewFromInt(pkgzatca.StandardVATRate)}
		if prepayment != nil && prepayment.TaxTemplateID != "" {
			tpl, err := a.templates.GetTaxTemplate(prepayment.TaxTemplateID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("%w: tax template %s: %v",
					domain.ErrConfiguration, prepayment.TaxTemplateID, err)
			}
			if cat, err = domzatca.ResolveCategory(tpl.CategoryLabel, tpl.CustomReason, tpl.Rate); err != nil {
				return decimal.Zero, err
			}
		}

		ln, err := buildPrepaymentLine(alloc, prepayment, cat, realLines+i+1)
		if err != nil {
			return decimal.Zero, err
		}
		res.PrepaymentInvoice.Lines = append(res.PrepaymentInvoice.Lines, ln)
		taxable = taxable.Add(ln.NetAmount)
		tax = tax.Add(ln.TaxAmount)
	}

	setDec(&res.PrepaymentInvoice.TotalTaxableAmount, taxable)
	setDec(&res.PrepaymentInvoice.TotalTaxAmount, tax)
	return taxable.Add(tax), nil
}

// sourceRecord flattens the loaded entities into the accumulator's source
// record. Blank strings count as absent, so unconditional assignment of
// optional string fields is safe.
func sourceRecord(in AssembleInput) dom.Record {
	inv, st := in.Invoice, in.Settings
	rec := dom.Record{
		"invoice_number":           inv.Number,
		"uuid":                     inv.UUID,
		"issue_date":               inv.IssueDate,
		"issue_time":               inv.IssueDate,
		"invoice_type_code":        inv.TypeCode,
		"invoice_type_transaction": inv.TransactionCode,
		"currency":                 inv.Currency,
		"tax_currency":             st.Currency,
		"invoice_counter":          inv.Counter,
		"pih":                      inv.PreviousInvoiceHash,
		"payment_means_code":       inv.PaymentMeans,

		"net_total":      inv.NetTotal,
		"tax_total":      inv.TaxTotal,
		"grand_total":    inv.GrandTotal,
		"payable_amount": inv.PayableAmount,

		"company_name":                   st.CompanyName,
		"company_name_arabic":            st.CompanyNameArabic,
		"seller_vat_registration_number": st.VATNumber,
		"seller_building_number":         st.BuildingNumber,
		"seller_street_name":             st.StreetName,
		"seller_district":                st.District,
		"seller_city":                    st.CityName,
		"seller_postal_zone":             st.PostalZone,
		"seller_country_code":            st.CountryCode,
	}

	if inv.IsReturn {
		rec["return_reason"] = inv.ReturnReason
		rec["billing_reference_id"] = inv.ReturnAgainst
	}
	if !inv.PrepaymentTotal.IsZero() {
		rec["prepayment_total"] = inv.PrepaymentTotal
	}

	flattenAllowanceCharge(rec, inv)

	if c := in.Customer; c != nil {
		rec["buyer_name"] = c.Name
		rec["buyer_vat_registration_number"] = c.VATNumber
		rec["buyer_building_number"] = c.BuildingNumber
		rec["buyer_street_name"] = c.StreetName
		rec["buyer_district"] = c.District
		rec["buyer_city"] = c.CityName
		rec["buyer_postal_zone"] = c.PostalZone
		rec["buyer_country_code"] = c.CountryCode
	}
	return rec
}

// flattenAllowanceCharge maps the invoice's document-level discount into
// the indicator-gated record keys and every explicit allowance/charge
// entry into its own indexed key group, following the items.<idx>
// convention so violations name the offending entry.
func flattenAllowanceCharge(rec dom.Record, inv *entity.Invoice) {
	if !inv.DiscountAmount.IsZero() || !inv.DiscountPercent.IsZero() {
		rec["allowance_indicator"] = true
		if !inv.DiscountAmount.IsZero() {
			rec["discount_amount"] = inv.DiscountAmount
		}
		if !inv.DiscountPercent.IsZero() {
			rec["discount_percentage"] = inv.DiscountPercent
		}
	}

	for i := range inv.AllowanceCharges {
		ac := &inv.AllowanceCharges[i]
		key := fmt.Sprintf("allowance_charges.%d.", i+1)
		rec[key+"amount"] = ac.Amount
		if !ac.BaseAmount.IsZero() {
			rec[key+"base_amount"] = ac.BaseAmount
		}
		if !ac.Percent.IsZero() {
			rec[key+"percentage"] = ac.Percent
		}
		rec[key+"reason"] = ac.Reason
		rec[key+"reason_code"] = ac.ReasonCode
		rec[key+"vat_category"] = ac.TaxCategory
		if !ac.TaxRate.IsZero() {
			rec[key+"vat_rate"] = ac.TaxRate
		}
	}
}

func unitOrDefault(code string) string {
	if code == "" {
		return pkgzatca.UnitPiece
	}
	return code
}

func setDec(dst **decimal.Decimal, v decimal.Decimal) {
	r := v.Round(2)
	*dst = &r
}

// decRule runs one Decimal accumulation using the declared rule's bounds.
func decRule(acc *dom.Accumulator, rules dom.RuleSet, name string, required bool, dst **decimal.Decimal) bool {
	r := rules.Get(name)
	return acc.Decimal(name, required, dst, dom.DecimalOpts{Min: r.Min, Max: r.Max})
}

// decAt and textAt validate an indexed record key (allowance_charges.N.*)
// against a named rule's bounds, so repeated entries share one declared
// contract while violations name the concrete entry.
func decAt(acc *dom.Accumulator, rules dom.RuleSet, key, ruleName string, required bool, dst **decimal.Decimal) bool {
	r := rules.Get(ruleName)
	return acc.Decimal(key, required, dst, dom.DecimalOpts{Min: r.Min, Max: r.Max})
}

func textAt(acc *dom.Accumulator, rules dom.RuleSet, key, ruleName string, required bool, dst **string) bool {
	r := rules.Get(ruleName)
	return acc.Text(key, required, dst, dom.TextOpts{MinLen: r.MinLen, MaxLen: r.MaxLen})
}

// intRule runs one Int accumulation, narrowing the rule's decimal bounds.
func intRule(acc *dom.Accumulator, rules dom.RuleSet, name string, required bool, dst **int64) bool {
	r := rules.Get(name)
	var opts dom.IntOpts
	if r.Min != nil {
		v := r.Min.IntPart()
		opts.Min = &v
	}
	if r.Max != nil {
		v := r.Max.IntPart()
		opts.Max = &v
	}
	return acc.Int(name, required, dst, opts)
}
