package einvoice_test

import (
	"testing"
	"time"

	appeinvoice "zatca-pro/internal/application/einvoice"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplates map[string]*entity.TaxTemplate

func (f fakeTemplates) GetTaxTemplate(id string) (*entity.TaxTemplate, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

type fakePrepayments map[string]*entity.Invoice

func (f fakePrepayments) GetPrepaymentInvoice(id string) (*entity.Invoice, error) {
	if inv, ok := f[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func testSettings() *entity.BusinessSettings {
	return &entity.BusinessSettings{
		ID:                "bs-1",
		CompanyName:       "Najd Trading Co",
		CompanyNameArabic: "شركة نجد التجارية",
		VATNumber:         "310122393500003",
		BuildingNumber:    "2322",
		StreetName:        "King Fahd Road",
		District:          "Al Olaya",
		CityName:          "Riyadh",
		PostalZone:        "23333",
		CountryCode:       "SA",
		Currency:          "SAR",
		RoundingStrategy:  entity.RoundingDocumentLevel,
	}
}

func testInvoice(transaction string) *entity.Invoice {
	return &entity.Invoice{
		ID:                  "inv-1",
		SettingsID:          "bs-1",
		Number:              "INV-2024-0001",
		UUID:                "11111111-1111-1111-1111-111111111111",
		Counter:             1,
		PreviousInvoiceHash: pkgzatca.SeedPIH,
		TypeCode:            pkgzatca.TypeCodeTaxInvoice,
		TransactionCode:     transaction,
		IssueDate:           time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Currency:            "SAR",
		NetTotal:            decimal.NewFromInt(200),
		TaxTotal:            decimal.NewFromInt(30),
		GrandTotal:          decimal.NewFromInt(230),
		PayableAmount:       decimal.NewFromInt(230),
	}
}

func testLines() []*entity.InvoiceLine {
	return []*entity.InvoiceLine{
		{
			Idx: 1, ItemName: "Dates box", UnitCode: "PCE",
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50),
			TaxPercent: decimal.NewFromInt(15),
		},
		{
			Idx: 2, ItemName: "Delivery", UnitCode: "PCE",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100),
			TaxPercent: decimal.NewFromInt(15),
		},
	}
}

func testCustomer() *entity.Customer {
	return &entity.Customer{
		ID: "cus-1", SettingsID: "bs-1",
		Name:      "Gulf Retail LLC",
		VATNumber: "311111111100003",
		OtherIDs: []entity.PartyIdentifier{
			{Scheme: "CRN", Value: "1010101010"},
		},
		BuildingNumber: "7451",
		StreetName:     "Prince Sultan St",
		District:       "Al Hamra",
		CityName:       "Jeddah",
		PostalZone:     "23323",
		CountryCode:    "SA",
	}
}

func newAssembler(tpls fakeTemplates, preps fakePrepayments) *appeinvoice.Assembler {
	if tpls == nil {
		tpls = fakeTemplates{}
	}
	if preps == nil {
		preps = fakePrepayments{}
	}
	return appeinvoice.NewAssembler(tpls, preps)
}

// A complete Simplified (B2C) invoice with no buyer at all must assemble
// cleanly: buyer fields are optional for that subtype.
func TestAssemble_SimplifiedWithoutBuyerSucceeds(t *testing.T) {
	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  testInvoice(pkgzatca.TransactionSimplified),
		Lines:    testLines(),
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	iv := res.Invoice
	require.NotNil(t, iv.InvoiceTypeTransaction)
	assert.Equal(t, "0200000", *iv.InvoiceTypeTransaction)
	require.NotNil(t, iv.InvoiceCounter)
	assert.Equal(t, int64(1), *iv.InvoiceCounter)
	require.NotNil(t, iv.Pih)
	assert.Equal(t, pkgzatca.SeedPIH, *iv.Pih)
	assert.Equal(t, "2024-03-15", *iv.IssueDate)
	assert.Equal(t, "10:30:00", *iv.IssueTime)

	require.Len(t, iv.Lines, 2)
	assert.True(t, iv.Lines[0].NetAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, iv.Lines[0].TaxAmount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "S", iv.Lines[0].TaxCategoryCode)

	require.Len(t, iv.TaxSubtotals, 1)
	assert.True(t, iv.TaxSubtotals[0].TaxableAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, iv.TaxSubtotals[0].TaxAmount.Equal(decimal.NewFromInt(30)))

	require.NotNil(t, iv.TaxInclusiveAmount)
	assert.True(t, iv.TaxInclusiveAmount.Equal(decimal.NewFromInt(230)))
	require.NotNil(t, iv.PayableAmount)
	assert.True(t, iv.PayableAmount.Equal(decimal.NewFromInt(230)))
}

// A Standard (B2B) invoice whose buyer record lacks the city must report
// exactly that field and still return a full result: one pass collects
// every violation instead of failing fast.
func TestAssemble_StandardMissingBuyerCityIsSoftViolation(t *testing.T) {
	customer := testCustomer()
	customer.CityName = ""

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Customer: customer,
		Invoice:  testInvoice(pkgzatca.TransactionStandard),
		Lines:    testLines(),
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Missing field value: buyer_city", errs["buyer_city"])
	assert.Len(t, errs.Fields(), 1)

	// everything else still assembled
	require.NotNil(t, res.BuyerDetails.RegistrationName)
	assert.Equal(t, "Gulf Retail LLC", *res.BuyerDetails.RegistrationName)
	require.Len(t, res.BuyerDetails.OtherIDs, 1)
	assert.Equal(t, "CRN", res.BuyerDetails.OtherIDs[0].Scheme)
}

func TestAssemble_StandardBuyerNeedsVATOrOtherID(t *testing.T) {
	customer := testCustomer()
	customer.VATNumber = ""
	customer.OtherIDs = nil

	asm := newAssembler(nil, nil)
	_, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Customer: customer,
		Invoice:  testInvoice(pkgzatca.TransactionStandard),
		Lines:    testLines(),
	})

	require.NoError(t, err)
	assert.Contains(t, errs["buyer_vat_registration_number"], "Standard invoices require")
}

func TestAssemble_ClaimedTotalsMismatchAborts(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.GrandTotal = decimal.NewFromInt(999)

	asm := newAssembler(nil, nil)
	_, _, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConsistency)
}

func TestAssemble_UnknownTaxTemplateAborts(t *testing.T) {
	lines := testLines()
	lines[0].TaxTemplateID = "tpl-missing"

	asm := newAssembler(nil, nil)
	_, _, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  testInvoice(pkgzatca.TransactionSimplified),
		Lines:    lines,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAssemble_ExemptTemplateGroupsSeparately(t *testing.T) {
	tpls := fakeTemplates{
		"tpl-exempt": {
			ID: "tpl-exempt", Rate: decimal.Zero,
			CategoryLabel: "Exempt from Tax || Financial services mentioned in Article 29 of the VAT Regulations",
		},
	}
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.NetTotal = decimal.NewFromInt(200)
	inv.TaxTotal = decimal.NewFromInt(15)
	inv.GrandTotal = decimal.NewFromInt(215)
	inv.PayableAmount = decimal.NewFromInt(215)

	lines := testLines()
	lines[1].TaxTemplateID = "tpl-exempt"

	asm := newAssembler(tpls, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    lines,
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	require.Len(t, res.Invoice.TaxSubtotals, 2)
	exempt := res.Invoice.TaxSubtotals[1]
	assert.Equal(t, "E", exempt.CategoryCode)
	assert.Equal(t, "VATEX-SA-29", exempt.ReasonCode)
	assert.True(t, exempt.TaxAmount.IsZero())
	assert.Equal(t, "E", res.Invoice.Lines[1].TaxCategoryCode)
}

// Tax-inclusive pricing: a 115.00 gross line at 15% nets to 100.00.
func TestAssemble_TaxInclusivePricing(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.TaxInclusive = true
	inv.NetTotal = decimal.NewFromInt(100)
	inv.TaxTotal = decimal.NewFromInt(15)
	inv.GrandTotal = decimal.NewFromInt(115)
	inv.PayableAmount = decimal.NewFromInt(115)

	lines := []*entity.InvoiceLine{{
		Idx: 1, ItemName: "Gift card", UnitCode: "PCE",
		Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(115),
		TaxPercent: decimal.NewFromInt(15),
	}}

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    lines,
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)
	require.Len(t, res.Invoice.Lines, 1)
	assert.True(t, res.Invoice.Lines[0].NetAmount.Equal(decimal.NewFromInt(100)),
		"got %s", res.Invoice.Lines[0].NetAmount)
	assert.True(t, res.Invoice.Lines[0].TaxAmount.Equal(decimal.NewFromInt(15)),
		"got %s", res.Invoice.Lines[0].TaxAmount)
}

func TestAssemble_RowWiseRoundingAllocatesSubtotalAcrossLines(t *testing.T) {
	settings := testSettings()
	settings.RoundingStrategy = entity.RoundingRowWise

	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.NetTotal = decimal.NewFromFloat(0.30)
	inv.TaxTotal = decimal.NewFromFloat(0.05)
	inv.GrandTotal = decimal.NewFromFloat(0.35)
	inv.PayableAmount = decimal.NewFromFloat(0.35)

	// 0.10 * 3 at 15% = 0.045 raw tax; row-wise the rounded 0.05 must be
	// distributed so per-line taxes sum exactly to the subtotal.
	lines := []*entity.InvoiceLine{
		{Idx: 1, ItemName: "A", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(0.10), TaxPercent: decimal.NewFromInt(15)},
		{Idx: 2, ItemName: "B", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(0.10), TaxPercent: decimal.NewFromInt(15)},
		{Idx: 3, ItemName: "C", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(0.10), TaxPercent: decimal.NewFromInt(15)},
	}

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: settings,
		Invoice:  inv,
		Lines:    lines,
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	require.Len(t, res.Invoice.TaxSubtotals, 1)
	rowTax := res.Invoice.TaxSubtotals[0].TaxAmount

	var sum decimal.Decimal
	for _, ln := range res.Invoice.Lines {
		sum = sum.Add(ln.TaxAmount)
	}
	assert.True(t, sum.Equal(rowTax), "line taxes %s != subtotal %s", sum, rowTax)
}

func TestAssemble_DocumentDiscountDerivesPercentage(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.DiscountAmount = decimal.NewFromInt(23)
	// grand = 200 - 23 + 30 = 207
	inv.GrandTotal = decimal.NewFromInt(207)
	inv.PayableAmount = decimal.NewFromInt(207)

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	iv := res.Invoice
	require.NotNil(t, iv.AllowanceIndicator)
	assert.True(t, *iv.AllowanceIndicator)
	require.NotNil(t, iv.AllowanceAmount)
	assert.True(t, iv.AllowanceAmount.Equal(decimal.NewFromInt(23)))
	require.NotNil(t, iv.AllowancePercent)
	assert.False(t, iv.AllowancePercent.IsZero())
	require.NotNil(t, iv.AllowanceTotalAmount)
	assert.True(t, iv.AllowanceTotalAmount.Equal(decimal.NewFromInt(23)))
	require.NotNil(t, iv.TaxExclusiveAmount)
	assert.True(t, iv.TaxExclusiveAmount.Equal(decimal.NewFromInt(177)))
}

// Each discount derivation has its own base: an absolute amount reports
// its percentage over the tax-inclusive total (23 of 230 is 10%), while a
// given percentage applies to the line extension alone (10% of 200 is 20,
// not 23). Both directions are pinned here against the same 200/30 lines.
func TestAssemble_DiscountDerivationBases(t *testing.T) {
	asm := newAssembler(nil, nil)

	byAmount := testInvoice(pkgzatca.TransactionSimplified)
	byAmount.DiscountAmount = decimal.NewFromInt(23)
	byAmount.GrandTotal = decimal.NewFromInt(207)
	byAmount.PayableAmount = decimal.NewFromInt(207)

	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  byAmount,
		Lines:    testLines(),
	})
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)
	require.NotNil(t, res.Invoice.AllowancePercent)
	assert.True(t, res.Invoice.AllowancePercent.Equal(decimal.NewFromInt(10)),
		"got %s", res.Invoice.AllowancePercent)

	byPercent := testInvoice(pkgzatca.TransactionSimplified)
	byPercent.DiscountPercent = decimal.NewFromInt(10)
	byPercent.GrandTotal = decimal.NewFromInt(210)
	byPercent.PayableAmount = decimal.NewFromInt(210)

	res, errs, err = asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  byPercent,
		Lines:    testLines(),
	})
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)
	require.NotNil(t, res.Invoice.AllowanceAmount)
	assert.True(t, res.Invoice.AllowanceAmount.Equal(decimal.NewFromInt(20)),
		"got %s", res.Invoice.AllowanceAmount)
	require.NotNil(t, res.Invoice.TaxExclusiveAmount)
	assert.True(t, res.Invoice.TaxExclusiveAmount.Equal(decimal.NewFromInt(180)))
}

// Every document-level charge entry must land in the result and feed the
// totals: two charges of 10 and 5 on a 200 net / 30 tax invoice give a
// charge total of 15 and a tax-inclusive amount of 245.
func TestAssemble_MultipleDocumentChargesAllCounted(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.AllowanceCharges = []entity.AllowanceCharge{
		{IsCharge: true, Amount: decimal.NewFromInt(10), Reason: "Packaging", ReasonCode: "FC"},
		{IsCharge: true, Amount: decimal.NewFromInt(5), Reason: "Insurance", ReasonCode: "IN"},
	}
	inv.GrandTotal = decimal.NewFromInt(245)
	inv.PayableAmount = decimal.NewFromInt(245)

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	iv := res.Invoice
	require.Len(t, iv.AllowanceCharges, 2)
	assert.True(t, iv.AllowanceCharges[0].IsCharge)
	assert.True(t, iv.AllowanceCharges[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Packaging", iv.AllowanceCharges[0].Reason)
	assert.True(t, iv.AllowanceCharges[1].Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "S", iv.AllowanceCharges[1].VatCategory)

	require.NotNil(t, iv.ChargeTotalAmount)
	assert.True(t, iv.ChargeTotalAmount.Equal(decimal.NewFromInt(15)), "got %s", iv.ChargeTotalAmount)
	require.NotNil(t, iv.TaxExclusiveAmount)
	assert.True(t, iv.TaxExclusiveAmount.Equal(decimal.NewFromInt(215)))
	require.NotNil(t, iv.TaxInclusiveAmount)
	assert.True(t, iv.TaxInclusiveAmount.Equal(decimal.NewFromInt(245)))
	require.NotNil(t, iv.PayableAmount)
	assert.True(t, iv.PayableAmount.Equal(decimal.NewFromInt(245)))
}

// A mixed pair (one charge, one extra allowance) must push each amount to
// its own side of the totals.
func TestAssemble_ChargeAndExtraAllowanceSplitSides(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.AllowanceCharges = []entity.AllowanceCharge{
		{IsCharge: true, Amount: decimal.NewFromInt(20), Reason: "Freight"},
		{IsCharge: false, Amount: decimal.NewFromInt(8), Reason: "Loyalty rebate"},
	}
	// grand = 200 - 8 + 20 + 30
	inv.GrandTotal = decimal.NewFromInt(242)
	inv.PayableAmount = decimal.NewFromInt(242)

	asm := newAssembler(nil, nil)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	iv := res.Invoice
	require.NotNil(t, iv.ChargeTotalAmount)
	assert.True(t, iv.ChargeTotalAmount.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, iv.AllowanceTotalAmount)
	assert.True(t, iv.AllowanceTotalAmount.Equal(decimal.NewFromInt(8)))
	require.NotNil(t, iv.TaxInclusiveAmount)
	assert.True(t, iv.TaxInclusiveAmount.Equal(decimal.NewFromInt(242)))
}

func TestAssemble_PrepaymentOffsetReducesPayable(t *testing.T) {
	prepayment := &entity.Invoice{
		ID:        "prep-1",
		UUID:      "22222222-2222-2222-2222-222222222222",
		TypeCode:  pkgzatca.TypeCodePrepayment,
		Status:    entity.StatusAccepted,
		IssueDate: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	preps := fakePrepayments{"prep-1": prepayment}

	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.PrepaymentTotal = decimal.NewFromInt(115)
	inv.PayableAmount = decimal.NewFromInt(115) // 230 - 115

	asm := newAssembler(nil, preps)
	res, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
		Allocations: []*entity.PrepaymentAllocation{
			{InvoiceID: "inv-1", PrepaymentInvoiceID: "prep-1", AllocatedAmount: decimal.NewFromInt(115)},
		},
	})

	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)

	prep := res.PrepaymentInvoice
	require.Len(t, prep.Lines, 1)
	assert.True(t, prep.Lines[0].IsPrepayment)
	assert.Equal(t, 3, prep.Lines[0].Idx)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", prep.Lines[0].PrepaymentUUID)
	assert.Equal(t, "2024-01-10", prep.Lines[0].PrepaymentDate)
	assert.True(t, prep.Lines[0].NetAmount.Equal(decimal.NewFromInt(100)), "got %s", prep.Lines[0].NetAmount)
	assert.True(t, prep.Lines[0].TaxAmount.Equal(decimal.NewFromInt(15)), "got %s", prep.Lines[0].TaxAmount)

	require.NotNil(t, res.Invoice.PrepaidAmount)
	assert.True(t, res.Invoice.PrepaidAmount.Equal(decimal.NewFromInt(115)))
	require.NotNil(t, res.Invoice.PayableAmount)
	assert.True(t, res.Invoice.PayableAmount.Equal(decimal.NewFromInt(115)))
}

func TestAssemble_UnsubmittedPrepaymentAborts(t *testing.T) {
	prepayment := &entity.Invoice{
		ID:     "prep-1",
		UUID:   "22222222-2222-2222-2222-222222222222",
		Status: entity.StatusDraft,
	}
	preps := fakePrepayments{"prep-1": prepayment}

	asm := newAssembler(nil, preps)
	_, _, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  testInvoice(pkgzatca.TransactionSimplified),
		Lines:    testLines(),
		Allocations: []*entity.PrepaymentAllocation{
			{PrepaymentInvoiceID: "prep-1", AllocatedAmount: decimal.NewFromInt(50)},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestAssemble_ReturnRequiresReasonAndReference(t *testing.T) {
	inv := testInvoice(pkgzatca.TransactionSimplified)
	inv.TypeCode = pkgzatca.TypeCodeCreditNote
	inv.IsReturn = true // ReturnReason and ReturnAgainst left blank

	asm := newAssembler(nil, nil)
	_, errs, err := asm.Assemble(appeinvoice.AssembleInput{
		Settings: testSettings(),
		Invoice:  inv,
		Lines:    testLines(),
	})

	require.NoError(t, err)
	assert.Contains(t, errs, "return_reason")
	assert.Contains(t, errs, "billing_reference_id")
}

func TestAssemble_NilInputsRejected(t *testing.T) {
	asm := newAssembler(nil, nil)
	_, _, err := asm.Assemble(appeinvoice.AssembleInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
