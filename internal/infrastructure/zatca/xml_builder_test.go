package zatca_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/internal/infrastructure/zatca"
)

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// minimalResult builds the smallest field tree the serializer accepts: a
// simplified invoice with one standard-rated line.
func minimalResult() *dom.Result {
	res := &dom.Result{}
	res.Invoice = dom.InvoiceSection{
		ID:                     strPtr("INV-000001"),
		UUID:                   strPtr("8e6000cf-1a98-4174-b3e7-b5d5954bc5d0"),
		IssueDate:              strPtr("2024-03-15"),
		IssueTime:              strPtr("09:30:00"),
		InvoiceTypeCode:        strPtr("388"),
		InvoiceTypeTransaction: strPtr("0200000"),
		Currency:               strPtr("SAR"),
		InvoiceCounter:         int64Ptr(1),
		Pih:                    strPtr("NWZlY2ViNjZmZmM4NmYzOGQ5NTI3ODZjNmQ2OTZjNzljMmRiYzIzOWRkNGU5MWI0NjcyOWQ3M2EyN2ZiNTdlOQ=="),
		LineExtensionAmount:    decPtr(100),
		TaxExclusiveAmount:     decPtr(100),
		TaxInclusiveAmount:     decPtr(115),
		PayableAmount:          decPtr(115),
		TaxTotal:               decPtr(15),
		Lines: []dom.LineValues{{
			Idx: 1, ItemName: "Widget", UnitCode: "PCE",
			Quantity:   decimal.NewFromInt(2),
			UnitPrice:  decimal.NewFromInt(50),
			NetAmount:  decimal.NewFromInt(100),
			TaxPercent: decimal.NewFromInt(15), TaxAmount: decimal.NewFromInt(15),
			TaxCategoryCode: "S",
		}},
		TaxSubtotals: []dom.TaxSubtotalValues{{
			CategoryCode: "S", Percent: decimal.NewFromInt(15),
			TaxableAmount: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(15),
		}},
	}
	res.SellerDetails = dom.PartySection{
		RegistrationName: strPtr("Riyadh Trading Co"),
		VatNumber:        strPtr("310122393500003"),
		BuildingNumber:   strPtr("1234"),
		StreetName:       strPtr("King Fahd Road"),
		District:         strPtr("Al Olaya"),
		CityName:         strPtr("Riyadh"),
		PostalZone:       strPtr("12211"),
		CountryCode:      strPtr("SA"),
	}
	return res
}

func TestXMLBuild_MinimalSimplifiedInvoice(t *testing.T) {
	svc := zatca.NewXMLBuilderService()
	out, err := svc.Build(minimalResult())
	require.NoError(t, err)
	doc := string(out)

	// UBLExtensions must be the first child so the signer can inject there
	extIdx := strings.Index(doc, "UBLExtensions")
	idIdx := strings.Index(doc, "INV-000001")
	require.Greater(t, extIdx, 0)
	assert.Less(t, extIdx, idIdx, "UBLExtensions must precede the document header")

	assert.Contains(t, doc, ">reporting:1.0<", "fixed profile ID")
	assert.Contains(t, doc, `name="0200000"`, "transaction subtype on InvoiceTypeCode")
	assert.Contains(t, doc, ">388<")
	assert.Contains(t, doc, ">ICV<")
	assert.Contains(t, doc, ">PIH<")
	assert.Contains(t, doc, ">QR<")
	assert.Contains(t, doc, "310122393500003")
	assert.Contains(t, doc, "Riyadh Trading Co")
	assert.Contains(t, doc, `currencyID="SAR"`)
	assert.Contains(t, doc, ">115.00<", "amounts carry two decimals")
	// Simplified walk-in invoice: no buyer party block
	assert.NotContains(t, doc, "AccountingCustomerParty")
}

func TestXMLBuild_BuyerPartyForStandardInvoice(t *testing.T) {
	res := minimalResult()
	res.Invoice.InvoiceTypeTransaction = strPtr("0100000")
	res.BuyerDetails = dom.PartySection{
		RegistrationName: strPtr("Jeddah Buyer LLC"),
		VatNumber:        strPtr("311111111100003"),
		OtherIDs:         []dom.SchemeValue{{Scheme: "CRN", Value: "1010101010"}},
		CountryCode:      strPtr("SA"),
	}

	svc := zatca.NewXMLBuilderService()
	out, err := svc.Build(res)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "AccountingCustomerParty")
	assert.Contains(t, doc, "Jeddah Buyer LLC")
	assert.Contains(t, doc, `schemeID="CRN"`)
	assert.Contains(t, doc, `name="0100000"`)
}

func TestXMLBuild_EveryDocumentChargeGetsItsOwnBlock(t *testing.T) {
	res := minimalResult()
	res.Invoice.AllowanceCharges = []dom.AllowanceChargeValues{
		{IsCharge: true, Amount: decimal.NewFromInt(10), BaseAmount: decPtr(100),
			Reason: "Packaging", ReasonCode: "FC", VatCategory: "S", VatRate: decPtr(15)},
		{IsCharge: true, Amount: decimal.NewFromInt(5), BaseAmount: decPtr(100),
			Reason: "Insurance", VatCategory: "S", VatRate: decPtr(15)},
	}
	res.Invoice.ChargeTotalAmount = decPtr(15)
	res.Invoice.TaxExclusiveAmount = decPtr(115)
	res.Invoice.TaxInclusiveAmount = decPtr(130)
	res.Invoice.PayableAmount = decPtr(130)

	svc := zatca.NewXMLBuilderService()
	out, err := svc.Build(res)
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 2, strings.Count(doc, "<AllowanceCharge xmlns"))
	assert.Contains(t, doc, "Packaging")
	assert.Contains(t, doc, "Insurance")
	assert.Contains(t, doc, "ChargeTotalAmount")
	assert.Contains(t, doc, ">15.00<")
}

func TestXMLBuild_CreditNoteCarriesBillingReferenceAndReason(t *testing.T) {
	res := minimalResult()
	res.Invoice.InvoiceTypeCode = strPtr("381")
	res.Invoice.BillingReferenceID = strPtr("INV-000001")
	res.Invoice.ReturnReason = strPtr("Goods returned by customer")

	svc := zatca.NewXMLBuilderService()
	out, err := svc.Build(res)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "BillingReference")
	assert.Contains(t, doc, "InvoiceDocumentReference")
	assert.Contains(t, doc, "Goods returned by customer")
	assert.Contains(t, doc, "InstructionNote")
}

func TestXMLBuild_PrepaymentOffsetLine(t *testing.T) {
	res := minimalResult()
	taxable := decimal.NewFromInt(100)
	tax := decimal.NewFromInt(15)
	res.PrepaymentInvoice = dom.PrepaymentSection{
		TotalTaxableAmount: &taxable,
		TotalTaxAmount:     &tax,
		Lines: []dom.LineValues{{
			Idx: 2, ItemCode: "ADV-000001",
			Quantity:   decimal.NewFromInt(1),
			NetAmount:  taxable,
			TaxPercent: decimal.NewFromInt(15), TaxAmount: tax,
			TaxCategoryCode: "S",
			IsPrepayment:    true,
			PrepaymentUUID:  "5a3bdf0e-d3a5-452a-9486-60d272a935ff",
			PrepaymentDate:  "2024-02-01",
		}},
	}

	svc := zatca.NewXMLBuilderService()
	out, err := svc.Build(res)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "ADV-000001")
	assert.Contains(t, doc, "5a3bdf0e-d3a5-452a-9486-60d272a935ff")
	assert.Contains(t, doc, ">386<", "prepayment document reference type")
	assert.Contains(t, doc, "RoundingAmount")
}

func TestXMLBuild_MissingChainFieldsFails(t *testing.T) {
	res := minimalResult()
	res.Invoice.Pih = nil

	svc := zatca.NewXMLBuilderService()
	_, err := svc.Build(res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pih")
}

func TestXMLBuild_NilResultFails(t *testing.T) {
	svc := zatca.NewXMLBuilderService()
	_, err := svc.Build(nil)
	assert.Error(t, err)
}
