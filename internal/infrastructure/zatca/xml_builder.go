package zatca

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/pkg/zatca"
)

// UBL 2.1 and KSA profile namespaces (Fatoora Phase-2 technical annex).
const (
	// Default namespace (UBL Invoice)
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	// Common Aggregate Components
	NsCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	// Common Basic Components
	NsCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	// Extension Components
	NsExt = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	// XML Digital Signature
	NsDs = "http://www.w3.org/2000/09/xmldsig#"
	// XAdES (signature)
	NsXades = "http://uri.etsi.org/01903/v1.3.2#"

	// Fixed ProfileID of the KSA Phase-2 profile.
	profileID = "reporting:1.0"
)

// XMLBuilderService builds the UBL 2.1 invoice XML (without signature or QR;
// both are injected afterwards into the placeholders the builder leaves).
type XMLBuilderService struct{}

// NewXMLBuilderService creates the service.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build generates the UBL 2.1 Invoice document from the field tree validated
// by the assembler. Every required field already passed validation; a nil
// pointer here means an absent optional field.
func (s *XMLBuilderService) Build(res *dom.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("zatca: nil assembly result")
	}
	inv := &res.Invoice
	if inv.ID == nil || inv.UUID == nil || inv.InvoiceCounter == nil || inv.Pih == nil {
		return nil, fmt.Errorf("zatca: missing required header fields (id, uuid, icv, pih)")
	}
	currency := "SAR"
	if inv.Currency != nil {
		currency = *inv.Currency
	}
	taxCurrency := currency
	if inv.TaxCurrency != nil {
		taxCurrency = *inv.TaxCurrency
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Space: NsInvoice, Local: "Invoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsInvoice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
			{Name: xml.Name{Local: "xmlns:ext"}, Value: NsExt},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	// ---- CRITICAL: ext:UBLExtensions always as first child of Invoice.
	// A single extension with an empty ExtensionContent: the signer injects
	// the ds:Signature block there.
	s.writeUBLExtensions(enc)

	// ---- cbc: document header
	writeCbc(enc, "ProfileID", profileID)
	writeCbc(enc, "ID", *inv.ID)
	writeCbc(enc, "UUID", *inv.UUID)
	if inv.IssueDate != nil {
		writeCbc(enc, "IssueDate", *inv.IssueDate)
	}
	if inv.IssueTime != nil {
		writeCbc(enc, "IssueTime", *inv.IssueTime)
	}
	if inv.InvoiceTypeCode != nil {
		name := zatca.TransactionSimplified
		if inv.InvoiceTypeTransaction != nil {
			name = *inv.InvoiceTypeTransaction
		}
		writeCbcWithAttr(enc, "InvoiceTypeCode", *inv.InvoiceTypeCode, "name", name)
	}
	writeCbc(enc, "DocumentCurrencyCode", currency)
	writeCbc(enc, "TaxCurrencyCode", taxCurrency)
	if inv.ContractID != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "ContractDocumentReference"}})
		writeCbc(enc, "ID", *inv.ContractID)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "ContractDocumentReference"}})
	}

	// ---- cac:BillingReference (credit/debit notes reference the original invoice)
	if inv.BillingReferenceID != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "BillingReference"}})
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "InvoiceDocumentReference"}})
		writeCbc(enc, "ID", *inv.BillingReferenceID)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "InvoiceDocumentReference"}})
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "BillingReference"}})
	}

	// ---- cac:AdditionalDocumentReference: ICV, PIH and the QR placeholder
	s.writeDocumentReference(enc, "ICV", strconv.FormatInt(*inv.InvoiceCounter, 10), "")
	s.writeDocumentReference(enc, "PIH", "", *inv.Pih)
	s.writeDocumentReference(enc, "QR", "", qrPlaceholder)

	// ---- Parties
	s.writeParty(enc, "AccountingSupplierParty", &res.SellerDetails)
	if hasBuyer(&res.BuyerDetails) {
		s.writeParty(enc, "AccountingCustomerParty", &res.BuyerDetails)
	}

	// ---- cac:Delivery
	if inv.ActualDeliveryDate != nil || inv.LatestDeliveryDate != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Delivery"}})
		if inv.ActualDeliveryDate != nil {
			writeCbc(enc, "ActualDeliveryDate", *inv.ActualDeliveryDate)
		}
		if inv.LatestDeliveryDate != nil {
			writeCbc(enc, "LatestDeliveryDate", *inv.LatestDeliveryDate)
		}
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Delivery"}})
	}

	// ---- cac:PaymentMeans (the return reason goes in InstructionNote)
	s.writePaymentMeans(enc, inv)

	// ---- document-level cac:AllowanceCharge: the header discount first,
	// then every explicit allowance/charge entry in declaration order
	if inv.AllowanceIndicator != nil && *inv.AllowanceIndicator {
		s.writeAllowanceCharge(enc, false, currency, inv.AllowanceAmount, inv.AllowanceBaseAmount,
			inv.AllowancePercent, inv.AllowanceReason, inv.AllowanceReasonCode,
			inv.AllowanceVatCategory, inv.AllowanceVatRate)
	}
	for i := range inv.AllowanceCharges {
		ac := &inv.AllowanceCharges[i]
		var category *string
		if ac.VatCategory != "" {
			category = &ac.VatCategory
		}
		s.writeAllowanceCharge(enc, ac.IsCharge, currency, &ac.Amount, ac.BaseAmount,
			ac.Percent, &ac.Reason, &ac.ReasonCode, category, ac.VatRate)
	}

	// ---- cac:TaxTotal: first the per-category breakdown, then the flat
	// total in tax currency (the KSA profile requires both blocks)
	s.writeTaxTotals(enc, inv, res.Invoice.TaxSubtotals, currency, taxCurrency)

	// ---- cac:LegalMonetaryTotal
	s.writeLegalMonetaryTotal(enc, inv, currency)

	// ---- cac:InvoiceLine: real lines followed by prepayment offset lines
	for _, line := range inv.Lines {
		s.writeInvoiceLine(enc, &line, currency)
	}
	for _, line := range res.PrepaymentInvoice.Lines {
		s.writeInvoiceLine(enc, &line, currency)
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// qrPlaceholder fills the QR EmbeddedDocumentBinaryObject until the
// orchestrator injects the real TLV after signing.
const qrPlaceholder = "0"

func hasBuyer(p *dom.PartySection) bool {
	return p.RegistrationName != nil || p.VatNumber != nil || len(p.OtherIDs) > 0
}

func writeCbc(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCbc, Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCbc, Local: local}})
}

func writeCbcAmount(enc *xml.Encoder, local, value string, currency string) {
	attr := []xml.Attr{}
	if currency != "" {
		attr = append(attr, xml.Attr{Name: xml.Name{Local: "currencyID"}, Value: currency})
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCbc, Local: local}, Attr: attr})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCbc, Local: local}})
}

func writeCbcWithAttr(enc *xml.Encoder, local, value, attrLocal, attrValue string) {
	_ = enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Space: NsCbc, Local: local},
		Attr: []xml.Attr{{Name: xml.Name{Local: attrLocal}, Value: attrValue}},
	})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCbc, Local: local}})
}

// writeUBLExtensions writes ext:UBLExtensions with an empty ExtensionContent;
// the signer will inject the signature node there.
func (s *XMLBuilderService) writeUBLExtensions(enc *xml.Encoder) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsExt, Local: "UBLExtensions"}})
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsExt, Local: "UBLExtension"}})
	writeExt(enc, "ExtensionURI", "urn:oasis:names:specification:ubl:dsig:enveloped:xades")
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsExt, Local: "ExtensionContent"}})
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsExt, Local: "ExtensionContent"}})
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsExt, Local: "UBLExtension"}})
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsExt, Local: "UBLExtensions"}})
}

func writeExt(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsExt, Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsExt, Local: local}})
}

// writeDocumentReference writes one cac:AdditionalDocumentReference. A
// non-empty uuid goes as cbc:UUID (ICV case); a non-empty attachment goes
// as Attachment/EmbeddedDocumentBinaryObject (PIH and QR cases).
func (s *XMLBuilderService) writeDocumentReference(enc *xml.Encoder, id, uuid, attachment string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "AdditionalDocumentReference"}})
	writeCbc(enc, "ID", id)
	if uuid != "" {
		writeCbc(enc, "UUID", uuid)
	}
	if attachment != "" {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Attachment"}})
		_ = enc.EncodeToken(xml.StartElement{
			Name: xml.Name{Space: NsCbc, Local: "EmbeddedDocumentBinaryObject"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "mimeCode"}, Value: "text/plain"}},
		})
		_ = enc.EncodeToken(xml.CharData(attachment))
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCbc, Local: "EmbeddedDocumentBinaryObject"}})
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Attachment"}})
	}
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "AdditionalDocumentReference"}})
}

// writeParty serializes seller or buyer: other-IDs in canonical order,
// postal address, PartyTaxScheme and PartyLegalEntity.
func (s *XMLBuilderService) writeParty(enc *xml.Encoder, container string, p *dom.PartySection) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: container}})
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Party"}})

	for _, oid := range p.OtherIDs {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "PartyIdentification"}})
		writeCbcWithAttr(enc, "ID", oid.Value, "schemeID", oid.Scheme)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "PartyIdentification"}})
	}

	if p.StreetName != nil || p.CityName != nil || p.CountryCode != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "PostalAddress"}})
		writeCbcPtr(enc, "StreetName", p.StreetName)
		writeCbcPtr(enc, "AdditionalStreetName", p.AdditionalStreetName)
		writeCbcPtr(enc, "BuildingNumber", p.BuildingNumber)
		writeCbcPtr(enc, "CitySubdivisionName", p.District)
		writeCbcPtr(enc, "CityName", p.CityName)
		writeCbcPtr(enc, "PostalZone", p.PostalZone)
		writeCbcPtr(enc, "CountrySubentity", p.CountrySubentity)
		if p.CountryCode != nil {
			_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Country"}})
			writeCbc(enc, "IdentificationCode", *p.CountryCode)
			_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Country"}})
		}
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "PostalAddress"}})
	}

	if p.VatNumber != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "PartyTaxScheme"}})
		writeCbc(enc, "CompanyID", *p.VatNumber)
		writeTaxScheme(enc)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "PartyTaxScheme"}})
	}

	if p.RegistrationName != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "PartyLegalEntity"}})
		writeCbc(enc, "RegistrationName", *p.RegistrationName)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "PartyLegalEntity"}})
	}

	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Party"}})
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: container}})
}

func writeCbcPtr(enc *xml.Encoder, local string, v *string) {
	if v != nil && *v != "" {
		writeCbc(enc, local, *v)
	}
}

func writeTaxScheme(enc *xml.Encoder) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxScheme"}})
	writeCbc(enc, "ID", "VAT")
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxScheme"}})
}

func (s *XMLBuilderService) writePaymentMeans(enc *xml.Encoder, inv *dom.InvoiceSection) {
	code := zatca.PaymentMeansInstrumentNA
	if inv.PaymentMeansCode != nil {
		code = *inv.PaymentMeansCode
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "PaymentMeans"}})
	writeCbc(enc, "PaymentMeansCode", code)
	if inv.ReturnReason != nil {
		writeCbc(enc, "InstructionNote", *inv.ReturnReason)
	}
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "PaymentMeans"}})
}

func (s *XMLBuilderService) writeAllowanceCharge(enc *xml.Encoder, isCharge bool, currency string,
	amount, baseAmount, percent *decimal.Decimal, reason, reasonCode, category *string, rate *decimal.Decimal) {
	indicator := "false"
	if isCharge {
		indicator = "true"
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "AllowanceCharge"}})
	writeCbc(enc, "ChargeIndicator", indicator)
	if reasonCode != nil && *reasonCode != "" {
		writeCbc(enc, "AllowanceChargeReasonCode", *reasonCode)
	}
	if reason != nil && *reason != "" {
		writeCbc(enc, "AllowanceChargeReason", *reason)
	}
	if percent != nil {
		writeCbc(enc, "MultiplierFactorNumeric", formatDecimal(*percent))
	}
	if amount != nil {
		writeCbcAmount(enc, "Amount", formatDecimal(*amount), currency)
	}
	if baseAmount != nil {
		writeCbcAmount(enc, "BaseAmount", formatDecimal(*baseAmount), currency)
	}
	if category != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxCategory"}})
		writeCbc(enc, "ID", *category)
		if rate != nil {
			writeCbc(enc, "Percent", formatDecimal(*rate))
		}
		writeTaxScheme(enc)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxCategory"}})
	}
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "AllowanceCharge"}})
}

func (s *XMLBuilderService) writeTaxTotals(enc *xml.Encoder, inv *dom.InvoiceSection,
	subtotals []dom.TaxSubtotalValues, currency, taxCurrency string) {
	taxTotal := decimal.Zero
	if inv.TaxTotal != nil {
		taxTotal = *inv.TaxTotal
	}

	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})
	writeCbcAmount(enc, "TaxAmount", formatDecimal(taxTotal), currency)
	for _, sub := range subtotals {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxSubtotal"}})
		writeCbcAmount(enc, "TaxableAmount", formatDecimal(sub.TaxableAmount), currency)
		writeCbcAmount(enc, "TaxAmount", formatDecimal(sub.TaxAmount), currency)
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxCategory"}})
		writeCbc(enc, "ID", sub.CategoryCode)
		writeCbc(enc, "Percent", formatDecimal(sub.Percent))
		if sub.ReasonCode != "" {
			writeCbc(enc, "TaxExemptionReasonCode", sub.ReasonCode)
		}
		if sub.ReasonText != "" {
			writeCbc(enc, "TaxExemptionReason", sub.ReasonText)
		}
		writeTaxScheme(enc)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxCategory"}})
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxSubtotal"}})
	}
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})

	// Second TaxTotal without subtotals, in tax currency.
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})
	writeCbcAmount(enc, "TaxAmount", formatDecimal(taxTotal), taxCurrency)
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})
}

func (s *XMLBuilderService) writeLegalMonetaryTotal(enc *xml.Encoder, inv *dom.InvoiceSection, currency string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "LegalMonetaryTotal"}})
	writeAmountPtr(enc, "LineExtensionAmount", inv.LineExtensionAmount, currency)
	writeAmountPtr(enc, "TaxExclusiveAmount", inv.TaxExclusiveAmount, currency)
	writeAmountPtr(enc, "TaxInclusiveAmount", inv.TaxInclusiveAmount, currency)
	writeAmountPtr(enc, "AllowanceTotalAmount", inv.AllowanceTotalAmount, currency)
	writeAmountPtr(enc, "ChargeTotalAmount", inv.ChargeTotalAmount, currency)
	writeAmountPtr(enc, "PrepaidAmount", inv.PrepaidAmount, currency)
	writeAmountPtr(enc, "PayableAmount", inv.PayableAmount, currency)
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "LegalMonetaryTotal"}})
}

func writeAmountPtr(enc *xml.Encoder, local string, v *decimal.Decimal, currency string) {
	if v != nil {
		writeCbcAmount(enc, local, formatDecimal(*v), currency)
	}
}

// writeInvoiceLine serializes one line. Prepayment lines carry zero
// amounts, a DocumentReference to the prepayment invoice (type 386) and
// the applied prepayment VAT in the line TaxTotal.
func (s *XMLBuilderService) writeInvoiceLine(enc *xml.Encoder, line *dom.LineValues, currency string) {
	unitCode := line.UnitCode
	if unitCode == "" {
		unitCode = zatca.UnitPiece
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "InvoiceLine"}})
	writeCbc(enc, "ID", strconv.Itoa(line.Idx))
	writeCbcWithAttr(enc, "InvoicedQuantity", formatDecimal(line.Quantity), "unitCode", unitCode)

	if line.IsPrepayment {
		writeCbcAmount(enc, "LineExtensionAmount", "0.00", currency)
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "DocumentReference"}})
		writeCbc(enc, "ID", line.ItemCode)
		if line.PrepaymentUUID != "" {
			writeCbc(enc, "UUID", line.PrepaymentUUID)
		}
		if line.PrepaymentDate != "" {
			writeCbc(enc, "IssueDate", line.PrepaymentDate)
		}
		writeCbc(enc, "DocumentTypeCode", zatca.TypeCodePrepayment)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "DocumentReference"}})

		// Line TaxTotal: amounts of the applied prepayment.
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})
		writeCbcAmount(enc, "TaxAmount", formatDecimal(line.TaxAmount), currency)
		writeCbcAmount(enc, "RoundingAmount", formatDecimal(line.NetAmount.Add(line.TaxAmount)), currency)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})

		s.writeLineItem(enc, line)
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Price"}})
		writeCbcAmount(enc, "PriceAmount", "0.00", currency)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Price"}})
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "InvoiceLine"}})
		return
	}

	writeCbcAmount(enc, "LineExtensionAmount", formatDecimal(line.NetAmount), currency)

	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})
	writeCbcAmount(enc, "TaxAmount", formatDecimal(line.TaxAmount), currency)
	writeCbcAmount(enc, "RoundingAmount", formatDecimal(line.NetAmount.Add(line.TaxAmount)), currency)
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "TaxTotal"}})

	s.writeLineItem(enc, line)

	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Price"}})
	writeCbcAmount(enc, "PriceAmount", formatDecimal(line.UnitPrice), currency)
	if line.DiscountAmount.IsPositive() {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "AllowanceCharge"}})
		writeCbc(enc, "ChargeIndicator", "false")
		writeCbc(enc, "AllowanceChargeReason", "discount")
		writeCbcAmount(enc, "Amount", formatDecimal(line.DiscountAmount), currency)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "AllowanceCharge"}})
	}
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Price"}})

	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "InvoiceLine"}})
}

// writeLineItem writes cac:Item with the classified tax category.
func (s *XMLBuilderService) writeLineItem(enc *xml.Encoder, line *dom.LineValues) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "Item"}})
	name := line.ItemName
	if name == "" {
		name = "Item " + strconv.Itoa(line.Idx)
	}
	writeCbc(enc, "Name", name)
	if line.ItemCode != "" && !line.IsPrepayment {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "SellersItemIdentification"}})
		writeCbc(enc, "ID", line.ItemCode)
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "SellersItemIdentification"}})
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: NsCac, Local: "ClassifiedTaxCategory"}})
	writeCbc(enc, "ID", line.TaxCategoryCode)
	writeCbc(enc, "Percent", formatDecimal(line.TaxPercent))
	writeTaxScheme(enc)
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "ClassifiedTaxCategory"}})
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: NsCac, Local: "Item"}})
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
