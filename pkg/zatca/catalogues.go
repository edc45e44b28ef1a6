// Package zatca contains catalogues and validation helpers aligned to the
// ZATCA (KSA) E-Invoicing Implementation Standard, Phase 2 (Integration).
package zatca

// =============================================================================
// Invoice type codes (UBL cbc:InvoiceTypeCode) and transaction subtypes
// (the @name attribute, positions KSA-2 of the data dictionary).
// =============================================================================

const (
	TypeCodeTaxInvoice = "388" // Tax invoice
	TypeCodeDebitNote  = "383" // Debit note
	TypeCodeCreditNote = "381" // Credit note
	TypeCodePrepayment = "386" // Prepayment (advance) invoice
)

// Transaction subtype codes (cbc:InvoiceTypeCode/@name). First two digits:
// 01 = Standard (B2B, cleared), 02 = Simplified (B2C, reported).
const (
	TransactionStandard   = "0100000"
	TransactionSimplified = "0200000"
)

// ValidInvoiceTypeCodes are the document type codes accepted for submission.
var ValidInvoiceTypeCodes = map[string]bool{
	TypeCodeTaxInvoice: true,
	TypeCodeDebitNote:  true,
	TypeCodeCreditNote: true,
	TypeCodePrepayment: true,
}

// =============================================================================
// VAT category codes (UN/ECE 5305 subset mandated by ZATCA) and exemption
// reasons (code lists BT-121 with the Arabic texts published by the authority).
// =============================================================================

const (
	CategoryStandard   = "S" // Standard rate (15%)
	CategoryExempt     = "E" // Exempt from VAT
	CategoryZeroRated  = "Z" // Zero rated
	CategoryOutOfScope = "O" // Services outside scope of tax / not subject to VAT
)

// Category display names as configured on tax templates
// ("{Category} || {Reason}" labels).
const (
	CategoryNameStandard   = "Standard rate"
	CategoryNameExempt     = "Exempt from Tax"
	CategoryNameZeroRated  = "Zero rated"
	CategoryNameOutOfScope = "Services outside scope of tax / Not subject to VAT"
)

// CategoryCodeByName maps the configured category display name to its code.
var CategoryCodeByName = map[string]string{
	CategoryNameStandard:   CategoryStandard,
	CategoryNameExempt:     CategoryExempt,
	CategoryNameZeroRated:  CategoryZeroRated,
	CategoryNameOutOfScope: CategoryOutOfScope,
}

// ManualReasonSentinel marks templates whose exemption reason is free text
// supplied on a separate custom field rather than taken from the fixed table.
const ManualReasonSentinel = "{manual entry}"

// ManualReasonCode is the exemption reason code reported for manual-entry
// reasons (out-of-scope free text).
const ManualReasonCode = "VATEX-SA-OOS"

// ExemptionReason is one entry of the fixed ZATCA exemption reason list.
type ExemptionReason struct {
	Code   string
	Arabic string
}

// ExemptionReasonByText maps the English reason text (as configured on the
// tax template label) to its reason code and Arabic text.
var ExemptionReasonByText = map[string]ExemptionReason{
	// Exempt (E)
	"Financial services mentioned in Article 29 of the VAT Regulations": {
		Code: "VATEX-SA-29", Arabic: "الخدمات المالية المنصوص عليها في المادة 29 من اللائحة التنفيذية"},
	"Life insurance services mentioned in Article 29 of the VAT Regulations": {
		Code: "VATEX-SA-29-7", Arabic: "عقد تأمين على الحياة"},
	"Real estate transactions mentioned in Article 30 of the VAT Regulations": {
		Code: "VATEX-SA-30", Arabic: "التوريدات العقارية المستثناة من الضريبة"},
	// Zero rated (Z)
	"Export of goods": {
		Code: "VATEX-SA-32", Arabic: "صادرات السلع من المملكة"},
	"Export of services": {
		Code: "VATEX-SA-33", Arabic: "صادرات الخدمات من المملكة"},
	"The international transport of Goods": {
		Code: "VATEX-SA-34-1", Arabic: "النقل الدولي للسلع"},
	"International transport of passengers": {
		Code: "VATEX-SA-34-2", Arabic: "النقل الدولي للركاب"},
	"Services directly connected and incidental to a Supply of international passenger transport": {
		Code: "VATEX-SA-34-3", Arabic: "الخدمات المرتبطة مباشرة أو عرضياً بتوريد النقل الدولي للركاب"},
	"Supply of a qualifying means of transport": {
		Code: "VATEX-SA-34-4", Arabic: "توريد وسائل النقل المؤهلة"},
	"Any services relating to Goods or passenger transportation as defined in article twenty five of these Regulations": {
		Code: "VATEX-SA-34-5", Arabic: "الخدمات المتعلقة بنقل السلع أو الركاب وفقاً للمادة الخامسة والعشرين من اللائحة التنفيذية"},
	"Medicines and medical equipment": {
		Code: "VATEX-SA-35", Arabic: "الأدوية والمعدات الطبية"},
	"Qualifying metals": {
		Code: "VATEX-SA-36", Arabic: "المعادن المؤهلة"},
	"Private education to citizen": {
		Code: "VATEX-SA-EDU", Arabic: "الخدمات التعليمية الخاصة للمواطنين"},
	"Private healthcare to citizen": {
		Code: "VATEX-SA-HEA", Arabic: "الخدمات الصحية الخاصة للمواطنين"},
	"Supply of qualified military goods": {
		Code: "VATEX-SA-MLTRY", Arabic: "توريد السلع العسكرية المؤهلة"},
	// Out of scope (O)
	"Not subject to VAT": {
		Code: "VATEX-SA-OOS", Arabic: "غير خاضع لضريبة القيمة المضافة"},
}

// =============================================================================
// Party identification scheme codes and their mandated priority orders.
// Additional seller/buyer IDs must appear in non-decreasing position within
// the canonical order for the respective party role.
// =============================================================================

const (
	SchemeTIN = "TIN" // Tax identification number
	SchemeCRN = "CRN" // Commercial registration number
	SchemeMOM = "MOM" // Momra licence
	SchemeMLS = "MLS" // MHRSD licence
	Scheme700 = "700" // 700 number
	SchemeSAG = "SAG" // Sagia licence
	SchemeNAT = "NAT" // National ID
	SchemeGCC = "GCC" // GCC ID
	SchemeIQA = "IQA" // Iqama number
	SchemePAS = "PAS" // Passport ID
	SchemeOTH = "OTH" // Other ID
)

// SellerSchemeOrder is the canonical priority order for seller other-IDs.
var SellerSchemeOrder = []string{SchemeCRN, SchemeMOM, SchemeMLS, Scheme700, SchemeSAG, SchemeOTH}

// BuyerSchemeOrder is the canonical priority order for buyer other-IDs.
var BuyerSchemeOrder = []string{SchemeTIN, SchemeCRN, SchemeMOM, SchemeMLS, Scheme700, SchemeSAG, SchemeNAT, SchemeGCC, SchemeIQA, SchemePAS, SchemeOTH}

// =============================================================================
// Payment means (UN/ECE 4461 subset) used on cac:PaymentMeans.
// =============================================================================

const (
	PaymentMeansCash         = "10" // In cash
	PaymentMeansCredit       = "30" // Credit
	PaymentMeansBankAccount  = "42" // Payment to bank account
	PaymentMeansBankCard     = "48" // Bank card
	PaymentMeansInstrumentNA = "1"  // Instrument not defined
)

// =============================================================================
// Unit of measure codes (UN/ECE Rec 20) commonly used on invoice lines.
// =============================================================================

const (
	UnitPiece    = "PCE"
	UnitUnit     = "C62"
	UnitKilogram = "KGM"
	UnitLitre    = "LTR"
	UnitMetre    = "MTR"
	UnitHour     = "HUR"
	UnitDay      = "DAY"
)

// ValidUnitCodes are the unit codes accepted on invoice lines.
var ValidUnitCodes = map[string]bool{
	UnitPiece: true, UnitUnit: true, UnitKilogram: true, UnitLitre: true,
	UnitMetre: true, UnitHour: true, UnitDay: true,
}

// =============================================================================
// Allowance/charge reason codes (UN/ECE 5189 / 7161 subset).
// =============================================================================

const (
	AllowanceReasonDiscount = "95" // Discount
	ChargeReasonOther       = "ZZZ"
)

// StandardVATRate is the KSA standard VAT rate in percent.
const StandardVATRate = 15

// IsValidVATNumber reports whether s is a Saudi VAT registration number:
// exactly 15 digits, starting and ending with '3'.
func IsValidVATNumber(s string) bool {
	if len(s) != 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] == '3' && s[14] == '3'
}
