// Package pdf renders the human-readable copy of a ZATCA e-invoice.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Company name + VAT number  │  Invoice no + Date     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SELLER: National address                                    │
//	│  BUYER: Name + VAT number + contact                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty | Item | Unit price | VAT% | VAT | Net           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Net / VAT / Prepayments / AMOUNT DUE                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Invoice hash + TLV QR code + legal note             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "zatca-pro/internal/application/billing"
	"zatca-pro/internal/domain/entity"
	pkgzatca "zatca-pro/pkg/zatca"
)

// ── Color palette ─────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implements billing.InvoicePDFGenerator using Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF renders the document and returns its bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	invoice *entity.Invoice,
	settings *entity.BusinessSettings,
	customer *entity.Customer,
	lines []*entity.InvoiceLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(invoice), true).
		WithAuthor(settings.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	// Main header
	m.AddRows(headerRow(invoice, settings))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(settings))
	m.AddRows(buyerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Line items table
	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	// Totals
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	// ZATCA footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range zatcaFooterRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// documentTitle maps the invoice type code to the printed document title.
func documentTitle(invoice *entity.Invoice) string {
	switch invoice.TypeCode {
	case pkgzatca.TypeCodeCreditNote:
		return "CREDIT NOTE"
	case pkgzatca.TypeCodeDebitNote:
		return "DEBIT NOTE"
	case pkgzatca.TypeCodePrepayment:
		return "PREPAYMENT TAX INVOICE"
	default:
		if invoice.TransactionCode == pkgzatca.TransactionSimplified {
			return "SIMPLIFIED TAX INVOICE"
		}
		return "TAX INVOICE"
	}
}

// headerRow: company name + VAT number (left), invoice number + date (right).
func headerRow(invoice *entity.Invoice, settings *entity.BusinessSettings) core.Row {
	issued := invoice.IssueDate.Format("02/01/2006")

	left := col.New(7).Add(
		text.New(settings.CompanyName, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
		text.New("VAT No: "+settings.VATNumber, props.Text{
			Size: 9, Top: 9, Color: colorGray,
		}),
	)
	if settings.CompanyNameArabic != "" {
		left = col.New(7).Add(
			text.New(settings.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(settings.CompanyNameArabic, props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
			text.New("VAT No: "+settings.VATNumber, props.Text{
				Size: 9, Top: 13, Color: colorGray,
			}),
		)
	}

	return row.New(20).Add(
		left,
		col.New(5).Add(
			text.New(documentTitle(invoice), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+issued, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sellerRow: seller national address.
func sellerRow(settings *entity.BusinessSettings) core.Row {
	address := fmt.Sprintf("%s %s, %s, %s %s, %s",
		settings.BuildingNumber, settings.StreetName, settings.District,
		settings.CityName, settings.PostalZone, settings.CountryCode)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SELLER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Address: "+address, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// buyerRow: buyer identification. Simplified invoices may carry no buyer.
func buyerRow(customer *entity.Customer) core.Row {
	if customer == nil {
		return row.New(10).Add(
			col.New(12).Add(
				text.New("BUYER", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New("Walk-in customer", props.Text{Size: 9, Top: 6, Color: colorGray}),
			),
		)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BUYER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("VAT No: %s   |   Email: %s   |   Phone: %s",
				nonEmpty(customer.VATNumber, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: line items table header.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 5, align.Left),
		h("Unit Price", 2, align.Right),
		h("VAT%", 1, align.Center),
		h("VAT", 1, align.Right),
		h("Net", 2, align.Right),
	)
}

// tableLineRows: one row per invoice line. Prepayment offset lines are
// labelled against the referenced prepayment invoice.
func tableLineRows(lines []*entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := l.ItemName
		if l.IsPrepayment {
			name = "Prepayment applied (" + l.ItemCode + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.TaxPercent.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				formatMoney(l.TaxAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(l.NetAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: right-aligned totals block. The prepayment row appears only
// when a prepayment offset exists.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grandLabel := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: top,
		})
	}
	grandValue := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	currency := nonEmpty(invoice.Currency, "SAR")
	labels := []core.Component{label("Net total:", 0), label("VAT ("+currency+"):", 5)}
	values := []core.Component{
		value(formatMoney(invoice.NetTotal), 0),
		value(formatMoney(invoice.TaxTotal), 5),
	}
	grandTop := 10.0
	if invoice.PrepaymentTotal.IsPositive() {
		labels = append(labels, label("Prepayments:", 10))
		values = append(values, value("-"+formatMoney(invoice.PrepaymentTotal), 10))
		grandTop = 15
	}
	labels = append(labels, grandLabel("AMOUNT DUE:", grandTop))
	values = append(values, grandValue(formatMoney(invoice.PayableAmount), grandTop))

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(labels...),
		col.New(3).Add(values...),
		col.New(2),
	)
}

// zatcaFooterRows: invoice hash split into chunks + TLV QR code + legal note.
func zatcaFooterRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ZATCA E-INVOICING", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if invoice.InvoiceHash != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Invoice hash:", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		for _, chunk := range splitEvery(invoice.InvoiceHash, 80) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	}

	rows = append(rows, row.New(3))

	// The QR carries the signed TLV payload mandated for Phase 2.
	if invoice.QRCode != "" {
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(invoice.QRCode, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Scan the QR code to verify this\ninvoice with the ZATCA application.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(documentTitle(invoice), props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22,
					Left: 3, Color: colorPrimary,
				}),
			),
		))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"This electronic invoice was generated in accordance with the ZATCA "+
				"E-Invoicing Regulation (Phase 2, Integration). "+
				"Keep this document as fiscal evidence.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserts thousands separators into a two-decimal amount.
// E.g. 25000 → "25,000.00"
func formatMoney(d interface{ StringFixed(int32) string }) string {
	s := d.StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, decPart := s, ""
	if i := len(s) - 3; i > 0 && s[i] == '.' {
		intPart, decPart = s[:i], s[i:]
	}
	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, intPart[i])
		}
		intPart = string(buf)
	}
	out := intPart + decPart
	if neg {
		out = "-" + out
	}
	return out
}

// splitEvery divides s into chunks of at most n characters.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
