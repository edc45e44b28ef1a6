package zatca

import (
	"fmt"

	"zatca-pro/internal/domain"

	"github.com/shopspring/decimal"
)

// roundingTolerance is the currency rounding tolerance for the document
// totals invariant (SAR has 2 decimal places).
var roundingTolerance = decimal.NewFromFloat(0.01)

// CheckTotals enforces grand_total == net_total + total_taxes_and_charges
// within rounding tolerance. Violations return domain.ErrConsistency with
// both sides of the failed equality; the caller must abort assembly, not
// silently correct.
func CheckTotals(grandTotal, netTotal, taxesAndCharges decimal.Decimal) error {
	expected := netTotal.Add(taxesAndCharges)
	if grandTotal.Sub(expected).Abs().GreaterThan(roundingTolerance) {
		return fmt.Errorf("%w: grand_total %s != net_total %s + total_taxes_and_charges %s (= %s)",
			domain.ErrConsistency,
			grandTotal.Round(2).StringFixed(2),
			netTotal.Round(2).StringFixed(2),
			taxesAndCharges.Round(2).StringFixed(2),
			expected.Round(2).StringFixed(2))
	}
	return nil
}

// InclusiveNet back-computes the pre-tax amount of a tax-inclusive gross:
// gross / (1 + rate/100). For tax-exclusive pricing the net is the gross.
func InclusiveNet(gross, taxPercent decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(taxPercent.Div(decimal.NewFromInt(100)))
	return gross.DivRound(divisor, 10)
}

// DerivePercent back-derives a document discount percentage from its
// absolute amount: amount / base * 100. Callers pass the tax-inclusive
// line total as the base. Zero base yields zero.
func DerivePercent(amount, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return amount.Div(base).Mul(decimal.NewFromInt(100))
}

// DeriveAmount computes the absolute discount from a percentage of the
// base amount. Callers pass the line extension total, without tax, as the
// base. The two derivations use different bases, so chaining them is not
// an identity.
func DeriveAmount(percent, base decimal.Decimal) decimal.Decimal {
	return base.Mul(percent.Div(decimal.NewFromInt(100)))
}

// AllocateRowWise distributes a tax row's rounded total across items in
// proportion to their net-amount share, assigning the residue to the last
// item so the parts sum exactly to the rounded total.
func AllocateRowWise(rowTotal decimal.Decimal, netAmounts []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(netAmounts))
	if len(netAmounts) == 0 {
		return out
	}
	var netSum decimal.Decimal
	for _, n := range netAmounts {
		netSum = netSum.Add(n)
	}
	rounded := rowTotal.Round(2)
	if netSum.IsZero() {
		out[len(out)-1] = rounded
		return out
	}
	var allocated decimal.Decimal
	for i, n := range netAmounts {
		if i == len(netAmounts)-1 {
			out[i] = rounded.Sub(allocated)
			break
		}
		share := rounded.Mul(n).Div(netSum).Round(2)
		out[i] = share
		allocated = allocated.Add(share)
	}
	return out
}
