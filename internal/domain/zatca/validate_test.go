package zatca_test

import (
	"testing"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/zatca"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckTotals_EqualWithinTolerancePasses(t *testing.T) {
	assert.NoError(t, zatca.CheckTotals(dec("115.00"), dec("100.00"), dec("15.00")))
	assert.NoError(t, zatca.CheckTotals(dec("115.01"), dec("100.00"), dec("15.00")))
}

func TestCheckTotals_MismatchIsConsistencyError(t *testing.T) {
	err := zatca.CheckTotals(dec("120.00"), dec("100.00"), dec("15.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConsistency)
	assert.Contains(t, err.Error(), "120.00")
	assert.Contains(t, err.Error(), "115.00")
}

// A tax-inclusive gross of 115 at 15% must split into 100 net + 15 tax.
func TestInclusiveNet_BackComputesPreTaxAmount(t *testing.T) {
	net := zatca.InclusiveNet(dec("115"), dec("15"))
	assert.True(t, net.Round(2).Equal(dec("100")), "got %s", net)

	tax := dec("115").Sub(net)
	assert.True(t, tax.Round(2).Equal(dec("15")), "got %s", tax)
}

func TestInclusiveNet_ZeroRateIsIdentity(t *testing.T) {
	net := zatca.InclusiveNet(dec("250"), decimal.Zero)
	assert.True(t, net.Equal(dec("250")))
}

// Deriving the percentage from an amount and re-deriving the amount from
// that percentage must reproduce the original within rounding tolerance.
func TestDiscountDerivation_RoundTripsWithinTolerance(t *testing.T) {
	base := dec("1234.56")
	amount := dec("61.73") // 5% of base

	pct := zatca.DerivePercent(amount, base)
	back := zatca.DeriveAmount(pct, base)

	assert.True(t, back.Sub(amount).Abs().LessThanOrEqual(dec("0.01")),
		"amount %s -> percent %s -> amount %s", amount, pct, back)
}

func TestDerivePercent_ZeroBaseYieldsZero(t *testing.T) {
	assert.True(t, zatca.DerivePercent(dec("10"), decimal.Zero).IsZero())
}

func TestAllocateRowWise_PartsSumToRoundedTotal(t *testing.T) {
	nets := []decimal.Decimal{dec("33.33"), dec("33.33"), dec("33.34")}
	parts := zatca.AllocateRowWise(dec("15.005"), nets)

	require.Len(t, parts, 3)
	var sum decimal.Decimal
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(dec("15.005").Round(2)), "parts sum to %s", sum)
}

func TestAllocateRowWise_ProportionalToNetShare(t *testing.T) {
	nets := []decimal.Decimal{dec("100"), dec("300")}
	parts := zatca.AllocateRowWise(dec("60"), nets)

	require.Len(t, parts, 2)
	assert.True(t, parts[0].Equal(dec("15")), "got %s", parts[0])
	assert.True(t, parts[1].Equal(dec("45")), "got %s", parts[1])
}

func TestAllocateRowWise_ZeroNetSumGoesToLastItem(t *testing.T) {
	nets := []decimal.Decimal{decimal.Zero, decimal.Zero}
	parts := zatca.AllocateRowWise(dec("1.00"), nets)

	assert.True(t, parts[0].IsZero())
	assert.True(t, parts[1].Equal(dec("1.00")))
}

func TestAllocateRowWise_EmptyInput(t *testing.T) {
	assert.Empty(t, zatca.AllocateRowWise(dec("5"), nil))
}
