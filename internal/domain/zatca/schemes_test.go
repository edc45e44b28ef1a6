package zatca_test

import (
	"testing"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/zatca"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSchemeIDs_CanonicalOrderPasses(t *testing.T) {
	ids := []entity.PartyIdentifier{
		{Scheme: "CRN", Value: "1010101010"},
		{Scheme: "MOM", Value: "MOM-1"},
		{Scheme: "OTH", Value: "X"},
	}
	out, err := zatca.ResolveSchemeIDs(ids, pkgzatca.SellerSchemeOrder)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "CRN", out[0].Scheme)
	assert.Equal(t, "OTH", out[2].Scheme)
}

func TestResolveSchemeIDs_BlankValuesAreSkippedNotRejected(t *testing.T) {
	ids := []entity.PartyIdentifier{
		{Scheme: "CRN", Value: ""},
		{Scheme: "MLS", Value: "  "},
		{Scheme: "700", Value: "700123"},
	}
	out, err := zatca.ResolveSchemeIDs(ids, pkgzatca.SellerSchemeOrder)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "700", out[0].Scheme)
}

func TestResolveSchemeIDs_UnknownSchemeIsConfigurationError(t *testing.T) {
	ids := []entity.PartyIdentifier{{Scheme: "XXX", Value: "1"}}
	_, err := zatca.ResolveSchemeIDs(ids, pkgzatca.SellerSchemeOrder)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "XXX")
}

// NAT before TIN inverts the buyer priority order and must be rejected
// even though both schemes are individually valid.
func TestResolveSchemeIDs_DecreasingPositionIsRejected(t *testing.T) {
	ids := []entity.PartyIdentifier{
		{Scheme: "NAT", Value: "1"},
		{Scheme: "TIN", Value: "2"},
	}
	_, err := zatca.ResolveSchemeIDs(ids, pkgzatca.BuyerSchemeOrder)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestResolveSchemeIDs_RepeatedSchemeIsNonDecreasing(t *testing.T) {
	ids := []entity.PartyIdentifier{
		{Scheme: "CRN", Value: "1"},
		{Scheme: "CRN", Value: "2"},
	}
	out, err := zatca.ResolveSchemeIDs(ids, pkgzatca.BuyerSchemeOrder)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestResolveSchemeIDs_EmptyInput(t *testing.T) {
	out, err := zatca.ResolveSchemeIDs(nil, pkgzatca.BuyerSchemeOrder)
	require.NoError(t, err)
	assert.Empty(t, out)
}
