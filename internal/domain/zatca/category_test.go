package zatca_test

import (
	"testing"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/zatca"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rate15 = decimal.NewFromInt(15)

func TestResolveCategory_EmptyLabelDefaultsToStandard(t *testing.T) {
	cat, err := zatca.ResolveCategory("", "", rate15)
	require.NoError(t, err)
	assert.Equal(t, pkgzatca.CategoryStandard, cat.Code)
	assert.Empty(t, cat.ReasonCode)
	assert.True(t, cat.Percent.Equal(rate15))
}

func TestResolveCategory_StandardRateLabel(t *testing.T) {
	cat, err := zatca.ResolveCategory("Standard rate", "", rate15)
	require.NoError(t, err)
	assert.Equal(t, "S", cat.Code)
	assert.Empty(t, cat.ReasonCode)
}

func TestResolveCategory_ExemptWithTabledReason(t *testing.T) {
	label := "Exempt from Tax || Financial services mentioned in Article 29 of the VAT Regulations"
	cat, err := zatca.ResolveCategory(label, "", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "E", cat.Code)
	assert.Equal(t, "VATEX-SA-29", cat.ReasonCode)
	assert.NotEmpty(t, cat.ArabicReason)
}

func TestResolveCategory_ZeroRatedExportOfGoods(t *testing.T) {
	cat, err := zatca.ResolveCategory("Zero rated || Export of goods", "", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "Z", cat.Code)
	assert.Equal(t, "VATEX-SA-32", cat.ReasonCode)
}

// A manual-entry template supplies its own free-text reason through the
// custom field; it must resolve to the out-of-scope reason code with the
// custom text carried verbatim.
func TestResolveCategory_ManualEntryUsesCustomReason(t *testing.T) {
	label := "Services outside scope of tax / Not subject to VAT || {manual entry}"
	custom := "توريد خارج نطاق الضريبة بموجب عقد حكومي"

	cat, err := zatca.ResolveCategory(label, custom, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "O", cat.Code)
	assert.Equal(t, "VATEX-SA-OOS", cat.ReasonCode)
	assert.Equal(t, custom, cat.ArabicReason)
}

func TestResolveCategory_ManualEntryWithoutCustomReasonFails(t *testing.T) {
	label := "Services outside scope of tax / Not subject to VAT || {manual entry}"
	_, err := zatca.ResolveCategory(label, "  ", decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestResolveCategory_UnknownCategoryIsConfigurationError(t *testing.T) {
	_, err := zatca.ResolveCategory("Reduced rate || Export of goods", "", decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "Reduced rate")
}

func TestResolveCategory_UnknownReasonIsConfigurationError(t *testing.T) {
	_, err := zatca.ResolveCategory("Zero rated || Export of dreams", "", decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestGroupKey_DistinguishesTreatments(t *testing.T) {
	a := zatca.Category{Code: "S", Percent: rate15}
	b := zatca.Category{Code: "S", Percent: decimal.NewFromInt(5)}
	c := zatca.Category{Code: "Z", ReasonCode: "VATEX-SA-32"}

	assert.NotEqual(t, a.GroupKey(), b.GroupKey())
	assert.NotEqual(t, a.GroupKey(), c.GroupKey())
	assert.Equal(t, a.GroupKey(), zatca.Category{Code: "S", Percent: decimal.NewFromInt(15)}.GroupKey())
}
