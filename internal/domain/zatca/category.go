// Package zatca contains the domain rules for KSA e-invoicing: tax
// category resolution, party identifier scheme ordering, the invoice hash
// chain, and document totals consistency. Misconfiguration here is a
// regulatory compliance violation with monetary consequences, so lookups
// fail hard instead of silently defaulting.
package zatca

import (
	"fmt"
	"strings"

	"zatca-pro/internal/domain"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/shopspring/decimal"
)

// Category is the resolved tax treatment of an item or document: one of
// the four ZATCA category codes plus the exemption reason. Immutable.
type Category struct {
	Code         string // S, E, Z, O
	ReasonCode   string // VATEX-SA-*, empty for Standard
	ArabicReason string
	Percent      decimal.Decimal
}

// GroupKey groups invoice lines sharing an identical tax treatment so
// they are reported once as a subtotal rather than repeated.
func (c Category) GroupKey() string {
	return c.Code + "|" + c.ReasonCode + "|" + c.Percent.String()
}

// labelSeparator splits the configured category label into its category
// name and reason text parts.
const labelSeparator = "||"

// ResolveCategory decodes a tax template's configured category label of
// the form "{Category} || {Reason}" into a Category. customReason
// substitutes the reason when the label carries the manual-entry sentinel.
// An empty label defaults to Standard rate. Unknown category names or
// reason texts return domain.ErrConfiguration: assembly must halt rather
// than guess a tax treatment.
func ResolveCategory(label, customReason string, percent decimal.Decimal) (Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Category{Code: pkgzatca.CategoryStandard, Percent: percent}, nil
	}

	name, reason := label, ""
	if idx := strings.Index(label, labelSeparator); idx >= 0 {
		name = strings.TrimSpace(label[:idx])
		reason = strings.TrimSpace(label[idx+len(labelSeparator):])
	}

	code, ok := pkgzatca.CategoryCodeByName[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: unknown tax category %q in label %q", domain.ErrConfiguration, name, label)
	}
	if code == pkgzatca.CategoryStandard {
		return Category{Code: code, Percent: percent}, nil
	}

	if reason == pkgzatca.ManualReasonSentinel {
		if strings.TrimSpace(customReason) == "" {
			return Category{}, fmt.Errorf("%w: category %q requires a custom exemption reason", domain.ErrConfiguration, name)
		}
		return Category{
			Code:         code,
			ReasonCode:   pkgzatca.ManualReasonCode,
			ArabicReason: strings.TrimSpace(customReason),
			Percent:      percent,
		}, nil
	}

	entry, ok := pkgzatca.ExemptionReasonByText[reason]
	if !ok {
		return Category{}, fmt.Errorf("%w: unknown exemption reason %q for category %q", domain.ErrConfiguration, reason, name)
	}
	return Category{
		Code:         code,
		ReasonCode:   entry.Code,
		ArabicReason: entry.Arabic,
		Percent:      percent,
	}, nil
}
