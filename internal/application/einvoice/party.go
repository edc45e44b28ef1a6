package einvoice

import (
	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/internal/domain/entity"
	domzatca "zatca-pro/internal/domain/zatca"
	pkgzatca "zatca-pro/pkg/zatca"
)

// resolveSellerParty validates the taxpayer's identity and address into
// the seller_details section. Scheme-order violations are configuration
// errors and abort assembly.
func resolveSellerParty(acc *dom.Accumulator, rules dom.RuleSet, res *dom.Result) error {
	sec := &res.SellerDetails
	textRule(acc, rules, "company_name_arabic", true, &sec.RegistrationName)
	textRule(acc, rules, "seller_vat_registration_number", true, &sec.VatNumber)
	textRule(acc, rules, "seller_building_number", true, &sec.BuildingNumber)
	textRule(acc, rules, "seller_street_name", true, &sec.StreetName)
	textRule(acc, rules, "seller_district", true, &sec.District)
	textRule(acc, rules, "seller_city", true, &sec.CityName)
	textRule(acc, rules, "seller_postal_zone", true, &sec.PostalZone)
	textRule(acc, rules, "seller_country_code", true, &sec.CountryCode)
	return nil
}

// resolveBuyerParty validates buyer identity into buyer_details. For
// Standard invoices a VAT number or at least one other identifier is
// mandatory; Simplified invoices require neither.
func resolveBuyerParty(acc *dom.Accumulator, rules dom.RuleSet, standard bool, otherIDs []entity.PartyIdentifier, res *dom.Result, errs dom.Errors) error {
	sec := &res.BuyerDetails

	textRule(acc, rules, "buyer_name", standard, &sec.RegistrationName)
	hasVAT := textRule(acc, rules, "buyer_vat_registration_number", false, &sec.VatNumber)
	textRule(acc, rules, "buyer_building_number", false, &sec.BuildingNumber)
	textRule(acc, rules, "buyer_street_name", standard, &sec.StreetName)
	textRule(acc, rules, "buyer_district", false, &sec.District)
	textRule(acc, rules, "buyer_city", standard, &sec.CityName)
	textRule(acc, rules, "buyer_postal_zone", false, &sec.PostalZone)
	textRule(acc, rules, "buyer_country_code", standard, &sec.CountryCode)

	resolved, err := domzatca.ResolveSchemeIDs(otherIDs, pkgzatca.BuyerSchemeOrder)
	if err != nil {
		return err
	}
	for _, id := range resolved {
		sec.OtherIDs = append(sec.OtherIDs, dom.SchemeValue{Scheme: id.Scheme, Value: id.Value})
	}

	if standard && !hasVAT && len(sec.OtherIDs) == 0 {
		errs.Add("buyer_vat_registration_number",
			"Standard invoices require a buyer VAT registration number or at least one other buyer ID")
	}
	return nil
}

// resolveSellerIDs validates the seller's other-ID list against the
// seller canonical order and writes it to the seller section.
func resolveSellerIDs(otherIDs []entity.PartyIdentifier, res *dom.Result) error {
	resolved, err := domzatca.ResolveSchemeIDs(otherIDs, pkgzatca.SellerSchemeOrder)
	if err != nil {
		return err
	}
	for _, id := range resolved {
		res.SellerDetails.OtherIDs = append(res.SellerDetails.OtherIDs, dom.SchemeValue{Scheme: id.Scheme, Value: id.Value})
	}
	return nil
}

// textRule runs one Text accumulation using the declared rule's bounds
// with the caller-evaluated required flag.
func textRule(acc *dom.Accumulator, rules dom.RuleSet, name string, required bool, dst **string) bool {
	r := rules.Get(name)
	return acc.Text(name, required, dst, dom.TextOpts{MinLen: r.MinLen, MaxLen: r.MaxLen})
}
