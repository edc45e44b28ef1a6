package dto

// PartyIdentifierDTO is one (scheme, value) alternate identifier. Schemes
// must appear in the canonical ZATCA order for the party role.
type PartyIdentifierDTO struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// CreateBusinessSettingsRequest registers a taxpayer (seller) profile,
// the scope of its invoice counter and hash chain.
type CreateBusinessSettingsRequest struct {
	CompanyName       string               `json:"company_name"`
	CompanyNameArabic string               `json:"company_name_arabic,omitempty"`
	VATNumber         string               `json:"vat_number"`
	OtherIDs          []PartyIdentifierDTO `json:"other_ids,omitempty"`

	BuildingNumber string `json:"building_number"`
	StreetName     string `json:"street_name"`
	District       string `json:"district"`
	CityName       string `json:"city_name"`
	PostalZone     string `json:"postal_zone"`
	CountryCode    string `json:"country_code,omitempty"` // default SA

	Currency         string `json:"currency,omitempty"`          // default SAR
	RoundingStrategy string `json:"rounding_strategy,omitempty"` // document_level (default) | row_wise
}

// BusinessSettingsResponse is the taxpayer profile view.
type BusinessSettingsResponse struct {
	ID                string               `json:"id"`
	CompanyName       string               `json:"company_name"`
	CompanyNameArabic string               `json:"company_name_arabic,omitempty"`
	VATNumber         string               `json:"vat_number"`
	OtherIDs          []PartyIdentifierDTO `json:"other_ids,omitempty"`
	BuildingNumber    string               `json:"building_number"`
	StreetName        string               `json:"street_name"`
	District          string               `json:"district"`
	CityName          string               `json:"city_name"`
	PostalZone        string               `json:"postal_zone"`
	CountryCode       string               `json:"country_code"`
	Currency          string               `json:"currency"`
	RoundingStrategy  string               `json:"rounding_strategy"`
	Status            string               `json:"status"`
}

// CreateCustomerRequest registers a buyer under a taxpayer.
type CreateCustomerRequest struct {
	Name       string               `json:"name"`
	NameArabic string               `json:"name_arabic,omitempty"`
	VATNumber  string               `json:"vat_number,omitempty"`
	OtherIDs   []PartyIdentifierDTO `json:"other_ids,omitempty"`

	BuildingNumber string `json:"building_number,omitempty"`
	StreetName     string `json:"street_name,omitempty"`
	District       string `json:"district,omitempty"`
	CityName       string `json:"city_name,omitempty"`
	PostalZone     string `json:"postal_zone,omitempty"`
	CountryCode    string `json:"country_code,omitempty"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse is the buyer view.
type CustomerResponse struct {
	ID             string               `json:"id"`
	SettingsID     string               `json:"settings_id"`
	Name           string               `json:"name"`
	NameArabic     string               `json:"name_arabic,omitempty"`
	VATNumber      string               `json:"vat_number,omitempty"`
	OtherIDs       []PartyIdentifierDTO `json:"other_ids,omitempty"`
	BuildingNumber string               `json:"building_number,omitempty"`
	StreetName     string               `json:"street_name,omitempty"`
	District       string               `json:"district,omitempty"`
	CityName       string               `json:"city_name,omitempty"`
	PostalZone     string               `json:"postal_zone,omitempty"`
	CountryCode    string               `json:"country_code,omitempty"`
	Email          string               `json:"email,omitempty"`
	Phone          string               `json:"phone,omitempty"`
}
