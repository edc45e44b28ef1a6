package entity

import "time"

// Rounding strategies for document tax totals. RowWise rounds VAT per tax
// row and allocates the rounded total across items proportionally to their
// net amount; DocumentLevel rounds once on the document total.
const (
	RoundingDocumentLevel = "document_level"
	RoundingRowWise       = "row_wise"
)

// PartyIdentifier is one (scheme, value) alternate identifier of a party,
// e.g. ("CRN", "1010101010"). Order matters: ZATCA mandates a canonical
// priority order per party role.
type PartyIdentifier struct {
	Scheme string
	Value  string
}

// BusinessSettings represents one taxpayer (seller) configuration: the
// scope of the invoice counter and hash chain.
type BusinessSettings struct {
	ID                string
	CompanyName       string // registered name, English
	CompanyNameArabic string
	VATNumber         string // 15 digits, starts and ends with 3
	OtherIDs          []PartyIdentifier

	// National address (mandatory on the seller party).
	BuildingNumber string
	StreetName     string
	District       string
	CityName       string
	PostalZone     string
	CountryCode    string // ISO 3166-1 alpha-2, "SA"

	Currency         string // tax currency, "SAR"
	RoundingStrategy string // RoundingDocumentLevel | RoundingRowWise
	Status           string // active, suspended, inactive
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
