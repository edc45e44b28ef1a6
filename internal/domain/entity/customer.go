package entity

import "time"

// Customer represents a buyer of the taxpayer. For Standard (B2B) invoices
// a VAT number or at least one other identifier is mandatory; Simplified
// (B2C) invoices need neither.
type Customer struct {
	ID         string
	SettingsID string // owning BusinessSettings
	Name       string
	NameArabic string
	VATNumber  string
	OtherIDs   []PartyIdentifier

	BuildingNumber string
	StreetName     string
	District       string
	CityName       string
	PostalZone     string
	CountryCode    string

	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
