package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxTemplate represents a configured tax treatment attachable to items or
// whole documents. CategoryLabel follows the "{Category} || {Reason}"
// grammar; when the reason part is the manual-entry sentinel, CustomReason
// carries the free-text reason instead.
type TaxTemplate struct {
	ID            string
	SettingsID    string
	Title         string
	Rate          decimal.Decimal // percent, e.g. 15
	CategoryLabel string
	CustomReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
