package dto

// CreateTaxTemplateRequest configures a tax treatment attachable to
// invoice items or whole documents. CategoryLabel follows the
// "{Category} || {Reason}" grammar.
type CreateTaxTemplateRequest struct {
	Title         string  `json:"title"`
	Rate          float64 `json:"rate"`
	CategoryLabel string  `json:"category_label,omitempty"`
	CustomReason  string  `json:"custom_reason,omitempty"`
}

// TaxTemplateResponse is the tax template view, with the resolved
// category code and exemption reason code.
type TaxTemplateResponse struct {
	ID            string  `json:"id"`
	SettingsID    string  `json:"settings_id"`
	Title         string  `json:"title"`
	Rate          float64 `json:"rate"`
	CategoryLabel string  `json:"category_label,omitempty"`
	CustomReason  string  `json:"custom_reason,omitempty"`
	CategoryCode  string  `json:"category_code"`
	ReasonCode    string  `json:"reason_code,omitempty"`
}
