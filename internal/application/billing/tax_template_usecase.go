package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
	domzatca "zatca-pro/internal/domain/zatca"
)

// TaxTemplateUseCase manages the taxpayer's tax treatment templates.
type TaxTemplateUseCase struct {
	repo repository.TaxTemplateRepository
}

// NewTaxTemplateUseCase builds the use case.
func NewTaxTemplateUseCase(repo repository.TaxTemplateRepository) *TaxTemplateUseCase {
	return &TaxTemplateUseCase{repo: repo}
}

// Create registers a tax template. The category label is resolved at
// configuration time so misconfiguration surfaces here, not during
// invoice assembly.
func (uc *TaxTemplateUseCase) Create(settingsID string, in dto.CreateTaxTemplateRequest) (*dto.TaxTemplateResponse, error) {
	if in.Title == "" || in.Rate < 0 {
		return nil, domain.ErrInvalidInput
	}
	rate := decimal.NewFromFloat(in.Rate)
	cat, err := domzatca.ResolveCategory(in.CategoryLabel, in.CustomReason, rate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	template := &entity.TaxTemplate{
		ID:            uuid.New().String(),
		SettingsID:    settingsID,
		Title:         in.Title,
		Rate:          rate,
		CategoryLabel: in.CategoryLabel,
		CustomReason:  in.CustomReason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(template); err != nil {
		return nil, err
	}
	return toTaxTemplateResponse(template, cat), nil
}

// Get returns one tax template, enforcing taxpayer ownership.
func (uc *TaxTemplateUseCase) Get(settingsID, templateID string) (*dto.TaxTemplateResponse, error) {
	template, err := uc.repo.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, domain.ErrNotFound
	}
	if template.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	cat, err := domzatca.ResolveCategory(template.CategoryLabel, template.CustomReason, template.Rate)
	if err != nil {
		return nil, err
	}
	return toTaxTemplateResponse(template, cat), nil
}

// List returns the taxpayer's tax templates. Templates whose label no
// longer resolves are reported with an empty category code rather than
// failing the whole listing.
func (uc *TaxTemplateUseCase) List(settingsID string) ([]*dto.TaxTemplateResponse, error) {
	list, err := uc.repo.ListBySettings(settingsID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TaxTemplateResponse, 0, len(list))
	for _, t := range list {
		cat, err := domzatca.ResolveCategory(t.CategoryLabel, t.CustomReason, t.Rate)
		if err != nil {
			cat = domzatca.Category{}
		}
		out = append(out, toTaxTemplateResponse(t, cat))
	}
	return out, nil
}

func toTaxTemplateResponse(t *entity.TaxTemplate, cat domzatca.Category) *dto.TaxTemplateResponse {
	rate, _ := t.Rate.Float64()
	return &dto.TaxTemplateResponse{
		ID:            t.ID,
		SettingsID:    t.SettingsID,
		Title:         t.Title,
		Rate:          rate,
		CategoryLabel: t.CategoryLabel,
		CustomReason:  t.CustomReason,
		CategoryCode:  cat.Code,
		ReasonCode:    cat.ReasonCode,
	}
}
