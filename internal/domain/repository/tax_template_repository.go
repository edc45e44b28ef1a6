package repository

import "zatca-pro/internal/domain/entity"

// TaxTemplateRepository defines the persistence port for tax templates.
type TaxTemplateRepository interface {
	Create(template *entity.TaxTemplate) error
	GetByID(id string) (*entity.TaxTemplate, error)
	ListBySettings(settingsID string) ([]*entity.TaxTemplate, error)
}
