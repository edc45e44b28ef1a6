package repository

import "zatca-pro/internal/domain/entity"

// BusinessSettingsRepository defines the persistence port for taxpayer
// settings (including the seller's other-ID list).
type BusinessSettingsRepository interface {
	Create(settings *entity.BusinessSettings) error
	Update(settings *entity.BusinessSettings) error
	GetByID(id string) (*entity.BusinessSettings, error)
	List() ([]*entity.BusinessSettings, error)
}
