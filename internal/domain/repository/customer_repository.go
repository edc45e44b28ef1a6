package repository

import "zatca-pro/internal/domain/entity"

// CustomerRepository defines the persistence port for buyers.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	Update(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListBySettings(settingsID string) ([]*entity.Customer, error)
}
