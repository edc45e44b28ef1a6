package repository

import "zatca-pro/internal/domain/entity"

// UserRepository defines the persistence port for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
