package repository

import "github.com/tu-usuario/backoffice-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}
