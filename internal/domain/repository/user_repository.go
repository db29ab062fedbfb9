package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	// FindByLogin devuelve nil, nil si no existe.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
	Count(ctx context.Context) (int, error)
}
