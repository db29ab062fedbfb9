package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Login repetido es domain.ErrConstraint.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (login, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	u := *user
	err := r.q.QueryRow(ctx, query, u.Login, u.Name, u.Email, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Constraint(fmt.Errorf("login %q já cadastrado: %w", u.Login, err))
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// FindByLogin busca un usuario por login; nil si no existe.
func (r *UserRepo) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	query := `
		SELECT id, login, name, email, password_hash, created_at
		FROM users WHERE login = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
