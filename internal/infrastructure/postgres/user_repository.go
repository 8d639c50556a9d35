package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/backoffice-api/internal/domain"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
	"github.com/tu-usuario/backoffice-api/internal/domain/repository"
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

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get user by id")
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM users WHERE email = $1 LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email), "get user by email")
}

// Update actualiza un usuario.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, role = $5, status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
