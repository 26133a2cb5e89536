package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zurich_todo/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, username, email, password, first_name, last_name,
	is_active, last_login, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1 AND deleted_at IS NULL", id))
}

// GetByLogin resolves an active user by username or email, password hash
// included, for credential checks.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE (username = $1 OR email = $1) AND is_active AND deleted_at IS NULL`, login))
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET last_login = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		now, id)
	if err != nil {
		return fmt.Errorf("touch last_login: %w", err)
	}
	return nil
}
