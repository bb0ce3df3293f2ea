package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

const userColumns = `id, email, name, role, fraud_score, blocked, created_on`

type userRepository struct {
	q DBTX
}

func NewUserRepository(q DBTX) repository.UserRepository {
	return &userRepository{q: q}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, name, role, fraud_score, blocked, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	u.CreatedOn = time.Now().UTC()
	err := r.q.QueryRowContext(ctx, query, u.Email, u.Name, u.Role, u.FraudScore, u.Blocked, u.CreatedOn).Scan(&u.ID)
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "email already registered")
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.FraudScore, &u.Blocked, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.q.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.FraudScore, &u.Blocked, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
