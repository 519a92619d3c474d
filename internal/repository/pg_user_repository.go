package repository

import (
	"context"
	"errors"
	"time"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var _ UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	logger *zap.Logger
}

// NewPgUserRepository creates a new repository instance.
func NewPgUserRepository(logger *zap.Logger) UserRepository {
	return &pgUserRepository{logger: logger.Named("PgUserRepo")}
}

const createUserQuery = `
INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`

const getUserByUsernameQuery = `
SELECT id, username, email, password_hash, created_at, updated_at
FROM users
WHERE username = $1`

const getUserByIDQuery = `
SELECT id, username, email, password_hash, created_at, updated_at
FROM users
WHERE id = $1`

func (r *pgUserRepository) Create(ctx context.Context, q DBTX, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := q.Exec(ctx, createUserQuery, user.ID, user.Username, user.Email, user.PasswordHash, now)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation; различаем username и email по имени констрейнта
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return models.ErrEmailAlreadyExists
			}
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, q DBTX, username string) (*models.User, error) {
	return r.scanUser(ctx, q, getUserByUsernameQuery, username)
}

func (r *pgUserRepository) GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.User, error) {
	return r.scanUser(ctx, q, getUserByIDQuery, id)
}

func (r *pgUserRepository) scanUser(ctx context.Context, q DBTX, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, err
	}
	return user, nil
}
