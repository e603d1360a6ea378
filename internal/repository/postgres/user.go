package postgres

import (
	"context"
	"database/sql"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, name, email, role, avatar_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now()
	logger.DatabaseCall("INSERT", "users", "user_id", u.ID)
	res, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Role, u.AvatarURL, now, now)
	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	logger.DatabaseResult("INSERT", affected, err)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, role, COALESCE(avatar_url, '') FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AvatarURL)
	if err != nil {
		return nil, notFound(err)
	}
	u.Role = domain.ParseRole(string(u.Role))
	return u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, avatar_url=$2, updated_at=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, u.Name, u.AvatarURL, time.Now(), u.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
