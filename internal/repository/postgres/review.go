package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create relies on the unique index on reviews.rental_id for the one review
// per rental rule; a second review returns ErrConflict.
func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (rental_id, rating, comment, reviewer_name, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rv.RentalID, rv.Rating, rv.Comment, rv.ReviewerName, time.Now()).Scan(&rv.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

func (r *reviewRepository) GetByRental(ctx context.Context, rentalID string) (*domain.Review, error) {
	rv := &domain.Review{}
	query := `SELECT id, rental_id, rating, COALESCE(comment, ''), COALESCE(reviewer_name, '') FROM reviews WHERE rental_id = $1`
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(&rv.ID, &rv.RentalID, &rv.Rating, &rv.Comment, &rv.ReviewerName)
	if err != nil {
		return nil, notFound(err)
	}
	return rv, nil
}

type deviceTokenRepository struct {
	db *sql.DB
}

func NewDeviceTokenRepository(db *sql.DB) repository.DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

func (r *deviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	query := `SELECT id, user_id, token, platform FROM device_tokens WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.DeviceToken
	for rows.Next() {
		var t domain.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
