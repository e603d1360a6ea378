package rest

import (
	"context"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/repository"
)

type reviewRepository struct {
	t Table
}

func NewReviewRepository(t Table) repository.ReviewRepository {
	return &reviewRepository{t: t}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.t.Insert(ctx, tableReviews, review, review); err != nil {
		if gateway.IsConflict(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByRental(ctx context.Context, rentalID string) (*domain.Review, error) {
	var rows []domain.Review
	if err := r.t.Fetch(ctx, tableReviews, gateway.Where().Eq("rental_id", rentalID).Limit(1), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

type deviceTokenRepository struct {
	t Table
}

func NewDeviceTokenRepository(t Table) repository.DeviceTokenRepository {
	return &deviceTokenRepository{t: t}
}

func (r *deviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	var out []domain.DeviceToken
	if err := r.t.Fetch(ctx, tableDevices, gateway.Where().Eq("user_id", userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
