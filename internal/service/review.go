package service

import (
	"context"
	"errors"
	"strings"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	rentalRepo repository.RentalRepository
	userRepo   repository.UserRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, rentalRepo repository.RentalRepository, userRepo repository.UserRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, rentalRepo: rentalRepo, userRepo: userRepo}
}

// Submit stores the renter's review of a completed rental. A rental takes at
// most one review.
func (s *reviewService) Submit(ctx context.Context, renterID, rentalID string, rating int, comment string) (*domain.Review, error) {
	if rating < domain.MinReviewRating || rating > domain.MaxReviewRating {
		return nil, ErrInvalidRating
	}
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != renterID {
		return nil, ErrNotRenter
	}
	if rt.Status != domain.RentalStatusCompleted {
		return nil, ErrRentalNotCompleted
	}

	_, err = s.reviewRepo.GetByRental(ctx, rentalID)
	switch {
	case err == nil:
		return nil, ErrReviewExists
	case !isNotFound(err):
		return nil, err
	}

	reviewer := "Anonymous"
	if u, err := s.userRepo.GetByID(ctx, renterID); err == nil && u.Name != "" {
		reviewer = u.Name
	}

	review := &domain.Review{
		RentalID:     rentalID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
		ReviewerName: reviewer,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ForRental(ctx context.Context, rentalID string) (*domain.Review, error) {
	return s.reviewRepo.GetByRental(ctx, rentalID)
}
