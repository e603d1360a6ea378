package service_test

import (
	"context"
	"testing"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/repository"
	"encore-rentals/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()
	completed := &domain.Rental{ID: "rent-1", RenterID: "r1", HostID: "h1", Status: domain.RentalStatusCompleted}

	t.Run("Success", func(t *testing.T) {
		reviews := new(MockReviewRepo)
		rentals := new(MockRentalRepo)
		users := new(MockUserRepo)
		svc := service.NewReviewService(reviews, rentals, users)

		rentals.On("GetByID", ctx, "rent-1").Return(completed, nil)
		reviews.On("GetByRental", ctx, "rent-1").Return(nil, repository.ErrNotFound)
		users.On("GetByID", ctx, "r1").Return(&domain.User{ID: "r1", Name: "Ada"}, nil)
		reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

		rv, err := svc.Submit(ctx, "r1", "rent-1", 5, " Lovely tone ")
		require.NoError(t, err)
		assert.Equal(t, "Ada", rv.ReviewerName)
		assert.Equal(t, "Lovely tone", rv.Comment)
	})

	t.Run("Already reviewed", func(t *testing.T) {
		reviews := new(MockReviewRepo)
		rentals := new(MockRentalRepo)
		svc := service.NewReviewService(reviews, rentals, new(MockUserRepo))

		rentals.On("GetByID", ctx, "rent-1").Return(completed, nil)
		reviews.On("GetByRental", ctx, "rent-1").Return(&domain.Review{ID: "rv1"}, nil)

		_, err := svc.Submit(ctx, "r1", "rent-1", 4, "")
		assert.ErrorIs(t, err, service.ErrReviewExists)
	})

	t.Run("Review stored concurrently", func(t *testing.T) {
		reviews := new(MockReviewRepo)
		rentals := new(MockRentalRepo)
		users := new(MockUserRepo)
		svc := service.NewReviewService(reviews, rentals, users)

		rentals.On("GetByID", ctx, "rent-1").Return(completed, nil)
		reviews.On("GetByRental", ctx, "rent-1").Return(nil, repository.ErrNotFound)
		users.On("GetByID", ctx, "r1").Return(&domain.User{ID: "r1", Name: "Ada"}, nil)
		reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(repository.ErrConflict)

		_, err := svc.Submit(ctx, "r1", "rent-1", 5, "")
		assert.ErrorIs(t, err, service.ErrReviewExists)
	})

	t.Run("Not completed", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		svc := service.NewReviewService(new(MockReviewRepo), rentals, new(MockUserRepo))
		rentals.On("GetByID", ctx, "rent-2").Return(&domain.Rental{ID: "rent-2", RenterID: "r1", Status: domain.RentalStatusActive}, nil)

		_, err := svc.Submit(ctx, "r1", "rent-2", 4, "")
		assert.ErrorIs(t, err, service.ErrRentalNotCompleted)
	})

	t.Run("Someone else's rental", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		svc := service.NewReviewService(new(MockReviewRepo), rentals, new(MockUserRepo))
		rentals.On("GetByID", ctx, "rent-1").Return(completed, nil)

		_, err := svc.Submit(ctx, "r2", "rent-1", 4, "")
		assert.ErrorIs(t, err, service.ErrNotRenter)
	})

	t.Run("Rating out of range", func(t *testing.T) {
		svc := service.NewReviewService(new(MockReviewRepo), new(MockRentalRepo), new(MockUserRepo))
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Submit(ctx, "r1", "rent-1", rating, "")
			assert.ErrorIs(t, err, service.ErrInvalidRating)
		}
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	svc := service.NewUserService(users)

	users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Old", Email: "u@example.com", Role: domain.RoleHost}, nil)
	users.On("UpdateProfile", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "New" && u.Email == "u@example.com" && u.Role == domain.RoleHost
	})).Return(nil)

	u, err := svc.UpdateProfile(ctx, "u1", " New ", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "New", u.Name)

	_, err = svc.UpdateProfile(ctx, "u1", "   ", "")
	assert.Error(t, err)
}
