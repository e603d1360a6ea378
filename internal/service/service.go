package service

import (
	"context"
	"errors"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/lifecycle"
	"encore-rentals/internal/pricing"
)

var (
	ErrNotOwner              = errors.New("only the listing's host may do this")
	ErrInstrumentUnavailable = errors.New("instrument is not available for booking")
	ErrOwnInstrument         = errors.New("hosts cannot book their own instrument")
	ErrRentalNotCompleted    = errors.New("only completed rentals can be reviewed")
	ErrReviewExists          = errors.New("rental already has a review")
	ErrNotRenter             = errors.New("only the renter may review this rental")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
)

type RentalService interface {
	Book(ctx context.Context, renterID, instrumentID, startDate, endDate string) (*domain.Rental, pricing.Quote, error)
	Approve(ctx context.Context, hostID, rentalID string) (*domain.Rental, error)
	Decline(ctx context.Context, hostID, rentalID string) (*domain.Rental, error)
	Start(ctx context.Context, hostID, rentalID string) (*domain.Rental, error)
	Complete(ctx context.Context, hostID, rentalID string) (*domain.Rental, error)
	ListForHost(ctx context.Context, hostID string) (lifecycle.HostGroups, error)
	ListForRenter(ctx context.Context, renterID string) (lifecycle.RenterGroups, error)
}

type InstrumentService interface {
	Browse(ctx context.Context, category, search string) ([]domain.Instrument, error)
	Get(ctx context.Context, id string) (*domain.Instrument, error)
	AddListing(ctx context.Context, hostID string, in ListingInput) (*domain.Instrument, error)
	ToggleAvailability(ctx context.Context, hostID, instrumentID string) (*domain.Instrument, error)
	ListForHost(ctx context.Context, hostID string) ([]domain.Instrument, error)
}

type ReviewService interface {
	Submit(ctx context.Context, renterID, rentalID string, rating int, comment string) (*domain.Review, error)
	ForRental(ctx context.Context, rentalID string) (*domain.Review, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, avatarURL string) (*domain.User, error)
}

type DashboardService interface {
	HostDashboard(ctx context.Context, hostID string) (*HostDashboard, error)
}
