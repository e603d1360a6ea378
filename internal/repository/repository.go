package repository

import (
	"context"
	"errors"

	"encore-rentals/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a conditional write matched no row because the
	// record no longer had the expected value.
	ErrConflict = errors.New("record was changed by another update")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile writes the mutable profile fields: name and avatar.
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// InstrumentQuery narrows a listing search. Zero values mean no restriction.
type InstrumentQuery struct {
	Category      string
	Search        string
	AvailableOnly bool
}

type InstrumentRepository interface {
	Create(ctx context.Context, inst *domain.Instrument) error
	GetByID(ctx context.Context, id string) (*domain.Instrument, error)
	List(ctx context.Context, q InstrumentQuery) ([]domain.Instrument, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Instrument, error)
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Instrument, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// UpdateStatus moves the rental from status from to status to and returns
	// the stored row. It writes nothing and returns ErrConflict when the stored
	// status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus) (*domain.Rental, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.Rental, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Rental, error)
	ListByInstrument(ctx context.Context, instrumentID string, statuses ...domain.RentalStatus) ([]domain.Rental, error)
	// ListStartingBetween returns rentals in status whose start date lies in
	// [from, to], both yyyy-mm-dd.
	ListStartingBetween(ctx context.Context, status domain.RentalStatus, from, to string) ([]domain.Rental, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByRental(ctx context.Context, rentalID string) (*domain.Review, error)
}

type DeviceTokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.DeviceToken, error)
}
