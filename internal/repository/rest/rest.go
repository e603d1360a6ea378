// Package rest implements the repositories over the backend's table API.
package rest

import (
	"context"
	"errors"

	"encore-rentals/internal/gateway"
	"encore-rentals/internal/repository"
)

const (
	tableUsers       = "users"
	tableInstruments = "instruments"
	tableRentals     = "rentals"
	tableReviews     = "reviews"
	tableDevices     = "device_tokens"
)

// Table is the gateway surface the repositories use.
type Table interface {
	Fetch(ctx context.Context, table string, f *gateway.Filter, out any) error
	Insert(ctx context.Context, table string, row any, out any) error
	Update(ctx context.Context, table, id string, patch any, out any) error
	UpdateWhere(ctx context.Context, table string, f *gateway.Filter, patch any, out any) error
}

type Store struct {
	repository.UserRepository
	repository.InstrumentRepository
	repository.RentalRepository
	repository.ReviewRepository
	repository.DeviceTokenRepository
}

func NewStore(t Table) *Store {
	return &Store{
		UserRepository:        NewUserRepository(t),
		InstrumentRepository:  NewInstrumentRepository(t),
		RentalRepository:      NewRentalRepository(t),
		ReviewRepository:      NewReviewRepository(t),
		DeviceTokenRepository: NewDeviceTokenRepository(t),
	}
}

// fetchOne reads the single row matching id.
func fetchOne[T any](ctx context.Context, t Table, table, id string) (*T, error) {
	var rows []T
	if err := t.Fetch(ctx, table, gateway.Where().Eq("id", id).Limit(1), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

func notFound(err error) error {
	if errors.Is(err, gateway.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
