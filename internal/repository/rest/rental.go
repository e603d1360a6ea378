package rest

import (
	"context"
	"errors"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/repository"
)

type rentalRepository struct {
	t Table
}

func NewRentalRepository(t Table) repository.RentalRepository {
	return &rentalRepository{t: t}
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	return r.t.Insert(ctx, tableRentals, rental, rental)
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	return fetchOne[domain.Rental](ctx, r.t, tableRentals, id)
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RentalStatus) (*domain.Rental, error) {
	var rental domain.Rental
	f := gateway.Where().Eq("id", id).Eq("status", from)
	if err := r.t.UpdateWhere(ctx, tableRentals, f, map[string]any{"status": to}, &rental); err != nil {
		if errors.Is(err, gateway.ErrNoRows) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Rental, error) {
	return r.list(ctx, gateway.Where().Eq("renter_id", renterID).Order("start_date", false))
}

func (r *rentalRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Rental, error) {
	return r.list(ctx, gateway.Where().Eq("host_id", hostID).Order("start_date", false))
}

func (r *rentalRepository) ListByInstrument(ctx context.Context, instrumentID string, statuses ...domain.RentalStatus) ([]domain.Rental, error) {
	f := gateway.Where().Eq("instrument_id", instrumentID)
	if len(statuses) > 0 {
		f.In("status", statusStrings(statuses)...)
	}
	return r.list(ctx, f.Order("start_date", true))
}

func (r *rentalRepository) ListStartingBetween(ctx context.Context, status domain.RentalStatus, from, to string) ([]domain.Rental, error) {
	f := gateway.Where().Eq("status", status).Gte("start_date", from).Lte("start_date", to).Order("start_date", true)
	return r.list(ctx, f)
}

func (r *rentalRepository) list(ctx context.Context, f *gateway.Filter) ([]domain.Rental, error) {
	var out []domain.Rental
	if err := r.t.Fetch(ctx, tableRentals, f, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func statusStrings(statuses []domain.RentalStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
