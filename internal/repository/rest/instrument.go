package rest

import (
	"context"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/repository"
)

type instrumentRepository struct {
	t Table
}

func NewInstrumentRepository(t Table) repository.InstrumentRepository {
	return &instrumentRepository{t: t}
}

func (r *instrumentRepository) Create(ctx context.Context, inst *domain.Instrument) error {
	return r.t.Insert(ctx, tableInstruments, inst, inst)
}

func (r *instrumentRepository) GetByID(ctx context.Context, id string) (*domain.Instrument, error) {
	return fetchOne[domain.Instrument](ctx, r.t, tableInstruments, id)
}

func (r *instrumentRepository) List(ctx context.Context, q repository.InstrumentQuery) ([]domain.Instrument, error) {
	f := gateway.Where()
	if q.Category != "" && q.Category != domain.CategoryAll {
		f.Eq("category", q.Category)
	}
	if q.Search != "" {
		pattern := gateway.Quote("*" + q.Search + "*")
		f.Or("name.ilike."+pattern, "category.ilike."+pattern)
	}
	if q.AvailableOnly {
		f.Eq("is_available", true)
	}
	f.Order("name", true)

	var out []domain.Instrument
	if err := r.t.Fetch(ctx, tableInstruments, f, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *instrumentRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Instrument, error) {
	var out []domain.Instrument
	err := r.t.Fetch(ctx, tableInstruments, gateway.Where().Eq("host_id", hostID).Order("name", true), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *instrumentRepository) SetAvailability(ctx context.Context, id string, available bool) (*domain.Instrument, error) {
	var inst domain.Instrument
	if err := r.t.Update(ctx, tableInstruments, id, map[string]any{"is_available": available}, &inst); err != nil {
		return nil, notFound(err)
	}
	return &inst, nil
}
