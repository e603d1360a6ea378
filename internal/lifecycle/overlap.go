package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/pricing"
)

var ErrBookingConflict = errors.New("instrument is already booked for these dates")

// BookingValidator decides whether a candidate rental may be stored given the
// existing rentals of the same instrument.
type BookingValidator interface {
	Validate(ctx context.Context, candidate domain.Rental, existing []domain.Rental) error
}

// AllowAll accepts every booking.
type AllowAll struct{}

func (AllowAll) Validate(context.Context, domain.Rental, []domain.Rental) error { return nil }

// NoOverlap rejects a candidate whose date range intersects any rental of the
// same instrument that still holds its dates (pending, confirmed or active).
// Ranges are half-open [start, end); a same-day range occupies one day.
type NoOverlap struct{}

func (NoOverlap) Validate(_ context.Context, candidate domain.Rental, existing []domain.Rental) error {
	cs, ce, err := span(candidate)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.ID != "" && r.ID == candidate.ID {
			continue
		}
		if r.InstrumentID != candidate.InstrumentID || !r.Status.Blocking() {
			continue
		}
		rs, re, err := span(r)
		if err != nil {
			continue
		}
		if cs.Before(re) && rs.Before(ce) {
			return fmt.Errorf("%w: overlaps rental %s (%s to %s)", ErrBookingConflict, r.ID, r.StartDate, r.EndDate)
		}
	}
	return nil
}

func span(r domain.Rental) (time.Time, time.Time, error) {
	start, err := pricing.ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := pricing.ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	return start, start.AddDate(0, 0, pricing.Days(start, end)), nil
}
