package lifecycle

import (
	"errors"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/pricing"
)

var ErrMissingRenter = errors.New("renter id is required")

// BookingRequest is what a renter submits from the instrument page.
type BookingRequest struct {
	RenterID  string
	StartDate string // yyyy-mm-dd
	EndDate   string
}

// Book builds a pending rental for inst. The instrument name and emoji are
// copied onto the rental and the total includes the service fee.
func Book(inst *domain.Instrument, req BookingRequest) (domain.Rental, pricing.Quote, error) {
	if req.RenterID == "" {
		return domain.Rental{}, pricing.Quote{}, ErrMissingRenter
	}

	quote, err := pricing.CalculateFromStrings(req.StartDate, req.EndDate, inst.PricePerDay)
	if err != nil {
		return domain.Rental{}, pricing.Quote{}, err
	}

	snap := inst.Snapshot()
	r := domain.Rental{
		InstrumentID:    inst.ID,
		RenterID:        req.RenterID,
		HostID:          inst.HostID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalPrice:      quote.Total,
		Status:          domain.RentalStatusPending,
		InstrumentName:  snap.Name,
		InstrumentEmoji: snap.Emoji,
	}
	return r, quote, nil
}
