package domain

import "github.com/shopspring/decimal"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusConfirmed RentalStatus = "confirmed"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusConfirmed, RentalStatusActive,
		RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// Blocking reports whether a rental in this status still holds its dates.
func (s RentalStatus) Blocking() bool {
	return s == RentalStatusPending || s == RentalStatusConfirmed || s == RentalStatusActive
}

type Rental struct {
	ID           string          `json:"id,omitempty"`
	InstrumentID string          `json:"instrument_id"`
	RenterID     string          `json:"renter_id"`
	HostID       string          `json:"host_id"`
	StartDate    string          `json:"start_date"` // yyyy-mm-dd
	EndDate      string          `json:"end_date"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       RentalStatus    `json:"status"`
	// Snapshot of the listing at booking time. Later listing edits do not
	// touch these.
	InstrumentName  string `json:"instrument_name"`
	InstrumentEmoji string `json:"instrument_emoji"`
}
