package lifecycle

import "encore-rentals/internal/domain"

// HostGroups partitions a host's bookings for the bookings screen.
// Every rental lands in exactly one bucket.
type HostGroups struct {
	Pending  []domain.Rental
	Upcoming []domain.Rental // confirmed or active
	Past     []domain.Rental // completed or cancelled
}

// RenterGroups partitions a renter's bookings for the "My Rentals" screen.
type RenterGroups struct {
	Current []domain.Rental // pending, confirmed or active
	History []domain.Rental // completed or cancelled
}

func GroupForHost(rentals []domain.Rental) HostGroups {
	var g HostGroups
	for _, r := range rentals {
		switch r.Status {
		case domain.RentalStatusPending:
			g.Pending = append(g.Pending, r)
		case domain.RentalStatusConfirmed, domain.RentalStatusActive:
			g.Upcoming = append(g.Upcoming, r)
		default:
			g.Past = append(g.Past, r)
		}
	}
	return g
}

func GroupForRenter(rentals []domain.Rental) RenterGroups {
	var g RenterGroups
	for _, r := range rentals {
		switch r.Status {
		case domain.RentalStatusPending, domain.RentalStatusConfirmed, domain.RentalStatusActive:
			g.Current = append(g.Current, r)
		default:
			g.History = append(g.History, r)
		}
	}
	return g
}
