// Package lifecycle holds the rental state machine and the status groupings
// used by the host and renter booking lists.
package lifecycle

import (
	"errors"
	"fmt"

	"encore-rentals/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid rental status transition")

var transitions = map[domain.RentalStatus]map[domain.RentalStatus]struct{}{
	domain.RentalStatusPending: {
		domain.RentalStatusConfirmed: {},
		domain.RentalStatusCancelled: {},
	},
	domain.RentalStatusConfirmed: {
		domain.RentalStatusActive:    {},
		domain.RentalStatusCancelled: {},
	},
	domain.RentalStatusActive: {
		domain.RentalStatusCompleted: {},
	},
	domain.RentalStatusCompleted: {},
	domain.RentalStatusCancelled: {},
}

// CanTransition reports whether a rental may move from one status to another.
// Staying in the same status is not a transition.
func CanTransition(from, to domain.RentalStatus) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Transition returns a copy of r in status to. On an illegal move the
// original rental is returned unchanged together with ErrInvalidTransition.
// No field other than Status is ever modified.
func Transition(r domain.Rental, to domain.RentalStatus) (domain.Rental, error) {
	if !CanTransition(r.Status, to) {
		return r, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	return r, nil
}

// Approve confirms a pending request.
func Approve(r domain.Rental) (domain.Rental, error) {
	if r.Status != domain.RentalStatusPending {
		return r, fmt.Errorf("%w: only pending requests can be approved (status %s)", ErrInvalidTransition, r.Status)
	}
	return Transition(r, domain.RentalStatusConfirmed)
}

// Decline cancels a pending request.
func Decline(r domain.Rental) (domain.Rental, error) {
	if r.Status != domain.RentalStatusPending {
		return r, fmt.Errorf("%w: only pending requests can be declined (status %s)", ErrInvalidTransition, r.Status)
	}
	return Transition(r, domain.RentalStatusCancelled)
}

func Activate(r domain.Rental) (domain.Rental, error) {
	return Transition(r, domain.RentalStatusActive)
}

func Complete(r domain.Rental) (domain.Rental, error) {
	return Transition(r, domain.RentalStatusCompleted)
}
