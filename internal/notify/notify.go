// Package notify delivers booking notifications to users by email and push.
package notify

import (
	"context"
	"errors"
	"fmt"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
)

// Message is addressed to a user; each Notifier resolves the user to its own
// channel (email address, device tokens).
type Message struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send delivers msg and logs a failure instead of returning it. Booking flows
// use it so a mail outage never fails the booking itself.
func Send(ctx context.Context, n Notifier, msg Message) {
	if n == nil || msg.UserID == "" {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		logger.Warn("Failed to deliver notification", "user_id", msg.UserID, "title", msg.Title, "error", err)
	}
}

func RentalRequested(r domain.Rental, renterName string) Message {
	return Message{
		UserID: r.HostID,
		Title:  "New Rental Request",
		Body:   fmt.Sprintf("%s requested to rent %s from %s to %s", renterName, r.InstrumentName, r.StartDate, r.EndDate),
		Data:   rentalData("RENTAL_REQUEST", r),
	}
}

func RentalApproved(r domain.Rental) Message {
	return Message{
		UserID: r.RenterID,
		Title:  "Rental Approved",
		Body:   fmt.Sprintf("Your request for %s starting %s was approved", r.InstrumentName, r.StartDate),
		Data:   rentalData("RENTAL_APPROVED", r),
	}
}

func RentalDeclined(r domain.Rental) Message {
	return Message{
		UserID: r.RenterID,
		Title:  "Rental Declined",
		Body:   fmt.Sprintf("Your request for %s starting %s was declined", r.InstrumentName, r.StartDate),
		Data:   rentalData("RENTAL_DECLINED", r),
	}
}

func PendingRequestReminder(r domain.Rental) Message {
	return Message{
		UserID: r.HostID,
		Title:  "Booking Request Waiting",
		Body:   fmt.Sprintf("A request for %s starting %s is still waiting for your answer", r.InstrumentName, r.StartDate),
		Data:   rentalData("PENDING_REMINDER", r),
	}
}

func UpcomingRentalReminder(r domain.Rental) Message {
	return Message{
		UserID: r.RenterID,
		Title:  "Rental Starts Soon",
		Body:   fmt.Sprintf("Your rental of %s starts on %s", r.InstrumentName, r.StartDate),
		Data:   rentalData("UPCOMING_REMINDER", r),
	}
}

func rentalData(kind string, r domain.Rental) map[string]string {
	return map[string]string{"type": kind, "rental_id": r.ID, "instrument_id": r.InstrumentID}
}
