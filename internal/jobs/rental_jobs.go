package jobs

import (
	"context"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/notify"
)

const dateLayout = "2006-01-02"

// SendPendingRequestReminders nudges hosts about requests that are still
// pending while the requested start date is close.
func (jr *JobRunner) SendPendingRequestReminders() {
	jr.runWithRecovery("SendPendingRequestReminders", func() {
		sent, err := jr.remindPendingRequests(context.Background())
		if err != nil {
			logger.Error("Failed to send pending request reminders", "error", err)
			return
		}
		logger.Info("Sent pending request reminders", "count", sent)
	})
}

// SendUpcomingRentalReminders tells renters their confirmed rental starts tomorrow.
func (jr *JobRunner) SendUpcomingRentalReminders() {
	jr.runWithRecovery("SendUpcomingRentalReminders", func() {
		sent, err := jr.remindUpcomingRentals(context.Background())
		if err != nil {
			logger.Error("Failed to send upcoming rental reminders", "error", err)
			return
		}
		logger.Info("Sent upcoming rental reminders", "count", sent)
	})
}

func (jr *JobRunner) remindPendingRequests(ctx context.Context) (int, error) {
	today := jr.now().UTC()
	window := jr.config.Scheduler.PendingReminderWindowDays
	from := today.Format(dateLayout)
	to := today.AddDate(0, 0, window).Format(dateLayout)

	rentals, err := jr.rentals.ListStartingBetween(ctx, domain.RentalStatusPending, from, to)
	if err != nil {
		return 0, err
	}
	return jr.deliver(ctx, rentals, notify.PendingRequestReminder), nil
}

func (jr *JobRunner) remindUpcomingRentals(ctx context.Context) (int, error) {
	tomorrow := jr.now().UTC().AddDate(0, 0, 1).Format(dateLayout)

	rentals, err := jr.rentals.ListStartingBetween(ctx, domain.RentalStatusConfirmed, tomorrow, tomorrow)
	if err != nil {
		return 0, err
	}
	return jr.deliver(ctx, rentals, notify.UpcomingRentalReminder), nil
}

// deliver sends one message per rental and returns how many went out.
// A failed delivery is logged and does not stop the batch.
func (jr *JobRunner) deliver(ctx context.Context, rentals []domain.Rental, build func(domain.Rental) notify.Message) int {
	sent := 0
	for _, r := range rentals {
		msg := build(r)
		if err := jr.notifier.Notify(ctx, msg); err != nil {
			logger.Warn("Failed to send reminder", "rental_id", r.ID, "user_id", msg.UserID, "error", err)
			continue
		}
		logger.Debug("Sent reminder", "rental_id", r.ID, "user_id", msg.UserID, "title", msg.Title)
		sent++
	}
	return sent
}
